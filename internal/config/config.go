package config

// Platform определяет целевую площадку публикации. От неё зависят
// разрешение, FPS и допустимые границы длительности ролика.
type Platform string

const (
	PlatformYouTube        Platform = "youtube"
	PlatformTikTok         Platform = "tiktok"
	PlatformInstagramReels Platform = "instagram_reels"
	PlatformInstagramFeed  Platform = "instagram_feed"
	PlatformLinkedIn       Platform = "linkedin"
	PlatformFacebook       Platform = "facebook"
)

// PlatformSpec describes the output constraints for one publishing platform.
type PlatformSpec struct {
	Width       int
	Height      int
	FPS         int
	MinDuration float64 // seconds
	MaxDuration float64 // seconds
}

var platformSpecs = map[Platform]PlatformSpec{
	PlatformYouTube:        {Width: 1920, Height: 1080, FPS: 30, MinDuration: 10, MaxDuration: 600},
	PlatformTikTok:         {Width: 1080, Height: 1920, FPS: 30, MinDuration: 15, MaxDuration: 180},
	PlatformInstagramReels: {Width: 1080, Height: 1920, FPS: 30, MinDuration: 15, MaxDuration: 90},
	PlatformInstagramFeed:  {Width: 1080, Height: 1080, FPS: 30, MinDuration: 3, MaxDuration: 60},
	PlatformLinkedIn:       {Width: 1920, Height: 1080, FPS: 30, MinDuration: 5, MaxDuration: 600},
	PlatformFacebook:       {Width: 1920, Height: 1080, FPS: 30, MinDuration: 5, MaxDuration: 240},
}

// SpecFor returns the spec for a platform. Unknown platforms map to YouTube
// so a typo in a flag still produces a usable render.
func SpecFor(p Platform) PlatformSpec {
	if spec, ok := platformSpecs[p]; ok {
		return spec
	}
	return platformSpecs[PlatformYouTube]
}

// KnownPlatform reports whether p names one of the supported platforms.
func KnownPlatform(p Platform) bool {
	_, ok := platformSpecs[p]
	return ok
}

// Enhancements — пользовательский набор улучшений рендера. Загружается из
// YAML или собирается из флагов CLI.
type Enhancements struct {
	Captions         bool    `yaml:"captions"`
	CaptionStyle     string  `yaml:"caption_style"` // tiktok, karaoke, modern, minimal, traditional
	ColorGrade       string  `yaml:"color_grade"`   // natural, warm, cool, vintage, vibrant, dramatic
	Music            bool    `yaml:"music"`
	MusicMood        string  `yaml:"music_mood"`
	MusicVolume      float64 `yaml:"music_volume"`
	PreferVideoClips bool    `yaml:"prefer_video_clips"`
}

// DefaultEnhancements возвращает стартовый набор: подписи в стиле tiktok,
// без цветокоррекции и музыки.
func DefaultEnhancements() Enhancements {
	return Enhancements{
		Captions:     true,
		CaptionStyle: "tiktok",
		ColorGrade:   "natural",
		MusicVolume:  0.3,
	}
}

type Config struct {
	ScriptPath     string
	OutputVideo    string
	Platform       Platform
	TargetDuration float64 // seconds; 0 means "use the compiled script estimate"
	Width          int
	Height         int
	FPS            int
	NarrationPath  string
	MediaManifest  string
	Realtime       bool
	Workers        int
	Enhancements   Enhancements
}

// ApplyPlatform заполняет разрешение и FPS из спецификации площадки,
// если они не были заданы явно.
func (c *Config) ApplyPlatform() {
	spec := SpecFor(c.Platform)
	if c.Width == 0 {
		c.Width = spec.Width
	}
	if c.Height == 0 {
		c.Height = spec.Height
	}
	if c.FPS == 0 {
		c.FPS = spec.FPS
	}
}
