package media

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/devomil/pinehill-video/internal/script"
)

// Manifest lists the already-resolved media to preload per section type.
// Provider selection and AI generation happen upstream; by the time a
// manifest reaches the compositor every entry is a concrete URL or path.
type Manifest struct {
	Items []ManifestItem `yaml:"media"`
}

type ManifestItem struct {
	Section string `yaml:"section"`
	Image   string `yaml:"image,omitempty"`
	Video   string `yaml:"video,omitempty"`
	PDF     string `yaml:"pdf,omitempty"`
}

// ReadManifest loads a YAML media manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("разбор манифеста %s: %w", path, err)
	}
	return &m, nil
}

// PreloadOptions bounds the preload work.
type PreloadOptions struct {
	Timeout       time.Duration // per item; a hung fetch must not stall the render
	Concurrency   int
	ClipFPS       int // sampling rate for looping clips
	MaxClipFrames int // memory budget for one clip's frame ring
	Width         int
	Height        int
}

// Preload resolves every manifest item in parallel and attaches the results.
// A failed item is logged and skipped: the section falls back to its themed
// gradient at render time. Only a cancelled context aborts the preload.
func (a *Attachments) Preload(ctx context.Context, m *Manifest, opts PreloadOptions) error {
	if m == nil || len(m.Items) == 0 {
		return nil
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.ClipFPS <= 0 {
		opts.ClipFPS = 12
	}
	if opts.MaxClipFrames <= 0 {
		opts.MaxClipFrames = 120
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for _, item := range m.Items {
		g.Go(func() error {
			itemCtx, cancel := context.WithTimeout(gctx, opts.Timeout)
			defer cancel()

			asset, err := loadItem(itemCtx, item, opts)
			if err != nil {
				// Ресурсные ошибки не прерывают рендер: секция получит
				// градиентный фон.
				log.Printf("[!] Медиа для секции %q не загружено: %v", item.Section, err)
				return nil
			}
			a.Attach(script.SectionType(item.Section), asset)
			return nil
		})
	}
	return g.Wait()
}

func loadItem(ctx context.Context, item ManifestItem, opts PreloadOptions) (*Asset, error) {
	asset := &Asset{}

	switch {
	case item.Video != "":
		clip, err := extractClip(ctx, item.Video, opts)
		if err != nil {
			return nil, err
		}
		asset.Clip = clip
	case item.PDF != "":
		img, err := rasterizePDF(ctx, item.PDF)
		if err != nil {
			return nil, err
		}
		asset.Still = img
	case item.Image != "":
		img, err := loadStill(ctx, item.Image)
		if err != nil {
			return nil, err
		}
		asset.Still = img
	default:
		return nil, fmt.Errorf("в манифесте нет ни image, ни video, ни pdf")
	}
	return asset, nil
}

// loadStill decodes a still image from a local path or an http(s) URL.
func loadStill(ctx context.Context, ref string) (image.Image, error) {
	var r io.ReadCloser
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("http %d for %s", resp.StatusCode, ref)
		}
		r = resp.Body
	} else {
		f, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return img, nil
}

// rasterizePDF renders the first page of a brand one-pager as a still.
func rasterizePDF(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("в PDF %s нет страниц", path)
	}
	return doc.ImageDPI(0, 150)
}

// extractClip pre-samples a looping video clip to PNG frames via ffmpeg and
// loads them into memory. This is the offline analog of an autoplaying
// looping <video> element: the frame loop later samples, never advances.
func extractClip(ctx context.Context, path string, opts PreloadOptions) (*Clip, error) {
	tmpDir, err := os.MkdirTemp("", "pinehill_clip_")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	pattern := filepath.Join(tmpDir, "f%05d.png")
	scale := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		opts.Width, opts.Height, opts.Width, opts.Height)

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-i", path,
		"-vf", scale,
		"-r", fmt.Sprintf("%d", opts.ClipFPS),
		"-frames:v", fmt.Sprintf("%d", opts.MaxClipFrames),
		pattern,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg frame extract error: %v, output: %s", err, string(out))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("ffmpeg не извлёк ни одного кадра из %s", path)
	}

	var frames []image.Image
	for _, name := range names {
		f, err := os.Open(filepath.Join(tmpDir, name))
		if err != nil {
			return nil, err
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode frame %s: %w", name, err)
		}
		frames = append(frames, img)
	}
	return NewClip(frames, float64(opts.ClipFPS)), nil
}
