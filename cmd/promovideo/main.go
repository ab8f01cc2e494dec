package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/devomil/pinehill-video/internal/config"
	"github.com/devomil/pinehill-video/internal/media"
	"github.com/devomil/pinehill-video/internal/render"
	"github.com/devomil/pinehill-video/internal/script"
	"github.com/devomil/pinehill-video/internal/subtitle"
	"github.com/devomil/pinehill-video/internal/system"
	"github.com/devomil/pinehill-video/internal/video"
)

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input/scripts", "input/audio", "input/media", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	inputPtr := flag.String("input", "", "Путь к тексту сценария (по умолчанию: самый свежий файл в input/scripts/)")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	platformPtr := flag.String("platform", "youtube", "Площадка: youtube, tiktok, instagram_reels, instagram_feed, linkedin, facebook")
	durationPtr := flag.Float64("duration", 0, "Целевая длительность видео в секундах (0 - по оценке сценария или озвучке)")
	fpsPtr := flag.Int("fps", 0, "FPS (0 - по площадке)")
	narrationPtr := flag.String("narration", "", "Путь к озвучке (по умолчанию: самый свежий файл в input/audio/)")
	mediaPtr := flag.String("media", "", "YAML-манифест медиа по секциям (по умолчанию: input/media/manifest.yaml, если есть)")
	optionsPtr := flag.String("options", "", "YAML-файл с настройками улучшений")
	dumpOptionsPtr := flag.String("dump-options", "", "Сохранить итоговые настройки улучшений в YAML и продолжить")
	captionsPtr := flag.Bool("captions", true, "Рисовать субтитры")
	captionStylePtr := flag.String("caption-style", "tiktok", "Стиль субтитров: tiktok, karaoke, modern, minimal, traditional")
	gradePtr := flag.String("grade", "natural", "Цветокоррекция: natural, warm, cool, vintage, vibrant, dramatic")
	preferClipsPtr := flag.Bool("prefer-clips", false, "Предпочитать видеоклипы статичным изображениям")
	realtimePtr := flag.Bool("realtime", false, "Рендерить в реальном времени (такт ~1000/fps мс на кадр)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки загрузки медиа")

	flag.Parse()

	ctx := context.Background()

	if !video.HasEncoder(ctx, "libvpx") {
		log.Fatalf("[-] Ошибка: ffmpeg без поддержки libvpx (VP8/WebM). Установите полную сборку ffmpeg")
	}

	inputPath := *inputPtr
	if inputPath == "" {
		latest, err := system.FindLatestScript("input/scripts")
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите текст сценария в input/scripts/", err)
		}
		inputPath = latest
		fmt.Printf("[*] Выбран сценарий: %s\n", inputPath)
	}

	rawBytes, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения сценария: %v", err)
	}

	platform := config.Platform(strings.ToLower(*platformPtr))
	if !config.KnownPlatform(platform) {
		log.Printf("[!] Неизвестная площадка %q, используется youtube", *platformPtr)
		platform = config.PlatformYouTube
	}

	// Озвучка: если длительность не задана явно, синхронизируемся с аудио
	narrationPath := *narrationPtr
	if narrationPath == "" {
		if latest, err := system.FindLatestAudio("input/audio"); err == nil {
			narrationPath = latest
			fmt.Printf("[*] Выбрана озвучка: %s\n", narrationPath)
		}
	}

	narrationDur := 0.0
	if narrationPath != "" {
		if d, err := video.AudioDuration(ctx, narrationPath); err == nil {
			narrationDur = d
			fmt.Printf("[*] Длительность озвучки: %.2fs\n", d)
		} else {
			log.Printf("[!] Не удалось получить длительность озвучки: %v", err)
		}
	}

	targetDuration := *durationPtr
	if targetDuration <= 0 && narrationDur > 0 {
		targetDuration = narrationDur
		fmt.Printf("[*] Длительность видео установлена по озвучке: %.2fs\n", targetDuration)
	}

	enh := config.DefaultEnhancements()
	if *optionsPtr != "" {
		enh, err = config.ReadEnhancements(*optionsPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения настроек: %v", err)
		}
	} else {
		enh.Captions = *captionsPtr
		enh.CaptionStyle = *captionStylePtr
		enh.ColorGrade = *gradePtr
		enh.PreferVideoClips = *preferClipsPtr
	}

	if *dumpOptionsPtr != "" {
		if err := config.WriteEnhancements(enh, *dumpOptionsPtr); err != nil {
			log.Printf("[!] Не удалось сохранить настройки: %v", err)
		} else {
			fmt.Printf("[*] Настройки сохранены: %s\n", *dumpOptionsPtr)
		}
	}

	cfg := config.Config{
		ScriptPath:     inputPath,
		Platform:       platform,
		TargetDuration: targetDuration,
		FPS:            *fpsPtr,
		NarrationPath:  narrationPath,
		MediaManifest:  *mediaPtr,
		Realtime:       *realtimePtr,
		Workers:        *workersPtr,
		Enhancements:   enh,
	}
	cfg.ApplyPlatform()

	// Компиляция сценария
	parsed := script.ParseScript(string(rawBytes), targetDuration, platform)
	if !parsed.IsValid {
		for _, e := range parsed.Errors {
			log.Printf("[!] Сценарий: %s", e)
		}
	}
	if len(parsed.Sections) == 0 {
		log.Fatalf("[-] Ошибка: в сценарии нет ни одной секции")
	}

	report := script.ValidateScript(parsed)
	for _, c := range report.Checks {
		marker := "[*]"
		if !c.Passed {
			marker = "[!]"
		}
		fmt.Printf("%s Проверка %-9s %s\n", marker, c.Name+":", c.Message)
	}

	fmt.Println("--- [PROJECT: PROMO COMPOSITOR] ---")
	fmt.Printf("[*] Сценарий: %s | Секций: %d | Оценка: %.1fs\n", filepath.Base(inputPath), len(parsed.Sections), parsed.TotalDuration)
	fmt.Printf("[*] Площадка: %s | Разрешение: %dx%d @ %d FPS\n", platform, cfg.Width, cfg.Height, cfg.FPS)
	fmt.Println("-----------------------------------")

	compositor := render.NewCompositor(cfg)
	defer compositor.Reset()

	// Предзагрузка медиа по манифесту
	manifestPath := cfg.MediaManifest
	if manifestPath == "" {
		if _, err := os.Stat("input/media/manifest.yaml"); err == nil {
			manifestPath = "input/media/manifest.yaml"
		}
	}
	if manifestPath != "" {
		manifest, err := media.ReadManifest(manifestPath)
		if err != nil {
			log.Fatalf("[-] Ошибка манифеста: %v", err)
		}

		maxClipFrames := 120
		concurrency := cfg.Workers
		if free, err := system.AvailableMemoryMB(); err == nil && free < 1024 {
			log.Printf("[!] Мало свободной памяти (%d МБ), кэш кадров клипов урезан", free)
			maxClipFrames = 60
			concurrency = 2
		}

		err = compositor.Attachments().Preload(ctx, manifest, media.PreloadOptions{
			Timeout:       30 * time.Second,
			Concurrency:   concurrency,
			ClipFPS:       12,
			MaxClipFrames: maxClipFrames,
			Width:         cfg.Width,
			Height:        cfg.Height,
		})
		if err != nil {
			log.Fatalf("[-] Ошибка предзагрузки медиа: %v", err)
		}
	}

	tl := compositor.BuildTimeline(parsed)

	var segments []subtitle.Segment
	if cfg.Enhancements.Captions {
		// Субтитры растягиваются под реальную длительность: озвучка, если
		// она есть, иначе явно запрошенная длительность видео.
		captionSpan := narrationDur
		if captionSpan <= 0 {
			captionSpan = targetDuration
		}
		segments = subtitle.Generate(parsed, captionSpan)
	}

	sink, err := video.NewFFmpegSink(ctx, video.SinkOptions{
		Width:         cfg.Width,
		Height:        cfg.Height,
		FPS:           cfg.FPS,
		NarrationPath: narrationPath,
	})
	if err != nil {
		log.Fatalf("[-] Ошибка запуска энкодера: %v", err)
	}

	startTime := time.Now()
	blob, err := compositor.RenderVideo(ctx, tl, segments, sink, func(percent int) {
		fmt.Printf("\r[>] Рендеринг: %d%%", percent)
	})
	fmt.Println()
	if err != nil {
		log.Fatalf("[-] Ошибка рендеринга: %v", err)
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		baseName := filepath.Base(inputPath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.webm", cleanName, timestamp))
	}

	if err := os.WriteFile(finalOutput, blob, 0644); err != nil {
		log.Fatalf("[-] Ошибка записи результата: %v", err)
	}

	fmt.Printf("[+++] Успех за %.1fs! Результат: %s (%d КБ)\n",
		time.Since(startTime).Seconds(), finalOutput, len(blob)/1024)
}
