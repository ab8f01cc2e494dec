// Package fonts caches font faces for the renderer. Faces are built from the
// embedded Go fonts so the compositor has no filesystem dependency.
package fonts

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	bold bool
	size float64
}

var (
	mu    sync.Mutex
	faces = map[faceKey]font.Face{}

	parseOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
)

func parseFonts() {
	var err error
	regularFont, err = opentype.Parse(goregular.TTF)
	if err != nil {
		log.Printf("[!] Не удалось разобрать шрифт goregular: %v", err)
	}
	boldFont, err = opentype.Parse(gobold.TTF)
	if err != nil {
		log.Printf("[!] Не удалось разобрать шрифт gobold: %v", err)
	}
}

// Regular returns a cached regular face at the given pixel size.
func Regular(size float64) font.Face {
	return face(false, size)
}

// Bold returns a cached bold face at the given pixel size.
func Bold(size float64) font.Face {
	return face(true, size)
}

func face(bold bool, size float64) font.Face {
	parseOnce.Do(parseFonts)

	mu.Lock()
	defer mu.Unlock()

	key := faceKey{bold: bold, size: size}
	if f, ok := faces[key]; ok {
		return f
	}

	src := regularFont
	if bold {
		src = boldFont
	}
	if src == nil {
		// Запасной вариант, чтобы рендер не падал из-за шрифтов.
		return basicfont.Face7x13
	}

	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("[!] Не удалось создать начертание %0.fpx: %v", size, err)
		return basicfont.Face7x13
	}
	faces[key] = f
	return f
}
