package renderer

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	parseOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	parseErr    error
)

// parsed fonts are immutable and shared; faces are not.
func loadFonts() (*truetype.Font, *truetype.Font, error) {
	parseOnce.Do(func() {
		regularFont, parseErr = truetype.Parse(goregular.TTF)
		if parseErr != nil {
			parseErr = fmt.Errorf("parse regular font: %w", parseErr)
			return
		}
		boldFont, parseErr = truetype.Parse(gobold.TTF)
		if parseErr != nil {
			parseErr = fmt.Errorf("parse bold font: %w", parseErr)
		}
	})
	return regularFont, boldFont, parseErr
}

type faceKey struct {
	bold bool
	size float64
}

// faceCache hands out truetype faces by weight and pixel size. A face keeps
// a glyph cache internally, so a cache belongs to exactly one Renderer.
type faceCache struct {
	regular, bold *truetype.Font
	faces         map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	regular, bold, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &faceCache{regular: regular, bold: bold, faces: make(map[faceKey]font.Face)}, nil
}

func (c *faceCache) face(bold bool, size float64) font.Face {
	k := faceKey{bold: bold, size: size}
	if f, ok := c.faces[k]; ok {
		return f
	}
	ttf := c.regular
	if bold {
		ttf = c.bold
	}
	f := truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	c.faces[k] = f
	return f
}

func (c *faceCache) Close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}
