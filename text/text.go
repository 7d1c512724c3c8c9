// Package text rasterizes text labels into images that can be uploaded as
// textures.
package text

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// Hinting selects how to quantize a vector font's glyph nodes.
//
// Not all fonts support hinting.
//
// This is a convenience duplicate of golang.org/x/image/font#Hinting
type Hinting int

const (
	HintingNone     Hinting = Hinting(font.HintingNone)
	HintingVertical         = Hinting(font.HintingVertical)
	HintingFull             = Hinting(font.HintingFull)
)

// DPI used for all faces.
const DPI = 72

// Parse parses TrueType font data.
func Parse(ttf []byte) (*truetype.Font, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, errors.Wrap(err, "parse font")
	}
	return f, nil
}

var goRegular struct {
	once sync.Once
	f    *truetype.Font
}

// GoRegular returns the Go Regular font.
func GoRegular() *truetype.Font {
	goRegular.once.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			panic(err)
		}
		goRegular.f = f
	})
	return goRegular.f
}

// NewFace returns a new font face for f at the given size in points.
func NewFace(f *truetype.Font, size float64, hinting Hinting) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     DPI,
		Hinting: font.Hinting(hinting),
	})
}

// Image renders s with the given face and color into a new image just large
// enough to hold the text plus a one pixel transparent border. Pixels have
// non-premultiplied alpha.
func Image(face font.Face, s string, c color.Color) *image.NRGBA {
	b, _ := font.BoundString(face, s)
	r := image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
	sz := r.Size()
	dst := image.NewNRGBA(image.Rect(0, 0, sz.X+2, sz.Y+2))
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(1-r.Min.X, 1-r.Min.Y),
	}
	d.DrawString(s)
	return dst
}
