package assets

import (
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func loadImage(r io.Reader) (interface{}, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return ToNRGBA(src), nil
}

// ToNRGBA returns src as an *image.NRGBA, with non-premultiplied alpha, its
// origin at (0, 0) and no padding between rows. src is returned as is if it
// already satisfies these conditions, otherwise it is converted.
func ToNRGBA(src image.Image) *image.NRGBA {
	if i, ok := src.(*image.NRGBA); ok && i.Rect.Min == (image.Point{}) && i.Stride == 4*i.Rect.Dx() {
		return i
	}
	sr := src.Bounds()
	dst := image.NewNRGBA(image.Rectangle{Max: sr.Size()})
	draw.Draw(dst, dst.Bounds(), src, sr.Min, draw.Src)
	return dst
}

// Image returns the named image, loading and decoding it if not cached.
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP.
func (m *Manager) Image(name string) (*image.NRGBA, error) {
	data, err := m.get(Asset{TypeImage, name})
	if err != nil {
		return nil, err
	}
	return data.(*image.NRGBA), nil
}

// Decode loads the named image in the background. The returned channel
// delivers a single Result and is then closed.
func (m *Manager) Decode(name string) <-chan Result {
	rc := make(chan Result, 1)
	go func() {
		rc <- m.result(Asset{TypeImage, name})
		close(rc)
	}()
	return rc
}
