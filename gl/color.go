package gl

import "image/color"

// Color implements color.Color. It stores non-premultiplied color components
// in the range [0, 1], as expected by ClearColor.
type Color struct {
	R, G, B, A float32
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A) * 0xffff)
	r = uint32(clamp01(c.R)*0xffff) * a / 0xffff
	g = uint32(clamp01(c.G)*0xffff) * a / 0xffff
	b = uint32(clamp01(c.B)*0xffff) * a / 0xffff
	return
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ColorModel converts any color.Color to a Color; i.e. the result can safely be
// casted to a Color.
var ColorModel = color.ModelFunc(colorModel)

func colorModel(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return Color{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}
