package blit

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/db47h/blit/gl"
)

// TestScenario renders a sprite into a render target, blits the render target
// to the screen and draws the sprite again directly.
func TestScenario(t *testing.T) {
	const size = 512
	mgr := writeImages(t, map[string]image.Image{"sprite.png": spriteImage(64, 64)})
	r, s, _ := newTestRenderer(t, size, size, Loader(mgr))

	rt, err := r.CreateRenderTarget(size, size)
	if err != nil {
		t.Fatal(err)
	}
	sprite, err := r.LoadTexture(context.Background(), "sprite.png")
	if err != nil {
		t.Fatal(err)
	}
	if sprite.Size() != image.Pt(64, 64) {
		t.Fatalf("sprite size = %v", sprite.Size())
	}

	if err := r.SetRenderTarget(rt); err != nil {
		t.Fatal(err)
	}
	r.Clear(gl.Color{R: 0, G: 0, B: 0, A: 1})
	if err := r.DrawTexture(sprite, R(0, 0, 64, 64), R(100, 120, 64, 64)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRenderTarget(nil); err != nil {
		t.Fatal(err)
	}
	r.Clear(gl.Color{R: 0, G: 1, B: 0, A: 1})
	if err := r.DrawTexture(rt.Texture(), R(0, 0, size, size), R(0, 0, size, size)); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawTexture(sprite, R(0, 0, 64, 64), R(20, 10, 64, 64)); err != nil {
		t.Fatal(err)
	}
	r.Present()

	st := s.Stats()
	if st.DrawCalls != 3 || st.Flushes != 1 || st.Errors != 0 {
		t.Fatalf("stats = %+v", st)
	}

	rgba := func(c color.NRGBA) color.RGBA { return color.RGBA{c.R, c.G, c.B, c.A} }
	img := s.Image()
	td := []struct {
		name string
		p    image.Point
		want color.RGBA
	}{
		{"direct sprite top", image.Pt(20+32, 10+8), rgba(red)},
		{"direct sprite bottom", image.Pt(20+32, 10+56), rgba(blue)},
		{"blitted sprite top", image.Pt(100+32, 120+8), rgba(red)},
		{"blitted sprite bottom", image.Pt(100+32, 120+56), rgba(blue)},
		{"blitted sprite top-left", image.Pt(100, 120), rgba(red)},
		{"blitted sprite bottom-right", image.Pt(163, 183), rgba(blue)},
		// the render target was cleared to opaque black and covers the
		// whole screen
		{"background", image.Pt(300, 300), color.RGBA{0, 0, 0, 255}},
		{"left of blitted sprite", image.Pt(99, 150), color.RGBA{0, 0, 0, 255}},
		{"below blitted sprite", image.Pt(130, 184), color.RGBA{0, 0, 0, 255}},
	}
	for _, d := range td {
		if got := img.RGBAAt(d.p.X, d.p.Y); got != d.want {
			t.Errorf("%s: pixel %v = %v, want %v", d.name, d.p, got, d.want)
		}
	}
}

// TestScenarioTransparentTarget is the same composition with a transparent
// render target: the screen's green background shows through.
func TestScenarioTransparentTarget(t *testing.T) {
	const size = 128
	r, s, _ := newTestRenderer(t, size, size)
	rt, err := r.CreateRenderTarget(size, size)
	if err != nil {
		t.Fatal(err)
	}
	sprite, err := r.TextureFromImage(spriteImage(16, 16))
	if err != nil {
		t.Fatal(err)
	}
	if err := r.SetRenderTarget(rt); err != nil {
		t.Fatal(err)
	}
	r.Clear(color.Transparent)
	if err := r.DrawTexture(sprite, sprite.Bounds(), R(40, 50, 16, 16)); err != nil {
		t.Fatal(err)
	}
	if err := r.SetRenderTarget(nil); err != nil {
		t.Fatal(err)
	}
	r.Clear(color.RGBA{0, 255, 0, 255})
	if err := r.DrawTexture(rt.Texture(), rt.Texture().Bounds(), R(0, 0, size, size)); err != nil {
		t.Fatal(err)
	}
	r.Present()

	img := s.Image()
	if got := img.RGBAAt(10, 10); got != (color.RGBA{0, 255, 0, 255}) {
		t.Errorf("background = %v, want green", got)
	}
	if got := img.RGBAAt(42, 52); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("sprite top = %v, want red", got)
	}
	if got := img.RGBAAt(42, 63); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("sprite bottom = %v, want blue", got)
	}
}
