// Package blit is a minimal hardware accelerated 2D texture compositor.
//
// A Renderer draws rectangular textured quads either to the visible surface it
// was created for or to offscreen render targets. Render targets are textures
// themselves, so output can be chained: render into a target, then blit that
// target elsewhere.
//
// All GPU access goes through a gl.Context obtained from a Surface. The
// renderer is not safe for concurrent use: a single goroutine, usually the one
// that owns the GPU context, must serialize all calls. LoadTexture is the only
// blocking call; decoding happens elsewhere while the caller waits.
//
// Coordinates are in pixels with the origin at the top-left corner of the
// output and the Y axis pointing down.
package blit

import (
	"fmt"
	"image"

	"github.com/db47h/blit/gl"
)

// A Rect is a rectangle in pixels. Zero sized rectangles are valid and result
// in degenerate draws.
type Rect struct {
	X, Y, W, H int
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h int) Rect {
	return Rect{x, y, w, h}
}

// FromImageRect converts an image.Rectangle to a Rect.
func FromImageRect(r image.Rectangle) Rect {
	return Rect{r.Min.X, r.Min.Y, r.Dx(), r.Dy()}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d)-%dx%d", r.X, r.Y, r.W, r.H)
}

// A Surface is a drawing surface able to provide a GPU context bound to it.
// Surfaces have a fixed size; resizing is not supported.
type Surface interface {
	Context() (gl.Context, error)
}
