package soft

import (
	"image"

	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// A Surface is a fixed-size, in-memory drawing surface. Its default
// framebuffer is the target of all drawing while no framebuffer object is
// bound.
type Surface struct {
	w, h int
	ctx  *Context
}

// NewSurface returns a new surface of the given size.
func NewSurface(width, height int) *Surface {
	return &Surface{w: width, h: height}
}

// Context returns the surface's rendering context, creating it on first use.
// Every call returns the same context.
func (s *Surface) Context() (gl.Context, error) {
	if s.ctx != nil {
		return s.ctx, nil
	}
	if s.w <= 0 || s.h <= 0 || s.w > MaxTextureSize || s.h > MaxTextureSize {
		return nil, errors.Errorf("invalid surface size %dx%d", s.w, s.h)
	}
	s.ctx = newContext(s.w, s.h)
	return s.ctx, nil
}

// Size returns the surface size in pixels.
func (s *Surface) Size() (width, height int) {
	return s.w, s.h
}

// Stats returns the context's command counters.
func (s *Surface) Stats() Stats {
	if s.ctx == nil {
		return Stats{}
	}
	return s.ctx.stats
}

// Image returns a snapshot of the surface contents with the top row first.
func (s *Surface) Image() *image.RGBA {
	if s.ctx == nil {
		return image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	}
	return s.ctx.surface.image()
}

// TextureImage returns a snapshot of the contents of texture t with the top
// row (highest t coordinate) first, or nil if t is not a texture.
func (c *Context) TextureImage(t gl.Texture) *image.RGBA {
	tex := c.textures[t]
	if tex == nil {
		return nil
	}
	return tex.image()
}

func (t *texture) image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.w, t.h))
	stride := t.w * 4
	for y := 0; y < t.h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+stride], t.pix[(t.h-1-y)*stride:])
	}
	return img
}
