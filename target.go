package blit

import (
	"image"

	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// A RenderTarget is an offscreen texture that the renderer can draw into. Use
// Texture to draw its contents elsewhere.
//
// While bound, a render target must not outlive the binding: deleting the bound
// target first switches the renderer back to the visible surface.
type RenderTarget struct {
	tex *Texture
	fb  gl.Framebuffer
}

// CreateRenderTarget returns a new render target of the given size. Its
// contents are undefined until cleared or drawn into. Zero sized targets can be
// created but not bound.
func (r *Renderer) CreateRenderTarget(width, height int) (*RenderTarget, error) {
	if r.closed {
		return nil, released("renderer")
	}
	if width < 0 || height < 0 {
		return nil, &ResourceError{Resource: "render target", Err: errors.Errorf("invalid size %dx%d", width, height)}
	}
	t, err := r.newTexture(width, height, nil, textureParams{
		wrapS:     ClampToEdge,
		wrapT:     ClampToEdge,
		minFilter: Nearest,
		magFilter: Nearest,
	})
	if err != nil {
		return nil, err
	}
	rt := &RenderTarget{tex: t}
	t.target = rt
	return rt, nil
}

// Texture returns the render target's backing texture.
func (rt *RenderTarget) Texture() *Texture {
	return rt.tex
}

// Size returns the render target size in pixels.
func (rt *RenderTarget) Size() image.Point {
	return rt.tex.Size()
}

// Delete releases the framebuffer and the backing texture. If rt is the
// renderer's current target, the visible surface is bound first.
func (rt *RenderTarget) Delete() {
	r := rt.tex.r
	if r.target == rt {
		r.bindScreen()
	}
	if rt.fb != 0 {
		r.glc.DeleteFramebuffer(rt.fb)
		rt.fb = 0
	}
	rt.tex.delete()
}

// bind binds the framebuffer, creating it on first use, and checks its
// completeness.
func (rt *RenderTarget) bind(c gl.Context) error {
	if rt.fb == 0 {
		fb, err := c.CreateFramebuffer()
		if err != nil {
			return &ResourceError{Resource: "framebuffer", Err: err}
		}
		rt.fb = fb
		c.BindFramebuffer(gl.FramebufferTarget, fb)
		c.FramebufferTexture2D(gl.FramebufferTarget, gl.ColorAttachment0, gl.Texture2D, rt.tex.id, 0)
	} else {
		c.BindFramebuffer(gl.FramebufferTarget, rt.fb)
	}
	if st := c.CheckFramebufferStatus(gl.FramebufferTarget); st != gl.FramebufferComplete {
		return &FramebufferIncompleteError{Status: st, Width: rt.tex.w, Height: rt.tex.h}
	}
	return nil
}
