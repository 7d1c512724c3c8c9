package blit

import (
	"image"

	"github.com/db47h/blit/assets"
	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// A Texture is a GPU image. Its size never changes. Textures are owned by the
// caller and live until Delete is called; the Renderer only references them
// while drawing.
type Texture struct {
	r      *Renderer
	id     gl.Texture
	w, h   int
	target *RenderTarget // set for render target backing textures
}

// Size returns the texture size in pixels.
func (t *Texture) Size() image.Point {
	return image.Pt(t.w, t.h)
}

// Bounds returns Rect{0, 0, w, h}.
func (t *Texture) Bounds() Rect {
	return Rect{0, 0, t.w, t.h}
}

// NativeID returns the texture's GPU handle, or 0 once deleted.
func (t *Texture) NativeID() gl.Texture {
	return t.id
}

// Delete releases the GPU texture. Deleting the backing texture of a render
// target deletes the render target. Delete is a no-op on deleted textures.
func (t *Texture) Delete() {
	if t.target != nil {
		t.target.Delete()
		return
	}
	t.delete()
}

func (t *Texture) delete() {
	if t.id == 0 {
		return
	}
	t.r.glc.DeleteTexture(t.id)
	t.id = 0
}

// newTexture allocates a texture and uploads pix, which may be nil. pix must
// hold w*h non-premultiplied RGBA pixels, bottom row first.
func (r *Renderer) newTexture(w, h int, pix []byte, p textureParams) (*Texture, error) {
	id, err := r.glc.CreateTexture()
	if err != nil {
		return nil, &ResourceError{Resource: "texture", Err: err}
	}
	c := r.glc
	c.BindTexture(gl.Texture2D, id)
	c.TexParameteri(gl.Texture2D, gl.TextureWrapS, int32(p.wrapS))
	c.TexParameteri(gl.Texture2D, gl.TextureWrapT, int32(p.wrapT))
	c.TexParameteri(gl.Texture2D, gl.TextureMinFilter, int32(p.minFilter))
	c.TexParameteri(gl.Texture2D, gl.TextureMagFilter, int32(p.magFilter))
	c.PixelStorei(gl.UnpackAlignment, 4)
	c.TexImage2D(gl.Texture2D, 0, gl.RGBA, int32(w), int32(h), gl.RGBA, gl.UnsignedByte, pix)
	c.BindTexture(gl.Texture2D, 0)
	Logger().Debug("texture created", "id", id, "width", w, "height", h)
	return &Texture{r: r, id: id, w: w, h: h}, nil
}

// TextureFromImage uploads img to a new texture of the same size. The image is
// converted to non-premultiplied RGBA and its rows are ordered according to the
// renderer's Y-flip policy. Unless overridden by params or by the TextureParams
// option, the texture uses linear filtering and clamps to edges.
func (r *Renderer) TextureFromImage(img image.Image, params ...TextureParameter) (*Texture, error) {
	if r.closed {
		return nil, released("renderer")
	}
	nrgba := assets.ToNRGBA(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, &ResourceError{Resource: "texture", Err: errors.Errorf("empty image %dx%d", w, h)}
	}
	pix := nrgba.Pix
	if r.cfg.flipY {
		pix = flipRows(pix, w*4, h)
	}
	return r.newTexture(w, h, pix, loadedParams(r.cfg.params, params))
}

// flipRows returns a copy of pix with rows in reverse order.
func flipRows(pix []byte, stride, rows int) []byte {
	dst := make([]byte, stride*rows)
	for y := 0; y < rows; y++ {
		copy(dst[(rows-1-y)*stride:(rows-y)*stride], pix[y*stride:(y+1)*stride])
	}
	return dst
}
