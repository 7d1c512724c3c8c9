package blit

import (
	"image"
	"image/color"

	"github.com/db47h/blit/assets"
	"github.com/db47h/blit/gl"
	"github.com/db47h/ofs"
	"github.com/pkg/errors"
)

// A Renderer draws textured quads to the visible surface it was created for or
// to render targets.
type Renderer struct {
	glc    gl.Context
	cfg    config
	res    image.Point
	prog   gl.Program
	vs, fs gl.Shader
	ibo    gl.Buffer
	quad   Quad
	proj   [16]float32
	buf    []byte
	target *RenderTarget
	closed bool

	uniform struct {
		proj        gl.Uniform
		x, y, w, h  gl.Uniform
		textureSize gl.Uniform
		texture     gl.Uniform
	}
}

// New returns a new Renderer drawing to the given surface. The resolution sets
// the pixel coordinate space of all draws, for the visible surface as well as
// for render targets of a different size.
//
// New fails with a *ContextAcquisitionError if the surface cannot provide a GPU
// context, and with a *ShaderCompileError or *ProgramLinkError if the shader
// program cannot be built.
func New(s Surface, resolution image.Point, options ...Option) (*Renderer, error) {
	cfg := config{flipY: true}
	for _, o := range options {
		o.set(&cfg)
	}
	if resolution.X <= 0 || resolution.Y <= 0 {
		return nil, errors.Errorf("invalid resolution %v", resolution)
	}
	if s == nil {
		return nil, &ContextAcquisitionError{Err: errors.New("no surface")}
	}
	c, err := s.Context()
	if err != nil {
		return nil, &ContextAcquisitionError{Err: err}
	}
	if c == nil {
		return nil, &ContextAcquisitionError{Err: errors.New("surface returned no context")}
	}

	r := &Renderer{
		glc:  c,
		cfg:  cfg,
		res:  resolution,
		quad: NewQuad(),
		buf:  make([]byte, 0, verticesPerQuad*vertexStride),
	}
	if r.cfg.loader == nil {
		var ovl ofs.Overlay
		if err := ovl.Add(false, "."); err != nil {
			return nil, errors.Wrap(err, "default image loader")
		}
		r.cfg.loader = assets.NewManager(&ovl)
	}

	c.Enable(gl.Blend)
	c.BlendFunc(gl.SrcAlpha, gl.OneMinusSrcAlpha)

	r.prog, r.vs, r.fs, err = loadShaders(c)
	if err != nil {
		return nil, err
	}
	r.ibo, err = c.CreateBuffer()
	if err != nil {
		r.Close()
		return nil, &ResourceError{Resource: "index buffer", Err: err}
	}
	c.BindBuffer(gl.ElementArray, r.ibo)
	c.BufferData(gl.ElementArray, packIndices(), gl.StaticDraw)

	c.UseProgram(r.prog)
	u := &r.uniform
	u.proj = c.GetUniformLocation(r.prog, "uProjection")
	u.x = c.GetUniformLocation(r.prog, "uDestRect.x")
	u.y = c.GetUniformLocation(r.prog, "uDestRect.y")
	u.w = c.GetUniformLocation(r.prog, "uDestRect.w")
	u.h = c.GetUniformLocation(r.prog, "uDestRect.h")
	u.textureSize = c.GetUniformLocation(r.prog, "uTextureSize")
	u.texture = c.GetUniformLocation(r.prog, "uTexture")
	c.ActiveTexture(gl.Texture0)
	c.Uniform1i(u.texture, 0)

	r.proj = Ortho(0, float32(resolution.X), float32(resolution.Y), 0, 0, 100)

	Logger().Info("renderer created",
		"gl", c.Version(),
		"profile", c.Profile(),
		"resolution", resolution,
		"flipY", cfg.flipY)
	return r, nil
}

// Resolution returns the resolution set at creation.
func (r *Renderer) Resolution() image.Point {
	return r.res
}

// RenderTarget returns the current render target, or nil if drawing to the
// visible surface.
func (r *Renderer) RenderTarget() *RenderTarget {
	return r.target
}

// SetRenderTarget directs all subsequent draws and clears to rt. A nil rt
// selects the visible surface.
//
// If rt's framebuffer is incomplete, for example because rt has a zero size,
// SetRenderTarget returns a *FramebufferIncompleteError and the previous target
// remains bound.
func (r *Renderer) SetRenderTarget(rt *RenderTarget) error {
	if r.closed {
		return released("renderer")
	}
	if rt == nil {
		r.bindScreen()
		return nil
	}
	if rt.tex.id == 0 {
		return released("render target")
	}
	if rt.tex.r != r {
		return &ResourceError{Resource: "render target", Err: errors.New("created by another renderer")}
	}
	if err := rt.bind(r.glc); err != nil {
		r.rebind()
		Logger().Warn("render target not bound", "error", err)
		return err
	}
	r.target = rt
	Logger().Debug("render target bound", "size", rt.Size())
	return nil
}

func (r *Renderer) bindScreen() {
	r.glc.BindFramebuffer(gl.FramebufferTarget, 0)
	if r.target != nil {
		Logger().Debug("screen bound")
	}
	r.target = nil
}

// rebind restores the binding of the current target.
func (r *Renderer) rebind() {
	var fb gl.Framebuffer
	if r.target != nil {
		fb = r.target.fb
	}
	r.glc.BindFramebuffer(gl.FramebufferTarget, fb)
}

// Clear fills the current target with color c. A nil c clears to transparent.
func (r *Renderer) Clear(c color.Color) {
	if c == nil {
		c = color.Transparent
	}
	gc := gl.ColorModel.Convert(c).(gl.Color)
	r.glc.ClearColor(gc.R, gc.G, gc.B, gc.A)
	r.glc.Clear(gl.ColorBufferBit)
}

// DrawTexture draws the src rectangle of texture t into the dst rectangle of the
// current target, with alpha blending.
//
// Texture coordinates are computed by TexCoords. If src starts outside of t or
// t is empty, nothing is drawn and DrawTexture returns nil. t must have been
// created by r.
//
// The projection always maps the renderer's resolution to the current target,
// whatever the target size.
func (r *Renderer) DrawTexture(t *Texture, src, dst Rect) error {
	if r.closed {
		return released("renderer")
	}
	if t == nil || t.id == 0 {
		return released("texture")
	}
	if t.r != r {
		return &ResourceError{Resource: "texture", Err: errors.New("created by another renderer")}
	}
	uv, ok := TexCoords(src, t.w, t.h)
	if !ok {
		Logger().Debug("draw skipped", "src", src, "size", t.Size())
		return nil
	}
	if !r.cfg.flipY {
		uv = uv.flipped()
	}
	r.quad.SetUV(uv)

	c := r.glc
	u := &r.uniform
	c.Uniform1f(u.x, float32(dst.X))
	c.Uniform1f(u.y, float32(dst.Y))
	c.Uniform1f(u.w, float32(dst.W))
	c.Uniform1f(u.h, float32(dst.H))
	c.Uniform2f(u.textureSize, float32(t.w), float32(t.h))
	c.UniformMatrix4fv(u.proj, r.proj)

	vbo, err := c.CreateBuffer()
	if err != nil {
		return &ResourceError{Resource: "vertex buffer", Err: err}
	}
	r.buf = r.quad.Pack(r.buf[:0])
	c.BindBuffer(gl.ArrayBuffer, vbo)
	c.BufferData(gl.ArrayBuffer, r.buf, gl.StreamDraw)
	c.VertexAttribPointer(attribPos, 2, gl.Float, false, vertexStride, 0)
	c.VertexAttribPointer(attribTexCoords, 2, gl.Float, false, vertexStride, 8)
	c.EnableVertexAttribArray(attribPos)
	c.EnableVertexAttribArray(attribTexCoords)
	c.BindBuffer(gl.ElementArray, r.ibo)

	c.ActiveTexture(gl.Texture0)
	c.BindTexture(gl.Texture2D, t.id)
	c.DrawElements(gl.Triangles, indicesPerQuad, gl.UnsignedShort, 0)
	c.BindTexture(gl.Texture2D, 0)

	c.BindBuffer(gl.ArrayBuffer, 0)
	c.DeleteBuffer(vbo)
	return nil
}

// Present flushes pending GPU commands. Swapping buffers, if needed, is up to
// the windowing system.
func (r *Renderer) Present() {
	r.glc.Flush()
}

// Close releases the GPU resources created by the renderer: its shader program
// and index buffer. Textures and render targets are left untouched. The
// renderer cannot be used after Close.
func (r *Renderer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	c := r.glc
	if r.target != nil {
		r.bindScreen()
	}
	if r.ibo != 0 {
		c.DeleteBuffer(r.ibo)
	}
	if r.prog != 0 {
		c.UseProgram(0)
		c.DeleteProgram(r.prog)
	}
	c.DeleteShader(r.vs)
	c.DeleteShader(r.fs)
}
