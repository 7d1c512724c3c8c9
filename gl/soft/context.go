// Package soft provides a pure Go implementation of gl.Context.
//
// It is meant for headless rendering and tests. Shader sources are validated
// but not interpreted: draw calls run a built-in emulation of the
// compositor's quad pipeline, which expects:
//
//	attribute 0     vec2 unit quad position
//	attribute 1     vec2 texture coordinates
//	uProjection     mat4, column-major
//	uDestRect.x/y/w/h  destination rectangle in pixels
//	uTexture        sampler2D texture unit
//
// A vertex at position p lands at uProjection * (uDestRect.xy + p*uDestRect.wh).
// Fragments sample the bound texture and are blended with the current blend
// function into the bound framebuffer.
//
// Texture and framebuffer storage is bottom-up, as in OpenGL: row 0 holds
// texture coordinate t = 0.
package soft

import (
	"strings"

	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// MaxTextureSize is the largest texture width or height supported.
const MaxTextureSize = 8192

// defined by OpenGL but outside of the gl package's subset.
const (
	nearestMipmapLinear gl.Enum = 0x2702
	maxAttribs                  = 8
	maxUnits                    = 8
)

// Stats holds counters of the commands executed by a Context.
type Stats struct {
	DrawCalls int // DrawElements calls that reached the rasterizer
	Clears    int
	Flushes   int
	Errors    int // invalid calls that were ignored
}

type texture struct {
	w, h                 int
	pix                  []byte
	minFilter, magFilter gl.Enum
	wrapS, wrapT         gl.Enum
}

func newTexture() *texture {
	return &texture{
		minFilter: nearestMipmapLinear,
		magFilter: gl.Linear,
		wrapS:     gl.Repeat,
		wrapT:     gl.Repeat,
	}
}

type shader struct {
	typ      gl.Enum
	src      string
	compiled bool
	log      string
}

type program struct {
	shaders  []gl.Shader
	attribs  map[string]uint32
	linked   bool
	log      string
	sources  string
	uniforms map[string]gl.Uniform
	values   map[gl.Uniform][]float32
}

func (p *program) uniform(name string) []float32 {
	if u, ok := p.uniforms[name]; ok {
		return p.values[u]
	}
	return nil
}

type attrib struct {
	enabled bool
	buf     gl.Buffer
	size    int32
	typ     gl.Enum
	stride  int32
	offset  int32
}

// Context is a software gl.Context. Create one with Surface.Context.
type Context struct {
	surface *texture

	next         uint32
	buffers      map[gl.Buffer][]byte
	textures     map[gl.Texture]*texture
	framebuffers map[gl.Framebuffer]gl.Texture
	shaders      map[gl.Shader]*shader
	programs     map[gl.Program]*program

	arrayBuf   gl.Buffer
	elementBuf gl.Buffer
	unit       int
	units      [maxUnits]gl.Texture
	fb         gl.Framebuffer
	prog       gl.Program
	attribs    [maxAttribs]attrib

	blend            bool
	sfactor, dfactor gl.Enum
	viewport         [4]int32
	clearColor       [4]float32
	unpackAlignment  int32

	stats Stats
}

func newContext(w, h int) *Context {
	s := newTexture()
	s.w, s.h = w, h
	s.pix = make([]byte, w*h*4)
	return &Context{
		surface:         s,
		buffers:         make(map[gl.Buffer][]byte),
		textures:        make(map[gl.Texture]*texture),
		framebuffers:    make(map[gl.Framebuffer]gl.Texture),
		shaders:         make(map[gl.Shader]*shader),
		programs:        make(map[gl.Program]*program),
		sfactor:         gl.One,
		dfactor:         gl.Zero,
		viewport:        [4]int32{0, 0, int32(w), int32(h)},
		unpackAlignment: 4,
	}
}

func (c *Context) id() uint32 {
	c.next++
	return c.next
}

func (c *Context) invalid() {
	c.stats.Errors++
}

// Stats returns the command counters.
func (c *Context) Stats() Stats {
	return c.stats
}

// Profile implements gl.Context.
func (*Context) Profile() gl.Profile { return gl.ProfileES2 }

// Version implements gl.Context.
func (*Context) Version() string { return "OpenGL ES 2.0 (blit software rasterizer)" }

func (c *Context) CreateBuffer() (gl.Buffer, error) {
	b := gl.Buffer(c.id())
	c.buffers[b] = nil
	return b, nil
}

func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	if _, ok := c.buffers[b]; !ok && b != 0 {
		c.invalid()
		return
	}
	switch target {
	case gl.ArrayBuffer:
		c.arrayBuf = b
	case gl.ElementArray:
		c.elementBuf = b
	default:
		c.invalid()
	}
}

func (c *Context) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	var b gl.Buffer
	switch target {
	case gl.ArrayBuffer:
		b = c.arrayBuf
	case gl.ElementArray:
		b = c.elementBuf
	}
	if b == 0 {
		c.invalid()
		return
	}
	c.buffers[b] = append([]byte(nil), data...)
}

func (c *Context) DeleteBuffer(b gl.Buffer) {
	delete(c.buffers, b)
	if c.arrayBuf == b {
		c.arrayBuf = 0
	}
	if c.elementBuf == b {
		c.elementBuf = 0
	}
}

func (c *Context) CreateTexture() (gl.Texture, error) {
	t := gl.Texture(c.id())
	c.textures[t] = newTexture()
	return t, nil
}

func (c *Context) ActiveTexture(unit gl.Enum) {
	u := int(unit - gl.Texture0)
	if u < 0 || u >= maxUnits {
		c.invalid()
		return
	}
	c.unit = u
}

func (c *Context) BindTexture(target gl.Enum, t gl.Texture) {
	if target != gl.Texture2D {
		c.invalid()
		return
	}
	if _, ok := c.textures[t]; !ok && t != 0 {
		c.invalid()
		return
	}
	c.units[c.unit] = t
}

func (c *Context) boundTexture() *texture {
	return c.textures[c.units[c.unit]]
}

func (c *Context) TexParameteri(target, pname gl.Enum, param int32) {
	t := c.boundTexture()
	if target != gl.Texture2D || t == nil {
		c.invalid()
		return
	}
	v := gl.Enum(param)
	switch pname {
	case gl.TextureMinFilter:
		t.minFilter = v
	case gl.TextureMagFilter:
		t.magFilter = v
	case gl.TextureWrapS:
		t.wrapS = v
	case gl.TextureWrapT:
		t.wrapT = v
	default:
		c.invalid()
	}
}

func (c *Context) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, format, typ gl.Enum, pixels []byte) {
	t := c.boundTexture()
	switch {
	case target != gl.Texture2D || t == nil || level != 0,
		width < 0 || height < 0 || width > MaxTextureSize || height > MaxTextureSize,
		internalFormat != gl.RGBA && internalFormat != gl.RGBA8,
		format != gl.RGBA || typ != gl.UnsignedByte:
		c.invalid()
		return
	}
	t.w, t.h = int(width), int(height)
	t.pix = make([]byte, t.w*t.h*4)
	copy(t.pix, pixels)
}

func (c *Context) PixelStorei(pname gl.Enum, param int32) {
	if pname != gl.UnpackAlignment {
		c.invalid()
		return
	}
	c.unpackAlignment = param
}

func (c *Context) DeleteTexture(t gl.Texture) {
	delete(c.textures, t)
	for i := range c.units {
		if c.units[i] == t {
			c.units[i] = 0
		}
	}
}

func (c *Context) CreateFramebuffer() (gl.Framebuffer, error) {
	fb := gl.Framebuffer(c.id())
	c.framebuffers[fb] = 0
	return fb, nil
}

func (c *Context) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	if _, ok := c.framebuffers[fb]; target != gl.FramebufferTarget || !ok && fb != 0 {
		c.invalid()
		return
	}
	c.fb = fb
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int32) {
	if target != gl.FramebufferTarget || attachment != gl.ColorAttachment0 || texTarget != gl.Texture2D || c.fb == 0 {
		c.invalid()
		return
	}
	c.framebuffers[c.fb] = t
}

func (c *Context) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	if c.fb == 0 {
		return gl.FramebufferComplete
	}
	id := c.framebuffers[c.fb]
	if id == 0 {
		return gl.FramebufferIncompleteMissingAttachment
	}
	t := c.textures[id]
	if t == nil || t.w == 0 || t.h == 0 {
		return gl.FramebufferIncompleteAttachment
	}
	return gl.FramebufferComplete
}

func (c *Context) DeleteFramebuffer(fb gl.Framebuffer) {
	delete(c.framebuffers, fb)
	if c.fb == fb {
		c.fb = 0
	}
}

// colorBuffer returns the color buffer of the bound framebuffer or nil if the
// framebuffer is incomplete.
func (c *Context) colorBuffer() *texture {
	if c.fb == 0 {
		return c.surface
	}
	if c.CheckFramebufferStatus(gl.FramebufferTarget) != gl.FramebufferComplete {
		return nil
	}
	return c.textures[c.framebuffers[c.fb]]
}

func (c *Context) CreateShader(typ gl.Enum) (gl.Shader, error) {
	if typ != gl.VertexShader && typ != gl.FragmentShader {
		return 0, errors.Errorf("invalid shader type 0x%X", uint32(typ))
	}
	s := gl.Shader(c.id())
	c.shaders[s] = &shader{typ: typ}
	return s, nil
}

func (c *Context) ShaderSource(s gl.Shader, src string) {
	if sh := c.shaders[s]; sh != nil {
		sh.src = src
		return
	}
	c.invalid()
}

func (c *Context) CompileShader(s gl.Shader) {
	sh := c.shaders[s]
	if sh == nil {
		c.invalid()
		return
	}
	switch {
	case strings.TrimSpace(sh.src) == "":
		sh.compiled, sh.log = false, "ERROR: 0:1: empty shader source"
	case !strings.Contains(sh.src, "void main"):
		sh.compiled, sh.log = false, "ERROR: 0:1: 'main' : function not defined"
	default:
		sh.compiled, sh.log = true, ""
	}
}

func (c *Context) GetShaderi(s gl.Shader, pname gl.Enum) int32 {
	sh := c.shaders[s]
	if sh == nil || pname != gl.CompileStatus {
		c.invalid()
		return 0
	}
	if sh.compiled {
		return 1
	}
	return 0
}

func (c *Context) GetShaderInfoLog(s gl.Shader) string {
	if sh := c.shaders[s]; sh != nil {
		return sh.log
	}
	return ""
}

func (c *Context) DeleteShader(s gl.Shader) {
	delete(c.shaders, s)
}

func (c *Context) CreateProgram() (gl.Program, error) {
	p := gl.Program(c.id())
	c.programs[p] = &program{
		attribs:  make(map[string]uint32),
		uniforms: make(map[string]gl.Uniform),
		values:   make(map[gl.Uniform][]float32),
	}
	return p, nil
}

func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	pr := c.programs[p]
	if pr == nil || c.shaders[s] == nil {
		c.invalid()
		return
	}
	pr.shaders = append(pr.shaders, s)
}

func (c *Context) BindAttribLocation(p gl.Program, index uint32, name string) {
	pr := c.programs[p]
	if pr == nil || index >= maxAttribs {
		c.invalid()
		return
	}
	pr.attribs[name] = index
}

func (c *Context) LinkProgram(p gl.Program) {
	pr := c.programs[p]
	if pr == nil {
		c.invalid()
		return
	}
	var vs, fs int
	var src strings.Builder
	for _, s := range pr.shaders {
		sh := c.shaders[s]
		if sh == nil || !sh.compiled {
			pr.linked, pr.log = false, "ERROR: one or more attached shaders not successfully compiled"
			return
		}
		switch sh.typ {
		case gl.VertexShader:
			vs++
		case gl.FragmentShader:
			fs++
		}
		src.WriteString(sh.src)
	}
	if vs != 1 || fs != 1 {
		pr.linked, pr.log = false, "ERROR: program requires exactly one vertex and one fragment shader"
		return
	}
	pr.linked, pr.log, pr.sources = true, "", src.String()
}

func (c *Context) GetProgrami(p gl.Program, pname gl.Enum) int32 {
	pr := c.programs[p]
	if pr == nil || pname != gl.LinkStatus {
		c.invalid()
		return 0
	}
	if pr.linked {
		return 1
	}
	return 0
}

func (c *Context) GetProgramInfoLog(p gl.Program) string {
	if pr := c.programs[p]; pr != nil {
		return pr.log
	}
	return ""
}

func (c *Context) UseProgram(p gl.Program) {
	if pr := c.programs[p]; p != 0 && (pr == nil || !pr.linked) {
		c.invalid()
		return
	}
	c.prog = p
}

func (c *Context) DeleteProgram(p gl.Program) {
	delete(c.programs, p)
	if c.prog == p {
		c.prog = 0
	}
}

// GetUniformLocation returns a location for any uniform whose name (or struct
// base name) appears in the linked program's sources, -1 otherwise.
func (c *Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	pr := c.programs[p]
	if pr == nil || !pr.linked {
		c.invalid()
		return -1
	}
	if u, ok := pr.uniforms[name]; ok {
		return u
	}
	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if !strings.Contains(pr.sources, base) {
		return -1
	}
	u := gl.Uniform(len(pr.uniforms))
	pr.uniforms[name] = u
	return u
}

func (c *Context) setUniform(u gl.Uniform, vs ...float32) {
	if u < 0 {
		return
	}
	pr := c.programs[c.prog]
	if pr == nil {
		c.invalid()
		return
	}
	pr.values[u] = append(pr.values[u][:0], vs...)
}

func (c *Context) Uniform1f(u gl.Uniform, v float32)            { c.setUniform(u, v) }
func (c *Context) Uniform1i(u gl.Uniform, v int32)              { c.setUniform(u, float32(v)) }
func (c *Context) Uniform2f(u gl.Uniform, x, y float32)         { c.setUniform(u, x, y) }
func (c *Context) UniformMatrix4fv(u gl.Uniform, m [16]float32) { c.setUniform(u, m[:]...) }

func (c *Context) VertexAttribPointer(index uint32, size int32, typ gl.Enum, normalized bool, stride, offset int32) {
	if index >= maxAttribs || c.arrayBuf == 0 || size < 1 || size > 4 || typ != gl.Float {
		c.invalid()
		return
	}
	a := &c.attribs[index]
	a.buf, a.size, a.typ, a.stride, a.offset = c.arrayBuf, size, typ, stride, offset
	if a.stride == 0 {
		a.stride = size * 4
	}
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	if index >= maxAttribs {
		c.invalid()
		return
	}
	c.attribs[index].enabled = true
}

func (c *Context) Enable(capability gl.Enum) {
	if capability != gl.Blend {
		c.invalid()
		return
	}
	c.blend = true
}

func (c *Context) BlendFunc(sfactor, dfactor gl.Enum) {
	c.sfactor, c.dfactor = sfactor, dfactor
}

func (c *Context) Viewport(x, y, width, height int32) {
	if width < 0 || height < 0 {
		c.invalid()
		return
	}
	c.viewport = [4]int32{x, y, width, height}
}

func (c *Context) ClearColor(r, g, b, a float32) {
	c.clearColor = [4]float32{r, g, b, a}
}

func (c *Context) Clear(mask gl.Enum) {
	cb := c.colorBuffer()
	if cb == nil {
		c.invalid()
		return
	}
	c.stats.Clears++
	if mask&gl.ColorBufferBit == 0 {
		return
	}
	var px [4]byte
	for i, v := range c.clearColor {
		px[i] = toByte(v)
	}
	for i := 0; i < len(cb.pix); i += 4 {
		copy(cb.pix[i:i+4], px[:])
	}
}

func (c *Context) Flush() {
	c.stats.Flushes++
}
