//go:build js && wasm

// Package webgl implements gl.Context on top of a browser WebGL 1 context.
package webgl

import (
	"syscall/js"

	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// Context is a gl.Context wrapping a WebGLRenderingContext.
//
// WebGL objects are JavaScript values. Context maps them to integer handles.
type Context struct {
	gl       js.Value
	objects  map[uint32]js.Value
	uniforms map[gl.Uniform]js.Value
	next     uint32
	nextU    gl.Uniform
	f32      js.Value
}

// NewContext wraps a WebGLRenderingContext.
func NewContext(v js.Value) *Context {
	return &Context{
		gl:       v,
		objects:  make(map[uint32]js.Value),
		uniforms: make(map[gl.Uniform]js.Value),
		f32:      js.Global().Get("Float32Array").New(16),
	}
}

func (c *Context) add(v js.Value) (uint32, error) {
	if v.IsNull() || v.IsUndefined() {
		return 0, errors.New("WebGL object creation failed")
	}
	c.next++
	c.objects[c.next] = v
	return c.next, nil
}

func (c *Context) obj(id uint32) js.Value {
	if id == 0 {
		return js.Null()
	}
	if v, ok := c.objects[id]; ok {
		return v
	}
	return js.Null()
}

func (c *Context) del(method string, id uint32) {
	if v, ok := c.objects[id]; ok {
		c.gl.Call(method, v)
		delete(c.objects, id)
	}
}

func (*Context) Profile() gl.Profile { return gl.ProfileES2 }

func (c *Context) Version() string {
	return c.gl.Call("getParameter", c.gl.Get("VERSION")).String()
}

func (c *Context) CreateBuffer() (gl.Buffer, error) {
	id, err := c.add(c.gl.Call("createBuffer"))
	return gl.Buffer(id), err
}

func (c *Context) BindBuffer(target gl.Enum, b gl.Buffer) {
	c.gl.Call("bindBuffer", uint32(target), c.obj(uint32(b)))
}

func (c *Context) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	c.gl.Call("bufferData", uint32(target), bytes(data), uint32(usage))
}

func (c *Context) DeleteBuffer(b gl.Buffer) { c.del("deleteBuffer", uint32(b)) }

func (c *Context) CreateTexture() (gl.Texture, error) {
	id, err := c.add(c.gl.Call("createTexture"))
	return gl.Texture(id), err
}

func (c *Context) ActiveTexture(unit gl.Enum) { c.gl.Call("activeTexture", uint32(unit)) }

func (c *Context) BindTexture(target gl.Enum, t gl.Texture) {
	c.gl.Call("bindTexture", uint32(target), c.obj(uint32(t)))
}

func (c *Context) TexParameteri(target, pname gl.Enum, param int32) {
	c.gl.Call("texParameteri", uint32(target), uint32(pname), param)
}

// TexImage2D ignores internalFormat sizes. WebGL 1 requires internalFormat to
// match format.
func (c *Context) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, format, typ gl.Enum, pixels []byte) {
	if internalFormat == gl.RGBA8 {
		internalFormat = gl.RGBA
	}
	var p js.Value
	if pixels == nil {
		p = js.Null()
	} else {
		p = bytes(pixels)
	}
	c.gl.Call("texImage2D", uint32(target), level, uint32(internalFormat), width, height, 0, uint32(format), uint32(typ), p)
}

func (c *Context) PixelStorei(pname gl.Enum, param int32) {
	c.gl.Call("pixelStorei", uint32(pname), param)
}

func (c *Context) DeleteTexture(t gl.Texture) { c.del("deleteTexture", uint32(t)) }

func (c *Context) CreateFramebuffer() (gl.Framebuffer, error) {
	id, err := c.add(c.gl.Call("createFramebuffer"))
	return gl.Framebuffer(id), err
}

func (c *Context) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	c.gl.Call("bindFramebuffer", uint32(target), c.obj(uint32(fb)))
}

func (c *Context) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int32) {
	c.gl.Call("framebufferTexture2D", uint32(target), uint32(attachment), uint32(texTarget), c.obj(uint32(t)), level)
}

func (c *Context) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(c.gl.Call("checkFramebufferStatus", uint32(target)).Int())
}

func (c *Context) DeleteFramebuffer(fb gl.Framebuffer) { c.del("deleteFramebuffer", uint32(fb)) }

func (c *Context) CreateShader(typ gl.Enum) (gl.Shader, error) {
	id, err := c.add(c.gl.Call("createShader", uint32(typ)))
	return gl.Shader(id), err
}

func (c *Context) ShaderSource(s gl.Shader, src string) {
	c.gl.Call("shaderSource", c.obj(uint32(s)), src)
}

func (c *Context) CompileShader(s gl.Shader) { c.gl.Call("compileShader", c.obj(uint32(s))) }

func (c *Context) GetShaderi(s gl.Shader, pname gl.Enum) int32 {
	return param(c.gl.Call("getShaderParameter", c.obj(uint32(s)), uint32(pname)))
}

func (c *Context) GetShaderInfoLog(s gl.Shader) string {
	return c.gl.Call("getShaderInfoLog", c.obj(uint32(s))).String()
}

func (c *Context) DeleteShader(s gl.Shader) { c.del("deleteShader", uint32(s)) }

func (c *Context) CreateProgram() (gl.Program, error) {
	id, err := c.add(c.gl.Call("createProgram"))
	return gl.Program(id), err
}

func (c *Context) AttachShader(p gl.Program, s gl.Shader) {
	c.gl.Call("attachShader", c.obj(uint32(p)), c.obj(uint32(s)))
}

func (c *Context) BindAttribLocation(p gl.Program, index uint32, name string) {
	c.gl.Call("bindAttribLocation", c.obj(uint32(p)), index, name)
}

func (c *Context) LinkProgram(p gl.Program) { c.gl.Call("linkProgram", c.obj(uint32(p))) }

func (c *Context) GetProgrami(p gl.Program, pname gl.Enum) int32 {
	return param(c.gl.Call("getProgramParameter", c.obj(uint32(p)), uint32(pname)))
}

func (c *Context) GetProgramInfoLog(p gl.Program) string {
	return c.gl.Call("getProgramInfoLog", c.obj(uint32(p))).String()
}

func (c *Context) UseProgram(p gl.Program) { c.gl.Call("useProgram", c.obj(uint32(p))) }

func (c *Context) DeleteProgram(p gl.Program) { c.del("deleteProgram", uint32(p)) }

func (c *Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	v := c.gl.Call("getUniformLocation", c.obj(uint32(p)), name)
	if v.IsNull() {
		return -1
	}
	c.uniforms[c.nextU] = v
	c.nextU++
	return c.nextU - 1
}

func (c *Context) uniform(u gl.Uniform) (js.Value, bool) {
	v, ok := c.uniforms[u]
	return v, ok
}

func (c *Context) Uniform1f(u gl.Uniform, v float32) {
	if l, ok := c.uniform(u); ok {
		c.gl.Call("uniform1f", l, v)
	}
}

func (c *Context) Uniform1i(u gl.Uniform, v int32) {
	if l, ok := c.uniform(u); ok {
		c.gl.Call("uniform1i", l, v)
	}
}

func (c *Context) Uniform2f(u gl.Uniform, x, y float32) {
	if l, ok := c.uniform(u); ok {
		c.gl.Call("uniform2f", l, x, y)
	}
}

func (c *Context) UniformMatrix4fv(u gl.Uniform, m [16]float32) {
	l, ok := c.uniform(u)
	if !ok {
		return
	}
	for i, v := range m {
		c.f32.SetIndex(i, v)
	}
	c.gl.Call("uniformMatrix4fv", l, false, c.f32)
}

func (c *Context) VertexAttribPointer(index uint32, size int32, typ gl.Enum, normalized bool, stride, offset int32) {
	c.gl.Call("vertexAttribPointer", index, size, uint32(typ), normalized, stride, offset)
}

func (c *Context) EnableVertexAttribArray(index uint32) {
	c.gl.Call("enableVertexAttribArray", index)
}

func (c *Context) Enable(capability gl.Enum) { c.gl.Call("enable", uint32(capability)) }

func (c *Context) BlendFunc(sfactor, dfactor gl.Enum) {
	c.gl.Call("blendFunc", uint32(sfactor), uint32(dfactor))
}

func (c *Context) Viewport(x, y, width, height int32) {
	c.gl.Call("viewport", x, y, width, height)
}

func (c *Context) ClearColor(r, g, b, a float32) { c.gl.Call("clearColor", r, g, b, a) }

func (c *Context) Clear(mask gl.Enum) { c.gl.Call("clear", uint32(mask)) }

func (c *Context) DrawElements(mode gl.Enum, count int32, typ gl.Enum, offset int32) {
	c.gl.Call("drawElements", uint32(mode), count, uint32(typ), offset)
}

func (c *Context) Flush() { c.gl.Call("flush") }

func bytes(b []byte) js.Value {
	a := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(a, b)
	return a
}

// param converts a WebGL parameter to the integer OpenGL would return.
func param(v js.Value) int32 {
	switch v.Type() {
	case js.TypeBoolean:
		if v.Bool() {
			return 1
		}
		return 0
	case js.TypeNumber:
		return int32(v.Int())
	}
	return 0
}

var _ gl.Context = (*Context)(nil)
