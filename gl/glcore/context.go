//go:build glfw

// Package glcore implements gl.Context on top of desktop OpenGL 3.3 core.
//
// New must be called with a current OpenGL 3.3 (or later) core context, from
// the goroutine that will make all subsequent calls.
package glcore

import (
	"strings"
	"unsafe"

	"github.com/db47h/blit/gl"
	ogl "github.com/go-gl/gl/v3.3-core/gl"
	"github.com/pkg/errors"
)

// Context is a gl.Context backed by the current OpenGL context.
type Context struct {
	vao uint32
}

// New loads the OpenGL function pointers and returns a Context.
//
// Core profiles require a vertex array object to be bound for any draw call.
// New creates one and keeps it bound.
func New() (*Context, error) {
	if err := ogl.Init(); err != nil {
		return nil, errors.Wrap(err, "OpenGL init")
	}
	c := new(Context)
	ogl.GenVertexArrays(1, &c.vao)
	ogl.BindVertexArray(c.vao)
	return c, nil
}

// Release deletes the vertex array object created by New.
func (c *Context) Release() {
	if c.vao != 0 {
		ogl.BindVertexArray(0)
		ogl.DeleteVertexArrays(1, &c.vao)
		c.vao = 0
	}
}

func (*Context) Profile() gl.Profile { return gl.ProfileCore }

func (*Context) Version() string {
	return ogl.GoStr(ogl.GetString(ogl.VENDOR)) + " " + ogl.GoStr(ogl.GetString(ogl.VERSION))
}

func (*Context) CreateBuffer() (gl.Buffer, error) {
	var b uint32
	ogl.GenBuffers(1, &b)
	if b == 0 {
		return 0, errors.New("glGenBuffers failed")
	}
	return gl.Buffer(b), nil
}

func (*Context) BindBuffer(target gl.Enum, b gl.Buffer) { ogl.BindBuffer(uint32(target), uint32(b)) }

func (*Context) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	ogl.BufferData(uint32(target), len(data), ptr(data), uint32(usage))
}

func (*Context) DeleteBuffer(b gl.Buffer) {
	id := uint32(b)
	ogl.DeleteBuffers(1, &id)
}

func (*Context) CreateTexture() (gl.Texture, error) {
	var t uint32
	ogl.GenTextures(1, &t)
	if t == 0 {
		return 0, errors.New("glGenTextures failed")
	}
	return gl.Texture(t), nil
}

func (*Context) ActiveTexture(unit gl.Enum) { ogl.ActiveTexture(uint32(unit)) }

func (*Context) BindTexture(target gl.Enum, t gl.Texture) {
	ogl.BindTexture(uint32(target), uint32(t))
}

func (*Context) TexParameteri(target, pname gl.Enum, param int32) {
	ogl.TexParameteri(uint32(target), uint32(pname), param)
}

func (*Context) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, format, typ gl.Enum, pixels []byte) {
	ogl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(typ), ptr(pixels))
}

func (*Context) PixelStorei(pname gl.Enum, param int32) { ogl.PixelStorei(uint32(pname), param) }

func (*Context) DeleteTexture(t gl.Texture) {
	id := uint32(t)
	ogl.DeleteTextures(1, &id)
}

func (*Context) CreateFramebuffer() (gl.Framebuffer, error) {
	var fb uint32
	ogl.GenFramebuffers(1, &fb)
	if fb == 0 {
		return 0, errors.New("glGenFramebuffers failed")
	}
	return gl.Framebuffer(fb), nil
}

func (*Context) BindFramebuffer(target gl.Enum, fb gl.Framebuffer) {
	ogl.BindFramebuffer(uint32(target), uint32(fb))
}

func (*Context) FramebufferTexture2D(target, attachment, texTarget gl.Enum, t gl.Texture, level int32) {
	ogl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), uint32(t), level)
}

func (*Context) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	return gl.Enum(ogl.CheckFramebufferStatus(uint32(target)))
}

func (*Context) DeleteFramebuffer(fb gl.Framebuffer) {
	id := uint32(fb)
	ogl.DeleteFramebuffers(1, &id)
}

func (*Context) CreateShader(typ gl.Enum) (gl.Shader, error) {
	s := ogl.CreateShader(uint32(typ))
	if s == 0 {
		return 0, errors.Errorf("glCreateShader(%#x) failed", uint32(typ))
	}
	return gl.Shader(s), nil
}

func (*Context) ShaderSource(s gl.Shader, src string) {
	csrc, free := ogl.Strs(src + "\x00")
	ogl.ShaderSource(uint32(s), 1, csrc, nil)
	free()
}

func (*Context) CompileShader(s gl.Shader) { ogl.CompileShader(uint32(s)) }

func (*Context) GetShaderi(s gl.Shader, pname gl.Enum) int32 {
	var v int32
	ogl.GetShaderiv(uint32(s), uint32(pname), &v)
	return v
}

func (*Context) GetShaderInfoLog(s gl.Shader) string {
	var n int32
	ogl.GetShaderiv(uint32(s), ogl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	ogl.GetShaderInfoLog(uint32(s), n, nil, ogl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Context) DeleteShader(s gl.Shader) { ogl.DeleteShader(uint32(s)) }

func (*Context) CreateProgram() (gl.Program, error) {
	p := ogl.CreateProgram()
	if p == 0 {
		return 0, errors.New("glCreateProgram failed")
	}
	return gl.Program(p), nil
}

func (*Context) AttachShader(p gl.Program, s gl.Shader) { ogl.AttachShader(uint32(p), uint32(s)) }

func (*Context) BindAttribLocation(p gl.Program, index uint32, name string) {
	ogl.BindAttribLocation(uint32(p), index, ogl.Str(name+"\x00"))
}

func (*Context) LinkProgram(p gl.Program) { ogl.LinkProgram(uint32(p)) }

func (*Context) GetProgrami(p gl.Program, pname gl.Enum) int32 {
	var v int32
	ogl.GetProgramiv(uint32(p), uint32(pname), &v)
	return v
}

func (*Context) GetProgramInfoLog(p gl.Program) string {
	var n int32
	ogl.GetProgramiv(uint32(p), ogl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	ogl.GetProgramInfoLog(uint32(p), n, nil, ogl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (*Context) UseProgram(p gl.Program) { ogl.UseProgram(uint32(p)) }

func (*Context) DeleteProgram(p gl.Program) { ogl.DeleteProgram(uint32(p)) }

func (*Context) GetUniformLocation(p gl.Program, name string) gl.Uniform {
	return gl.Uniform(ogl.GetUniformLocation(uint32(p), ogl.Str(name+"\x00")))
}

func (*Context) Uniform1f(u gl.Uniform, v float32) { ogl.Uniform1f(int32(u), v) }

func (*Context) Uniform1i(u gl.Uniform, v int32) { ogl.Uniform1i(int32(u), v) }

func (*Context) Uniform2f(u gl.Uniform, x, y float32) { ogl.Uniform2f(int32(u), x, y) }

func (*Context) UniformMatrix4fv(u gl.Uniform, m [16]float32) {
	ogl.UniformMatrix4fv(int32(u), 1, false, &m[0])
}

func (*Context) VertexAttribPointer(index uint32, size int32, typ gl.Enum, normalized bool, stride, offset int32) {
	ogl.VertexAttribPointer(index, size, uint32(typ), normalized, stride, ogl.PtrOffset(int(offset)))
}

func (*Context) EnableVertexAttribArray(index uint32) { ogl.EnableVertexAttribArray(index) }

func (*Context) Enable(capability gl.Enum) { ogl.Enable(uint32(capability)) }

func (*Context) BlendFunc(sfactor, dfactor gl.Enum) {
	ogl.BlendFunc(uint32(sfactor), uint32(dfactor))
}

func (*Context) Viewport(x, y, width, height int32) { ogl.Viewport(x, y, width, height) }

func (*Context) ClearColor(r, g, b, a float32) { ogl.ClearColor(r, g, b, a) }

func (*Context) Clear(mask gl.Enum) { ogl.Clear(uint32(mask)) }

func (*Context) DrawElements(mode gl.Enum, count int32, typ gl.Enum, offset int32) {
	ogl.DrawElements(uint32(mode), count, uint32(typ), ogl.PtrOffset(int(offset)))
}

func (*Context) Flush() { ogl.Flush() }

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return ogl.Ptr(b)
}

var _ gl.Context = (*Context)(nil)
