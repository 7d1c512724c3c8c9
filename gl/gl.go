// Package gl defines the GPU capability boundary used by the compositor.
//
// A Context is the small subset of OpenGL ES 2.0 / WebGL 1 that the renderer
// needs: buffers, textures, framebuffers, shader programs, uniforms, blending,
// clears, indexed draws and flush. Implementations live in sub-packages:
// gl/soft (pure Go, headless), gl/glcore (desktop OpenGL) and gl/webgl
// (browser).
//
// All Context methods must be called from the goroutine that owns the
// context. None of them are safe for concurrent use.
package gl

// Enum is an OpenGL enumerated value. Values map directly to their OpenGL
// equivalents.
type Enum uint32

// Enum values used by the compositor.
const (
	Zero             Enum = 0
	One              Enum = 1
	Triangles        Enum = 0x0004
	SrcAlpha         Enum = 0x0302
	OneMinusSrcAlpha Enum = 0x0303
	Blend            Enum = 0x0BE2
	UnpackAlignment  Enum = 0x0CF5
	Texture2D        Enum = 0x0DE1
	UnsignedByte     Enum = 0x1401
	UnsignedShort    Enum = 0x1403
	Float            Enum = 0x1406
	RGBA             Enum = 0x1908
	Nearest          Enum = 0x2600
	Linear           Enum = 0x2601
	TextureMagFilter Enum = 0x2800
	TextureMinFilter Enum = 0x2801
	TextureWrapS     Enum = 0x2802
	TextureWrapT     Enum = 0x2803
	Repeat           Enum = 0x2901
	ColorBufferBit   Enum = 0x4000
	RGBA8            Enum = 0x8058
	ClampToEdge      Enum = 0x812F
	MirroredRepeat   Enum = 0x8370
	Texture0         Enum = 0x84C0
	ArrayBuffer      Enum = 0x8892
	ElementArray     Enum = 0x8893
	StreamDraw       Enum = 0x88E0
	StaticDraw       Enum = 0x88E4
	DynamicDraw      Enum = 0x88E8
	FragmentShader   Enum = 0x8B30
	VertexShader     Enum = 0x8B31
	CompileStatus    Enum = 0x8B81
	LinkStatus       Enum = 0x8B82

	FramebufferComplete                    Enum = 0x8CD5
	FramebufferIncompleteAttachment        Enum = 0x8CD6
	FramebufferIncompleteMissingAttachment Enum = 0x8CD7
	FramebufferUnsupported                 Enum = 0x8CDD
	ColorAttachment0                       Enum = 0x8CE0
	FramebufferTarget                      Enum = 0x8D40
)

// Opaque object handles. The zero value designates no object: binding a zero
// Framebuffer selects the default (visible) framebuffer, binding a zero
// Texture or Buffer unbinds.
type (
	Buffer      uint32
	Texture     uint32
	Framebuffer uint32
	Shader      uint32
	Program     uint32
)

// Uniform is a uniform location. Negative values denote unknown uniforms;
// setting them is a no-op.
type Uniform int32

// Profile identifies the shading language dialect accepted by a Context.
type Profile int

const (
	// ProfileES2 accepts GLSL ES 1.00 (OpenGL ES 2.0, WebGL 1).
	ProfileES2 Profile = iota
	// ProfileCore accepts GLSL 3.30 core.
	ProfileCore
)

func (p Profile) String() string {
	switch p {
	case ProfileES2:
		return "ES2"
	case ProfileCore:
		return "Core"
	}
	return "unknown"
}

// Context is the GPU capability set consumed by the renderer.
type Context interface {
	Profile() Profile
	Version() string

	CreateBuffer() (Buffer, error)
	BindBuffer(target Enum, b Buffer)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(b Buffer)

	CreateTexture() (Texture, error)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, t Texture)
	TexParameteri(target, pname Enum, param int32)
	// TexImage2D specifies a two-dimensional texture image. A nil pixels
	// slice allocates uninitialized storage.
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, typ Enum, pixels []byte)
	PixelStorei(pname Enum, param int32)
	DeleteTexture(t Texture)

	CreateFramebuffer() (Framebuffer, error)
	BindFramebuffer(target Enum, fb Framebuffer)
	FramebufferTexture2D(target, attachment, texTarget Enum, t Texture, level int32)
	CheckFramebufferStatus(target Enum) Enum
	DeleteFramebuffer(fb Framebuffer)

	CreateShader(typ Enum) (Shader, error)
	ShaderSource(s Shader, src string)
	CompileShader(s Shader)
	GetShaderi(s Shader, pname Enum) int32
	GetShaderInfoLog(s Shader) string
	DeleteShader(s Shader)

	CreateProgram() (Program, error)
	AttachShader(p Program, s Shader)
	BindAttribLocation(p Program, index uint32, name string)
	LinkProgram(p Program)
	GetProgrami(p Program, pname Enum) int32
	GetProgramInfoLog(p Program) string
	UseProgram(p Program)
	DeleteProgram(p Program)

	GetUniformLocation(p Program, name string) Uniform
	Uniform1f(u Uniform, v float32)
	Uniform1i(u Uniform, v int32)
	Uniform2f(u Uniform, x, y float32)
	UniformMatrix4fv(u Uniform, m [16]float32)

	VertexAttribPointer(index uint32, size int32, typ Enum, normalized bool, stride, offset int32)
	EnableVertexAttribArray(index uint32)

	Enable(capability Enum)
	BlendFunc(sfactor, dfactor Enum)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	DrawElements(mode Enum, count int32, typ Enum, offset int32)
	Flush()
}
