package blit

import (
	"github.com/db47h/blit/gl"
)

// Attribute locations, bound before linking.
const (
	attribPos       = 0
	attribTexCoords = 1
)

var vertexShader = `struct Rect {
	float x;
	float y;
	float w;
	float h;
};

attribute vec2 aPos;
attribute vec2 aTexCoords;

uniform mat4 uProjection;
uniform Rect uDestRect;
uniform vec2 uTextureSize;

varying vec2 vTexCoords;

void main()
{
	vec2 p = vec2(uDestRect.x, uDestRect.y) + aPos * vec2(uDestRect.w, uDestRect.h);
	gl_Position = uProjection * vec4(p, 0.0, 1.0);
	vTexCoords = aTexCoords;
}
`

var fragmentShader = `precision mediump float;

varying vec2 vTexCoords;

uniform sampler2D uTexture;

void main()
{
	gl_FragColor = texture2D(uTexture, vTexCoords);
}
`

// GLSL 3.30 core spells the ES 1.00 keywords differently.
const (
	coreVertexHeader = `#version 330 core
#define attribute in
#define varying out
`
	coreFragmentHeader = `#version 330 core
#define varying in
#define texture2D texture
#define gl_FragColor fragColor
out vec4 fragColor;
`
)

func shaderSource(p gl.Profile, typ gl.Enum) string {
	switch typ {
	case gl.VertexShader:
		if p == gl.ProfileCore {
			return coreVertexHeader + vertexShader
		}
		return vertexShader
	default:
		if p == gl.ProfileCore {
			return coreFragmentHeader + fragmentShader
		}
		return fragmentShader
	}
}

func stageName(typ gl.Enum) string {
	if typ == gl.VertexShader {
		return "vertex"
	}
	return "fragment"
}

func compileShader(ctx gl.Context, typ gl.Enum) (gl.Shader, error) {
	s, err := ctx.CreateShader(typ)
	if err != nil {
		return 0, &ResourceError{Resource: stageName(typ) + " shader", Err: err}
	}
	ctx.ShaderSource(s, shaderSource(ctx.Profile(), typ))
	ctx.CompileShader(s)
	if ctx.GetShaderi(s, gl.CompileStatus) == 0 {
		log := ctx.GetShaderInfoLog(s)
		ctx.DeleteShader(s)
		return 0, &ShaderCompileError{Stage: stageName(typ), Log: log}
	}
	return s, nil
}

// loadShaders compiles and links the compositor's shader program.
func loadShaders(ctx gl.Context) (prog gl.Program, vs, fs gl.Shader, err error) {
	vs, err = compileShader(ctx, gl.VertexShader)
	if err != nil {
		return 0, 0, 0, err
	}
	fs, err = compileShader(ctx, gl.FragmentShader)
	if err != nil {
		ctx.DeleteShader(vs)
		return 0, 0, 0, err
	}
	prog, err = ctx.CreateProgram()
	if err != nil {
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		return 0, 0, 0, &ResourceError{Resource: "shader program", Err: err}
	}
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	ctx.BindAttribLocation(prog, attribPos, "aPos")
	ctx.BindAttribLocation(prog, attribTexCoords, "aTexCoords")
	ctx.LinkProgram(prog)
	if ctx.GetProgrami(prog, gl.LinkStatus) == 0 {
		log := ctx.GetProgramInfoLog(prog)
		ctx.DeleteProgram(prog)
		ctx.DeleteShader(vs)
		ctx.DeleteShader(fs)
		return 0, 0, 0, &ProgramLinkError{Log: log}
	}
	return prog, vs, fs, nil
}
