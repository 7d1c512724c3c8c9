package soft

import (
	"image/color"
	"testing"

	"github.com/db47h/blit/gl"
)

const (
	testVS = "uniform mat4 uProjection; uniform Rect uDestRect; void main() {}"
	testFS = "uniform sampler2D uTexture; void main() {}"
)

func ortho(w, h float32) [16]float32 {
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -2.0 / 100, 0,
		-1, 1, -1, 1,
	}
}

func newTestContext(t *testing.T, w, h int) (*Surface, *Context, gl.Program) {
	t.Helper()
	s := NewSurface(w, h)
	ci, err := s.Context()
	if err != nil {
		t.Fatal(err)
	}
	c := ci.(*Context)
	vs, _ := c.CreateShader(gl.VertexShader)
	c.ShaderSource(vs, testVS)
	c.CompileShader(vs)
	fs, _ := c.CreateShader(gl.FragmentShader)
	c.ShaderSource(fs, testFS)
	c.CompileShader(fs)
	p, _ := c.CreateProgram()
	c.AttachShader(p, vs)
	c.AttachShader(p, fs)
	c.BindAttribLocation(p, 0, "aPos")
	c.BindAttribLocation(p, 1, "aTexCoords")
	c.LinkProgram(p)
	if c.GetProgrami(p, gl.LinkStatus) == 0 {
		t.Fatalf("link: %s", c.GetProgramInfoLog(p))
	}
	c.UseProgram(p)
	return s, c, p
}

// drawQuad draws tex into the pixel rectangle (x, y, w, h) with the full
// texture mapped onto it.
func drawQuad(c *Context, p gl.Program, tex gl.Texture, x, y, w, h float32, res [2]float32) {
	c.UniformMatrix4fv(c.GetUniformLocation(p, "uProjection"), ortho(res[0], res[1]))
	c.Uniform1f(c.GetUniformLocation(p, "uDestRect.x"), x)
	c.Uniform1f(c.GetUniformLocation(p, "uDestRect.y"), y)
	c.Uniform1f(c.GetUniformLocation(p, "uDestRect.w"), w)
	c.Uniform1f(c.GetUniformLocation(p, "uDestRect.h"), h)
	c.Uniform1i(c.GetUniformLocation(p, "uTexture"), 0)

	vbo, _ := c.CreateBuffer()
	c.BindBuffer(gl.ArrayBuffer, vbo)
	c.BufferData(gl.ArrayBuffer, gl.PackFloat32(nil,
		0, 1, 0, 0,
		0, 0, 0, 1,
		1, 1, 1, 0,
		1, 0, 1, 1,
	), gl.StreamDraw)
	c.VertexAttribPointer(0, 2, gl.Float, false, 16, 0)
	c.VertexAttribPointer(1, 2, gl.Float, false, 16, 8)
	c.EnableVertexAttribArray(0)
	c.EnableVertexAttribArray(1)
	ibo, _ := c.CreateBuffer()
	c.BindBuffer(gl.ElementArray, ibo)
	c.BufferData(gl.ElementArray, gl.PackUint16(nil, 0, 1, 2, 2, 1, 3), gl.StaticDraw)
	c.ActiveTexture(gl.Texture0)
	c.BindTexture(gl.Texture2D, tex)
	c.DrawElements(gl.Triangles, 6, gl.UnsignedShort, 0)
	c.BindTexture(gl.Texture2D, 0)
	c.DeleteBuffer(vbo)
	c.DeleteBuffer(ibo)
}

func solidTexture(c *Context, w, h int, px [4]byte) gl.Texture {
	t, _ := c.CreateTexture()
	c.BindTexture(gl.Texture2D, t)
	c.TexParameteri(gl.Texture2D, gl.TextureMinFilter, int32(gl.Nearest))
	c.TexParameteri(gl.Texture2D, gl.TextureMagFilter, int32(gl.Nearest))
	pix := make([]byte, w*h*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:], px[:])
	}
	c.TexImage2D(gl.Texture2D, 0, gl.RGBA, int32(w), int32(h), gl.RGBA, gl.UnsignedByte, pix)
	c.BindTexture(gl.Texture2D, 0)
	return t
}

func TestSurfaceContext(t *testing.T) {
	if _, err := NewSurface(0, 10).Context(); err == nil {
		t.Fatal("expected error for empty surface")
	}
	s := NewSurface(4, 4)
	c1, err := s.Context()
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := s.Context()
	if c1 != c2 {
		t.Fatal("Context returned different contexts")
	}
	if w, h := s.Size(); w != 4 || h != 4 {
		t.Fatalf("Size() = %d, %d", w, h)
	}
}

func TestClear(t *testing.T) {
	s, c, _ := newTestContext(t, 3, 2)
	c.ClearColor(0, 1, 0, 1)
	c.Clear(gl.ColorBufferBit)
	img := s.Image()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{0, 255, 0, 255}) {
				t.Fatalf("pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
	if s.Stats().Clears != 1 {
		t.Fatalf("Clears = %d", s.Stats().Clears)
	}
}

func TestDrawQuadCoverage(t *testing.T) {
	s, c, p := newTestContext(t, 16, 16)
	c.ClearColor(0, 0, 0, 1)
	c.Clear(gl.ColorBufferBit)
	c.Enable(gl.Blend)
	c.BlendFunc(gl.SrcAlpha, gl.OneMinusSrcAlpha)
	// half transparent white: any pixel blended twice would come out brighter
	tex := solidTexture(c, 2, 2, [4]byte{255, 255, 255, 128})
	drawQuad(c, p, tex, 2, 3, 8, 5, [2]float32{16, 16})

	img := s.Image()
	want := img.RGBAAt(2, 3)
	if want.R == 0 {
		t.Fatalf("quad not drawn at (2,3): %v", want)
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			got := img.RGBAAt(x, y)
			in := x >= 2 && x < 10 && y >= 3 && y < 8
			switch {
			case in && got != want:
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			case !in && got.R != 0:
				t.Fatalf("pixel (%d,%d) outside the quad = %v", x, y, got)
			}
		}
	}
	if s.Stats().DrawCalls != 1 {
		t.Fatalf("DrawCalls = %d", s.Stats().DrawCalls)
	}
}

func TestTextureOrientation(t *testing.T) {
	s, c, p := newTestContext(t, 2, 2)
	// bottom-up storage: first row is t = 0
	tex, _ := c.CreateTexture()
	c.BindTexture(gl.Texture2D, tex)
	c.TexParameteri(gl.Texture2D, gl.TextureMinFilter, int32(gl.Nearest))
	c.TexParameteri(gl.Texture2D, gl.TextureMagFilter, int32(gl.Nearest))
	c.TexImage2D(gl.Texture2D, 0, gl.RGBA, 1, 2, gl.RGBA, gl.UnsignedByte, []byte{
		255, 0, 0, 255, // t = 0
		0, 0, 255, 255, // t = 1
	})
	drawQuad(c, p, tex, 0, 0, 2, 2, [2]float32{2, 2})
	img := s.Image()
	// position (0,1) in unit space maps to the bottom of the destination
	// rectangle and carries t = 0.
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom row = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top row = %v, want blue", got)
	}
}

func TestFramebuffer(t *testing.T) {
	s, c, p := newTestContext(t, 4, 4)
	rt, _ := c.CreateTexture()
	c.BindTexture(gl.Texture2D, rt)
	c.TexParameteri(gl.Texture2D, gl.TextureMinFilter, int32(gl.Nearest))
	c.TexParameteri(gl.Texture2D, gl.TextureMagFilter, int32(gl.Nearest))
	c.TexImage2D(gl.Texture2D, 0, gl.RGBA, 4, 4, gl.RGBA, gl.UnsignedByte, nil)
	c.BindTexture(gl.Texture2D, 0)

	fb, _ := c.CreateFramebuffer()
	c.BindFramebuffer(gl.FramebufferTarget, fb)
	if st := c.CheckFramebufferStatus(gl.FramebufferTarget); st != gl.FramebufferIncompleteMissingAttachment {
		t.Fatalf("status without attachment = 0x%X", uint32(st))
	}
	c.FramebufferTexture2D(gl.FramebufferTarget, gl.ColorAttachment0, gl.Texture2D, rt, 0)
	if st := c.CheckFramebufferStatus(gl.FramebufferTarget); st != gl.FramebufferComplete {
		t.Fatalf("status = 0x%X", uint32(st))
	}
	c.ClearColor(1, 0, 0, 1)
	c.Clear(gl.ColorBufferBit)
	c.BindFramebuffer(gl.FramebufferTarget, 0)

	if got := c.TextureImage(rt).RGBAAt(3, 3); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("render target pixel = %v", got)
	}
	if got := s.Image().RGBAAt(0, 0); got != (color.RGBA{}) {
		t.Fatalf("surface modified: %v", got)
	}
	drawQuad(c, p, rt, 0, 0, 4, 4, [2]float32{4, 4})
	if got := s.Image().RGBAAt(1, 2); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("blitted pixel = %v", got)
	}
}

func TestFramebufferIncomplete(t *testing.T) {
	_, c, _ := newTestContext(t, 4, 4)
	empty, _ := c.CreateTexture()
	c.BindTexture(gl.Texture2D, empty)
	c.TexImage2D(gl.Texture2D, 0, gl.RGBA, 0, 0, gl.RGBA, gl.UnsignedByte, nil)
	fb, _ := c.CreateFramebuffer()
	c.BindFramebuffer(gl.FramebufferTarget, fb)
	c.FramebufferTexture2D(gl.FramebufferTarget, gl.ColorAttachment0, gl.Texture2D, empty, 0)
	if st := c.CheckFramebufferStatus(gl.FramebufferTarget); st != gl.FramebufferIncompleteAttachment {
		t.Fatalf("status = 0x%X", uint32(st))
	}
	c.Clear(gl.ColorBufferBit)
	if c.Stats().Clears != 0 || c.Stats().Errors == 0 {
		t.Fatalf("clear on incomplete framebuffer: %+v", c.Stats())
	}
}

func TestShaderDiagnostics(t *testing.T) {
	_, c, _ := newTestContext(t, 1, 1)
	s, _ := c.CreateShader(gl.VertexShader)
	c.ShaderSource(s, "precision mediump float;")
	c.CompileShader(s)
	if c.GetShaderi(s, gl.CompileStatus) != 0 {
		t.Fatal("shader without main compiled")
	}
	if c.GetShaderInfoLog(s) == "" {
		t.Fatal("empty info log")
	}
	p, _ := c.CreateProgram()
	c.AttachShader(p, s)
	c.LinkProgram(p)
	if c.GetProgrami(p, gl.LinkStatus) != 0 || c.GetProgramInfoLog(p) == "" {
		t.Fatal("program with failed shader linked")
	}
	if _, err := c.CreateShader(gl.Texture2D); err == nil {
		t.Fatal("expected error for invalid shader type")
	}
}

func TestLinearSampling(t *testing.T) {
	tex := newTexture()
	tex.w, tex.h = 2, 1
	tex.pix = []byte{0, 0, 0, 255, 255, 255, 255, 255}
	tex.magFilter, tex.wrapS, tex.wrapT = gl.Linear, gl.ClampToEdge, gl.ClampToEdge
	if got := tex.sample(.5, .5, true); got[0] != .5 {
		t.Fatalf("sample at center = %v, want .5", got)
	}
	if got := tex.sample(0, .5, true); got[0] != 0 {
		t.Fatalf("sample at left edge = %v, want 0", got)
	}
	tex.minFilter = nearestMipmapLinear
	if got := tex.sample(.5, .5, false); got != [4]float64{0, 0, 0, 1} {
		t.Fatalf("incomplete texture sample = %v", got)
	}
}

func TestWrap(t *testing.T) {
	td := []struct {
		i, n int
		mode gl.Enum
		want int
	}{
		{-1, 4, gl.ClampToEdge, 0},
		{4, 4, gl.ClampToEdge, 3},
		{5, 4, gl.Repeat, 1},
		{-1, 4, gl.Repeat, 3},
		{4, 4, gl.MirroredRepeat, 3},
		{-1, 4, gl.MirroredRepeat, 0},
	}
	for _, d := range td {
		if got := wrap(d.i, d.n, d.mode); got != d.want {
			t.Errorf("wrap(%d, %d, 0x%X) = %d, want %d", d.i, d.n, uint32(d.mode), got, d.want)
		}
	}
}
