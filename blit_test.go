package blit

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/db47h/blit/gl"
	"github.com/db47h/blit/gl/soft"
)

// spyContext records some of the calls made to a gl.Context and injects
// failures.
type spyContext struct {
	gl.Context

	textures      int
	vertices      []byte
	failBuffer    bool
	badStage      gl.Enum
	bad           gl.Shader
	failLink      bool
	deletedBuffer int
}

func (c *spyContext) CreateTexture() (gl.Texture, error) {
	c.textures++
	return c.Context.CreateTexture()
}

func (c *spyContext) CreateBuffer() (gl.Buffer, error) {
	if c.failBuffer {
		return 0, errTest
	}
	return c.Context.CreateBuffer()
}

func (c *spyContext) DeleteBuffer(b gl.Buffer) {
	c.deletedBuffer++
	c.Context.DeleteBuffer(b)
}

func (c *spyContext) BufferData(target gl.Enum, data []byte, usage gl.Enum) {
	if target == gl.ArrayBuffer {
		c.vertices = append(c.vertices[:0], data...)
	}
	c.Context.BufferData(target, data, usage)
}

func (c *spyContext) CreateShader(typ gl.Enum) (gl.Shader, error) {
	s, err := c.Context.CreateShader(typ)
	if err == nil && typ == c.badStage {
		c.bad = s
	}
	return s, err
}

func (c *spyContext) ShaderSource(s gl.Shader, src string) {
	if s == c.bad {
		src = ""
	}
	c.Context.ShaderSource(s, src)
}

func (c *spyContext) GetProgrami(p gl.Program, pname gl.Enum) int32 {
	if c.failLink && pname == gl.LinkStatus {
		return 0
	}
	return c.Context.GetProgrami(p, pname)
}

func (c *spyContext) GetProgramInfoLog(p gl.Program) string {
	if c.failLink {
		return "link failed"
	}
	return c.Context.GetProgramInfoLog(p)
}

type testSurface struct {
	ctx gl.Context
	err error
}

func (s *testSurface) Context() (gl.Context, error) {
	return s.ctx, s.err
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("test error")

// newTestRenderer returns a renderer drawing to a w x h software surface.
func newTestRenderer(t *testing.T, w, h int, options ...Option) (*Renderer, *soft.Surface, *spyContext) {
	t.Helper()
	s := soft.NewSurface(w, h)
	c, err := s.Context()
	if err != nil {
		t.Fatal(err)
	}
	spy := &spyContext{Context: c}
	r, err := New(&testSurface{ctx: spy}, image.Pt(w, h), options...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(r.Close)
	return r, s, spy
}

func solidImage(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestTexCoords(t *testing.T) {
	td := []struct {
		name string
		src  Rect
		w, h int
		uv   UV
		ok   bool
	}{
		{"full", R(0, 0, 64, 32), 64, 32, UV{0, 0, 1, 1}, true},
		{"quirk", R(16, 8, 16, 8), 64, 32, UV{.25, .25, .25, .25}, true},
		{"edge", R(64, 32, 10, 10), 64, 32, UV{1, 1, 10.0 / 64, 10.0 / 32}, true},
		{"left out", R(65, 0, 1, 1), 64, 32, UV{}, false},
		{"top out", R(0, 33, 1, 1), 64, 32, UV{}, false},
		{"empty", R(0, 0, 0, 0), 8, 8, UV{0, 0, 0, 0}, true},
		{"zero width texture", R(0, 0, 0, 0), 0, 8, UV{}, false},
		{"zero height texture", R(0, 0, 0, 0), 8, 0, UV{}, false},
		{"empty texture", R(0, 0, 0, 0), 0, 0, UV{}, false},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			uv, ok := TexCoords(d.src, d.w, d.h)
			if ok != d.ok {
				t.Fatalf("ok = %v, want %v", ok, d.ok)
			}
			if ok && uv != d.uv {
				t.Fatalf("uv = %+v, want %+v", uv, d.uv)
			}
		})
	}
}

func TestQuadPack(t *testing.T) {
	q := NewQuad()
	q.SetUV(UV{Left: .1, Top: .2, Right: .3, Bottom: .4})
	b := q.Pack(nil)
	if len(b) != verticesPerQuad*vertexStride {
		t.Fatalf("packed %d bytes", len(b))
	}
	want := []float32{
		0, 1, .1, .2,
		0, 0, .1, .4,
		1, 1, .3, .2,
		1, 0, .3, .4,
	}
	for i, w := range want {
		if got := gl.Float32At(b, i*4); got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
	idx := packIndices()
	for i, w := range quadIndices {
		if got := gl.Uint16At(idx, i*2); got != w {
			t.Errorf("index %d = %d, want %d", i, got, w)
		}
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(0, 512, 256, 0, 0, 100)
	apply := func(x, y float32) (float32, float32) {
		return m[0]*x + m[4]*y + m[12], m[1]*x + m[5]*y + m[13]
	}
	td := []struct{ x, y, cx, cy float32 }{
		{0, 0, -1, 1},
		{512, 256, 1, -1},
		{256, 128, 0, 0},
	}
	for _, d := range td {
		cx, cy := apply(d.x, d.y)
		if math.Abs(float64(cx-d.cx)) > 1e-6 || math.Abs(float64(cy-d.cy)) > 1e-6 {
			t.Errorf("(%v, %v) -> (%v, %v), want (%v, %v)", d.x, d.y, cx, cy, d.cx, d.cy)
		}
	}
	if m[15] != 1 || m[10] != -2.0/100 {
		t.Errorf("unexpected depth terms: %v", m)
	}
}

func TestFlipRows(t *testing.T) {
	pix := []byte{1, 1, 2, 2, 3, 3}
	got := flipRows(pix, 2, 3)
	want := []byte{3, 3, 2, 2, 1, 1}
	if string(got) != string(want) {
		t.Fatalf("flipRows = %v, want %v", got, want)
	}
	if pix[0] != 1 {
		t.Fatal("flipRows modified its input")
	}
}
