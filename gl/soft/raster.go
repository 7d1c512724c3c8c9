package soft

import (
	"math"

	"github.com/db47h/blit/gl"
)

type vertex struct {
	x, y float64 // window coordinates, y up
	u, v float64
}

// DrawElements runs the emulated quad pipeline over count indices.
func (c *Context) DrawElements(mode gl.Enum, count int32, typ gl.Enum, offset int32) {
	pr := c.programs[c.prog]
	cb := c.colorBuffer()
	idx, ok := c.buffers[c.elementBuf]
	switch {
	case mode != gl.Triangles, typ != gl.UnsignedShort, count < 0, count%3 != 0,
		pr == nil, cb == nil, c.elementBuf == 0 || !ok,
		int(offset)+int(count)*2 > len(idx):
		c.invalid()
		return
	}
	c.stats.DrawCalls++

	vs := make([]vertex, 0, count)
	for i := int32(0); i < count; i++ {
		v, ok := c.vertex(pr, int(gl.Uint16At(idx, int(offset+i*2))))
		if !ok {
			c.invalid()
			return
		}
		vs = append(vs, v)
	}

	var tex *texture
	if u := pr.uniform("uTexture"); len(u) == 1 && int(u[0]) >= 0 && int(u[0]) < maxUnits {
		tex = c.textures[c.units[int(u[0])]]
	}
	for i := 0; i+2 < len(vs); i += 3 {
		c.triangle(cb, tex, vs[i], vs[i+1], vs[i+2])
	}
}

// vertex fetches vertex n and runs the emulated vertex stage.
func (c *Context) vertex(pr *program, n int) (vertex, bool) {
	pos, ok := c.fetch(0, n)
	if !ok {
		return vertex{}, false
	}
	uv, ok := c.fetch(1, n)
	if !ok {
		return vertex{}, false
	}
	dx, dy := pr.scalar("uDestRect.x"), pr.scalar("uDestRect.y")
	dw, dh := pr.scalar("uDestRect.w"), pr.scalar("uDestRect.h")
	px, py := dx+pos[0]*dw, dy+pos[1]*dh

	m := pr.uniform("uProjection")
	if len(m) != 16 {
		m = identity[:]
	}
	cx := float64(m[0])*px + float64(m[4])*py + float64(m[12])
	cy := float64(m[1])*px + float64(m[5])*py + float64(m[13])
	cw := float64(m[3])*px + float64(m[7])*py + float64(m[15])
	if cw == 0 {
		return vertex{}, false
	}
	vx, vy, vw, vh := c.viewport[0], c.viewport[1], c.viewport[2], c.viewport[3]
	return vertex{
		x: (cx/cw+1)/2*float64(vw) + float64(vx),
		y: (cy/cw+1)/2*float64(vh) + float64(vy),
		u: uv[0],
		v: uv[1],
	}, true
}

var identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func (p *program) scalar(name string) float64 {
	if v := p.uniform(name); len(v) > 0 {
		return float64(v[0])
	}
	return 0
}

// fetch reads the first two components of attribute index for vertex n.
func (c *Context) fetch(index, n int) ([2]float64, bool) {
	var r [2]float64
	a := c.attribs[index]
	if !a.enabled {
		return r, true
	}
	b, ok := c.buffers[a.buf]
	if !ok {
		return r, false
	}
	off := int(a.offset) + n*int(a.stride)
	for i := 0; i < int(a.size) && i < 2; i++ {
		o := off + i*4
		if o < 0 || o+4 > len(b) {
			return r, false
		}
		r[i] = float64(gl.Float32At(b, o))
	}
	return r, true
}

func edge(a, b vertex, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// topLeft reports whether a->b is a top or left edge of a counter-clockwise
// triangle in y-up window coordinates.
func topLeft(a, b vertex) bool {
	return b.y < a.y || (b.y == a.y && b.x < a.x)
}

func covered(w float64, a, b vertex) bool {
	return w > 0 || (w == 0 && topLeft(a, b))
}

func (c *Context) triangle(cb, tex *texture, v0, v1, v2 vertex) {
	area := edge(v0, v1, v2.x, v2.y)
	if area == 0 || math.IsNaN(area) {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}

	// clip to the viewport and the color buffer
	minX := math.Max(math.Min(v0.x, math.Min(v1.x, v2.x)), math.Max(0, float64(c.viewport[0])))
	maxX := math.Min(math.Max(v0.x, math.Max(v1.x, v2.x)), math.Min(float64(cb.w), float64(c.viewport[0]+c.viewport[2])))
	minY := math.Max(math.Min(v0.y, math.Min(v1.y, v2.y)), math.Max(0, float64(c.viewport[1])))
	maxY := math.Min(math.Max(v0.y, math.Max(v1.y, v2.y)), math.Min(float64(cb.h), float64(c.viewport[1]+c.viewport[3])))
	if minX >= maxX || minY >= maxY {
		return
	}

	// texture coordinate derivatives select between min and mag filters
	mag := true
	if tex != nil {
		dudx := (v0.u*(v1.y-v2.y) + v1.u*(v2.y-v0.y) + v2.u*(v0.y-v1.y)) / area
		dvdy := (v0.v*(v2.x-v1.x) + v1.v*(v0.x-v2.x) + v2.v*(v1.x-v0.x)) / area
		mag = math.Abs(dudx)*float64(tex.w) <= 1 && math.Abs(dvdy)*float64(tex.h) <= 1
	}

	for y := int(math.Floor(minY)); float64(y) < maxY; y++ {
		py := float64(y) + .5
		for x := int(math.Floor(minX)); float64(x) < maxX; x++ {
			px := float64(x) + .5
			w0 := edge(v1, v2, px, py)
			w1 := edge(v2, v0, px, py)
			w2 := edge(v0, v1, px, py)
			if !covered(w0, v1, v2) || !covered(w1, v2, v0) || !covered(w2, v0, v1) {
				continue
			}
			l0, l1, l2 := w0/area, w1/area, w2/area
			src := tex.sample(l0*v0.u+l1*v1.u+l2*v2.u, l0*v0.v+l1*v1.v+l2*v2.v, mag)
			c.blendPixel(cb, x, y, src)
		}
	}
}

// sample returns the filtered texel at (u, v). Incomplete textures sample as
// opaque black.
func (t *texture) sample(u, v float64, mag bool) [4]float64 {
	if t == nil || t.w == 0 || t.h == 0 || math.IsNaN(u) || math.IsNaN(v) {
		return [4]float64{0, 0, 0, 1}
	}
	filter := t.minFilter
	if mag {
		filter = t.magFilter
	}
	switch filter {
	case gl.Nearest:
		return t.texel(wrap(int(math.Floor(u*float64(t.w))), t.w, t.wrapS), wrap(int(math.Floor(v*float64(t.h))), t.h, t.wrapT))
	case gl.Linear:
		x, y := u*float64(t.w)-.5, v*float64(t.h)-.5
		x0, y0 := math.Floor(x), math.Floor(y)
		fx, fy := x-x0, y-y0
		i0, j0 := int(x0), int(y0)
		i1, j1 := wrap(i0+1, t.w, t.wrapS), wrap(j0+1, t.h, t.wrapT)
		i0, j0 = wrap(i0, t.w, t.wrapS), wrap(j0, t.h, t.wrapT)
		a, b := t.texel(i0, j0), t.texel(i1, j0)
		c, d := t.texel(i0, j1), t.texel(i1, j1)
		var r [4]float64
		for k := range r {
			r[k] = (a[k]*(1-fx)+b[k]*fx)*(1-fy) + (c[k]*(1-fx)+d[k]*fx)*fy
		}
		return r
	}
	// mipmapped filters without mipmaps: texture incomplete
	return [4]float64{0, 0, 0, 1}
}

func wrap(i, n int, mode gl.Enum) int {
	switch mode {
	case gl.Repeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	case gl.MirroredRepeat:
		p := 2 * n
		i %= p
		if i < 0 {
			i += p
		}
		if i >= n {
			i = p - 1 - i
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (t *texture) texel(i, j int) [4]float64 {
	o := (j*t.w + i) * 4
	p := t.pix[o : o+4]
	return [4]float64{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255}
}

func (c *Context) blendPixel(cb *texture, x, y int, src [4]float64) {
	o := (y*cb.w + x) * 4
	p := cb.pix[o : o+4]
	if !c.blend {
		for k := range src {
			p[k] = toByte(float32(src[k]))
		}
		return
	}
	dst := [4]float64{float64(p[0]) / 255, float64(p[1]) / 255, float64(p[2]) / 255, float64(p[3]) / 255}
	sf := factor(c.sfactor, src, dst)
	df := factor(c.dfactor, src, dst)
	for k := range src {
		p[k] = toByte(float32(src[k]*sf + dst[k]*df))
	}
}

func factor(f gl.Enum, src, dst [4]float64) float64 {
	switch f {
	case gl.Zero:
		return 0
	case gl.One:
		return 1
	case gl.SrcAlpha:
		return src[3]
	case gl.OneMinusSrcAlpha:
		return 1 - src[3]
	}
	return 1
}

func toByte(v float32) byte {
	switch {
	case v <= 0 || v != v:
		return 0
	case v >= 1:
		return 255
	}
	return byte(v*255 + .5)
}
