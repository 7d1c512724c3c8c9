package blit

import "github.com/db47h/blit/gl"

// A Vertex is a quad vertex. Pos is in unit space and UV is a normalized
// texture coordinate.
type Vertex struct {
	Pos [2]float32
	UV  [2]float32
}

const (
	floatsPerVertex = 4
	vertexStride    = floatsPerVertex * 4
	verticesPerQuad = 4
	indicesPerQuad  = 6
)

// Quad corners.
const (
	TopLeft = iota
	BottomLeft
	TopRight
	BottomRight
)

// quadIndices draws the unit quad as two triangles.
var quadIndices = [indicesPerQuad]uint16{0, 1, 2, 2, 1, 3}

// A Quad is the unit quad mesh. Positions never change; UV coordinates are set
// before each draw.
type Quad [verticesPerQuad]Vertex

// NewQuad returns a unit quad with UV coordinates matching its positions.
func NewQuad() Quad {
	return Quad{
		TopLeft:     {Pos: [2]float32{0, 1}, UV: [2]float32{0, 1}},
		BottomLeft:  {Pos: [2]float32{0, 0}, UV: [2]float32{0, 0}},
		TopRight:    {Pos: [2]float32{1, 1}, UV: [2]float32{1, 1}},
		BottomRight: {Pos: [2]float32{1, 0}, UV: [2]float32{1, 0}},
	}
}

// SetUV sets the UV coordinates of all four corners from uv.
func (q *Quad) SetUV(uv UV) {
	q[TopLeft].UV = [2]float32{uv.Left, uv.Top}
	q[BottomLeft].UV = [2]float32{uv.Left, uv.Bottom}
	q[TopRight].UV = [2]float32{uv.Right, uv.Top}
	q[BottomRight].UV = [2]float32{uv.Right, uv.Bottom}
}

// Pack appends the vertex data of q to dst in attribute order: position x, y
// then texture coordinates u, v for each corner in corner order.
func (q *Quad) Pack(dst []byte) []byte {
	for i := range q {
		v := &q[i]
		dst = gl.PackFloat32(dst, v.Pos[0], v.Pos[1], v.UV[0], v.UV[1])
	}
	return dst
}

func packIndices() []byte {
	return gl.PackUint16(make([]byte, 0, indicesPerQuad*2), quadIndices[:]...)
}
