package blit

// Ortho returns a column-major orthographic projection matrix mapping the box
// [left, right] x [bottom, top] x [-near, -far] to clip space.
//
// Ortho(0, w, h, 0, 0, 100) maps pixel coordinates, with the origin at the top
// left and the Y axis pointing down, to clip space.
func Ortho(left, right, bottom, top, near, far float32) [16]float32 {
	rl, tb, fn := right-left, top-bottom, far-near
	return [16]float32{
		2 / rl, 0, 0, 0,
		0, 2 / tb, 0, 0,
		0, 0, -2 / fn, 0,
		-(right + left) / rl, -(top + bottom) / tb, -(far + near) / fn, 1,
	}
}
