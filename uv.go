package blit

// UV holds the texture coordinates of the quad edges.
type UV struct {
	Left, Top, Right, Bottom float32
}

// TexCoords computes the texture coordinates for drawing src out of a texture of
// size w x h. It returns false if src starts outside of the texture or if the
// texture is empty, in which case nothing should be drawn.
//
// Right and Bottom are src.W/w and src.H/h: the source width and height are used
// directly as the far edge fraction. Callers that want the sub-rectangle
// (x, y)-(x+w, y+h) must add src.X to src.W and src.Y to src.H.
func TexCoords(src Rect, w, h int) (uv UV, ok bool) {
	if w <= 0 || h <= 0 {
		return uv, false
	}
	uv.Left = float32(src.X) / float32(w)
	if uv.Left > 1 {
		return uv, false
	}
	uv.Top = float32(src.Y) / float32(h)
	if uv.Top > 1 {
		return uv, false
	}
	uv.Right = float32(src.W) / float32(w)
	uv.Bottom = float32(src.H) / float32(h)
	return uv, true
}

// flipped swaps the top and bottom coordinates.
func (uv UV) flipped() UV {
	uv.Top, uv.Bottom = uv.Bottom, uv.Top
	return uv
}
