//go:build js && wasm

package webgl

import (
	"syscall/js"

	"github.com/db47h/blit/gl"
	"github.com/pkg/errors"
)

// Canvas is an HTML canvas element. It implements blit.Surface.
type Canvas struct {
	el  js.Value
	ctx *Context
}

// NewCanvas looks up the canvas element with the given id and sets its size.
func NewCanvas(id string, width, height int) (*Canvas, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, errors.Errorf("canvas %q not found", id)
	}
	el.Set("width", width)
	el.Set("height", height)
	return &Canvas{el: el}, nil
}

// Context returns the canvas' WebGL context. Images are uploaded with the
// first row at the bottom, so UNPACK_FLIP_Y_WEBGL is left disabled.
func (c *Canvas) Context() (gl.Context, error) {
	if c.ctx != nil {
		return c.ctx, nil
	}
	v := c.el.Call("getContext", "webgl", map[string]interface{}{
		"alpha":              false,
		"antialias":          false,
		"premultipliedAlpha": false,
	})
	if v.IsNull() || v.IsUndefined() {
		return nil, errors.New("WebGL not supported")
	}
	c.ctx = NewContext(v)
	return c.ctx, nil
}
