//go:build js && wasm

package webgl

import (
	"image"
	"syscall/js"

	"github.com/db47h/blit/assets"
	"github.com/pkg/errors"
)

// ImageLoader decodes images with the browser's image decoder. It implements
// blit.ImageLoader.
//
// Names are URLs relative to Base.
type ImageLoader struct {
	Base string
}

// Decode starts loading the named image. The returned channel receives a single
// result and is then closed.
func (l *ImageLoader) Decode(name string) <-chan assets.Result {
	rc := make(chan assets.Result, 1)
	a := assets.Asset{Type: assets.TypeImage, Name: name}
	img := js.Global().Get("Image").New()
	var onload, onerror js.Func
	done := func(r assets.Result) {
		onload.Release()
		onerror.Release()
		rc <- r
		close(rc)
	}
	onload = js.FuncOf(func(js.Value, []js.Value) interface{} {
		nrgba, err := pixels(img)
		done(assets.Result{Asset: a, Image: nrgba, Err: err})
		return nil
	})
	onerror = js.FuncOf(func(js.Value, []js.Value) interface{} {
		done(assets.Result{Asset: a, Err: errors.Errorf("load %s: image decode failed", name)})
		return nil
	})
	img.Set("onload", onload)
	img.Set("onerror", onerror)
	img.Set("src", l.Base+name)
	return rc
}

// pixels draws img to an offscreen 2D canvas and reads it back. getImageData
// returns non premultiplied RGBA.
func pixels(img js.Value) (*image.NRGBA, error) {
	w, h := img.Get("naturalWidth").Int(), img.Get("naturalHeight").Int()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}
	cv := js.Global().Get("document").Call("createElement", "canvas")
	cv.Set("width", w)
	cv.Set("height", h)
	ctx := cv.Call("getContext", "2d")
	ctx.Call("drawImage", img, 0, 0)
	data := ctx.Call("getImageData", 0, 0, w, h).Get("data")
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	js.CopyBytesToGo(dst.Pix, js.Global().Get("Uint8Array").New(data.Get("buffer")))
	return dst, nil
}
