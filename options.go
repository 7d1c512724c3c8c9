package blit

import "github.com/db47h/blit/gl"

// FilterMode selects how textures are filtered.
type FilterMode int32

// FilterMode values map directly to their OpenGL equivalents.
const (
	Nearest = FilterMode(gl.Nearest)
	Linear  = FilterMode(gl.Linear)
)

// WrapMode selects how textures wrap when texture coordinates get outside of
// the range [0, 1].
type WrapMode int32

// WrapMode values map directly to their OpenGL equivalents.
const (
	ClampToEdge    = WrapMode(gl.ClampToEdge)
	Repeat         = WrapMode(gl.Repeat)
	MirroredRepeat = WrapMode(gl.MirroredRepeat)
)

type textureParams struct {
	wrapS, wrapT         WrapMode
	minFilter, magFilter FilterMode
}

// TextureParameter is implemented by functions setting texture parameters.
// See TextureParams and Renderer.TextureFromImage.
type TextureParameter interface {
	set(*textureParams)
}

type paramFunc func(*textureParams)

func (f paramFunc) set(p *textureParams) { f(p) }

// Wrap sets the TEXTURE_WRAP_S and TEXTURE_WRAP_T texture parameters.
func Wrap(wrapS, wrapT WrapMode) TextureParameter {
	return paramFunc(func(p *textureParams) {
		p.wrapS = wrapS
		p.wrapT = wrapT
	})
}

// Filter sets the TEXTURE_MIN_FILTER and TEXTURE_MAG_FILTER texture parameters.
func Filter(min, mag FilterMode) TextureParameter {
	return paramFunc(func(p *textureParams) {
		p.minFilter = min
		p.magFilter = mag
	})
}

func loadedParams(defaults []TextureParameter, params []TextureParameter) textureParams {
	p := textureParams{
		wrapS:     ClampToEdge,
		wrapT:     ClampToEdge,
		minFilter: Linear,
		magFilter: Linear,
	}
	for _, o := range defaults {
		o.set(&p)
	}
	for _, o := range params {
		o.set(&p)
	}
	return p
}

type config struct {
	flipY  bool
	loader ImageLoader
	params []TextureParameter
}

// Option is implemented by functions configuring a Renderer. See New.
type Option interface {
	set(*config)
}

type optionFunc func(*config)

func (f optionFunc) set(cfg *config) { f(cfg) }

// FlipY sets the Y-flip policy. It applies to every texture upload and every
// draw.
//
// When true, the default, images are uploaded bottom row first so that
// texture coordinate t = 0 matches the bottom of the image, the way render
// targets store their output. Both loaded textures and render targets then draw
// upright.
//
// When false, images are uploaded top row first and the top and bottom texture
// coordinates of every draw are swapped. Loaded textures still draw upright
// but render targets draw upside down.
func FlipY(flip bool) Option {
	return optionFunc(func(cfg *config) {
		cfg.flipY = flip
	})
}

// Loader sets the image loader used by LoadTexture. The default loader decodes
// files relative to the current directory with an assets.Manager.
func Loader(l ImageLoader) Option {
	return optionFunc(func(cfg *config) {
		cfg.loader = l
	})
}

// TextureParams sets the default parameters of loaded textures. Unless
// overridden, loaded textures use linear filtering and clamp to edge wrapping
// on both axes.
func TextureParams(params ...TextureParameter) Option {
	return optionFunc(func(cfg *config) {
		cfg.params = append(cfg.params, params...)
	})
}
