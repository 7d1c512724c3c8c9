package blit

import (
	"context"

	"github.com/db47h/blit/assets"
	"github.com/pkg/errors"
)

// An ImageLoader decodes images asynchronously. Decode returns a channel that
// delivers exactly one Result for the named image. *assets.Manager implements
// ImageLoader.
type ImageLoader interface {
	Decode(name string) <-chan assets.Result
}

// LoadTexture decodes the image at path with the renderer's ImageLoader and
// uploads it to a new texture of the image's native size, with the parameters
// set by TextureParams.
//
// LoadTexture blocks until the decode completes or ctx is done. Decode failures
// and cancellation are reported as a *TextureLoadError. No GPU resource is
// allocated until the image is decoded.
func (r *Renderer) LoadTexture(ctx context.Context, path string) (*Texture, error) {
	if r.closed {
		return nil, released("renderer")
	}
	return r.upload(ctx, path, r.cfg.loader.Decode(path))
}

// LoadTextures is like LoadTexture for several images. All decodes run
// concurrently. Textures are uploaded in path order on the calling goroutine.
//
// If some images fail to load, the corresponding textures are nil and the
// returned error is a LoadErrors. On any other error, no texture is returned.
func (r *Renderer) LoadTextures(ctx context.Context, paths ...string) ([]*Texture, error) {
	if r.closed {
		return nil, released("renderer")
	}
	rcs := make([]<-chan assets.Result, len(paths))
	for i, p := range paths {
		rcs[i] = r.cfg.loader.Decode(p)
	}
	ts := make([]*Texture, len(paths))
	var errs LoadErrors
	for i, rc := range rcs {
		t, err := r.upload(ctx, paths[i], rc)
		if err != nil {
			var le *TextureLoadError
			if errors.As(err, &le) {
				errs = append(errs, le)
				continue
			}
			for _, t := range ts {
				if t != nil {
					t.Delete()
				}
			}
			return nil, err
		}
		ts[i] = t
	}
	if errs != nil {
		return ts, errs
	}
	return ts, nil
}

var errNoResult = errors.New("image loader returned no result")

func (r *Renderer) upload(ctx context.Context, path string, rc <-chan assets.Result) (*Texture, error) {
	select {
	case res, ok := <-rc:
		if !ok {
			return nil, &TextureLoadError{Path: path, Err: errNoResult}
		}
		if res.Err != nil {
			return nil, &TextureLoadError{Path: path, Err: res.Err}
		}
		if res.Image == nil {
			return nil, &TextureLoadError{Path: path, Err: errNoResult}
		}
		return r.TextureFromImage(res.Image)
	case <-ctx.Done():
		return nil, &TextureLoadError{Path: path, Err: ctx.Err()}
	}
}
