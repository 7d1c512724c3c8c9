package main

import (
	"context"
	_ "embed"
	"encoding/hex"
	"image"
	"image/color"
	"io"
	"sort"
	"strings"

	"github.com/db47h/blit"
	"github.com/db47h/blit/assets"
	"github.com/db47h/blit/text"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScene []byte

// Scene describes a composition: textures, render targets and a list of steps
// executed once per frame.
type Scene struct {
	Width    int                     `yaml:"width"`
	Height   int                     `yaml:"height"`
	Filter   string                  `yaml:"filter"`
	Textures map[string]*TextureSpec `yaml:"textures"`
	Targets  []TargetSpec            `yaml:"targets"`
	Steps    []Step                  `yaml:"steps"`
}

// TextureSpec describes a texture loaded from an image file or rendered from
// a text label.
type TextureSpec struct {
	Image string  `yaml:"image"`
	Label string  `yaml:"label"`
	Font  string  `yaml:"font"`
	Size  float64 `yaml:"size"`
	Color *Color  `yaml:"color"`
}

// TargetSpec describes an offscreen render target.
type TargetSpec struct {
	Name   string `yaml:"name"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Step is a single scene action. Exactly one field must be set.
type Step struct {
	Target  string `yaml:"target"`
	Screen  bool   `yaml:"screen"`
	Clear   *Color `yaml:"clear"`
	Draw    *Draw  `yaml:"draw"`
	Present bool   `yaml:"present"`
}

func (s *Step) actions() int {
	n := 0
	for _, set := range []bool{s.Target != "", s.Screen, s.Clear != nil, s.Draw != nil, s.Present} {
		if set {
			n++
		}
	}
	return n
}

// Draw draws a texture or the texture of a render target. A nil Src selects the
// whole texture.
type Draw struct {
	Texture string `yaml:"texture"`
	Src     *Rect  `yaml:"src"`
	Dst     Rect   `yaml:"dst"`
}

// Color is a color given either as a list of 3 or 4 components in [0, 255] or
// as a "#rrggbb" or "#rrggbbaa" string.
type Color color.NRGBA

// UnmarshalYAML implements yaml.Unmarshaler for Color.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		s := strings.TrimPrefix(value.Value, "#")
		b, err := hex.DecodeString(s)
		if err != nil || (len(b) != 3 && len(b) != 4) {
			return errors.Errorf("line %d: invalid color %q", value.Line, value.Value)
		}
		*c = Color{R: b[0], G: b[1], B: b[2], A: 255}
		if len(b) == 4 {
			c.A = b[3]
		}
		return nil
	case yaml.SequenceNode:
		var v []uint8
		if err := value.Decode(&v); err != nil {
			return errors.Wrapf(err, "line %d: invalid color", value.Line)
		}
		if len(v) != 3 && len(v) != 4 {
			return errors.Errorf("line %d: color needs 3 or 4 components, got %d", value.Line, len(v))
		}
		*c = Color{R: v[0], G: v[1], B: v[2], A: 255}
		if len(v) == 4 {
			c.A = v[3]
		}
		return nil
	}
	return errors.Errorf("line %d: invalid color", value.Line)
}

// Rect is a rectangle given as [x, y, w, h], or [x, y] for a destination that
// takes its size from the source rectangle.
type Rect struct {
	blit.Rect
	sized bool
}

// UnmarshalYAML implements yaml.Unmarshaler for Rect.
func (r *Rect) UnmarshalYAML(value *yaml.Node) error {
	var v []int
	if err := value.Decode(&v); err != nil {
		return errors.Wrapf(err, "line %d: invalid rectangle", value.Line)
	}
	switch len(v) {
	case 2:
		*r = Rect{Rect: blit.R(v[0], v[1], 0, 0)}
	case 4:
		*r = Rect{Rect: blit.R(v[0], v[1], v[2], v[3]), sized: true}
	default:
		return errors.Errorf("line %d: rectangle needs 2 or 4 values, got %d", value.Line, len(v))
	}
	return nil
}

// ParseScene reads a scene and checks it for consistency.
func ParseScene(r io.Reader) (*Scene, error) {
	sc := &Scene{Width: 512, Height: 512}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sc); err != nil {
		return nil, errors.Wrap(err, "parse scene")
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scene) validate() error {
	if sc.Width <= 0 || sc.Height <= 0 {
		return errors.Errorf("invalid scene size %dx%d", sc.Width, sc.Height)
	}
	if _, err := sc.filter(); err != nil {
		return err
	}
	for name, t := range sc.Textures {
		if t == nil || (t.Image == "") == (t.Label == "") {
			return errors.Errorf("texture %q: exactly one of image or label must be set", name)
		}
		if t.Label != "" && t.Size < 0 {
			return errors.Errorf("texture %q: negative font size", name)
		}
	}
	targets := make(map[string]bool, len(sc.Targets))
	for _, t := range sc.Targets {
		if t.Name == "" {
			return errors.New("unnamed render target")
		}
		if _, ok := sc.Textures[t.Name]; ok || targets[t.Name] {
			return errors.Errorf("duplicate name %q", t.Name)
		}
		if t.Width < 0 || t.Height < 0 {
			return errors.Errorf("target %q: invalid size %dx%d", t.Name, t.Width, t.Height)
		}
		targets[t.Name] = true
	}
	for i, s := range sc.Steps {
		if n := s.actions(); n != 1 {
			return errors.Errorf("step %d: %d actions, want exactly 1", i+1, n)
		}
		switch {
		case s.Target != "":
			if !targets[s.Target] {
				return errors.Errorf("step %d: unknown render target %q", i+1, s.Target)
			}
		case s.Draw != nil:
			if _, ok := sc.Textures[s.Draw.Texture]; !ok && !targets[s.Draw.Texture] {
				return errors.Errorf("step %d: unknown texture %q", i+1, s.Draw.Texture)
			}
			if s.Draw.Src != nil && !s.Draw.Src.sized {
				return errors.Errorf("step %d: source rectangle needs a size", i+1)
			}
		}
	}
	return nil
}

func (sc *Scene) filter() (blit.FilterMode, error) {
	switch sc.Filter {
	case "", "linear":
		return blit.Linear, nil
	case "nearest":
		return blit.Nearest, nil
	}
	return 0, errors.Errorf("unknown filter %q", sc.Filter)
}

// Assets returns the list of files to preload, in a stable order.
func (sc *Scene) Assets() []assets.Asset {
	var l []assets.Asset
	for _, t := range sc.Textures {
		switch {
		case t.Image != "":
			l = append(l, assets.Asset{Type: assets.TypeImage, Name: t.Image})
		case t.Font != "":
			l = append(l, assets.Asset{Type: assets.TypeFont, Name: t.Font})
		}
	}
	sort.Slice(l, func(i, j int) bool {
		if l[i].Type != l[j].Type {
			return l[i].Type < l[j].Type
		}
		return l[i].Name < l[j].Name
	})
	return l
}

// Options returns the renderer options for this scene.
func (sc *Scene) Options(loader blit.ImageLoader) []blit.Option {
	f, _ := sc.filter()
	return []blit.Option{
		blit.Loader(loader),
		blit.TextureParams(blit.Filter(f, f)),
	}
}

// Stage holds the GPU resources of a scene set up on a renderer.
type Stage struct {
	sc       *Scene
	r        *blit.Renderer
	textures map[string]*blit.Texture
	targets  map[string]*blit.RenderTarget
}

// Setup creates the scene's render targets and textures. Image textures are
// loaded through the renderer's image loader, fonts through fonts.
func (sc *Scene) Setup(ctx context.Context, r *blit.Renderer, fonts *assets.Manager) (*Stage, error) {
	st := &Stage{
		sc:       sc,
		r:        r,
		textures: make(map[string]*blit.Texture, len(sc.Textures)),
		targets:  make(map[string]*blit.RenderTarget, len(sc.Targets)),
	}
	for _, t := range sc.Targets {
		rt, err := r.CreateRenderTarget(t.Width, t.Height)
		if err != nil {
			st.Release()
			return nil, errors.Wrapf(err, "target %q", t.Name)
		}
		st.targets[t.Name] = rt
	}

	var names, paths []string
	for name, t := range sc.Textures {
		if t.Image != "" {
			names = append(names, name)
			paths = append(paths, t.Image)
		}
	}
	texs, err := r.LoadTextures(ctx, paths...)
	for i, t := range texs {
		if t != nil {
			st.textures[names[i]] = t
		}
	}
	if err != nil {
		st.Release()
		return nil, err
	}

	for name, t := range sc.Textures {
		if t.Label == "" {
			continue
		}
		img, err := label(t, fonts)
		if err != nil {
			st.Release()
			return nil, errors.Wrapf(err, "texture %q", name)
		}
		tex, err := r.TextureFromImage(img)
		if err != nil {
			st.Release()
			return nil, errors.Wrapf(err, "texture %q", name)
		}
		st.textures[name] = tex
	}
	return st, nil
}

func label(t *TextureSpec, fonts *assets.Manager) (*image.NRGBA, error) {
	f := text.GoRegular()
	if t.Font != "" {
		var err error
		if f, err = fonts.Font(t.Font); err != nil {
			return nil, err
		}
	}
	size := t.Size
	if size == 0 {
		size = 16
	}
	var c color.Color = color.White
	if t.Color != nil {
		c = color.NRGBA(*t.Color)
	}
	return text.Image(text.NewFace(f, size, text.HintingFull), t.Label, c), nil
}

func (st *Stage) texture(name string) *blit.Texture {
	if t, ok := st.textures[name]; ok {
		return t
	}
	return st.targets[name].Texture()
}

// Frame runs all the scene steps.
func (st *Stage) Frame() error {
	for i, s := range st.sc.Steps {
		if err := st.step(s); err != nil {
			return errors.Wrapf(err, "step %d", i+1)
		}
	}
	return nil
}

func (st *Stage) step(s Step) error {
	switch {
	case s.Target != "":
		return st.r.SetRenderTarget(st.targets[s.Target])
	case s.Screen:
		return st.r.SetRenderTarget(nil)
	case s.Clear != nil:
		st.r.Clear(color.NRGBA(*s.Clear))
	case s.Draw != nil:
		t := st.texture(s.Draw.Texture)
		src := t.Bounds()
		if s.Draw.Src != nil {
			src = s.Draw.Src.Rect
		}
		dst := s.Draw.Dst.Rect
		if !s.Draw.Dst.sized {
			dst.W, dst.H = src.W, src.H
		}
		return st.r.DrawTexture(t, src, dst)
	case s.Present:
		st.r.Present()
	}
	return nil
}

// Release deletes all textures and render targets.
func (st *Stage) Release() {
	for _, t := range st.textures {
		t.Delete()
	}
	for _, rt := range st.targets {
		rt.Delete()
	}
}
