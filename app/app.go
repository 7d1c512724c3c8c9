// Package app opens a native window whose OpenGL context can back a
// blit.Renderer.
//
// The window implementation requires the glfw build tag and cgo:
//
//	go build -tags glfw
package app

import "github.com/pkg/errors"

// A WindowOption configures a window created by NewWindow.
type WindowOption interface {
	set(*winCfg)
}

type winCfg struct {
	hidden     bool
	fullScreen bool
	x, y, w, h int
	title      string
	vsync      bool
}

func newWinCfg(opts ...WindowOption) winCfg {
	cfg := winCfg{title: "blit", x: -1, y: -1, w: 800, h: 600, vsync: true}
	for _, o := range opts {
		o.set(&cfg)
	}
	return cfg
}

func (cfg *winCfg) validate() error {
	if !cfg.fullScreen && (cfg.w <= 0 || cfg.h <= 0) {
		return errors.Errorf("invalid window size %dx%d", cfg.w, cfg.h)
	}
	return nil
}

// positioned returns true if the window needs to be moved after creation.
func (cfg *winCfg) positioned() bool {
	return !cfg.fullScreen && cfg.x >= 0 && cfg.y >= 0
}

type winOption func(*winCfg)

func (f winOption) set(cfg *winCfg) {
	f(cfg)
}

// Title sets the window title.
func Title(title string) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.title = title
	})
}

// Pos sets the window position. Negative values let the window system decide.
func Pos(x, y int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.x, cfg.y = x, y
	})
}

// Size sets the window size in screen coordinates. Windows are not resizable.
func Size(w, h int) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.w, cfg.h = w, h
	})
}

// FullScreen creates a full screen window on the primary monitor, using its
// current video mode.
func FullScreen() WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.fullScreen = true
	})
}

// Visible sets the initial window visibility.
func Visible(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.hidden = !b
	})
}

// VSync enables or disables waiting for vertical sync on buffer swaps.
func VSync(b bool) WindowOption {
	return winOption(func(cfg *winCfg) {
		cfg.vsync = b
	})
}
