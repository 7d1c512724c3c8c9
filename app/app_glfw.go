//go:build glfw

package app

import (
	"fmt"
	"runtime"
	"time"

	"github.com/db47h/blit/gl"
	"github.com/db47h/blit/gl/glcore"
	"github.com/db47h/blit/loop"
	"github.com/go-gl/glfw/v3.2/glfw"
	"github.com/pkg/errors"
)

func init() {
	runtime.LockOSThread()
}

// Window is a native window with an OpenGL 3.3 core context. It implements
// blit.Surface.
//
// A Window must be created and used from the main goroutine.
type Window struct {
	glfw *glfw.Window
	ctx  *glcore.Context
	loop loop.Simple
}

// NewWindow initializes GLFW and opens a window. The window's OpenGL context is
// made current.
func NewWindow(opts ...WindowOption) (*Window, error) {
	cfg := newWinCfg(opts...)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := glfw.Init(); err != nil {
		return nil, errors.Wrap(err, "GLFW init")
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	var (
		monitor *glfw.Monitor
		width   = cfg.w
		height  = cfg.h
	)
	if cfg.fullScreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		glfw.WindowHint(glfw.RedBits, mode.RedBits)
		glfw.WindowHint(glfw.GreenBits, mode.GreenBits)
		glfw.WindowHint(glfw.BlueBits, mode.BlueBits)
		glfw.WindowHint(glfw.RefreshRate, mode.RefreshRate)
		width = mode.Width
		height = mode.Height
	}
	if cfg.hidden || cfg.positioned() {
		glfw.WindowHint(glfw.Visible, glfw.False)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.True)
	}
	w, err := glfw.CreateWindow(width, height, cfg.title, monitor, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Wrap(err, "create window")
	}
	if cfg.positioned() {
		w.SetPos(cfg.x, cfg.y)
		if !cfg.hidden {
			w.Show()
		}
	}

	w.MakeContextCurrent()
	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	ctx, err := glcore.New()
	if err != nil {
		w.Destroy()
		glfw.Terminate()
		return nil, err
	}
	return &Window{glfw: w, ctx: ctx}, nil
}

// Context returns the window's OpenGL context.
func (w *Window) Context() (gl.Context, error) {
	if w.glfw == nil {
		return nil, errors.New("window destroyed")
	}
	return w.ctx, nil
}

// FramebufferSize returns the size of the window's framebuffer in pixels.
func (w *Window) FramebufferSize() (width, height int) {
	return w.glfw.GetFramebufferSize()
}

// DriverVersion returns a description of the windowing and OpenGL versions.
func (w *Window) DriverVersion() string {
	return fmt.Sprintf("GLFW %s - %s", glfw.GetVersionString(), w.ctx.Version())
}

// MinFrameTime clamps the frame rate of Run to time.Second/t.
func (w *Window) MinFrameTime(t time.Duration) {
	w.loop.MinFrameTime(t)
}

// FrameTime returns the average frame time measured by Run.
func (w *Window) FrameTime() time.Duration {
	return w.loop.FrameTime()
}

// Run calls frame once per frame until the window is closed or frame returns an
// error. Buffers are swapped after each frame.
func (w *Window) Run(frame func(now time.Time) error) error {
	glfw.PollEvents()
	return w.loop.Run(framer{w, frame})
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.glfw == nil {
		return
	}
	w.ctx.Release()
	w.glfw.Destroy()
	w.glfw = nil
	glfw.Terminate()
}

type framer struct {
	w *Window
	f func(time.Time) error
}

func (f framer) ProcessEvents() bool {
	glfw.PollEvents()
	return f.w.glfw.ShouldClose()
}

func (f framer) Frame(now time.Time) error {
	if err := f.f(now); err != nil {
		return err
	}
	f.w.glfw.SwapBuffers()
	return nil
}
