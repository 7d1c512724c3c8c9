//go:build glfw

package main

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/db47h/blit"
	"github.com/db47h/blit/app"
	"github.com/db47h/blit/assets"
)

func init() {
	openWindow = runWindow
}

func runWindow(sc *Scene, mgr *assets.Manager) error {
	w, err := app.NewWindow(app.Title("blit demo"), app.Size(sc.Width, sc.Height))
	if err != nil {
		return err
	}
	defer w.Close()
	slog.Info("window opened", "driver", w.DriverVersion())

	r, err := blit.New(w, image.Pt(sc.Width, sc.Height), sc.Options(mgr)...)
	if err != nil {
		return err
	}
	defer r.Close()
	st, err := sc.Setup(context.Background(), r, mgr)
	if err != nil {
		return err
	}
	defer st.Release()

	var last time.Time
	return w.Run(func(now time.Time) error {
		if now.Sub(last) >= 5*time.Second {
			slog.Debug("frame time", "avg", w.FrameTime())
			last = now
		}
		return st.Frame()
	})
}
