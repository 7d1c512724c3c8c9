// Command demo renders a scene with the blit compositor.
//
// By default, the scene is rendered once with the software rasterizer and
// saved as a PNG file. When built with the glfw tag, the -window flag renders
// the scene continuously in a native window instead.
package main

import (
	"bytes"
	"context"
	"flag"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/db47h/blit"
	"github.com/db47h/blit/assets"
	"github.com/db47h/blit/gl/soft"
	"github.com/db47h/ofs"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
)

var (
	sceneFile = flag.String("scene", "", "scene file (default: built-in scene)")
	assetDir  = flag.String("assets", "assets", "asset directory")
	outFile   = flag.String("out", "blit.png", "output PNG file")
	window    = flag.Bool("window", false, "render in a window (requires the glfw build tag)")
	progress  = flag.Bool("progress", true, "show asset loading progress")
	workers   = flag.Int("workers", runtime.NumCPU(), "maximum number of concurrent asset loads")
	verbose   = flag.Bool("v", false, "verbose logging")
)

// openWindow is set by the glfw driver.
var openWindow func(sc *Scene, mgr *assets.Manager) error

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	blit.SetLogger(log)

	if err := run(); err != nil {
		log.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	sc, err := loadScene(*sceneFile)
	if err != nil {
		return err
	}

	var ovl ofs.Overlay
	if err := ovl.Add(false, *assetDir, "cmd/demo/assets"); err != nil {
		return errors.Wrap(err, "asset directory")
	}
	mgr := assets.NewManager(&ovl,
		assets.ImagePath("textures"),
		assets.FontPath("fonts"),
		assets.Workers(*workers))
	defer mgr.Close()

	if err := preload(mgr, sc.Assets(), *progress); err != nil {
		return err
	}

	if *window {
		if openWindow == nil {
			return errors.New("window mode not available: rebuild with -tags glfw")
		}
		return openWindow(sc, mgr)
	}

	img, err := renderImage(context.Background(), sc, mgr)
	if err != nil {
		return err
	}
	if err := writePNG(*outFile, img); err != nil {
		return err
	}
	slog.Info("scene rendered", "file", *outFile, "size", img.Bounds().Size())
	return nil
}

func loadScene(name string) (*Scene, error) {
	var r io.Reader = bytes.NewReader(defaultScene)
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return ParseScene(r)
}

// preload loads all scene assets in the background and waits for completion.
func preload(mgr *assets.Manager, list []assets.Asset, show bool) error {
	rc, n := mgr.Preload(list)
	if !show || n == 0 {
		return assets.Wait(rc)
	}
	bar := progressbar.Default(int64(n), "loading assets")
	defer bar.Close()
	tee := make(chan assets.Result)
	go func() {
		for r := range rc {
			_ = bar.Add(1)
			tee <- r
		}
		close(tee)
	}()
	return assets.Wait(tee)
}

// renderImage renders a single frame of sc with the software rasterizer.
func renderImage(ctx context.Context, sc *Scene, mgr *assets.Manager) (*image.RGBA, error) {
	s := soft.NewSurface(sc.Width, sc.Height)
	r, err := blit.New(s, image.Pt(sc.Width, sc.Height), sc.Options(mgr)...)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	st, err := sc.Setup(ctx, r, mgr)
	if err != nil {
		return nil, err
	}
	defer st.Release()
	if err := st.Frame(); err != nil {
		return nil, err
	}
	slog.Debug("frame done", "stats", s.Stats())
	return s.Image(), nil
}

func writePNG(name string, img image.Image) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	return f.Close()
}
