package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/db47h/blit/assets"
	"github.com/db47h/ofs"
)

func testManager(t *testing.T) *assets.Manager {
	t.Helper()
	var ovl ofs.Overlay
	if err := ovl.Add(false, "assets"); err != nil {
		t.Fatal(err)
	}
	mgr := assets.NewManager(&ovl, assets.ImagePath("textures"), assets.FontPath("fonts"))
	t.Cleanup(mgr.Close)
	return mgr
}

func TestParseDefaultScene(t *testing.T) {
	sc, err := ParseScene(bytes.NewReader(defaultScene))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Width != 512 || sc.Height != 512 {
		t.Errorf("size = %dx%d", sc.Width, sc.Height)
	}
	if len(sc.Textures) != 2 || len(sc.Targets) != 1 || len(sc.Steps) != 9 {
		t.Errorf("got %d textures, %d targets, %d steps", len(sc.Textures), len(sc.Targets), len(sc.Steps))
	}
	a := sc.Assets()
	if len(a) != 1 || a[0] != (assets.Asset{Type: assets.TypeImage, Name: "sprite.png"}) {
		t.Errorf("Assets() = %v", a)
	}
	if c := sc.Textures["title"].Color; c == nil || *c != (Color{255, 255, 255, 255}) {
		t.Errorf("title color = %v", c)
	}
	d := sc.Steps[7].Draw
	if d == nil || d.Dst.sized || d.Dst.X != 20 || d.Dst.Y != 460 {
		t.Errorf("title draw = %+v", d)
	}
}

func TestParseSceneErrors(t *testing.T) {
	td := []struct {
		name  string
		scene string
		err   string
	}{
		{"size", "width: -1", "invalid scene size"},
		{"filter", "filter: cubic", "unknown filter"},
		{"field", "widht: 12", "widht"},
		{"texture", "textures: {a: {image: a.png, label: a}}", "exactly one of image or label"},
		{"empty texture", "textures: {a: {}}", "exactly one of image or label"},
		{"target name", "targets: [{width: 1, height: 1}]", "unnamed"},
		{"duplicate", "textures: {a: {image: a.png}}\ntargets: [{name: a}]", "duplicate name"},
		{"actions", "targets: [{name: t}]\nsteps: [{target: t, present: true}]", "2 actions"},
		{"no action", "steps: [{}]", "0 actions"},
		{"unknown target", "steps: [{target: t}]", "unknown render target"},
		{"unknown texture", "steps: [{draw: {texture: x, dst: [0, 0]}}]", "unknown texture"},
		{"source size", "textures: {a: {image: a.png}}\nsteps: [{draw: {texture: a, src: [0, 0], dst: [0, 0]}}]", "source rectangle"},
		{"rect", "textures: {a: {image: a.png}}\nsteps: [{draw: {texture: a, dst: [0, 0, 1]}}]", "2 or 4 values"},
		{"color", "steps: [{clear: [1, 2]}]", "3 or 4 components"},
		{"hex color", "steps: [{clear: \"#12\"}]", "invalid color"},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			_, err := ParseScene(strings.NewReader(d.scene))
			if err == nil {
				t.Fatal("no error")
			}
			if !strings.Contains(err.Error(), d.err) {
				t.Fatalf("error %q does not contain %q", err, d.err)
			}
		})
	}
}

func TestColor(t *testing.T) {
	sc, err := ParseScene(strings.NewReader(`steps:
  - clear: "#ff000080"
  - clear: [1, 2, 3]
  - clear: 0a0b0c
`))
	if err != nil {
		t.Fatal(err)
	}
	want := []Color{{255, 0, 0, 128}, {1, 2, 3, 255}, {10, 11, 12, 255}}
	for i, w := range want {
		if got := *sc.Steps[i].Clear; got != w {
			t.Errorf("color %d = %v, want %v", i, got, w)
		}
	}
}

func TestRenderDefaultScene(t *testing.T) {
	sc, err := ParseScene(bytes.NewReader(defaultScene))
	if err != nil {
		t.Fatal(err)
	}
	mgr := testManager(t)
	if err := preload(mgr, sc.Assets(), false); err != nil {
		t.Fatal(err)
	}
	img, err := renderImage(context.Background(), sc, mgr)
	if err != nil {
		t.Fatal(err)
	}
	var (
		red   = color.RGBA{255, 0, 0, 255}
		blue  = color.RGBA{0, 0, 255, 255}
		black = color.RGBA{0, 0, 0, 255}
	)
	td := []struct {
		x, y int
		want color.RGBA
	}{
		{52, 18, red},
		{52, 66, blue},
		{132, 128, red},
		{132, 176, blue},
		{300, 300, black},
	}
	for _, d := range td {
		if got := img.RGBAAt(d.x, d.y); got != d.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", d.x, d.y, got, d.want)
		}
	}

	white := false
	for y := 460; y < 500 && !white; y++ {
		for x := 20; x < 160; x++ {
			if c := img.RGBAAt(x, y); c.R > 200 && c.G > 200 && c.B > 200 {
				white = true
				break
			}
		}
	}
	if !white {
		t.Error("title label not drawn")
	}
}

func TestPreloadErrors(t *testing.T) {
	mgr := testManager(t)
	err := preload(mgr, []assets.Asset{{Type: assets.TypeImage, Name: "missing.png"}}, false)
	if err == nil || !strings.Contains(err.Error(), "missing.png") {
		t.Fatalf("preload() = %v", err)
	}
}

func TestSetupLoadError(t *testing.T) {
	sc, err := ParseScene(strings.NewReader("textures: {a: {image: missing.png}}"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := renderImage(context.Background(), sc, testManager(t)); err == nil {
		t.Fatal("expected error for missing image")
	}
}

func TestLoadScene(t *testing.T) {
	name := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(name, []byte("width: 64\nheight: 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sc, err := loadScene(name)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Width != 64 || sc.Height != 32 {
		t.Fatalf("size = %dx%d", sc.Width, sc.Height)
	}
	if _, err := loadScene(name + ".missing"); err == nil {
		t.Fatal("expected error for missing file")
	}

	sc, err = loadScene("")
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Steps) == 0 {
		t.Fatal("default scene has no steps")
	}
}
