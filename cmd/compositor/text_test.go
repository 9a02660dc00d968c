package main

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/creativelab/compositor/pkg/compositor"
	"github.com/creativelab/compositor/pkg/schemas"
)

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#ff8000")
	if err != nil {
		t.Fatalf("parseHexColor() failed: %v", err)
	}
	if c != (color.NRGBA{R: 255, G: 128, B: 0, A: 255}) {
		t.Errorf("got %v", c)
	}

	c, err = parseHexColor("")
	if err != nil || c != color.White {
		t.Errorf("empty color must be white, got %v, %v", c, err)
	}

	for _, bad := range []string{"#fff", "red", "#gggggg"} {
		if _, err := parseHexColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestTextStamper(t *testing.T) {
	dir := t.TempDir()

	fontsDir := filepath.Join(dir, "fonts")
	if err := os.MkdirAll(fontsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(fontsDir, "Go-Regular.ttf"), goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	hero := filepath.Join(dir, "hero.png")
	overlay := filepath.Join(dir, "overlay.png")
	if err := imaging.Save(imaging.New(200, 200, color.NRGBA{A: 255}), hero); err != nil {
		t.Fatal(err)
	}
	if err := imaging.Save(imaging.New(10, 10, color.NRGBA{B: 255, A: 255}), overlay); err != nil {
		t.Fatal(err)
	}

	cfg := TextConfig{
		Family: "Go",
		Lines:  []TextLineConfig{{Text: "Summer Sale", Size: 24, Style: "Regular"}},
		X:      20,
		Y:      100,
		Color:  "#ffffff",
	}
	stamper, err := newTextStamper(compositor.NewStatic(), cfg, fontsDir)
	if err != nil {
		t.Fatalf("newTextStamper() failed: %v", err)
	}

	job := &schemas.RenderJob{
		Kind:        schemas.KindStatic,
		Format:      schemas.FormatSquare,
		HeroPath:    hero,
		OverlayPath: overlay,
		OutputPath:  filepath.Join(dir, "out", "hero_overlay.png"),
		Position:    schemas.DefaultPosition(),
	}
	if err := stamper.Composite(context.Background(), job); err != nil {
		t.Fatalf("Composite() failed: %v", err)
	}

	out, err := imaging.Open(job.OutputPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}

	var lit bool
	for y := 90; y < 160 && !lit; y++ {
		for x := 0; x < 200; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			if c.R > 200 && c.G > 200 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Error("expected white text pixels in the stamped region")
	}
}

func TestNewTextStamper_UnknownFamily(t *testing.T) {
	cfg := TextConfig{Family: "Missing", Lines: []TextLineConfig{{Text: "x", Size: 12}}}
	if _, err := newTextStamper(compositor.NewStatic(), cfg, t.TempDir()); err == nil {
		t.Error("expected error for unknown font family")
	}
}
