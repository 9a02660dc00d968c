package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/creativelab/compositor/pkg/planner"
	"github.com/creativelab/compositor/pkg/schemas"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	if cfg.OutputDir != "outputs" {
		t.Errorf("OutputDir = %q, want outputs", cfg.OutputDir)
	}
	if cfg.PositionsFile != "positions.json" {
		t.Errorf("PositionsFile = %q, want positions.json", cfg.PositionsFile)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "absent.yaml"), true); err == nil {
		t.Error("expected error for explicitly named missing config")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compositor.yaml")
	content := "output_dir: renders\nformats:\n  - 1x1\npublish_prefix: s3://bucket/renders\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}

	if cfg.OutputDir != "renders" {
		t.Errorf("OutputDir = %q, want renders", cfg.OutputDir)
	}
	if len(cfg.Formats) != 1 || cfg.Formats[0] != "1x1" {
		t.Errorf("Formats = %v, want [1x1]", cfg.Formats)
	}
	if cfg.PublishPrefix != "s3://bucket/renders" {
		t.Errorf("PublishPrefix = %q", cfg.PublishPrefix)
	}
	// Untouched keys keep their defaults.
	if cfg.BaseDir != "." {
		t.Errorf("BaseDir = %q, want .", cfg.BaseDir)
	}
}

func TestApplyFormatFilter(t *testing.T) {
	inputs := &planner.Inputs{
		Heroes: map[schemas.Format][]string{
			schemas.FormatSquare:   {"a.png"},
			schemas.FormatVertical: {"b.png"},
		},
		StaticOverlays: map[schemas.Format][]string{
			schemas.FormatVertical: {"badge.png"},
		},
		VideoOverlays: map[schemas.Format][]string{},
	}

	if err := applyFormatFilter(inputs, []string{"1x1"}); err != nil {
		t.Fatalf("applyFormatFilter() failed: %v", err)
	}

	if _, ok := inputs.Heroes[schemas.FormatVertical]; ok {
		t.Error("9x16 heroes must be dropped")
	}
	if _, ok := inputs.Heroes[schemas.FormatSquare]; !ok {
		t.Error("1x1 heroes must be kept")
	}

	if err := applyFormatFilter(inputs, []string{"4x3"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestApplyKindFilter(t *testing.T) {
	jobs := []*schemas.RenderJob{
		{Kind: schemas.KindStatic, OutputPath: "a.png"},
		{Kind: schemas.KindVideo, OutputPath: "a.mp4"},
	}

	filtered, err := applyKindFilter(jobs, []string{"video"})
	if err != nil {
		t.Fatalf("applyKindFilter() failed: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Kind != schemas.KindVideo {
		t.Errorf("filtered = %v", filtered)
	}

	all, err := applyKindFilter(jobs, nil)
	if err != nil {
		t.Fatalf("applyKindFilter() failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("empty filter must keep all jobs, got %d", len(all))
	}

	if _, err := applyKindFilter(jobs, []string{"audio"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
