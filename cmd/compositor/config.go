package main

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the batch renderer configuration. Every field has a default, so
// an absent config file renders the conventional ./inputs tree to ./outputs.
type Config struct {
	BaseDir       string `koanf:"base_dir"`
	OutputDir     string `koanf:"output_dir"`
	PositionsFile string `koanf:"positions_file"`
	FontsDir      string `koanf:"fonts_dir"`

	// FFmpegPath and FFprobePath override binary discovery; empty means
	// search PATH and the usual install locations.
	FFmpegPath  string `koanf:"ffmpeg_path"`
	FFprobePath string `koanf:"ffprobe_path"`

	HeroSubfolder    string `koanf:"hero_subfolder"`
	OverlaySubfolder string `koanf:"overlay_subfolder"`
	OutputSubfolder  string `koanf:"output_subfolder"`

	// Formats and Kinds narrow the batch; empty means all.
	Formats []string `koanf:"formats"`
	Kinds   []string `koanf:"kinds"`

	// PublishPrefix mirrors successful outputs under a destination URI
	// (file://, s3://) when set.
	PublishPrefix string `koanf:"publish_prefix"`

	// Text, when it has lines, is stamped onto every static output.
	Text TextConfig `koanf:"text"`

	LogLevel string `koanf:"log_level"`
}

// TextConfig describes a text block drawn on static outputs. The family name
// must match a family discovered under FontsDir.
type TextConfig struct {
	Family      string           `koanf:"family"`
	Lines       []TextLineConfig `koanf:"lines"`
	X           int              `koanf:"x"`
	Y           int              `koanf:"y"`
	Align       string           `koanf:"align"`
	LineSpacing float64          `koanf:"line_spacing"`
	Color       string           `koanf:"color"`
}

// TextLineConfig is one configured line of the text block.
type TextLineConfig struct {
	Text  string  `koanf:"text"`
	Size  float64 `koanf:"size"`
	Style string  `koanf:"style"`
}

var defaultConfig = Config{
	BaseDir:       ".",
	OutputDir:     "outputs",
	PositionsFile: "positions.json",
	FontsDir:      "fonts",
	LogLevel:      "info",
}

// loadConfig layers a YAML config file over the defaults. A missing file at
// the default path is fine; an explicitly named file must exist.
func loadConfig(path string, explicit bool) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			var c Config
			return c, k.Unmarshal("", &c)
		}
		return Config{}, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
