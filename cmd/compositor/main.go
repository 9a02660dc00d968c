// Command compositor renders every hero and overlay combination found in an
// input tree into finished creatives.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"

	"github.com/creativelab/compositor/pkg/compositor"
	"github.com/creativelab/compositor/pkg/executor"
	"github.com/creativelab/compositor/pkg/planner"
	"github.com/creativelab/compositor/pkg/position"
	"github.com/creativelab/compositor/pkg/prober"
	"github.com/creativelab/compositor/pkg/scanner"
	"github.com/creativelab/compositor/pkg/schemas"
)

func main() {
	configPath := flag.String("config", "compositor.yaml", "path to config file")
	publish := flag.String("publish", "", "destination URI prefix for publishing outputs")
	flag.Parse()

	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	if *publish != "" {
		cfg.PublishPrefix = *publish
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("batch aborted", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	store, err := position.NewStore(cfg.PositionsFile)
	if err != nil {
		return fmt.Errorf("load positions: %w", err)
	}

	tree, err := scanner.Scan(cfg.BaseDir)
	if err != nil {
		return fmt.Errorf("scan inputs: %w", err)
	}

	inputs := tree.Inputs(cfg.HeroSubfolder, cfg.OverlaySubfolder)
	if err := applyFormatFilter(inputs, cfg.Formats); err != nil {
		return err
	}

	jobs, err := planner.NewExpander(store).Expand(*inputs, planner.Options{
		OutputRoot: cfg.OutputDir,
		Subfolder:  cfg.OutputSubfolder,
	})
	if err != nil {
		return fmt.Errorf("expand batch: %w", err)
	}

	jobs, err = applyKindFilter(jobs, cfg.Kinds)
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		logger.Info("nothing to render")
		return nil
	}

	var proberOpts []prober.Option
	if cfg.FFprobePath != "" {
		proberOpts = append(proberOpts, prober.WithFFprobePath(cfg.FFprobePath))
	}
	videoOpts := []compositor.VideoOption{
		compositor.WithProber(prober.New(proberOpts...)),
		compositor.WithLogger(logger),
	}
	if cfg.FFmpegPath != "" {
		videoOpts = append(videoOpts, compositor.WithFFmpegPath(cfg.FFmpegPath))
	}

	opts := []executor.Option{
		executor.WithLogger(logger),
		executor.WithVideoCompositor(compositor.NewVideo(videoOpts...)),
	}
	if len(cfg.Text.Lines) > 0 {
		stamper, err := newTextStamper(compositor.NewStatic(), cfg.Text, cfg.FontsDir)
		if err != nil {
			return fmt.Errorf("configure text overlay: %w", err)
		}
		opts = append(opts, executor.WithStaticCompositor(stamper))
	}
	if cfg.PublishPrefix != "" {
		opts = append(opts, executor.WithPublisher(executor.NewPublisher(ctx)))
	}

	result, err := executor.New(opts...).Execute(ctx, jobs, executor.ExecuteOptions{
		PublishPrefix: cfg.PublishPrefix,
		OnProgress: func(done, total int, description string) {
			fmt.Printf("[%d/%d] %s\n", done, total, description)
		},
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nBatch %s: %d rendered, %d failed\n", result.BatchID, result.Success, result.Failed)
	for _, failure := range result.Failures {
		fmt.Printf("  FAILED (%s) %s: %s\n", failure.Class, failure.OutputPath, failure.Message)
	}

	return nil
}

// applyFormatFilter drops the buckets of formats not listed in the filter.
func applyFormatFilter(inputs *planner.Inputs, formats []string) error {
	if len(formats) == 0 {
		return nil
	}

	keep := make(map[schemas.Format]bool)
	for _, s := range formats {
		f, err := schemas.ParseFormat(s)
		if err != nil {
			return err
		}
		keep[f] = true
	}

	for _, format := range schemas.Formats {
		if !keep[format] {
			delete(inputs.Heroes, format)
			delete(inputs.StaticOverlays, format)
			delete(inputs.VideoOverlays, format)
		}
	}
	return nil
}

// applyKindFilter keeps only the jobs whose overlay kind is listed.
func applyKindFilter(jobs []*schemas.RenderJob, kinds []string) ([]*schemas.RenderJob, error) {
	if len(kinds) == 0 {
		return jobs, nil
	}

	keep := make(map[schemas.OverlayKind]bool)
	for _, s := range kinds {
		k, err := schemas.ParseOverlayKind(s)
		if err != nil {
			return nil, err
		}
		keep[k] = true
	}

	var filtered []*schemas.RenderJob
	for _, job := range jobs {
		if keep[job.Kind] {
			filtered = append(filtered, job)
		}
	}
	return filtered, nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl}))
}
