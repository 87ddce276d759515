package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sky-raytracer/pkg/core"
	"github.com/df07/go-sky-raytracer/pkg/renderer"
	"github.com/df07/go-sky-raytracer/pkg/scene"
)

// Config holds the command line options
type Config struct {
	Scene      string // Built-in scene name
	SceneFile  string // JSON scene file; takes precedence over Scene
	Width      int    // Image width override (0 = scene default)
	Samples    int    // Samples per pixel override (0 = scene default)
	Depth      int    // Max depth override (0 = scene default)
	Seed       uint64 // Random seed override (0 = scene default)
	Workers    int    // Parallel workers (0 = CPU count)
	Passes     int    // Progressive passes
	Sequential bool   // Render on a single goroutine in raster order
	Format     string // "ppm" or "png"; empty infers from Output
	Output     string // Output path, "-" for stdout
}

var errHelp = errors.New("help requested")

func main() {
	config, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, errHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, config, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags parses args into a Config. Usage and flag errors go to stderr.
func parseFlags(args []string, stderr io.Writer) (Config, error) {
	var config Config
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&config.Scene, "scene", "default", "Built-in scene: "+strings.Join(scene.Names(), ", "))
	fs.StringVar(&config.SceneFile, "scene-file", "", "Load the scene from a JSON file instead of -scene")
	fs.IntVar(&config.Width, "width", 0, "Image width in pixels (0 = scene default)")
	fs.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&config.Depth, "depth", 0, "Maximum ray bounce depth (0 = scene default)")
	fs.Uint64Var(&config.Seed, "seed", 0, "Random seed (0 = scene default)")
	fs.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = CPU count)")
	fs.IntVar(&config.Passes, "passes", renderer.DefaultProgressiveConfig().MaxPasses, "Number of progressive passes")
	fs.BoolVar(&config.Sequential, "sequential", false, "Render sequentially in raster order")
	fs.StringVar(&config.Format, "format", "", "Output format: ppm or png (default inferred from -output, else ppm)")
	fs.StringVar(&config.Output, "output", "-", "Output file, '-' for stdout")
	help := fs.Bool("help", false, "Show help information")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Sky Raytracer")
		fmt.Fprintln(stderr, "Usage: raytracer [options] > image.ppm")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Available scenes:")
		for _, info := range scene.ListBuiltInScenes() {
			fmt.Fprintf(stderr, "  %-10s - %s\n", info.ID, info.Description)
		}
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return config, errHelp
		}
		return config, err
	}
	if *help {
		fs.Usage()
		return config, errHelp
	}

	if config.Format == "" {
		config.Format = formatForPath(config.Output)
	}
	if config.Format != "ppm" && config.Format != "png" {
		err := fmt.Errorf("unsupported format %q: use ppm or png", config.Format)
		fmt.Fprintln(stderr, err)
		return config, err
	}

	return config, nil
}

// formatForPath infers the image format from a file extension
func formatForPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "png"
	}
	return "ppm"
}

// createScene builds the scene selected by config with its camera overrides applied
func createScene(config Config) (*scene.Scene, error) {
	overrides := renderer.CameraConfig{
		ImageWidth:      config.Width,
		SamplesPerPixel: config.Samples,
		MaxDepth:        config.Depth,
		Seed:            config.Seed,
	}

	var (
		s   *scene.Scene
		err error
	)
	if config.SceneFile != "" {
		s, err = scene.Load(config.SceneFile, overrides)
	} else {
		s, err = scene.Create(config.Scene, overrides)
	}
	if err != nil {
		return nil, err
	}

	if err := s.CameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera configuration: %w", err)
	}
	return s, nil
}

// render produces the final image with either the sequential or the progressive renderer
func render(ctx context.Context, s *scene.Scene, config Config, logger core.Logger) (*image.RGBA, renderer.RenderStats, error) {
	if config.Sequential {
		img, stats := renderer.NewRaytracer(s, logger).Render()
		return img, stats, nil
	}

	progressiveConfig := renderer.DefaultProgressiveConfig()
	progressiveConfig.MaxPasses = config.Passes
	progressiveConfig.NumWorkers = config.Workers

	return renderer.NewProgressiveRaytracer(s, progressiveConfig, logger).Render(ctx)
}

// run renders the configured scene and writes the image to the output
func run(ctx context.Context, config Config, stdout, stderr io.Writer) error {
	logger := renderer.NewDefaultLogger(stderr)

	s, err := createScene(config)
	if err != nil {
		return err
	}

	cfg := s.CameraConfig
	logger.Printf("Rendering scene %q: width %d, %d samples per pixel, max depth %d\n",
		s.Name, cfg.ImageWidth, cfg.SamplesPerPixel, cfg.MaxDepth)

	startTime := time.Now()
	img, stats, err := render(ctx, s, config, logger)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	logger.Printf("Render completed in %v\n", time.Since(startTime))
	logger.Printf("Samples per pixel: %.1f (range %d - %d), average luminance %.3f\n",
		stats.AverageSamples, stats.MinSamples, stats.MaxSamplesUsed, stats.AverageLuminance)

	if config.Output == "-" || config.Output == "" {
		if err := renderer.WriteImage(stdout, img, config.Format); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		return nil
	}

	return writeFile(config.Output, img, config.Format, logger)
}

func writeFile(path string, img *image.RGBA, format string, logger core.Logger) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := renderer.WriteImage(file, img, format); err != nil {
		file.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}

	logger.Printf("Render saved as %s\n", path)
	return nil
}
