package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-phong-raytracer/internal/logger"
	"github.com/df07/go-phong-raytracer/pkg/config"
	"github.com/df07/go-phong-raytracer/pkg/output"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
	"github.com/df07/go-phong-raytracer/pkg/scene"
)

// options holds the command line flags that override the config file
type options struct {
	Scene      string
	ConfigPath string
	OutputPath string
	Width      int
	Height     int
	Workers    int
	Thumbnail  int
	Publish    bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.Scene, "scene", "default", "Built-in scene name or path to a .yaml scene file")
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to a YAML config file")
	flag.StringVar(&opts.OutputPath, "out", "", "Output PNG path (default output/<scene>/render_<timestamp>.png)")
	flag.IntVar(&opts.Width, "width", 0, "Image width in pixels (overrides config)")
	flag.IntVar(&opts.Height, "height", 0, "Image height in pixels (overrides config)")
	flag.IntVar(&opts.Workers, "workers", -1, "Number of parallel workers, 0 for one per CPU (overrides config)")
	flag.IntVar(&opts.Thumbnail, "thumbnail", -1, "Longest thumbnail side in pixels, 0 disables (overrides config)")
	flag.BoolVar(&opts.Publish, "publish", false, "Upload the render to the configured S3 bucket")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	// A missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	cfg, err := loadConfig(opts, os.Getenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, cfg, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Phong Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.BuiltinScenes() {
		fmt.Printf("  %-10s - %s\n", info.ID, info.Description)
	}
	fmt.Println("  <file>.yaml - Scene description file")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.png")
}

// loadConfig reads the config file (or defaults), then the environment, then
// the command line flags, each layer overriding the previous one
func loadConfig(opts options, getenv func(string) string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	if opts.Width > 0 {
		cfg.Render.Width = opts.Width
	}
	if opts.Height > 0 {
		cfg.Render.Height = opts.Height
	}
	if opts.Workers >= 0 {
		cfg.Render.Workers = opts.Workers
	}
	if opts.Thumbnail >= 0 {
		cfg.Output.ThumbnailSize = opts.Thumbnail
	}
	if opts.Publish {
		cfg.Publish.S3.Enabled = true
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg config.LogConfig) (*logger.Logger, error) {
	if cfg.File != "" {
		return logger.NewMultiLogger(cfg.Level, cfg.File)
	}
	return logger.NewLogger(cfg.Level), nil
}

// sceneLabel turns a scene name or file path into a directory-safe label
func sceneLabel(name string) string {
	base := filepath.Base(name)
	if scene.IsSceneFile(base) {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return strings.ToLower(base)
}

// outputPath returns the PNG path for a render started at now
func outputPath(opts options, cfg *config.Config, now time.Time) string {
	if opts.OutputPath != "" {
		return opts.OutputPath
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join(cfg.Output.Path, sceneLabel(opts.Scene), fmt.Sprintf("render_%s.png", timestamp))
}

func renderConfig(cfg *config.Config) renderer.RenderConfig {
	return renderer.RenderConfig{
		TileSize:          cfg.Render.TileSize,
		NumWorkers:        cfg.Render.Workers,
		ShadowMaxDistance: cfg.Render.ShadowMaxDistance,
	}
}

func run(ctx context.Context, opts options, cfg *config.Config, log *logger.Logger) error {
	log.Infof("Starting Phong Raytracer...")

	selectedScene, err := scene.Create(opts.Scene)
	if err != nil {
		return err
	}
	log.Infof("Using %s scene (%d geometries, %d lights)",
		selectedScene.Name, len(selectedScene.Geometries), len(selectedScene.Lights))

	width, height := cfg.Render.Width, cfg.Render.Height
	raytracer := renderer.NewRaytracer(selectedScene, width, height)
	raytracer.SetConfig(renderConfig(cfg))
	raytracer.SetLogger(log)

	img := output.NewImage(width, height)
	stats, err := raytracer.Render(ctx, img)
	if err != nil {
		return err
	}

	log.Infof("Render completed in %v", stats.Duration)
	log.Infof("Coverage: %.1f%% (%d hits, %d background)", stats.Coverage()*100, stats.Hits, stats.Misses)
	log.Debugf("Average luminance: %.4f", renderer.CalculateAverageLuminance(img.NRGBA()))

	filename := outputPath(opts, cfg, time.Now())
	if err := img.Store(filename); err != nil {
		return fmt.Errorf("failed to save render: %w", err)
	}
	log.Infof("Render saved as %s", filename)

	if cfg.Output.ThumbnailSize > 0 {
		thumb, err := img.StoreThumbnail(filename, uint(cfg.Output.ThumbnailSize))
		if err != nil {
			return fmt.Errorf("failed to save thumbnail: %w", err)
		}
		log.Infof("Thumbnail saved as %s", thumb)
	}

	if !cfg.Publish.S3.Enabled {
		return nil
	}

	publisher, err := output.NewS3Publisher(cfg.Publish.S3)
	if err != nil {
		return err
	}
	publisher.SetLogger(log)

	name := filepath.ToSlash(filepath.Join(sceneLabel(opts.Scene), filepath.Base(filename)))
	key, err := publisher.PublishImage(ctx, name, img)
	if err != nil {
		return err
	}
	log.Infof("Published s3://%s/%s", cfg.Publish.S3.Bucket, key)
	return nil
}
