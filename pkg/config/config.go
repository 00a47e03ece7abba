package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Config represents the main configuration
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Publish PublishConfig `yaml:"publish"`
}

// RenderConfig contains image and renderer settings
type RenderConfig struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	Workers           int     `yaml:"workers"`   // 0 means one per CPU
	TileSize          int     `yaml:"tile_size"` // Pixels per tile side
	ShadowMaxDistance float64 `yaml:"shadow_max_distance"`
}

// OutputConfig contains where and how renders are written
type OutputConfig struct {
	Path          string `yaml:"path"`           // Output directory
	ThumbnailSize int    `yaml:"thumbnail_size"` // Longest thumbnail side, 0 disables
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Optional log file, mirrored to stdout
}

// PublishConfig contains render publishing destinations
type PublishConfig struct {
	S3 S3Config `yaml:"s3"`
}

// S3Config describes an S3-compatible bucket
type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"` // Empty for AWS, set for MinIO and similar
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Prefix    string `yaml:"prefix"` // Key prefix for uploaded objects
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:             400,
			Height:            400,
			Workers:           0,
			TileSize:          64,
			ShadowMaxDistance: 1e6,
		},
		Output: OutputConfig{
			Path:          "output",
			ThumbnailSize: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
		Publish: PublishConfig{
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "renders/",
			},
		},
	}
}

// LoadConfig loads the configuration from a file. The defaults are returned
// alongside any error.
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		return config, fmt.Errorf("config file not found, using defaults: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("error parsing config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration can drive a render
func (c *Config) Validate() error {
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.Workers < 0 {
		return fmt.Errorf("invalid worker count %d", c.Render.Workers)
	}
	if c.Render.TileSize <= 0 {
		return fmt.Errorf("invalid tile size %d", c.Render.TileSize)
	}
	if c.Render.ShadowMaxDistance <= 0 {
		return fmt.Errorf("invalid shadow max distance %g", c.Render.ShadowMaxDistance)
	}
	if c.Publish.S3.Enabled && c.Publish.S3.Bucket == "" {
		return fmt.Errorf("s3 publishing enabled without a bucket")
	}
	return nil
}

// ApplyEnv overrides settings from RAYTRACER_* and the standard AWS
// environment variables. Unset variables leave the config untouched.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	setString := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v := getenv(key); v != "" {
				*dst = v
				return
			}
		}
	}

	setString(&c.Log.Level, "RAYTRACER_LOG_LEVEL")
	setString(&c.Output.Path, "RAYTRACER_OUTPUT")
	setString(&c.Publish.S3.Endpoint, "RAYTRACER_S3_ENDPOINT")
	setString(&c.Publish.S3.Bucket, "RAYTRACER_S3_BUCKET")
	setString(&c.Publish.S3.Prefix, "RAYTRACER_S3_PREFIX")
	setString(&c.Publish.S3.Region, "RAYTRACER_S3_REGION", "AWS_REGION")
	setString(&c.Publish.S3.AccessKey, "RAYTRACER_S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID")
	setString(&c.Publish.S3.SecretKey, "RAYTRACER_S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")

	if v := getenv("RAYTRACER_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RAYTRACER_WORKERS %q: %w", v, err)
		}
		c.Render.Workers = n
	}

	if v := getenv("RAYTRACER_S3_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid RAYTRACER_S3_ENABLED %q: %w", v, err)
		}
		c.Publish.S3.Enabled = enabled
	}

	return nil
}
