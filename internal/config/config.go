// Package config loads omniweb settings.
//
// Sources are applied in increasing priority: built-in defaults, an optional
// YAML file, a .env file in the working directory, and the process
// environment. Variables already present in the environment are never
// overwritten by .env entries.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by applyEnvOverrides.
const (
	EnvAddr            = "OMNIWEB_ADDR"
	EnvPort            = "PORT"
	EnvCORSOrigins     = "OMNIWEB_CORS_ORIGINS"
	EnvOllamaBase      = "OLLAMA_BASE"
	EnvGenerateTimeout = "OMNIWEB_GENERATE_TIMEOUT"
	EnvStreamTimeout   = "OMNIWEB_STREAM_TIMEOUT"
	EnvCacheTTL        = "OMNIWEB_MODELS_CACHE_TTL"
	EnvHeadroom        = "OMNIWEB_VRAM_HEADROOM"
	EnvRandomFallback  = "OMNIWEB_RANDOM_FALLBACK"
	EnvLogLevel        = "OMNIWEB_LOG_LEVEL"
	EnvLogFormat       = "OMNIWEB_LOG_FORMAT"
	EnvBenchDir        = "OMNIWEB_BENCH_DIR"
)

// DefaultDotEnv is the .env file consulted by Load.
const DefaultDotEnv = ".env"

// Config holds all omniweb configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Ollama  OllamaConfig  `yaml:"ollama"`
	Catalog CatalogConfig `yaml:"catalog"`
	Topics  TopicsConfig  `yaml:"topics"`
	Logging LoggingConfig `yaml:"logging"`
	Bench   BenchConfig   `yaml:"bench"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// OllamaConfig configures the generation backend.
type OllamaConfig struct {
	BaseURL         string        `yaml:"base_url"`
	ListTimeout     time.Duration `yaml:"list_timeout"`
	RandomTimeout   time.Duration `yaml:"random_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	StreamTimeout   time.Duration `yaml:"stream_timeout"`
}

// CatalogConfig configures model listing.
type CatalogConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
	// Headroom multiplies a model's size before comparing it to VRAM.
	Headroom float64 `yaml:"headroom"`
}

// TopicsConfig configures topic generation.
type TopicsConfig struct {
	RandomFallback string `yaml:"random_fallback"`
	RandomAttempts int    `yaml:"random_attempts"`
	ExpandNumCtx   int    `yaml:"expand_num_ctx"`
}

// LoggingConfig selects the slog level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BenchConfig configures the model benchmark.
type BenchConfig struct {
	OutputDir string        `yaml:"output_dir"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Ollama: OllamaConfig{
			BaseURL:         "http://localhost:11434",
			ListTimeout:     2 * time.Second,
			RandomTimeout:   30 * time.Second,
			GenerateTimeout: 60 * time.Second,
			StreamTimeout:   120 * time.Second,
		},
		Catalog: CatalogConfig{
			CacheTTL: 30 * time.Second,
			Headroom: 1.2,
		},
		Topics: TopicsConfig{
			RandomFallback: "The Universe",
			RandomAttempts: 1,
			ExpandNumCtx:   4096,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "compact",
		},
		Bench: BenchConfig{
			OutputDir: "benchmark_results",
			Timeout:   60 * time.Second,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty or the file does not exist), .env and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := loadDotEnv(DefaultDotEnv); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to load %s: %w", path, err)
}

func (c *Config) applyEnvOverrides() error {
	if port := strings.TrimSpace(os.Getenv(EnvPort)); port != "" {
		c.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if addr := strings.TrimSpace(os.Getenv(EnvAddr)); addr != "" {
		c.Server.Addr = addr
	}
	if origins := os.Getenv(EnvCORSOrigins); origins != "" {
		c.Server.AllowedOrigins = splitList(origins)
	}
	if base := strings.TrimSpace(os.Getenv(EnvOllamaBase)); base != "" {
		c.Ollama.BaseURL = base
	}
	if fallback := strings.TrimSpace(os.Getenv(EnvRandomFallback)); fallback != "" {
		c.Topics.RandomFallback = fallback
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv(EnvLogFormat); format != "" {
		c.Logging.Format = format
	}
	if dir := os.Getenv(EnvBenchDir); dir != "" {
		c.Bench.OutputDir = dir
	}

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{EnvGenerateTimeout, &c.Ollama.GenerateTimeout},
		{EnvStreamTimeout, &c.Ollama.StreamTimeout},
		{EnvCacheTTL, &c.Catalog.CacheTTL},
	}
	for _, d := range durations {
		raw := strings.TrimSpace(os.Getenv(d.key))
		if raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, raw, err)
		}
		*d.target = parsed
	}

	if raw := strings.TrimSpace(os.Getenv(EnvHeadroom)); raw != "" {
		headroom, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvHeadroom, raw, err)
		}
		c.Catalog.Headroom = headroom
	}
	return nil
}

// Validate reports settings that would make the server misbehave.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Ollama.BaseURL) == "" {
		return errors.New("ollama base URL is empty")
	}
	if c.Catalog.Headroom < 1 {
		return fmt.Errorf("catalog headroom must be >= 1, got %g", c.Catalog.Headroom)
	}
	if c.Topics.RandomAttempts < 1 {
		return fmt.Errorf("random_attempts must be >= 1, got %d", c.Topics.RandomAttempts)
	}
	if c.Topics.RandomFallback == "" {
		return errors.New("random_fallback is empty")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
