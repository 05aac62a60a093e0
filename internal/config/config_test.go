package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAddr, EnvPort, EnvCORSOrigins, EnvOllamaBase, EnvGenerateTimeout,
		EnvStreamTimeout, EnvCacheTTL, EnvHeadroom, EnvRandomFallback,
		EnvLogLevel, EnvLogFormat, EnvBenchDir,
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 1.2, cfg.Catalog.Headroom)
	assert.Equal(t, "The Universe", cfg.Topics.RandomFallback)
	assert.Equal(t, 4096, cfg.Topics.ExpandNumCtx)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "omniweb.yaml", `
server:
  addr: ":9090"
  allowed_origins: ["http://localhost:3000"]
ollama:
  base_url: "http://gpu-box:11434"
  generate_timeout: 45s
catalog:
  cache_ttl: 2m
topics:
  random_fallback: "Stoicism"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Ollama.GenerateTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, "Stoicism", cfg.Topics.RandomFallback)
	// untouched keys keep their defaults
	assert.Equal(t, 120*time.Second, cfg.Ollama.StreamTimeout)
	assert.Equal(t, 1.2, cfg.Catalog.Headroom)
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "bad.yaml", "server: [unclosed")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, t.TempDir(), "omniweb.yaml", "ollama:\n  base_url: http://from-yaml:11434\n")

	t.Setenv(EnvOllamaBase, "http://from-env:11434")
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvCORSOrigins, "http://a.test, http://b.test,,")
	t.Setenv(EnvCacheTTL, "5s")
	t.Setenv(EnvHeadroom, "1.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, 1.5, cfg.Catalog.Headroom)
}

func TestLoad_AddrBeatsPort(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvPort, "7000")
	t.Setenv(EnvAddr, "127.0.0.1:8080")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overwrites a variable that is set, even to "".
	for _, key := range []string{EnvRandomFallback, EnvLogLevel} {
		require.NoError(t, os.Unsetenv(key))
	}
	// clearEnv changed into an empty temp dir; .env is read from there.
	writeFile(t, ".", ".env", "OMNIWEB_RANDOM_FALLBACK=Black Holes\nOMNIWEB_LOG_LEVEL=debug\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "Black Holes", cfg.Topics.RandomFallback)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad duration", EnvGenerateTimeout, "soon"},
		{"bad headroom", EnvHeadroom, "lots"},
		{"headroom below one", EnvHeadroom, "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Topics.RandomAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Ollama.BaseURL = "  "
	assert.Error(t, cfg.Validate())
}
