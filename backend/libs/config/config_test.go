package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	HTTP struct {
		Port string `yaml:"port" env:"SAMPLE_HTTP_PORT" default:"8080"`
	} `yaml:"http"`
	TTL     time.Duration `yaml:"ttl" env:"SAMPLE_TTL" default:"30m"`
	Enabled bool          `yaml:"enabled" env:"SAMPLE_ENABLED" default:"true"`
	Tags    []string      `yaml:"tags" env:"SAMPLE_TAGS"`
	Nested  struct {
		Level int
	}
}

func envMap(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	var cfg sample
	require.NoError(t, LoadConfigFrom(&cfg, envMap(nil)))

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.TTL)
	assert.True(t, cfg.Enabled)
	assert.Nil(t, cfg.Tags)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	var cfg sample
	require.NoError(t, LoadConfigFrom(&cfg, envMap(map[string]string{
		"SAMPLE_HTTP_PORT": "9000",
		"SAMPLE_TTL":       "90",
		"SAMPLE_ENABLED":   "false",
		"SAMPLE_TAGS":      "a, b,,c",
		"NESTED_LEVEL":     "3",
	})))

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, 90*time.Second, cfg.TTL)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, []string{"a", "b", "c"}, cfg.Tags)
	assert.Equal(t, 3, cfg.Nested.Level)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  port: \"7000\"\nttl: 2h\n"), 0o600))

	var cfg sample
	require.NoError(t, LoadConfigFrom(&cfg, envMap(map[string]string{
		"CONFIG_FILE": path,
		"SAMPLE_TTL":  "45m",
	})))

	assert.Equal(t, "7000", cfg.HTTP.Port)
	assert.Equal(t, 45*time.Minute, cfg.TTL)
}

func TestLoadConfigErrors(t *testing.T) {
	assert.Error(t, LoadConfig(nil))

	var notStruct int
	assert.Error(t, LoadConfig(&notStruct))

	var cfg sample
	err := LoadConfigFrom(&cfg, envMap(map[string]string{"SAMPLE_ENABLED": "maybe"}))
	assert.ErrorContains(t, err, "SAMPLE_ENABLED")
}

func TestLoadConfigFileDurationForms(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want time.Duration
	}{
		{"seconds", "ttl: 1800\n", 30 * time.Minute},
		{"go syntax", "ttl: 90s\n", 90 * time.Second},
		{"quoted seconds", "ttl: \"600\"\n", 10 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.yaml), 0o600))

			var cfg sample
			require.NoError(t, LoadConfigFrom(&cfg, envMap(map[string]string{"CONFIG_FILE": path})))
			assert.Equal(t, tc.want, cfg.TTL)
		})
	}
}
