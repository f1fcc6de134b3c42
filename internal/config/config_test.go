package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps Load from picking up a config.yaml or .env from the package dir.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("RELAY_ADDRESS", ":9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Address != ":9999" {
		t.Fatalf("expected :9999 got %s", cfg.Address)
	}
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv(CredentialEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Address)
	assert.Equal(t, "gpt-4", cfg.Model)
	assert.Equal(t, DefaultSystemPrompt, cfg.SystemPrompt)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAIBaseURL)
	assert.Equal(t, time.Duration(0), cfg.UpstreamTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLoadCredentialFromUnprefixedEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv(CredentialEnv, "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
}

func TestLoadFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o\nupstream_timeout: 30s\nprovider: echo\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "echo", cfg.Provider)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RELAY_MODEL=gpt-3.5-turbo\n"), 0o600))
	// godotenv sets the variable for the process; make sure it is removed afterwards
	t.Cleanup(func() { _ = os.Unsetenv("RELAY_MODEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Model)
}

func TestRedactedYAML(t *testing.T) {
	cfg := &Config{Address: ":8000", OpenAIAPIKey: "sk-secret", Model: "gpt-4"}

	out, err := cfg.Redacted().YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sk-secret")
	assert.Contains(t, string(out), "model: gpt-4")
	assert.Equal(t, "sk-secret", cfg.OpenAIAPIKey)
}
