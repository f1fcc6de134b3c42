package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommandRedactsKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: gpt-4o\n"), 0o600))
	t.Setenv("OPENAI_API_KEY", "sk-very-secret")

	var out bytes.Buffer
	cmd := newRelayCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--config", path})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "model: gpt-4o")
	assert.Contains(t, out.String(), "openai_api_key:")
	assert.Contains(t, out.String(), "********")
	assert.NotContains(t, out.String(), "sk-very-secret")
}

func TestConfigCommandMissingFile(t *testing.T) {
	cmd := newRelayCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--config", filepath.Join(t.TempDir(), "missing.yaml")})

	assert.Error(t, cmd.Execute())
}

func TestRootHasSubcommands(t *testing.T) {
	cmd := newRelayCmd()

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, cmd.Flags().Lookup("listen"))
}
