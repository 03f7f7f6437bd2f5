package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverlaysProvidedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".keyvarc.yaml")
	content := "max_variables: 5\nprompt: \"kv> \"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxVariables)
	assert.Equal(t, "kv> ", cfg.Prompt)
	// Unspecified fields keep their default values.
	assert.Equal(t, Defaults().MaxFunctions, cfg.MaxFunctions)
}

func TestLimitsProjection(t *testing.T) {
	cfg := Defaults()
	limits := cfg.Limits()
	assert.Equal(t, cfg.MaxVariables, limits.MaxVariables)
	assert.Equal(t, cfg.MaxFunctions, limits.MaxFunctions)
	assert.Equal(t, cfg.MaxScopes, limits.MaxScopes)
}

func TestLoadUsesKeyvaConfigEnvVarWhenPathEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_scopes: 3\n"), 0o644))

	t.Setenv("KEYVA_CONFIG", path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxScopes)
}
