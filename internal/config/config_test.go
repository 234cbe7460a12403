package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LayerOneX/cargo-l1x/internal/scaffold"
)

// isolate points XDG_CONFIG_HOME at a fresh directory and clears the
// toolchain override.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvLLVMBinPath, "")
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return dir
}

func writeConfig(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_NoFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.Ledger)
	assert.Equal(t, scaffold.DefaultBaseURL, cfg.Templates.BaseURL)
}

func TestLoad_DefaultPath(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, filepath.Join(home, "cargo-l1x", "config.yaml"), `
llvm_bin_path: /opt/llvm-18/bin
fail_fast: true
ledger: false
`)
	assert.Equal(t, path, DefaultPath())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/opt/llvm-18/bin", cfg.LLVMBinPath)
	assert.True(t, cfg.FailFast)
	assert.False(t, cfg.Ledger)
	assert.Equal(t, scaffold.DefaultBaseURL, cfg.Templates.BaseURL)
	assert.Equal(t, path, cfg.Source)
}

func TestLoad_ExplicitPath(t *testing.T) {
	isolate(t)
	path := writeConfig(t, filepath.Join(t.TempDir(), "l1x.yaml"), `
translator: /usr/local/bin/wasm-llvmir
templates:
  base_url: http://mirror.internal/templates
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/usr/local/bin/wasm-llvmir", cfg.Translator)
	assert.Equal(t, "http://mirror.internal/templates", cfg.Templates.BaseURL)
	assert.True(t, cfg.Ledger)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, filepath.Join(t.TempDir(), "empty.yaml"), "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Ledger)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	isolate(t)
	path := writeConfig(t, filepath.Join(t.TempDir(), "c.yaml"), "llvm_bin_path: /from/file\n")
	t.Setenv(EnvLLVMBinPath, "/from/env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.LLVMBinPath)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		message string
	}{
		{"unknown key", "llvm_path: /opt\n", "", "field llvm_path not found"},
		{"wrong type", "fail_fast: sometimes\n", "", "cannot unmarshal"},
		{"bad url", "templates:\n  base_url: ftp://example.com\n", "base_url", ""},
		{"empty url", "templates:\n  base_url: \"\"\n", "base_url", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			path := writeConfig(t, filepath.Join(t.TempDir(), "c.yaml"), tt.content)

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, path, cerr.File)
			assert.Contains(t, cerr.Field, tt.field)
			assert.Contains(t, cerr.Error(), tt.message)
		})
	}
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Validate(Default()))
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{File: "c.yaml", Field: "templates.base_url", Message: "invalid value"}
	assert.Equal(t, "c.yaml: templates.base_url: invalid value", err.Error())

	err = &ConfigError{Message: "invalid value"}
	assert.Equal(t, "invalid value", err.Error())
}
