// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML and TOML loading, env var expansion, defaults, and path resolution

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("TEST_MOL_SECRET", "0123456789abcdef0123456789abcdef")
	path := writeFile(t, t.TempDir(), "config.yaml", `
backend:
  base_url: "https://mol.example.com"
  timeout: "15s"

intake:
  error_flash: "250ms"

display:
  locale: "de-DE"
  contact_email: "help@example.com"

logging:
  level: "debug"
  format: "json"

devserver:
  admin_emails:
    - "root@example.com"
  jwt_secret: "${TEST_MOL_SECRET}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://mol.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, DefaultSessionCookie, cfg.Backend.SessionCookie)
	assert.Equal(t, DefaultExtension, cfg.Intake.Extension)
	assert.Equal(t, 250*time.Millisecond, cfg.Intake.ErrorFlash)
	assert.Equal(t, "de-DE", cfg.Display.Locale)
	assert.Equal(t, "help@example.com", cfg.Display.ContactEmail)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"root@example.com"}, cfg.DevServer.AdminEmails)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.DevServer.JWTSecret)
	assert.NoError(t, cfg.ValidateDevServer())
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.toml", `
[backend]
base_url = "http://127.0.0.1:9000"
timeout = "5s"

[intake]
extension = ".MOL"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, ".MOL", cfg.Intake.Extension)
	assert.Equal(t, DefaultErrorFlash, cfg.Intake.ErrorFlash)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad duration", "backend:\n  timeout: \"soon\"\n", "parsing timeout"},
		{"bad scheme", "backend:\n  base_url: \"ftp://x\"\n", "http or https"},
		{"bad extension", "intake:\n  extension: \"mol\"\n", "intake.extension"},
		{"bad level", "logging:\n  level: \"loud\"\n", "logging.level"},
		{"bad yaml", "backend: [\n", "parsing config file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDevServer_ShortSecret(t *testing.T) {
	cfg := Default()
	cfg.DevServer.JWTSecret = "short"
	assert.Error(t, cfg.ValidateDevServer())
}

func TestResolve(t *testing.T) {
	t.Run("missing default file yields defaults", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("env path wins over default", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "env.yaml", "display:\n  locale: \"fr-FR\"\n")
		t.Setenv(EnvConfigPath, path)
		t.Setenv("XDG_CONFIG_HOME", dir)

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "fr-FR", cfg.Display.Locale)
	})

	t.Run("explicit path wins over env", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigPath, writeFile(t, dir, "env.yaml", "display:\n  locale: \"fr-FR\"\n"))
		explicit := writeFile(t, dir, "flag.yaml", "display:\n  locale: \"ja-JP\"\n")

		cfg, err := Resolve(explicit)
		require.NoError(t, err)
		assert.Equal(t, "ja-JP", cfg.Display.Locale)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("XDG default is read", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigPath, "")
		t.Setenv("XDG_CONFIG_HOME", dir)
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "molindex"), 0755))
		writeFile(t, filepath.Join(dir, "molindex"), "config.yaml", "intake:\n  error_flash: \"2s\"\n")

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, 2*time.Second, cfg.Intake.ErrorFlash)
	})
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MOL_A", "alpha")
	assert.Equal(t, "x alpha y ", expandEnvVars("x ${MOL_A} y ${MOL_UNSET_VAR}"))
}
