// ABOUTME: Configuration loading and parsing for the molindex client and dev server
// ABOUTME: Supports YAML or TOML files with environment variable expansion and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the config path.
const EnvConfigPath = "MOLINDEX_CONFIG"

// Defaults applied before a file is decoded.
const (
	DefaultBaseURL       = "http://localhost:5000"
	DefaultTimeout       = 60 * time.Second
	DefaultErrorFlash    = time.Second
	DefaultExtension     = ".mol"
	DefaultLocale        = "en-US"
	DefaultListenAddr    = "127.0.0.1:5000"
	DefaultFrontendURL   = "http://localhost:5000"
	DefaultSessionCookie = "session"
)

// Config represents the complete molindex configuration
type Config struct {
	Backend   BackendConfig   `yaml:"backend" toml:"backend"`
	Intake    IntakeConfig    `yaml:"intake" toml:"intake"`
	Display   DisplayConfig   `yaml:"display" toml:"display"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	DevServer DevServerConfig `yaml:"devserver" toml:"devserver"`
}

// BackendConfig describes how the client reaches the analysis service
type BackendConfig struct {
	BaseURL       string        `yaml:"base_url" toml:"base_url"`
	SessionCookie string        `yaml:"session_cookie" toml:"session_cookie"`
	Timeout       time.Duration `yaml:"-" toml:"-"`

	// Raw string values for unmarshaling
	TimeoutRaw string `yaml:"timeout" toml:"timeout"`
}

// IntakeConfig holds file intake settings
type IntakeConfig struct {
	Extension  string        `yaml:"extension" toml:"extension"`
	ErrorFlash time.Duration `yaml:"-" toml:"-"`

	ErrorFlashRaw string `yaml:"error_flash" toml:"error_flash"`
}

// DisplayConfig holds result rendering settings
type DisplayConfig struct {
	Locale string `yaml:"locale" toml:"locale"`
	// ContactEmail is linked as mailto in quota messages. When empty, any
	// address found in the message is linked.
	ContactEmail string `yaml:"contact_email" toml:"contact_email"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DevServerConfig holds settings for the development backend
type DevServerConfig struct {
	ListenAddr    string   `yaml:"listen_addr" toml:"listen_addr"`
	FrontendURL   string   `yaml:"frontend_url" toml:"frontend_url"`
	AdminEmails   []string `yaml:"admin_emails" toml:"admin_emails"`
	ContactEmail  string   `yaml:"contact_email" toml:"contact_email"`
	JWTSecret     string   `yaml:"jwt_secret" toml:"jwt_secret"`
	DatabasePath  string   `yaml:"database_path" toml:"database_path"`
	SecureCookies bool     `yaml:"secure_cookies" toml:"secure_cookies"`
	DevLogin      bool     `yaml:"dev_login" toml:"dev_login"`
}

// Default returns a configuration usable without any file.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:       DefaultBaseURL,
			SessionCookie: DefaultSessionCookie,
			Timeout:       DefaultTimeout,
		},
		Intake: IntakeConfig{
			Extension:  DefaultExtension,
			ErrorFlash: DefaultErrorFlash,
		},
		Display: DisplayConfig{
			Locale: DefaultLocale,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		DevServer: DevServerConfig{
			ListenAddr:  DefaultListenAddr,
			FrontendURL: DefaultFrontendURL,
			DevLogin:    true,
		},
	}
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded.
// Fields absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Resolve picks the config file to load: the explicit path, then
// MOLINDEX_CONFIG, then the XDG default. Only the XDG default may be missing,
// in which case defaults are returned.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return Load(env)
	}

	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// DefaultPath returns $XDG_CONFIG_HOME/molindex/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "molindex", "config.yaml")
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url must use http or https, got %q", u.Scheme)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}
	if c.Backend.SessionCookie == "" {
		return fmt.Errorf("backend.session_cookie is required")
	}

	if !strings.HasPrefix(c.Intake.Extension, ".") || len(c.Intake.Extension) < 2 {
		return fmt.Errorf("intake.extension must look like \".mol\", got %q", c.Intake.Extension)
	}
	if c.Intake.ErrorFlash <= 0 {
		return fmt.Errorf("intake.error_flash must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}

	return nil
}

// ValidateDevServer checks the fields only the development backend needs.
func (c *Config) ValidateDevServer() error {
	if c.DevServer.ListenAddr == "" {
		return fmt.Errorf("devserver.listen_addr is required")
	}
	if len(c.DevServer.JWTSecret) < 32 {
		return fmt.Errorf("devserver.jwt_secret must be at least 32 bytes")
	}
	if _, err := url.Parse(c.DevServer.FrontendURL); err != nil {
		return fmt.Errorf("devserver.frontend_url is not a valid URL: %w", err)
	}
	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Backend.TimeoutRaw != "" {
		cfg.Backend.Timeout, err = time.ParseDuration(cfg.Backend.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", cfg.Backend.TimeoutRaw, err)
		}
	}

	if cfg.Intake.ErrorFlashRaw != "" {
		cfg.Intake.ErrorFlash, err = time.ParseDuration(cfg.Intake.ErrorFlashRaw)
		if err != nil {
			return fmt.Errorf("parsing error_flash %q: %w", cfg.Intake.ErrorFlashRaw, err)
		}
	}

	return nil
}
