package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "japa/internal/platform/errors"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	configFile = "config.yaml"
)

type Config struct {
	HomePath   string
	StorePath  string
	DBPath     string
	ConfigPath string
	LogPath    string

	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend string `yaml:"backend"` // "file" | "sqlite"
}

type SessionConfig struct {
	CompletionDelay time.Duration `yaml:"completion_delay"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// New derives every path from the home directory and applies defaults. It
// does not touch the filesystem.
func New(homePath string) (Config, error) {
	if homePath == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	cfg := Config{
		HomePath:   homePath,
		StorePath:  filepath.Join(homePath, "store"),
		DBPath:     filepath.Join(homePath, "japa.db"),
		ConfigPath: filepath.Join(homePath, configFile),
		Storage:    StorageConfig{Backend: BackendFile},
		Session:    SessionConfig{CompletionDelay: 500 * time.Millisecond},
		Log:        LogConfig{Level: "info", File: "japa.log"},
	}
	cfg.LogPath = filepath.Join(homePath, cfg.Log.File)
	return cfg, nil
}

// Load is New plus the optional config.yaml overlay. A missing file is not an
// error; a malformed or invalid one is.
func Load(homePath string) (Config, error) {
	cfg, err := New(homePath)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.LogPath = cfg.Log.File
	if !filepath.IsAbs(cfg.LogPath) {
		cfg.LogPath = filepath.Join(homePath, cfg.LogPath)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", apperrors.ErrInvalidInput, c.Storage.Backend)
	}
	if c.Session.CompletionDelay < 0 {
		return fmt.Errorf("%w: completion delay must not be negative", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(c.Log.File) == "" {
		return fmt.Errorf("%w: log file is required", apperrors.ErrInvalidInput)
	}
	return nil
}

// DefaultHome is the per-user data directory, the equivalent of a browser
// origin's local storage.
func DefaultHome() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".japa"
	}
	return filepath.Join(dir, "japa")
}

// WriteDefault writes a config.yaml with the defaults when none exists.
func WriteDefault(cfg Config) error {
	if _, err := os.Stat(cfg.ConfigPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(cfg.HomePath, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(map[string]any{
		"storage": map[string]any{"backend": cfg.Storage.Backend},
		"session": map[string]any{"completion_delay": cfg.Session.CompletionDelay.String()},
		"log":     map[string]any{"level": cfg.Log.Level, "file": cfg.Log.File},
	})
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(cfg.ConfigPath, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
