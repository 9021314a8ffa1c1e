package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds quill's runtime settings.
type Config struct {
	APIURL       string
	Token        string
	PageSize     int
	PollInterval time.Duration
	LogFile      string
	LogLevel     string
}

const (
	defaultConfigPath  = "~/.config/quill/config.toml"
	defaultLogFile     = "~/.local/state/quill/quill.log"
	defaultAPIURL      = "http://127.0.0.1:3000"
	defaultPageSize    = 20
	maxPageSize        = 100
	defaultPollSeconds = 5
	defaultLogLevel    = "info"
)

type fileConfig struct {
	APIURL      string `toml:"api_url"`
	Token       string `toml:"token"`
	PageSize    int    `toml:"page_size"`
	PollSeconds int    `toml:"poll_seconds"`
	LogFile     string `toml:"log_file"`
	LogLevel    string `toml:"log_level"`
}

type envConfig struct {
	APIURL   string `env:"QUILL_API_URL"`
	Token    string `env:"QUILL_TOKEN"`
	PageSize int    `env:"QUILL_PAGE_SIZE"`
	LogFile  string `env:"QUILL_LOG_FILE"`
	LogLevel string `env:"QUILL_LOG_LEVEL"`
}

// Load reads the TOML config at path (or the default location), applies
// QUILL_* environment overrides, and fills in defaults. A missing file is not
// an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	data, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if data != nil {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	var overrides envConfig
	if err := env.Parse(&overrides); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	raw.merge(overrides)

	return raw.resolve(), nil
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return data, nil
}

func (f *fileConfig) merge(e envConfig) {
	if v := strings.TrimSpace(e.APIURL); v != "" {
		f.APIURL = v
	}
	if v := strings.TrimSpace(e.Token); v != "" {
		f.Token = v
	}
	if e.PageSize != 0 {
		f.PageSize = e.PageSize
	}
	if v := strings.TrimSpace(e.LogFile); v != "" {
		f.LogFile = v
	}
	if v := strings.TrimSpace(e.LogLevel); v != "" {
		f.LogLevel = v
	}
}

func (f fileConfig) resolve() Config {
	cfg := Config{
		APIURL:   strings.TrimSpace(f.APIURL),
		Token:    strings.TrimSpace(f.Token),
		PageSize: f.PageSize,
		LogFile:  strings.TrimSpace(f.LogFile),
		LogLevel: strings.ToLower(strings.TrimSpace(f.LogLevel)),
	}
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	switch {
	case cfg.PageSize <= 0:
		cfg.PageSize = defaultPageSize
	case cfg.PageSize > maxPageSize:
		cfg.PageSize = maxPageSize
	}
	poll := f.PollSeconds
	if poll <= 0 {
		poll = defaultPollSeconds
	}
	cfg.PollInterval = time.Duration(poll) * time.Second
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	return cfg
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	return fileConfig{}.resolve()
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
