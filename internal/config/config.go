// Package config loads studyplan settings from a JSONC file and the environment.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meikuraledutech/studyplan/catalogue"
	"github.com/tailscale/hujson"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".studyplan.json"

var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")
	errConfigInvalid      = errors.New("invalid config file")
	errLogLevel           = errors.New("log_level must be one of debug, info, warn, error")
	errLogFormat          = errors.New("log_format must be text or json")
	errListenEmpty        = errors.New("listen cannot be empty")
)

// Config holds all configuration options.
type Config struct {
	DatabaseURL string           `json:"database_url,omitempty"` //nolint:tagliatelle // snake_case for config file
	Listen      string           `json:"listen,omitempty"`
	LogLevel    string           `json:"log_level,omitempty"`  //nolint:tagliatelle // snake_case for config file
	LogFormat   string           `json:"log_format,omitempty"` //nolint:tagliatelle // snake_case for config file
	Format      catalogue.Format `json:"format,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Listen:    ":3000",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Project config file (.studyplan.json in workDir, if it exists)
// 3. Explicit config file via path (must exist)
// 4. Environment: DATABASE_URL, STUDYPLAN_LISTEN, STUDYPLAN_LOG_LEVEL, STUDYPLAN_LOG_FORMAT.
//
// It returns the config and the path of the file that was loaded, if any.
func Load(workDir, path string, env []string) (Config, string, error) {
	cfg := Default()

	fileCfg, loadedFrom, err := loadFile(workDir, path)
	if err != nil {
		return Config{}, "", err
	}
	cfg = merge(cfg, fileCfg)
	cfg = merge(cfg, fromEnv(env))

	cfg, err = validate(cfg)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, loadedFrom, nil
}

func loadFile(workDir, path string) (Config, string, error) {
	mustExist := path != ""
	if !mustExist {
		path = FileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if !mustExist && errors.Is(err, os.ErrNotExist) {
			return Config{}, "", nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, "", fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}
		return Config{}, "", fmt.Errorf("%w: %s: %w", errConfigFileRead, path, err)
	}

	cfg, err := parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}
	return cfg, path, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(standardized))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func fromEnv(env []string) Config {
	var cfg Config
	for _, e := range env {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			continue
		}
		switch key {
		case "DATABASE_URL":
			cfg.DatabaseURL = value
		case "STUDYPLAN_LISTEN":
			cfg.Listen = value
		case "STUDYPLAN_LOG_LEVEL":
			cfg.LogLevel = value
		case "STUDYPLAN_LOG_FORMAT":
			cfg.LogFormat = value
		}
	}
	return cfg
}

// merge overlays the non-empty fields of over onto base.
func merge(base, over Config) Config {
	if over.DatabaseURL != "" {
		base.DatabaseURL = over.DatabaseURL
	}
	if over.Listen != "" {
		base.Listen = over.Listen
	}
	if over.LogLevel != "" {
		base.LogLevel = over.LogLevel
	}
	if over.LogFormat != "" {
		base.LogFormat = over.LogFormat
	}
	if over.Format != "" {
		base.Format = over.Format
	}
	return base
}

// validate checks cfg and returns it with the catalogue format normalized.
func validate(cfg Config) (Config, error) {
	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("%w: %q", errLogLevel, cfg.LogLevel)
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		return Config{}, fmt.Errorf("%w: %q", errLogFormat, cfg.LogFormat)
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return Config{}, errListenEmpty
	}
	format, err := catalogue.ParseFormat(string(cfg.Format))
	if err != nil {
		return Config{}, err
	}
	cfg.Format = format
	return cfg, nil
}
