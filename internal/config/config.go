package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable huntsplit settings.
type Config struct {
	DefaultFormat string `json:"default_format"` // "plain" | "text" | "json" | "markdown"
	Rounding      string `json:"rounding"`       // "nearest" | "conserve"
	HistoryPath   string `json:"history_path"`   // override $XDG_DATA_HOME/huntsplit/history.db
	ListenAddr    string `json:"listen_addr"`
	LogLevel      string `json:"log_level"`  // "debug" | "info" | "warn" | "error"
	LogFormat     string `json:"log_format"` // "text" | "json"
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		DefaultFormat: "plain",
		Rounding:      "nearest",
		ListenAddr:    "127.0.0.1:8097",
		LogLevel:      "warn",
		LogFormat:     "text",
	}
}

// LoadGlobal reads ~/.config/huntsplit/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "huntsplit", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .huntsplitconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".huntsplitconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults. HUNTSPLIT_LOG_LEVEL, when
// set, overrides both files.
func Merge(global, project *Config) Config {
	result := Defaults()
	for _, c := range []*Config{global, project} {
		if c != nil {
			overlay(&result, c)
		}
	}
	if lvl := os.Getenv("HUNTSPLIT_LOG_LEVEL"); lvl != "" {
		result.LogLevel = lvl
	}
	return result
}

// overlay copies every non-empty field of src over dst.
func overlay(dst, src *Config) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.Rounding != "" {
		dst.Rounding = src.Rounding
	}
	if src.HistoryPath != "" {
		dst.HistoryPath = src.HistoryPath
	}
	if src.ListenAddr != "" {
		dst.ListenAddr = src.ListenAddr
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
