// Package config loads client configuration from a YAML file and the
// environment. Environment variables win over file values.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// Backend connection
	ServerURL string

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Default translation display language ("none", "hi" or "ta")
	TranslateLang string
}

// fileConfig is the YAML shape of ~/.config/docchat/config.yaml.
type fileConfig struct {
	ServerURL     string `yaml:"server_url"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	TranslateLang string `yaml:"translate_lang"`
}

// Load reads configuration from the config file (if present) and the
// environment.
func Load() Config {
	file := loadFile(configFilePath())

	return Config{
		ServerURL:     getEnv("DOCCHAT_SERVER_URL", file.ServerURL),
		LogFile:       getEnv("DOCCHAT_LOG_FILE", firstNonEmpty(file.LogFile, "/tmp/docchat.log")),
		LogLevel:      parseLogLevel(getEnv("DOCCHAT_LOG_LEVEL", firstNonEmpty(file.LogLevel, "INFO"))),
		TranslateLang: getEnv("DOCCHAT_TRANSLATE_LANG", firstNonEmpty(file.TranslateLang, "none")),
	}
}

// configFilePath returns the default config file location, honoring
// XDG_CONFIG_HOME.
func configFilePath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "docchat", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "docchat", "config.yaml")
}

// loadFile parses the YAML config file. A missing or malformed file is not
// an error; the defaults apply.
func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		slog.Warn("ignoring malformed config file", "path", path, "error", err)
		return fileConfig{}
	}
	return fc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
