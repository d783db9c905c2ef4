package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const fileHeader = "# Jukebox Configuration\n\n"

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.jukeboxrc, $XDG_CONFIG_HOME/jukebox/config.toml, ~/.config/jukebox/config.toml
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory if one exists.
// Variables already present in the environment win.
func LoadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load()
}

// Path returns the file Load would read, or the default location to create.
func Path() string {
	if p := findConfigFile(); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jukeboxrc"
	}
	return filepath.Join(home, ".jukeboxrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".jukeboxrc"),
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "jukebox", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// API
	if v := os.Getenv("JUKEBOX_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("JUKEBOX_API_TIMEOUT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.API.Timeout = i
		}
	}
	if v := os.Getenv("JUKEBOX_API_RETRIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.API.Retries = i
		}
	}

	// Events
	if v := os.Getenv("JUKEBOX_EVENTS_PATH"); v != "" {
		cfg.Events.Path = v
	}
	if v := os.Getenv("JUKEBOX_EVENTS_RECONNECT_DELAY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Events.ReconnectDelay = i
		}
	}

	// TUI
	if v := os.Getenv("JUKEBOX_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("JUKEBOX_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("JUKEBOX_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

// intKeys and boolKeys list settable keys that are not strings.
var (
	intKeys = map[string]bool{
		"api.timeout":            true,
		"api.retries":            true,
		"events.reconnect_delay": true,
		"tail.interval":          true,
		"tui.volume_step":        true,
	}
	boolKeys = map[string]bool{
		"tail.emoji":     true,
		"tail.timestamp": true,
		"tail.notify":    true,
	}
	stringKeys = map[string]bool{
		"api.base_url": true,
		"events.path":  true,
		"tui.theme":    true,
		"log.level":    true,
		"log.file":     true,
	}
)

// Keys returns every key accepted by SetValue.
func Keys() []string {
	var keys []string
	for _, m := range []map[string]bool{stringKeys, intKeys, boolKeys} {
		for k := range m {
			keys = append(keys, k)
		}
	}
	return keys
}

// SetValue updates a single "section.key" entry in the config file at path,
// creating the file if needed. The result is validated before writing.
func SetValue(path, key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return fmt.Errorf("invalid key format. Use 'section.key' (e.g., api.base_url)")
	}
	section, field := parts[0], parts[1]

	var typedValue interface{}
	switch {
	case intKeys[key]:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("value must be an integer for %s", key)
		}
		typedValue = i
	case boolKeys[key]:
		b, err := strconv.ParseBool(value)
		if err != nil {
			typedValue = value == "yes" || value == "on"
		} else {
			typedValue = b
		}
	case stringKeys[key]:
		typedValue = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}

	rawConfig := make(map[string]interface{})
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if len(data) > 0 {
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	sectionMap, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sectionMap = make(map[string]interface{})
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	// Round-trip through the typed config to catch invalid values early.
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(rawConfig); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	check := Default()
	if _, err := toml.Decode(buf.String(), check); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return writeFile(path, rawConfig)
}

// WriteDefault creates a new config file with default values.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	return writeFile(path, Default())
}

func writeFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(fileHeader); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
