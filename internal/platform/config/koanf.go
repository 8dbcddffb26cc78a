package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks the environment variables read into configuration.
	// Nested keys are separated with a double underscore:
	// TANDEM_RECOMMEND__SETTINGS__DAILY_COUNT=7.
	EnvPrefix = "TANDEM_"
	// PathEnvVar names the YAML config file.
	PathEnvVar = "TANDEM_CONFIG"
)

// DefaultPaths are searched when TANDEM_CONFIG is unset.
var DefaultPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tandem/config.yaml",
}

// sliceKeys are split on commas when they arrive as a single env string.
var sliceKeys = []string{
	"kafka.brokers",
	"recommend.settings.slot_labels",
}

// Load builds the configuration and returns it with the file path it read,
// which is empty when no file was found.
func Load() (*Config, string, error) {
	path := FindFile()
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// LoadFrom builds the configuration from defaults, the YAML file at path (if
// any) and the environment.
func LoadFrom(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindFile returns the first existing config file, or "".
func FindFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Watch reloads the file at path whenever it changes and hands the new
// configuration to onChange. Invalid files are logged and skipped.
func Watch(path string, logger *slog.Logger, onChange func(*Config)) error {
	if path == "" {
		return nil
	}
	return file.Provider(path).Watch(func(_ any, err error) {
		if err != nil {
			logger.Warn("config watch error", "path", path, "error", err)
			return
		}
		cfg, err := LoadFrom(path)
		if err != nil {
			logger.Warn("ignoring invalid config change", "path", path, "error", err)
			return
		}
		onChange(cfg)
	})
}

// envKey maps TANDEM_RECOMMEND__LOCK__BACKEND to recommend.lock.backend.
func envKey(s string) string {
	if s == PathEnvVar {
		return ""
	}
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func splitSlices(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		raw, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	return nil
}
