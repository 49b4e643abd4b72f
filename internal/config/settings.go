// Package config loads and persists user settings from a YAML file.
// The file location defaults to ~/.tempo/settings.yaml and can be
// overridden with the TEMPO_CONFIG environment variable.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/tempo/internal/dateutil"
	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

// Settings holds user preferences for the timer and date defaults.
type Settings struct {
	DefaultTimeBlockMinutes int  `yaml:"default_time_block_minutes"`
	DefaultBreakMinutes     int  `yaml:"default_break_minutes"`
	TimerWarningMinutes     int  `yaml:"timer_warning_minutes"`
	IncludeSaturday         bool `yaml:"include_saturday"`
	IncludeSunday           bool `yaml:"include_sunday"`
	EnableBreakAlerts       bool `yaml:"enable_break_alerts"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		DefaultTimeBlockMinutes: 30,
		DefaultBreakMinutes:     5,
		TimerWarningMinutes:     5,
		IncludeSaturday:         true,
		IncludeSunday:           true,
		EnableBreakAlerts:       true,
	}
}

// WeekendPolicy converts the weekend flags into an explicit dateutil policy.
func (s Settings) WeekendPolicy() dateutil.WeekendPolicy {
	return dateutil.WeekendPolicy{
		IncludeSaturday: s.IncludeSaturday,
		IncludeSunday:   s.IncludeSunday,
	}
}

// SettingsPath resolves the settings file location, honoring TEMPO_CONFIG.
func SettingsPath() (string, error) {
	if p := os.Getenv("TEMPO_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".tempo", settingsFileName), nil
}

// Load reads settings from the given path. A missing file yields defaults.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("reading settings file: %w", err)
	}

	if err := yaml.Unmarshal(raw, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parsing settings yaml: %w", err)
	}
	if settings.DefaultTimeBlockMinutes <= 0 {
		settings.DefaultTimeBlockMinutes = DefaultSettings().DefaultTimeBlockMinutes
	}
	if settings.DefaultBreakMinutes < 0 || settings.DefaultBreakMinutes >= settings.DefaultTimeBlockMinutes {
		settings.DefaultBreakMinutes = DefaultSettings().DefaultBreakMinutes
	}
	return settings, nil
}

// Save writes settings to the given path, creating parent directories.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	raw, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings yaml: %w", err)
	}

	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
