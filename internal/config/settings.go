// Package-level CLI settings persisted in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"pgbridge/cli/internal/xdg"
)

// Settings holds non-sensitive CLI settings.
type Settings struct {
	LogLevel string `json:"log_level"`
	// PageSize is the default batch page size for mutation commands.
	PageSize int `json:"page_size"`
}

// settingsPath returns the path to the settings file.
func settingsPath() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadSettings reads CLI settings; missing file returns defaults.
func LoadSettings() (Settings, error) {
	var s Settings
	p, err := settingsPath()
	if err != nil {
		return s, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Defaults (DB credentials come from env/keychain, not config)
			s.LogLevel = "info"
			s.PageSize = 1000
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return s, err
	}
	return s, nil
}

// SaveSettings writes CLI settings with 0600 permissions.
func SaveSettings(s Settings) error {
	p, err := settingsPath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
