package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LFroesch/duo/internal/logger"
	"github.com/LFroesch/duo/internal/scanner"
	"github.com/LFroesch/duo/internal/utils"
)

const (
	minMaxEntries = 16
	maxMaxEntries = 65536
)

// Config holds all duo configuration
type Config struct {
	MaxEntries    int    `json:"max_entries"`     // Entries listed per directory; the rest are dropped
	LogFile       string `json:"log_file"`        // Diagnostic log path; empty means ~/.config/duo/duo.log
	Debug         bool   `json:"debug"`           // Emit debug lines (transitions, redraws) to the log
	ShowGitBranch bool   `json:"show_git_branch"` // Show the git branch in the status bar
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		MaxEntries:    scanner.DefaultMaxEntries,
		LogFile:       "",
		Debug:         false,
		ShowGitBranch: true,
	}
}

func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "duo"), nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "duo-config.json"), nil
}

// Load reads config from ~/.config/duo/duo-config.json
func Load() *Config {
	defaultConfig := Default()

	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return defaultConfig
	}

	// Try to load existing config
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Save default config and return it
		if err := Save(defaultConfig); err != nil {
			logger.Warn("Failed to save default config: %v", err)
		}
		return defaultConfig
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		logger.Warn("Failed to parse config file %s: %v, using defaults", configPath, err)
		return defaultConfig
	}

	config.normalize()
	return config
}

// normalize applies defaults and bounds to out-of-range values
func (c *Config) normalize() {
	if c.MaxEntries <= 0 {
		c.MaxEntries = scanner.DefaultMaxEntries
		return
	}
	clamped := utils.Clamp(c.MaxEntries, minMaxEntries, maxMaxEntries)
	if clamped != c.MaxEntries {
		logger.Warn("max_entries %d out of range, using %d", c.MaxEntries, clamped)
		c.MaxEntries = clamped
	}
}

// Save writes config to ~/.config/duo/duo-config.json
func Save(config *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		return err
	}
	configDir := filepath.Dir(configPath)

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", configDir, err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		logger.Error("Failed to marshal config: %v", err)
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", configPath, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}

	return nil
}
