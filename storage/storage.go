package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var appName string

// Init sets the application data directory name. Must be called before
// any storage operations.
func Init(dataDirName string) {
	appName = dataDirName
}

const (
	configFile    = "config.json"
	savesDir      = "saves"
	screenshotDir = "screenshots"
)

// GetBaseDir returns the base directory for application data.
// The directory name is set by Init(). Example paths:
// - macOS: ~/Library/Application Support/<appName>
// - Linux: ~/.local/share/<appName>
// - Windows: %APPDATA%/<appName>
func GetBaseDir() (string, error) {
	if appName == "" {
		return "", fmt.Errorf("storage not initialized")
	}

	var baseDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		baseDir = filepath.Join(appData, appName)
	default:
		dataHome := os.Getenv("XDG_DATA_HOME")
		if dataHome != "" {
			baseDir = filepath.Join(dataHome, appName)
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			baseDir = filepath.Join(home, ".local", "share", appName)
		}
	}

	return baseDir, nil
}

// EnsureDirectories creates the data directory and its subdirectories.
func EnsureDirectories() error {
	baseDir, err := GetBaseDir()
	if err != nil {
		return err
	}

	dirs := []string{
		baseDir,
		filepath.Join(baseDir, savesDir),
		filepath.Join(baseDir, screenshotDir),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// dataPath joins name onto the data directory.
func dataPath(name string) (string, error) {
	baseDir, err := GetBaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, name), nil
}

// GetConfigPath returns the full path to config.json
func GetConfigPath() (string, error) { return dataPath(configFile) }

// GetSavesDir returns the default directory for save state slots
func GetSavesDir() (string, error) { return dataPath(savesDir) }

// GetScreenshotDir returns the directory F12 screenshots are written under
func GetScreenshotDir() (string, error) { return dataPath(screenshotDir) }

// ResolveSaveStateDir returns the slot directory configured in config,
// falling back to the default saves directory.
func ResolveSaveStateDir(config *Config) (string, error) {
	if config != nil && config.SaveStateDir != "" {
		return config.SaveStateDir, nil
	}
	return GetSavesDir()
}

// ResolveTempDir returns the directory holding the picker's scratch
// snapshot.
func ResolveTempDir(config *Config) string {
	if config != nil && config.TempDir != "" {
		return config.TempDir
	}
	return os.TempDir()
}

// AtomicWriteJSON writes data to a JSON file atomically.
// It writes to a temporary file first, then renames to the target path.
func AtomicWriteJSON(path string, data interface{}) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
