package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// OpenConfig returns the configuration in config.json, writing the defaults
// on first run. Fields absent from the file take their defaults and invalid
// fields are corrected; the problems found are returned so the caller can
// report them. A file that is not valid JSON is an error.
func OpenConfig(validKeys map[string]bool) (*Config, []string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, nil, err
	}

	jsonBytes, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		config := DefaultConfig()
		return config, nil, SaveConfig(config)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config: %w", err)
	}

	config := &Config{}
	if err := json.Unmarshal(jsonBytes, config); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	ApplyMissingDefaults(config, detectPresentKeys(jsonBytes))

	problems := ValidateConfig(config, validKeys)
	if len(problems) > 0 {
		CorrectConfig(config, validKeys)
	}
	return config, problems, nil
}

// SaveConfig writes config.json atomically.
func SaveConfig(config *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return AtomicWriteJSON(path, config)
}
