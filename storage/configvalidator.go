package storage

import (
	"encoding/json"
	"fmt"
)

// detectPresentKeys unmarshals JSON bytes to determine which config keys
// are explicitly present in the file. Returns a flat set of dotted-path keys
// (e.g., "audio.volume", "window.scale"). Only checks fields that have
// validation rules.
func detectPresentKeys(jsonBytes []byte) map[string]bool {
	present := make(map[string]bool)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return present
	}

	if _, ok := raw["version"]; ok {
		present["version"] = true
	}

	nested := map[string][]string{
		"audio":  {"volume"},
		"window": {"scale"},
		"input":  {"repeatDelayMs", "repeatIntervalMs"},
	}
	for section, keys := range nested {
		sectionRaw, ok := raw[section]
		if !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if json.Unmarshal(sectionRaw, &fields) != nil {
			continue
		}
		for _, k := range keys {
			if _, ok := fields[k]; ok {
				present[section+"."+k] = true
			}
		}
	}

	return present
}

// ApplyMissingDefaults sets default values for config fields that are absent
// from the JSON file. Only truly missing fields get defaults, preserving
// intentional zero values (e.g., volume=0).
func ApplyMissingDefaults(config *Config, presentKeys map[string]bool) {
	defaults := DefaultConfig()

	if !presentKeys["version"] {
		config.Version = defaults.Version
	}
	if !presentKeys["audio.volume"] {
		config.Audio.Volume = defaults.Audio.Volume
	}
	if !presentKeys["window.scale"] {
		config.Window.Scale = defaults.Window.Scale
	}
	if !presentKeys["input.repeatDelayMs"] {
		config.Input.RepeatDelayMs = defaults.Input.RepeatDelayMs
	}
	if !presentKeys["input.repeatIntervalMs"] {
		config.Input.RepeatIntervalMs = defaults.Input.RepeatIntervalMs
	}
	if config.SaveSlots == nil {
		config.SaveSlots = make(map[string]int)
	}
}

// ValidateConfig checks all config fields against valid ranges and returns
// human-readable error descriptions. An empty slice means the config is valid.
// validKeys is the set of key names accepted for keyboard overrides.
func ValidateConfig(config *Config, validKeys map[string]bool) []string {
	var errors []string

	if config.Version != 1 {
		errors = append(errors, fmt.Sprintf("version: %d (valid: 1)", config.Version))
	}

	if config.Audio.Volume < 0 || config.Audio.Volume > 2.0 {
		errors = append(errors, fmt.Sprintf("audio.volume: %.2f (valid: 0.0-2.0)", config.Audio.Volume))
	}

	if config.Window.Scale < MinScale || config.Window.Scale > MaxScale {
		errors = append(errors, fmt.Sprintf("window.scale: %d (valid: %d-%d)", config.Window.Scale, MinScale, MaxScale))
	}

	if config.Input.RepeatDelayMs < MinRepeatDelayMs || config.Input.RepeatDelayMs > MaxRepeatDelayMs {
		errors = append(errors, fmt.Sprintf("input.repeatDelayMs: %d (valid: %d-%d)",
			config.Input.RepeatDelayMs, MinRepeatDelayMs, MaxRepeatDelayMs))
	}

	if config.Input.RepeatIntervalMs < MinRepeatIntervalMs || config.Input.RepeatIntervalMs > MaxRepeatIntervalMs {
		errors = append(errors, fmt.Sprintf("input.repeatIntervalMs: %d (valid: %d-%d)",
			config.Input.RepeatIntervalMs, MinRepeatIntervalMs, MaxRepeatIntervalMs))
	}

	for action, key := range config.Input.Keyboard {
		if !validKeys[key] {
			errors = append(errors, fmt.Sprintf("input.keyboard.%s: %q (unknown key)", action, key))
		}
	}

	for name, slot := range config.SaveSlots {
		if slot < 0 || slot > 9 {
			errors = append(errors, fmt.Sprintf("saveSlots.%s: %d (valid: 0-9)", name, slot))
		}
	}

	return errors
}

// CorrectConfig resets any invalid fields to their defaults from DefaultConfig().
// Valid fields are preserved.
func CorrectConfig(config *Config, validKeys map[string]bool) *Config {
	defaults := DefaultConfig()

	if config.Version != 1 {
		config.Version = defaults.Version
	}

	if config.Audio.Volume < 0 || config.Audio.Volume > 2.0 {
		config.Audio.Volume = defaults.Audio.Volume
	}

	if config.Window.Scale < MinScale || config.Window.Scale > MaxScale {
		config.Window.Scale = defaults.Window.Scale
	}

	if config.Input.RepeatDelayMs < MinRepeatDelayMs || config.Input.RepeatDelayMs > MaxRepeatDelayMs {
		config.Input.RepeatDelayMs = defaults.Input.RepeatDelayMs
	}

	if config.Input.RepeatIntervalMs < MinRepeatIntervalMs || config.Input.RepeatIntervalMs > MaxRepeatIntervalMs {
		config.Input.RepeatIntervalMs = defaults.Input.RepeatIntervalMs
	}

	for action, key := range config.Input.Keyboard {
		if !validKeys[key] {
			delete(config.Input.Keyboard, action)
		}
	}

	for name, slot := range config.SaveSlots {
		if slot < 0 || slot > 9 {
			delete(config.SaveSlots, name)
		}
	}

	return config
}
