package storage

// Config represents the application configuration stored in config.json
type Config struct {
	Version      int            `json:"version"`
	SaveStateDir string         `json:"saveStateDir,omitempty"` // empty = <data dir>/saves
	TempDir      string         `json:"tempDir,omitempty"`      // empty = os.TempDir()
	Audio        AudioConfig    `json:"audio"`
	Window       WindowConfig   `json:"window"`
	Input        InputConfig    `json:"input"`
	SaveSlots    map[string]int `json:"saveSlots,omitempty"` // content base name -> last picker slot
}

// AudioConfig contains audio-related settings
type AudioConfig struct {
	Volume float64 `json:"volume"`
	Muted  bool    `json:"muted"`
}

// WindowConfig contains window size settings
type WindowConfig struct {
	Scale      int  `json:"scale"` // integer multiple of the 320x240 canvas
	Fullscreen bool `json:"fullscreen"`
}

// InputConfig contains menu navigation timing and keyboard overrides.
// An empty Keyboard map means "use defaults." Only user overrides are stored.
type InputConfig struct {
	RepeatDelayMs    int               `json:"repeatDelayMs"`      // hold time before a direction repeats
	RepeatIntervalMs int               `json:"repeatIntervalMs"`   // time between repeats
	Keyboard         map[string]string `json:"keyboard,omitempty"` // action name -> key name override
}

// Scale and repeat timing limits
const (
	MinScale            = 1
	MaxScale            = 6
	MinRepeatDelayMs    = 100
	MaxRepeatDelayMs    = 1000
	MinRepeatIntervalMs = 20
	MaxRepeatIntervalMs = 500
)

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Audio: AudioConfig{
			Volume: 1.0,
			Muted:  false,
		},
		Window: WindowConfig{
			Scale: 3,
		},
		Input: InputConfig{
			RepeatDelayMs:    400,
			RepeatIntervalMs: 80,
		},
		SaveSlots: make(map[string]int),
	}
}

// SaveSlot returns the slot the picker last used for content, 0 if none.
func (c *Config) SaveSlot(baseName string) int {
	if slot, ok := c.SaveSlots[baseName]; ok && slot >= 0 && slot <= 9 {
		return slot
	}
	return 0
}

// SetSaveSlot remembers the picker slot for content.
func (c *Config) SetSaveSlot(baseName string, slot int) {
	if baseName == "" {
		return
	}
	if c.SaveSlots == nil {
		c.SaveSlots = make(map[string]int)
	}
	c.SaveSlots[baseName] = slot
}
