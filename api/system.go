package emucore

import "fmt"

// Standard d-pad button bit positions (always bits 0-3).
const (
	ButtonUp    = 0
	ButtonDown  = 1
	ButtonLeft  = 2
	ButtonRight = 3
)

// Button describes a system-specific button with its display name
// and bit position in the input bitmask.
type Button struct {
	Name       string
	ID         int    // Bit position in the uint32 bitmask (4+)
	DefaultKey string // Default keyboard key (e.g., "J", "Enter")
}

// SystemInfo describes an emulator system for UI configuration.
type SystemInfo struct {
	Name            string
	ConsoleName     string
	Extensions      []string
	ScreenWidth     int
	MaxScreenHeight int
	AspectRatio     float64
	SampleRate      int
	FPS             int
	Buttons         []Button
	DataDirName     string
	CoreName        string
	CoreVersion     string
}

// Validate reports the first field that would make the front-end unable to
// size its buffers or pace its loop.
func (s SystemInfo) Validate() error {
	switch {
	case s.ScreenWidth <= 0:
		return fmt.Errorf("invalid screen width %d", s.ScreenWidth)
	case s.MaxScreenHeight <= 0:
		return fmt.Errorf("invalid screen height %d", s.MaxScreenHeight)
	case s.FPS <= 0:
		return fmt.Errorf("invalid frame rate %d", s.FPS)
	case s.DataDirName == "":
		return fmt.Errorf("data directory name not set")
	}
	return nil
}

// CoreFactory creates emulator instances and provides system metadata.
type CoreFactory interface {
	// SystemInfo returns system metadata for UI configuration.
	SystemInfo() SystemInfo

	// CreateEmulator creates a new emulator instance for the given ROM. The
	// returned value must also implement SaveStater for save states to work.
	CreateEmulator(rom []byte) (Emulator, error)
}
