// Package emucore defines the boundary between the menu front-end and an
// emulation core. The front-end never reaches into a core beyond these
// interfaces.
package emucore

// Emulator is the core interface that every emulator adapter must implement.
type Emulator interface {
	// RunFrame executes one frame of emulation. It is synchronous and is
	// treated as atomic by callers.
	RunFrame()

	// GetFramebuffer returns the current frame as RGBA pixel data.
	GetFramebuffer() []byte

	// GetFramebufferStride returns bytes per row in the framebuffer.
	GetFramebufferStride() int

	// GetActiveHeight returns the current active display height in pixels.
	GetActiveHeight() int

	// GetAudioSamples returns stereo 16-bit PCM audio samples for the frame.
	GetAudioSamples() []int16

	// SetInput sets controller state as a button bitmask for the given player.
	SetInput(player int, buttons uint32)

	// Reset performs a soft reset of the loaded content.
	Reset()

	// Close releases any resources held by the emulator.
	Close()
}

// SaveStater enables freezing and unfreezing the complete emulator state.
type SaveStater interface {
	// Serialize captures the complete emulator state.
	Serialize() ([]byte, error)

	// Deserialize restores emulator state from previously serialized data.
	// On error the live state must be left untouched.
	Deserialize(data []byte) error
}

// BatterySaver enables SRAM persistence for battery-backed saves.
type BatterySaver interface {
	// HasSRAM reports whether the loaded ROM uses battery-backed save.
	HasSRAM() bool

	// GetSRAM returns a copy of the current SRAM contents.
	GetSRAM() []byte

	// SetSRAM loads SRAM contents into the emulator.
	SetSRAM(data []byte)
}
