// Package testcore is a small deterministic emulation core. It draws a
// pattern seeded by the ROM image and a cursor the player moves with the
// d-pad, which is enough to exercise save states and previews without a
// real SNES core.
package testcore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"

	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
)

const (
	screenWidth  = 256
	screenHeight = 224
	sampleRate   = 48000
	fps          = 60
	cursorSize   = 16
	sramSize     = 2048

	samplesPerFrame = sampleRate / fps
)

// State format
const (
	stateTag     = "TCOR"
	stateVersion = 1
)

// ErrBadState is returned by Deserialize for data it did not produce.
var ErrBadState = errors.New("not a test core state")

// Button bits above the d-pad
const (
	buttonA = 4
	buttonB = 5
)

// Factory creates test cores.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "snes",
		ConsoleName:     "Super Nintendo",
		Extensions:      []string{".smc", ".sfc", ".fig", ".swc"},
		ScreenWidth:     screenWidth,
		MaxScreenHeight: screenHeight,
		AspectRatio:     8.0 / 7.0,
		SampleRate:      sampleRate,
		FPS:             fps,
		Buttons: []emucore.Button{
			{Name: "A", ID: buttonA, DefaultKey: "X"},
			{Name: "B", ID: buttonB, DefaultKey: "Z"},
		},
		DataDirName: "pocketsnes",
		CoreName:    "testcore",
		CoreVersion: "1.0",
	}
}

// CreateEmulator creates a core for rom.
func (Factory) CreateEmulator(rom []byte) (emucore.Emulator, error) {
	return New(rom), nil
}

// Core is the test emulator. It implements emucore.Emulator,
// emucore.SaveStater and emucore.BatterySaver.
type Core struct {
	seed  uint32
	frame uint64
	x, y  int32
	phase float64
	input uint32
	sram  []byte

	fb    []byte
	audio []int16
}

// New creates a core for rom.
func New(rom []byte) *Core {
	c := &Core{
		seed:  crc32.ChecksumIEEE(rom),
		sram:  make([]byte, sramSize),
		fb:    make([]byte, screenWidth*4*screenHeight),
		audio: make([]int16, samplesPerFrame*2),
	}
	c.Reset()
	return c
}

// Frame returns the number of frames run since the last reset.
func (c *Core) Frame() uint64 {
	return c.frame
}

// RunFrame advances the core by one frame.
func (c *Core) RunFrame() {
	c.frame++

	if c.input&(1<<emucore.ButtonLeft) != 0 && c.x > 0 {
		c.x--
	}
	if c.input&(1<<emucore.ButtonRight) != 0 && c.x < screenWidth-cursorSize {
		c.x++
	}
	if c.input&(1<<emucore.ButtonUp) != 0 && c.y > 0 {
		c.y--
	}
	if c.input&(1<<emucore.ButtonDown) != 0 && c.y < screenHeight-cursorSize {
		c.y++
	}
	if c.input&(1<<buttonA) != 0 {
		// Mark the cursor position in SRAM so battery saves have content
		c.sram[(int(c.y)*screenWidth+int(c.x))%sramSize]++
	}

	c.render()
	c.mix()
}

func (c *Core) render() {
	shift := byte(c.frame)
	for y := 0; y < screenHeight; y++ {
		row := c.fb[y*screenWidth*4:]
		for x := 0; x < screenWidth; x++ {
			p := row[x*4 : x*4+4]
			p[0] = byte(x) ^ byte(c.seed)
			p[1] = byte(y) + shift
			p[2] = byte(x+y) ^ byte(c.seed>>8)
			p[3] = 0xff
		}
	}

	for y := c.y; y < c.y+cursorSize; y++ {
		for x := c.x; x < c.x+cursorSize; x++ {
			i := (int(y)*screenWidth + int(x)) * 4
			c.fb[i], c.fb[i+1], c.fb[i+2] = 0xff, 0xff, 0xff
		}
	}
}

// mix fills the audio buffer with a quiet tone whose pitch follows the
// cursor height.
func (c *Core) mix() {
	freq := 220.0 + float64(c.y)*2
	step := 2 * math.Pi * freq / sampleRate
	for i := 0; i < samplesPerFrame; i++ {
		v := int16(math.Sin(c.phase) * 2000)
		c.audio[i*2] = v
		c.audio[i*2+1] = v
		c.phase += step
	}
	c.phase = math.Mod(c.phase, 2*math.Pi)
}

// GetFramebuffer returns the current frame as RGBA pixel data.
func (c *Core) GetFramebuffer() []byte { return c.fb }

// GetFramebufferStride returns bytes per row in the framebuffer.
func (c *Core) GetFramebufferStride() int { return screenWidth * 4 }

// GetActiveHeight returns the current active display height in pixels.
func (c *Core) GetActiveHeight() int { return screenHeight }

// GetAudioSamples returns the frame's stereo samples.
func (c *Core) GetAudioSamples() []int16 { return c.audio }

// SetInput sets the player 1 button mask. Other players are ignored.
func (c *Core) SetInput(player int, buttons uint32) {
	if player == 0 {
		c.input = buttons
	}
}

// Reset returns the core to its power-on state. SRAM survives.
func (c *Core) Reset() {
	c.frame = 0
	c.x = (screenWidth - cursorSize) / 2
	c.y = (screenHeight - cursorSize) / 2
	c.phase = 0
	c.input = 0
	c.render()
}

// Close releases nothing; the core holds no external resources.
func (c *Core) Close() {}

// savedState is the serialized form of the core.
type savedState struct {
	Seed  uint32
	Frame uint64
	X, Y  int32
	Phase float64
}

// Serialize captures the complete core state.
func (c *Core) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(stateTag)
	binary.Write(&buf, binary.LittleEndian, uint16(stateVersion))
	s := savedState{Seed: c.seed, Frame: c.frame, X: c.x, Y: c.y, Phase: c.phase}
	if err := binary.Write(&buf, binary.LittleEndian, &s); err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	buf.Write(c.sram)
	return buf.Bytes(), nil
}

// Deserialize restores a state produced by Serialize. The live state is
// untouched on error.
func (c *Core) Deserialize(data []byte) error {
	want := len(stateTag) + 2 + binary.Size(savedState{}) + sramSize
	if len(data) != want || string(data[:len(stateTag)]) != stateTag {
		return ErrBadState
	}

	r := bytes.NewReader(data[len(stateTag):])
	var version uint16
	binary.Read(r, binary.LittleEndian, &version)
	if version != stateVersion {
		return fmt.Errorf("%w: version %d", ErrBadState, version)
	}

	var s savedState
	if err := binary.Read(r, binary.LittleEndian, &s); err != nil {
		return fmt.Errorf("failed to decode state: %w", err)
	}
	if s.Seed != c.seed {
		return fmt.Errorf("%w: state belongs to other content", ErrBadState)
	}
	if s.X < 0 || s.X > screenWidth-cursorSize || s.Y < 0 || s.Y > screenHeight-cursorSize {
		return fmt.Errorf("%w: cursor out of range", ErrBadState)
	}

	c.frame, c.x, c.y, c.phase = s.Frame, s.X, s.Y, s.Phase
	copy(c.sram, data[len(data)-sramSize:])
	c.render()
	return nil
}

// HasSRAM reports whether the core uses battery-backed save.
func (c *Core) HasSRAM() bool { return true }

// GetSRAM returns a copy of the SRAM contents.
func (c *Core) GetSRAM() []byte {
	return append([]byte(nil), c.sram...)
}

// SetSRAM loads SRAM contents.
func (c *Core) SetSRAM(data []byte) {
	copy(c.sram, data)
}

var (
	_ emucore.Emulator     = (*Core)(nil)
	_ emucore.SaveStater   = (*Core)(nil)
	_ emucore.BatterySaver = (*Core)(nil)
	_ emucore.CoreFactory  = Factory{}
)
