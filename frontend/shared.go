package frontend

import (
	"image"
	"sync"

	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

const maxPlayers = 2

// SharedInput holds the held buttons written by the Ebiten thread and read
// by the session goroutine: one game bitmask per player plus the menu
// buttons.
type SharedInput struct {
	mu      sync.Mutex
	buttons [maxPlayers]uint32
	menu    types.Buttons
}

// Set updates the game bitmask for a player.
func (si *SharedInput) Set(player int, buttons uint32) {
	if player < 0 || player >= maxPlayers {
		return
	}
	si.mu.Lock()
	si.buttons[player] = buttons
	si.mu.Unlock()
}

// SetMenu updates the held menu buttons.
func (si *SharedInput) SetMenu(b types.Buttons) {
	si.mu.Lock()
	si.menu = b
	si.mu.Unlock()
}

// Read returns the current game bitmasks for all players.
func (si *SharedInput) Read() [maxPlayers]uint32 {
	si.mu.Lock()
	result := si.buttons
	si.mu.Unlock()
	return result
}

// Menu returns the held menu buttons.
func (si *SharedInput) Menu() types.Buttons {
	si.mu.Lock()
	b := si.menu
	si.mu.Unlock()
	return b
}

// SharedFramebuffer holds the picture written by the session goroutine,
// either an emulator frame or the menu canvas, and read by Ebiten's Draw.
// Writes go to one buffer and Read copies into another so Draw never holds
// the lock while rendering.
type SharedFramebuffer struct {
	mu           sync.Mutex
	writePixels  []byte
	readPixels   []byte
	stride       int
	activeHeight int
}

// NewSharedFramebuffer creates a framebuffer large enough for the given
// width and height in pixels.
func NewSharedFramebuffer(width, height int) *SharedFramebuffer {
	size := width * height * 4
	return &SharedFramebuffer{
		writePixels: make([]byte, size),
		readPixels:  make([]byte, size),
	}
}

// Update copies a frame in. Frames larger than the buffer are truncated.
func (sf *SharedFramebuffer) Update(pixels []byte, stride, activeHeight int) {
	sf.mu.Lock()
	n := min(stride*activeHeight, len(sf.writePixels), len(pixels))
	copy(sf.writePixels[:n], pixels[:n])
	sf.stride = stride
	sf.activeHeight = min(activeHeight, n/max(stride, 1))
	sf.mu.Unlock()
}

// Read returns a snapshot of the current frame. The returned slice stays
// valid until the next Read.
func (sf *SharedFramebuffer) Read() (pixels []byte, stride, activeHeight int) {
	sf.mu.Lock()
	stride = sf.stride
	activeHeight = sf.activeHeight
	n := stride * activeHeight
	if n > 0 {
		copy(sf.readPixels[:n], sf.writePixels[:n])
	}
	pixels = sf.readPixels[:n]
	sf.mu.Unlock()
	return
}

// Image returns a copy of the current frame, nil before the first Update.
func (sf *SharedFramebuffer) Image() *image.RGBA {
	sf.mu.Lock()
	defer sf.mu.Unlock()

	if sf.stride < 4 || sf.activeHeight <= 0 {
		return nil
	}
	n := sf.stride * sf.activeHeight
	img := &image.RGBA{
		Pix:    make([]byte, n),
		Stride: sf.stride,
		Rect:   image.Rect(0, 0, sf.stride/4, sf.activeHeight),
	}
	copy(img.Pix, sf.writePixels[:n])
	return img
}
