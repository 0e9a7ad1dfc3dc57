// Package types provides the button bitmask and the drawing/input interfaces
// shared by the menu, the slot picker, and the platform frontends.
// This package exists to avoid import cycles between them.
package types

import (
	"image"
	"image/color"
)

// Buttons is a bitmask of menu buttons pressed (or auto-repeated) this tick.
type Buttons uint32

// Menu buttons
const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonConfirm // A / Enter
	ButtonCancel  // B / Backspace
	ButtonDelete  // X / Delete
	ButtonMenu    // Start / Escape
)

// Has reports whether any of the buttons in b are set.
func (bs Buttons) Has(b Buttons) bool {
	return bs&b != 0
}

// Display is the framebuffer drawing surface. Coordinates are in logical
// pixels with the origin at the top-left.
type Display interface {
	// Size returns the logical width and height.
	Size() (width, height int)

	// Clear fills the whole surface.
	Clear(c color.Color)

	// DrawText draws a single line of text with its top-left corner at x, y.
	DrawText(x, y int, s string, c color.Color)

	// TextWidth returns the width in pixels DrawText would use for s.
	TextWidth(s string) int

	// DrawRect fills a rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawBitmap scales src into dst.
	DrawBitmap(src image.Image, dst image.Rectangle)
}

// Platform is the polled input device plus the surface it presents.
type Platform interface {
	// PollInput returns the buttons newly pressed or repeating this tick.
	PollInput() Buttons

	// Display returns the surface to draw the next frame on.
	Display() Display

	// Present shows the drawn frame.
	Present() error
}
