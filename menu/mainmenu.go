// Package menu implements the front-end's main menu.
package menu

import (
	"image/color"

	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// Option represents a menu option
type Option int

const (
	OptionResume Option = iota
	OptionLoadState
	OptionSaveState
	OptionDeleteState
	OptionReset
	OptionExit
	OptionCount
)

// String returns the label shown for the option
func (o Option) String() string {
	switch o {
	case OptionResume:
		return "Resume"
	case OptionLoadState:
		return "Load state"
	case OptionSaveState:
		return "Save state"
	case OptionDeleteState:
		return "Delete state"
	case OptionReset:
		return "Reset"
	case OptionExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// needsContent reports whether the option is disabled with nothing loaded.
func (o Option) needsContent() bool {
	return o != OptionExit
}

// Callbacks are invoked after the menu hides itself for the chosen option.
type Callbacks struct {
	OnResume      func()
	OnLoadState   func()
	OnSaveState   func()
	OnDeleteState func()
	OnReset       func()
	OnExit        func()
}

// MainMenu handles the main menu
type MainMenu struct {
	visible       bool
	selectedIndex int
	smooth        int // selectedIndex<<8, eased for the focus bar
	hasContent    bool
	callbacks     Callbacks
}

// NewMainMenu creates a new main menu
func NewMainMenu(callbacks Callbacks) *MainMenu {
	return &MainMenu{callbacks: callbacks}
}

// Show displays the menu. Focus starts on Resume, or on the first enabled
// option when no content is loaded.
func (m *MainMenu) Show(hasContent bool) {
	m.visible = true
	m.hasContent = hasContent
	m.selectedIndex = int(OptionResume)
	if !m.enabled(OptionResume) {
		m.move(1)
	}
	m.smooth = m.selectedIndex << 8
}

// Hide hides the menu
func (m *MainMenu) Hide() {
	m.visible = false
}

// IsVisible returns whether the menu is visible
func (m *MainMenu) IsVisible() bool {
	return m.visible
}

// Selected returns the focused option
func (m *MainMenu) Selected() Option {
	return Option(m.selectedIndex)
}

func (m *MainMenu) enabled(o Option) bool {
	return m.hasContent || !o.needsContent()
}

// move steps the focus by dir, wrapping and skipping disabled options.
func (m *MainMenu) move(dir int) {
	for i := 0; i < int(OptionCount); i++ {
		m.selectedIndex = (m.selectedIndex + dir + int(OptionCount)) % int(OptionCount)
		if m.enabled(Option(m.selectedIndex)) {
			return
		}
	}
}

// Update handles one tick of input
func (m *MainMenu) Update(b types.Buttons) {
	if !m.visible {
		return
	}

	m.smooth = ease(m.smooth, m.selectedIndex<<8)

	switch {
	case b.Has(types.ButtonCancel) || b.Has(types.ButtonMenu):
		// Backing out resumes the loaded game
		if m.hasContent {
			m.selectedIndex = int(OptionResume)
			m.handleSelect()
		}
	case b.Has(types.ButtonConfirm):
		m.handleSelect()
	case b.Has(types.ButtonUp):
		m.move(-1)
	case b.Has(types.ButtonDown):
		m.move(1)
	}
}

// handleSelect processes the current selection
func (m *MainMenu) handleSelect() {
	option := Option(m.selectedIndex)
	if !m.enabled(option) {
		return
	}

	var cb func()
	switch option {
	case OptionResume:
		cb = m.callbacks.OnResume
	case OptionLoadState:
		cb = m.callbacks.OnLoadState
	case OptionSaveState:
		cb = m.callbacks.OnSaveState
	case OptionDeleteState:
		cb = m.callbacks.OnDeleteState
	case OptionReset:
		cb = m.callbacks.OnReset
	case OptionExit:
		cb = m.callbacks.OnExit
	}

	m.Hide()
	if cb != nil {
		cb()
	}
}

var (
	colorBackground = color.NRGBA{0x10, 0x10, 0x18, 0xff}
	colorTitleBar   = color.NRGBA{0x30, 0x30, 0x50, 0xff}
	colorFocus      = color.NRGBA{0xb5, 0x00, 0x00, 0xff}
	colorText       = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	colorDisabled   = color.NRGBA{0x70, 0x70, 0x80, 0xff}
)

const (
	titleHeight = 16
	itemHeight  = 20
	menuTop     = 48
)

// Draw renders the menu
func (m *MainMenu) Draw(d types.Display, title string) {
	if !m.visible {
		return
	}

	w, _ := d.Size()
	d.Clear(colorBackground)

	d.DrawRect(0, 0, w, titleHeight, colorTitleBar)
	d.DrawText((w-d.TextWidth(title))/2, 2, title, colorText)

	// Focus bar slides toward the selected row
	d.DrawRect(0, menuTop+m.smooth*itemHeight/256, w, itemHeight, colorFocus)

	for i := 0; i < int(OptionCount); i++ {
		o := Option(i)
		c := colorText
		if !m.enabled(o) {
			c = colorDisabled
		}
		label := o.String()
		d.DrawText((w-d.TextWidth(label))/2, menuTop+i*itemHeight+5, label, c)
	}
}

// ease moves s an eighth of the way to target, snapping once close.
func ease(s, target int) int {
	d := target - s
	if d > -8 && d < 8 {
		return target
	}
	return s + d/8
}
