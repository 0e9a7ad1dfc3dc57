package frontend

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// keyNameMap maps short key name strings to ebiten.Key values.
var keyNameMap = map[string]ebiten.Key{
	"A":          ebiten.KeyA,
	"B":          ebiten.KeyB,
	"C":          ebiten.KeyC,
	"D":          ebiten.KeyD,
	"E":          ebiten.KeyE,
	"F":          ebiten.KeyF,
	"G":          ebiten.KeyG,
	"H":          ebiten.KeyH,
	"I":          ebiten.KeyI,
	"J":          ebiten.KeyJ,
	"K":          ebiten.KeyK,
	"L":          ebiten.KeyL,
	"M":          ebiten.KeyM,
	"N":          ebiten.KeyN,
	"O":          ebiten.KeyO,
	"P":          ebiten.KeyP,
	"Q":          ebiten.KeyQ,
	"R":          ebiten.KeyR,
	"S":          ebiten.KeyS,
	"T":          ebiten.KeyT,
	"U":          ebiten.KeyU,
	"V":          ebiten.KeyV,
	"W":          ebiten.KeyW,
	"X":          ebiten.KeyX,
	"Y":          ebiten.KeyY,
	"Z":          ebiten.KeyZ,
	"0":          ebiten.Key0,
	"1":          ebiten.Key1,
	"2":          ebiten.Key2,
	"3":          ebiten.Key3,
	"4":          ebiten.Key4,
	"5":          ebiten.Key5,
	"6":          ebiten.Key6,
	"7":          ebiten.Key7,
	"8":          ebiten.Key8,
	"9":          ebiten.Key9,
	"Enter":      ebiten.KeyEnter,
	"Backspace":  ebiten.KeyBackspace,
	"Delete":     ebiten.KeyDelete,
	"Home":       ebiten.KeyHome,
	"Space":      ebiten.KeySpace,
	"Tab":        ebiten.KeyTab,
	"Escape":     ebiten.KeyEscape,
	"Shift":      ebiten.KeyShift,
	"ArrowUp":    ebiten.KeyArrowUp,
	"ArrowDown":  ebiten.KeyArrowDown,
	"ArrowLeft":  ebiten.KeyArrowLeft,
	"ArrowRight": ebiten.KeyArrowRight,
	"F11":        ebiten.KeyF11,
	"F12":        ebiten.KeyF12,
}

// padNameMap maps gamepad button name strings to ebiten StandardGamepadButton values.
var padNameMap = map[string]ebiten.StandardGamepadButton{
	"A":         ebiten.StandardGamepadButtonRightBottom,
	"B":         ebiten.StandardGamepadButtonRightRight,
	"X":         ebiten.StandardGamepadButtonRightLeft,
	"Y":         ebiten.StandardGamepadButtonRightTop,
	"L1":        ebiten.StandardGamepadButtonFrontTopLeft,
	"R1":        ebiten.StandardGamepadButtonFrontTopRight,
	"Start":     ebiten.StandardGamepadButtonCenterRight,
	"Select":    ebiten.StandardGamepadButtonCenterLeft,
	"DpadUp":    ebiten.StandardGamepadButtonLeftTop,
	"DpadDown":  ebiten.StandardGamepadButtonLeftBottom,
	"DpadLeft":  ebiten.StandardGamepadButtonLeftLeft,
	"DpadRight": ebiten.StandardGamepadButtonLeftRight,
}

// reservedKeys are handled by the window itself and cannot be bound.
var reservedKeys = map[ebiten.Key]bool{
	ebiten.KeyEscape:  true, // Main menu
	ebiten.KeyF11:     true, // Fullscreen
	ebiten.KeyF12:     true, // Screenshot
	ebiten.KeyControl: true,
	ebiten.KeyMeta:    true,
}

// ParseKey converts a key name string to an ebiten.Key.
func ParseKey(name string) (ebiten.Key, bool) {
	k, ok := keyNameMap[name]
	return k, ok
}

// ParsePad converts a gamepad button name string to an ebiten.StandardGamepadButton.
func ParsePad(name string) (ebiten.StandardGamepadButton, bool) {
	b, ok := padNameMap[name]
	return b, ok
}

// ValidKeyNames returns the key names accepted in keyboard overrides.
func ValidKeyNames() map[string]bool {
	valid := make(map[string]bool, len(keyNameMap))
	for name, k := range keyNameMap {
		if !reservedKeys[k] {
			valid[name] = true
		}
	}
	return valid
}

// menuAction is one menu button with its default bindings. The direction
// actions also drive the game d-pad.
type menuAction struct {
	Name       string
	Button     types.Buttons
	DefaultKey string
	DefaultPad string
	DpadBit    int // -1 for non-direction actions
}

var menuActions = []menuAction{
	{"Up", types.ButtonUp, "ArrowUp", "DpadUp", emucore.ButtonUp},
	{"Down", types.ButtonDown, "ArrowDown", "DpadDown", emucore.ButtonDown},
	{"Left", types.ButtonLeft, "ArrowLeft", "DpadLeft", emucore.ButtonLeft},
	{"Right", types.ButtonRight, "ArrowRight", "DpadRight", emucore.ButtonRight},
	{"Confirm", types.ButtonConfirm, "Enter", "A", -1},
	{"Cancel", types.ButtonCancel, "Backspace", "B", -1},
	{"Delete", types.ButtonDelete, "Delete", "X", -1},
	{"Menu", types.ButtonMenu, "Escape", "Start", -1},
}

// binding is the keys and pad buttons that set one bit.
type binding struct {
	keys []ebiten.Key
	pads []ebiten.StandardGamepadButton
}

// InputMapping holds the menu bindings and the game bindings of player one.
type InputMapping struct {
	Menu map[types.Buttons]binding
	Game map[int]binding // bit ID -> binding
}

// BuildMapping creates an InputMapping for a core's buttons. Overrides map
// an action or button name to a key name; unknown or reserved overrides fall
// back to the default. The menu action always keeps Escape.
func BuildMapping(buttons []emucore.Button, overrides map[string]string) InputMapping {
	m := InputMapping{
		Menu: make(map[types.Buttons]binding),
		Game: make(map[int]binding),
	}

	for _, a := range menuActions {
		var b binding
		if k, ok := resolveKey(a.Name, a.DefaultKey, overrides); ok {
			b.keys = append(b.keys, k)
		}
		if a.Button == types.ButtonMenu && !containsKey(b.keys, ebiten.KeyEscape) {
			b.keys = append(b.keys, ebiten.KeyEscape)
		}
		if p, ok := ParsePad(a.DefaultPad); ok {
			b.pads = append(b.pads, p)
		}
		m.Menu[a.Button] = b
		if a.DpadBit >= 0 {
			m.Game[a.DpadBit] = b
		}
	}

	for _, btn := range buttons {
		var b binding
		if k, ok := resolveKey(btn.Name, btn.DefaultKey, overrides); ok {
			b.keys = append(b.keys, k)
		}
		if p, ok := ParsePad(btn.Name); ok {
			b.pads = append(b.pads, p)
		}
		m.Game[btn.ID] = b
	}

	return m
}

// resolveKey picks the override for name if it is valid, else the default.
func resolveKey(name, defaultKey string, overrides map[string]string) (ebiten.Key, bool) {
	if override, ok := overrides[name]; ok {
		if k, ok := ParseKey(override); ok && !reservedKeys[k] {
			return k, true
		}
	}
	k, ok := ParseKey(defaultKey)
	return k, ok
}

func containsKey(keys []ebiten.Key, k ebiten.Key) bool {
	for _, key := range keys {
		if key == k {
			return true
		}
	}
	return false
}

// inputSource is the keyboard and first gamepad.
type inputSource interface {
	IsKeyPressed(k ebiten.Key) bool
	IsPadPressed(b ebiten.StandardGamepadButton) bool
}

// pressed reports whether any key or pad button of the binding is held.
func (b binding) pressed(src inputSource) bool {
	for _, k := range b.keys {
		if src.IsKeyPressed(k) {
			return true
		}
	}
	for _, p := range b.pads {
		if src.IsPadPressed(p) {
			return true
		}
	}
	return false
}

// PollMenu returns the held menu buttons.
func (m InputMapping) PollMenu(src inputSource) types.Buttons {
	var held types.Buttons
	for button, b := range m.Menu {
		if b.pressed(src) {
			held |= button
		}
	}
	return held
}

// PollGame returns the held game buttons as a bitmask.
func (m InputMapping) PollGame(src inputSource) uint32 {
	var buttons uint32
	for bitID, b := range m.Game {
		if b.pressed(src) {
			buttons |= 1 << uint(bitID)
		}
	}
	return buttons
}

// KeyNames returns the bound key names of a menu button, sorted.
func (m InputMapping) KeyNames(button types.Buttons) []string {
	var names []string
	for _, k := range m.Menu[button].keys {
		for name, key := range keyNameMap {
			if key == k {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// ebitenSource reads the real keyboard and the first connected gamepad,
// with the left stick acting as the d-pad.
type ebitenSource struct {
	gamepadIDs []ebiten.GamepadID
}

func (s *ebitenSource) refresh() {
	s.gamepadIDs = ebiten.AppendGamepadIDs(s.gamepadIDs[:0])
}

func (s *ebitenSource) IsKeyPressed(k ebiten.Key) bool {
	return ebiten.IsKeyPressed(k)
}

func (s *ebitenSource) IsPadPressed(b ebiten.StandardGamepadButton) bool {
	if len(s.gamepadIDs) == 0 {
		return false
	}
	id := s.gamepadIDs[0]
	if ebiten.IsStandardGamepadButtonPressed(id, b) {
		return true
	}

	switch b {
	case ebiten.StandardGamepadButtonLeftTop:
		return ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical) < -0.5
	case ebiten.StandardGamepadButtonLeftBottom:
		return ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical) > 0.5
	case ebiten.StandardGamepadButtonLeftLeft:
		return ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal) < -0.5
	case ebiten.StandardGamepadButtonLeftRight:
		return ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal) > 0.5
	}
	return false
}
