package picker

import (
	"fmt"
	"image"
	"image/color"

	"github.com/neighbor-bear/pocketsnes-RetroGame/savestate"
	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// Colors
var (
	colorBackground = color.NRGBA{0x10, 0x10, 0x18, 0xff}
	colorTitleBar   = color.NRGBA{0x30, 0x30, 0x50, 0xff}
	colorSlotBar    = color.NRGBA{0xb5, 0x00, 0x00, 0xff}
	colorText       = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	colorError      = color.NRGBA{0xff, 0x42, 0x42, 0xff}
	colorCellUsed   = color.NRGBA{0x4a, 0x4a, 0x8a, 0xff}
	colorCellFree   = color.NRGBA{0x25, 0x25, 0x3a, 0xff}
	colorCursor     = color.NRGBA{0xff, 0xd7, 0x00, 0xff}
)

// Prompts
const (
	textTitle     = "Choose a slot"
	textPreview   = "Press A to preview"
	textSave      = "Press A to save"
	textLoad      = "Press A to load this save"
	textDelete    = "Press A to delete this save"
	textOverwrite = "Press A to overwrite this save"
	textDeleteKey = "Press X to delete this save"
	textBack      = "B: back"
	textAnyButton = "Press any button"
)

// Layout
const (
	barHeight   = 16
	stripTop    = 40
	stripHeight = 20
	margin      = 8
	lineHeight  = 14
	bottomBar   = 34
)

// Draw renders the picker. It only reads picker state.
func (p *Picker) Draw(d types.Display) {
	w, h := d.Size()
	d.Clear(colorBackground)

	d.DrawRect(0, 0, w, barHeight, colorTitleBar)
	drawCentered(d, w, 2, textTitle, colorText)

	if p.cursor >= 0 {
		d.DrawRect(0, barHeight, w, barHeight, colorSlotBar)
		drawCentered(d, w, barHeight+2, fmt.Sprintf("SLOT %d", p.cursor), colorText)
	}

	p.drawStrip(d, w)

	statusY := h / 2
	slot, _ := p.sess.Slots.Slot(p.cursor)

	switch p.state {
	case StateNavigate:
		if p.cursor < 0 {
			break
		}
		if slot.Occupied {
			drawCentered(d, w, statusY, "Slot used", colorText)
			drawCentered(d, w, statusY+2*lineHeight, textPreview, colorText)
			if p.mode == ModeSave {
				drawCentered(d, w, statusY+3*lineHeight, textDeleteKey, colorText)
			}
		} else {
			drawCentered(d, w, statusY, "FREE", colorText)
			if p.mode == ModeSave {
				drawCentered(d, w, statusY+2*lineHeight, textSave, colorText)
			}
		}

	case StateDispatch:
		drawCentered(d, w, statusY, "Checking...", colorText)

	case StatePreview:
		drawCentered(d, w, statusY, "Previewing...", colorText)

	case StateShowPreview:
		if p.preview != nil {
			d.DrawBitmap(p.preview, previewRect(p.preview.Bounds(), w, h))
		} else if p.errTitle != "" {
			drawCentered(d, w, statusY, p.errTitle, colorError)
			drawCentered(d, w, statusY+lineHeight, p.errText, colorError)
		}
		d.DrawRect(0, h-bottomBar, w, bottomBar, colorSlotBar)
		drawCentered(d, w, h-bottomBar+3, p.prompt(), colorText)
		drawCentered(d, w, h-bottomBar+3+lineHeight, textBack, colorText)

	case StatePerformAction:
		drawCentered(d, w, statusY, p.progressText(), colorText)

	case StateShowLoadError, StateShowSaveError:
		drawCentered(d, w, statusY, p.errTitle, colorError)
		drawCentered(d, w, statusY+lineHeight, p.errText, colorError)
		drawCentered(d, w, h-bottomBar+3, textAnyButton, colorText)
	}
}

// drawStrip draws the ten slots as cells with the eased selection marker.
func (p *Picker) drawStrip(d types.Display, w int) {
	cellW := (w - 2*margin) / savestate.SlotCount
	if cellW <= 0 {
		return
	}

	if p.cursor >= 0 {
		x := margin + p.smooth*cellW/256
		d.DrawRect(x, stripTop-2, cellW, stripHeight+4, colorCursor)
	}

	for i := 0; i < savestate.SlotCount; i++ {
		c := colorCellFree
		if slot, _ := p.sess.Slots.Slot(i); slot.Occupied {
			c = colorCellUsed
		}
		x := margin + i*cellW
		d.DrawRect(x+1, stripTop, cellW-2, stripHeight, c)

		label := fmt.Sprintf("%d", i)
		d.DrawText(x+(cellW-d.TextWidth(label))/2, stripTop+4, label, colorText)
	}
}

func (p *Picker) prompt() string {
	switch p.pending {
	case actionLoad:
		return textLoad
	case actionDelete:
		return textDelete
	default:
		return textOverwrite
	}
}

func (p *Picker) progressText() string {
	switch p.pending {
	case actionLoad:
		return "Loading..."
	case actionDelete:
		return "Deleting..."
	default:
		return "Saving..."
	}
}

// previewRect fits the frame between the slot strip and the bottom bar,
// keeping its aspect ratio.
func previewRect(src image.Rectangle, w, h int) image.Rectangle {
	top := stripTop + stripHeight + margin
	availW := w - 2*margin
	availH := h - bottomBar - margin - top
	if src.Dx() <= 0 || src.Dy() <= 0 || availW <= 0 || availH <= 0 {
		return image.Rectangle{}
	}

	dw := availW
	dh := src.Dy() * dw / src.Dx()
	if dh > availH {
		dh = availH
		dw = src.Dx() * dh / src.Dy()
	}

	x := (w - dw) / 2
	y := top + (availH-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}

func drawCentered(d types.Display, w, y int, s string, c color.Color) {
	d.DrawText((w-d.TextWidth(s))/2, y, s, c)
}
