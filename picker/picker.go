// Package picker implements the save-state slot picker: a ten-slot selector
// that can preview a slot by resuming the emulator from it for one frame,
// then save, load or delete it, without ever losing the state the user had
// when the picker opened.
package picker

import (
	"errors"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/neighbor-bear/pocketsnes-RetroGame/savestate"
	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// Picker is the slot selector state machine. It is driven by calling Update
// once per tick and rendered by Draw.
type Picker struct {
	sess  *Session
	fs    savestate.FileSystem
	mode  Mode
	state State

	cursor int // -1..9, -1 means no slot / exiting
	smooth int // cursor<<8, eased toward the cursor for the selection bar

	pending  action
	preview  *image.RGBA
	errTitle string
	errText  string
	result   Result
}

// New opens the picker for the session's content. The live state is
// captured into the scratch snapshot and the slot directory is scanned
// before the first Update.
func New(sess *Session, mode Mode) (*Picker, error) {
	if err := sess.validate(); err != nil {
		return nil, err
	}

	fs := sess.FS
	if fs == nil {
		fs = savestate.OSFileSystem{}
	}
	if err := fs.MkdirAll(sess.Slots.Dir()); err != nil {
		return nil, fmt.Errorf("failed to create save directory: %w", err)
	}

	// Lets the picker back out of a preview. A snapshot left behind by an
	// earlier run must never be restored, even if this capture fails.
	if err := sess.Snapshot.Discard(); err != nil {
		log.Printf("Warning: failed to remove %s: %v", sess.Snapshot.Path(), err)
	}
	if err := sess.Snapshot.Capture(); err != nil {
		log.Printf("Warning: %v", err)
	}
	sess.Slots.Rescan(sess.ContentID)

	cursor := sess.Slot
	if cursor < 0 || cursor >= savestate.SlotCount {
		cursor = 0
	}

	return &Picker{
		sess:    sess,
		fs:      fs,
		mode:    mode,
		state:   StateNavigate,
		cursor:  cursor,
		smooth:  cursor << 8,
		pending: actionFor(mode),
	}, nil
}

// Mode returns the mode the picker was opened with.
func (p *Picker) Mode() Mode {
	return p.mode
}

// State returns the current state.
func (p *Picker) State() State {
	return p.state
}

// Cursor returns the selected slot, or -1 once the picker was cancelled.
func (p *Picker) Cursor() int {
	return p.cursor
}

// Done reports whether the picker has terminated.
func (p *Picker) Done() bool {
	return p.state == StateTerminate
}

// Result returns how the picker ended, ResultNone while it is running.
func (p *Picker) Result() Result {
	return p.result
}

// ErrorText returns the error shown by the error states.
func (p *Picker) ErrorText() string {
	return p.errText
}

// Previewing reports whether the session is running a preview frame.
func (p *Picker) Previewing() bool {
	return p.sess.previewing
}

// Cancel terminates the picker as if the user backed out.
func (p *Picker) Cancel() {
	if p.state != StateTerminate {
		p.finish(ResultCancelled)
	}
}

// Update advances the picker by at most one transition. b holds the
// buttons pressed this tick.
func (p *Picker) Update(b types.Buttons) {
	if p.state == StateTerminate {
		return
	}

	p.smooth = ease(p.smooth, p.cursor<<8)

	switch p.state {
	case StateNavigate:
		p.navigate(b)
	case StateDispatch:
		p.dispatch()
	case StatePreview:
		p.runPreview()
	case StateShowPreview:
		p.confirm(b)
	case StatePerformAction:
		p.perform()
	case StateShowLoadError, StateShowSaveError:
		if b != 0 {
			p.state = StateNavigate
		}
	}
}

func (p *Picker) navigate(b types.Buttons) {
	switch {
	case b.Has(types.ButtonCancel):
		p.finish(ResultCancelled)
	case b.Has(types.ButtonConfirm):
		if p.cursor < 0 {
			p.finish(ResultCancelled)
			return
		}
		p.pending = actionFor(p.mode)
		p.state = StateDispatch
	case b.Has(types.ButtonDelete) && p.mode == ModeSave && p.cursor >= 0:
		p.pending = actionDelete
		p.state = StateDispatch
	case b.Has(types.ButtonUp | types.ButtonLeft):
		p.previousSlot()
	case b.Has(types.ButtonDown | types.ButtonRight):
		p.nextSlot()
	}
}

func (p *Picker) previousSlot() {
	p.cursor--
	if p.cursor < 0 {
		p.cursor = savestate.SlotCount - 1
	}
}

func (p *Picker) nextSlot() {
	p.cursor++
	if p.cursor >= savestate.SlotCount {
		p.cursor = 0
	}
}

func (p *Picker) dispatch() {
	slot, _ := p.sess.Slots.Slot(p.cursor)
	switch {
	case slot.Occupied:
		p.state = StatePreview
	case p.pending == actionSave:
		// Nothing to overwrite, no confirmation needed
		p.state = StatePerformAction
	default:
		p.state = StateNavigate
	}
}

// runPreview resumes the emulator from the selected slot for one frame.
// The scratch snapshot is restored first so an earlier preview never
// carries over into this one.
func (p *Picker) runPreview() {
	p.restoreSnapshot()
	p.errTitle, p.errText = "", ""

	slot, _ := p.sess.Slots.Slot(p.cursor)
	if err := p.sess.Codec.LoadState(slot.Path); err != nil {
		if p.pending == actionLoad {
			p.fail(StateShowLoadError, "Previewing failed", err)
			return
		}
		// An unreadable slot can still be overwritten or deleted.
		log.Printf("Previewing failed: %v", err)
		p.errTitle = "Previewing failed"
		p.errText = SystemErrorText(err)
		p.preview = nil
		p.state = StateShowPreview
		return
	}

	p.preview = p.runFrame()
	p.state = StateShowPreview
}

// runFrame runs the core for a single frame with audio muted and returns a
// copy of the resulting picture.
func (p *Picker) runFrame() *image.RGBA {
	p.sess.previewing = true
	if p.sess.Audio != nil {
		p.sess.Audio.SetMuted(true)
	}
	defer func() {
		if p.sess.Audio != nil {
			p.sess.Audio.SetMuted(false)
		}
		p.sess.previewing = false
	}()

	p.sess.Core.RunFrame()

	return copyFrame(
		p.sess.Core.GetFramebuffer(),
		p.sess.Core.GetFramebufferStride(),
		p.sess.Core.GetActiveHeight(),
	)
}

func (p *Picker) confirm(b types.Buttons) {
	switch {
	case b.Has(types.ButtonCancel):
		p.preview = nil
		p.state = StateNavigate
	case b.Has(types.ButtonConfirm):
		p.state = StatePerformAction
	}
}

func (p *Picker) perform() {
	slot, _ := p.sess.Slots.Slot(p.cursor)
	p.preview = nil

	switch p.pending {
	case actionSave:
		// A preview may be live; the slot must get the pre-picker state.
		p.restoreSnapshot()
		if err := p.sess.Codec.SaveState(slot.Path); err != nil {
			p.fail(StateShowSaveError, "Saving failed", err)
			return
		}
		p.sess.Slots.SetOccupied(p.cursor, true)
		p.state = StateNavigate

	case actionLoad:
		if err := p.sess.Codec.LoadState(slot.Path); err != nil {
			p.fail(StateShowLoadError, "Loading failed", err)
			return
		}
		p.finish(ResultLoaded)

	case actionDelete:
		if err := p.fs.Remove(slot.Path); err != nil {
			log.Printf("Failed to delete saved state at %s: %v", slot.Path, err)
			p.sess.Slots.Refresh(p.cursor)
		} else {
			p.sess.Slots.SetOccupied(p.cursor, false)
		}
		p.state = StateNavigate
	}
}

// finish runs the exit protocol: unless a slot was loaded the pre-picker
// state is restored, and the scratch snapshot is always removed.
func (p *Picker) finish(result Result) {
	if result != ResultLoaded {
		p.restoreSnapshot()
	}
	if err := p.sess.Snapshot.Discard(); err != nil {
		log.Printf("Warning: failed to remove %s: %v", p.sess.Snapshot.Path(), err)
	}

	if p.cursor >= 0 {
		p.sess.Slot = p.cursor
	}
	if result == ResultCancelled {
		p.cursor = -1
	}

	p.preview = nil
	p.result = result
	p.state = StateTerminate
}

// restoreSnapshot puts the pre-picker state back. Failures are logged only
// so a filesystem hiccup cannot lock the user out of the picker.
func (p *Picker) restoreSnapshot() {
	if err := p.sess.Snapshot.Restore(); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (p *Picker) fail(state State, title string, err error) {
	log.Printf("%s: %v", title, err)
	p.errTitle = title
	p.errText = SystemErrorText(err)
	p.state = state
}

// SystemErrorText strips the context prefixes from err and returns its
// cause, which for filesystem failures is the operating system's message.
// Unwrapping stops at an error that adds detail after its cause, such as a
// version number.
func SystemErrorText(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil || !strings.HasSuffix(err.Error(), next.Error()) {
			return err.Error()
		}
		err = next
	}
}

// ease moves s an eighth of the way to target and snaps to it once the
// step rounds away.
func ease(s, target int) int {
	d := target - s
	if d > -8 && d < 8 {
		return target
	}
	return s + d/8
}

// copyFrame copies an RGBA framebuffer into a standalone image.
func copyFrame(pixels []byte, stride, activeHeight int) *image.RGBA {
	if stride < 4 || activeHeight <= 0 {
		return nil
	}
	n := stride * activeHeight
	if len(pixels) < n {
		return nil
	}

	img := &image.RGBA{
		Pix:    make([]byte, n),
		Stride: stride,
		Rect:   image.Rect(0, 0, stride/4, activeHeight),
	}
	copy(img.Pix, pixels[:n])
	return img
}
