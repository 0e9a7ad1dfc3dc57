package picker

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/neighbor-bear/pocketsnes-RetroGame/savestate"
	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// fakeCore is a tiny emulator whose whole state is a frame counter.
type fakeCore struct {
	frame      uint32
	runs       int
	fb         []byte
	onRunFrame func()
}

func newFakeCore(frame uint32) *fakeCore {
	return &fakeCore{frame: frame, fb: make([]byte, 8*4*6)}
}

func (c *fakeCore) RunFrame() {
	if c.onRunFrame != nil {
		c.onRunFrame()
	}
	c.frame++
	c.runs++
	for i := range c.fb {
		c.fb[i] = byte(c.frame)
	}
}

func (c *fakeCore) GetFramebuffer() []byte    { return c.fb }
func (c *fakeCore) GetFramebufferStride() int { return 8 * 4 }
func (c *fakeCore) GetActiveHeight() int      { return 6 }

func (c *fakeCore) Serialize() ([]byte, error) {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, c.frame)
	return data, nil
}

func (c *fakeCore) Deserialize(data []byte) error {
	if len(data) != 4 {
		return fmt.Errorf("bad state size %d", len(data))
	}
	c.frame = binary.LittleEndian.Uint32(data)
	return nil
}

// failingCodec fails LoadState or SaveState for chosen paths.
type failingCodec struct {
	savestate.Codec
	loadErr map[string]error
	saveErr map[string]error
}

func (f *failingCodec) LoadState(path string) error {
	if err := f.loadErr[path]; err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}
	return f.Codec.LoadState(path)
}

func (f *failingCodec) SaveState(path string) error {
	if err := f.saveErr[path]; err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return f.Codec.SaveState(path)
}

type fakeMuter struct {
	calls []bool
}

func (m *fakeMuter) SetMuted(muted bool) {
	m.calls = append(m.calls, muted)
}

const testContent = "/roms/game.rom"

func newTestSession(t *testing.T, frame uint32) (*Session, *fakeCore) {
	t.Helper()
	saveDir := filepath.Join(t.TempDir(), "saves")
	core := newFakeCore(frame)
	sess := NewSession(testContent, saveDir, t.TempDir(), savestate.NewFileCodec(core), core)
	return sess, core
}

// writeSlot stores a state with the given frame counter in slot i without
// changing the core's live state.
func writeSlot(t *testing.T, sess *Session, core *fakeCore, i int, frame uint32) string {
	t.Helper()
	path := savestate.SlotPath(sess.Slots.Dir(), sess.ContentID, i)
	live := core.frame
	core.frame = frame
	if err := savestate.NewFileCodec(core).SaveState(path); err != nil {
		t.Fatal(err)
	}
	core.frame = live
	sess.Slots.Invalidate()
	return path
}

// slotFrame reads the frame counter stored in a slot file.
func slotFrame(t *testing.T, path string) uint32 {
	t.Helper()
	probe := newFakeCore(0)
	if err := savestate.NewFileCodec(probe).LoadState(path); err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return probe.frame
}

// press feeds one tick of input, then idles until the picker waits for input.
func press(p *Picker, b types.Buttons) {
	p.Update(b)
	for i := 0; i < 10 && !p.Done() && !p.State().waitsForInput(); i++ {
		p.Update(0)
	}
}

func moveTo(p *Picker, slot int) {
	for p.Cursor() != slot {
		press(p, types.ButtonDown)
	}
}

func TestNewRequiresContent(t *testing.T) {
	if _, err := New(nil, ModeLoad); !errors.Is(err, ErrNoContent) {
		t.Errorf("nil session: got %v, want ErrNoContent", err)
	}

	sess, _ := newTestSession(t, 0)
	sess.ContentID = ""
	if _, err := New(sess, ModeLoad); !errors.Is(err, ErrNoContent) {
		t.Errorf("empty content: got %v, want ErrNoContent", err)
	}
	if sess.Snapshot.Exists() {
		t.Error("no snapshot should be taken when the picker refuses to open")
	}
}

func TestNewSaveDirFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	os.WriteFile(blocker, []byte("x"), 0644)

	core := newFakeCore(0)
	sess := NewSession(testContent, filepath.Join(blocker, "saves"), t.TempDir(), savestate.NewFileCodec(core), core)

	if _, err := New(sess, ModeSave); err == nil {
		t.Fatal("expected an error when the save directory cannot be created")
	}
}

func TestNewCapturesSnapshotAndScans(t *testing.T) {
	sess, core := newTestSession(t, 7)
	writeSlot(t, sess, core, 6, 66)

	p, err := New(sess, ModeLoad)
	if err != nil {
		t.Fatal(err)
	}

	if p.State() != StateNavigate {
		t.Errorf("initial state = %v, want Navigate", p.State())
	}
	if !sess.Snapshot.Exists() {
		t.Error("snapshot should be captured on entry")
	}
	if sess.Slots.Scanned() != testContent {
		t.Errorf("slots scanned for %q", sess.Slots.Scanned())
	}
	if s, _ := sess.Slots.Slot(6); !s.Occupied {
		t.Error("slot 6 should be occupied")
	}
	if p.Result() != ResultNone || p.Done() {
		t.Error("picker should be running")
	}
}

func TestCursorWraps(t *testing.T) {
	sess, _ := newTestSession(t, 0)
	p, _ := New(sess, ModeLoad)

	press(p, types.ButtonUp)
	if p.Cursor() != 9 {
		t.Fatalf("previous from 0 = %d, want 9", p.Cursor())
	}
	press(p, types.ButtonDown)
	if p.Cursor() != 0 {
		t.Fatalf("next from 9 = %d, want 0", p.Cursor())
	}
	press(p, types.ButtonLeft)
	if p.Cursor() != 9 {
		t.Fatalf("left from 0 = %d, want 9", p.Cursor())
	}
	press(p, types.ButtonRight)
	if p.Cursor() != 0 {
		t.Fatalf("right from 9 = %d, want 0", p.Cursor())
	}

	for i := 1; i <= 10; i++ {
		press(p, types.ButtonDown)
		if p.Cursor() != i%10 {
			t.Fatalf("after %d steps cursor = %d", i, p.Cursor())
		}
	}
}

func TestLoadScenario(t *testing.T) {
	sess, core := newTestSession(t, 5)
	writeSlot(t, sess, core, 3, 33)

	p, _ := New(sess, ModeLoad)
	moveTo(p, 3)

	press(p, types.ButtonConfirm)
	if p.State() != StateShowPreview {
		t.Fatalf("after first confirm state = %v, want ShowPreview", p.State())
	}
	if core.runs != 1 {
		t.Errorf("preview should run exactly one frame, ran %d", core.runs)
	}
	if core.frame != 34 {
		t.Errorf("previewed frame = %d, want 34", core.frame)
	}

	press(p, types.ButtonConfirm)
	if !p.Done() || p.Result() != ResultLoaded {
		t.Fatalf("state %v result %v, want Terminate/Loaded", p.State(), p.Result())
	}
	if core.frame != 33 {
		t.Errorf("live state = %d, want slot 3 contents (33)", core.frame)
	}
	if sess.Snapshot.Exists() {
		t.Error("snapshot file should be deleted")
	}
	if sess.Slot != 3 {
		t.Errorf("session slot = %d, want 3", sess.Slot)
	}
}

func TestSaveToEmptySlotNeedsNoConfirm(t *testing.T) {
	sess, core := newTestSession(t, 42)

	p, _ := New(sess, ModeSave)
	moveTo(p, 5)

	press(p, types.ButtonConfirm)
	if p.State() != StateNavigate {
		t.Fatalf("state = %v, want Navigate", p.State())
	}
	if core.runs != 0 {
		t.Error("saving to an empty slot should not preview")
	}

	slot, _ := sess.Slots.Slot(5)
	if !slot.Occupied {
		t.Error("slot 5 should be occupied")
	}
	if got := slotFrame(t, slot.Path); got != 42 {
		t.Errorf("slot 5 holds %d, want 42", got)
	}
	if core.frame != 42 {
		t.Errorf("live state changed to %d", core.frame)
	}
}

func TestOverwriteOccupiedSlotNeedsConfirm(t *testing.T) {
	sess, core := newTestSession(t, 42)
	path := writeSlot(t, sess, core, 2, 20)

	p, _ := New(sess, ModeSave)
	moveTo(p, 2)

	press(p, types.ButtonConfirm)
	if p.State() != StateShowPreview {
		t.Fatalf("state = %v, want ShowPreview", p.State())
	}
	if got := slotFrame(t, path); got != 20 {
		t.Fatalf("slot overwritten before confirm: %d", got)
	}

	press(p, types.ButtonConfirm)
	if p.State() != StateNavigate {
		t.Fatalf("state = %v, want Navigate", p.State())
	}
	// The preview (frame 21) was live; the slot must get the pre-picker state.
	if got := slotFrame(t, path); got != 42 {
		t.Errorf("slot holds %d, want pre-picker state 42", got)
	}
	if core.frame != 42 {
		t.Errorf("live state = %d, want 42", core.frame)
	}
}

func TestOverwriteCancelled(t *testing.T) {
	sess, core := newTestSession(t, 42)
	path := writeSlot(t, sess, core, 0, 10)

	p, _ := New(sess, ModeSave)
	press(p, types.ButtonConfirm)
	press(p, types.ButtonCancel)
	if p.State() != StateNavigate {
		t.Fatalf("state = %v, want Navigate", p.State())
	}
	if got := slotFrame(t, path); got != 10 {
		t.Errorf("slot changed to %d after cancelled overwrite", got)
	}

	press(p, types.ButtonCancel)
	if p.Result() != ResultCancelled {
		t.Fatalf("result = %v", p.Result())
	}
	if core.frame != 42 {
		t.Errorf("live state = %d, want 42", core.frame)
	}
}

func TestPreviewNeverAltersPrePickerState(t *testing.T) {
	sess, core := newTestSession(t, 5)
	writeSlot(t, sess, core, 1, 11)
	writeSlot(t, sess, core, 2, 22)

	p, _ := New(sess, ModeLoad)

	moveTo(p, 1)
	press(p, types.ButtonConfirm)
	if core.frame != 12 {
		t.Fatalf("preview of slot 1 left frame %d", core.frame)
	}
	press(p, types.ButtonCancel)

	moveTo(p, 2)
	press(p, types.ButtonConfirm)
	if core.frame != 23 {
		t.Fatalf("preview of slot 2 left frame %d", core.frame)
	}
	press(p, types.ButtonCancel)
	press(p, types.ButtonCancel)

	if p.Result() != ResultCancelled {
		t.Fatalf("result = %v, want Cancelled", p.Result())
	}
	if core.frame != 5 {
		t.Errorf("live state = %d, want pre-picker 5", core.frame)
	}
	if p.Cursor() != -1 {
		t.Errorf("cursor = %d, want -1 after cancel", p.Cursor())
	}
	if sess.Snapshot.Exists() {
		t.Error("snapshot should be deleted on exit")
	}
}

func TestDeleteRequiresConfirm(t *testing.T) {
	sess, core := newTestSession(t, 1)
	path := writeSlot(t, sess, core, 4, 44)

	p, _ := New(sess, ModeDelete)
	moveTo(p, 4)

	press(p, types.ButtonConfirm)
	if p.State() != StateShowPreview {
		t.Fatalf("state = %v, want ShowPreview", p.State())
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("slot deleted before confirmation")
	}

	press(p, types.ButtonCancel)
	if _, err := os.Stat(path); err != nil {
		t.Fatal("slot deleted after cancel")
	}

	press(p, types.ButtonConfirm)
	press(p, types.ButtonConfirm)
	if p.State() != StateNavigate {
		t.Fatalf("state = %v, want Navigate", p.State())
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("slot file should be gone")
	}
	if s, _ := sess.Slots.Slot(4); s.Occupied {
		t.Error("slot 4 should be empty")
	}

	press(p, types.ButtonCancel)
	if core.frame != 1 {
		t.Errorf("live state = %d, want 1", core.frame)
	}
}

func TestEmptySlotIgnoredForLoadAndDelete(t *testing.T) {
	for _, mode := range []Mode{ModeLoad, ModeDelete} {
		t.Run(mode.String(), func(t *testing.T) {
			sess, core := newTestSession(t, 3)
			p, _ := New(sess, mode)

			press(p, types.ButtonConfirm)
			if p.State() != StateNavigate {
				t.Errorf("state = %v, want Navigate", p.State())
			}
			if core.runs != 0 {
				t.Error("no preview expected for an empty slot")
			}
		})
	}
}

func TestDeleteShortcutInSaveMode(t *testing.T) {
	sess, core := newTestSession(t, 1)
	path := writeSlot(t, sess, core, 0, 9)

	p, _ := New(sess, ModeSave)
	press(p, types.ButtonDelete)
	if p.State() != StateShowPreview {
		t.Fatalf("state = %v, want ShowPreview", p.State())
	}
	if p.prompt() != textDelete {
		t.Errorf("prompt = %q, want delete prompt", p.prompt())
	}

	press(p, types.ButtonConfirm)
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Error("slot should be deleted")
	}

	// The next confirm is a plain save again
	press(p, types.ButtonConfirm)
	if got := slotFrame(t, path); got != 1 {
		t.Errorf("slot holds %d, want 1", got)
	}
}

func TestDeleteButtonIgnoredOutsideSaveMode(t *testing.T) {
	sess, core := newTestSession(t, 1)
	writeSlot(t, sess, core, 0, 9)

	p, _ := New(sess, ModeLoad)
	press(p, types.ButtonDelete)
	if p.State() != StateNavigate {
		t.Errorf("state = %v, want Navigate", p.State())
	}
}

func TestPreviewFailureShowsSystemError(t *testing.T) {
	sess, core := newTestSession(t, 8)
	path := writeSlot(t, sess, core, 3, 30)
	codec := &failingCodec{
		Codec:   sess.Codec,
		loadErr: map[string]error{path: &os.PathError{Op: "read", Path: path, Err: syscall.EIO}},
	}
	sess.Codec = codec

	p, _ := New(sess, ModeLoad)
	moveTo(p, 3)
	press(p, types.ButtonConfirm)

	if p.State() != StateShowLoadError {
		t.Fatalf("state = %v, want ShowLoadError", p.State())
	}
	if p.ErrorText() != syscall.EIO.Error() {
		t.Errorf("error text = %q, want %q", p.ErrorText(), syscall.EIO.Error())
	}
	if s, _ := sess.Slots.Slot(3); !s.Occupied {
		t.Error("occupancy should be unchanged")
	}

	d := newFakeDisplay()
	p.Draw(d)
	if !d.hasText(syscall.EIO.Error()) {
		t.Errorf("error text not drawn, got %v", d.texts)
	}

	press(p, types.ButtonLeft)
	if p.State() != StateNavigate {
		t.Fatalf("state = %v, want Navigate after acknowledging", p.State())
	}

	// Retry succeeds once the fault clears
	delete(codec.loadErr, path)
	moveTo(p, 3)
	press(p, types.ButtonConfirm)
	if p.State() != StateShowPreview {
		t.Fatalf("retry state = %v, want ShowPreview", p.State())
	}

	press(p, types.ButtonCancel)
	press(p, types.ButtonCancel)
	if core.frame != 8 {
		t.Errorf("live state = %d, want 8", core.frame)
	}
}

// writeGarbageSlot fills slot i with bytes that are not a state file.
func writeGarbageSlot(t *testing.T, sess *Session, i int) string {
	t.Helper()
	path := savestate.SlotPath(sess.Slots.Dir(), sess.ContentID, i)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}
	sess.Slots.Invalidate()
	return path
}

func TestUnreadableSlotCanBeDeleted(t *testing.T) {
	tests := []struct {
		mode    Mode
		request types.Buttons
	}{
		{ModeSave, types.ButtonDelete},
		{ModeDelete, types.ButtonConfirm},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			sess, core := newTestSession(t, 6)
			path := writeGarbageSlot(t, sess, 0)

			p, _ := New(sess, tt.mode)
			press(p, tt.request)
			if p.State() != StateShowPreview {
				t.Fatalf("state = %v, want ShowPreview", p.State())
			}
			if p.prompt() != textDelete {
				t.Errorf("prompt = %q, want delete prompt", p.prompt())
			}

			d := newFakeDisplay()
			p.Draw(d)
			if len(d.bitmaps) != 0 {
				t.Error("no preview bitmap expected for an unreadable slot")
			}
			if !d.hasText(savestate.ErrBadMagic.Error()) || !d.hasText(textDelete) {
				t.Errorf("missing error or prompt in %v", d.texts)
			}

			press(p, types.ButtonConfirm)
			if p.State() != StateNavigate {
				t.Fatalf("state = %v, want Navigate", p.State())
			}
			if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
				t.Error("unreadable slot should be deleted")
			}
			if s, _ := sess.Slots.Slot(0); s.Occupied {
				t.Error("slot 0 should be empty")
			}
			if core.frame != 6 {
				t.Errorf("live state = %d, want 6", core.frame)
			}
		})
	}
}

func TestUnreadableSlotCanBeOverwritten(t *testing.T) {
	sess, _ := newTestSession(t, 6)
	path := writeGarbageSlot(t, sess, 0)

	p, _ := New(sess, ModeSave)
	press(p, types.ButtonConfirm)
	if p.State() != StateShowPreview {
		t.Fatalf("state = %v, want ShowPreview", p.State())
	}
	if p.prompt() != textOverwrite {
		t.Errorf("prompt = %q, want overwrite prompt", p.prompt())
	}

	press(p, types.ButtonConfirm)
	if p.State() != StateNavigate {
		t.Fatalf("state = %v, want Navigate", p.State())
	}
	if got := slotFrame(t, path); got != 6 {
		t.Errorf("slot holds %d, want 6", got)
	}
}

func TestUnreadableSlotStillFailsLoad(t *testing.T) {
	sess, _ := newTestSession(t, 6)
	writeGarbageSlot(t, sess, 0)

	p, _ := New(sess, ModeLoad)
	press(p, types.ButtonConfirm)
	if p.State() != StateShowLoadError {
		t.Fatalf("state = %v, want ShowLoadError", p.State())
	}
	if p.ErrorText() != savestate.ErrBadMagic.Error() {
		t.Errorf("error text = %q", p.ErrorText())
	}
}

func TestPreviewStartsFromPrePickerState(t *testing.T) {
	sess, core := newTestSession(t, 5)
	writeSlot(t, sess, core, 1, 11)
	path := writeSlot(t, sess, core, 2, 22)
	sess.Codec = &failingCodec{
		Codec:   sess.Codec,
		loadErr: map[string]error{path: syscall.EIO},
	}

	p, _ := New(sess, ModeLoad)
	moveTo(p, 1)
	press(p, types.ButtonConfirm)
	if core.frame != 12 {
		t.Fatalf("preview of slot 1 left frame %d", core.frame)
	}
	press(p, types.ButtonCancel)

	// The failed preview must not leave slot 1's preview live
	moveTo(p, 2)
	press(p, types.ButtonConfirm)
	if p.State() != StateShowLoadError {
		t.Fatalf("state = %v, want ShowLoadError", p.State())
	}
	if core.frame != 5 {
		t.Errorf("live state = %d, want pre-picker 5", core.frame)
	}
}

func TestStaleSnapshotNeverRestored(t *testing.T) {
	core := newFakeCore(99)
	tempDir := t.TempDir()

	// Left behind by an earlier run
	stale := savestate.TransientPath(tempDir)
	if err := savestate.NewFileCodec(core).SaveState(stale); err != nil {
		t.Fatal(err)
	}
	core.frame = 5

	codec := &failingCodec{
		Codec:   savestate.NewFileCodec(core),
		saveErr: map[string]error{stale: syscall.ENOSPC},
	}
	sess := NewSession(testContent, filepath.Join(t.TempDir(), "saves"), tempDir, codec, core)

	p, err := New(sess, ModeLoad)
	if err != nil {
		t.Fatal(err)
	}
	if sess.Snapshot.Exists() {
		t.Error("stale snapshot should be removed on entry")
	}

	press(p, types.ButtonCancel)
	if p.Result() != ResultCancelled {
		t.Fatalf("result = %v", p.Result())
	}
	if core.frame != 5 {
		t.Errorf("live state = %d, want 5", core.frame)
	}
}

func TestLoadFailureAfterPreview(t *testing.T) {
	sess, core := newTestSession(t, 8)
	path := writeSlot(t, sess, core, 0, 50)

	p, _ := New(sess, ModeLoad)
	press(p, types.ButtonConfirm)
	if p.State() != StateShowPreview {
		t.Fatalf("state = %v", p.State())
	}

	// Slot vanishes between preview and load
	os.Remove(path)
	press(p, types.ButtonConfirm)
	if p.State() != StateShowLoadError {
		t.Fatalf("state = %v, want ShowLoadError", p.State())
	}
	if p.ErrorText() != syscall.ENOENT.Error() {
		t.Errorf("error text = %q", p.ErrorText())
	}

	press(p, types.ButtonConfirm)
	press(p, types.ButtonCancel)
	if p.Result() != ResultCancelled || core.frame != 8 {
		t.Errorf("result %v frame %d, want Cancelled/8", p.Result(), core.frame)
	}
}

func TestSaveFailureShowsError(t *testing.T) {
	sess, core := newTestSession(t, 8)
	path := savestate.SlotPath(sess.Slots.Dir(), testContent, 0)
	sess.Codec = &failingCodec{
		Codec:   sess.Codec,
		saveErr: map[string]error{path: syscall.ENOSPC},
	}

	p, _ := New(sess, ModeSave)
	press(p, types.ButtonConfirm)

	if p.State() != StateShowSaveError {
		t.Fatalf("state = %v, want ShowSaveError", p.State())
	}
	if p.ErrorText() != syscall.ENOSPC.Error() {
		t.Errorf("error text = %q", p.ErrorText())
	}
	if s, _ := sess.Slots.Slot(0); s.Occupied {
		t.Error("failed save should leave the slot empty")
	}

	press(p, types.ButtonConfirm)
	if p.State() != StateNavigate {
		t.Errorf("state = %v, want Navigate", p.State())
	}
	if core.frame != 8 {
		t.Errorf("live state = %d", core.frame)
	}
}

func TestSnapshotFailureDoesNotBlockPicker(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	os.WriteFile(blocker, []byte("x"), 0644)

	core := newFakeCore(4)
	sess := NewSession(testContent, filepath.Join(t.TempDir(), "saves"), filepath.Join(blocker, "tmp"), savestate.NewFileCodec(core), core)

	p, err := New(sess, ModeSave)
	if err != nil {
		t.Fatalf("snapshot failure should not abort: %v", err)
	}

	press(p, types.ButtonConfirm)
	if s, _ := sess.Slots.Slot(0); !s.Occupied {
		t.Error("save should still work")
	}

	press(p, types.ButtonCancel)
	if p.Result() != ResultCancelled {
		t.Errorf("result = %v", p.Result())
	}
}

func TestPreviewMutesAudioAndFlagsSession(t *testing.T) {
	sess, core := newTestSession(t, 0)
	writeSlot(t, sess, core, 0, 1)
	muter := &fakeMuter{}
	sess.Audio = muter

	var duringFrame bool
	core.onRunFrame = func() { duringFrame = sess.Previewing() }

	p, _ := New(sess, ModeLoad)
	press(p, types.ButtonConfirm)

	if !duringFrame {
		t.Error("session should report previewing during the frame")
	}
	if p.Previewing() {
		t.Error("previewing should be cleared after the frame")
	}
	if len(muter.calls) != 2 || !muter.calls[0] || muter.calls[1] {
		t.Errorf("mute calls = %v, want [true false]", muter.calls)
	}
	if p.preview == nil || p.preview.Bounds().Dx() != 8 || p.preview.Bounds().Dy() != 6 {
		t.Fatalf("preview frame not captured: %v", p.preview)
	}
	if p.preview.Pix[0] != byte(core.frame) {
		t.Errorf("preview pixel = %d, want %d", p.preview.Pix[0], core.frame)
	}
}

func TestCursorRememberedBetweenInvocations(t *testing.T) {
	sess, _ := newTestSession(t, 0)

	p, _ := New(sess, ModeSave)
	moveTo(p, 7)
	press(p, types.ButtonCancel)
	if sess.Slot != 7 {
		t.Fatalf("session slot = %d, want 7", sess.Slot)
	}

	p, _ = New(sess, ModeLoad)
	if p.Cursor() != 7 {
		t.Errorf("cursor = %d, want 7", p.Cursor())
	}

	sess.SetContent("/roms/other.rom")
	if sess.Slot != 0 {
		t.Errorf("slot = %d after content change, want 0", sess.Slot)
	}
}

func TestConfirmOnSentinelExits(t *testing.T) {
	sess, core := newTestSession(t, 3)
	p, _ := New(sess, ModeLoad)
	p.cursor = -1

	press(p, types.ButtonConfirm)
	if p.Result() != ResultCancelled {
		t.Errorf("result = %v, want Cancelled", p.Result())
	}
	if core.frame != 3 {
		t.Errorf("live state = %d", core.frame)
	}
}

func TestCancelMethod(t *testing.T) {
	sess, core := newTestSession(t, 3)
	writeSlot(t, sess, core, 0, 30)

	p, _ := New(sess, ModeLoad)
	press(p, types.ButtonConfirm)
	p.Cancel()

	if !p.Done() || p.Result() != ResultCancelled {
		t.Fatalf("state %v result %v", p.State(), p.Result())
	}
	if core.frame != 3 {
		t.Errorf("live state = %d, want 3", core.frame)
	}

	// Updates and repeated cancels after termination are ignored
	p.Update(types.ButtonConfirm)
	p.Cancel()
	if p.State() != StateTerminate {
		t.Errorf("state = %v", p.State())
	}
}

func TestSmoothFollowsCursor(t *testing.T) {
	sess, _ := newTestSession(t, 0)
	p, _ := New(sess, ModeLoad)

	press(p, types.ButtonDown)
	for i := 0; i < 100; i++ {
		p.Update(0)
	}
	if p.smooth != 1<<8 {
		t.Errorf("smooth = %d, want %d", p.smooth, 1<<8)
	}

	press(p, types.ButtonUp)
	for i := 0; i < 100; i++ {
		p.Update(0)
	}
	if p.smooth != 0 {
		t.Errorf("smooth = %d, want 0", p.smooth)
	}
}

func TestEase(t *testing.T) {
	tests := []struct {
		s, target, want int
	}{
		{0, 256, 32},
		{256, 0, 224},
		{250, 256, 256},
		{6, 0, 0},
		{256, 256, 256},
	}

	for _, tt := range tests {
		if got := ease(tt.s, tt.target); got != tt.want {
			t.Errorf("ease(%d, %d) = %d, want %d", tt.s, tt.target, got, tt.want)
		}
	}
}

func TestSystemErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errors.New("boom"), "boom"},
		{"wrapped", fmt.Errorf("outer: %w", fmt.Errorf("middle: %w", syscall.EACCES)), syscall.EACCES.Error()},
		{"path error", &os.PathError{Op: "open", Path: "/x", Err: syscall.ENOENT}, syscall.ENOENT.Error()},
		{"checksum", fmt.Errorf("read: %w", savestate.ErrChecksum), savestate.ErrChecksum.Error()},
		{"version", fmt.Errorf("failed to read state file: %w", fmt.Errorf("%w: %d", savestate.ErrVersion, 2)), savestate.ErrVersion.Error() + ": 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SystemErrorText(tt.err); got != tt.want {
				t.Errorf("SystemErrorText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCopyFrame(t *testing.T) {
	if copyFrame(nil, 0, 0) != nil {
		t.Error("empty frame should give nil")
	}
	if copyFrame(make([]byte, 10), 8, 2) != nil {
		t.Error("short buffer should give nil")
	}

	src := make([]byte, 16*3)
	src[0] = 0xaa
	img := copyFrame(src, 16, 3)
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	src[0] = 0
	if img.Pix[0] != 0xaa {
		t.Error("frame must be copied, not aliased")
	}
}

func TestStateStrings(t *testing.T) {
	if StateShowPreview.String() != "ShowPreview" || State(99).String() != "Unknown" {
		t.Error("unexpected State strings")
	}
	if ModeDelete.String() != "Delete" || Mode(9).String() != "Unknown" {
		t.Error("unexpected Mode strings")
	}
	if ResultLoaded.String() != "Loaded" || Result(9).String() != "Unknown" {
		t.Error("unexpected Result strings")
	}
}

// fakeDisplay records draw calls with a fixed 8px font.
type fakeDisplay struct {
	w, h    int
	texts   []string
	rects   int
	bitmaps []image.Rectangle
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{w: 320, h: 240}
}

func (d *fakeDisplay) Size() (int, int)                           { return d.w, d.h }
func (d *fakeDisplay) Clear(color.Color)                          { d.texts = nil; d.rects = 0; d.bitmaps = nil }
func (d *fakeDisplay) DrawText(x, y int, s string, c color.Color) { d.texts = append(d.texts, s) }
func (d *fakeDisplay) TextWidth(s string) int                     { return len(s) * 8 }
func (d *fakeDisplay) DrawRect(x, y, w, h int, c color.Color)     { d.rects++ }
func (d *fakeDisplay) DrawBitmap(src image.Image, dst image.Rectangle) {
	d.bitmaps = append(d.bitmaps, dst)
}

func (d *fakeDisplay) hasText(s string) bool {
	for _, t := range d.texts {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

func TestDrawNavigate(t *testing.T) {
	sess, core := newTestSession(t, 0)
	writeSlot(t, sess, core, 1, 5)
	p, _ := New(sess, ModeSave)
	d := newFakeDisplay()

	p.Draw(d)
	for _, want := range []string{textTitle, "SLOT 0", "FREE", textSave} {
		if !d.hasText(want) {
			t.Errorf("missing %q in %v", want, d.texts)
		}
	}

	press(p, types.ButtonDown)
	p.Draw(d)
	for _, want := range []string{"SLOT 1", "Slot used", textPreview, textDeleteKey} {
		if !d.hasText(want) {
			t.Errorf("missing %q in %v", want, d.texts)
		}
	}
}

func TestDrawShowPreview(t *testing.T) {
	sess, core := newTestSession(t, 0)
	writeSlot(t, sess, core, 0, 5)
	p, _ := New(sess, ModeLoad)
	press(p, types.ButtonConfirm)

	d := newFakeDisplay()
	state, cursor, smooth := p.State(), p.Cursor(), p.smooth
	p.Draw(d)
	p.Draw(d)

	if p.State() != state || p.Cursor() != cursor || p.smooth != smooth {
		t.Error("Draw must not change picker state")
	}
	if len(d.bitmaps) != 1 {
		t.Fatalf("expected one bitmap, got %d", len(d.bitmaps))
	}
	r := d.bitmaps[0]
	if r.Empty() || r.Min.X < 0 || r.Max.X > d.w || r.Max.Y > d.h-bottomBar {
		t.Errorf("preview rect %v outside layout", r)
	}
	if !d.hasText(textLoad) {
		t.Errorf("missing load prompt in %v", d.texts)
	}
}

func TestPreviewRectKeepsAspect(t *testing.T) {
	r := previewRect(image.Rect(0, 0, 256, 224), 320, 240)
	if r.Empty() {
		t.Fatal("empty rect")
	}
	got := float64(r.Dx()) / float64(r.Dy())
	want := 256.0 / 224.0
	if got < want*0.95 || got > want*1.05 {
		t.Errorf("aspect = %f, want about %f", got, want)
	}
	if !previewRect(image.Rect(0, 0, 0, 0), 320, 240).Empty() {
		t.Error("zero source should give empty rect")
	}
}

// fakePlatform replays scripted input, one entry per tick.
type fakePlatform struct {
	script   []types.Buttons
	tick     int
	display  *fakeDisplay
	presents int
}

func (f *fakePlatform) PollInput() types.Buttons {
	if f.tick >= len(f.script) {
		return 0
	}
	b := f.script[f.tick]
	f.tick++
	return b
}

func (f *fakePlatform) Display() types.Display { return f.display }
func (f *fakePlatform) Present() error         { f.presents++; return nil }

func TestRunLoadsSlot(t *testing.T) {
	old := tickInterval
	tickInterval = time.Millisecond
	defer func() { tickInterval = old }()

	sess, core := newTestSession(t, 5)
	writeSlot(t, sess, core, 3, 33)

	idle := []types.Buttons{0, 0, 0, 0}
	script := []types.Buttons{types.ButtonDown, types.ButtonDown, types.ButtonDown, types.ButtonConfirm}
	script = append(script, idle...)
	script = append(script, types.ButtonConfirm)
	script = append(script, idle...)

	platform := &fakePlatform{script: script, display: newFakeDisplay()}
	result, err := Run(context.Background(), sess, ModeLoad, platform)
	if err != nil {
		t.Fatal(err)
	}
	if result != ResultLoaded {
		t.Fatalf("result = %v, want Loaded", result)
	}
	if core.frame != 33 {
		t.Errorf("live state = %d, want 33", core.frame)
	}
	if platform.presents == 0 {
		t.Error("frames were never presented")
	}
}

func TestRunContextCancelled(t *testing.T) {
	sess, core := newTestSession(t, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := Run(ctx, sess, ModeSave, &fakePlatform{display: newFakeDisplay()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if result != ResultCancelled {
		t.Errorf("result = %v, want Cancelled", result)
	}
	if sess.Snapshot.Exists() || core.frame != 5 {
		t.Error("exit protocol not run on cancellation")
	}
}

func TestRunNoContent(t *testing.T) {
	sess, _ := newTestSession(t, 0)
	sess.ContentID = ""
	if _, err := Run(context.Background(), sess, ModeLoad, &fakePlatform{display: newFakeDisplay()}); !errors.Is(err, ErrNoContent) {
		t.Errorf("err = %v, want ErrNoContent", err)
	}
}
