package savestate

import "fmt"

// Transient is the single scratch snapshot of the live emulator state taken
// when the slot picker opens. It lets the picker resume from candidate slots
// and still return the emulator to where the user left it.
type Transient struct {
	path  string
	codec Codec
	fs    FileSystem
}

// NewTransient creates the scratch snapshot stored at TransientPath(tempDir).
func NewTransient(tempDir string, codec Codec, fs FileSystem) *Transient {
	if fs == nil {
		fs = OSFileSystem{}
	}
	return &Transient{
		path:  TransientPath(tempDir),
		codec: codec,
		fs:    fs,
	}
}

// Path returns the backing file of the snapshot.
func (t *Transient) Path() string {
	return t.path
}

// Capture freezes the live state into the snapshot.
func (t *Transient) Capture() error {
	if err := t.codec.SaveState(t.path); err != nil {
		return fmt.Errorf("failed to write saved state at %s: %w", t.path, err)
	}
	return nil
}

// Restore unfreezes the snapshot into the live state.
func (t *Transient) Restore() error {
	if err := t.codec.LoadState(t.path); err != nil {
		return fmt.Errorf("failed to read saved state at %s: %w", t.path, err)
	}
	return nil
}

// Discard deletes the snapshot file.
func (t *Transient) Discard() error {
	return t.fs.Remove(t.path)
}

// Exists reports whether the snapshot file is present.
func (t *Transient) Exists() bool {
	return t.fs.Exists(t.path)
}
