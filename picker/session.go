package picker

import (
	"errors"

	"github.com/neighbor-bear/pocketsnes-RetroGame/savestate"
)

// ErrNoContent is returned when the picker is opened with nothing loaded.
var ErrNoContent = errors.New("no content loaded")

// FrameRunner advances the emulation core and exposes its framebuffer.
// RunFrame is synchronous; the picker relies on it completing before the
// next snapshot operation.
type FrameRunner interface {
	RunFrame()
	GetFramebuffer() []byte
	GetFramebufferStride() int
	GetActiveHeight() int
}

// Muter silences audio output while a preview frame runs.
type Muter interface {
	SetMuted(muted bool)
}

// Session is the picker's view of the running front-end. It is owned by the
// caller and outlives individual picker invocations.
type Session struct {
	ContentID string
	Slots     *savestate.Directory
	Snapshot  *savestate.Transient
	Codec     savestate.Codec
	FS        savestate.FileSystem
	Core      FrameRunner
	Audio     Muter // optional

	// Slot is the cursor position restored when the picker next opens.
	Slot int

	previewing bool
}

// NewSession wires a session for the host filesystem. Slot files live in
// saveDir and the scratch snapshot in tempDir.
func NewSession(contentID, saveDir, tempDir string, codec savestate.Codec, core FrameRunner) *Session {
	fs := savestate.OSFileSystem{}
	return &Session{
		ContentID: contentID,
		Slots:     savestate.NewDirectory(saveDir, fs),
		Snapshot:  savestate.NewTransient(tempDir, codec, fs),
		Codec:     codec,
		FS:        fs,
		Core:      core,
	}
}

// SetContent switches the session to new content. The slot cursor goes back
// to 0 when the content changes.
func (s *Session) SetContent(contentID string) {
	if contentID != s.ContentID {
		s.Slot = 0
	}
	s.ContentID = contentID
}

// Previewing reports whether a preview frame is running right now.
func (s *Session) Previewing() bool {
	return s.previewing
}

// validate checks that the session can run a picker.
func (s *Session) validate() error {
	switch {
	case s == nil || s.ContentID == "":
		return ErrNoContent
	case s.Slots == nil || s.Snapshot == nil:
		return errors.New("session has no slot directory or snapshot")
	case s.Codec == nil:
		return errors.New("session has no state codec")
	case s.Core == nil:
		return errors.New("session has no emulation core")
	}
	return nil
}
