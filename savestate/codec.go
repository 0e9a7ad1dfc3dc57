package savestate

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
)

// Codec freezes and unfreezes the live emulator state to and from a file.
// Implementations must leave the live state untouched when LoadState fails,
// and must not leave a partially written file behind when SaveState fails.
type Codec interface {
	SaveState(path string) error
	LoadState(path string) error
}

// State file format constants
const (
	stateMagic      = "PSNState"
	stateVersion    = 1
	stateHeaderSize = 14 // magic(8) + version(2) + dataCRC(4)
)

var (
	// ErrBadMagic is returned for files that are not state files.
	ErrBadMagic = errors.New("not a save state file")

	// ErrVersion is returned for state files written by a newer format.
	ErrVersion = errors.New("unsupported save state version")

	// ErrChecksum is returned when the state payload is corrupted.
	ErrChecksum = errors.New("save state checksum mismatch")
)

// FileCodec implements Codec for cores that serialize to memory.
type FileCodec struct {
	stater emucore.SaveStater
}

// NewFileCodec wraps a core's in-memory serializer.
func NewFileCodec(stater emucore.SaveStater) *FileCodec {
	return &FileCodec{stater: stater}
}

// SaveState serializes the live state and writes it to path atomically.
func (c *FileCodec) SaveState(path string) error {
	state, err := c.stater.Serialize()
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	data := make([]byte, stateHeaderSize+len(state))
	copy(data[0:8], stateMagic)
	binary.LittleEndian.PutUint16(data[8:10], stateVersion)
	binary.LittleEndian.PutUint32(data[10:14], crc32.ChecksumIEEE(state))
	copy(data[stateHeaderSize:], state)

	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// LoadState reads path, verifies it, and restores it into the core.
func (c *FileCodec) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	state, err := verifyState(data)
	if err != nil {
		return fmt.Errorf("failed to read state file: %w", err)
	}

	if err := c.stater.Deserialize(state); err != nil {
		return fmt.Errorf("failed to deserialize state: %w", err)
	}
	return nil
}

// verifyState checks the header of a state file and returns its payload.
func verifyState(data []byte) ([]byte, error) {
	if len(data) < stateHeaderSize || string(data[0:8]) != stateMagic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(data[8:10]); v > stateVersion {
		return nil, fmt.Errorf("%w: %d", ErrVersion, v)
	}
	payload := data[stateHeaderSize:]
	if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(data[10:14]) {
		return nil, ErrChecksum
	}
	return payload, nil
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		os.Remove(tempFile)
		return err
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return err
	}
	return nil
}
