package savestate

import (
	"path/filepath"
	"strconv"
	"strings"
)

// SlotCount is the number of save slots per content.
const SlotCount = 10

const (
	// slotSuffix is placed between the content base name and the slot index:
	// "game.rom" slot 3 is stored as "game.sv3".
	slotSuffix = "sv"

	// transientName is the hidden scratch snapshot file in the temp directory.
	transientName = ".svt"
)

// BaseName returns the content identifier with its directory and extension
// removed. "/roms/Super Game.sfc" becomes "Super Game".
func BaseName(contentID string) string {
	base := filepath.Base(contentID)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// SlotPath returns the file path for a slot of the given content.
func SlotPath(dir, contentID string, index int) string {
	return filepath.Join(dir, BaseName(contentID)+"."+slotSuffix+strconv.Itoa(index))
}

// TransientPath returns the fixed path of the scratch snapshot.
func TransientPath(tempDir string) string {
	return filepath.Join(tempDir, transientName)
}
