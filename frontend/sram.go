package frontend

import (
	"fmt"
	"os"
	"path/filepath"

	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
	"github.com/neighbor-bear/pocketsnes-RetroGame/savestate"
)

// sramPath returns <saveDir>/<base>.srm for content.
func sramPath(saveDir, contentID string) string {
	return filepath.Join(saveDir, savestate.BaseName(contentID)+".srm")
}

// SaveSRAM writes the cartridge battery RAM next to the save states.
func SaveSRAM(bs emucore.BatterySaver, saveDir, contentID string) error {
	if contentID == "" {
		return fmt.Errorf("no content loaded")
	}
	if !bs.HasSRAM() {
		return nil
	}

	if err := os.MkdirAll(saveDir, 0755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	return os.WriteFile(sramPath(saveDir, contentID), bs.GetSRAM(), 0644)
}

// LoadSRAM restores the cartridge battery RAM. A missing file is not an
// error.
func LoadSRAM(bs emucore.BatterySaver, saveDir, contentID string) error {
	if contentID == "" || !bs.HasSRAM() {
		return nil
	}

	data, err := os.ReadFile(sramPath(saveDir, contentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read SRAM: %w", err)
	}

	bs.SetSRAM(data)
	return nil
}
