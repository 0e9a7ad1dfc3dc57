package main

import (
	"flag"
	"log"
	"os"

	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
	"github.com/neighbor-bear/pocketsnes-RetroGame/frontend"
	"github.com/neighbor-bear/pocketsnes-RetroGame/internal/profiling"
	"github.com/neighbor-bear/pocketsnes-RetroGame/internal/testcore"
)

// dataDirFactory overrides the data directory name of a core.
type dataDirFactory struct {
	emucore.CoreFactory
	dataDir string
}

func (f dataDirFactory) SystemInfo() emucore.SystemInfo {
	info := f.CoreFactory.SystemInfo()
	info.DataDirName = f.dataDir
	return info
}

func main() {
	romPath := flag.String("rom", "", "path to ROM file (a file chooser opens when empty)")
	dataDir := flag.String("data", "", "data directory name (default: the core's)")
	profileDir := flag.String("profile", os.TempDir(), "directory for profiles in profiling builds")
	flag.Parse()

	if err := run(*romPath, *dataDir, *profileDir); err != nil {
		log.Fatal(err)
	}
}

func run(romPath, dataDir, profileDir string) error {
	defer profiling.Start(profileDir).Stop()

	var factory emucore.CoreFactory = testcore.Factory{}
	if dataDir != "" {
		factory = dataDirFactory{CoreFactory: factory, dataDir: dataDir}
	}

	return frontend.Run(factory, romPath)
}
