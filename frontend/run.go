// Package frontend is the desktop front-end: an Ebiten window with oto
// audio around one emulation core, the main menu and the save-state slot
// picker.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sqweek/dialog"

	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
	"github.com/neighbor-bear/pocketsnes-RetroGame/picker"
	"github.com/neighbor-bear/pocketsnes-RetroGame/romloader"
	"github.com/neighbor-bear/pocketsnes-RetroGame/savestate"
	"github.com/neighbor-bear/pocketsnes-RetroGame/storage"
)

// Run opens the window for a core and plays romPath. With an empty romPath
// a file chooser is shown; closing it quits without error.
func Run(factory emucore.CoreFactory, romPath string) error {
	info := factory.SystemInfo()
	if err := info.Validate(); err != nil {
		return fmt.Errorf("invalid core: %w", err)
	}

	storage.Init(info.DataDirName)
	if err := storage.EnsureDirectories(); err != nil {
		return err
	}

	config, err := loadConfig()
	if err != nil {
		return err
	}

	if romPath == "" {
		romPath, err = chooseROM(info)
		if errors.Is(err, dialog.ErrCancelled) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to choose ROM: %w", err)
		}
	}

	content, err := romloader.Load(romPath, info.Extensions)
	if err != nil {
		return fmt.Errorf("failed to load ROM: %w", err)
	}

	emulator, err := factory.CreateEmulator(content.Data)
	if err != nil {
		return fmt.Errorf("failed to create emulator: %w", err)
	}
	defer emulator.Close()

	stater, ok := emulator.(emucore.SaveStater)
	if !ok {
		return fmt.Errorf("core %s does not support save states", info.CoreName)
	}

	saveDir, err := storage.ResolveSaveStateDir(config)
	if err != nil {
		return err
	}
	screenshotDir, err := storage.GetScreenshotDir()
	if err != nil {
		return err
	}

	battery, hasBattery := emulator.(emucore.BatterySaver)
	if hasBattery {
		if err := LoadSRAM(battery, saveDir, content.ID()); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	sess := picker.NewSession(content.ID(), saveDir, storage.ResolveTempDir(config),
		savestate.NewFileCodec(stater), emulator)
	sess.Slot = config.SaveSlot(savestate.BaseName(content.ID()))

	audioPlayer, err := NewAudioPlayer(info.SampleRate, config.Audio.Volume, config.Audio.Muted)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	var audio audioSink
	if audioPlayer != nil {
		defer audioPlayer.Close()
		audio = audioPlayer
		sess.Audio = audioPlayer
	}

	input := &SharedInput{}
	fb := NewSharedFramebuffer(max(info.ScreenWidth, canvasWidth), max(info.MaxScreenHeight, canvasHeight))

	runner := NewRunner(RunnerConfig{
		Emulator:    emulator,
		Session:     sess,
		Audio:       audio,
		Input:       input,
		Framebuffer: fb,
		Poller: NewInputPoller(
			time.Duration(config.Input.RepeatDelayMs)*time.Millisecond,
			time.Duration(config.Input.RepeatIntervalMs)*time.Millisecond,
		),
		Title: content.Name,
		FPS:   info.FPS,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runner.Run(ctx)
	}()

	app := &App{
		mapping:       BuildMapping(info.Buttons, config.Input.Keyboard),
		source:        &ebitenSource{},
		input:         input,
		fb:            fb,
		renderer:      NewFramebufferRenderer(),
		clipboard:     newSystemClipboard(),
		screenshotDir: filepath.Join(screenshotDir, content.CRCString()),
		done:          done,
	}

	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", info.CoreName, content.Name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(canvasWidth*config.Window.Scale, canvasHeight*config.Window.Scale)
	ebiten.SetWindowSizeLimits(canvasWidth, canvasHeight, -1, -1)
	ebiten.SetFullscreen(config.Window.Fullscreen)
	ebiten.SetTPS(60)

	err = ebiten.RunGame(app)

	cancel()
	<-done

	if hasBattery {
		if serr := SaveSRAM(battery, saveDir, content.ID()); serr != nil {
			log.Printf("Warning: failed to save SRAM: %v", serr)
		}
	}

	config.SetSaveSlot(savestate.BaseName(content.ID()), sess.Slot)
	config.Window.Fullscreen = ebiten.IsFullscreen()
	if serr := storage.SaveConfig(config); serr != nil {
		log.Printf("Warning: failed to save config: %v", serr)
	}

	return err
}

// loadConfig opens config.json and logs any fields that had to be
// corrected.
func loadConfig() (*storage.Config, error) {
	config, problems, err := storage.OpenConfig(ValidKeyNames())
	if err != nil {
		return nil, err
	}
	for _, p := range problems {
		log.Printf("Warning: config: %s, using default", p)
	}
	return config, nil
}

// chooseROM shows a file chooser filtered to the core's extensions and the
// supported archives.
func chooseROM(info emucore.SystemInfo) (string, error) {
	exts := make([]string, 0, len(info.Extensions)+6)
	for _, ext := range info.Extensions {
		exts = append(exts, strings.TrimPrefix(ext, "."))
	}
	exts = append(exts, "zip", "gz", "tgz", "tar", "7z", "rar")

	return dialog.File().
		Title("Open " + info.ConsoleName + " ROM").
		Filter(info.ConsoleName+" ROMs", exts...).
		Load()
}
