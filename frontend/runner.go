package frontend

import (
	"context"
	"errors"
	"log"
	"sync/atomic"
	"time"

	emucore "github.com/neighbor-bear/pocketsnes-RetroGame/api"
	"github.com/neighbor-bear/pocketsnes-RetroGame/menu"
	"github.com/neighbor-bear/pocketsnes-RetroGame/picker"
	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

// ADT (audio-driven timing) buffer thresholds in bytes.
const (
	adtMinBuffer = 9600  // ~3 frames, speed up below this
	adtMaxBuffer = 19200 // ~6 frames, slow down above this
)

var (
	_ types.Platform = (*Runner)(nil)
	_ types.Display  = (*Canvas)(nil)
)

// menuTick is the menu loop period, matching the picker's.
const menuTick = 10 * time.Millisecond

// Mode is what the session goroutine is doing.
type Mode int32

const (
	ModePlaying Mode = iota
	ModeMenu
	ModePicker
	ModeExit
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "Playing"
	case ModeMenu:
		return "Menu"
	case ModePicker:
		return "Picker"
	case ModeExit:
		return "Exit"
	default:
		return "Unknown"
	}
}

// audioSink is the part of AudioPlayer the runner drives.
type audioSink interface {
	QueueSamples(samples []int16)
	GetBufferLevel() int
	ClearQueue()
}

// Runner owns the emulator and runs on its own goroutine. It plays frames,
// shows the main menu and opens the slot picker, publishing every picture
// through the shared framebuffer. Ebiten only polls input into SharedInput
// and draws what the runner published.
type Runner struct {
	emu       emucore.Emulator
	sess      *picker.Session
	audio     audioSink
	input     *SharedInput
	fb        *SharedFramebuffer
	canvas    *Canvas
	poller    *InputPoller
	menu      *menu.MainMenu
	title     string
	frameTime time.Duration

	mode       atomic.Int32
	pickerMode picker.Mode
}

// RunnerConfig holds everything a Runner needs.
type RunnerConfig struct {
	Emulator    emucore.Emulator
	Session     *picker.Session
	Audio       audioSink // optional
	Input       *SharedInput
	Framebuffer *SharedFramebuffer
	Poller      *InputPoller
	Title       string
	FPS         int
}

// NewRunner creates a runner that starts in play mode when content is
// loaded and in the menu otherwise.
func NewRunner(cfg RunnerConfig) *Runner {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}

	r := &Runner{
		emu:       cfg.Emulator,
		sess:      cfg.Session,
		audio:     cfg.Audio,
		input:     cfg.Input,
		fb:        cfg.Framebuffer,
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		poller:    cfg.Poller,
		title:     cfg.Title,
		frameTime: time.Second / time.Duration(fps),
	}

	r.menu = menu.NewMainMenu(menu.Callbacks{
		OnResume:      r.resume,
		OnLoadState:   func() { r.openPicker(picker.ModeLoad) },
		OnSaveState:   func() { r.openPicker(picker.ModeSave) },
		OnDeleteState: func() { r.openPicker(picker.ModeDelete) },
		OnReset: func() {
			r.emu.Reset()
			r.resume()
		},
		OnExit: func() { r.setMode(ModeExit) },
	})

	if r.hasContent() {
		r.setMode(ModePlaying)
	} else {
		r.openMenu()
	}
	return r
}

// Mode returns the current mode. Safe to call from any goroutine.
func (r *Runner) Mode() Mode {
	return Mode(r.mode.Load())
}

func (r *Runner) setMode(m Mode) {
	r.mode.Store(int32(m))
}

func (r *Runner) hasContent() bool {
	return r.emu != nil && r.sess != nil && r.sess.ContentID != ""
}

// Run drives the session until the user exits or ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	lastFrame := time.Now()

	for ctx.Err() == nil {
		switch r.Mode() {
		case ModePlaying:
			r.step(time.Now())
			r.pace(ctx, time.Since(lastFrame))
			lastFrame = time.Now()
		case ModeMenu:
			r.menuStep(time.Now())
			sleepCtx(ctx, menuTick)
		case ModePicker:
			r.runPicker(ctx)
			lastFrame = time.Now()
		case ModeExit:
			return
		}
	}
}

// step runs one emulator frame, or opens the menu if it was requested.
func (r *Runner) step(now time.Time) {
	if r.poller.Poll(r.input.Menu(), now).Has(types.ButtonMenu) {
		r.openMenu()
		return
	}

	buttons := r.input.Read()
	for player := 0; player < maxPlayers; player++ {
		r.emu.SetInput(player, buttons[player])
	}
	r.emu.RunFrame()

	if r.audio != nil {
		r.audio.QueueSamples(r.emu.GetAudioSamples())
	}

	r.fb.Update(
		r.emu.GetFramebuffer(),
		r.emu.GetFramebufferStride(),
		r.emu.GetActiveHeight(),
	)
}

// pace sleeps out the rest of the frame.
func (r *Runner) pace(ctx context.Context, elapsed time.Duration) {
	if sleepTime := r.sleepFor(elapsed); sleepTime > time.Millisecond {
		sleepCtx(ctx, sleepTime)
	}
}

// sleepFor returns the wall-clock remainder of the frame, nudged by the
// audio buffer level: shorter when audio is running dry, longer when it
// is backing up.
func (r *Runner) sleepFor(elapsed time.Duration) time.Duration {
	sleepTime := r.frameTime - elapsed

	if r.audio != nil {
		bufferLevel := r.audio.GetBufferLevel()
		if bufferLevel < adtMinBuffer {
			sleepTime = time.Duration(float64(sleepTime) * 0.9)
		} else if bufferLevel > adtMaxBuffer {
			sleepTime = time.Duration(float64(sleepTime) * 1.1)
		}
	}
	return sleepTime
}

// menuStep runs one menu tick and publishes the canvas.
func (r *Runner) menuStep(now time.Time) {
	r.menu.Update(r.poller.Poll(r.input.Menu(), now))
	if r.Mode() != ModeMenu {
		return
	}
	r.menu.Draw(r.canvas, r.title)
	r.present()
}

func (r *Runner) openMenu() {
	if r.audio != nil {
		r.audio.ClearQueue()
	}
	r.poller.Ignore()
	r.menu.Show(r.hasContent())
	r.setMode(ModeMenu)
}

func (r *Runner) resume() {
	r.poller.Ignore()
	r.setMode(ModePlaying)
}

func (r *Runner) openPicker(mode picker.Mode) {
	r.pickerMode = mode
	r.setMode(ModePicker)
}

// runPicker runs one picker invocation to completion. A loaded slot goes
// straight back to play; anything else returns to the menu.
func (r *Runner) runPicker(ctx context.Context) {
	r.poller.Ignore()

	result, err := picker.Run(ctx, r.sess, r.pickerMode, r)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Warning: slot picker: %v", err)
	}

	if result == picker.ResultLoaded {
		r.resume()
		return
	}
	r.openMenu()
}

// PollInput implements types.Platform for the picker.
func (r *Runner) PollInput() types.Buttons {
	return r.poller.Poll(r.input.Menu(), time.Now())
}

// Display implements types.Platform.
func (r *Runner) Display() types.Display {
	return r.canvas
}

// Present implements types.Platform by publishing the canvas.
func (r *Runner) Present() error {
	r.present()
	return nil
}

func (r *Runner) present() {
	img := r.canvas.Image()
	r.fb.Update(img.Pix, img.Stride, img.Bounds().Dy())
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
