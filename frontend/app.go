package frontend

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// App implements ebiten.Game. It polls input into SharedInput, draws the
// framebuffer the runner published and handles the window keys: F11
// toggles fullscreen, F12 saves a screenshot and Ctrl/Cmd+C copies the
// screen to the clipboard.
type App struct {
	mapping       InputMapping
	source        *ebitenSource
	input         *SharedInput
	fb            *SharedFramebuffer
	renderer      *FramebufferRenderer
	clipboard     clipboardWriter
	screenshotDir string
	done          <-chan struct{}
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	select {
	case <-a.done:
		return ebiten.Termination
	default:
	}

	a.source.refresh()
	a.input.Set(0, a.mapping.PollGame(a.source))
	a.input.SetMenu(a.mapping.PollMenu(a.source))

	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if path, err := SaveScreenshot(a.screenshotDir, a.fb.Image(), time.Now()); err != nil {
			log.Printf("Warning: screenshot failed: %v", err)
		} else {
			log.Printf("Screenshot saved to %s", path)
		}
	}

	copyHeld := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	if copyHeld && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if err := CopyScreen(a.clipboard, a.fb.Image()); err != nil {
			log.Printf("Warning: copy failed: %v", err)
		}
	}

	return nil
}

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	pixels, stride, activeHeight := a.fb.Read()
	if activeHeight == 0 {
		return
	}
	a.renderer.DrawFramebuffer(screen, pixels, stride, activeHeight)
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := 1.0
	if m := ebiten.Monitor(); m != nil {
		s = m.DeviceScaleFactor()
	}
	return int(float64(outsideWidth) * s), int(float64(outsideHeight) * s)
}
