package frontend

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// FramebufferRenderer owns the ebiten offscreen image and draws RGBA pixel
// data to the screen with aspect-preserving nearest-neighbor scaling.
type FramebufferRenderer struct {
	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

// NewFramebufferRenderer creates a renderer.
func NewFramebufferRenderer() *FramebufferRenderer {
	return &FramebufferRenderer{}
}

// DrawFramebuffer renders pixel data centered on screen.
func (r *FramebufferRenderer) DrawFramebuffer(screen *ebiten.Image, pixels []byte, stride, activeHeight int) {
	if activeHeight == 0 || stride == 0 || len(pixels) < stride*activeHeight {
		return
	}

	pixelWidth := stride / 4
	if r.offscreen == nil || r.offscreen.Bounds().Dx() != pixelWidth || r.offscreen.Bounds().Dy() != activeHeight {
		if r.offscreen != nil {
			r.offscreen.Deallocate()
		}
		r.offscreen = ebiten.NewImage(pixelWidth, activeHeight)
	}
	r.offscreen.WritePixels(pixels[:stride*activeHeight])

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	scale, offsetX, offsetY := fitScale(pixelWidth, activeHeight, screenW, screenH)

	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(offsetX, offsetY)
	r.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(r.offscreen, &r.drawOpts)
}

// fitScale returns the largest uniform scale of a w×h picture that fits
// the screen, and the offsets that center it.
func fitScale(w, h, screenW, screenH int) (scale, offsetX, offsetY float64) {
	nativeW, nativeH := float64(w), float64(h)
	scale = min(float64(screenW)/nativeW, float64(screenH)/nativeH)
	offsetX = (float64(screenW) - nativeW*scale) / 2
	offsetY = (float64(screenH) - nativeH*scale) / 2
	return
}
