package frontend

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Logical size of the menu and picker canvas.
const (
	canvasWidth  = 320
	canvasHeight = 240
)

// Canvas is a software types.Display backed by an RGBA image. The menu and
// picker draw on it from the session goroutine; the finished picture is
// handed to Ebiten through a SharedFramebuffer.
type Canvas struct {
	img  *image.RGBA
	face font.Face
}

// NewCanvas creates a canvas of the given logical size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img:  image.NewRGBA(image.Rect(0, 0, width, height)),
		face: basicfont.Face7x13,
	}
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Size returns the logical width and height.
func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col color.Color) {
	xdraw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, xdraw.Src)
}

// DrawText draws s with its top-left corner at x, y.
func (c *Canvas) DrawText(x, y int, s string, col color.Color) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(x, y+c.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// TextWidth returns the width in pixels of s.
func (c *Canvas) TextWidth(s string) int {
	return font.MeasureString(c.face, s).Ceil()
}

// DrawRect fills a rectangle, blending translucent colors.
func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	r := image.Rect(x, y, x+w, y+h).Intersect(c.img.Bounds())
	if r.Empty() {
		return
	}
	xdraw.Draw(c.img, r, image.NewUniform(col), image.Point{}, xdraw.Over)
}

// DrawBitmap scales src into dst.
func (c *Canvas) DrawBitmap(src image.Image, dst image.Rectangle) {
	if src == nil || dst.Empty() {
		return
	}
	xdraw.ApproxBiLinear.Scale(c.img, dst, src, src.Bounds(), xdraw.Src, nil)
}
