package frontend

import (
	"bytes"
	"testing"

	"github.com/neighbor-bear/pocketsnes-RetroGame/types"
)

func TestSharedInput(t *testing.T) {
	si := &SharedInput{}

	si.Set(0, 0b1010)
	si.Set(1, 0xff)
	si.Set(-1, 0xdead)
	si.Set(maxPlayers, 0xdead)

	if got := si.Read(); got[0] != 0b1010 || got[1] != 0xff {
		t.Errorf("Read() = %v", got)
	}

	si.SetMenu(types.ButtonConfirm | types.ButtonUp)
	if got := si.Menu(); got != types.ButtonConfirm|types.ButtonUp {
		t.Errorf("Menu() = %b", got)
	}
}

func TestSharedFramebuffer(t *testing.T) {
	sf := NewSharedFramebuffer(4, 4)

	if img := sf.Image(); img != nil {
		t.Fatal("Image() before Update should be nil")
	}
	if _, _, h := sf.Read(); h != 0 {
		t.Fatalf("height before Update = %d", h)
	}

	stride := 4 * 4
	pixels := make([]byte, stride*3)
	for i := range pixels {
		pixels[i] = byte(i)
	}
	sf.Update(pixels, stride, 3)

	got, gotStride, gotHeight := sf.Read()
	if gotStride != stride || gotHeight != 3 || !bytes.Equal(got, pixels) {
		t.Fatalf("Read() = %d bytes, stride %d, height %d", len(got), gotStride, gotHeight)
	}

	pixels[0] = 0xee
	if got, _, _ := sf.Read(); got[0] == 0xee {
		t.Error("Update should copy the frame")
	}

	img := sf.Image()
	if img == nil || img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Fatalf("Image() bounds = %v", img.Bounds())
	}
	if img.Pix[5] != 5 {
		t.Errorf("Image() pixel = %d, want 5", img.Pix[5])
	}
}

func TestSharedFramebufferTruncatesLargeFrames(t *testing.T) {
	sf := NewSharedFramebuffer(2, 2)
	sf.Update(make([]byte, 8*10), 8, 10)

	_, stride, height := sf.Read()
	if stride != 8 || height != 2 {
		t.Errorf("Read() stride %d height %d, want 8, 2", stride, height)
	}
}
