package frontend

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.design/x/clipboard"
)

// SaveScreenshot writes img as <dir>/<unix time>.png and returns the path.
func SaveScreenshot(dir string, img image.Image, now time.Time) (string, error) {
	if img == nil {
		return "", fmt.Errorf("no frame to capture")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	fullPath := filepath.Join(dir, fmt.Sprintf("%d.png", now.Unix()))
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create screenshot file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return fullPath, nil
}

// clipboardWriter puts PNG data on the system clipboard.
type clipboardWriter interface {
	WriteImage(png []byte)
}

// systemClipboard is the real clipboard. Init fails on headless systems, in
// which case copies are logged and dropped.
type systemClipboard struct {
	err error
}

func newSystemClipboard() *systemClipboard {
	return &systemClipboard{err: clipboard.Init()}
}

func (c *systemClipboard) WriteImage(data []byte) {
	if c.err != nil {
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
}

// CopyScreen encodes img as PNG and puts it on the clipboard.
func CopyScreen(cb clipboardWriter, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no frame to copy")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode screen: %w", err)
	}
	cb.WriteImage(buf.Bytes())
	return nil
}
