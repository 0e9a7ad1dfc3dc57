package romloader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/nwaples/rardecode/v2"
)

// extractFromRAR extracts the first ROM file from a RAR archive
func extractFromRAR(path string, extensions []string) (data []byte, name string, err error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	// rardecode can panic on truncated headers
	defer func() {
		if p := recover(); p != nil {
			data, name, err = nil, "", fmt.Errorf("failed to read rar: %v", p)
		}
	}()

	for {
		header, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil, "", ErrNoROMFile
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read rar entry: %w", err)
		}

		if header.IsDir || !isROMFile(header.Name, extensions) {
			continue
		}

		data, err := limitedRead(r)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", header.Name, err)
		}
		return data, filepath.Base(header.Name), nil
	}
}
