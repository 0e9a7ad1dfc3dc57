package romloader

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"

	"github.com/bodgit/sevenzip"
)

// archiveFile is a member of a random access archive. Both archive/zip and
// sevenzip expose their members this way.
type archiveFile interface {
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

// firstROM reads the first regular member whose name matches extensions.
func firstROM[F archiveFile](files []F, extensions []string) ([]byte, string, error) {
	for _, f := range files {
		info := f.FileInfo()
		if info.IsDir() || !isROMFile(info.Name(), extensions) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s in archive: %w", info.Name(), err)
		}
		data, err := limitedRead(rc)
		rc.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", info.Name(), err)
		}
		return data, info.Name(), nil
	}

	return nil, "", ErrNoROMFile
}

// extractFromZIP extracts the first ROM file from a ZIP archive
func extractFromZIP(path string, extensions []string) ([]byte, string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	return firstROM(r.File, extensions)
}

// extractFrom7z extracts the first ROM file from a 7z archive
func extractFrom7z(path string, extensions []string) ([]byte, string, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open 7z: %w", err)
	}
	defer r.Close()

	return firstROM(r.File, extensions)
}
