// Package romloader reads game content from disk, unpacking it from ZIP, 7z,
// gzip, tar.gz and RAR archives when needed.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Magic bytes for format detection
var (
	magicZIP    = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEnd = []byte{0x50, 0x4B, 0x05, 0x06} // empty zip
	magic7z     = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip   = []byte{0x1F, 0x8B}
	magicRAR    = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// maxROMSize covers the largest ExHiROM cartridges with room for a copier
// header.
const maxROMSize = 16 * 1024 * 1024

var (
	// ErrNoROMFile is returned when no ROM file is found in an archive
	ErrNoROMFile = errors.New("no ROM file found in archive")

	// ErrUnsupportedFormat is returned for unrecognized file formats
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileTooLarge is returned when extracted content exceeds size limit
	ErrFileTooLarge = errors.New("file exceeds maximum size limit")
)

// Content is a loaded ROM image.
type Content struct {
	Data  []byte
	Name  string // ROM file name, the archive member's base name for archives
	Path  string // file that was opened
	CRC32 uint32
}

// ID identifies the content for save state naming. It is the opened path,
// so slots follow the file the user picked rather than the archive member.
func (c *Content) ID() string {
	return c.Path
}

// CRCString returns the CRC32 as eight lowercase hex digits.
func (c *Content) CRCString() string {
	return fmt.Sprintf("%08x", c.CRC32)
}

type formatType int

const (
	formatUnknown formatType = iota
	formatRaw
	formatZIP
	format7z
	formatGzip
	formatRAR
)

// String returns the string representation of the format
func (f formatType) String() string {
	switch f {
	case formatRaw:
		return "raw"
	case formatZIP:
		return "zip"
	case format7z:
		return "7z"
	case formatGzip:
		return "gzip"
	case formatRAR:
		return "rar"
	default:
		return "unknown"
	}
}

// extractFunc pulls the first matching ROM out of an archive.
type extractFunc func(path string, extensions []string) ([]byte, string, error)

var extractors = map[formatType]extractFunc{
	formatZIP:  extractFromZIP,
	format7z:   extractFrom7z,
	formatGzip: extractFromGzip,
	formatRAR:  extractFromRAR,
}

// Load reads a ROM from path. Archives are detected by magic bytes first
// and by extension second; the first member matching one of extensions is
// returned. A plain file must carry one of extensions.
func Load(path string, extensions []string) (*Content, error) {
	format, err := sniff(path, extensions)
	if err != nil {
		return nil, err
	}

	var data []byte
	var name string

	switch format {
	case formatRaw:
		data, err = readRaw(path)
		name = filepath.Base(path)
	case formatUnknown:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	default:
		data, name, err = extractors[format](path, extensions)
	}
	if err != nil {
		return nil, err
	}

	return &Content{
		Data:  data,
		Name:  name,
		Path:  path,
		CRC32: crc32.ChecksumIEEE(data),
	}, nil
}

// sniff reads the file header and detects the format.
func sniff(path string, extensions []string) (formatType, error) {
	f, err := os.Open(path)
	if err != nil {
		return formatUnknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := io.ReadFull(f, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return formatUnknown, fmt.Errorf("failed to read file header: %w", err)
	}

	return detectFormat(header[:n], path, extensions), nil
}

func readRaw(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	data, err := limitedRead(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM: %w", err)
	}
	return data, nil
}

// detectFormat determines the file format based on magic bytes and extension.
// The extensions parameter lists valid ROM file extensions (e.g. []string{".smc"}).
func detectFormat(header []byte, path string, extensions []string) formatType {
	lowerPath := strings.ToLower(path)
	ext := filepath.Ext(lowerPath)

	switch {
	case bytes.HasPrefix(header, magicZIP), bytes.HasPrefix(header, magicZIPEnd):
		return formatZIP
	case bytes.HasPrefix(header, magicRAR):
		return formatRAR
	case bytes.HasPrefix(header, magic7z):
		return format7z
	case bytes.HasPrefix(header, magicGzip):
		return formatGzip
	}

	switch ext {
	case ".zip":
		return formatZIP
	case ".7z":
		return format7z
	case ".gz", ".tgz":
		return formatGzip
	case ".rar":
		return formatRAR
	}

	if isROMFile(lowerPath, extensions) {
		return formatRaw
	}
	return formatUnknown
}

// isROMFile checks if a filename has one of the given ROM extensions (case-insensitive)
func isROMFile(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}

// limitedRead reads from r up to maxROMSize bytes, returning an error if exceeded
func limitedRead(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxROMSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxROMSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
