package iffmeta

import (
	"io"

	"github.com/simonhull/iffmeta/internal/types"
)

// Format identifies a container format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatAIFF    = types.FormatAIFF
	FormatAIFC    = types.FormatAIFC
	FormatWAV     = types.FormatWAV
)

// DetectFormat identifies the container format from the 12-byte top-level
// header.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
