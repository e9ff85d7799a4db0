// Package wav registers the WAV format: RIFF "WAVE" containers with
// little-endian chunk sizes and an "id3 " metadata chunk.
package wav

import (
	"io"

	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/registry"
	"github.com/simonhull/iffmeta/internal/types"
)

// parser implements registry.FormatParser for WAV files.
type parser struct{}

// Parse reads the chunk layout, the ID3 chunk, LIST/INFO text and the
// location of the sample data.
func (p *parser) Parse(r io.ReaderAt, size int64, path string, opts registry.ParseOptions) (*types.File, error) {
	return registry.ParseContainer(r, size, path, opts, infoHandlers)
}

func init() {
	registry.Register(types.FormatWAV, &parser{})
	registry.RegisterWriter(types.FormatWAV, registry.FamilyWriter{Family: iff.FamilyOf(types.FormatWAV)})
}
