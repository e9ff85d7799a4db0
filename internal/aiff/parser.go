// Package aiff registers the AIFF and AIFF-C formats: IFF "FORM"
// containers with big-endian chunk sizes and an "ID3 " metadata chunk.
package aiff

import (
	"io"

	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/registry"
	"github.com/simonhull/iffmeta/internal/types"
)

// parser implements registry.FormatParser for AIFF and AIFF-C files.
type parser struct{}

// Parse reads the chunk layout, the ID3 chunk and the descriptive chunks.
func (p *parser) Parse(r io.ReaderAt, size int64, path string, opts registry.ParseOptions) (*types.File, error) {
	return registry.ParseContainer(r, size, path, opts, infoHandlers)
}

func init() {
	for _, format := range []types.Format{types.FormatAIFF, types.FormatAIFC} {
		registry.Register(format, &parser{})
		registry.RegisterWriter(format, registry.FamilyWriter{Family: iff.FamilyOf(format)})
	}
}
