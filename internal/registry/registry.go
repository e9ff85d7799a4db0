// Package registry maps container formats to their parsers and writers.
package registry

import (
	"io"
	"log/slog"

	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/types"
)

// ParseOptions controls a single Parse call.
type ParseOptions struct {
	Logger *slog.Logger

	// InfoPass enables decoding of descriptive chunks (text, comments,
	// audio data location) in addition to the metadata chunk.
	InfoPass bool
}

// FormatParser is the interface all format parsers implement.
type FormatParser interface {
	// Parse reads the container layout, decodes the metadata chunk and,
	// when enabled, the descriptive chunks.
	Parse(r io.ReaderAt, size int64, path string, opts ParseOptions) (*types.File, error)
}

// FormatWriter is the interface format writers implement.
type FormatWriter interface {
	// Replace stores the payload produced by serialize as the metadata
	// chunk of the container in st. layout must be fresh.
	Replace(st iff.Storage, layout *types.Layout, path string, serialize iff.Serializer, cfg iff.SpliceConfig) (*iff.Result, error)

	// Delete removes the metadata chunk of the container in st.
	Delete(st iff.Storage, layout *types.Layout, path string, cfg iff.SpliceConfig) (*iff.Result, error)
}

// parsers maps formats to their parsers.
var parsers = make(map[types.Format]FormatParser)

// writers maps formats to their writers.
var writers = make(map[types.Format]FormatWriter)

// Register registers a parser for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, parser FormatParser) {
	parsers[format] = parser
}

// Get returns the parser for a given format.
// Returns nil if no parser is registered for the format.
func Get(format types.Format) FormatParser {
	return parsers[format]
}

// RegisterWriter registers a writer for a format.
// This is called by format packages during initialization (init functions).
func RegisterWriter(format types.Format, writer FormatWriter) {
	writers[format] = writer
}

// GetWriter returns the writer for a given format.
// Returns nil if no writer is registered for the format.
func GetWriter(format types.Format) FormatWriter {
	return writers[format]
}

// FamilyWriter is the FormatWriter shared by every format of one container
// family: the splice logic only depends on the family.
type FamilyWriter struct {
	Family *iff.Family
}

// Replace implements FormatWriter.
func (w FamilyWriter) Replace(st iff.Storage, layout *types.Layout, path string, serialize iff.Serializer, cfg iff.SpliceConfig) (*iff.Result, error) {
	return iff.NewSplicer(st, path, w.Family, cfg).Replace(layout, serialize)
}

// Delete implements FormatWriter.
func (w FamilyWriter) Delete(st iff.Storage, layout *types.Layout, path string, cfg iff.SpliceConfig) (*iff.Result, error) {
	return iff.NewSplicer(st, path, w.Family, cfg).Delete(layout)
}
