package iff

import (
	"fmt"
	"log/slog"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

// Walker iterates the chunks of one container. It holds the primitives
// shared by the info pass (Walk) and the metadata scan (Probe).
type Walker struct {
	sr     *binary.SafeReader
	family *Family
	header types.ContainerHeader
	logger *slog.Logger
}

// NewWalker reads the container header from sr and returns a walker
// positioned on the first chunk. A nil logger discards.
func NewWalker(sr *binary.SafeReader, logger *slog.Logger) (*Walker, error) {
	header, family, err := ReadContainerHeader(sr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Walker{
		sr:     sr,
		family: family,
		header: header,
		logger: logger.With("path", sr.Path(), "container", family.Name),
	}, nil
}

// Header returns the parsed container header.
func (w *Walker) Header() types.ContainerHeader {
	return w.header
}

// Family returns the container family.
func (w *Walker) Family() *Family {
	return w.family
}

// inBounds reports whether a chunk may start at pos: before both the
// declared end of the container and the end of the file.
func (w *Walker) inBounds(pos int64) bool {
	return pos < w.header.FormEnd() && pos < w.sr.Size()
}

// headerAt decodes the chunk header at pos.
func (w *Walker) headerAt(pos int64) (ChunkHeader, error) {
	return ReadChunkHeader(w.sr, pos, w.family.Order)
}

// advance returns the position after h, consuming the pad byte only when it
// lies inside the file.
func (w *Walker) advance(h ChunkHeader) int64 {
	end := h.End()
	if PadSize(int64(h.Size)) == 1 && end < w.sr.Size() {
		end++
	}
	return end
}

// WalkResult reports how far an info pass got.
type WalkResult struct {
	// Stopped is the header decode error that ended the walk early, if any.
	Stopped  error
	Chunks   []ChunkHeader
	Warnings []types.Warning
	End      int64
}

// Walk visits every chunk in order, handing registered ids to their
// handler and skipping the rest. A header that cannot be decoded stops the
// walk; the partial result is returned with Stopped set.
func (w *Walker) Walk(handlers Handlers) *WalkResult {
	result := &WalkResult{}
	pos := int64(types.ContainerHeaderSize)

	for w.inBounds(pos) {
		h, err := w.headerAt(pos)
		if err != nil {
			w.logger.Warn("unable to read chunk header", "offset", pos, "error", err)
			result.Stopped = err
			result.Warnings = append(result.Warnings, types.Warning{
				Stage:   "chunks",
				Message: fmt.Sprintf("stopped reading chunks: %v", err),
				Offset:  pos,
			})
			break
		}

		w.logger.Debug("chunk", "id", h.ID, "offset", h.Offset, "size", h.Size)
		result.Chunks = append(result.Chunks, h)

		if h.End() > w.sr.Size() {
			result.Warnings = append(result.Warnings, types.Warning{
				Stage:   "chunks",
				Message: fmt.Sprintf("chunk %q declares %d bytes but the file ends at %d", h.ID, h.Size, w.sr.Size()),
				Offset:  h.Offset,
			})
		}

		if handler, ok := handlers.Lookup(h.ID); ok {
			payload := w.sr.Section(h.PayloadOffset(), int64(h.Size))
			if err := handler.HandleChunk(h, payload); err != nil {
				result.Warnings = append(result.Warnings, types.Warning{
					Stage:   "chunks",
					Message: fmt.Sprintf("failed to decode chunk %q: %v", h.ID, err),
					Offset:  h.Offset,
				})
			}
		}

		pos = w.advance(h)
	}

	result.End = pos
	return result
}
