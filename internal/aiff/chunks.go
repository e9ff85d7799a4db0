package aiff

import (
	"fmt"
	"io"
	"time"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/types"
)

// Chunk ids decoded during the info pass.
const (
	chunkName       = "NAME"
	chunkAuthor     = "AUTH"
	chunkCopyright  = "(c) "
	chunkAnnotation = "ANNO"
	chunkComments   = "COMT"
	chunkSound      = "SSND"
)

// macEpoch is the origin of AIFF timestamps.
var macEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

func infoHandlers(file *types.File) iff.Handlers {
	handlers := iff.Handlers{}

	text := iff.HandlerFunc(func(h iff.ChunkHeader, payload *io.SectionReader) error {
		value, err := iff.ReadText(payload)
		if err != nil {
			return err
		}
		if value != "" {
			file.Text = append(file.Text, types.TextField{ID: h.ID, Value: value})
		}
		return nil
	})
	for _, id := range []string{chunkName, chunkAuthor, chunkCopyright, chunkAnnotation} {
		handlers.Register(id, text)
	}

	handlers.Register(chunkComments, iff.HandlerFunc(func(h iff.ChunkHeader, payload *io.SectionReader) error {
		comments, err := parseComments(payload, file.Path)
		file.Comments = append(file.Comments, comments...)
		return err
	}))

	handlers.Register(chunkSound, iff.HandlerFunc(func(h iff.ChunkHeader, _ *io.SectionReader) error {
		file.Audio = types.AudioData{
			ChunkID: h.ID,
			Offset:  h.PayloadOffset(),
			Size:    int64(h.Size),
		}
		return nil
	}))

	return handlers
}

// parseComments decodes a COMT payload: a count followed by entries of
// timestamp(4) marker(2) length(2) text, each text padded to even length.
// A missing final pad byte is tolerated. Entries decoded before an error
// are returned with it.
func parseComments(payload *io.SectionReader, path string) ([]types.Comment, error) {
	sr := binary.NewSafeReader(payload, payload.Size(), path)
	cr := binary.NewChainReader(binary.NewReader(sr, 0, binary.BigEndian))

	count := binary.ReadChained[uint16](cr, "comment count")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	comments := make([]types.Comment, 0, count)
	for i := range int(count) {
		timestamp := binary.ReadChained[uint32](cr, "comment timestamp")
		marker := binary.ReadChained[uint16](cr, "comment marker")
		length := binary.ReadChained[uint16](cr, "comment length")
		raw := cr.Bytes(int(length), "comment text")
		if err := cr.Error(); err != nil {
			return comments, fmt.Errorf("comment %d of %d: %w", i+1, count, err)
		}

		if length%2 == 1 && cr.Offset() < sr.Size() {
			cr.Skip(1)
		}

		text, err := iff.DecodeText(raw)
		if err != nil {
			return comments, fmt.Errorf("comment %d of %d: %w", i+1, count, err)
		}

		comments = append(comments, types.Comment{
			Timestamp: macEpoch.Add(time.Duration(timestamp) * time.Second),
			Marker:    marker,
			Text:      text,
		})
	}

	return comments, nil
}
