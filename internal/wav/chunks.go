package wav

import (
	"fmt"
	"io"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/types"
)

const (
	chunkList = "LIST"
	chunkData = "data"
	listInfo  = "INFO"
)

func infoHandlers(file *types.File) iff.Handlers {
	handlers := iff.Handlers{}

	handlers.Register(chunkList, iff.HandlerFunc(func(h iff.ChunkHeader, payload *io.SectionReader) error {
		fields, err := parseInfoList(payload, file.Path)
		file.Text = append(file.Text, fields...)
		return err
	}))

	handlers.Register(chunkData, iff.HandlerFunc(func(h iff.ChunkHeader, _ *io.SectionReader) error {
		file.Audio = types.AudioData{
			ChunkID: h.ID,
			Offset:  h.PayloadOffset(),
			Size:    int64(h.Size),
		}
		return nil
	}))

	return handlers
}

// parseInfoList decodes a LIST chunk of type INFO into text fields. Lists
// of other types (adtl, ...) are skipped.
func parseInfoList(payload *io.SectionReader, path string) ([]types.TextField, error) {
	sr := binary.NewSafeReader(payload, payload.Size(), path)

	listType := make([]byte, 4)
	if err := sr.ReadAt(listType, 0, "LIST type"); err != nil {
		return nil, err
	}
	if string(listType) != listInfo {
		return nil, nil
	}

	var fields []types.TextField
	for pos := int64(4); pos < sr.Size(); {
		h, err := iff.ReadChunkHeader(sr, pos, binary.LittleEndian)
		if err != nil {
			return fields, err
		}
		if h.End() > sr.Size() {
			return fields, fmt.Errorf("INFO entry %q overruns its list by %d bytes", h.ID, h.End()-sr.Size())
		}

		value, err := iff.ReadText(sr.Section(h.PayloadOffset(), int64(h.Size)))
		if err != nil {
			return fields, err
		}
		if value != "" {
			fields = append(fields, types.TextField{ID: h.ID, Value: value})
		}
		pos = h.Next()
	}

	return fields, nil
}
