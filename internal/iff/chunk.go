package iff

import (
	"bytes"
	"fmt"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

// ChunkHeader is a decoded chunk id and size.
type ChunkHeader struct {
	ID     string
	Size   uint32 // Payload bytes; header and pad excluded
	Offset int64  // Position of the id field
}

// PayloadOffset returns the offset of the first payload byte.
func (h ChunkHeader) PayloadOffset() int64 {
	return h.Offset + types.ChunkHeaderSize
}

// End returns the offset just past the payload, pad excluded.
func (h ChunkHeader) End() int64 {
	return h.PayloadOffset() + int64(h.Size)
}

// Next returns the offset of the following chunk, assuming the pad byte is
// present when the size is odd.
func (h ChunkHeader) Next() int64 {
	return h.End() + PadSize(int64(h.Size))
}

// Summary returns the lightweight record of the chunk.
func (h ChunkHeader) Summary() types.ChunkSummary {
	return types.ChunkSummary{ID: h.ID, Offset: h.Offset, Size: h.Size}
}

func (h ChunkHeader) String() string {
	return fmt.Sprintf("%q size=%d offset=%d", h.ID, h.Size, h.Offset)
}

// PadSize returns 1 when size is odd and 0 otherwise.
func PadSize(size int64) int64 {
	return size & 1
}

// ReadChunkHeader decodes the 8-byte chunk header at off.
//
// It fails with *types.MalformedChunkHeaderError when fewer than eight bytes
// remain in the file.
func ReadChunkHeader(sr *binary.SafeReader, off int64, order binary.Endianness) (ChunkHeader, error) {
	if avail := sr.Available(off); avail < types.ChunkHeaderSize {
		return ChunkHeader{}, &types.MalformedChunkHeaderError{
			Path:      sr.Path(),
			Offset:    off,
			Available: avail,
		}
	}

	buf := make([]byte, types.ChunkHeaderSize)
	if err := sr.ReadAt(buf, off, "chunk header"); err != nil {
		return ChunkHeader{}, err
	}

	return ChunkHeader{
		ID:     string(buf[0:4]),
		Size:   binary.Decode[uint32](buf[4:8], order),
		Offset: off,
	}, nil
}

// EncodeChunkHeader returns the 8-byte header for a chunk.
func EncodeChunkHeader(id string, size uint32, order binary.Endianness) ([]byte, error) {
	if len(id) != 4 {
		return nil, fmt.Errorf("invalid chunk id %q: must be 4 bytes", id)
	}

	buf := bytes.NewBuffer(make([]byte, 0, types.ChunkHeaderSize))
	sw := binary.NewSafeWriter(buf, order)
	if err := sw.WriteString(id); err != nil {
		return nil, err
	}
	if err := binary.Write(sw, size); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeChunk returns header, payload and pad byte (if the payload is odd).
func EncodeChunk(id string, payload []byte, order binary.Endianness) ([]byte, error) {
	if int64(len(payload)) > int64(^uint32(0)) {
		return nil, fmt.Errorf("chunk %q payload of %d bytes exceeds 32-bit size", id, len(payload))
	}

	header, err := EncodeChunkHeader(id, uint32(len(payload)), order)
	if err != nil {
		return nil, err
	}

	chunk := make([]byte, 0, len(header)+len(payload)+1)
	chunk = append(chunk, header...)
	chunk = append(chunk, payload...)
	if PadSize(int64(len(payload))) == 1 {
		chunk = append(chunk, 0)
	}
	return chunk, nil
}
