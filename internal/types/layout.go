package types

import "slices"

// ChunkHeaderSize is the size of a chunk id plus its 32-bit size field.
const ChunkHeaderSize = 8

// ContainerHeaderSize is the size of the top-level signature, declared size
// and subtype.
const ContainerHeaderSize = 12

// ContainerHeader is the parsed 12-byte top-level header.
type ContainerHeader struct {
	Signature    string // "FORM" or "RIFF"
	Subtype      string // "AIFF", "AIFC", "WAVE"
	Format       Format
	DeclaredSize uint32 // Payload bytes following the signature and size field
}

// FormEnd returns the offset at which the declared container data ends.
func (h ContainerHeader) FormEnd() int64 {
	return int64(h.DeclaredSize) + ChunkHeaderSize
}

// ChunkSummary is the lightweight record kept for every chunk seen during a
// metadata scan, including recovered and duplicate metadata chunks.
type ChunkSummary struct {
	ID     string
	Offset int64  // Position of the chunk id
	Size   uint32 // Payload size, header and pad excluded
}

// End returns the offset just past the chunk payload, pad byte excluded.
func (c ChunkSummary) End() int64 {
	return c.Offset + ChunkHeaderSize + int64(c.Size)
}

// MetadataRecord is the authoritative metadata chunk of a container.
type MetadataRecord struct {
	ID            string
	Payload       []byte
	Offset        int64 // Position of the chunk id
	PayloadOffset int64
	EndOffset     int64 // Exclusive; includes the pad byte when present in the file
}

// Size returns the payload size of the metadata chunk. For a chunk cut off
// by the end of the file this is the number of bytes present, not the
// declared size.
func (m *MetadataRecord) Size() int64 {
	return int64(len(m.Payload))
}

// Layout is a snapshot of a container produced by a metadata scan.
//
// A Layout describes the file at the moment it was read. Writers rebuild it
// immediately before mutating a file and never reuse one across operations.
type Layout struct {
	Metadata                         *MetadataRecord
	Chunks                           []ChunkSummary
	Warnings                         []Warning
	Header                           ContainerHeader
	FileSize                         int64
	IncorrectlyAligned               bool
	LastChunkExtendsPastDeclaredSize bool
}

// DeclaredFormSize returns the size recorded in the top-level header.
func (l *Layout) DeclaredFormSize() int64 {
	return int64(l.Header.DeclaredSize)
}

// HasMetadata reports whether a metadata chunk was found.
func (l *Layout) HasMetadata() bool {
	return l.Metadata != nil
}

// HasTrailingGarbage reports whether bytes follow the declared end of the
// container that no chunk accounts for.
func (l *Layout) HasTrailingGarbage() bool {
	return l.Header.FormEnd() < l.FileSize && !l.LastChunkExtendsPastDeclaredSize
}

// ChunkBefore returns the summary of the chunk immediately preceding the
// chunk at offset, if any.
func (l *Layout) ChunkBefore(offset int64) (ChunkSummary, bool) {
	for i, c := range l.Chunks {
		if c.Offset == offset {
			if i == 0 {
				return ChunkSummary{}, false
			}
			return l.Chunks[i-1], true
		}
	}
	return ChunkSummary{}, false
}

// OnlyMetadataFrom reports whether every chunk from the one at offset to the
// end of the chunk list has one of the given ids. It is false when no chunk
// starts at offset.
func (l *Layout) OnlyMetadataFrom(offset int64, ids ...string) bool {
	found := false
	for _, c := range l.Chunks {
		if !found {
			found = c.Offset == offset
			continue
		}
		if !slices.Contains(ids, c.ID) {
			return false
		}
	}
	return found
}
