// Package types provides core data structures for chunk container metadata.
//
// This package defines the File, Layout, Tags and error types shared by the
// container engine, the format packages and the public API.
package types

import (
	"io"
	"time"
)

// File represents an opened container with parsed metadata.
//
// File uses lazy loading - opening a file reads only chunk headers, the
// metadata chunk and the small descriptive chunks, never the audio data.
type File struct {
	Reader_  io.ReaderAt //nolint:revive // Underscore indicates internal/unexported semantics
	Layout   *Layout
	Path     string
	Text     []TextField
	Comments []Comment
	Warnings []Warning
	Tags     Tags
	Audio    AudioData
	Format   Format
	Size     int64
	HasTag   bool
}

// TextField is a descriptive text chunk outside the ID3 tag, such as an AIFF
// NAME chunk or a WAV LIST/INFO INAM entry.
type TextField struct {
	ID    string
	Value string
}

// Comment is one entry of an AIFF COMT chunk.
type Comment struct {
	Timestamp time.Time
	Text      string
	Marker    uint16
}

// AudioData locates the sound data chunk (SSND or data) without reading it.
type AudioData struct {
	ChunkID string
	Offset  int64 // Offset of the first payload byte
	Size    int64
}
