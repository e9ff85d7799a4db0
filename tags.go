package iffmeta

import (
	"github.com/simonhull/iffmeta/internal/types"
)

// Tags holds the fields of an ID3v2 tag.
type Tags = types.Tags

// TextField is a descriptive text chunk stored outside the ID3 tag.
type TextField = types.TextField

// Comment is one entry of an AIFF COMT chunk.
type Comment = types.Comment

// AudioData locates the sound data chunk.
type AudioData = types.AudioData
