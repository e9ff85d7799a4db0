package iffmeta

// Format packages register their parsers and writers on init.
import (
	_ "github.com/simonhull/iffmeta/internal/aiff"
	_ "github.com/simonhull/iffmeta/internal/wav"
)
