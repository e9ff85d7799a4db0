package iffmeta

import (
	"github.com/simonhull/iffmeta/internal/types"
)

// Layout is a snapshot of a container's chunk structure: the chunk list,
// the metadata chunk and the alignment flags.
type Layout = types.Layout

// ContainerHeader is the parsed 12-byte top-level header.
type ContainerHeader = types.ContainerHeader

// ChunkSummary records the id, offset and size of one chunk.
type ChunkSummary = types.ChunkSummary

// MetadataRecord is the metadata chunk of a container.
type MetadataRecord = types.MetadataRecord
