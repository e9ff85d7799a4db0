package iffmeta

import (
	"github.com/simonhull/iffmeta/internal/types"
)

// OutOfBoundsError is returned when a read would go past the end of the file.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is returned when a file is not a FORM or RIFF
// container.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is returned when a chunk payload cannot be decoded.
type CorruptedFileError = types.CorruptedFileError

// MalformedContainerError is returned when the 12-byte top-level header is
// missing or carries an unknown signature.
type MalformedContainerError = types.MalformedContainerError

// UnsupportedContainerTypeError is returned for a known signature with an
// unknown subtype, such as "FORM....8SVX".
type UnsupportedContainerTypeError = types.UnsupportedContainerTypeError

// MalformedChunkHeaderError is returned when a chunk header is cut short
// before any chunk could be read.
type MalformedChunkHeaderError = types.MalformedChunkHeaderError

// UnrecoverableCorruptionError is returned when a write is refused because
// repairing a misaligned metadata chunk would destroy other chunks.
type UnrecoverableCorruptionError = types.UnrecoverableCorruptionError

// IOError wraps a failure of the file while reading or writing.
type IOError = types.IOError

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError = types.UnsupportedWriteError

// Warning is a non-fatal issue found while reading or writing a file.
type Warning = types.Warning
