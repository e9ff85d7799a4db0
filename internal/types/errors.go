package types

import "fmt"

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when the file is not a FORM or RIFF
// container this library understands.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// MalformedContainerError is returned when the top-level header is missing
// or its signature is not one of the recognized container magic values.
type MalformedContainerError struct {
	Path      string
	Signature string
	Reason    string
}

func (e *MalformedContainerError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("%s: malformed container (signature %q): %s", e.Path, e.Signature, e.Reason)
	}
	return fmt.Sprintf("%s: malformed container: %s", e.Path, e.Reason)
}

// UnsupportedContainerTypeError is returned when the signature is known but
// the container subtype is not.
type UnsupportedContainerTypeError struct {
	Path      string
	Signature string
	Subtype   string
}

func (e *UnsupportedContainerTypeError) Error() string {
	return fmt.Sprintf("%s: unsupported %s container type %q", e.Path, e.Signature, e.Subtype)
}

// MalformedChunkHeaderError is returned when fewer than eight bytes are
// available where a chunk header is expected.
type MalformedChunkHeaderError struct {
	Path      string
	Offset    int64
	Available int64
}

func (e *MalformedChunkHeaderError) Error() string {
	return fmt.Sprintf("%s: malformed chunk header at offset %d: %d bytes available, need 8",
		e.Path, e.Offset, e.Available)
}

// UnrecoverableCorruptionError is returned when a write is refused because
// repairing the metadata chunk would destroy other chunks.
type UnrecoverableCorruptionError struct {
	Path    string
	ChunkID string
	Reason  string
	Offset  int64
}

func (e *UnrecoverableCorruptionError) Error() string {
	return fmt.Sprintf("%s: unrecoverable corruption at offset %d (chunk %q): %s",
		e.Path, e.Offset, e.ChunkID, e.Reason)
}

// IOError wraps a failure of the underlying byte source or sink.
type IOError struct {
	Err    error
	Path   string
	Op     string
	Offset int64
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s at offset %d: %v", e.Path, e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Warning represents a non-fatal issue encountered while reading or
// rewriting a container.
//
// Warnings cover conditions the library recovers from locally:
//   - a chunk id shifted by one byte (missing or extra pad byte)
//   - a duplicate metadata chunk (the first one wins)
//   - foreign bytes after the declared end of the container
//   - a chunk payload handler that could not decode its chunk
type Warning struct {
	// Stage where the warning occurred
	Stage string // "chunks", "metadata", "alignment", "write"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

// UnsupportedWriteError indicates write is not supported for this format.
type UnsupportedWriteError struct {
	Reason string
	Format Format
}

func (e *UnsupportedWriteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("write not supported for %s: %s", e.Format, e.Reason)
	}
	return fmt.Sprintf("write not supported for %s", e.Format)
}
