package iffmeta

import (
	"log/slog"

	"github.com/simonhull/iffmeta/internal/iff"
)

// SaveOption configures behavior when writing files.
//
// Example:
//
//	res, err := iffmeta.WriteTags("song.aiff", tags,
//	    iffmeta.WithBackup(".bak"),
//	    iffmeta.WithValidation(),
//	)
type SaveOption func(*saveOptions)

// saveOptions holds configuration for writing files.
type saveOptions struct {
	logger          *slog.Logger
	backupSuffix    string // Suffix for backup file (e.g., ".bak")
	bufferSize      int    // Bytes moved per step when compacting
	validate        bool   // Re-read after write to verify
	preserveModTime bool   // Keep original modification time
}

// defaultSaveOptions returns the default configuration for saving.
func defaultSaveOptions() *saveOptions {
	return &saveOptions{
		logger:     slog.New(slog.DiscardHandler),
		bufferSize: iff.DefaultBufferSize,
	}
}

// WithBackup copies the original file before modifying it.
//
// The backup file has the suffix appended to the original filename:
// WithBackup(".bak") copies "song.aiff" to "song.aiff.bak". An existing
// backup is overwritten.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing to verify integrity.
//
// The file is re-parsed and its declared container size and ID3 payload
// are compared with what was written.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}

// WithBufferSize bounds the memory used to move chunks that follow a
// removed ID3 chunk. Values below one restore the default of 4 MiB.
func WithBufferSize(n int) SaveOption {
	return func(o *saveOptions) {
		if n < 1 {
			n = iff.DefaultBufferSize
		}
		o.bufferSize = n
	}
}

// WithSaveLogger routes diagnostic logging of a write to logger. Without it,
// or with a nil logger, nothing is logged.
func WithSaveLogger(logger *slog.Logger) SaveOption {
	return func(o *saveOptions) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		o.logger = logger
	}
}
