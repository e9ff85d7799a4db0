package iffmeta

import "log/slog"

// Option configures behavior when opening files.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	file, err := iffmeta.Open("song.aiff",
//	    iffmeta.WithStrictParsing(),
//	    iffmeta.WithLogger(logger),
//	)
type Option func(*openOptions)

// openOptions holds configuration for opening files.
type openOptions struct {
	logger         *slog.Logger
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
	infoPass       bool // Decode text, comment and audio data chunks
}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		logger:   slog.New(slog.DiscardHandler),
		infoPass: true,
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, iffmeta recovers from shifted chunk ids, duplicate ID3 chunks
// and undecodable text chunks, returning warnings alongside the parsed data.
// With strict parsing enabled, any warning makes Open fail.
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
//	file, err := iffmeta.Open("song.wav", iffmeta.WithIgnoreWarnings())
//	// file.Warnings will always be empty
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithLogger routes diagnostic logging to logger. Without it, or with a nil
// logger, nothing is logged; the same conditions are always returned as
// warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *openOptions) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		o.logger = logger
	}
}

// WithoutInfoPass skips the descriptive chunks (NAME, COMT, LIST/INFO, ...)
// and reads only the chunk layout and the ID3 tag.
func WithoutInfoPass() Option {
	return func(o *openOptions) {
		o.infoPass = false
	}
}
