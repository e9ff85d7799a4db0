package iffmeta

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/registry"
	"github.com/simonhull/iffmeta/internal/types"
)

// File is an opened container with its parsed metadata.
//
// The embedded types.File exposes Tags, Text, Comments, Audio, Layout and
// Warnings. Opening reads chunk headers, the metadata chunk and the small
// descriptive chunks; sample data is never read.
//
// Always call Close() when done to release file resources:
//
//	file, err := iffmeta.Open("song.aiff")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	types.File

	options *openOptions
}

// Open opens a container file and reads its metadata.
//
// Supported formats: AIFF, AIFF-C, WAV.
//
// Recoverable problems (a chunk id shifted by a missing pad byte, a duplicate
// ID3 chunk, an undecodable text chunk) are reported in File.Warnings rather
// than as errors.
//
//	file, err := iffmeta.Open("song.wav", iffmeta.WithStrictParsing())
func Open(path string, opts ...Option) (*File, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file: %w", err)
	}

	file, err := openReader(f, stat.Size(), path, options)
	if err != nil {
		f.Close()
		return nil, err
	}

	if options.strictParsing && len(file.Warnings) > 0 {
		f.Close()
		return nil, fmt.Errorf("strict parsing failed: %s", file.Warnings[0])
	}

	return file, nil
}

// openReader parses from an io.ReaderAt (internal, for testing)
func openReader(r io.ReaderAt, size int64, path string, options *openOptions) (*File, error) {
	format, err := DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	parser := registry.Get(format)
	if parser == nil {
		return nil, &UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("no parser available for format %s", format),
		}
	}

	parsed, err := parser.Parse(r, size, path, registry.ParseOptions{
		Logger:   options.logger,
		InfoPass: options.infoPass,
	})
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	parsed.Reader_ = r
	parsed.Path = path
	parsed.Size = size

	if options.ignoreWarnings {
		parsed.Warnings = nil
	}

	return &File{File: *parsed, options: options}, nil
}

// Close releases resources held by the file.
//
// After Close is called, the File should not be used.
func (f *File) Close() error {
	if closer, ok := f.Reader_.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked before the file is opened.
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, opts...)
}

// OpenMany opens multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines, each
// with its own handle. Results are returned in the same order as the input
// paths.
//
// If any file fails to open, all successfully opened files are closed and
// an error is returned.
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}

	return results, nil
}

// ReadLayout returns the chunk layout of the container at path: the chunk
// list, the metadata chunk and the alignment flags.
//
// The layout is a snapshot of the file at the time of the call.
func ReadLayout(path string, opts ...Option) (*Layout, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return iff.Probe(binary.NewSafeReader(f, stat.Size(), path), options.logger)
}

// ReadLayouts reads the layouts of many files concurrently. Results are in
// input order.
func ReadLayouts(ctx context.Context, paths ...string) ([]*Layout, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Layout, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			layout, err := ReadLayout(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = layout
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
