package iffmeta

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/id3"
	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/registry"
	"github.com/simonhull/iffmeta/internal/types"
)

// WriteResult describes a completed write: the path taken, the foreign bytes
// trimmed from the end of the file, the final file size and any conditions
// the write recovered from.
type WriteResult = iff.Result

// WriteAction names the path a write took.
type WriteAction = iff.Action

// Write actions.
const (
	ActionNone           = iff.ActionNone
	ActionAppended       = iff.ActionAppended
	ActionReplacedAtTail = iff.ActionReplacedAtTail
	ActionCompacted      = iff.ActionCompacted
	ActionRepaired       = iff.ActionRepaired
	ActionTruncated      = iff.ActionTruncated
	ActionDeleted        = iff.ActionDeleted
)

// ErrLocked is returned when another process holds the write lock on a file.
var ErrLocked = errors.New("file is locked by another writer")

// spliceFunc runs one splice against a freshly probed file.
type spliceFunc func(w registry.FormatWriter, st iff.Storage, layout *types.Layout, cfg iff.SpliceConfig) (*iff.Result, error)

// WriteTags encodes tags as an ID3v2.4 tag and stores it in the metadata
// chunk of the container at path.
//
// The file is rewritten in place: only the metadata chunk, the trailing pad
// byte and the container size field change. Chunks that follow an existing
// metadata chunk are moved down to close the gap, and the new chunk goes at
// the end of the file.
//
//	res, err := iffmeta.WriteTags("song.aiff", &iffmeta.Tags{Title: "Intro"})
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Action) // appended, replaced-at-tail, compacted, repaired
func WriteTags(path string, tags *Tags, opts ...SaveOption) (*WriteResult, error) {
	if tags == nil {
		tags = &Tags{}
	}
	return WriteMetadata(path, func(space int64) ([]byte, error) {
		return id3.Encode(tags, space)
	}, opts...)
}

// WritePayload stores payload verbatim as the metadata chunk of the
// container at path. An odd-length payload gets a pad byte; an empty one
// removes the metadata chunk.
func WritePayload(path string, payload []byte, opts ...SaveOption) (*WriteResult, error) {
	return WriteMetadata(path, func(int64) ([]byte, error) {
		return payload, nil
	}, opts...)
}

// WriteMetadata stores the payload produced by serialize as the metadata
// chunk of the container at path.
//
// serialize receives the number of bytes the current metadata chunk
// occupies, so an encoder can pad its output to the same size.
func WriteMetadata(path string, serialize func(space int64) ([]byte, error), opts ...SaveOption) (*WriteResult, error) {
	options := applySaveOptions(opts)

	var written []byte
	capture := func(space int64) ([]byte, error) {
		payload, err := serialize(space)
		written = payload
		return payload, err
	}

	res, err := rewrite(path, options, func(w registry.FormatWriter, st iff.Storage, layout *types.Layout, cfg iff.SpliceConfig) (*iff.Result, error) {
		return w.Replace(st, layout, path, capture, cfg)
	})
	if err != nil {
		return nil, err
	}

	if options.validate {
		if err := validateWrittenFile(path, res, written); err != nil {
			return res, fmt.Errorf("validation failed: %w", err)
		}
	}
	return res, nil
}

// DeleteTags removes the metadata chunk of the container at path. A file
// without one only has trailing garbage trimmed and its size field
// rewritten.
func DeleteTags(path string, opts ...SaveOption) (*WriteResult, error) {
	options := applySaveOptions(opts)

	res, err := rewrite(path, options, func(w registry.FormatWriter, st iff.Storage, layout *types.Layout, cfg iff.SpliceConfig) (*iff.Result, error) {
		return w.Delete(st, layout, path, cfg)
	})
	if err != nil {
		return nil, err
	}

	if options.validate {
		if err := validateWrittenFile(path, res, nil); err != nil {
			return res, fmt.Errorf("validation failed: %w", err)
		}
	}
	return res, nil
}

// Save writes f.Tags back to the file and re-reads the metadata.
//
//	file.Tags.Title = "New Title"
//	if _, err := file.Save(iffmeta.WithBackup(".bak")); err != nil {
//		return err
//	}
//
// Returns UnsupportedWriteError if no writer is registered for the format.
func (f *File) Save(opts ...SaveOption) (*WriteResult, error) {
	if f.Reader_ == nil {
		return nil, fmt.Errorf("file not open: reader is nil")
	}
	if registry.GetWriter(f.Format) == nil {
		return nil, &types.UnsupportedWriteError{
			Format: f.Format,
			Reason: "no writer registered",
		}
	}

	tags := f.Tags.Clone()
	res, err := WriteTags(f.Path, tags, opts...)
	if err != nil {
		return nil, err
	}

	options := f.options
	if options == nil {
		options = defaultOptions()
	}
	refreshed, err := openReader(f.Reader_, res.FinalSize, f.Path, options)
	if err != nil {
		return res, fmt.Errorf("re-read: %w", err)
	}
	f.File = refreshed.File
	return res, nil
}

func applySaveOptions(opts []SaveOption) *saveOptions {
	options := defaultSaveOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// rewrite opens path for in-place modification, takes the write lock,
// probes a fresh layout and runs splice against it.
func rewrite(path string, options *saveOptions, splice spliceFunc) (*iff.Result, error) { //nolint:gocyclo // In-place rewrites require sequential steps
	var origInfo os.FileInfo
	if options.preserveModTime {
		if info, err := os.Stat(path); err == nil {
			origInfo = info
		}
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Closed after Sync

	if err := lockFile(f); err != nil {
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}
	defer unlockFile(f) //nolint:errcheck // Released on close anyway

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	size := stat.Size()

	format, err := DetectFormat(f, size, path)
	if err != nil {
		return nil, err
	}
	writer := registry.GetWriter(format)
	if writer == nil {
		return nil, &types.UnsupportedWriteError{
			Format: format,
			Reason: "no writer registered",
		}
	}

	if options.backupSuffix != "" {
		if err := copyBackup(f, size, path+options.backupSuffix, stat.Mode().Perm()); err != nil {
			return nil, fmt.Errorf("create backup: %w", err)
		}
	}

	logger := options.logger.With("path", path, "format", format.String())
	layout, err := iff.Probe(binary.NewSafeReader(f, size, path), options.logger)
	if err != nil {
		return nil, err
	}
	if layout.IncorrectlyAligned {
		logger.Info("metadata chunk is misaligned, rewrite will repair it")
	}

	res, err := splice(writer, f, layout, iff.SpliceConfig{
		Logger:     options.logger,
		BufferSize: options.bufferSize,
	})
	if err != nil {
		return nil, err
	}

	if err := f.Sync(); err != nil {
		return nil, fmt.Errorf("sync file: %w", err)
	}

	if origInfo != nil {
		_ = os.Chtimes(path, origInfo.ModTime(), origInfo.ModTime()) //nolint:errcheck // Non-fatal: file was written successfully
	}

	logger.Debug("metadata written", "action", res.Action, "size", res.FinalSize, "trimmed", res.Trimmed)
	return res, nil
}

// copyBackup copies the first size bytes of src to path.
func copyBackup(src io.ReaderAt, size int64, path string, perm os.FileMode) error {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, io.NewSectionReader(src, 0, size)); err != nil {
		_ = dst.Close() //nolint:errcheck // Copy error takes precedence
		return err
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close() //nolint:errcheck // Sync error takes precedence
		return err
	}
	return dst.Close()
}

// validateWrittenFile probes path again and checks the size field, the file
// size and the metadata chunk against what was written. want is nil after a
// delete.
func validateWrittenFile(path string, res *iff.Result, want []byte) error {
	layout, err := ReadLayout(path)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}

	if layout.FileSize != res.FinalSize {
		return fmt.Errorf("file size mismatch: got %d, want %d", layout.FileSize, res.FinalSize)
	}
	if got := layout.Header.FormEnd(); got != res.FinalSize {
		return fmt.Errorf("declared size mismatch: container ends at %d, file at %d", got, res.FinalSize)
	}
	if layout.IncorrectlyAligned {
		return errors.New("metadata chunk is still misaligned")
	}

	if len(want) == 0 {
		if layout.Metadata != nil {
			return fmt.Errorf("unexpected metadata chunk at offset %d", layout.Metadata.Offset)
		}
		return nil
	}
	if layout.Metadata == nil {
		return errors.New("metadata chunk missing")
	}
	if !bytes.Equal(layout.Metadata.Payload, want) {
		return fmt.Errorf("metadata payload mismatch: got %d bytes, want %d", len(layout.Metadata.Payload), len(want))
	}
	return nil
}
