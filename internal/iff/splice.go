package iff

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/simonhull/iffmeta/internal/types"
)

// Storage is a file opened for in-place rewriting.
type Storage interface {
	io.ReaderAt
	io.WriterAt
	Truncate(size int64) error
}

// Serializer produces the new metadata payload. space is the number of
// bytes the current metadata chunk occupies (rounded up to even), offered
// so a same-size rewrite can keep the file length. The result should be
// even in length; an odd result is padded on write. An empty result removes
// the metadata chunk, since a zero-size chunk is never read as metadata.
type Serializer func(space int64) ([]byte, error)

// Action names the write path a splice took.
type Action int

const (
	ActionNone           Action = iota // Only the header (and trailing garbage) changed
	ActionAppended                     // New chunk appended, no previous metadata
	ActionReplacedAtTail               // Metadata at end of file overwritten in place
	ActionCompacted                    // Old chunk removed, following chunks shifted, new chunk appended
	ActionRepaired                     // Misaligned metadata cut off and rewritten
	ActionTruncated                    // Metadata at end of file removed
	ActionDeleted                      // Old chunk removed, following chunks shifted
)

func (a Action) String() string {
	switch a {
	case ActionAppended:
		return "appended"
	case ActionReplacedAtTail:
		return "replaced-at-tail"
	case ActionCompacted:
		return "compacted"
	case ActionRepaired:
		return "repaired"
	case ActionTruncated:
		return "truncated"
	case ActionDeleted:
		return "deleted"
	default:
		return "none"
	}
}

// Result describes a completed splice.
type Result struct {
	Warnings  []types.Warning
	Action    Action
	Trimmed   int64 // Foreign bytes removed from the end of the file
	FinalSize int64
}

// SpliceConfig tunes a Splicer.
type SpliceConfig struct {
	Logger     *slog.Logger
	BufferSize int // Zero means DefaultBufferSize
}

// Splicer rewrites the metadata chunk of one container in place.
type Splicer struct {
	st         Storage
	family     *Family
	logger     *slog.Logger
	path       string
	bufferSize int

	size   int64
	result *Result
}

// NewSplicer returns a splicer for st, which holds a container of family.
func NewSplicer(st Storage, path string, family *Family, cfg SpliceConfig) *Splicer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Splicer{
		st:         st,
		family:     family,
		logger:     logger.With("path", path, "container", family.Name),
		path:       path,
		bufferSize: bufferSize,
	}
}

// Replace writes the payload produced by serialize as the container's
// metadata chunk. layout must describe the file as it is now.
func (s *Splicer) Replace(layout *types.Layout, serialize Serializer) (*Result, error) {
	var space int64
	if md := layout.Metadata; md != nil {
		space = md.Size() + PadSize(md.Size())
	}

	payload, err := serialize(space)
	if err != nil {
		return nil, fmt.Errorf("serialize metadata: %w", err)
	}
	if len(payload) == 0 {
		s.logger.Debug("empty metadata payload, removing metadata chunk")
		return s.Delete(layout)
	}
	chunk, err := EncodeChunk(s.family.MetadataID(), payload, s.family.Order)
	if err != nil {
		return nil, err
	}

	s.begin(layout)
	if err := s.trimGarbage(layout); err != nil {
		return nil, err
	}

	md := layout.Metadata
	switch {
	case md == nil:
		s.result.Action = ActionAppended
		err = s.append(chunk)

	case layout.IncorrectlyAligned:
		if err = s.repair(layout); err == nil {
			s.result.Action = ActionRepaired
			err = s.append(chunk)
		}

	case md.EndOffset >= s.size:
		s.result.Action = ActionReplacedAtTail
		err = s.overwriteTail(md.Offset, chunk)

	default:
		if err = s.remove(md); err == nil {
			s.result.Action = ActionCompacted
			s.warnShadowed(layout, md)
			err = s.append(chunk)
		}
	}
	if err != nil {
		return nil, err
	}

	return s.finish()
}

// Delete removes the container's metadata chunk. A file without one only
// has trailing garbage trimmed and its size field rewritten.
func (s *Splicer) Delete(layout *types.Layout) (*Result, error) {
	s.begin(layout)
	if err := s.trimGarbage(layout); err != nil {
		return nil, err
	}

	var err error
	md := layout.Metadata
	switch {
	case md == nil:
		s.result.Action = ActionNone

	case layout.IncorrectlyAligned:
		if err = s.repair(layout); err == nil {
			s.result.Action = ActionRepaired
			err = s.padToEven()
		}

	case md.EndOffset >= s.size:
		s.result.Action = ActionTruncated
		err = s.truncate(md.Offset)

	default:
		s.result.Action = ActionDeleted
		s.warnShadowed(layout, md)
		err = s.remove(md)
	}
	if err != nil {
		return nil, err
	}

	return s.finish()
}

func (s *Splicer) begin(layout *types.Layout) {
	s.size = layout.FileSize
	s.result = &Result{}
}

func (s *Splicer) finish() (*Result, error) {
	if err := RewriteSize(s.st, s.path, s.size, s.family.Order); err != nil {
		return nil, err
	}
	s.result.FinalSize = s.size
	s.logger.Debug("splice complete", "action", s.result.Action, "size", s.size)
	return s.result, nil
}

// trimGarbage drops bytes after the declared end of the container that no
// chunk accounts for.
func (s *Splicer) trimGarbage(layout *types.Layout) error {
	if !layout.HasTrailingGarbage() {
		return nil
	}

	formEnd := layout.Header.FormEnd()
	trimmed := s.size - formEnd
	s.logger.Warn("trimming bytes after declared container end", "form_end", formEnd, "bytes", trimmed)
	s.warn(formEnd, "removed %d bytes after the declared end of the container", trimmed)
	s.result.Trimmed = trimmed
	return s.truncate(formEnd)
}

// remove deletes an aligned metadata chunk that other chunks follow.
func (s *Splicer) remove(md *types.MetadataRecord) error {
	length := md.EndOffset - md.Offset
	s.logger.Debug("removing metadata chunk", "offset", md.Offset, "length", length)
	if err := shiftDown(s.st, s.path, md.EndOffset, length, s.size, s.bufferSize); err != nil {
		return err
	}
	return s.truncate(s.size - length)
}

// repair cuts the file at a misaligned metadata chunk. It refuses when any
// chunk other than metadata follows it.
func (s *Splicer) repair(layout *types.Layout) error {
	md := layout.Metadata
	if !layout.OnlyMetadataFrom(md.Offset, s.family.MetadataIDs...) {
		return &types.UnrecoverableCorruptionError{
			Path:    s.path,
			ChunkID: md.ID,
			Offset:  md.Offset,
			Reason:  "misaligned metadata chunk is followed by other chunks",
		}
	}

	cut := md.Offset
	if cut%2 == 1 {
		if prev, ok := layout.ChunkBefore(md.Offset); !ok || prev.End()%2 == 0 {
			cut--
		}
	}

	s.logger.Warn("repairing misaligned metadata chunk", "offset", md.Offset, "cut", cut)
	s.warn(md.Offset, "rewrote misaligned metadata chunk %q", md.ID)
	return s.truncate(cut)
}

// warnShadowed reports metadata chunks after md that survive its removal.
// The first of them is read as the metadata chunk from then on.
func (s *Splicer) warnShadowed(layout *types.Layout, md *types.MetadataRecord) {
	var first *types.ChunkSummary
	n := 0
	for i, c := range layout.Chunks {
		if c.Offset > md.Offset && c.Size > 0 && s.family.IsMetadata(c.ID) {
			if first == nil {
				first = &layout.Chunks[i]
			}
			n++
		}
	}
	if first == nil {
		return
	}
	s.logger.Warn("further metadata chunks remain", "count", n, "first", first.Offset)
	s.warn(first.Offset, "%d further metadata chunk(s) remain; the one at offset %d now shadows the written metadata",
		n, first.Offset)
}

func (s *Splicer) overwriteTail(off int64, chunk []byte) error {
	if err := s.writeAt(chunk, off); err != nil {
		return err
	}
	return s.truncate(off + int64(len(chunk)))
}

func (s *Splicer) append(chunk []byte) error {
	if err := s.padToEven(); err != nil {
		return err
	}
	if err := s.writeAt(chunk, s.size); err != nil {
		return err
	}
	s.size += int64(len(chunk))
	return nil
}

func (s *Splicer) padToEven() error {
	if PadSize(s.size) == 0 {
		return nil
	}
	if err := s.writeAt([]byte{0}, s.size); err != nil {
		return err
	}
	s.size++
	return nil
}

func (s *Splicer) writeAt(b []byte, off int64) error {
	if _, err := s.st.WriteAt(b, off); err != nil {
		return &types.IOError{Path: s.path, Op: "write", Offset: off, Err: err}
	}
	return nil
}

func (s *Splicer) truncate(size int64) error {
	if err := s.st.Truncate(size); err != nil {
		return &types.IOError{Path: s.path, Op: "truncate", Offset: size, Err: err}
	}
	s.size = size
	return nil
}

func (s *Splicer) warn(off int64, format string, args ...any) {
	s.result.Warnings = append(s.result.Warnings, types.Warning{
		Stage:   "write",
		Message: fmt.Sprintf(format, args...),
		Offset:  off,
	})
}
