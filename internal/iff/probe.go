package iff

import (
	"fmt"
	"log/slog"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

type probeState int

const (
	stateScanning probeState = iota
	stateCorruptLate
	stateCorruptEarly
	stateDone
)

func (s probeState) String() string {
	switch s {
	case stateScanning:
		return "scanning"
	case stateCorruptLate:
		return "corrupt-late"
	case stateCorruptEarly:
		return "corrupt-early"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Probe reads the container in sr and returns its layout snapshot.
func Probe(sr *binary.SafeReader, logger *slog.Logger) (*types.Layout, error) {
	w, err := NewWalker(sr, logger)
	if err != nil {
		return nil, err
	}
	return w.Probe()
}

// prober carries the mutable state of one metadata scan.
type prober struct {
	w        *Walker
	layout   *types.Layout
	pos      int64
	state    probeState
	flagged  bool
	resynced map[int64]bool // positions already rewound to
}

// Probe scans the chunks for the metadata chunk, healing ids displaced by a
// missing or extra pad byte. The first metadata chunk with a non-empty
// payload wins; later ones are recorded in the chunk list only.
//
// A chunk header that cannot be decoded before any chunk was recorded is
// returned as an error. Later failures end the scan with a warning.
func (w *Walker) Probe() (*types.Layout, error) {
	p := &prober{
		w: w,
		layout: &types.Layout{
			Header:   w.header,
			FileSize: w.sr.Size(),
		},
		pos:      types.ContainerHeaderSize,
		state:    stateScanning,
		resynced: make(map[int64]bool),
	}

	for p.state != stateDone {
		if err := p.step(); err != nil {
			return nil, err
		}
	}

	if p.pos > w.header.FormEnd() {
		p.layout.LastChunkExtendsPastDeclaredSize = true
	}

	w.logger.Debug("probe complete",
		"chunks", len(p.layout.Chunks),
		"metadata", p.layout.HasMetadata(),
		"incorrectly_aligned", p.layout.IncorrectlyAligned,
		"end", p.pos,
		"form_end", w.header.FormEnd())

	return p.layout, nil
}

func (p *prober) step() error {
	switch p.state {
	case stateCorruptLate:
		p.resync(p.pos - 1)
		return nil
	case stateCorruptEarly:
		p.resync(p.pos + 1)
		return nil
	}

	if !p.w.inBounds(p.pos) {
		p.state = stateDone
		return nil
	}

	h, err := p.w.headerAt(p.pos)
	if err != nil {
		if len(p.layout.Chunks) == 0 {
			return err
		}
		p.w.logger.Warn("unable to read chunk header", "offset", p.pos, "error", err)
		p.warn("chunks", p.pos, "stopped scanning chunks: %v", err)
		p.state = stateDone
		return nil
	}

	if shift, ok := p.w.family.CorruptShift(h.ID); ok && p.canResync(h.Offset, shift) {
		p.w.logger.Warn("found displaced metadata chunk id",
			"id", h.ID, "offset", h.Offset, "shift", shift)
		p.warn("alignment", h.Offset, "chunk id %q is displaced one byte %s", h.ID, shift)
		if !p.layout.HasMetadata() && !p.flagged {
			p.layout.IncorrectlyAligned = true
			p.flagged = true
		}
		if shift == ShiftLate {
			p.state = stateCorruptLate
		} else {
			p.state = stateCorruptEarly
		}
		return nil
	}

	p.layout.Chunks = append(p.layout.Chunks, h.Summary())

	if p.w.family.IsMetadata(h.ID) && h.Size > 0 {
		if err := p.capture(h); err != nil {
			return err
		}
	} else {
		p.w.logger.Debug("skipping chunk", "id", h.ID, "offset", h.Offset, "size", h.Size)
	}

	p.pos = p.w.advance(h)
	return nil
}

// canResync reports whether the recovery target for a displaced id at off is
// usable: inside the chunk area and not already visited.
func (p *prober) canResync(off int64, shift Shift) bool {
	target := off + 1
	if shift == ShiftLate {
		target = off - 1
	}
	return target >= types.ContainerHeaderSize && !p.resynced[target]
}

func (p *prober) resync(target int64) {
	p.resynced[target] = true
	p.pos = target
	p.state = stateScanning
}

func (p *prober) capture(h ChunkHeader) error {
	if p.layout.HasMetadata() {
		p.w.logger.Warn("ignoring duplicate metadata chunk", "id", h.ID, "offset", h.Offset)
		p.warn("metadata", h.Offset, "duplicate metadata chunk %q ignored, keeping the one at offset %d",
			h.ID, p.layout.Metadata.Offset)
		return nil
	}

	// A chunk cut off by the end of the file keeps the bytes that exist and
	// ends at the end of the file, so a write overwrites it in place.
	n := int64(h.Size)
	end := h.End()
	if end > p.w.sr.Size() {
		n = p.w.sr.Available(h.PayloadOffset())
		end = p.w.sr.Size()
		p.w.logger.Warn("metadata chunk runs past end of file", "id", h.ID, "offset", h.Offset, "size", h.Size, "available", n)
		p.warn("metadata", h.Offset, "metadata chunk %q declares %d bytes but only %d remain",
			h.ID, h.Size, n)
	} else if PadSize(n) == 1 && end < p.w.sr.Size() {
		end++
	}

	payload := make([]byte, n)
	if n > 0 {
		if err := p.w.sr.ReadAt(payload, h.PayloadOffset(), "metadata chunk"); err != nil {
			return err
		}
	}

	p.layout.Metadata = &types.MetadataRecord{
		ID:            h.ID,
		Payload:       payload,
		Offset:        h.Offset,
		PayloadOffset: h.PayloadOffset(),
		EndOffset:     end,
	}
	p.w.logger.Debug("captured metadata chunk", "id", h.ID, "offset", h.Offset, "size", h.Size)
	return nil
}

func (p *prober) warn(stage string, off int64, format string, args ...any) {
	p.layout.Warnings = append(p.layout.Warnings, types.Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Offset:  off,
	})
}
