package registry

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/id3"
	"github.com/simonhull/iffmeta/internal/iff"
	"github.com/simonhull/iffmeta/internal/types"
)

// InfoHandlers builds the info-pass chunk handlers that fill in file.
type InfoHandlers func(file *types.File) iff.Handlers

// ParseContainer is the parse routine shared by the format packages. It
// probes the layout, decodes the metadata chunk and runs the info pass with
// the handlers from info.
func ParseContainer(r io.ReaderAt, size int64, path string, opts ParseOptions, info InfoHandlers) (*types.File, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	sr := binary.NewSafeReader(r, size, path)
	w, err := iff.NewWalker(sr, logger)
	if err != nil {
		return nil, err
	}

	layout, err := w.Probe()
	if err != nil {
		return nil, err
	}

	file := &types.File{
		Reader_:  r,
		Layout:   layout,
		Path:     path,
		Format:   layout.Header.Format,
		Size:     size,
		Warnings: slices.Clone(layout.Warnings),
	}

	if md := layout.Metadata; md != nil {
		tags, err := id3.Decode(md.Payload)
		if err != nil {
			file.Warnings = append(file.Warnings, types.Warning{
				Stage:   "metadata",
				Message: fmt.Sprintf("failed to decode %q chunk: %v", md.ID, err),
				Offset:  md.Offset,
			})
		} else {
			file.Tags = *tags
			file.HasTag = true
		}
	}

	if opts.InfoPass && info != nil {
		result := w.Walk(info(file))
		for _, warning := range result.Warnings {
			seen := slices.ContainsFunc(file.Warnings, func(existing types.Warning) bool {
				return existing.Stage == warning.Stage && existing.Offset == warning.Offset
			})
			if !seen {
				file.Warnings = append(file.Warnings, warning)
			}
		}
	}

	return file, nil
}
