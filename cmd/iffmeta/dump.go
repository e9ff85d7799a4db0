package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/zeebo/blake3"

	"github.com/simonhull/iffmeta"
)

type chunkReport struct {
	ID       string `json:"id" yaml:"id"`
	Digest   string `json:"digest,omitempty" yaml:"digest,omitempty"`
	Offset   int64  `json:"offset" yaml:"offset"`
	Size     uint32 `json:"size" yaml:"size"`
	Metadata bool   `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type layoutReport struct {
	Path                             string        `json:"path" yaml:"path"`
	Signature                        string        `json:"signature" yaml:"signature"`
	Subtype                          string        `json:"subtype" yaml:"subtype"`
	Chunks                           []chunkReport `json:"chunks" yaml:"chunks"`
	Warnings                         []string      `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	DeclaredSize                     uint32        `json:"declared_size" yaml:"declared_size"`
	FileSize                         int64         `json:"file_size" yaml:"file_size"`
	IncorrectlyAligned               bool          `json:"incorrectly_aligned" yaml:"incorrectly_aligned"`
	LastChunkExtendsPastDeclaredSize bool          `json:"last_chunk_extends_past_declared_size" yaml:"last_chunk_extends_past_declared_size"`
	TrailingGarbage                  bool          `json:"trailing_garbage" yaml:"trailing_garbage"`
}

func (a *app) dumpCmd() *cli.Command {
	var digest bool

	return &cli.Command{
		Name:      "dump",
		Usage:     "Print the chunk layout of one or more files",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "digest", Usage: "add a BLAKE3 digest of every chunk payload", Destination: &digest},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return errors.New("dump: no files given")
			}

			layouts, err := iffmeta.ReadLayouts(ctx, paths...)
			if err != nil {
				return err
			}

			reports := make([]layoutReport, len(layouts))
			for i, layout := range layouts {
				reports[i] = newLayoutReport(paths[i], layout)
				if digest {
					if err := digestChunks(paths[i], layout.FileSize, reports[i].Chunks); err != nil {
						return err
					}
				}
			}

			return a.render(reports, func(w io.Writer) error {
				for _, r := range reports {
					printLayout(w, r)
				}
				return nil
			})
		},
	}
}

func newLayoutReport(path string, layout *iffmeta.Layout) layoutReport {
	r := layoutReport{
		Path:                             path,
		Signature:                        layout.Header.Signature,
		Subtype:                          layout.Header.Subtype,
		DeclaredSize:                     layout.Header.DeclaredSize,
		FileSize:                         layout.FileSize,
		IncorrectlyAligned:               layout.IncorrectlyAligned,
		LastChunkExtendsPastDeclaredSize: layout.LastChunkExtendsPastDeclaredSize,
		TrailingGarbage:                  layout.HasTrailingGarbage(),
		Chunks:                           make([]chunkReport, len(layout.Chunks)),
	}
	for i, c := range layout.Chunks {
		r.Chunks[i] = chunkReport{
			ID:       c.ID,
			Offset:   c.Offset,
			Size:     c.Size,
			Metadata: layout.Metadata != nil && layout.Metadata.Offset == c.Offset,
		}
	}
	for _, w := range layout.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

// digestChunks hashes the payload of every chunk, clamped to the file.
func digestChunks(path string, size int64, chunks []chunkReport) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := range chunks {
		off := chunks[i].Offset + 8
		n := min(int64(chunks[i].Size), max(size-off, 0))

		h := blake3.New()
		if _, err := io.Copy(h, io.NewSectionReader(f, off, n)); err != nil {
			return fmt.Errorf("digest %s chunk at %d: %w", chunks[i].ID, chunks[i].Offset, err)
		}
		chunks[i].Digest = hex.EncodeToString(h.Sum(nil))
	}
	return nil
}

func printLayout(w io.Writer, r layoutReport) {
	fmt.Fprintf(w, "%s: %s/%s declared %d (ends at %d), file %d bytes\n",
		r.Path, r.Signature, r.Subtype, r.DeclaredSize, int64(r.DeclaredSize)+8, r.FileSize)

	for _, c := range r.Chunks {
		fmt.Fprintf(w, "  %-4s  offset %-10d size %-10d", c.ID, c.Offset, c.Size)
		if c.Metadata {
			fmt.Fprint(w, "  [metadata]")
		}
		if c.Digest != "" {
			fmt.Fprintf(w, "  %s", c.Digest)
		}
		fmt.Fprintln(w)
	}

	if r.IncorrectlyAligned {
		fmt.Fprintln(w, "  metadata chunk is misaligned")
	}
	if r.TrailingGarbage {
		fmt.Fprintf(w, "  %d bytes after the declared end\n", r.FileSize-int64(r.DeclaredSize)-8)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
