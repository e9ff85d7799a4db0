package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/simonhull/iffmeta"
)

type writeReport struct {
	Path      string   `json:"path" yaml:"path"`
	Action    string   `json:"action" yaml:"action"`
	Warnings  []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Trimmed   int64    `json:"trimmed,omitempty" yaml:"trimmed,omitempty"`
	FinalSize int64    `json:"final_size" yaml:"final_size"`
}

func newWriteReport(path string, res *iffmeta.WriteResult) writeReport {
	r := writeReport{
		Path:      path,
		Action:    res.Action.String(),
		Trimmed:   res.Trimmed,
		FinalSize: res.FinalSize,
	}
	for _, w := range res.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

func (a *app) printWrite(r writeReport) error {
	return a.render(r, func(w io.Writer) error {
		fmt.Fprintf(w, "%s: %s, %d bytes\n", r.Path, r.Action, r.FinalSize)
		if r.Trimmed > 0 {
			fmt.Fprintf(w, "  removed %d trailing bytes\n", r.Trimmed)
		}
		for _, warning := range r.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning)
		}
		return nil
	})
}

// writeFlags are shared by the commands that modify files.
type writeFlags struct {
	backup     string
	bufferSize int
	validate   bool
	keepMTime  bool
}

func (f *writeFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "backup", Usage: "copy the original to FILE+SUFFIX first", Destination: &f.backup},
		&cli.IntFlag{Name: "buffer-size", Usage: "bytes moved per step when compacting", Destination: &f.bufferSize},
		&cli.BoolFlag{Name: "validate", Usage: "re-read the file after writing", Destination: &f.validate},
		&cli.BoolFlag{Name: "preserve-mtime", Usage: "keep the modification time", Destination: &f.keepMTime},
	}
}

// options merges the flags with the config file; flags given on the
// command line win.
func (f *writeFlags) options(cmd *cli.Command, a *app) []iffmeta.SaveOption {
	opts := []iffmeta.SaveOption{iffmeta.WithSaveLogger(a.logger)}

	backup := f.backup
	if !cmd.IsSet("backup") {
		backup = a.cfg.BackupSuffix
	}
	if backup != "" {
		opts = append(opts, iffmeta.WithBackup(backup))
	}

	bufferSize := f.bufferSize
	if !cmd.IsSet("buffer-size") && a.cfg.BufferSize != nil {
		bufferSize = *a.cfg.BufferSize
	}
	if bufferSize > 0 {
		opts = append(opts, iffmeta.WithBufferSize(bufferSize))
	}

	if f.validate || (!cmd.IsSet("validate") && a.cfg.Validate) {
		opts = append(opts, iffmeta.WithValidation())
	}
	if f.keepMTime {
		opts = append(opts, iffmeta.WithPreserveModTime())
	}
	return opts
}

func (a *app) setCmd() *cli.Command {
	var (
		wf                                                 writeFlags
		title, artist, album, albumArtist, composer, genre string
		comment, lyrics, track, disc                       string
		year                                               int
		fresh                                              bool
	)

	flags := []cli.Flag{
		&cli.StringFlag{Name: "title", Destination: &title},
		&cli.StringFlag{Name: "artist", Destination: &artist},
		&cli.StringFlag{Name: "album", Destination: &album},
		&cli.StringFlag{Name: "album-artist", Destination: &albumArtist},
		&cli.StringFlag{Name: "composer", Destination: &composer},
		&cli.StringFlag{Name: "genre", Destination: &genre},
		&cli.StringFlag{Name: "comment", Destination: &comment},
		&cli.StringFlag{Name: "lyrics", Destination: &lyrics},
		&cli.IntFlag{Name: "year", Destination: &year},
		&cli.StringFlag{Name: "track", Usage: "track number, optionally N/TOTAL", Destination: &track},
		&cli.StringFlag{Name: "disc", Usage: "disc number, optionally N/TOTAL", Destination: &disc},
		&cli.StringSliceFlag{Name: "frame", Usage: "raw text frame as ID=VALUE (repeatable)"},
		&cli.BoolFlag{Name: "clear", Usage: "start from an empty tag instead of the current one", Destination: &fresh},
	}

	return &cli.Command{
		Name:      "set",
		Usage:     "Write ID3 fields into a file",
		ArgsUsage: "FILE",
		Flags:     append(flags, wf.flags()...),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("set: expected exactly one file")
			}
			path := cmd.Args().First()

			tags := &iffmeta.Tags{}
			if !fresh {
				file, err := iffmeta.OpenContext(ctx, path, iffmeta.WithLogger(a.logger), iffmeta.WithoutInfoPass())
				if err != nil {
					return err
				}
				tags = file.Tags.Clone()
				_ = file.Close()
			}

			strs := map[string]*string{
				"title":        &tags.Title,
				"artist":       &tags.Artist,
				"album":        &tags.Album,
				"album-artist": &tags.AlbumArtist,
				"composer":     &tags.Composer,
				"genre":        &tags.Genre,
				"comment":      &tags.Comment,
				"lyrics":       &tags.Lyrics,
			}
			for name, field := range strs {
				if cmd.IsSet(name) {
					*field = cmd.String(name)
				}
			}
			if cmd.IsSet("year") {
				tags.Year = year
			}
			if cmd.IsSet("track") {
				n, total, err := parsePosition(track)
				if err != nil {
					return fmt.Errorf("--track: %w", err)
				}
				tags.TrackNumber, tags.TrackTotal = n, total
			}
			if cmd.IsSet("disc") {
				n, total, err := parsePosition(disc)
				if err != nil {
					return fmt.Errorf("--disc: %w", err)
				}
				tags.DiscNumber, tags.DiscTotal = n, total
			}
			for _, raw := range cmd.StringSlice("frame") {
				id, value, err := parseFrame(raw)
				if err != nil {
					return err
				}
				if value == "" {
					tags.Set(id)
				} else {
					tags.Set(id, value)
				}
			}

			res, err := iffmeta.WriteTags(path, tags, wf.options(cmd, a)...)
			if err != nil {
				return err
			}
			return a.printWrite(newWriteReport(path, res))
		},
	}
}

// parsePosition parses "N" or "N/TOTAL". An empty string clears both.
func parsePosition(s string) (n, total int, err error) {
	if s == "" {
		return 0, 0, nil
	}
	num, tot, found := strings.Cut(s, "/")
	if n, err = strconv.Atoi(strings.TrimSpace(num)); err != nil || n < 0 {
		return 0, 0, fmt.Errorf("invalid number %q", s)
	}
	if found {
		if total, err = strconv.Atoi(strings.TrimSpace(tot)); err != nil || total < 0 {
			return 0, 0, fmt.Errorf("invalid total %q", s)
		}
	}
	return n, total, nil
}

// parseFrame splits "ID=VALUE". The id must be four characters.
func parseFrame(s string) (id, value string, err error) {
	id, value, ok := strings.Cut(s, "=")
	if !ok || len(id) != 4 {
		return "", "", fmt.Errorf("invalid frame %q: want ID=VALUE with a four character id", s)
	}
	return strings.ToUpper(id), value, nil
}
