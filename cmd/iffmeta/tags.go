package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/simonhull/iffmeta"
)

type commentReport struct {
	Time   time.Time `json:"time" yaml:"time"`
	Text   string    `json:"text" yaml:"text"`
	Marker uint16    `json:"marker,omitempty" yaml:"marker,omitempty"`
}

type tagsReport struct {
	Frames      map[string][]string `json:"frames,omitempty" yaml:"frames,omitempty"`
	Text        map[string]string   `json:"text,omitempty" yaml:"text,omitempty"`
	Path        string              `json:"path" yaml:"path"`
	Format      string              `json:"format" yaml:"format"`
	Title       string              `json:"title,omitempty" yaml:"title,omitempty"`
	Artist      string              `json:"artist,omitempty" yaml:"artist,omitempty"`
	Album       string              `json:"album,omitempty" yaml:"album,omitempty"`
	AlbumArtist string              `json:"album_artist,omitempty" yaml:"album_artist,omitempty"`
	Composer    string              `json:"composer,omitempty" yaml:"composer,omitempty"`
	Genre       string              `json:"genre,omitempty" yaml:"genre,omitempty"`
	Comment     string              `json:"comment,omitempty" yaml:"comment,omitempty"`
	Lyrics      string              `json:"lyrics,omitempty" yaml:"lyrics,omitempty"`
	Comments    []commentReport     `json:"comments,omitempty" yaml:"comments,omitempty"`
	Warnings    []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Year        int                 `json:"year,omitempty" yaml:"year,omitempty"`
	Track       int                 `json:"track,omitempty" yaml:"track,omitempty"`
	TrackTotal  int                 `json:"track_total,omitempty" yaml:"track_total,omitempty"`
	Disc        int                 `json:"disc,omitempty" yaml:"disc,omitempty"`
	DiscTotal   int                 `json:"disc_total,omitempty" yaml:"disc_total,omitempty"`
	AudioOffset int64               `json:"audio_offset,omitempty" yaml:"audio_offset,omitempty"`
	AudioSize   int64               `json:"audio_size,omitempty" yaml:"audio_size,omitempty"`
	HasTag      bool                `json:"has_tag" yaml:"has_tag"`
}

func (a *app) tagsCmd() *cli.Command {
	return &cli.Command{
		Name:      "tags",
		Usage:     "Print the ID3 tag and descriptive chunks of a file",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return errors.New("tags: expected exactly one file")
			}

			file, err := iffmeta.OpenContext(ctx, cmd.Args().First(), iffmeta.WithLogger(a.logger))
			if err != nil {
				return err
			}
			defer file.Close()

			r := newTagsReport(file)
			return a.render(r, func(w io.Writer) error {
				printTags(w, r)
				return nil
			})
		},
	}
}

func newTagsReport(file *iffmeta.File) tagsReport {
	t := file.Tags
	r := tagsReport{
		Path:        file.Path,
		Format:      file.Format.String(),
		HasTag:      file.HasTag,
		Title:       t.Title,
		Artist:      t.Artist,
		Album:       t.Album,
		AlbumArtist: t.AlbumArtist,
		Composer:    t.Composer,
		Genre:       t.Genre,
		Comment:     t.Comment,
		Lyrics:      t.Lyrics,
		Year:        t.Year,
		Track:       t.TrackNumber,
		TrackTotal:  t.TrackTotal,
		Disc:        t.DiscNumber,
		DiscTotal:   t.DiscTotal,
		AudioOffset: file.Audio.Offset,
		AudioSize:   file.Audio.Size,
	}
	for key, values := range t.All() {
		if r.Frames == nil {
			r.Frames = make(map[string][]string)
		}
		r.Frames[key] = values
	}
	for _, field := range file.Text {
		if r.Text == nil {
			r.Text = make(map[string]string)
		}
		r.Text[field.ID] = field.Value
	}
	for _, c := range file.Comments {
		r.Comments = append(r.Comments, commentReport{Time: c.Timestamp, Text: c.Text, Marker: c.Marker})
	}
	for _, w := range file.Warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	return r
}

func printTags(w io.Writer, r tagsReport) {
	fmt.Fprintf(w, "%s (%s)\n", r.Path, r.Format)
	if !r.HasTag {
		fmt.Fprintln(w, "  no ID3 tag")
	}

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "  %-13s %s\n", name+":", value)
		}
	}
	number := func(name string, n, total int) {
		switch {
		case n == 0:
		case total == 0:
			field(name, fmt.Sprint(n))
		default:
			field(name, fmt.Sprintf("%d/%d", n, total))
		}
	}

	field("Title", r.Title)
	field("Artist", r.Artist)
	field("Album", r.Album)
	field("Album artist", r.AlbumArtist)
	field("Composer", r.Composer)
	field("Genre", r.Genre)
	if r.Year != 0 {
		field("Year", fmt.Sprint(r.Year))
	}
	number("Track", r.Track, r.TrackTotal)
	number("Disc", r.Disc, r.DiscTotal)
	field("Comment", r.Comment)
	field("Lyrics", r.Lyrics)
	for _, key := range slices.Sorted(maps.Keys(r.Frames)) {
		field(key, strings.Join(r.Frames[key], ", "))
	}
	for _, id := range slices.Sorted(maps.Keys(r.Text)) {
		field(id, r.Text[id])
	}
	for _, c := range r.Comments {
		fmt.Fprintf(w, "  comment %s: %s\n", c.Time.Format(time.DateTime), c.Text)
	}
	if r.AudioSize > 0 {
		fmt.Fprintf(w, "  audio data:   %d bytes at %d\n", r.AudioSize, r.AudioOffset)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
