// Package id3 converts between Tags and the ID3v2 payload stored in a
// container's metadata chunk.
//
// Decoding is done by github.com/dhowden/tag and encoding by
// github.com/bogem/id3v2; this package maps fields between them and sizes
// the encoded tag for in-place rewrites.
package id3

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"

	"github.com/simonhull/iffmeta/internal/types"
)

const headerSize = 10

// Frames that map onto Tags fields. Everything else is carried as raw text.
var mappedFrames = map[string]bool{
	"TIT2": true,
	"TPE1": true,
	"TALB": true,
	"TPE2": true,
	"TCOM": true,
	"TCON": true,
	"TDRC": true,
	"TYER": true,
	"TRCK": true,
	"TPOS": true,
	"COMM": true,
	"USLT": true,
}

// ErrNotID3 is returned when a payload does not start with an ID3v2 header.
var ErrNotID3 = errors.New("payload is not an ID3v2 tag")

// Decode parses an ID3v2 payload.
func Decode(payload []byte) (*types.Tags, error) {
	size, err := Size(payload)
	if err != nil {
		return nil, err
	}
	if size > int64(len(payload)) {
		return nil, fmt.Errorf("id3v2 tag declares %d bytes, chunk holds %d", size, len(payload))
	}

	m, err := tag.ReadID3v2Tags(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decode id3v2: %w", err)
	}

	tags := &types.Tags{
		Title:       m.Title(),
		Artist:      m.Artist(),
		Album:       m.Album(),
		AlbumArtist: m.AlbumArtist(),
		Composer:    m.Composer(),
		Genre:       m.Genre(),
		Comment:     m.Comment(),
		Lyrics:      m.Lyrics(),
		Year:        m.Year(),
	}
	tags.TrackNumber, tags.TrackTotal = m.Track()
	tags.DiscNumber, tags.DiscTotal = m.Disc()

	for key, value := range m.Raw() {
		if len(key) != 4 || mappedFrames[key] {
			continue
		}
		if s, ok := value.(string); ok && s != "" {
			tags.Set(key, strings.Split(s, "\x00")...)
		}
	}

	return tags, nil
}

// Encode serializes tags as an ID3v2.4 payload of even length. Frames are
// written in a fixed order, so equal tags always encode to equal bytes.
//
// When space is at least the encoded size, the tag is padded with zero bytes
// to fill it, so replacing a tag of that size leaves the file length alone.
func Encode(tags *types.Tags, space int64) ([]byte, error) {
	enc := id3v2.EncodingUTF8

	var frames []func(*id3v2.Tag)
	text := func(id, value string) {
		if value != "" {
			frames = append(frames, func(t *id3v2.Tag) { t.AddTextFrame(id, enc, value) })
		}
	}

	text("TIT2", tags.Title)
	text("TPE1", tags.Artist)
	text("TALB", tags.Album)
	text("TPE2", tags.AlbumArtist)
	text("TCOM", tags.Composer)
	text("TCON", tags.Genre)
	if tags.Year != 0 {
		text("TDRC", strconv.Itoa(tags.Year))
	}
	text("TRCK", position(tags.TrackNumber, tags.TrackTotal))
	text("TPOS", position(tags.DiscNumber, tags.DiscTotal))
	if tags.Comment != "" {
		frames = append(frames, func(t *id3v2.Tag) {
			t.AddCommentFrame(id3v2.CommentFrame{
				Encoding: enc,
				Language: "eng",
				Text:     tags.Comment,
			})
		})
	}
	if tags.Lyrics != "" {
		frames = append(frames, func(t *id3v2.Tag) {
			t.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding: enc,
				Language: "eng",
				Lyrics:   tags.Lyrics,
			})
		})
	}
	for key, values := range tags.All() {
		if len(key) != 4 || mappedFrames[key] {
			continue
		}
		text(key, strings.Join(values, "\x00"))
	}

	// id3v2.Tag keeps frames in a map, so each frame is encoded on its own
	// and the frame bytes are concatenated behind a single header.
	buf := bytes.NewBuffer([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0})
	for _, add := range frames {
		t := id3v2.NewEmptyTag()
		t.SetVersion(4)
		t.SetDefaultEncoding(enc)
		add(t)

		frame := &bytes.Buffer{}
		if _, err := t.WriteTo(frame); err != nil {
			return nil, fmt.Errorf("encode id3v2: %w", err)
		}
		if frame.Len() > headerSize {
			buf.Write(frame.Bytes()[headerSize:])
		}
	}

	return Pad(buf.Bytes(), space)
}

// Pad extends an encoded tag with zero padding to at least space bytes and
// an even length, and updates the size in its header. An empty input gets
// a frameless ID3v2.4 header.
func Pad(encoded []byte, space int64) ([]byte, error) {
	if len(encoded) == 0 {
		encoded = []byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 0}
	}
	if len(encoded) < headerSize || !bytes.HasPrefix(encoded, []byte("ID3")) {
		return nil, ErrNotID3
	}

	total := max(int64(len(encoded)), space)
	total += total & 1
	if total-headerSize > maxSynchsafe {
		return nil, fmt.Errorf("id3v2 tag of %d bytes exceeds the maximum tag size", total)
	}

	out := make([]byte, total)
	copy(out, encoded)
	putSynchsafe(out[6:10], uint32(total-headerSize))
	return out, nil
}

func position(n, total int) string {
	switch {
	case n == 0 && total == 0:
		return ""
	case total == 0:
		return strconv.Itoa(n)
	default:
		return strconv.Itoa(n) + "/" + strconv.Itoa(total)
	}
}

const maxSynchsafe = 1<<28 - 1

// putSynchsafe stores n as four 7-bit groups, most significant first.
func putSynchsafe(b []byte, n uint32) {
	b[0] = byte(n>>21) & 0x7F
	b[1] = byte(n>>14) & 0x7F
	b[2] = byte(n>>7) & 0x7F
	b[3] = byte(n) & 0x7F
}

// synchsafe decodes a 4-byte synchsafe integer.
func synchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

// Size returns the total length of the ID3v2 tag at the start of payload,
// header included, as declared by its header.
func Size(payload []byte) (int64, error) {
	if len(payload) < headerSize || !bytes.HasPrefix(payload, []byte("ID3")) {
		return 0, ErrNotID3
	}
	size := int64(synchsafe(payload[6:10])) + headerSize
	if payload[5]&0x10 != 0 {
		size += headerSize // footer
	}
	return size, nil
}
