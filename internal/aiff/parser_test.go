package aiff

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"
	"time"

	"github.com/simonhull/iffmeta/internal/id3"
	"github.com/simonhull/iffmeta/internal/registry"
	"github.com/simonhull/iffmeta/internal/types"
)

func writeChunk(buf *bytes.Buffer, id string, payload []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
}

func comtPayload(entries ...types.Comment) []byte {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(len(entries)))
	for _, c := range entries {
		binary.Write(buf, binary.BigEndian, uint32(c.Timestamp.Sub(macEpoch)/time.Second))
		binary.Write(buf, binary.BigEndian, c.Marker)
		binary.Write(buf, binary.BigEndian, uint16(len(c.Text)))
		buf.WriteString(c.Text)
		if len(c.Text)%2 == 1 {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

// createAIFF builds an AIFF file with descriptive chunks and, if tags is
// non-nil, an ID3 chunk.
func createAIFF(t *testing.T, tags *types.Tags) []byte {
	t.Helper()
	body := &bytes.Buffer{}
	writeChunk(body, "COMM", make([]byte, 18))
	writeChunk(body, "NAME", []byte("Caf\xe9 Song"))
	writeChunk(body, "AUTH", []byte("Someone\x00"))
	writeChunk(body, "COMT", comtPayload(
		types.Comment{Timestamp: macEpoch.Add(3_000_000_000 * time.Second), Marker: 2, Text: "odd"},
		types.Comment{Timestamp: macEpoch, Text: "even"},
	))
	writeChunk(body, "SSND", make([]byte, 24))
	if tags != nil {
		payload, err := id3.Encode(tags, 0)
		if err != nil {
			t.Fatalf("id3.Encode() error = %v", err)
		}
		writeChunk(body, "ID3 ", payload)
	}

	buf := &bytes.Buffer{}
	buf.WriteString("FORM")
	binary.Write(buf, binary.BigEndian, uint32(4+body.Len()))
	buf.WriteString("AIFF")
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func parse(t *testing.T, data []byte, info bool) *types.File {
	t.Helper()
	file, err := (&parser{}).Parse(bytes.NewReader(data), int64(len(data)), "test.aiff", registry.ParseOptions{InfoPass: info})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return file
}

func TestParse(t *testing.T) {
	data := createAIFF(t, &types.Tags{Title: "Test Title", Artist: "Test Artist", Year: 2001})

	file := parse(t, data, true)

	if file.Format != types.FormatAIFF {
		t.Errorf("Format = %v, want AIFF", file.Format)
	}
	if !file.HasTag {
		t.Fatal("HasTag should be true")
	}
	if file.Tags.Title != "Test Title" || file.Tags.Artist != "Test Artist" || file.Tags.Year != 2001 {
		t.Errorf("Tags = %+v", file.Tags)
	}

	wantText := []types.TextField{{ID: "NAME", Value: "Café Song"}, {ID: "AUTH", Value: "Someone"}}
	if len(file.Text) != len(wantText) {
		t.Fatalf("Text = %+v, want %+v", file.Text, wantText)
	}
	for i := range wantText {
		if file.Text[i] != wantText[i] {
			t.Errorf("Text[%d] = %+v, want %+v", i, file.Text[i], wantText[i])
		}
	}

	if len(file.Comments) != 2 {
		t.Fatalf("got %d comments, want 2", len(file.Comments))
	}
	first := file.Comments[0]
	if first.Text != "odd" || first.Marker != 2 {
		t.Errorf("Comments[0] = %+v", first)
	}
	if want := macEpoch.Add(3_000_000_000 * time.Second); !first.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", first.Timestamp, want)
	}
	if file.Comments[1].Text != "even" {
		t.Errorf("Comments[1] = %+v", file.Comments[1])
	}

	if file.Audio.ChunkID != "SSND" || file.Audio.Size != 24 {
		t.Errorf("Audio = %+v", file.Audio)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}
}

func TestParse_NoInfoPass(t *testing.T) {
	file := parse(t, createAIFF(t, &types.Tags{Title: "x"}), false)

	if !file.HasTag {
		t.Error("metadata is read without the info pass")
	}
	if len(file.Text) != 0 || len(file.Comments) != 0 || file.Audio.ChunkID != "" {
		t.Error("descriptive chunks should not be decoded without the info pass")
	}
}

func TestParse_NoTag(t *testing.T) {
	file := parse(t, createAIFF(t, nil), true)

	if file.HasTag {
		t.Error("HasTag should be false")
	}
	if file.Layout == nil || file.Layout.HasMetadata() {
		t.Error("layout should have no metadata chunk")
	}
}

func TestParse_UndecodableTag(t *testing.T) {
	data := createAIFF(t, nil)
	body := &bytes.Buffer{}
	writeChunk(body, "ID3 ", []byte("not an id3 tag"))
	data = append(data, body.Bytes()...)
	binary.BigEndian.PutUint32(data[4:8], uint32(len(data)-8))

	file := parse(t, data, false)

	if file.HasTag {
		t.Error("HasTag should be false for an undecodable payload")
	}
	if !file.Layout.HasMetadata() {
		t.Error("the chunk is still the container's metadata chunk")
	}
	if len(file.Warnings) != 1 {
		t.Errorf("warnings = %v, want one decode warning", file.Warnings)
	}
}

func TestParseComments_MissingFinalPad(t *testing.T) {
	payload := comtPayload(types.Comment{Timestamp: macEpoch, Text: "abc"})
	payload = payload[:len(payload)-1]

	comments, err := parseComments(io.NewSectionReader(bytes.NewReader(payload), 0, int64(len(payload))), "test")
	if err != nil {
		t.Fatalf("parseComments() error = %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "abc" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestParseComments_Truncated(t *testing.T) {
	payload := comtPayload(
		types.Comment{Timestamp: macEpoch, Text: "first"},
		types.Comment{Timestamp: macEpoch, Text: "second"},
	)
	payload = payload[:len(payload)-4]

	comments, err := parseComments(io.NewSectionReader(bytes.NewReader(payload), 0, int64(len(payload))), "test")
	if err == nil {
		t.Fatal("parseComments() should fail on a truncated entry")
	}
	if len(comments) != 1 {
		t.Errorf("got %d comments before the error, want 1", len(comments))
	}
}

func TestRegistered(t *testing.T) {
	for _, format := range []types.Format{types.FormatAIFF, types.FormatAIFC} {
		if registry.Get(format) == nil {
			t.Errorf("no parser registered for %v", format)
		}
		if registry.GetWriter(format) == nil {
			t.Errorf("no writer registered for %v", format)
		}
	}
}
