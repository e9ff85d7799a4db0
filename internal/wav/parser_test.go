package wav

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/simonhull/iffmeta/internal/id3"
	"github.com/simonhull/iffmeta/internal/registry"
	"github.com/simonhull/iffmeta/internal/types"
)

func writeChunk(buf *bytes.Buffer, id string, payload []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	if len(payload)%2 == 1 {
		buf.WriteByte(0)
	}
}

func infoList(entries ...[2]string) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("INFO")
	for _, e := range entries {
		writeChunk(buf, e[0], []byte(e[1]+"\x00"))
	}
	return buf.Bytes()
}

func createWAV(t *testing.T, tagID string, tags *types.Tags, extra ...[]byte) []byte {
	t.Helper()
	body := &bytes.Buffer{}
	writeChunk(body, "fmt ", make([]byte, 16))
	writeChunk(body, "LIST", infoList([2]string{"INAM", "Track Name"}, [2]string{"IART", "Band"}))
	writeChunk(body, "data", make([]byte, 41))
	for _, e := range extra {
		body.Write(e)
	}
	if tags != nil {
		payload, err := id3.Encode(tags, 0)
		if err != nil {
			t.Fatalf("id3.Encode() error = %v", err)
		}
		writeChunk(body, tagID, payload)
	}

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(4+body.Len()))
	buf.WriteString("WAVE")
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func parse(t *testing.T, data []byte) *types.File {
	t.Helper()
	file, err := (&parser{}).Parse(bytes.NewReader(data), int64(len(data)), "test.wav", registry.ParseOptions{InfoPass: true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return file
}

func TestParse(t *testing.T) {
	for _, id := range []string{"id3 ", "ID3 "} {
		t.Run(id, func(t *testing.T) {
			file := parse(t, createWAV(t, id, &types.Tags{Title: "Tagged", TrackNumber: 4}))

			if file.Format != types.FormatWAV {
				t.Errorf("Format = %v, want WAV", file.Format)
			}
			if !file.HasTag || file.Tags.Title != "Tagged" || file.Tags.TrackNumber != 4 {
				t.Errorf("HasTag = %v, Tags = %+v", file.HasTag, file.Tags)
			}
			if file.Layout.Metadata.ID != id {
				t.Errorf("metadata id = %q, want %q", file.Layout.Metadata.ID, id)
			}

			want := []types.TextField{{ID: "INAM", Value: "Track Name"}, {ID: "IART", Value: "Band"}}
			if len(file.Text) != len(want) {
				t.Fatalf("Text = %+v, want %+v", file.Text, want)
			}
			for i := range want {
				if file.Text[i] != want[i] {
					t.Errorf("Text[%d] = %+v, want %+v", i, file.Text[i], want[i])
				}
			}

			if file.Audio.ChunkID != "data" || file.Audio.Size != 41 || file.Audio.Offset != 90 {
				t.Errorf("Audio = %+v", file.Audio)
			}
		})
	}
}

func TestParse_OtherListType(t *testing.T) {
	adtl := &bytes.Buffer{}
	writeChunk(adtl, "LIST", append([]byte("adtl"), make([]byte, 12)...))

	file := parse(t, createWAV(t, "id3 ", nil, adtl.Bytes()))

	if len(file.Text) != 2 {
		t.Errorf("Text = %+v; only INFO lists carry text", file.Text)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}
}

func TestParseInfoList_Overrun(t *testing.T) {
	payload := infoList([2]string{"INAM", "ok"})
	payload = append(payload, []byte("ICMT\xff\x00\x00\x00abc")...)

	fields, err := parseInfoList(io.NewSectionReader(bytes.NewReader(payload), 0, int64(len(payload))), "test")
	if err == nil {
		t.Error("parseInfoList() should report an overrunning entry")
	}
	if len(fields) != 1 || fields[0].Value != "ok" {
		t.Errorf("fields = %+v", fields)
	}
}

func TestRegistered(t *testing.T) {
	if registry.Get(types.FormatWAV) == nil {
		t.Error("no parser registered for WAV")
	}
	if registry.GetWriter(types.FormatWAV) == nil {
		t.Error("no writer registered for WAV")
	}
}
