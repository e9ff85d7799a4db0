package iffmeta_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/iffmeta"
	"github.com/simonhull/iffmeta/internal/id3"
)

type testChunk struct {
	id      string
	payload []byte
	unpad   bool // omit the pad byte of an odd payload
}

func chunk(id string, payload []byte) testChunk {
	return testChunk{id: id, payload: payload}
}

// container builds a FORM or RIFF file whose declared size covers all
// chunks.
func container(order binary.ByteOrder, signature, subtype string, chunks ...testChunk) []byte {
	body := &bytes.Buffer{}
	body.WriteString(subtype)
	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(body, order, uint32(len(c.payload)))
		body.Write(c.payload)
		if len(c.payload)%2 == 1 && !c.unpad {
			body.WriteByte(0)
		}
	}

	buf := &bytes.Buffer{}
	buf.WriteString(signature)
	binary.Write(buf, order, uint32(body.Len()))
	buf.Write(body.Bytes())
	return buf.Bytes()
}

func sequence(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 3)
	}
	return b
}

// baseAIFF is COMM at 12 and SSND at 38; 62 bytes in total.
func baseAIFF(extra ...testChunk) []byte {
	chunks := append([]testChunk{
		chunk("COMM", sequence(18)),
		chunk("SSND", sequence(16)),
	}, extra...)
	return container(binary.BigEndian, "FORM", "AIFF", chunks...)
}

func baseWAV(extra ...testChunk) []byte {
	chunks := append([]testChunk{
		chunk("fmt ", sequence(16)),
		chunk("data", sequence(4)),
	}, extra...)
	return container(binary.LittleEndian, "RIFF", "WAVE", chunks...)
}

func encodeTags(t *testing.T, tags *iffmeta.Tags) []byte {
	t.Helper()
	payload, err := id3.Encode(tags, 0)
	if err != nil {
		t.Fatalf("id3.Encode() error = %v", err)
	}
	return payload
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestOpen_AIFF(t *testing.T) {
	tags := &iffmeta.Tags{Title: "Intro", Artist: "Band", Year: 1999}
	path := writeTemp(t, "song.aiff", baseAIFF(
		chunk("NAME", []byte("Intro")),
		chunk("ID3 ", encodeTags(t, tags)),
	))

	file, err := iffmeta.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	if file.Format != iffmeta.FormatAIFF {
		t.Errorf("Format = %v, want AIFF", file.Format)
	}
	if !file.HasTag || file.Tags.Title != "Intro" || file.Tags.Artist != "Band" || file.Tags.Year != 1999 {
		t.Errorf("HasTag = %v, Tags = %+v", file.HasTag, file.Tags)
	}
	if len(file.Text) != 1 || file.Text[0].Value != "Intro" {
		t.Errorf("Text = %+v", file.Text)
	}
	if file.Audio.ChunkID != "SSND" || file.Audio.Offset != 46 {
		t.Errorf("Audio = %+v", file.Audio)
	}
	if file.Layout == nil || file.Layout.Metadata == nil || file.Layout.Metadata.Offset != 76 {
		t.Errorf("Layout.Metadata = %+v", file.Layout.Metadata)
	}
	if len(file.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", file.Warnings)
	}
}

func TestOpen_WithoutInfoPass(t *testing.T) {
	path := writeTemp(t, "song.aiff", baseAIFF(chunk("NAME", []byte("Intro"))))

	file, err := iffmeta.Open(path, iffmeta.WithoutInfoPass())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	if len(file.Text) != 0 || file.Audio.ChunkID != "" {
		t.Errorf("info chunks decoded despite WithoutInfoPass: %+v %+v", file.Text, file.Audio)
	}
	if len(file.Layout.Chunks) != 3 {
		t.Errorf("Layout.Chunks = %+v", file.Layout.Chunks)
	}
}

// misalignedAIFF has an unpadded 5-byte NAME chunk, which leaves the ID3
// chunk at the odd offset 51.
func misalignedAIFF(t *testing.T, after ...testChunk) []byte {
	t.Helper()
	chunks := []testChunk{
		chunk("COMM", sequence(18)),
		{id: "NAME", payload: []byte("Intro"), unpad: true},
		chunk("ID3 ", encodeTags(t, &iffmeta.Tags{Title: "Old"})),
	}
	chunks = append(chunks, after...)
	return container(binary.BigEndian, "FORM", "AIFF", chunks...)
}

func TestOpen_Misaligned(t *testing.T) {
	path := writeTemp(t, "shifted.aiff", misalignedAIFF(t))

	file, err := iffmeta.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()

	if !file.Layout.IncorrectlyAligned {
		t.Error("IncorrectlyAligned = false")
	}
	if file.Layout.Metadata == nil || file.Layout.Metadata.Offset != 51 {
		t.Fatalf("Metadata = %+v, want offset 51", file.Layout.Metadata)
	}
	if file.Tags.Title != "Old" {
		t.Errorf("Title = %q", file.Tags.Title)
	}
	if len(file.Warnings) == 0 {
		t.Error("expected an alignment warning")
	}
}

func TestOpen_StrictParsing(t *testing.T) {
	path := writeTemp(t, "shifted.aiff", misalignedAIFF(t))

	if _, err := iffmeta.Open(path, iffmeta.WithStrictParsing()); err == nil {
		t.Error("strict Open() should fail on a misaligned chunk")
	}

	file, err := iffmeta.Open(path, iffmeta.WithIgnoreWarnings())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer file.Close()
	if len(file.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", file.Warnings)
	}
}

func TestOpen_Errors(t *testing.T) {
	t.Run("unknown signature", func(t *testing.T) {
		path := writeTemp(t, "x.flac", []byte("fLaC\x00\x00\x00\x22\x00\x00\x00\x00"))
		_, err := iffmeta.Open(path)

		var malformed *iffmeta.MalformedContainerError
		if !errors.As(err, &malformed) {
			t.Errorf("Open() error = %v, want MalformedContainerError", err)
		}
	})

	t.Run("unknown subtype", func(t *testing.T) {
		path := writeTemp(t, "x.iff", container(binary.BigEndian, "FORM", "8SVX", chunk("VHDR", sequence(20))))
		_, err := iffmeta.Open(path)

		var unsupported *iffmeta.UnsupportedContainerTypeError
		if !errors.As(err, &unsupported) {
			t.Errorf("Open() error = %v, want UnsupportedContainerTypeError", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := iffmeta.Open(filepath.Join(t.TempDir(), "nope.aiff"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Open() error = %v, want ErrNotExist", err)
		}
	})
}

func TestOpenMany(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "a.aiff"),
		filepath.Join(dir, "b.wav"),
		filepath.Join(dir, "c.aiff"),
	}
	for i, data := range [][]byte{baseAIFF(), baseWAV(), baseAIFF()} {
		if err := os.WriteFile(paths[i], data, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := iffmeta.OpenMany(context.Background(), paths...)
	if err != nil {
		t.Fatalf("OpenMany() error = %v", err)
	}
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	want := []iffmeta.Format{iffmeta.FormatAIFF, iffmeta.FormatWAV, iffmeta.FormatAIFF}
	for i, f := range files {
		if f.Path != paths[i] || f.Format != want[i] {
			t.Errorf("files[%d] = %s %v, want %s %v", i, f.Path, f.Format, paths[i], want[i])
		}
	}
}

func TestOpenMany_Cancellation(t *testing.T) {
	paths := []string{
		writeTemp(t, "a.aiff", baseAIFF()),
		writeTemp(t, "b.aiff", baseAIFF()),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files, err := iffmeta.OpenMany(ctx, paths...)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if files != nil {
		t.Error("expected nil files on error")
	}
}

func TestOpenMany_PartialFailure(t *testing.T) {
	paths := []string{
		writeTemp(t, "a.aiff", baseAIFF()),
		filepath.Join(t.TempDir(), "missing.aiff"),
	}

	files, err := iffmeta.OpenMany(context.Background(), paths...)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if files != nil {
		t.Error("expected nil files on error")
	}
}

func TestReadLayout(t *testing.T) {
	data := append(baseWAV(chunk("id3 ", encodeTags(t, &iffmeta.Tags{Title: "x"}))), "junk"...)
	path := writeTemp(t, "song.wav", data)

	layout, err := iffmeta.ReadLayout(path)
	if err != nil {
		t.Fatalf("ReadLayout() error = %v", err)
	}

	if layout.Header.Signature != "RIFF" || layout.Header.Subtype != "WAVE" {
		t.Errorf("Header = %+v", layout.Header)
	}
	if len(layout.Chunks) != 3 || layout.Chunks[2].ID != "id3 " {
		t.Errorf("Chunks = %+v", layout.Chunks)
	}
	if !layout.HasTrailingGarbage() {
		t.Error("HasTrailingGarbage() = false")
	}
	if layout.FileSize != int64(len(data)) {
		t.Errorf("FileSize = %d, want %d", layout.FileSize, len(data))
	}
}

func TestReadLayouts(t *testing.T) {
	paths := []string{
		writeTemp(t, "a.aiff", baseAIFF()),
		writeTemp(t, "b.wav", baseWAV()),
	}

	layouts, err := iffmeta.ReadLayouts(context.Background(), paths...)
	if err != nil {
		t.Fatalf("ReadLayouts() error = %v", err)
	}
	if layouts[0].Header.Signature != "FORM" || layouts[1].Header.Signature != "RIFF" {
		t.Errorf("layouts out of order: %+v, %+v", layouts[0].Header, layouts[1].Header)
	}
}
