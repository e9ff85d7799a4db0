package iffmeta_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/iffmeta"
)

func benchmarkFile(b *testing.B, audioBytes int) string {
	b.Helper()
	data := container(binary.BigEndian, "FORM", "AIFF",
		chunk("COMM", sequence(18)),
		chunk("ID3 ", make([]byte, 0)),
		chunk("SSND", sequence(audioBytes)),
	)
	path := filepath.Join(b.TempDir(), "bench.aiff")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		b.Fatal(err)
	}
	return path
}

func BenchmarkOpen(b *testing.B) {
	path := benchmarkFile(b, 1<<16)

	b.ReportAllocs()
	for b.Loop() {
		file, err := iffmeta.Open(path)
		if err != nil {
			b.Fatal(err)
		}
		file.Close()
	}
}

func BenchmarkReadLayout(b *testing.B) {
	path := benchmarkFile(b, 1<<16)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := iffmeta.ReadLayout(path); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWriteTags alternates between two tags so that every iteration
// rewrites the chunk at the end of the file.
func BenchmarkWriteTags(b *testing.B) {
	path := benchmarkFile(b, 1<<20)
	tags := []*iffmeta.Tags{{Title: "one"}, {Title: "two"}}

	i := 0
	for b.Loop() {
		if _, err := iffmeta.WriteTags(path, tags[i%2]); err != nil {
			b.Fatal(err)
		}
		i++
	}
}
