package iff

import (
	"bytes"
	"io"
	"testing"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

// memFile is an in-memory Storage.
type memFile struct {
	data []byte
}

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	if end := off + int64(len(p)); end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}
	return copy(m.data[off:], p), nil
}

func (m *memFile) Truncate(size int64) error {
	if size <= int64(len(m.data)) {
		m.data = m.data[:size]
		return nil
	}
	m.data = append(m.data, make([]byte, size-int64(len(m.data)))...)
	return nil
}

// chunk encodes a well-formed chunk, pad byte included.
func chunk(f *Family, id string, payload []byte) []byte {
	out, err := EncodeChunk(id, payload, f.Order)
	if err != nil {
		panic(err)
	}
	return out
}

// unpadded encodes a chunk without its pad byte, as broken writers do.
func unpadded(f *Family, id string, payload []byte) []byte {
	out := chunk(f, id, payload)
	if len(payload)%2 == 1 {
		out = out[:len(out)-1]
	}
	return out
}

// container assembles a header and the given chunks. The declared size
// matches the total length.
func container(f *Family, subtype string, parts ...[]byte) []byte {
	body := bytes.Join(parts, nil)
	buf := &bytes.Buffer{}
	buf.WriteString(f.Signature)
	buf.Write(binary.Encode(uint32(4+len(body)), f.Order))
	buf.WriteString(subtype)
	buf.Write(body)
	return buf.Bytes()
}

// withDeclaredSize overwrites the declared container size.
func withDeclaredSize(f *Family, data []byte, declared uint32) []byte {
	out := bytes.Clone(data)
	copy(out[4:8], binary.Encode(declared, f.Order))
	return out
}

func aiffFile(parts ...[]byte) []byte {
	return container(AIFF, "AIFF", parts...)
}

func wavFile(parts ...[]byte) []byte {
	return container(WAV, "WAVE", parts...)
}

func reader(data []byte) *binary.SafeReader {
	return binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test")
}

func probe(t *testing.T, data []byte) *types.Layout {
	t.Helper()
	layout, err := Probe(reader(data), nil)
	if err != nil {
		t.Fatalf("Probe() error = %v", err)
	}
	return layout
}

func declaredSize(f *Family, data []byte) int64 {
	return int64(binary.Decode[uint32](data[4:8], f.Order))
}

func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7 + 1)
	}
	return b
}
