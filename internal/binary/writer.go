package binary

import (
	"io"
)

// SafeWriter wraps io.Writer with position tracking.
type SafeWriter struct {
	w      io.Writer
	offset int64
	order  Endianness
}

// NewSafeWriter creates a new SafeWriter emitting integers in the given byte order.
func NewSafeWriter(w io.Writer, order Endianness) *SafeWriter {
	return &SafeWriter{
		w:     w,
		order: order,
	}
}

// Offset returns the current position (number of bytes written).
func (sw *SafeWriter) Offset() int64 {
	return sw.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (sw *SafeWriter) WriteBytes(b []byte) error {
	n, err := sw.w.Write(b)
	sw.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (sw *SafeWriter) WriteString(s string) error {
	return sw.WriteBytes([]byte(s))
}

// Write writes a value of type T in the writer's byte order.
// T must be uint8, uint16, uint32, or uint64.
func Write[T uint8 | uint16 | uint32 | uint64](sw *SafeWriter, val T) error {
	return sw.WriteBytes(Encode(val, sw.order))
}

// Encode returns the bytes of val in the given byte order.
func Encode[T uint8 | uint16 | uint32 | uint64](val T, endian Endianness) []byte {
	order := endian.ByteOrder()
	buf := make([]byte, sizeOf[T]())

	switch v := any(val).(type) {
	case uint8:
		buf[0] = v
	case uint16:
		order.PutUint16(buf, v)
	case uint32:
		order.PutUint32(buf, v)
	case uint64:
		order.PutUint64(buf, v)
	}

	return buf
}
