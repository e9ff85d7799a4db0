package iff

import (
	"fmt"
	"io"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

// sizeFieldOffset is the position of the declared size, right after the
// 4-byte signature.
const sizeFieldOffset = 4

// RewriteSize stores finalSize-8 in the container header using the family
// byte order.
func RewriteSize(w io.WriterAt, path string, finalSize int64, order binary.Endianness) error {
	declared := finalSize - types.ChunkHeaderSize
	if declared < types.ContainerHeaderSize-types.ChunkHeaderSize {
		return fmt.Errorf("%s: file of %d bytes is too small for a container header", path, finalSize)
	}
	if declared > int64(^uint32(0)) {
		return fmt.Errorf("%s: file of %d bytes exceeds the 32-bit container size", path, finalSize)
	}

	if _, err := w.WriteAt(binary.Encode(uint32(declared), order), sizeFieldOffset); err != nil {
		return &types.IOError{Path: path, Op: "write container size", Offset: sizeFieldOffset, Err: err}
	}
	return nil
}
