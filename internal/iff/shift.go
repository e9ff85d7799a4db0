package iff

import (
	"errors"
	"io"

	"github.com/simonhull/iffmeta/internal/types"
)

// DefaultBufferSize bounds the memory used to move bytes inside a file.
const DefaultBufferSize = 4 << 20

// shiftDown moves the bytes in [from, end) to [from-distance, end-distance)
// using a buffer of at most bufSize bytes. The caller truncates afterwards.
//
// Blocks are copied in ascending order. The destination always lies below
// the source, so each block is read before any write can reach it.
func shiftDown(st Storage, path string, from, distance, end int64, bufSize int) error {
	if distance <= 0 || from >= end {
		return nil
	}
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	if remaining := end - from; int64(bufSize) > remaining {
		bufSize = int(remaining)
	}

	buf := make([]byte, bufSize)
	for src := from; src < end; {
		n := int64(len(buf))
		if left := end - src; n > left {
			n = left
		}

		read, err := st.ReadAt(buf[:n], src)
		if int64(read) < n {
			if err == nil || errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return &types.IOError{Path: path, Op: "read during shift", Offset: src, Err: err}
		}

		if _, err := st.WriteAt(buf[:n], src-distance); err != nil {
			return &types.IOError{Path: path, Op: "write during shift", Offset: src - distance, Err: err}
		}
		src += n
	}
	return nil
}
