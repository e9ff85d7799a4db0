package iff

import (
	"io"
)

// Handler decodes the payload of one chunk type during the info pass.
//
// payload is limited to the chunk's declared size (clamped to the file); the
// pad byte is never part of it. Returned errors become warnings.
type Handler interface {
	HandleChunk(h ChunkHeader, payload *io.SectionReader) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(h ChunkHeader, payload *io.SectionReader) error

// HandleChunk calls f(h, payload).
func (f HandlerFunc) HandleChunk(h ChunkHeader, payload *io.SectionReader) error {
	return f(h, payload)
}

// skipHandler is the variant every unregistered id falls through to.
type skipHandler struct{}

func (skipHandler) HandleChunk(ChunkHeader, *io.SectionReader) error {
	return nil
}

// Handlers maps 4-byte chunk ids to payload handlers.
type Handlers map[string]Handler

// Register installs h for id, replacing any previous handler.
func (hs Handlers) Register(id string, h Handler) {
	hs[id] = h
}

// Lookup returns the handler for id and whether one was registered.
// Unregistered ids get a handler that does nothing.
func (hs Handlers) Lookup(id string) (Handler, bool) {
	if h, ok := hs[id]; ok && h != nil {
		return h, true
	}
	return skipHandler{}, false
}
