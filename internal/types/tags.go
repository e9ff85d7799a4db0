package types

import (
	"iter"
	"maps"
	"slices"
)

// Tags represents the fields of an embedded ID3v2 tag.
//
// Common frames are mapped to struct fields. Frames without a mapping are
// kept as raw values keyed by frame id ("TPUB", "TCOP", ...) and can be read
// with All or Get, and written back with Set.
type Tags struct {
	raw         map[string][]string
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	Composer    string
	Genre       string
	Comment     string
	Lyrics      string
	Year        int
	TrackNumber int
	TrackTotal  int
	DiscNumber  int
	DiscTotal   int
}

// All returns an iterator over all raw frames.
//
// The returned iterator is read-only. Do not modify the returned slices.
func (t *Tags) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		if t.raw == nil {
			return
		}
		for _, key := range slices.Sorted(maps.Keys(t.raw)) {
			if !yield(key, t.raw[key]) {
				return
			}
		}
	}
}

// Get retrieves all values for a raw frame id.
//
// Returns nil if the frame doesn't exist.
func (t *Tags) Get(key string) []string {
	if t.raw == nil {
		return nil
	}
	values := t.raw[key]
	if values == nil {
		return nil
	}
	return slices.Clone(values)
}

// GetFirst retrieves the first value for a raw frame id.
func (t *Tags) GetFirst(key string) string {
	values := t.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Set sets a raw frame value. If values is empty, the frame is removed.
//
//	tags.Set("TPUB", "Warp")
func (t *Tags) Set(key string, values ...string) {
	if t.raw == nil {
		t.raw = make(map[string][]string)
	}

	if len(values) == 0 {
		delete(t.raw, key)
		return
	}

	t.raw[key] = slices.Clone(values)
}

// IsEmpty reports whether no field and no raw frame is set.
func (t *Tags) IsEmpty() bool {
	return t.Equal(&Tags{})
}

// Clone creates a deep copy of the Tags.
func (t *Tags) Clone() *Tags {
	if t == nil {
		return nil
	}

	clone := *t
	clone.raw = nil
	if t.raw != nil {
		clone.raw = make(map[string][]string, len(t.raw))
		for key, values := range t.raw {
			clone.raw[key] = slices.Clone(values)
		}
	}

	return &clone
}

// Equal checks if two Tags are equal, raw frames included.
func (t *Tags) Equal(other *Tags) bool {
	if t == nil && other == nil {
		return true
	}
	if t == nil || other == nil {
		return false
	}

	if t.Title != other.Title ||
		t.Artist != other.Artist ||
		t.Album != other.Album ||
		t.AlbumArtist != other.AlbumArtist ||
		t.Composer != other.Composer ||
		t.Genre != other.Genre ||
		t.Comment != other.Comment ||
		t.Lyrics != other.Lyrics ||
		t.Year != other.Year ||
		t.TrackNumber != other.TrackNumber ||
		t.TrackTotal != other.TrackTotal ||
		t.DiscNumber != other.DiscNumber ||
		t.DiscTotal != other.DiscTotal {
		return false
	}

	return maps.EqualFunc(t.raw, other.raw, slices.Equal)
}
