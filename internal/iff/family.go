// Package iff implements traversal and in-place rewriting of chunk based
// ("FORM" and "RIFF") containers.
//
// A container is a 12-byte header (signature, declared size, subtype)
// followed by chunks of the form id(4) size(4) payload [pad]. The package
// walks those chunks, locates the metadata chunk while healing the one-byte
// misalignment some writers produce, and splices a new metadata chunk into
// the file without disturbing any other byte.
package iff

import (
	"slices"

	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

// Shift describes how a corrupt chunk id is displaced from where the walker
// expected it.
type Shift int

const (
	// ShiftLate means the id was read one byte late: a preceding odd-sized
	// chunk was written without its pad byte, so the real chunk starts one
	// byte before the expected position.
	ShiftLate Shift = iota + 1

	// ShiftEarly means the id was read one byte early: a stray byte sits in
	// front of the real chunk, which starts one byte after the expected
	// position.
	ShiftEarly
)

func (s Shift) String() string {
	switch s {
	case ShiftLate:
		return "late"
	case ShiftEarly:
		return "early"
	default:
		return "none"
	}
}

// CorruptSignature is a known byte pattern of a metadata or list chunk id
// displaced by one byte. Fragment must equal id[Position:Position+3].
type CorruptSignature struct {
	Fragment [3]byte
	Position int
	Shift    Shift
}

// Match reports whether id carries the fragment at the signature's position.
func (c CorruptSignature) Match(id string) bool {
	if len(id) != 4 || c.Position < 0 || c.Position > 1 {
		return false
	}
	return id[c.Position] == c.Fragment[0] &&
		id[c.Position+1] == c.Fragment[1] &&
		id[c.Position+2] == c.Fragment[2]
}

func late(fragment string) CorruptSignature {
	return CorruptSignature{Fragment: [3]byte([]byte(fragment)), Position: 0, Shift: ShiftLate}
}

func early(fragment string) CorruptSignature {
	return CorruptSignature{Fragment: [3]byte([]byte(fragment)), Position: 1, Shift: ShiftEarly}
}

// Family describes one container family.
type Family struct {
	Name      string
	Signature string
	Order     binary.Endianness
	Subtypes  map[string]types.Format

	// MetadataIDs lists the chunk ids that carry the tag. The first entry
	// is the id written for new chunks.
	MetadataIDs []string

	// Corrupt enumerates the displaced id patterns the walker can heal.
	Corrupt []CorruptSignature
}

// AIFF is the big-endian IFF FORM family (AIFF and AIFF-C).
var AIFF = &Family{
	Name:      "AIFF",
	Signature: "FORM",
	Order:     binary.BigEndian,
	Subtypes: map[string]types.Format{
		"AIFF": types.FormatAIFF,
		"AIFC": types.FormatAIFC,
	},
	MetadataIDs: []string{"ID3 "},
	Corrupt: []CorruptSignature{
		late("D3 "),
		early("ID3"),
	},
}

// WAV is the little-endian RIFF WAVE family.
var WAV = &Family{
	Name:      "WAV",
	Signature: "RIFF",
	Order:     binary.LittleEndian,
	Subtypes: map[string]types.Format{
		"WAVE": types.FormatWAV,
	},
	MetadataIDs: []string{"id3 ", "ID3 "},
	Corrupt: []CorruptSignature{
		late("d3 "),
		late("D3 "),
		late("IST"),
		early("id3"),
		early("ID3"),
		early("LIS"),
	},
}

var families = []*Family{AIFF, WAV}

// FamilyFor returns the family with the given signature, or nil.
func FamilyFor(signature string) *Family {
	for _, f := range families {
		if f.Signature == signature {
			return f
		}
	}
	return nil
}

// FamilyOf returns the family that carries format, or nil.
func FamilyOf(format types.Format) *Family {
	for _, f := range families {
		for _, candidate := range f.Subtypes {
			if candidate == format {
				return f
			}
		}
	}
	return nil
}

// MetadataID returns the id used when writing a new metadata chunk.
func (f *Family) MetadataID() string {
	return f.MetadataIDs[0]
}

// IsMetadata reports whether id names a metadata chunk.
func (f *Family) IsMetadata(id string) bool {
	return slices.Contains(f.MetadataIDs, id)
}

// CorruptShift reports whether id matches one of the family's displaced
// signatures, and in which direction.
func (f *Family) CorruptShift(id string) (Shift, bool) {
	for _, c := range f.Corrupt {
		if c.Match(id) {
			return c.Shift, true
		}
	}
	return 0, false
}
