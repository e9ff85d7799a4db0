package iff

import (
	"github.com/simonhull/iffmeta/internal/binary"
	"github.com/simonhull/iffmeta/internal/types"
)

// ReadContainerHeader reads and validates the 12-byte top-level header.
//
// An unknown signature yields *types.MalformedContainerError; a known
// signature with an unknown subtype yields *types.UnsupportedContainerTypeError.
func ReadContainerHeader(sr *binary.SafeReader) (types.ContainerHeader, *Family, error) {
	if sr.Size() < types.ContainerHeaderSize {
		return types.ContainerHeader{}, nil, &types.MalformedContainerError{
			Path:   sr.Path(),
			Reason: "file shorter than the 12-byte container header",
		}
	}

	buf := make([]byte, types.ContainerHeaderSize)
	if err := sr.ReadAt(buf, 0, "container header"); err != nil {
		return types.ContainerHeader{}, nil, err
	}

	signature := string(buf[0:4])
	family := FamilyFor(signature)
	if family == nil {
		return types.ContainerHeader{}, nil, &types.MalformedContainerError{
			Path:      sr.Path(),
			Signature: signature,
			Reason:    "unrecognized container signature",
		}
	}

	subtype := string(buf[8:12])
	format, ok := family.Subtypes[subtype]
	if !ok {
		return types.ContainerHeader{}, nil, &types.UnsupportedContainerTypeError{
			Path:      sr.Path(),
			Signature: signature,
			Subtype:   subtype,
		}
	}

	return types.ContainerHeader{
		Signature:    signature,
		Subtype:      subtype,
		Format:       format,
		DeclaredSize: binary.Decode[uint32](buf[4:8], family.Order),
	}, family, nil
}
