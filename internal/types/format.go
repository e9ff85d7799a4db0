package types

import (
	"io"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota // Unknown
	// FormatAIFF represents uncompressed AIFF files (FORM....AIFF).
	FormatAIFF // AIFF
	// FormatAIFC represents AIFF-C files (FORM....AIFC).
	FormatAIFC // AIFC
	// FormatWAV represents RIFF WAVE files (RIFF....WAVE).
	FormatWAV // WAV
)

// String returns the display name of the format.
func (f Format) String() string {
	switch f {
	case FormatAIFF:
		return "AIFF"
	case FormatAIFC:
		return "AIFC"
	case FormatWAV:
		return "WAV"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatAIFF:
		return []string{".aiff", ".aif"}
	case FormatAIFC:
		return []string{".aifc", ".aif"}
	case FormatWAV:
		return []string{".wav", ".wave"}
	case FormatUnknown:
		return nil
	default:
		return nil
	}
}

// DetectFormat determines the container format by examining the 12-byte
// top-level header.
//
// Detection only looks at the signature and the subtype. The declared size
// and the chunk list are validated later by the container parser.
//
// A short file or an unknown signature yields *MalformedContainerError; a
// known signature with an unknown subtype yields
// *UnsupportedContainerTypeError.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 12 {
		return FormatUnknown, &MalformedContainerError{
			Path:   path,
			Reason: "file shorter than the 12-byte container header",
		}
	}

	header := make([]byte, 12)
	if n, err := r.ReadAt(header, 0); n < len(header) {
		return FormatUnknown, &IOError{
			Path: path,
			Op:   "read container header",
			Err:  err,
		}
	}

	signature := string(header[0:4])
	subtype := string(header[8:12])

	switch signature {
	case "FORM":
		switch subtype {
		case "AIFF":
			return FormatAIFF, nil
		case "AIFC":
			return FormatAIFC, nil
		}
	case "RIFF":
		if subtype == "WAVE" {
			return FormatWAV, nil
		}
	default:
		return FormatUnknown, &MalformedContainerError{
			Path:      path,
			Signature: signature,
			Reason:    "unrecognized container signature",
		}
	}

	return FormatUnknown, &UnsupportedContainerTypeError{
		Path:      path,
		Signature: signature,
		Subtype:   subtype,
	}
}
