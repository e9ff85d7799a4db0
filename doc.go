// Package iffmeta reads and rewrites the ID3 metadata chunk of chunk based
// audio containers: AIFF and AIFF-C ("FORM") and WAV ("RIFF").
//
// # Quick Start
//
// Reading metadata:
//
//	file, err := iffmeta.Open("song.aiff")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer file.Close()
//
//	fmt.Printf("%s - %s\n", file.Tags.Artist, file.Tags.Title)
//
// Writing metadata in place:
//
//	res, err := iffmeta.WriteTags("song.wav", &iffmeta.Tags{Title: "Intro"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Action, res.FinalSize)
//
// # Container Model
//
// A container starts with a 12-byte header (signature, declared size,
// subtype) followed by chunks laid out as id(4) size(4) payload, with a pad
// byte after odd-sized payloads. FORM containers store sizes big-endian,
// RIFF containers little-endian.
//
// Some writers drop or add a pad byte, leaving every following chunk id one
// byte off its expected position. Reading recognizes the displaced ids of
// the metadata chunk and of LIST chunks, resynchronizes, and reports the
// file as incorrectly aligned in its Layout.
//
// # Writing
//
// Writes never copy the whole file. The metadata chunk is:
//
//   - appended when the file has none
//   - overwritten when it is the last chunk
//   - removed (following chunks move down to close the gap) and appended
//     otherwise
//   - cut off and rewritten at an aligned offset when it is misaligned and
//     nothing but metadata follows it
//
// Bytes after the declared end of the container are trimmed first, and the
// top-level size field is always rewritten to match the final file length.
// A misaligned metadata chunk followed by other chunks makes the write fail
// with UnrecoverableCorruptionError and leaves the file untouched. A
// metadata chunk cut short by the end of the file is overwritten in place,
// and an empty payload removes the metadata chunk.
//
// Only the first metadata chunk is replaced. When a file carries more than
// one, the next survives and is read in place of the new one; the write
// reports this as a warning, and WithValidation turns it into an error.
//
// # Error Handling
//
// Fatal errors (unreadable header, unknown signature or subtype, I/O
// failures) are returned as errors. Conditions the library recovers from
// are reported as warnings:
//
//	for _, w := range file.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// WithStrictParsing turns any warning into an error.
//
// # Logging
//
// Diagnostics go to log/slog when a logger is passed with WithLogger or
// WithSaveLogger; nothing is logged otherwise. Recovered conditions are
// returned as warnings either way.
package iffmeta
