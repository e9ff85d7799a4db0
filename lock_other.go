//go:build !unix

package iffmeta

import "os"

// lockFile is a no-op on platforms without flock.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
