//go:build !unix

package diskmanager

import "os"

// No advisory locking off unix; single-process use is left to the caller.
func lockFile(f *os.File) error { return nil }

func unlockFile(f *os.File) error { return nil }
