//go:build windows

package storage

import (
	"os"
)

// lockShared is a no-op on windows
func lockShared(file *os.File) error {
	return nil
}

// unlockFile releases the lock
func unlockFile(file *os.File) error {
	return nil
}
