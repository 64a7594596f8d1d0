//go:build !windows

package storage

import (
	"os"
	"syscall"
)

// lockShared acquires a shared lock so writers holding an exclusive lock are waited for
func lockShared(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_SH)
}

// unlockFile releases the lock
func unlockFile(file *os.File) error {
	return syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
}
