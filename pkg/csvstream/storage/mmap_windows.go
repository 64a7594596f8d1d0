//go:build windows

package storage

import (
	"io"
	"os"
)

// MmapFile loads the whole file without touching its read offset (no mmap on windows)
func MmapFile(f *os.File) ([]byte, error) {
	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return io.ReadAll(io.NewSectionReader(f, 0, stat.Size()))
}

// MunmapFile is a no-op for the ReadAll fallback
func MunmapFile(data []byte) error {
	return nil
}
