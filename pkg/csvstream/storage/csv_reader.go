package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iamhimansu/csvstream/pkg/csvstream/types"
	"github.com/pierrec/lz4/v4"
)

// LineReader defines the interface the reading stage pulls lines from
type LineReader interface {
	io.Closer
	ReadLine() (string, error)
	CountLines() (int64, error)
	Rewind() error
}

// FileSource reads a CSV file line by line. Files that start with an lz4 frame
// are decompressed on the fly.
type FileSource struct {
	path       string
	file       *os.File
	compressed bool
	lz         *lz4.Reader
	reader     *bufio.Reader
}

// Open opens path for reading and takes a shared advisory lock on it.
func Open(path string) (*FileSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	if err := lockShared(file); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to lock file: %w", err)
	}

	compressed, err := isLZ4(file)
	if err != nil {
		unlockFile(file)
		file.Close()
		return nil, err
	}

	s := &FileSource{
		path:       path,
		file:       file,
		compressed: compressed,
	}
	if compressed {
		s.lz = lz4.NewReader(file)
		s.reader = bufio.NewReader(s.lz)
	} else {
		s.reader = bufio.NewReader(file)
	}
	return s, nil
}

func isLZ4(file *os.File) (bool, error) {
	var magic [4]byte
	n, err := file.ReadAt(magic[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to sniff file header: %w", err)
	}
	return n == len(magic) && binary.LittleEndian.Uint32(magic[:]) == types.LZ4FrameMagic, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Compressed() bool {
	return s.compressed
}

// ReadLine returns the next line without its newline and without one trailing
// carriage return. It returns io.EOF once the file is exhausted.
func (s *FileSource) ReadLine() (string, error) {
	line, err := s.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read %s: %w", s.path, err)
		}
		if line == "" {
			return "", io.EOF
		}
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// CountLines counts the non-empty lines of the whole file without moving the
// read position of plain files. Compressed sources are rewound afterwards.
func (s *FileSource) CountLines() (int64, error) {
	if !s.compressed {
		data, err := MmapFile(s.file)
		if err != nil {
			return 0, fmt.Errorf("failed to map %s: %w", s.path, err)
		}
		defer MunmapFile(data)
		return CountLines(data), nil
	}

	if err := s.Rewind(); err != nil {
		return 0, err
	}
	var counter lineCounter
	if _, err := io.Copy(&counter, s.lz); err != nil {
		return 0, fmt.Errorf("failed to scan %s: %w", s.path, err)
	}
	if err := s.Rewind(); err != nil {
		return 0, err
	}
	return counter.Total(), nil
}

// Rewind moves the read position back to the start of the file.
func (s *FileSource) Rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to start: %w", err)
	}
	if s.compressed {
		s.lz.Reset(s.file)
		s.reader.Reset(s.lz)
		return nil
	}
	s.reader.Reset(s.file)
	return nil
}

func (s *FileSource) Close() error {
	unlockFile(s.file)
	return s.file.Close()
}
