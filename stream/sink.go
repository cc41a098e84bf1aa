package stream

import (
	"os"
)

// Sink is the write-side counterpart to Source. It preallocates the output
// file to its final size and hands out disjoint byte windows (MapBlock)
// that callers fill directly; each window is WriteAt-flushed independently,
// so concurrent field-encode goroutines never contend on a shared cursor.
// This is the same disjoint-region-ownership trick the teacher applies via
// os.File.WriteAt in io.FileReader, stopping short of a true writable mmap
// to stay syscall-free and portable.
type Sink struct {
	file *os.File
	size int64
}

func CreateSink(path string, size int64) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, err
	}
	return &Sink{file: f, size: size}, nil
}

// MapBlock returns a zero-initialized window of the given length, owned
// exclusively by the caller. Writes into it are only visible on disk after
// Flush is called with it.
func (s *Sink) MapBlock(length int) []byte {
	return make([]byte, length)
}

// Flush writes buf to the sink at the given absolute offset.
func (s *Sink) Flush(offset int64, buf []byte) error {
	n, err := s.file.WriteAt(buf, offset)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return os.ErrClosed
	}
	return nil
}

func (s *Sink) Close() error {
	if err := s.file.Sync(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func (s *Sink) Size() int64 {
	return s.size
}
