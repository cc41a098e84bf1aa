// Package stream implements the file-backed boundary a parsed SKilL file
// reads from and a serialized one is written to. It plays the role the
// teacher's io.FileReader plays for slab files, widened to a read-only
// memory mapped view on the read side (golang.org/x/exp/mmap) and a
// preallocated, window-based writer on the write side.
package stream

import (
	"io"

	"golang.org/x/exp/mmap"
)

// Source is a read-only, position-tracking view over a memory mapped file.
// Parsing walks it sequentially; the string pool saves and restores the
// position around each lazy string load, hence the push/pop stack rather
// than a single cursor.
type Source struct {
	ra    *mmap.ReaderAt
	pos   int64
	stack []int64
}

func OpenSource(path string) (*Source, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &Source{ra: ra}, nil
}

func (s *Source) Close() error {
	return s.ra.Close()
}

func (s *Source) Len() int64 {
	return int64(s.ra.Len())
}

func (s *Source) Pos() int64 {
	return s.pos
}

func (s *Source) Seek(pos int64) {
	s.pos = pos
}

func (s *Source) PushPos() {
	s.stack = append(s.stack, s.pos)
}

func (s *Source) PopPos() {
	n := len(s.stack)
	s.pos = s.stack[n-1]
	s.stack = s.stack[:n-1]
}

func (s *Source) EOF() bool {
	return s.pos >= s.Len()
}

// Read implements io.Reader over the mapped region, advancing pos. Used to
// feed a bits.BitsReader without copying the whole file into memory first.
func (s *Source) Read(p []byte) (int, error) {
	if s.EOF() {
		return 0, io.EOF
	}
	n, err := s.ra.ReadAt(p, s.pos)
	s.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// SubReader returns an io.Reader bounded to [offset, offset+length), leaving
// the Source's own position untouched. Used for handing an independent
// reader to each field-decode goroutine over its own byte span.
func (s *Source) SubReader(offset, length int64) io.Reader {
	return io.NewSectionReader(readerAtShim{s.ra}, offset, length)
}

type readerAtShim struct {
	ra *mmap.ReaderAt
}

func (r readerAtShim) ReadAt(p []byte, off int64) (int, error) {
	return r.ra.ReadAt(p, off)
}
