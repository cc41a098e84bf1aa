// Package bits implements the SKilL wire-level binary primitives: fixed
// width big-endian integers, IEEE-754 floats, the v64 variable length
// integer encoding, and bounded byte reads. Everything above this package
// (field types, pools, the parser) is built on top of BitsReader and
// BitWriter.
package bits

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var (
	ErrEOF          = errors.New("end of file")
	ErrReadMismatch = errors.New("read size mismatch")
	ErrV64TooLong   = errors.New("v64: more than 9 continuation groups")
)

// widest single fixed-width read is an i64/f64 - 8 bytes. ReadV64 reads its
// groups one byte at a time.
const MaxBinReaderBufferSize = 8

// BitsReader reads SKilL primitives from an io.Reader. SKilL files are
// fixed big-endian on the wire, unlike the teacher's BitsReader (which
// parameterizes byte order to share code with a little-endian disk format),
// so order is not a field here.
type BitsReader struct {
	readBuffer [MaxBinReaderBufferSize]byte
	buf        io.Reader
}

func NewReader(buf io.Reader) *BitsReader {
	return &BitsReader{buf: buf}
}

func (r *BitsReader) readNextBytesIntoReadBuffer(size int) error {
	readBytes, err := io.ReadFull(r.buf, r.readBuffer[:size])
	if err != nil {
		return err
	}
	if readBytes != size {
		return ErrReadMismatch
	}
	return nil
}

func (r *BitsReader) ReadBool() (bool, error) {
	u, err := r.ReadU8()
	return u != 0, err
}

func (r *BitsReader) ReadU8() (uint8, error) {
	if err := r.readNextBytesIntoReadBuffer(1); err != nil {
		return 0, err
	}
	return r.readBuffer[0], nil
}

func (r *BitsReader) ReadI8() (int8, error) {
	u, err := r.ReadU8()
	return int8(u), err
}

func (r *BitsReader) MustReadU8() uint8 {
	u, err := r.ReadU8()
	if err != nil {
		panic(err)
	}
	return u
}

func (r *BitsReader) ReadU16() (uint16, error) {
	if err := r.readNextBytesIntoReadBuffer(2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.readBuffer[:2]), nil
}

func (r *BitsReader) ReadI16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

func (r *BitsReader) ReadU32() (uint32, error) {
	if err := r.readNextBytesIntoReadBuffer(4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.readBuffer[:4]), nil
}

func (r *BitsReader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

func (r *BitsReader) MustReadI32() int32 {
	v, err := r.ReadI32()
	if err != nil {
		panic(err)
	}
	return v
}

func (r *BitsReader) ReadU64() (uint64, error) {
	if err := r.readNextBytesIntoReadBuffer(8); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(r.readBuffer[:8]), nil
}

func (r *BitsReader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *BitsReader) MustReadI64() int64 {
	v, err := r.ReadI64()
	if err != nil {
		panic(err)
	}
	return v
}

func (r *BitsReader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (r *BitsReader) ReadF64() (float64, error) {
	u, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// ReadV64 decodes the LEB128-like, 1-9 byte, variable length integer.
// Groups carry 7 payload bits low-to-high with a continuation bit in every
// byte but the last; the 9th group, if reached, uses all 8 bits as payload.
func (r *BitsReader) ReadV64() (int64, error) {
	var result uint64
	for group := 0; group < 9; group++ {
		b, err := r.ReadU8()
		if err != nil {
			return 0, err
		}

		if group == 8 {
			result |= uint64(b) << (7 * 8)
			return int64(result), nil
		}

		result |= uint64(b&0x7f) << (7 * group)
		if b&0x80 == 0 {
			return int64(result), nil
		}
	}
	return 0, ErrV64TooLong
}

func (r *BitsReader) MustReadV64() int64 {
	v, err := r.ReadV64()
	if err != nil {
		panic(err)
	}
	return v
}

// ReadV32 reads a v64 and narrows it; v32 is not a distinct wire encoding,
// only a logically narrower range.
func (r *BitsReader) ReadV32() (int32, error) {
	v, err := r.ReadV64()
	return int32(v), err
}

func (r *BitsReader) ReadBytes(n int, out []byte) error {
	readBytes, err := io.ReadFull(r.buf, out[:n])
	if err != nil {
		return err
	}
	if readBytes != n {
		return ErrReadMismatch
	}
	return nil
}
