package bits

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// BitWriter accumulates SKilL primitives into a byte buffer, fixed
// big-endian, mirroring BitsReader's fixed-order choice.
type BitWriter struct {
	pos  int
	data []byte
	size int

	growingEnabled bool
}

func NewEncodeBuffer(buf []byte) BitWriter {
	return BitWriter{
		data: buf,
		pos:  0,
		size: len(buf),
	}
}

func (w *BitWriter) EnableGrowing() {
	w.growingEnabled = true
}

func (w *BitWriter) Reset() {
	w.pos = 0
}

func (w BitWriter) Position() int {
	return w.pos
}

func (w *BitWriter) grow(atLeast int) {
	newSize := w.size * 2
	if atLeast > newSize {
		newSize += atLeast
	}

	newBuf := make([]byte, newSize)

	copy(newBuf, w.data[:w.pos])
	w.data = newBuf
	w.size = newSize
}

func (w *BitWriter) tryGrow(n int) {
	if (w.pos + n) > w.size {
		if w.growingEnabled {
			w.grow(n)
		} else {
			panic(fmt.Sprintf("bit writer growing is disabled on pos: %d, try grow %d, from size: %d", w.pos, n, w.size))
		}
	}
}

func (w *BitWriter) Write(p []byte) (n int, err error) {
	oldl := len(p)
	w.tryGrow(oldl)

	n = copy(w.data[w.pos:], p)

	if oldl != n {
		return 0, errors.New("not enough space")
	}

	w.pos += n

	return
}

func (w *BitWriter) EmptyBytes(i int) {
	w.tryGrow(i)
	w.pos += i
}

func (w *BitWriter) Bytes() []byte {
	return w.data[:w.pos]
}

func (w *BitWriter) WriteBool(v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

func (w *BitWriter) WriteByte(u uint8) {
	w.tryGrow(1)
	w.data[w.pos] = u
	w.pos++
}

func (w *BitWriter) PutI8(v int8) {
	w.WriteByte(uint8(v))
}

func (w *BitWriter) PutU16(v uint16) {
	w.tryGrow(2)
	binary.BigEndian.PutUint16(w.data[w.pos:], v)
	w.pos += 2
}

func (w *BitWriter) PutI16(v int16) {
	w.PutU16(uint16(v))
}

func (w *BitWriter) PutU32(v uint32) {
	w.tryGrow(4)
	binary.BigEndian.PutUint32(w.data[w.pos:], v)
	w.pos += 4
}

func (w *BitWriter) PutI32(v int32) {
	w.PutU32(uint32(v))
}

func (w *BitWriter) PutU64(v uint64) {
	w.tryGrow(8)
	binary.BigEndian.PutUint64(w.data[w.pos:], v)
	w.pos += 8
}

func (w *BitWriter) PutI64(v int64) {
	w.PutU64(uint64(v))
}

func (w *BitWriter) PutF32(v float32) {
	w.PutU32(math.Float32bits(v))
}

func (w *BitWriter) PutF64(v float64) {
	w.PutU64(math.Float64bits(v))
}

// PutV64 encodes v using the SKilL variable length scheme: 7 payload bits
// per byte low-to-high with a continuation bit, up to 8 groups; a 9th group
// (reached only for values needing the top byte) carries all 8 remaining
// bits with no continuation bit.
func (w *BitWriter) PutV64(v int64) {
	u := uint64(v)
	for group := 0; group < 8; group++ {
		b := byte(u & 0x7f)
		u >>= 7
		if u == 0 {
			w.WriteByte(b)
			return
		}
		w.WriteByte(b | 0x80)
	}
	w.WriteByte(byte(u))
}

func (w *BitWriter) PutV32(v int32) {
	w.PutV64(int64(v))
}

// V64Len returns the number of bytes PutV64 would emit for v, without
// writing anything; used to size chunks before allocating backing buffers.
func V64Len(v int64) int {
	u := uint64(v)
	n := 1
	for group := 0; group < 8; group++ {
		u >>= 7
		if u == 0 {
			return n
		}
		n++
	}
	return n
}
