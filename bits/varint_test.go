package bits

import "testing"

func TestV64Widths(t *testing.T) {
	cases := []struct {
		v    int64
		want int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{-1, 9},
	}

	for _, c := range cases {
		if got := V64Len(c.v); got != c.want {
			t.Errorf("V64Len(%d) = %d, want %d", c.v, got, c.want)
		}

		buf := make([]byte, 16)
		w := NewEncodeBuffer(buf)
		w.PutV64(c.v)
		if w.Position() != c.want {
			t.Errorf("PutV64(%d) wrote %d bytes, want %d", c.v, w.Position(), c.want)
		}
	}
}

func TestV64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, 128, 16383, 16384, 1 << 20, -(1 << 20), 1 << 40, -1 << 40}

	for _, v := range values {
		buf := make([]byte, 16)
		w := NewEncodeBuffer(buf)
		w.PutV64(v)

		r := NewReader(&sliceReader{data: w.Bytes()})
		got, err := r.ReadV64()
		if err != nil {
			t.Fatalf("ReadV64(%d) error: %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d -> %d", v, got)
		}
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	w := NewEncodeBuffer(buf)
	w.PutI8(-5)
	w.PutI16(-1000)
	w.PutI32(-100000)
	w.PutI64(-10000000000)
	w.PutF32(3.5)
	w.PutF64(2.718281828)
	w.WriteBool(true)

	r := NewReader(&sliceReader{data: w.Bytes()})

	if v, err := r.ReadI8(); err != nil || v != -5 {
		t.Errorf("ReadI8 = %d, %v", v, err)
	}
	if v, err := r.ReadI16(); err != nil || v != -1000 {
		t.Errorf("ReadI16 = %d, %v", v, err)
	}
	if v, err := r.ReadI32(); err != nil || v != -100000 {
		t.Errorf("ReadI32 = %d, %v", v, err)
	}
	if v, err := r.ReadI64(); err != nil || v != -10000000000 {
		t.Errorf("ReadI64 = %d, %v", v, err)
	}
	if v, err := r.ReadF32(); err != nil || v != 3.5 {
		t.Errorf("ReadF32 = %v, %v", v, err)
	}
	if v, err := r.ReadF64(); err != nil || v != 2.718281828 {
		t.Errorf("ReadF64 = %v, %v", v, err)
	}
	if v, err := r.ReadBool(); err != nil || v != true {
		t.Errorf("ReadBool = %v, %v", v, err)
	}
}

// sliceReader is a minimal io.Reader over a fixed byte slice, used to avoid
// pulling in bytes.Reader just for these tests.
type sliceReader struct {
	data []byte
	pos  int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, ErrEOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += n
	return n, nil
}
