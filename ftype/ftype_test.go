package ftype

import (
	"bytes"
	"testing"

	"github.com/dot5enko/skillrt/bits"
)

func TestOffsetInvariantPrimitives(t *testing.T) {
	buf := make([]byte, 64)
	w := bits.NewEncodeBuffer(buf)

	before := w.Position()
	if err := (I32Type{}).WriteSingle(-1, &w); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, want := w.Position()-before, (I32Type{}).SingleOffset(-1); int64(got) != want {
		t.Errorf("i32 offset invariant: wrote %d bytes, want %d", got, want)
	}

	before = w.Position()
	if err := (V64Type{}).WriteSingle(16384, &w); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got, want := w.Position()-before, (V64Type{}).SingleOffset(16384); int64(got) != want {
		t.Errorf("v64 offset invariant: wrote %d bytes, want %d", got, want)
	}
}

func TestConstantLengthArrayRefusal(t *testing.T) {
	arr := ConstantLengthArray[int32]{N: 3, Ground: I32Type{}}
	buf := make([]byte, 64)
	w := bits.NewEncodeBuffer(buf)

	if err := arr.WriteSingle([]int32{1, 2}, &w); err == nil {
		t.Error("expected error writing wrong-length constant array, got nil")
	}
	if err := arr.WriteSingle([]int32{1, 2, 3}, &w); err != nil {
		t.Errorf("unexpected error writing correct-length array: %v", err)
	}
}

func TestVarArrayRoundTrip(t *testing.T) {
	va := NewVarArray[int32](I32Type{})
	buf := make([]byte, 64)
	w := bits.NewEncodeBuffer(buf)

	values := []int32{1, 2, 3, -4}
	if err := va.WriteSingle(values, &w); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bits.NewReader(bytes.NewReader(w.Bytes()))
	got, err := va.ReadSingle(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != len(values) {
		t.Fatalf("length mismatch: got %d want %d", len(got), len(values))
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("index %d: got %d want %d", i, got[i], values[i])
		}
	}
}

func TestReferenceNullEncodesAsSingleZeroByte(t *testing.T) {
	rt := ReferenceType{PoolTypeID: 32}
	buf := make([]byte, 8)
	w := bits.NewEncodeBuffer(buf)

	null := SkillRef{}
	if err := rt.WriteSingle(null, &w); err != nil {
		t.Fatalf("write: %v", err)
	}
	if w.Position() != 1 {
		t.Errorf("null reference should be exactly 1 byte, got %d", w.Position())
	}
	if rt.SingleOffset(null) != 1 {
		t.Errorf("null reference offset should be 1, got %d", rt.SingleOffset(null))
	}
}

func TestTypeSpecConstantWidths(t *testing.T) {
	cases := []struct {
		name string
		spec *TypeSpec
		want int
	}{
		{"i8", &TypeSpec{TypeID: TypeConstI8, ConstValue: -1}, 2},
		{"i16", &TypeSpec{TypeID: TypeConstI16, ConstValue: 300}, 3},
		{"i32", &TypeSpec{TypeID: TypeConstI32, ConstValue: 70000}, 5},
		{"i64", &TypeSpec{TypeID: TypeConstI64, ConstValue: 1 << 40}, 9},
		{"v64 small", &TypeSpec{TypeID: TypeConstV64, ConstValue: 3}, 2},
	}
	for _, c := range cases {
		w := bits.NewEncodeBuffer(make([]byte, 32))
		if err := WriteTypeSpec(&w, c.spec); err != nil {
			t.Fatalf("%s: write: %v", c.name, err)
		}
		if got := w.Position(); got != c.want {
			t.Errorf("%s: wrote %d bytes, want %d", c.name, got, c.want)
		}

		r := bits.NewReader(bytes.NewReader(w.Bytes()))
		got, err := ParseTypeSpec(r)
		if err != nil {
			t.Fatalf("%s: read: %v", c.name, err)
		}
		if got.TypeID != c.spec.TypeID || got.ConstValue != c.spec.ConstValue {
			t.Errorf("%s: round trip mismatch: got %+v want %+v", c.name, got, c.spec)
		}
	}
}

func TestTypeSpecContainerAndMapRoundTrip(t *testing.T) {
	spec := &TypeSpec{
		TypeID: TypeMap,
		Key:    &TypeSpec{TypeID: TypeString},
		Value:  &TypeSpec{TypeID: TypeList, Ground: &TypeSpec{TypeID: TypeI32}},
	}
	w := bits.NewEncodeBuffer(make([]byte, 32))
	if err := WriteTypeSpec(&w, spec); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := bits.NewReader(bytes.NewReader(w.Bytes()))
	got, err := ParseTypeSpec(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.TypeID != TypeMap || got.Key.TypeID != TypeString || got.Value.TypeID != TypeList ||
		got.Value.Ground.TypeID != TypeI32 {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestMapEmptyAndNonEmpty(t *testing.T) {
	mt := MapType[int32, int32]{KeyType: I32Type{}, ValueType: I32Type{}}
	buf := make([]byte, 64)
	w := bits.NewEncodeBuffer(buf)

	empty := MapValue[int32, int32]{}
	if err := mt.WriteSingle(empty, &w); err != nil {
		t.Fatalf("write empty: %v", err)
	}
	if w.Position() != 1 {
		t.Errorf("empty map should encode as a single byte, got %d", w.Position())
	}

	w2 := bits.NewEncodeBuffer(make([]byte, 64))
	full := MapValue[int32, int32]{Entries: []MapEntry[int32, int32]{{Key: 1, Value: 2}}}
	if err := mt.WriteSingle(full, &w2); err != nil {
		t.Fatalf("write full: %v", err)
	}

	r := bits.NewReader(bytes.NewReader(w2.Bytes()))
	got, err := mt.ReadSingle(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Key != 1 || got.Entries[0].Value != 2 {
		t.Errorf("map round trip mismatch: %+v", got)
	}
}
