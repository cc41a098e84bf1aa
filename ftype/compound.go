package ftype

import (
	"fmt"

	"github.com/dot5enko/skillrt/bits"
)

// ConstantLengthArray writes exactly N elements of a ground type; WriteSingle
// refuses a value whose length differs from N (spec.md invariant 8) with a
// plain error and writes nothing for it.
type ConstantLengthArray[T any] struct {
	N      int
	Ground FieldType[T]
}

func (ConstantLengthArray[T]) TypeID() int64 { return TypeConstArr }

func (a ConstantLengthArray[T]) LengthOK(v []T) bool {
	return len(v) == a.N
}

func (a ConstantLengthArray[T]) ReadSingle(r *bits.BitsReader) ([]T, error) {
	out := make([]T, a.N)
	for i := 0; i < a.N; i++ {
		v, err := a.Ground.ReadSingle(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (a ConstantLengthArray[T]) WriteSingle(v []T, w *bits.BitWriter) error {
	if !a.LengthOK(v) {
		return fmt.Errorf("constant length array: want %d elements, got %d", a.N, len(v))
	}
	for _, e := range v {
		if err := a.Ground.WriteSingle(e, w); err != nil {
			return err
		}
	}
	return nil
}

func (a ConstantLengthArray[T]) SingleOffset(v []T) int64 {
	return CalculateOffset(a.Ground, v)
}

// varLength is the shared shape of variable array (17), list (18) and set
// (19): a v64 length prefix followed by that many ground-typed elements.
type varLength[T any] struct {
	tag    int64
	Ground FieldType[T]
}

func (v varLength[T]) TypeID() int64 { return v.tag }

func (v varLength[T]) ReadSingle(r *bits.BitsReader) ([]T, error) {
	n, err := r.ReadV64()
	if err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := int64(0); i < n; i++ {
		e, err := v.Ground.ReadSingle(r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func (v varLength[T]) WriteSingle(val []T, w *bits.BitWriter) error {
	w.PutV64(int64(len(val)))
	for _, e := range val {
		if err := v.Ground.WriteSingle(e, w); err != nil {
			return err
		}
	}
	return nil
}

func (v varLength[T]) SingleOffset(val []T) int64 {
	return int64(bits.V64Len(int64(len(val)))) + CalculateOffset(v.Ground, val)
}

func NewVarArray[T any](ground FieldType[T]) FieldType[[]T] {
	return varLength[T]{tag: TypeVarArr, Ground: ground}
}

func NewList[T any](ground FieldType[T]) FieldType[[]T] {
	return varLength[T]{tag: TypeList, Ground: ground}
}

func NewSet[T any](ground FieldType[T]) FieldType[[]T] {
	return varLength[T]{tag: TypeSet, Ground: ground}
}

// MapEntry is one key/value pair of a Map field value.
type MapEntry[K comparable, V any] struct {
	Key   K
	Value V
}

// MapType encodes a v64 length then that many key/value pairs. Null and
// empty maps are bit-for-bit identical on the wire (both are the single
// byte v64(0), spec.md §4.1), so there is nothing for MapValue to
// distinguish; both read back as a MapValue with no entries.
type MapType[K comparable, V any] struct {
	KeyType   FieldType[K]
	ValueType FieldType[V]
}

type MapValue[K comparable, V any] struct {
	Entries []MapEntry[K, V]
}

func (MapType[K, V]) TypeID() int64 { return TypeMap }

func (t MapType[K, V]) ReadSingle(r *bits.BitsReader) (MapValue[K, V], error) {
	n, err := r.ReadV64()
	if err != nil {
		return MapValue[K, V]{}, err
	}
	if n == 0 {
		return MapValue[K, V]{}, nil
	}
	entries := make([]MapEntry[K, V], 0, n)
	for i := int64(0); i < n; i++ {
		k, err := t.KeyType.ReadSingle(r)
		if err != nil {
			return MapValue[K, V]{}, err
		}
		v, err := t.ValueType.ReadSingle(r)
		if err != nil {
			return MapValue[K, V]{}, err
		}
		entries = append(entries, MapEntry[K, V]{Key: k, Value: v})
	}
	return MapValue[K, V]{Entries: entries}, nil
}

func (t MapType[K, V]) WriteSingle(v MapValue[K, V], w *bits.BitWriter) error {
	w.PutV64(int64(len(v.Entries)))
	for _, e := range v.Entries {
		if err := t.KeyType.WriteSingle(e.Key, w); err != nil {
			return err
		}
		if err := t.ValueType.WriteSingle(e.Value, w); err != nil {
			return err
		}
	}
	return nil
}

func (t MapType[K, V]) SingleOffset(v MapValue[K, V]) int64 {
	total := int64(bits.V64Len(int64(len(v.Entries))))
	for _, e := range v.Entries {
		total += t.KeyType.SingleOffset(e.Key)
		total += t.ValueType.SingleOffset(e.Value)
	}
	return total
}
