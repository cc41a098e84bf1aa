package ftype

import "github.com/dot5enko/skillrt/bits"

// Erase turns a statically typed FieldType[T] into a FieldType[any], so
// the parser - which discovers field types from file content at runtime,
// not from a generated binding's compile-time T - can hold a uniform
// catalogue of field types regardless of their Go element type. A
// generated binding would use the typed FieldType[T] forms directly; this
// runtime has no generated bindings (spec.md §1), so every field it drives
// is erased.
func Erase[T any](inner FieldType[T]) FieldType[any] {
	return erasedType[T]{inner: inner}
}

type erasedType[T any] struct {
	inner FieldType[T]
}

func (e erasedType[T]) TypeID() int64 { return e.inner.TypeID() }

func (e erasedType[T]) ReadSingle(r *bits.BitsReader) (any, error) {
	v, err := e.inner.ReadSingle(r)
	return v, err
}

func (e erasedType[T]) WriteSingle(v any, w *bits.BitWriter) error {
	var typed T
	if v != nil {
		typed = v.(T)
	}
	return e.inner.WriteSingle(typed, w)
}

func (e erasedType[T]) SingleOffset(v any) int64 {
	var typed T
	if v != nil {
		typed = v.(T)
	}
	return e.inner.SingleOffset(typed)
}
