// Package ftype implements the SKilL field-type catalogue (component B):
// primitives, constants, annotations, references, strings, and the compound
// container types, each behind a uniform FieldType contract so a field
// declaration never needs to special-case its value type.
package ftype

import (
	"github.com/dot5enko/skillrt/bits"
)

// type IDs, spec.md §3.
const (
	TypeConstI8   = 0
	TypeConstI16  = 1
	TypeConstI32  = 2
	TypeConstI64  = 3
	TypeConstV64  = 4
	TypeAnnotate  = 5
	TypeBool      = 6
	TypeI8        = 7
	TypeI16       = 8
	TypeI32       = 9
	TypeI64       = 10
	TypeV64       = 11
	TypeF32       = 12
	TypeF64       = 13
	TypeString    = 14
	TypeConstArr  = 15
	TypeVarArr    = 17
	TypeList      = 18
	TypeSet       = 19
	TypeMap       = 20
	FirstPoolType = 32
)

// StringResolver is the subset of the string pool a StringField needs: a
// way to turn a value into an ID during write and an ID into a value during
// read. Kept narrow so ftype does not import strpool (which would create a
// cycle: strpool's own position table could in principle be exposed as a
// string-typed field on some schema's metadata pool, though no such pool
// exists in this runtime).
type StringResolver interface {
	IDFor(s string) int64
	StringFor(id int64) string
}

// PoolResolver is the subset of the pool system a reference/annotation field
// needs: ID-based lookup and typeID-based dispatch, kept as an interface so
// ftype never imports pool.
type PoolResolver interface {
	ObjectByID(poolTypeID int64, skillID int64) any
	TypeIDOf(obj any) int64
	SkillIDOf(obj any) int64
}

// FieldType is the uniform encoder/decoder contract, spec.md §4.1.
type FieldType[T any] interface {
	TypeID() int64
	ReadSingle(r *bits.BitsReader) (T, error)
	WriteSingle(v T, w *bits.BitWriter) error
	SingleOffset(v T) int64
}

// CalculateOffset sums SingleOffset over a collection, matching
// FieldType.calculateOffset in spec.md §4.1.
func CalculateOffset[T any](ft FieldType[T], values []T) int64 {
	var total int64
	for _, v := range values {
		total += ft.SingleOffset(v)
	}
	return total
}
