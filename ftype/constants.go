package ftype

import "github.com/dot5enko/skillrt/bits"

// ConstantI8 and its siblings carry a baked-in value taken from the schema
// stream (spec.md §6 field section, tag 0..4). They consume no file bytes on
// read and emit none on write; Value is yielded directly.
type ConstantI8 struct{ Value int8 }

func (ConstantI8) TypeID() int64                                  { return TypeConstI8 }
func (c ConstantI8) ReadSingle(*bits.BitsReader) (int8, error)     { return c.Value, nil }
func (ConstantI8) WriteSingle(int8, *bits.BitWriter) error         { return nil }
func (ConstantI8) SingleOffset(int8) int64                         { return 0 }
func (c ConstantI8) Equal(other ConstantI8) bool                   { return c.Value == other.Value }

type ConstantI16 struct{ Value int16 }

func (ConstantI16) TypeID() int64                              { return TypeConstI16 }
func (c ConstantI16) ReadSingle(*bits.BitsReader) (int16, error) { return c.Value, nil }
func (ConstantI16) WriteSingle(int16, *bits.BitWriter) error     { return nil }
func (ConstantI16) SingleOffset(int16) int64                     { return 0 }

type ConstantI32 struct{ Value int32 }

func (ConstantI32) TypeID() int64                              { return TypeConstI32 }
func (c ConstantI32) ReadSingle(*bits.BitsReader) (int32, error) { return c.Value, nil }
func (ConstantI32) WriteSingle(int32, *bits.BitWriter) error     { return nil }
func (ConstantI32) SingleOffset(int32) int64                     { return 0 }

type ConstantI64 struct{ Value int64 }

func (ConstantI64) TypeID() int64                              { return TypeConstI64 }
func (c ConstantI64) ReadSingle(*bits.BitsReader) (int64, error) { return c.Value, nil }
func (ConstantI64) WriteSingle(int64, *bits.BitWriter) error     { return nil }
func (ConstantI64) SingleOffset(int64) int64                     { return 0 }

type ConstantV64 struct{ Value int64 }

func (ConstantV64) TypeID() int64                              { return TypeConstV64 }
func (c ConstantV64) ReadSingle(*bits.BitsReader) (int64, error) { return c.Value, nil }
func (ConstantV64) WriteSingle(int64, *bits.BitWriter) error     { return nil }
func (ConstantV64) SingleOffset(int64) int64                     { return 0 }
