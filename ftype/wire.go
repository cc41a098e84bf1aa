package ftype

import (
	"fmt"

	"github.com/dot5enko/skillrt/bits"
)

// wire tags for the field section's tagged fieldType encoding. The tag byte
// for ConstantLengthArray/VariableLengthArray/ListType/SetType/MapType is
// the type's own typeID (original_source
// internal/SerializationFunctions.java:224-284 writeType); only the
// constant scalar kinds (0-4) use a tag distinct from everything that
// follows it, and the default case (primitives and pool references) writes
// no tag at all, just the bare typeID as a v64.
const (
	wireConstArray = TypeConstArr // 0x0F
	wireVarArray   = TypeVarArr   // 0x11
	wireList       = TypeList     // 0x12
	wireSet        = TypeSet      // 0x13
	wireMap        = TypeMap      // 0x14
)

// TypeSpec is a declarative description of a field's type as found in the
// file's field section: either a constant, a container over a ground type,
// a map over key/value types, or a bare typeID (primitive or pool
// reference). The parser decodes one of these per new field, then
// BuildFieldType turns it into a live FieldType[any].
type TypeSpec struct {
	TypeID     int64
	Length     int64 // ConstantLengthArray only
	ConstValue int64 // constant types only
	Ground     *TypeSpec
	Key        *TypeSpec
	Value      *TypeSpec
}

// Describe renders a TypeSpec as a short human-readable type name, for the
// debug CLI and log lines - not part of the wire format itself.
func (s *TypeSpec) Describe() string {
	if s == nil {
		return "?"
	}
	switch {
	case s.Key != nil && s.Value != nil:
		return fmt.Sprintf("map<%s,%s>", s.Key.Describe(), s.Value.Describe())
	case s.Ground != nil && s.Length > 0:
		return fmt.Sprintf("%s[%d]", s.Ground.Describe(), s.Length)
	case s.Ground != nil:
		return fmt.Sprintf("container<%s>", s.Ground.Describe())
	default:
		return fmt.Sprintf("type%d", s.TypeID)
	}
}

// ParseTypeSpec decodes one tagged fieldType entry from the field section
// (spec.md §6 point 3).
func ParseTypeSpec(r *bits.BitsReader) (*TypeSpec, error) {
	tag, err := r.ReadV64()
	if err != nil {
		return nil, err
	}

	switch tag {
	case TypeConstI8:
		v, err := r.ReadI8()
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: tag, ConstValue: int64(v)}, nil

	case TypeConstI16:
		v, err := r.ReadI16()
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: tag, ConstValue: int64(v)}, nil

	case TypeConstI32:
		v, err := r.ReadI32()
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: tag, ConstValue: int64(v)}, nil

	case TypeConstI64:
		v, err := r.ReadI64()
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: tag, ConstValue: v}, nil

	case TypeConstV64:
		v, err := r.ReadV64()
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: tag, ConstValue: v}, nil

	case wireConstArray:
		length, err := r.ReadV64()
		if err != nil {
			return nil, err
		}
		ground, err := ParseTypeSpec(r)
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: TypeConstArr, Length: length, Ground: ground}, nil

	case wireVarArray, wireList, wireSet:
		ground, err := ParseTypeSpec(r)
		if err != nil {
			return nil, err
		}
		tagToType := map[int64]int64{wireVarArray: TypeVarArr, wireList: TypeList, wireSet: TypeSet}
		return &TypeSpec{TypeID: tagToType[tag], Ground: ground}, nil

	case wireMap:
		key, err := ParseTypeSpec(r)
		if err != nil {
			return nil, err
		}
		value, err := ParseTypeSpec(r)
		if err != nil {
			return nil, err
		}
		return &TypeSpec{TypeID: TypeMap, Key: key, Value: value}, nil

	default:
		return &TypeSpec{TypeID: tag}, nil
	}
}

// WriteTypeSpec is the write-side mirror of ParseTypeSpec. Constant payload
// widths follow the original per-kind fixed encoding, not a uniform v64
// (original_source internal/SerializationFunctions.java:224-254 writeType:
// i8/i16/i32/i64 fixed widths for ConstantI8..ConstantI64, v64 only for
// ConstantV64).
func WriteTypeSpec(w *bits.BitWriter, s *TypeSpec) error {
	switch s.TypeID {
	case TypeConstI8:
		w.PutV64(s.TypeID)
		w.PutI8(int8(s.ConstValue))
	case TypeConstI16:
		w.PutV64(s.TypeID)
		w.PutI16(int16(s.ConstValue))
	case TypeConstI32:
		w.PutV64(s.TypeID)
		w.PutI32(int32(s.ConstValue))
	case TypeConstI64:
		w.PutV64(s.TypeID)
		w.PutI64(s.ConstValue)
	case TypeConstV64:
		w.PutV64(s.TypeID)
		w.PutV64(s.ConstValue)
	case TypeConstArr:
		w.PutV64(wireConstArray)
		w.PutV64(s.Length)
		return WriteTypeSpec(w, s.Ground)
	case TypeVarArr, TypeList, TypeSet:
		typeToTag := map[int64]int64{TypeVarArr: wireVarArray, TypeList: wireList, TypeSet: wireSet}
		w.PutV64(typeToTag[s.TypeID])
		return WriteTypeSpec(w, s.Ground)
	case TypeMap:
		w.PutV64(wireMap)
		if err := WriteTypeSpec(w, s.Key); err != nil {
			return err
		}
		return WriteTypeSpec(w, s.Value)
	default:
		w.PutV64(s.TypeID)
	}
	return nil
}

// BuildFieldType turns a TypeSpec into a live, erased FieldType[any]. Pool
// references (TypeID >= FirstPoolType) become a ReferenceType whose target
// pool is s.TypeID itself. strings is the file's string pool, needed to
// resolve TypeString fields.
func BuildFieldType(s *TypeSpec, strings StringResolver) (FieldType[any], error) {
	switch s.TypeID {
	case TypeI8:
		return Erase[int8](I8Type{}), nil
	case TypeI16:
		return Erase[int16](I16Type{}), nil
	case TypeI32:
		return Erase[int32](I32Type{}), nil
	case TypeI64:
		return Erase[int64](I64Type{}), nil
	case TypeV64:
		return Erase[int64](V64Type{}), nil
	case TypeF32:
		return Erase[float32](F32Type{}), nil
	case TypeF64:
		return Erase[float64](F64Type{}), nil
	case TypeBool:
		return Erase[bool](BoolType{}), nil
	case TypeConstI8:
		return Erase[int8](ConstantI8{Value: int8(s.ConstValue)}), nil
	case TypeConstI16:
		return Erase[int16](ConstantI16{Value: int16(s.ConstValue)}), nil
	case TypeConstI32:
		return Erase[int32](ConstantI32{Value: int32(s.ConstValue)}), nil
	case TypeConstI64:
		return Erase[int64](ConstantI64{Value: s.ConstValue}), nil
	case TypeConstV64:
		return Erase[int64](ConstantV64{Value: s.ConstValue}), nil
	case TypeString:
		if strings == nil {
			return nil, fmt.Errorf("string field requires a string resolver")
		}
		return Erase[string](StringField{Resolver: strings}), nil
	case TypeConstArr:
		ground, err := BuildFieldType(s.Ground, strings)
		if err != nil {
			return nil, err
		}
		return Erase[[]any](ConstantLengthArray[any]{N: int(s.Length), Ground: ground}), nil
	case TypeVarArr:
		ground, err := BuildFieldType(s.Ground, strings)
		if err != nil {
			return nil, err
		}
		return Erase[[]any](varLength[any]{tag: TypeVarArr, Ground: ground}), nil
	case TypeList:
		ground, err := BuildFieldType(s.Ground, strings)
		if err != nil {
			return nil, err
		}
		return Erase[[]any](varLength[any]{tag: TypeList, Ground: ground}), nil
	case TypeSet:
		ground, err := BuildFieldType(s.Ground, strings)
		if err != nil {
			return nil, err
		}
		return Erase[[]any](varLength[any]{tag: TypeSet, Ground: ground}), nil
	case TypeMap:
		key, err := BuildFieldType(s.Key, strings)
		if err != nil {
			return nil, err
		}
		value, err := BuildFieldType(s.Value, strings)
		if err != nil {
			return nil, err
		}
		return Erase[MapValue[any, any]](MapType[any, any]{KeyType: key, ValueType: value}), nil
	default:
		if s.TypeID >= FirstPoolType {
			return Erase[SkillRef](ReferenceType{PoolTypeID: s.TypeID}), nil
		}
		return nil, fmt.Errorf("unsupported field type id %d", s.TypeID)
	}
}
