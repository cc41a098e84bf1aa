package ftype

import "github.com/dot5enko/skillrt/bits"

// SkillRef is the value a reference or annotation field reads/writes: the
// referent's pool typeID (0 for null/unknown) and its skillID (0 for null).
// Resolving this into a live object is the pool layer's job, not ftype's.
type SkillRef struct {
	TypeID  int64
	SkillID int64
}

func (r SkillRef) IsNull() bool { return r.SkillID == 0 }

// ReferenceType encodes a reference to pool P as a single v64 skillID, or a
// single zero byte for null (spec.md §4.1). The target pool's typeID is
// known statically by the field declaration, not carried on the wire.
type ReferenceType struct {
	PoolTypeID int64
}

func (ReferenceType) TypeID() int64 { return -1 } // not a catalogue-level tag; carried by the field decl

func (t ReferenceType) ReadSingle(r *bits.BitsReader) (SkillRef, error) {
	id, err := r.ReadV64()
	if err != nil {
		return SkillRef{}, err
	}
	return SkillRef{TypeID: t.PoolTypeID, SkillID: id}, nil
}

func (ReferenceType) WriteSingle(v SkillRef, w *bits.BitWriter) error {
	w.PutV64(v.SkillID)
	return nil
}

func (ReferenceType) SingleOffset(v SkillRef) int64 {
	return int64(bits.V64Len(v.SkillID))
}

// AnnotationType encodes (typeIDorZero, skillID), both v64; null is (0,0).
// typeIDorZero on the wire is the pool's typeID minus 31 (spec.md §4.1);
// WriteSingle/SingleOffset apply that shift and ReadSingle undoes it, so
// SkillRef.TypeID always holds the pool's own typeID.
type AnnotationType struct{}

func (AnnotationType) TypeID() int64 { return TypeAnnotate }

func (AnnotationType) ReadSingle(r *bits.BitsReader) (SkillRef, error) {
	wireTypeID, err := r.ReadV64()
	if err != nil {
		return SkillRef{}, err
	}
	skillID, err := r.ReadV64()
	if err != nil {
		return SkillRef{}, err
	}
	if wireTypeID == 0 {
		return SkillRef{}, nil
	}
	return SkillRef{TypeID: wireTypeID + 31, SkillID: skillID}, nil
}

func (AnnotationType) WriteSingle(v SkillRef, w *bits.BitWriter) error {
	if v.IsNull() {
		w.PutV64(0)
		w.PutV64(0)
		return nil
	}
	w.PutV64(v.TypeID - 31)
	w.PutV64(v.SkillID)
	return nil
}

func (AnnotationType) SingleOffset(v SkillRef) int64 {
	if v.IsNull() {
		return 2
	}
	return int64(bits.V64Len(v.TypeID-31)) + int64(bits.V64Len(v.SkillID))
}
