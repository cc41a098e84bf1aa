// Package pool implements the type/pool system (component D): storage
// pools sharing a contiguous base-type backing array, block bookkeeping,
// weak type order, and the fix/unfix lifecycle that guards structural
// mutation during serialization.
package pool

// SkillIDKind classifies a SkillID's lifecycle state.
type SkillIDKind int

const (
	Unassigned SkillIDKind = iota
	Deleted
	Live
)

// SkillID is the mutable identity every object in a base pool carries. It
// is the index+1 into the owning base pool's backing array so that live
// lookup is a direct slice index (spec.md §3, invariant 2).
type SkillID int64

func (id SkillID) Kind() SkillIDKind {
	switch {
	case id < 0:
		return Unassigned
	case id == 0:
		return Deleted
	default:
		return Live
	}
}

func (id SkillID) Index() int {
	return int(id) - 1
}

// Object is the minimal shape any pooled instance must satisfy: a place to
// store and retrieve its SkillID. Pooled types embed Base and are used
// through a pointer to get this for free; the generic SubType used for
// unknown types during parsing does the same.
type Object interface {
	SkillID() SkillID
	SetSkillID(SkillID)
}

// Base is embedded by every pooled instance (generated or SubType) to
// supply the SkillID bookkeeping without repeating it per type.
type Base struct {
	id SkillID
}

func (b *Base) SkillID() SkillID     { return b.id }
func (b *Base) SetSkillID(id SkillID) { b.id = id }

// SubType represents an instance of a pool whose concrete type was not
// known to the runtime at parse time (spec.md §3, §9 "unknown-type
// subtypes"). Its field values are held by the pool's field declarations,
// keyed by object, and are addressable only through them, never by a
// generated named accessor; the parser leaves the Fields map empty.
type SubType struct {
	Base
	PoolTypeID int64
	Fields     map[string]any
}

func NewSubType(poolTypeID int64) *SubType {
	return &SubType{PoolTypeID: poolTypeID, Fields: map[string]any{}}
}
