package pool

// FieldHandle is the non-generic view a pool needs of one of its field
// declarations: enough to list and finish fields without pool importing the
// field package's generic Declaration[T] type (spec.md §9 erased
// generics note - AnyPool is the non-generic half of the two-level
// dispatch, FieldHandle plays the same role for fields).
type FieldHandle interface {
	Name() string
	Index() int64
}

// AnyPool is the non-generic pool interface: every operation that does not
// need to know the static type T. Iteration, ID lookup and block/field
// bookkeeping all live here. StoragePool, the one implementation, is itself
// non-generic; there is no typed wrapper over it (spec.md §9).
type AnyPool interface {
	Name() string
	TypeID() int64
	SuperPool() AnyPool
	BasePool() AnyPool
	TypeHierarchyHeight() int

	NextPool() AnyPool
	SetNextPool(AnyPool)

	Size() int
	StaticSize() int
	NewObjectsCount() int
	DeletedCount() int

	Fixed() bool
	CachedSize() int
	SetCachedSize(int)
	Fix()
	Unfix()

	Blocks() []Block
	AddBlock(Block)
	SetBlocks([]Block)

	GetByIDBase(id SkillID) Object
	AddBase(obj Object) error
	DeleteBase(obj Object)

	DataFields() []FieldHandle
	AutoFields() []FieldHandle
	AddDataField(FieldHandle)

	// Subpools lists the direct children of this pool in the type forest.
	Subpools() []AnyPool
	AddSubpool(AnyPool)
}
