package pool

import "github.com/dot5enko/skillrt/skillerr"

// StoragePool is the concrete pool implementation (spec.md §3). Unlike a
// literal `StoragePool<T,B>`, the backing array here holds the Object
// interface directly: subtype pools never copy it, they hold a pointer back
// to their BasePool and find their own static instances through their own
// blocks' [bpo, bpo+staticCount) ranges. This sidesteps Go generics' inability to express "many
// different concrete T sharing one B[] array" the way the source's erased
// generics do, per spec.md §9's suggested non-generic/typed-facade split.
type StoragePool struct {
	name                string
	typeID              int64
	super               AnyPool
	base                *StoragePool // the base pool itself when this pool is the base
	typeHierarchyHeight int

	next AnyPool
	subs []AnyPool

	data *[]Object // shared by every pool in the hierarchy; owned by base

	blocks              []Block
	newObjects          []Object
	staticDataInstances int
	deletedCount        int

	fixed      bool
	cachedSize int

	dataFields []FieldHandle
	autoFields []FieldHandle
}

// NewBasePool creates the root pool of a type hierarchy, allocating the
// shared backing array.
func NewBasePool(name string, typeID int64) *StoragePool {
	backing := make([]Object, 0)
	p := &StoragePool{
		name:   name,
		typeID: typeID,
		data:   &backing,
	}
	p.base = p
	return p
}

// NewSubPool creates a pool for a subtype of super's hierarchy, sharing the
// base's backing array.
func NewSubPool(name string, typeID int64, super *StoragePool) *StoragePool {
	p := &StoragePool{
		name:                name,
		typeID:              typeID,
		super:               super,
		base:                super.base,
		typeHierarchyHeight: super.typeHierarchyHeight + 1,
		data:                super.base.data,
	}
	super.AddSubpool(p)
	return p
}

func (p *StoragePool) Name() string { return p.name }
func (p *StoragePool) TypeID() int64 { return p.typeID }

func (p *StoragePool) SuperPool() AnyPool {
	if p.super == nil {
		return nil
	}
	return p.super
}

func (p *StoragePool) BasePool() AnyPool { return p.base }

func (p *StoragePool) TypeHierarchyHeight() int { return p.typeHierarchyHeight }

func (p *StoragePool) NextPool() AnyPool       { return p.next }
func (p *StoragePool) SetNextPool(n AnyPool)   { p.next = n }

func (p *StoragePool) Subpools() []AnyPool      { return p.subs }
func (p *StoragePool) AddSubpool(sp AnyPool)    { p.subs = append(p.subs, sp) }

// Size returns the number of non-deleted live+new instances of this pool's
// type and all subtypes. Fixed pools answer in O(1) via cachedSize; unfixed
// pools recompute by walking subtypes (spec.md §4.2).
func (p *StoragePool) Size() int {
	if p.fixed {
		return p.cachedSize
	}
	total := p.StaticSize()
	for _, sp := range p.subs {
		total += sp.(*StoragePool).Size()
	}
	return total
}

func (p *StoragePool) StaticSize() int {
	return p.staticDataInstances + len(p.newObjects)
}

func (p *StoragePool) NewObjectsCount() int { return len(p.newObjects) }
func (p *StoragePool) DeletedCount() int    { return p.deletedCount }

func (p *StoragePool) Fixed() bool         { return p.fixed }
func (p *StoragePool) CachedSize() int     { return p.cachedSize }
func (p *StoragePool) SetCachedSize(n int) { p.cachedSize = n }

func (p *StoragePool) Blocks() []Block        { return p.blocks }
func (p *StoragePool) AddBlock(b Block)       { p.blocks = append(p.blocks, b) }
func (p *StoragePool) SetBlocks(bs []Block)   { p.blocks = bs }

func (p *StoragePool) DataFields() []FieldHandle { return p.dataFields }
func (p *StoragePool) AutoFields() []FieldHandle { return p.autoFields }
func (p *StoragePool) AddDataField(f FieldHandle) {
	p.dataFields = append(p.dataFields, f)
}

func (p *StoragePool) GetByIDBase(id SkillID) Object {
	idx := id.Index()
	data := *p.base.data
	if idx < 0 || idx >= len(data) {
		return nil
	}
	return data[idx]
}

func (p *StoragePool) AddBase(obj Object) error {
	if p.fixed {
		return skillerr.NewErrPoolFixed(p.name)
	}
	obj.SetSkillID(SkillID(-1))
	p.newObjects = append(p.newObjects, obj)
	return nil
}

func (p *StoragePool) DeleteBase(obj Object) {
	if obj.SkillID().Kind() != Live {
		return
	}
	obj.SetSkillID(0)
	p.deletedCount++
}

// NewObjects exposes this pool's pending new instances for the serializer.
func (p *StoragePool) NewObjects() []Object { return p.newObjects }

// AppendToBacking appends obj to the shared base array, returning its new
// 1-based SkillID. The parser calls this when allocating a block's
// instances, and PrepareAppendBlocks when placing new objects.
func (p *StoragePool) AppendToBacking(obj Object) SkillID {
	data := append(*p.base.data, obj)
	*p.base.data = data
	id := SkillID(len(data))
	obj.SetSkillID(id)
	return id
}

// ClearNewObjects empties the new-object staging list. UpdateAfterCompress
// and PrepareAppendBlocks clear the list themselves and do not call it.
func (p *StoragePool) ClearNewObjects() { p.newObjects = nil }

func (p *StoragePool) AddStaticDataInstances(n int) { p.staticDataInstances += n }
func (p *StoragePool) SetDeletedCount(n int)        { p.deletedCount = n }
func (p *StoragePool) StaticDataInstances() int     { return p.staticDataInstances }
