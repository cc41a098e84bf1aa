package field

import (
	"fmt"
	"io"
	"sync"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/ftype"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/skillerr"
)

// Declaration is a field's runtime bookkeeping (spec.md §4.4). Storage is
// always a DistributedField (data/newData keyed by object): the "inline
// slot on a generated typed field" strategy the spec mentions as the other
// option only applies to compiled, per-schema bindings, which are out of
// scope here (spec.md §1) - the runtime itself only ever needs the
// distributed form.
type Declaration[T any] struct {
	name  string
	index int64
	ft    ftype.FieldType[T]
	owner pool.AnyPool
	spec  *ftype.TypeSpec

	mu           sync.Mutex
	restrictions []func(T) error

	dataChunks []Chunk

	data    map[pool.Object]T
	newData map[pool.Object]T

	lazy   bool
	loaded bool
}

func New[T any](name string, index int64, ft ftype.FieldType[T], owner pool.AnyPool) *Declaration[T] {
	return &Declaration[T]{
		name:    name,
		index:   index,
		ft:      ft,
		owner:   owner,
		data:    map[pool.Object]T{},
		newData: map[pool.Object]T{},
	}
}

func (d *Declaration[T]) Name() string  { return d.name }
func (d *Declaration[T]) Index() int64  { return d.index }
func (d *Declaration[T]) MarkLazy()     { d.lazy = true }
func (d *Declaration[T]) IsLazy() bool  { return d.lazy }
func (d *Declaration[T]) AddChunk(c Chunk) {
	d.dataChunks = append(d.dataChunks, c)
}
func (d *Declaration[T]) Chunks() []Chunk { return d.dataChunks }

// ClearChunks drops every recorded chunk, used by the serializer's compress
// pass which rebuilds the whole file as a single new block.
func (d *Declaration[T]) ClearChunks() { d.dataChunks = nil }

// SetTypeSpec records the wire-level type description this field was built
// from (or should be emitted with), so the serializer can re-declare the
// field without needing to know T (spec.md §6 field section).
func (d *Declaration[T]) SetTypeSpec(s *ftype.TypeSpec) { d.spec = s }
func (d *Declaration[T]) TypeSpec() *ftype.TypeSpec     { return d.spec }

// CollectStrings walks every value this field currently holds - including
// nested list/set/array elements and map keys/values - and reports every
// string found (spec.md §4.6 "gather all live strings ... recursively
// inside list/set/map/array element and key/value positions").
func (d *Declaration[T]) CollectStrings(out func(string)) {
	for _, v := range d.data {
		collectStringsFromValue(any(v), out)
	}
	for _, v := range d.newData {
		collectStringsFromValue(any(v), out)
	}
}

func collectStringsFromValue(v any, out func(string)) {
	switch vv := v.(type) {
	case string:
		out(vv)
	case []any:
		for _, e := range vv {
			collectStringsFromValue(e, out)
		}
	case ftype.MapValue[any, any]:
		for _, e := range vv.Entries {
			collectStringsFromValue(e.Key, out)
			collectStringsFromValue(e.Value, out)
		}
	}
}

// Declarable is the non-generic view the serializer needs of a field
// declaration to re-emit its type and data without knowing T, mirroring
// Decodable/Encodable (spec.md §9).
type Declarable interface {
	Name() string
	Index() int64
	TypeSpec() *ftype.TypeSpec
	Chunks() []Chunk
	AddChunk(Chunk)
	ClearChunks()
	OffsetChunk(Chunk) int64
	WriteChunkDispatch(Chunk, *bits.BitWriter) error
	CheckRestrictions() error
	Compress()
	EnsureLoaded(func(begin, end int64) (io.Reader, error)) error
	CollectStrings(func(string))
}

func (d *Declaration[T]) AddRestriction(r func(T) error) {
	d.restrictions = append(d.restrictions, r)
}

// Get routes by skillID: new (unassigned) objects live in newData, existing
// ones in data (spec.md §4.4 distributed fields).
func (d *Declaration[T]) Get(obj pool.Object) T {
	if obj.SkillID().Kind() == pool.Unassigned {
		return d.newData[obj]
	}
	return d.data[obj]
}

func (d *Declaration[T]) Set(obj pool.Object, v T) {
	if obj.SkillID().Kind() == pool.Unassigned {
		d.newData[obj] = v
		return
	}
	d.data[obj] = v
}

// Compress merges newData into data before a full write, per spec.md §4.4.
func (d *Declaration[T]) Compress() {
	for k, v := range d.newData {
		d.data[k] = v
	}
	d.newData = map[pool.Object]T{}
}

// CheckRestrictions iterates every non-deleted instance of the owner and
// evaluates each predicate against its current value (spec.md §4.4).
func (d *Declaration[T]) CheckRestrictions() error {
	if len(d.restrictions) == 0 {
		return nil
	}
	it := pool.NewTypeOrderIterator(d.owner)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if obj.SkillID().Kind() == pool.Deleted {
			continue
		}
		v := d.Get(obj)
		for _, r := range d.restrictions {
			if err := r(v); err != nil {
				return skillerr.NewRestrictionError(d.name, err)
			}
		}
	}
	return nil
}

// objectAt resolves the object living at absolute base index idx.
func (d *Declaration[T]) objectAt(idx int) pool.Object {
	return d.owner.GetByIDBase(pool.SkillID(idx + 1))
}

// ReadSimple reads a SimpleChunk: Count values starting at the reader's
// current position, storing each into the object at base index
// [Bpo, Bpo+Count) (spec.md §4.4 rsc).
func (d *Declaration[T]) ReadSimple(c SimpleChunk, r *bits.BitsReader) error {
	for i := 0; i < c.Count; i++ {
		v, err := d.ft.ReadSingle(r)
		if err != nil {
			return skillerr.NewIOError(fmt.Sprintf("field %q chunk read", d.name), err)
		}
		obj := d.objectAt(c.Bpo + i)
		if obj != nil {
			d.data[obj] = v
		}
	}
	return nil
}

// ReadBulk reads a BulkChunk by delegating to ReadSimple once per existing
// block, in file order (spec.md §4.4 rbc default implementation).
func (d *Declaration[T]) ReadBulk(c BulkChunk, r *bits.BitsReader) error {
	blocks := d.owner.Blocks()
	n := c.BlockCount
	if n > len(blocks) {
		n = len(blocks)
	}
	for i := 0; i < n; i++ {
		b := blocks[i]
		sc := SimpleChunk{Bpo: b.Bpo, Count: b.StaticCount}
		if err := d.ReadSimple(sc, r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSimple is the write-side mirror of ReadSimple.
func (d *Declaration[T]) WriteSimple(c SimpleChunk, w *bits.BitWriter) error {
	for i := 0; i < c.Count; i++ {
		obj := d.objectAt(c.Bpo + i)
		var v T
		if obj != nil {
			v = d.data[obj]
		}
		if err := d.ft.WriteSingle(v, w); err != nil {
			return err
		}
	}
	return nil
}

func (d *Declaration[T]) WriteBulk(c BulkChunk, w *bits.BitWriter) error {
	blocks := d.owner.Blocks()
	n := c.BlockCount
	if n > len(blocks) {
		n = len(blocks)
	}
	for i := 0; i < n; i++ {
		b := blocks[i]
		sc := SimpleChunk{Bpo: b.Bpo, Count: b.StaticCount}
		if err := d.WriteSimple(sc, w); err != nil {
			return err
		}
	}
	return nil
}

// OffsetSimple returns the byte count of a SimpleChunk's values (spec.md
// §4.4 osc); each call starts from zero.
func (d *Declaration[T]) OffsetSimple(c SimpleChunk) int64 {
	var total int64
	for i := 0; i < c.Count; i++ {
		obj := d.objectAt(c.Bpo + i)
		var v T
		if obj != nil {
			v = d.data[obj]
		}
		total += d.ft.SingleOffset(v)
	}
	return total
}

func (d *Declaration[T]) OffsetBulk(c BulkChunk) int64 {
	blocks := d.owner.Blocks()
	n := c.BlockCount
	if n > len(blocks) {
		n = len(blocks)
	}
	var total int64
	for i := 0; i < n; i++ {
		b := blocks[i]
		total += d.OffsetSimple(SimpleChunk{Bpo: b.Bpo, Count: b.StaticCount})
	}
	return total
}

// ReadChunk dispatches to ReadSimple or ReadBulk by concrete chunk type,
// giving a non-generic caller (the parallel job scheduler in Finish) a
// single entry point regardless of T.
func (d *Declaration[T]) ReadChunk(c Chunk, r *bits.BitsReader) error {
	switch cc := c.(type) {
	case SimpleChunk:
		return d.ReadSimple(cc, r)
	case BulkChunk:
		return d.ReadBulk(cc, r)
	default:
		return fmt.Errorf("field %q: unknown chunk type %T", d.name, c)
	}
}

func (d *Declaration[T]) WriteChunkDispatch(c Chunk, w *bits.BitWriter) error {
	switch cc := c.(type) {
	case SimpleChunk:
		return d.WriteSimple(cc, w)
	case BulkChunk:
		return d.WriteBulk(cc, w)
	default:
		return fmt.Errorf("field %q: unknown chunk type %T", d.name, c)
	}
}

func (d *Declaration[T]) OffsetChunk(c Chunk) int64 {
	switch cc := c.(type) {
	case SimpleChunk:
		return d.OffsetSimple(cc)
	case BulkChunk:
		return d.OffsetBulk(cc)
	default:
		return 0
	}
}

// EnsureLoaded forces decoding of a lazily-deferred field, required before
// string collection during serialization (spec.md §4.4). open is handed
// each chunk's absolute [begin,end) span and returns a reader bounded to
// it, mirroring how Finish feeds chunks to ReadChunk during normal decode.
func (d *Declaration[T]) EnsureLoaded(open func(begin, end int64) (io.Reader, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded || !d.lazy {
		return nil
	}
	for _, c := range d.dataChunks {
		begin, end := c.Bounds()
		rc, err := open(begin, end)
		if err != nil {
			return err
		}
		r := bits.NewReader(rc)
		switch cc := c.(type) {
		case SimpleChunk:
			if err := d.ReadSimple(cc, r); err != nil {
				return err
			}
		case BulkChunk:
			if err := d.ReadBulk(cc, r); err != nil {
				return err
			}
		}
	}
	d.loaded = true
	return nil
}
