package parser

import (
	"fmt"
	"sort"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/field"
	"github.com/dot5enko/skillrt/ftype"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/skillerr"
	"github.com/dot5enko/skillrt/strpool"
	"github.com/dot5enko/skillrt/stream"
)

// poolFields tracks, per pool, the live field.Declaration[any] set by name
// so later blocks can find and extend a field that already exists rather
// than creating a duplicate (spec.md §4.5 step 4).
type poolFields struct {
	byName map[string]*field.Declaration[any]
	order  []*field.Declaration[any]
}

// State is the parsed, in-memory representation of one SKilL file: the
// pool forest, the string pool, and every field declaration discovered
// across all blocks.
type State struct {
	Source  *stream.Source
	Strings *strpool.Pool

	pools     map[int64]*pool.StoragePool
	poolOrder []int64
	fieldsOf  map[int64]*poolFields
}

// Parse opens path and runs the full parse driver (spec.md §4.5).
func Parse(path string) (*State, error) {
	source, err := stream.OpenSource(path)
	if err != nil {
		return nil, skillerr.NewIOError("open", err)
	}

	st := &State{
		Source:   source,
		Strings:  strpool.New(source),
		pools:    map[int64]*pool.StoragePool{},
		fieldsOf: map[int64]*poolFields{},
	}

	if err := st.readPrologue(); err != nil {
		source.Close()
		return nil, err
	}

	for !source.EOF() {
		if err := st.parseBlock(); err != nil {
			source.Close()
			return nil, err
		}
	}

	st.establishNextPools()

	if err := st.finishDecode(); err != nil {
		source.Close()
		return nil, err
	}

	return st, nil
}

func (st *State) Close() error { return st.Source.Close() }

func (st *State) readPrologue() error {
	r := bits.NewReader(st.Source)
	for _, want := range FileMagic {
		got, err := r.ReadU8()
		if err != nil {
			return skillerr.NewIOError("prologue magic", err)
		}
		if got != want {
			return fmt.Errorf("not a skill file: bad magic byte %x", got)
		}
	}
	if _, err := r.ReadU8(); err != nil { // version, unused beyond presence check
		return skillerr.NewIOError("prologue version", err)
	}
	return nil
}

type blockPoolEntry struct {
	p           *pool.StoragePool
	bpo         int
	staticCount int
}

// pendingOffset is one field's recorded chunk, still relative to the
// block's field-data start; it becomes absolute once that start is known
// (the field-data section follows the field section, whose total length
// isn't known until every pool's fields have been parsed).
type pendingOffset struct {
	decl      *field.Declaration[any]
	isNew     bool
	bpo       int
	count     int
	poolTotal int
	prevEnd   int64
	end       int64
	blockIdx  int
}

func (st *State) parseBlock() error {
	r := bits.NewReader(st.Source)

	// 1. string section.
	count, err := r.ReadV64()
	if err != nil {
		return skillerr.NewIOError("string section count", err)
	}
	offsets := make([]int32, count)
	for i := range offsets {
		v, err := r.ReadI32()
		if err != nil {
			return skillerr.NewIOError("string section offsets", err)
		}
		offsets[i] = v
	}
	strBase := st.Source.Pos()
	positions := make([]struct{ Offset, Length int64 }, count)
	var prevOff int32
	for i, end := range offsets {
		positions[i] = struct{ Offset, Length int64 }{Offset: strBase + int64(prevOff), Length: int64(end - prevOff)}
		prevOff = end
	}
	st.Strings.SetPositions(positions)
	st.Source.Seek(strBase + int64(prevOff))
	r = bits.NewReader(st.Source)

	// 2. type section.
	typeCount, err := r.ReadV64()
	if err != nil {
		return skillerr.NewIOError("type section count", err)
	}

	entries := make([]blockPoolEntry, 0, typeCount)
	for i := int64(0); i < typeCount; i++ {
		nameID, err := r.ReadV64()
		if err != nil {
			return skillerr.NewIOError("type nameID", err)
		}
		typeID, err := r.ReadV64()
		if err != nil {
			return skillerr.NewIOError("type typeID", err)
		}
		superID, err := r.ReadV64()
		if err != nil {
			return skillerr.NewIOError("type superID", err)
		}
		bpo, err := r.ReadV64()
		if err != nil {
			return skillerr.NewIOError("type bpo", err)
		}
		staticCount, err := r.ReadV64()
		if err != nil {
			return skillerr.NewIOError("type staticCount", err)
		}
		dynamicCount, err := r.ReadV64()
		if err != nil {
			return skillerr.NewIOError("type dynamicCount", err)
		}

		name, _, err := st.Strings.Get(nameID)
		if err != nil {
			return err
		}

		sp, exists := st.pools[typeID]
		if !exists {
			if superID == 0 {
				sp = pool.NewBasePool(name, typeID)
			} else {
				superPool, ok := st.pools[superID]
				if !ok {
					return fmt.Errorf("pool %q declares unknown super type %d", name, superID)
				}
				sp = pool.NewSubPool(name, typeID, superPool)
			}
			st.pools[typeID] = sp
			st.poolOrder = append(st.poolOrder, typeID)
			st.fieldsOf[typeID] = &poolFields{byName: map[string]*field.Declaration[any]{}}
		}

		sp.AddBlock(pool.NewBlock(int(bpo), int(dynamicCount), int(staticCount)))
		entries = append(entries, blockPoolEntry{p: sp, bpo: int(bpo), staticCount: int(staticCount)})

		st.allocateInstances(sp, int(staticCount))
		sp.AddStaticDataInstances(int(staticCount))
	}

	// 3. field section: gather every field's relative offsets across all
	// pools in this block before resolving them to absolute file offsets,
	// since the field-data section only begins once the whole field
	// section (covering every pool) has been read.
	var pending []pendingOffset
	for _, entry := range entries {
		pf := st.fieldsOf[entry.p.TypeID()]
		ps, err := st.parseFieldsForPool(r, entry, pf)
		if err != nil {
			return err
		}
		pending = append(pending, ps...)
	}

	dataStart := st.Source.Pos()
	var maxEnd int64
	for _, po := range pending {
		var chunk field.Chunk
		if po.isNew && len(po.decl.Chunks()) == 0 && po.blockIdx > 0 {
			chunk = field.BulkChunk{
				Begin:      dataStart + po.prevEnd,
				End:        dataStart + po.end,
				TotalCount: po.poolTotal,
				BlockCount: po.blockIdx,
			}
		} else {
			chunk = field.SimpleChunk{
				Begin: dataStart + po.prevEnd,
				End:   dataStart + po.end,
				Bpo:   po.bpo,
				Count: po.count,
			}
		}
		po.decl.AddChunk(chunk)
		if po.end > maxEnd {
			maxEnd = po.end
		}
	}
	st.Source.Seek(dataStart + maxEnd)

	return nil
}

// allocateInstances fills the shared base array with fresh SubType
// instances for this block's static range (spec.md §4.5 step 3). Runtime
// pools are always SubType-backed since this binding has no generated
// per-schema classes (spec.md §1 out of scope).
func (st *State) allocateInstances(p *pool.StoragePool, staticCount int) {
	for i := 0; i < staticCount; i++ {
		obj := pool.NewSubType(p.TypeID())
		p.AppendToBacking(obj)
	}
}

func (st *State) parseFieldsForPool(r *bits.BitsReader, entry blockPoolEntry, pf *poolFields) ([]pendingOffset, error) {
	fieldsInBlock, err := r.ReadV64()
	if err != nil {
		return nil, skillerr.NewIOError("fields in block", err)
	}

	type seen struct {
		decl  *field.Declaration[any]
		isNew bool
	}
	var blockFields []seen

	for i := int64(0); i < fieldsInBlock; i++ {
		nameID, err := r.ReadV64()
		if err != nil {
			return nil, skillerr.NewIOError("field nameID", err)
		}

		name, _, err := st.Strings.Get(nameID)
		if err != nil {
			return nil, err
		}

		// A field carries its type and restrictions only the first time it
		// is written; whether that's "now" is derived from whether this
		// pool has already registered the name, not a flag on the wire
		// (original_source internal/StoragePool.java's own newField check
		// works the same way: 0 == f.dataChunks.size()).
		decl, isNew := pf.byName[name], false
		if decl == nil {
			isNew = true
			spec, err := ftype.ParseTypeSpec(r)
			if err != nil {
				return nil, err
			}
			if _, err := r.ReadU8(); err != nil { // restrictions byte, reserved
				return nil, skillerr.NewIOError("field restrictions byte", err)
			}
			ft, err := ftype.BuildFieldType(spec, st.Strings)
			if err != nil {
				return nil, err
			}
			decl = field.New[any](name, int64(len(pf.order)+1), ft, entry.p)
			decl.SetTypeSpec(spec)
			pf.byName[name] = decl
			pf.order = append(pf.order, decl)
			entry.p.AddDataField(decl)
		}

		blockFields = append(blockFields, seen{decl: decl, isNew: isNew})
	}

	var out []pendingOffset
	var prevOffset int64
	for _, bf := range blockFields {
		endOffset, err := r.ReadV64()
		if err != nil {
			return nil, skillerr.NewIOError("field end offset", err)
		}
		out = append(out, pendingOffset{
			decl:      bf.decl,
			isNew:     bf.isNew,
			bpo:       entry.bpo,
			count:     entry.staticCount,
			poolTotal: entry.p.StaticDataInstances(),
			prevEnd:   prevOffset,
			end:       endOffset,
			blockIdx:  len(entry.p.Blocks()) - 1,
		})
		prevOffset = endOffset
	}

	return out, nil
}

func (st *State) establishNextPools() {
	all := make([]pool.AnyPool, 0, len(st.pools))
	for _, id := range st.poolOrder {
		all = append(all, st.pools[id])
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TypeID() < all[j].TypeID() })
	pool.EstablishNextPools(all)
}

func (st *State) finishDecode() error {
	var decodables []field.Decodable
	for _, pf := range st.fieldsOf {
		for _, decl := range pf.order {
			decodables = append(decodables, decl)
		}
	}
	return field.Finish(decodables, st.Source)
}

// PoolByTypeID exposes a parsed pool to the skill facade and the debug CLI.
func (st *State) PoolByTypeID(id int64) (*pool.StoragePool, bool) {
	p, ok := st.pools[id]
	return p, ok
}

// Pools returns every pool discovered during parsing, in typeID order.
func (st *State) Pools() []*pool.StoragePool {
	out := make([]*pool.StoragePool, 0, len(st.poolOrder))
	ids := make([]int64, len(st.poolOrder))
	copy(ids, st.poolOrder)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		out = append(out, st.pools[id])
	}
	return out
}

// Fields returns the field declarations belonging to pool typeID.
func (st *State) Fields(typeID int64) []*field.Declaration[any] {
	pf, ok := st.fieldsOf[typeID]
	if !ok {
		return nil
	}
	return pf.order
}
