// Package skill is the top-level facade (component G): it wires the parse
// driver, the pool forest and string pool, and the serializer's compress
// and append modes behind one handle, mirroring the teacher's
// manager.Manager/manager.New(config) split between runtime config and
// constructor.
package skill

import (
	"runtime"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/dot5enko/skillrt/field"
	"github.com/dot5enko/skillrt/parser"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/serializer"
	"github.com/dot5enko/skillrt/strpool"
	"github.com/dot5enko/skillrt/stream"
)

// RuntimeConfig holds the knobs the ambient stack needs. CopyWindow sets how
// large a window the append copy path moves at a time. Workers is stored
// but not read: field encode/decode starts one goroutine per chunk with no
// bound.
type RuntimeConfig struct {
	Workers     int
	CopyWindow  int
	CompressLzs bool // hook for serializer.Options.CompressPayloads, see DESIGN.md
}

// DefaultConfig returns sane defaults: one worker per CPU and a 1MiB copy
// window for the append path's whole-file carry-forward.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		Workers:    runtime.NumCPU(),
		CopyWindow: 1 << 20,
	}
}

// State is a handle on one SKilL object graph, whether freshly built in
// memory or parsed from an existing file.
type State struct {
	cfg RuntimeConfig

	parsed  *parser.State // nil for a state that was never opened from a file
	strings *strpool.Pool
	pools   map[int64]*pool.StoragePool
	order   []int64
}

// New creates an empty state with no pools, ready for DeclareBase/DeclareSub
// calls followed by Write to a fresh file.
func New(cfg RuntimeConfig) *State {
	return &State{
		cfg:     cfg,
		strings: strpool.New(nil),
		pools:   map[int64]*pool.StoragePool{},
	}
}

// Open parses path and returns a state whose pools and fields mirror its
// contents (spec.md §4.5).
func Open(path string, cfg RuntimeConfig) (*State, error) {
	parsed, err := parser.Parse(path)
	if err != nil {
		return nil, err
	}

	st := &State{
		cfg:     cfg,
		parsed:  parsed,
		strings: parsed.Strings,
		pools:   map[int64]*pool.StoragePool{},
	}
	for _, p := range parsed.Pools() {
		st.pools[p.TypeID()] = p
		st.order = append(st.order, p.TypeID())
	}
	return st, nil
}

// DeclareBase registers a new root type. typeID is not checked against the
// IDs already in use: a repeated typeID replaces the earlier pool in the
// registry without any error.
func (s *State) DeclareBase(name string, typeID int64) *pool.StoragePool {
	p := pool.NewBasePool(name, typeID)
	s.pools[typeID] = p
	s.order = append(s.order, typeID)
	return p
}

// DeclareSub registers a subtype of an already-declared base or sub pool.
func (s *State) DeclareSub(name string, typeID int64, super *pool.StoragePool) *pool.StoragePool {
	p := pool.NewSubPool(name, typeID, super)
	s.pools[typeID] = p
	s.order = append(s.order, typeID)
	return p
}

// TypeIDs returns a stable, sorted snapshot of every declared type ID.
func (s *State) TypeIDs() []int64 {
	ids := maps.Keys(s.pools)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Types returns every declared pool, sorted by typeID, the same order the
// serializer writes the type section in (not the weak type order).
func (s *State) Types() []pool.AnyPool {
	ids := s.TypeIDs()
	out := make([]pool.AnyPool, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.pools[id])
	}
	return out
}

// PoolByTypeID looks up a declared or parsed pool by its numeric type ID.
func (s *State) PoolByTypeID(id int64) (*pool.StoragePool, bool) {
	p, ok := s.pools[id]
	return p, ok
}

// Strings exposes the state's string pool for field restriction checks and
// the debug CLI.
func (s *State) Strings() *strpool.Pool { return s.strings }

// Fields returns the field declarations parsed for typeID, or nil for a
// pool built programmatically rather than parsed from a file (use
// DataFields on the pool itself in that case).
func (s *State) Fields(typeID int64) []*field.Declaration[any] {
	if s.parsed == nil {
		return nil
	}
	return s.parsed.Fields(typeID)
}

func (s *State) roots() []pool.AnyPool {
	var out []pool.AnyPool
	for _, id := range s.order {
		if p := s.pools[id]; p.SuperPool() == nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID() < out[j].TypeID() })
	return out
}

func (s *State) parsedSource() *stream.Source {
	if s.parsed == nil {
		return nil
	}
	return s.parsed.Source
}

// Write performs a full rewrite of path (spec.md §4.6 "compress"): every
// live object is reassigned a dense skillID and the whole graph is
// re-emitted in one block.
func (s *State) Write(path string) error {
	return serializer.Compress(s.roots(), s.strings, s.parsedSource(), path, s.options())
}

// Append incrementally writes only what changed since the state was opened
// or last written: new strings, new instances, and newly declared fields
// (spec.md §4.6 "append").
func (s *State) Append(path string) error {
	return serializer.Append(s.roots(), s.strings, s.parsedSource(), path, s.options())
}

// Close releases the underlying memory-mapped source, if this state was
// opened from a file.
func (s *State) Close() error {
	if s.parsed == nil {
		return nil
	}
	return s.parsed.Close()
}

func (s *State) options() serializer.Options {
	return serializer.Options{CompressPayloads: s.cfg.CompressLzs, CopyWindow: s.cfg.CopyWindow}
}
