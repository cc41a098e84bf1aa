package serializer

import (
	"io"
	"sort"

	"github.com/dot5enko/skillrt/field"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/strpool"
	"github.com/dot5enko/skillrt/stream"
)

// flatten returns every pool reachable from roots, roots included, in
// TypeID order - the unit of work every serializer pass operates over.
func flatten(roots []pool.AnyPool) []pool.AnyPool {
	var out []pool.AnyPool
	var walk func(p pool.AnyPool)
	walk = func(p pool.AnyPool) {
		out = append(out, p)
		for _, sp := range p.Subpools() {
			walk(sp)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID() < out[j].TypeID() })
	return out
}

// declarables returns every field.Declarable owned by p, skipping any
// FieldHandle that (unexpectedly) doesn't implement the wider interface.
func declarables(p pool.AnyPool) []field.Declarable {
	handles := p.DataFields()
	out := make([]field.Declarable, 0, len(handles))
	for _, h := range handles {
		if d, ok := h.(field.Declarable); ok {
			out = append(out, d)
		}
	}
	return out
}

// forceLoadLazy materializes every lazy field across pools before
// serialization, so distributed-field maps reflect the full object graph
// (spec.md §4.6 "force-load lazy fields"). source is nil for states built
// programmatically rather than parsed from a file, in which case no field
// can be lazy and this is a no-op.
func forceLoadLazy(pools []pool.AnyPool, source *stream.Source) error {
	if source == nil {
		return nil
	}
	open := func(begin, end int64) (io.Reader, error) {
		return source.SubReader(begin, end-begin), nil
	}
	for _, p := range pools {
		for _, d := range declarables(p) {
			if err := d.EnsureLoaded(open); err != nil {
				return err
			}
		}
	}
	return nil
}

// gatherStrings registers every live string - pool names, field names, and
// every string value reachable from a field's data, including nested
// list/set/map/array positions - into strings (spec.md §4.6 "gather all
// live strings").
func gatherStrings(pools []pool.AnyPool, strings *strpool.Pool) {
	for _, p := range pools {
		strings.Add(p.Name())
		for _, d := range declarables(p) {
			strings.Add(d.Name())
			d.CollectStrings(strings.Add)
		}
	}
}

// compressFields merges every field's pending newData into data (spec.md
// §4.4 Compress, §4.6 "compress distributed fields").
func compressFields(pools []pool.AnyPool) {
	for _, p := range pools {
		for _, d := range declarables(p) {
			d.Compress()
		}
	}
}

// checkRestrictions runs every field's declared restrictions over its
// owning pool's instances, returning the first violation (spec.md §4.6
// "state.check()").
func checkRestrictions(pools []pool.AnyPool) error {
	for _, p := range pools {
		for _, d := range declarables(p) {
			if err := d.CheckRestrictions(); err != nil {
				return err
			}
		}
	}
	return nil
}

// roots returns the base pools (SuperPool() == nil) among pools.
func roots(pools []pool.AnyPool) []pool.AnyPool {
	var out []pool.AnyPool
	for _, p := range pools {
		if p.SuperPool() == nil {
			out = append(out, p)
		}
	}
	return out
}
