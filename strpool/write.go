package strpool

import (
	"sort"

	"github.com/dot5enko/skillrt/bits"
)

// PrepareAndWrite implements the full-rewrite string section: wipe idMap,
// assign IDs 1..N to every known string (in a stable order so scenario S5's
// determinism holds), emit the count, the cumulative i32 offset table, then
// the concatenated UTF-8 bytes (spec.md §4.3, §6).
func (p *Pool) PrepareAndWrite(w *bits.BitWriter) {
	p.idMap = nil
	p.stringIDs = map[string]int64{}

	ordered := sortedStrings(p.knownStrings)

	w.PutV64(int64(len(ordered)))

	var cum int32
	offsets := make([]int32, len(ordered))
	for i, s := range ordered {
		cum += int32(len(s))
		offsets[i] = cum
	}
	for _, off := range offsets {
		w.PutI32(off)
	}
	for i, s := range ordered {
		p.stringIDs[s] = int64(i + 1)
		w.Write([]byte(s))
	}
}

// PrepareAndAppend implements the incremental append string section:
// existing idMap entries keep their IDs, only strings absent from
// stringIDs get new IDs appended after the current high-water mark, and
// only their bytes are written (spec.md §4.3, invariant 6).
func (p *Pool) PrepareAndAppend(w *bits.BitWriter) {
	for i, s := range p.idMap {
		if s != nil {
			p.stringIDs[*s] = int64(i)
		}
	}

	nextID := int64(len(p.idMap))
	if nextID == 0 {
		nextID = 1
	}

	var todo []string
	for s := range p.knownStrings {
		if _, ok := p.stringIDs[s]; !ok {
			todo = append(todo, s)
		}
	}
	sort.Strings(todo)

	w.PutV64(int64(len(todo)))

	var cum int32
	offsets := make([]int32, len(todo))
	for i, s := range todo {
		cum += int32(len(s))
		offsets[i] = cum
	}
	for _, off := range offsets {
		w.PutI32(off)
	}
	for _, s := range todo {
		p.stringIDs[s] = nextID
		nextID++
		w.Write([]byte(s))
	}
}

func sortedStrings(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
