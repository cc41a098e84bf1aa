// Package strpool implements the SKilL string pool (component C): lazy,
// position-indexed loading with at-most-once materialization, and
// deduplicating serialization in both compress and append modes.
package strpool

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/skillerr"
	"github.com/dot5enko/skillrt/stream"
)

type position struct {
	offset int64
	length int64
}

// Pool is the runtime string table. ID 0 is reserved for null (spec.md
// §3). Concurrent Get calls from parallel field decoders are safe: a
// double-checked read of idMap avoids the mutex on the hot path, and a
// singleflight.Group collapses concurrent first-touch loads of the same ID
// onto one file read, mirroring the teacher's slab-load dedup in
// manager/meta/slab_manager.go (there keyed by block UUID, here by string
// ID).
type Pool struct {
	source *stream.Source

	mu        sync.Mutex
	positions []position
	idMap     []*string

	knownStrings map[string]struct{}
	stringIDs    map[string]int64

	loadGroup singleflight.Group
}

func New(source *stream.Source) *Pool {
	return &Pool{
		source:       source,
		knownStrings: map[string]struct{}{},
		stringIDs:    map[string]int64{},
	}
}

// SetPositions installs the position table parsed from the file's string
// pool delta section (spec.md §6). id is 1-based; index 0 of positions
// corresponds to string ID 1.
func (p *Pool) SetPositions(positions []struct{ Offset, Length int64 }) {
	p.positions = make([]position, len(positions))
	for i, pos := range positions {
		p.positions[i] = position{offset: pos.Offset, length: pos.Length}
	}
	p.idMap = make([]*string, len(positions)+1)
}

// Get resolves a string ID to its value, loading and caching it from the
// file on first access. ID 0 always yields "" via the null flag.
func (p *Pool) Get(id int64) (string, bool, error) {
	if id == 0 {
		return "", true, nil
	}
	idx := int(id)
	if idx < 0 || idx >= len(p.idMap) {
		return "", false, skillerr.NewInvalidPoolIndex("strings", idx)
	}

	if cached := p.idMap[idx]; cached != nil {
		return *cached, false, nil
	}

	v, err, _ := p.loadGroup.Do(indexKey(idx), func() (any, error) {
		p.mu.Lock()
		defer p.mu.Unlock()

		if cached := p.idMap[idx]; cached != nil {
			return *cached, nil
		}

		pos := p.positions[idx-1]
		p.source.PushPos()
		defer p.source.PopPos()

		buf := make([]byte, pos.length)
		r := bits.NewReader(p.source.SubReader(pos.offset, pos.length))
		if err := r.ReadBytes(int(pos.length), buf); err != nil {
			return nil, skillerr.NewIOError("string pool load", err)
		}

		s := string(buf)
		p.idMap[idx] = &s
		p.knownStrings[s] = struct{}{}
		return s, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), false, nil
}

func indexKey(idx int) string {
	buf := make([]byte, 0, 12)
	for idx > 0 {
		buf = append(buf, byte('0'+idx%10))
		idx /= 10
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	if len(buf) == 0 {
		return "0"
	}
	return string(buf)
}

// Add registers s as a known string with O(1) insertion; the null string
// value is never added (spec.md §4.3).
func (p *Pool) Add(s string) {
	p.knownStrings[s] = struct{}{}
}

// ResetIDs clears the ID assignment map; called at the start and end of
// every serialization pass.
func (p *Pool) ResetIDs() {
	p.stringIDs = map[string]int64{}
}

func (p *Pool) IDFor(s string) int64 {
	if id, ok := p.stringIDs[s]; ok {
		return id
	}
	return 0
}

func (p *Pool) StringFor(id int64) string {
	s, _, err := p.Get(id)
	if err != nil {
		return ""
	}
	return s
}
