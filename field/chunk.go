// Package field implements field declarations (component E): the per-field
// chunk list, restriction checks, and the read/write/offset dispatch that
// bridges a ftype.FieldType to a pool's object storage.
package field

// Chunk is a file-level span holding one field's payload for either a
// single block (SimpleChunk) or several already-existing blocks
// (BulkChunk), spec.md §3 "Chunks".
type Chunk interface {
	Bounds() (begin, end int64)
}

// SimpleChunk covers Count instances at base indices [Bpo, Bpo+Count).
type SimpleChunk struct {
	Begin, End int64
	Bpo, Count int
}

func (c SimpleChunk) Bounds() (int64, int64) { return c.Begin, c.End }

// BulkChunk implicitly covers all existing instances of the owning pool's
// first BlockCount blocks - used when a field is added to a pool that
// already has multiple blocks.
type BulkChunk struct {
	Begin, End           int64
	TotalCount, BlockCount int
}

func (c BulkChunk) Bounds() (int64, int64) { return c.Begin, c.End }
