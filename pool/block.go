package pool

import "github.com/google/uuid"

// Block records one file block's contribution to a pool: bpo is the
// absolute index into the base array where this block's static instances
// begin; dynamicCount includes subtypes, staticCount does not (spec.md §3).
// Uid identifies the block for the runtime cache, grounded on the teacher's
// use of a uuid.UUID per disk block/slab in manager/meta/slab_manager.go.
type Block struct {
	Uid          uuid.UUID
	Bpo          int
	DynamicCount int
	StaticCount  int
}

func NewBlock(bpo, dynamicCount, staticCount int) Block {
	return Block{
		Uid:          uuid.New(),
		Bpo:          bpo,
		DynamicCount: dynamicCount,
		StaticCount:  staticCount,
	}
}
