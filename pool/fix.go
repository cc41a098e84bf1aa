package pool

import "sort"

// Fix computes cachedSize for pools, processing children before parents so
// each parent's dynamic size already reflects its subtypes (spec.md §4.2).
// Calling Fix twice, or Fix/Unfix/Fix, leaves cachedSize unchanged
// (invariant 7): recomputation is idempotent because it only reads
// staticSize/deletedCount and subtype cachedSize, none of which Fix itself
// mutates.
func Fix(pools []AnyPool) {
	sorted := make([]AnyPool, len(pools))
	copy(sorted, pools)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TypeID() > sorted[j].TypeID() })

	for _, p := range sorted {
		own := p.StaticSize() - p.DeletedCount()
		for _, sp := range p.Subpools() {
			own += sp.CachedSize()
		}
		p.SetCachedSize(own)
	}
	for _, p := range sorted {
		p.Fix()
	}
}

func Unfix(pools []AnyPool) {
	for _, p := range pools {
		p.Unfix()
	}
}

func (p *StoragePool) Fix()   { p.fixed = true }
func (p *StoragePool) Unfix() { p.fixed = false }

// UpdateAfterCompress folds staging state into steady state after a full
// rewrite: staticDataInstances absorbs newObjects minus deletions,
// deletedCount resets, and the block list collapses to the single block the
// compress pass just wrote (spec.md §4.2).
func (p *StoragePool) UpdateAfterCompress(lbpo int) {
	p.staticDataInstances += len(p.newObjects) - p.deletedCount
	p.deletedCount = 0
	p.newObjects = nil
	p.blocks = []Block{NewBlock(lbpo, p.cachedSize, p.staticDataInstances)}
}
