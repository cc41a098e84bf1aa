package pool

import "slices"

// EstablishNextPools computes NextPool for every pool in pools so that
// iteration yields depth-first pre-order within each base hierarchy
// (spec.md §3 "weak type order", §4.2). pools need not be pre-sorted; this
// sorts a copy by TypeID to find base pools deterministically, then links
// each base hierarchy with one DFS pass. This produces the same linkage
// the source's reverse-scan algorithm produces, restated as a direct
// traversal rather than the single backward pass over a parent-chain index
// described in spec.md - both yield the same depth-first pre-order, and the
// DFS form composes more simply with Go's lack of erased generics.
func EstablishNextPools(pools []AnyPool) {
	sorted := make([]AnyPool, len(pools))
	copy(sorted, pools)
	slices.SortFunc(sorted, func(a, b AnyPool) int { return int(a.TypeID() - b.TypeID()) })

	for _, p := range sorted {
		p.SetNextPool(nil)
	}

	for _, p := range sorted {
		if p.SuperPool() != nil {
			continue
		}
		order := make([]AnyPool, 0)
		dfsPreOrder(p, &order)
		for i := 0; i < len(order)-1; i++ {
			order[i].SetNextPool(order[i+1])
		}
	}
}

func dfsPreOrder(p AnyPool, out *[]AnyPool) {
	*out = append(*out, p)
	subs := make([]AnyPool, len(p.Subpools()))
	copy(subs, p.Subpools())
	slices.SortFunc(subs, func(a, b AnyPool) int { return int(a.TypeID() - b.TypeID()) })
	for _, sp := range subs {
		dfsPreOrder(sp, out)
	}
}

// TypeOrderIterator walks a pool's own instances followed by its subtypes'
// instances, in weak type order, yielding existing instances then new
// objects per pool - matching spec.md §4.2 typeOrderIterator.
type TypeOrderIterator struct {
	pools   []AnyPool
	pi      int
	blockI  int
	staticI int
	newI    int
}

func NewTypeOrderIterator(root AnyPool) *TypeOrderIterator {
	var pools []AnyPool
	for p := root; p != nil; p = p.NextPool() {
		pools = append(pools, p)
		if p != root && !isDescendant(root, p) {
			pools = pools[:len(pools)-1]
			break
		}
	}
	return &TypeOrderIterator{pools: pools}
}

func isDescendant(root, p AnyPool) bool {
	for cur := p; cur != nil; cur = cur.SuperPool() {
		if cur == root {
			return true
		}
	}
	return false
}

// Next returns the next object in weak type order, or nil when exhausted.
// Within a pool, its blocks are walked in file order and, within a block,
// its staticCount contiguous slots at [bpo, bpo+staticCount) are yielded.
func (it *TypeOrderIterator) Next() Object {
	for it.pi < len(it.pools) {
		sp, ok := it.pools[it.pi].(*StoragePool)
		if !ok {
			it.pi++
			continue
		}
		data := *sp.data
		for it.blockI < len(sp.blocks) {
			b := sp.blocks[it.blockI]
			if it.staticI < b.StaticCount {
				idx := b.Bpo + it.staticI
				it.staticI++
				if idx >= 0 && idx < len(data) && data[idx] != nil {
					return data[idx]
				}
				continue
			}
			it.blockI++
			it.staticI = 0
		}
		if it.newI < len(sp.newObjects) {
			obj := sp.newObjects[it.newI]
			it.newI++
			return obj
		}
		it.pi++
		it.blockI = 0
		it.staticI = 0
		it.newI = 0
	}
	return nil
}
