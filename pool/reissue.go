package pool

// ownLiveObjects returns p's own (non-subtype) instances that are not
// deleted: existing block ranges first, then pending new objects, in file
// order - the same per-pool sequence TypeOrderIterator yields, without
// descending into subtypes.
func (p *StoragePool) ownLiveObjects() []Object {
	var out []Object
	data := *p.base.data
	for _, b := range p.blocks {
		for i := 0; i < b.StaticCount; i++ {
			idx := b.Bpo + i
			if idx < 0 || idx >= len(data) {
				continue
			}
			obj := data[idx]
			if obj != nil && obj.SkillID().Kind() != Deleted {
				out = append(out, obj)
			}
		}
	}
	out = append(out, p.newObjects...)
	return out
}

// ReassignDense rebuilds root's shared backing array by walking every type
// in root's hierarchy in weak type order, dropping deleted instances and
// assigning dense 1-based skillIDs in walk order (spec.md §4.6 compress:
// "reassign skillIDs densely, skipping deleted objects"). It returns, per
// typeID, the (bpo, count) of that type's own contiguous range in the new
// array - the compress pass's lbpoMap.
func ReassignDense(root AnyPool) (bpo map[int64]int, count map[int64]int) {
	base, ok := root.(*StoragePool)
	if !ok {
		return nil, nil
	}

	var all []AnyPool
	dfsPreOrder(root, &all)

	bpo = map[int64]int{}
	count = map[int64]int{}

	var live []Object
	for _, p := range all {
		sp := p.(*StoragePool)
		own := sp.ownLiveObjects()
		bpo[sp.TypeID()] = len(live)
		count[sp.TypeID()] = len(own)
		live = append(live, own...)
	}

	for i, obj := range live {
		obj.SetSkillID(SkillID(i + 1))
	}
	*base.base.data = live

	return bpo, count
}
