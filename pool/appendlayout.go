package pool

// AppendBlockInfo describes one pool's contribution to a new append block:
// its (bpo, static) pair for the type section, plus the dynamic count
// (own + subtype new instances) spec.md §6 records alongside it.
type AppendBlockInfo struct {
	TypeID  int64
	Bpo     int
	Static  int
	Dynamic int
}

// PrepareAppendBlocks walks root's hierarchy in weak type order, appends
// every pool's pending new instances to the shared backing array
// (assigning each a continuing skillID), and records one Block per pool
// that gained instances. forceInclude names pools that must still get a
// type-section entry even with zero new instances, because they gained a
// new field (spec.md §4.6 append: "for each pool with new dynamic
// instances or a new field: emit a new block").
func PrepareAppendBlocks(root AnyPool, forceInclude map[int64]bool) []AppendBlockInfo {
	var all []AnyPool
	dfsPreOrder(root, &all)

	var out []AppendBlockInfo
	for _, p := range all {
		sp := p.(*StoragePool)
		bpo := len(*sp.base.data)
		static := len(sp.newObjects)

		if static == 0 && !forceInclude[sp.TypeID()] {
			continue
		}

		var desc []AnyPool
		dfsPreOrder(sp, &desc)
		dynamic := 0
		for _, d := range desc {
			if ds, ok := d.(*StoragePool); ok {
				dynamic += len(ds.newObjects)
			}
		}

		for _, obj := range sp.newObjects {
			sp.AppendToBacking(obj)
		}
		if static > 0 {
			sp.blocks = append(sp.blocks, NewBlock(bpo, dynamic, static))
			sp.staticDataInstances += static
		}
		sp.newObjects = nil

		out = append(out, AppendBlockInfo{TypeID: sp.TypeID(), Bpo: bpo, Static: static, Dynamic: dynamic})
	}
	return out
}
