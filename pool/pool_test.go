package pool

import "testing"

type dummyObj struct{ Base }

func TestIDIndexInvariant(t *testing.T) {
	p := NewBasePool("Foo", 32)

	a := &dummyObj{}
	b := &dummyObj{}

	idA := p.AppendToBacking(a)
	idB := p.AppendToBacking(b)

	if got := p.GetByIDBase(idA); got != Object(a) {
		t.Errorf("GetByIDBase(%d) = %v, want %v", idA, got, a)
	}
	if got := p.GetByIDBase(idB); got != Object(b) {
		t.Errorf("GetByIDBase(%d) = %v, want %v", idB, got, b)
	}
	if idA.Index() != 0 || idB.Index() != 1 {
		t.Errorf("unexpected indices: %d, %d", idA.Index(), idB.Index())
	}
}

func TestFixIdempotence(t *testing.T) {
	base := NewBasePool("Base", 32)
	sub := NewSubPool("Sub", 33, base)

	base.AddStaticDataInstances(5)
	sub.AddStaticDataInstances(3)

	pools := []AnyPool{base, sub}

	Fix(pools)
	first := base.CachedSize()

	Fix(pools)
	if base.CachedSize() != first {
		t.Errorf("Fix twice changed cachedSize: %d -> %d", first, base.CachedSize())
	}

	Unfix(pools)
	Fix(pools)
	if base.CachedSize() != first {
		t.Errorf("Fix/Unfix/Fix changed cachedSize: %d -> %d", first, base.CachedSize())
	}
}

func TestEstablishNextPoolsDepthFirst(t *testing.T) {
	base := NewBasePool("A", 32)
	child1 := NewSubPool("B", 33, base)
	grandchild := NewSubPool("C", 34, child1)
	child2 := NewSubPool("D", 35, base)

	pools := []AnyPool{base, child1, grandchild, child2}
	EstablishNextPools(pools)

	if base.NextPool() != AnyPool(child1) {
		t.Errorf("base.next = %v, want child1", base.NextPool())
	}
	if child1.NextPool() != AnyPool(grandchild) {
		t.Errorf("child1.next = %v, want grandchild", child1.NextPool())
	}
	if grandchild.NextPool() != AnyPool(child2) {
		t.Errorf("grandchild.next = %v, want child2", grandchild.NextPool())
	}
	if child2.NextPool() != nil {
		t.Errorf("child2.next = %v, want nil", child2.NextPool())
	}
}
