package field

import (
	"bytes"
	"testing"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/ftype"
	"github.com/dot5enko/skillrt/pool"
)

func TestSimpleChunkRoundTrip(t *testing.T) {
	base := pool.NewBasePool("P", 32)

	type obj struct{ pool.Base }
	o1 := &obj{}
	o2 := &obj{}
	base.AppendToBacking(o1)
	base.AppendToBacking(o2)

	decl := New[int32]("x", 1, ftype.I32Type{}, base)
	decl.Set(o1, 7)
	decl.Set(o2, -1)

	sc := SimpleChunk{Bpo: 0, Count: 2}

	buf := make([]byte, 64)
	w := bits.NewEncodeBuffer(buf)
	if err := decl.WriteSimple(sc, &w); err != nil {
		t.Fatalf("write: %v", err)
	}

	offset := decl.OffsetSimple(sc)
	if int(offset) != w.Position() {
		t.Errorf("offset invariant: computed %d, wrote %d", offset, w.Position())
	}

	decl2 := New[int32]("x", 1, ftype.I32Type{}, base)
	r := bits.NewReader(bytes.NewReader(w.Bytes()))
	if err := decl2.ReadSimple(sc, r); err != nil {
		t.Fatalf("read: %v", err)
	}

	if decl2.Get(o1) != 7 {
		t.Errorf("o1.x = %d, want 7", decl2.Get(o1))
	}
	if decl2.Get(o2) != -1 {
		t.Errorf("o2.x = %d, want -1", decl2.Get(o2))
	}
}

func TestRestrictionFailure(t *testing.T) {
	base := pool.NewBasePool("P", 32)
	type obj struct{ pool.Base }
	o1 := &obj{}
	base.AppendToBacking(o1)
	base.SetBlocks([]pool.Block{{Bpo: 0, StaticCount: 1, DynamicCount: 1}})

	decl := New[int32]("x", 1, ftype.I32Type{}, base)
	decl.Set(o1, -5)
	decl.AddRestriction(func(v int32) error {
		if v < 0 {
			return bytes.ErrTooLarge
		}
		return nil
	})

	if err := decl.CheckRestrictions(); err == nil {
		t.Error("expected restriction violation, got nil")
	}
}
