package strpool

import (
	"testing"

	"github.com/dot5enko/skillrt/bits"
)

func TestPrepareAndWriteAssignsSequentialIDs(t *testing.T) {
	p := New(nil)
	p.Add("abc")
	p.Add("xyz")

	buf := make([]byte, 256)
	w := bits.NewEncodeBuffer(buf)
	p.PrepareAndWrite(&w)

	if p.IDFor("abc") == 0 || p.IDFor("xyz") == 0 {
		t.Fatalf("expected both strings to receive nonzero IDs, got abc=%d xyz=%d", p.IDFor("abc"), p.IDFor("xyz"))
	}
	if p.IDFor("abc") == p.IDFor("xyz") {
		t.Errorf("distinct strings got the same ID")
	}
	if p.IDFor("abc") != 1 || p.IDFor("xyz") != 2 {
		t.Errorf("expected sequential IDs abc=1 xyz=2, got abc=%d xyz=%d", p.IDFor("abc"), p.IDFor("xyz"))
	}
}

func TestDeduplication(t *testing.T) {
	p := New(nil)
	p.Add("abc")
	p.Add("abc")

	if len(p.knownStrings) != 1 {
		t.Errorf("expected 1 known string after duplicate Add, got %d", len(p.knownStrings))
	}
}

func TestPrepareAndAppendPreservesPriorIDs(t *testing.T) {
	p := New(nil)
	p.Add("abc")

	buf := make([]byte, 256)
	w := bits.NewEncodeBuffer(buf)
	p.PrepareAndWrite(&w)

	priorID := p.IDFor("abc")

	// simulate reload: idMap now holds "abc" at its assigned index.
	p.idMap = make([]*string, priorID+1)
	s := "abc"
	p.idMap[priorID] = &s

	p.Add("abc")
	p.Add("def")

	w2 := bits.NewEncodeBuffer(make([]byte, 256))
	p.PrepareAndAppend(&w2)

	if p.IDFor("abc") != priorID {
		t.Errorf("append reassigned prior string ID: got %d, want %d", p.IDFor("abc"), priorID)
	}
	if p.IDFor("def") == 0 {
		t.Errorf("new string did not get an ID")
	}
}
