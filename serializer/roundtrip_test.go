package serializer_test

import (
	"path/filepath"
	"testing"

	"github.com/dot5enko/skillrt/field"
	"github.com/dot5enko/skillrt/ftype"
	"github.com/dot5enko/skillrt/parser"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/serializer"
	"github.com/dot5enko/skillrt/strpool"
)

// TestCompressThenParseFieldRoundTrip writes a field section with no isNew
// flag byte on the wire and reads it back, exercising both the corrected
// writer (serializer.Compress) and reader (parser.Parse parseFieldsForPool)
// for a newly declared field end to end.
func TestCompressThenParseFieldRoundTrip(t *testing.T) {
	strings := strpool.New(nil)

	base := pool.NewBasePool("Item", 32)
	o1 := pool.NewSubType(32)
	o2 := pool.NewSubType(32)
	base.AddBase(o1)
	base.AddBase(o2)

	spec := &ftype.TypeSpec{TypeID: ftype.TypeI32}
	ft, err := ftype.BuildFieldType(spec, strings)
	if err != nil {
		t.Fatalf("BuildFieldType: %v", err)
	}
	decl := field.New[any]("x", 1, ft, base)
	decl.SetTypeSpec(spec)
	decl.Set(o1, any(int32(7)))
	decl.Set(o2, any(int32(-3)))
	base.AddDataField(decl)

	path := filepath.Join(t.TempDir(), "roundtrip.skill")
	if err := serializer.Compress([]pool.AnyPool{base}, strings, nil, path, serializer.Options{}); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	parsed, err := parser.Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer parsed.Close()

	fields := parsed.Fields(32)
	if len(fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(fields))
	}
	got := fields[0]
	if got.Name() != "x" {
		t.Errorf("field name = %q, want %q", got.Name(), "x")
	}

	parsedPool, ok := parsed.PoolByTypeID(32)
	if !ok {
		t.Fatalf("pool 32 not found after parse")
	}
	data := parsedPool.DataFields()
	if len(data) != 1 {
		t.Fatalf("got %d data fields on pool, want 1", len(data))
	}

	v1 := got.Get(parsedPool.GetByIDBase(1))
	v2 := got.Get(parsedPool.GetByIDBase(2))
	if v1 != any(int32(7)) {
		t.Errorf("object 1 field x = %v, want 7", v1)
	}
	if v2 != any(int32(-3)) {
		t.Errorf("object 2 field x = %v, want -3", v2)
	}
}
