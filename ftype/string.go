package ftype

import "github.com/dot5enko/skillrt/bits"

// StringType encodes a string as a v64 stringID (0 for null); resolving the
// ID to bytes is the string pool's job (spec.md §4.1, §4.3). ftype only
// knows the wire shape, so reading yields the raw ID and writing takes one;
// StringField below calls through a StringResolver to turn IDs into Go
// strings and back.
type StringType struct{}

func (StringType) TypeID() int64 { return TypeString }

func (StringType) ReadSingleID(r *bits.BitsReader) (int64, error) {
	return r.ReadV64()
}

func (StringType) WriteSingleID(id int64, w *bits.BitWriter) error {
	w.PutV64(id)
	return nil
}

func (StringType) SingleOffsetID(id int64) int64 {
	return int64(bits.V64Len(id))
}

// StringField adapts StringType to the uniform FieldType[string] contract
// by resolving IDs through resolver (normally the file's strpool.Pool).
type StringField struct {
	Resolver StringResolver
}

func (s StringField) TypeID() int64 { return TypeString }

func (s StringField) ReadSingle(r *bits.BitsReader) (string, error) {
	id, err := StringType{}.ReadSingleID(r)
	if err != nil {
		return "", err
	}
	return s.Resolver.StringFor(id), nil
}

func (s StringField) WriteSingle(v string, w *bits.BitWriter) error {
	return StringType{}.WriteSingleID(s.Resolver.IDFor(v), w)
}

func (s StringField) SingleOffset(v string) int64 {
	return StringType{}.SingleOffsetID(s.Resolver.IDFor(v))
}
