package field

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/stream"
)

// Decodable is the non-generic view Finish needs of a Declaration[T],
// mirroring the AnyPool/typed-facade split for fields (spec.md §9).
type Decodable interface {
	Name() string
	IsLazy() bool
	Chunks() []Chunk
	ReadChunk(c Chunk, r *bits.BitsReader) error
}

// Finish submits one parallel job per chunk across all given fields,
// reading each from a bounded sub-reader over the source and verifying
// EOF for non-lazy fields (spec.md §4.4 finish). Lazy fields are skipped
// here; they decode on first access via EnsureLoaded.
func Finish(fields []Decodable, source *stream.Source) error {
	g := new(errgroup.Group)

	for _, f := range fields {
		f := f
		if f.IsLazy() {
			continue
		}
		for _, c := range f.Chunks() {
			c := c
			g.Go(func() error {
				begin, end := c.Bounds()
				sub := source.SubReader(begin, end-begin)
				r := bits.NewReader(sub)
				if err := f.ReadChunk(c, r); err != nil {
					return fmt.Errorf("field %q: %w", f.Name(), err)
				}
				var rest [1]byte
				if n, _ := sub.Read(rest[:]); n != 0 {
					return fmt.Errorf("field %q: chunk [%d,%d) has bytes left after decode", f.Name(), begin, end)
				}
				return nil
			})
		}
	}

	return g.Wait()
}

// Encodable is the write-side counterpart of Decodable.
type Encodable interface {
	Name() string
	Chunks() []Chunk
	WriteChunkDispatch(c Chunk, w *bits.BitWriter) error
}

// Task is one field's write job: the byte span [Begin,End) in the output
// file it owns exclusively (spec.md §4.6 "Build Task{field,begin,end}
// list").
type Task struct {
	Field Encodable
	Chunk Chunk
	Begin int64
	End   int64
}

// WriteParallel writes every task's chunk into its own disjoint window of
// sink, fanned out across an errgroup (spec.md §4.6 writeFieldData).
func WriteParallel(tasks []Task, sink *stream.Sink) error {
	g := new(errgroup.Group)

	for _, t := range tasks {
		t := t
		g.Go(func() error {
			buf := sink.MapBlock(int(t.End - t.Begin))
			w := bits.NewEncodeBuffer(buf)
			if err := t.Field.WriteChunkDispatch(t.Chunk, &w); err != nil {
				return fmt.Errorf("field %q: %w", t.Field.Name(), err)
			}
			return sink.Flush(t.Begin, w.Bytes())
		})
	}

	return g.Wait()
}
