package serializer

import (
	"log/slog"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/field"
	"github.com/dot5enko/skillrt/ftype"
	"github.com/dot5enko/skillrt/parser"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/skillerr"
	"github.com/dot5enko/skillrt/strpool"
	"github.com/dot5enko/skillrt/stream"
)

// fieldWork is one field's place in the file being written: its owning
// pool's (bpo,count) range, the TypeSpec to redeclare it with, and the
// byte span - filled in once offsets are known - it will occupy.
type fieldWork struct {
	decl     field.Declarable
	owner    int64
	poolBpo  int
	poolSize int
	begin    int64
	end      int64
}

// Compress performs a full rewrite of path: every live object gets a dense
// skillID, every field is redeclared from scratch, and the whole object
// graph is re-emitted as a single block (spec.md §4.6 "Full write").
// source is the file state was parsed from, or nil for a state built
// purely in memory; it is only consulted to force-load lazy fields.
func Compress(rs []pool.AnyPool, strings *strpool.Pool, source *stream.Source, path string, opts Options) error {
	pools := flatten(rs)

	if err := forceLoadLazy(pools, source); err != nil {
		return err
	}
	gatherStrings(pools, strings)
	compressFields(pools)
	if err := checkRestrictions(pools); err != nil {
		return err
	}

	strings.ResetIDs()
	pool.Fix(pools)

	bpoOf := map[int64]int{}
	countOf := map[int64]int{}
	for _, r := range roots(pools) {
		b, c := pool.ReassignDense(r)
		for k, v := range b {
			bpoOf[k] = v
		}
		for k, v := range c {
			countOf[k] = v
		}
	}

	header := bits.NewEncodeBuffer(make([]byte, 0, 4096))
	header.EnableGrowing()
	for _, b := range parser.FileMagic {
		header.WriteByte(b)
	}
	header.WriteByte(parser.FileVersion)

	strings.PrepareAndWrite(&header)

	header.PutV64(int64(len(pools)))
	for _, p := range pools {
		superID := int64(0)
		if sp := p.SuperPool(); sp != nil {
			superID = sp.TypeID()
		}
		header.PutV64(strings.IDFor(p.Name()))
		header.PutV64(p.TypeID())
		header.PutV64(superID)
		header.PutV64(int64(bpoOf[p.TypeID()]))
		header.PutV64(int64(countOf[p.TypeID()]))
		header.PutV64(int64(p.CachedSize()))
	}

	var work []*fieldWork
	for _, p := range pools {
		fields := declarables(p)
		header.PutV64(int64(len(fields)))
		for _, d := range fields {
			// A field's TypeSpec and restrictions byte are written only the
			// first time that name appears for this pool (parser/wireformat.go);
			// a full rewrite redeclares every pool from scratch, so every
			// field here is by definition appearing for the first time.
			header.PutV64(strings.IDFor(d.Name()))
			if err := ftype.WriteTypeSpec(&header, d.TypeSpec()); err != nil {
				return err
			}
			header.WriteByte(0) // restrictions byte, reserved.
			work = append(work, &fieldWork{decl: d, owner: p.TypeID(), poolBpo: bpoOf[p.TypeID()], poolSize: countOf[p.TypeID()]})
		}
	}

	var cum int64
	for _, w := range work {
		sc := field.SimpleChunk{Bpo: w.poolBpo, Count: w.poolSize}
		size := w.decl.OffsetChunk(sc)
		w.begin = cum
		w.end = cum + size
		cum = w.end
		header.PutV64(w.end)
	}

	dataStart := int64(header.Position())
	total := dataStart + cum

	sink, err := stream.CreateSink(path, total)
	if err != nil {
		return skillerr.NewIOError("create sink", err)
	}
	if err := sink.Flush(0, header.Bytes()); err != nil {
		sink.Close()
		return skillerr.NewIOError("flush header", err)
	}

	var tasks []field.Task
	for _, w := range work {
		chunk := field.SimpleChunk{Begin: dataStart + w.begin, End: dataStart + w.end, Bpo: w.poolBpo, Count: w.poolSize}
		w.decl.ClearChunks()
		w.decl.AddChunk(chunk)
		tasks = append(tasks, field.Task{Field: w.decl, Chunk: chunk, Begin: chunk.Begin, End: chunk.End})
	}

	if err := field.WriteParallel(tasks, sink); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return skillerr.NewIOError("close sink", err)
	}

	pool.Unfix(pools)
	for _, p := range pools {
		if sp, ok := p.(interface{ UpdateAfterCompress(int) }); ok {
			sp.UpdateAfterCompress(bpoOf[p.TypeID()])
		}
	}
	strings.ResetIDs()

	slog.Info("compress finished", "path", path, "pools", len(pools), "fields", len(work), "bytes", total)
	return nil
}
