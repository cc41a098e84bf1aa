package serializer

import (
	"log/slog"
	"os"

	"github.com/dot5enko/skillrt/bits"
	"github.com/dot5enko/skillrt/field"
	"github.com/dot5enko/skillrt/ftype"
	"github.com/dot5enko/skillrt/parser"
	"github.com/dot5enko/skillrt/pool"
	"github.com/dot5enko/skillrt/skillerr"
	"github.com/dot5enko/skillrt/strpool"
	"github.com/dot5enko/skillrt/stream"
)

// Append performs an incremental write: only new strings, new instances,
// and newly declared fields are emitted as one additional block at the end
// of path, and every previously assigned string ID and skillID is left
// untouched (spec.md §4.6 "Append", invariant 6).
func Append(rs []pool.AnyPool, strings *strpool.Pool, source *stream.Source, path string, opts Options) error {
	pools := flatten(rs)

	if err := forceLoadLazy(pools, source); err != nil {
		return err
	}
	gatherStrings(pools, strings)
	compressFields(pools)
	if err := checkRestrictions(pools); err != nil {
		return err
	}

	newFieldOwner := map[int64]bool{}
	for _, p := range pools {
		for _, d := range declarables(p) {
			if len(d.Chunks()) == 0 {
				newFieldOwner[p.TypeID()] = true
			}
		}
	}

	var blocks []pool.AppendBlockInfo
	for _, r := range roots(pools) {
		blocks = append(blocks, pool.PrepareAppendBlocks(r, newFieldOwner)...)
	}
	if len(blocks) == 0 {
		slog.Info("append: nothing new, skipping", "path", path)
		return nil
	}

	header := bits.NewEncodeBuffer(make([]byte, 0, 1024))
	header.EnableGrowing()

	strings.PrepareAndAppend(&header)

	header.PutV64(int64(len(blocks)))
	byType := map[int64]pool.AnyPool{}
	for _, p := range pools {
		byType[p.TypeID()] = p
	}
	for _, b := range blocks {
		p := byType[b.TypeID]
		superID := int64(0)
		if sp := p.SuperPool(); sp != nil {
			superID = sp.TypeID()
		}
		header.PutV64(strings.IDFor(p.Name()))
		header.PutV64(p.TypeID())
		header.PutV64(superID)
		header.PutV64(int64(b.Bpo))
		header.PutV64(int64(b.Static))
		header.PutV64(int64(b.Dynamic))
	}

	var work []*fieldWork
	for _, b := range blocks {
		p := byType[b.TypeID]
		fields := declarables(p)
		var inBlock []field.Declarable
		for _, d := range fields {
			if newFieldOwner[p.TypeID()] && len(d.Chunks()) == 0 {
				inBlock = append(inBlock, d)
				continue
			}
			if b.Static > 0 {
				inBlock = append(inBlock, d)
			}
		}

		header.PutV64(int64(len(inBlock)))
		for _, d := range inBlock {
			// A field's TypeSpec and restrictions byte follow its nameID
			// only the first time this name has ever been chunked for this
			// pool - no flag byte on the wire, mirrored on the read side in
			// parser/state.go's parseFieldsForPool.
			header.PutV64(strings.IDFor(d.Name()))
			if len(d.Chunks()) == 0 {
				if err := ftype.WriteTypeSpec(&header, d.TypeSpec()); err != nil {
					return err
				}
				header.WriteByte(0)
			}
			work = append(work, &fieldWork{decl: d, owner: b.TypeID, poolBpo: b.Bpo, poolSize: b.Static})
		}
	}

	// A field forced into this append purely because it is brand new (its
	// owning pool has no fresh static instances this round) must still
	// cover every instance the pool already has, via a BulkChunk over the
	// pool's whole existing range rather than this block's empty one.
	bulkTotal := map[*fieldWork]int{}
	for _, w := range work {
		if len(w.decl.Chunks()) == 0 && w.poolSize == 0 {
			bulkTotal[w] = byType[w.owner].StaticSize()
		}
	}

	var cum int64
	for _, w := range work {
		var size int64
		if total, forced := bulkTotal[w]; forced {
			size = w.decl.OffsetChunk(field.BulkChunk{TotalCount: total, BlockCount: total})
		} else {
			size = w.decl.OffsetChunk(field.SimpleChunk{Bpo: w.poolBpo, Count: w.poolSize})
		}
		w.begin = cum
		w.end = cum + size
		cum = w.end
		header.PutV64(w.end)
	}

	existing := int64(0)
	if source != nil {
		existing = source.Len()
	}
	dataStart := existing + int64(header.Position())

	var tasks []field.Task
	for _, w := range work {
		var chunk field.Chunk
		if total, forced := bulkTotal[w]; forced {
			chunk = field.BulkChunk{Begin: dataStart + w.begin, End: dataStart + w.end, TotalCount: total, BlockCount: total}
		} else {
			chunk = field.SimpleChunk{Begin: dataStart + w.begin, End: dataStart + w.end, Bpo: w.poolBpo, Count: w.poolSize}
		}
		w.decl.AddChunk(chunk)
		tasks = append(tasks, field.Task{Field: w.decl, Chunk: chunk, Begin: dataStart + w.begin, End: dataStart + w.end})
	}

	total := dataStart + cum

	tmpPath := path + ".append.tmp"
	sink, err := stream.CreateSink(tmpPath, total)
	if err != nil {
		return skillerr.NewIOError("create append sink", err)
	}
	if source != nil {
		if err := copySourceInto(source, sink, opts.CopyWindow); err != nil {
			sink.Close()
			return err
		}
	} else {
		for _, b := range parser.FileMagic {
			sink.Flush(int64(0), []byte{b})
		}
	}
	if err := sink.Flush(existing, header.Bytes()); err != nil {
		sink.Close()
		return skillerr.NewIOError("flush append header", err)
	}

	if err := field.WriteParallel(tasks, sink); err != nil {
		sink.Close()
		return err
	}
	if err := sink.Close(); err != nil {
		return skillerr.NewIOError("close append sink", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return skillerr.NewIOError("replace file with appended copy", err)
	}

	slog.Info("append finished", "path", path, "new blocks", len(blocks), "fields", len(work))
	return nil
}

// copySourceInto streams every byte of source into sink at the same
// offsets, preserving the file being appended to.
func copySourceInto(source *stream.Source, sink *stream.Sink, window int) error {
	if window <= 0 {
		window = defaultCopyWindow
	}
	total := source.Len()
	buf := make([]byte, window)
	for off := int64(0); off < total; {
		n := window
		if remain := total - off; remain < int64(n) {
			n = int(remain)
		}
		r := source.SubReader(off, int64(n))
		read := 0
		for read < n {
			m, err := r.Read(buf[read:n])
			read += m
			if err != nil {
				break
			}
		}
		if err := sink.Flush(off, buf[:n]); err != nil {
			return skillerr.NewIOError("append copy", err)
		}
		off += int64(n)
	}
	return nil
}
