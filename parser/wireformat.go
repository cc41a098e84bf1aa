// Package parser implements the SKilL file parse driver (component F):
// reading the string pool position table, the type and field sections of
// each block, allocating instances, and scheduling the parallel field
// decode jobs once the whole file has been scanned.
package parser

// File prologue: a fixed magic/version pair, ahead of the first block
// (spec.md §6 "Header magic / version bits are defined by the SKilL spec").
// Exported so the serializer can emit the same prologue it parses here.
//
// original_source has no FileParser/prologue-reading class (SKilL generates
// that per schema binding; only the common runtime - StoragePool,
// SerializationFunctions, StringPool, FieldDeclaration - ships in this
// pack), so the literal magic bytes below are this implementation's own
// choice, not a byte-for-byte port; everything downstream of the prologue
// (the type tags, the field payload widths) is ported from the real
// writeType, not invented.
var FileMagic = [4]byte{'S', 'K', 'i', 'L'}

const FileVersion uint8 = 1

// Per-block layout. The type tags and per-constant payload widths are
// ported from original_source
// internal/SerializationFunctions.java:224-284 (writeType) rather than
// invented: constants 0-4 use i8/i16/i32/i64/v64 fixed widths per kind (not
// a uniform v64), ConstantLengthArray/VariableLengthArray/ListType/SetType
// tag with their own typeID (15/17/18/19), MapType tags 20 and recurses
// into key and value, and everything else (primitives, pool references)
// writes no tag at all - just the bare typeID as a v64 (ftype.TypeSpec,
// ftype.ParseTypeSpec/WriteTypeSpec).
//
//  1. string section: v64 count, count x i32 cumulative end offsets,
//     concatenated UTF-8 bytes (spec.md §6 point 1, unchanged).
//  2. type section: v64 typeCount; per type: v64 nameID, v64 typeID,
//     v64 superTypeIDOrZero, v64 bpo, v64 staticCount, v64 dynamicCount.
//  3. field section: per pool in type-section order: v64 fieldsInBlock;
//     per field: v64 nameID; a field's TypeSpec and one reserved
//     restrictions byte follow only the first time that name appears for
//     this pool across every block parsed so far - there is no flag byte
//     marking this, the reader derives it the same way
//     StoragePool.updateAfterPrepareAppend does on the write side
//     (0 == f.dataChunks.size(), i.e. "have I ever chunked this field
//     before"); then v64 endOffset, cumulative across this pool's fields
//     in this block, relative to this block's field-data section start.
//  4. field data: concatenation of each field's payload for this block, in
//     the same per-pool, per-field order as the field section.
