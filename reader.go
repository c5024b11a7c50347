package docstore

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/golang/snappy"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ReaderOptions define reader specific options.
type ReaderOptions struct {
	// CacheSize is the maximum number of decompressed blocks kept
	// in memory.
	// Default: 100.
	CacheSize int
}

func (o *ReaderOptions) norm() *ReaderOptions {
	var oo ReaderOptions
	if o != nil {
		oo = *o
	}

	if oo.CacheSize < 1 {
		oo.CacheSize = 100
	}

	return &oo
}

// Reader instances can retrieve documents from a store by ID. A reader
// is immutable after NewReader and safe for concurrent use.
type Reader struct {
	r io.ReaderAt

	index *skipIndex
	space SpaceUsage

	cache  *lru.Cache[uint64, []byte]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewReader opens a reader.
func NewReader(r io.ReaderAt, size int64, o *ReaderOptions) (*Reader, error) {
	o = o.norm()

	// read + parse footer
	if size < footerLen {
		return nil, errBadFooter
	}
	tmp := make([]byte, footerLen)
	if _, err := r.ReadAt(tmp, size-footerLen); err != nil {
		return nil, err
	}
	indexOffset := int64(binary.LittleEndian.Uint64(tmp))
	if indexOffset < 0 || indexOffset > size-footerLen {
		return nil, errBadFooter
	}

	// read + decode skip index
	indexData := make([]byte, size-footerLen-indexOffset)
	if len(indexData) != 0 {
		if _, err := r.ReadAt(indexData, indexOffset); err != nil {
			return nil, err
		}
	}
	index, err := openSkipIndex(indexData)
	if err != nil {
		return nil, err
	}

	cache, err := lru.New[uint64, []byte](o.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Reader{
		r: r,

		index: index,
		space: SpaceUsage{Data: uint64(indexOffset), Index: uint64(len(indexData))},
		cache: cache,
	}, nil
}

// NumDocs returns the number of stored documents.
func (r *Reader) NumDocs() int { return int(r.index.numDocs) }

// NumBlocks returns the number of stored blocks.
func (r *Reader) NumBlocks() int { return len(r.index.all()) }

// Checkpoints returns the block checkpoints in block order. It is
// intended for merge and audit tooling; the returned slice must not
// be modified.
func (r *Reader) Checkpoints() []Checkpoint { return r.index.all() }

// SpaceUsage returns the byte sizes of the data and index segments,
// as computed when the reader was opened.
func (r *Reader) SpaceUsage() SpaceUsage { return r.space }

// CacheStats returns a snapshot of the block cache counters. Counters
// are updated without holding the cache lock, so a snapshot taken
// while reads are in flight may be slightly behind.
func (r *Reader) CacheStats() CacheStats {
	return CacheStats{
		Hits:    r.hits.Load(),
		Misses:  r.misses.Load(),
		Entries: r.cache.Len(),
	}
}

// Get retrieves a single document.
//
// Calling Get is relatively costly as it may require decompressing a
// whole block; repeated reads within the recently visited blocks are
// served from the cache.
func (r *Reader) Get(id DocID) (*Document, error) {
	cp, ok := r.index.seek(id)
	if !ok {
		return nil, fmt.Errorf("docstore: failed to lookup doc #%d: %w", id, ErrNotFound)
	}

	block, err := r.readBlock(cp)
	if err != nil {
		return nil, err
	}

	// skip records preceding id, then decode exactly one
	cursor := block
	for doc := cp.StartDoc; doc < id; doc++ {
		size, n := binary.Uvarint(cursor)
		if n <= 0 || uint64(len(cursor)-n) < size {
			return nil, errBadBlock
		}
		cursor = cursor[n+int(size):]
	}

	size, n := binary.Uvarint(cursor)
	if n <= 0 || uint64(len(cursor)-n) < size {
		return nil, errBadBlock
	}
	return decodeDocument(cursor[n : n+int(size)])
}

// GetMultiple retrieves the given documents, one per input ID and in
// input order. May be faster than separate Get calls if the byte
// source supports multi-range reads; results are identical either
// way. The first failing ID fails the whole batch.
func (r *Reader) GetMultiple(ids []DocID) ([]*Document, error) {
	ranges := make([]Range, 0, len(ids))
	for _, id := range ids {
		if cp, ok := r.index.seek(id); ok {
			ranges = append(ranges, Range{Start: cp.StartOffset, End: cp.EndOffset})
		}
	}
	if err := r.prefetch(ranges); err != nil {
		return nil, err
	}

	docs := make([]*Document, len(ids))
	for i, id := range ids {
		doc, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		docs[i] = doc
	}
	return docs, nil
}

// readBlock returns the decompressed block for cp, serving it from
// the cache when possible. Two goroutines missing on the same block
// may both decompress it and count two misses; the last insert wins,
// which is harmless as blocks are immutable once built.
func (r *Reader) readBlock(cp Checkpoint) ([]byte, error) {
	if block, ok := r.cache.Get(cp.StartOffset); ok {
		r.hits.Add(1)
		return block, nil
	}
	r.misses.Add(1)

	raw := make([]byte, cp.EndOffset-cp.StartOffset)
	if _, err := r.r.ReadAt(raw, int64(cp.StartOffset)); err != nil {
		return nil, err
	}

	block, err := decompressBlock(raw)
	if err != nil {
		return nil, err
	}

	r.cache.Add(cp.StartOffset, block)
	return block, nil
}

// prefetch warms the byte source for the given ranges ahead of the
// per-doc reads.
func (r *Reader) prefetch(ranges []Range) error {
	if len(ranges) == 0 {
		return nil
	}

	if rr, ok := r.r.(RangeReaderAt); ok {
		_, err := rr.ReadAtRanges(ranges)
		return err
	}

	var buf []byte
	for _, rng := range ranges {
		if n := int(rng.End - rng.Start); n > cap(buf) {
			buf = make([]byte, n)
		}
		if _, err := r.r.ReadAt(buf[:rng.End-rng.Start], int64(rng.Start)); err != nil {
			return err
		}
	}
	return nil
}

func decompressBlock(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, errBadBlock
	}

	switch cBitPos := len(raw) - 1; raw[cBitPos] {
	case blockNoCompression:
		return raw[:cBitPos], nil
	case blockSnappyCompression:
		return snappy.Decode(nil, raw[:cBitPos])
	default:
		return nil, errBadCompression
	}
}
