package docstore

import "errors"

const (
	blockNoCompression     = 0
	blockSnappyCompression = 1
)

// footerLen is the size of the store footer: an 8-byte little-endian
// offset marking the start of the skip index.
const footerLen = 8

// ErrNotFound is returned by the reader when a doc ID is outside the
// range of stored documents.
var ErrNotFound = errors.New("docstore: doc not found")

var (
	errClosed         = errors.New("docstore: is closed")
	errBadFooter      = errors.New("docstore: bad footer")
	errBadCompression = errors.New("docstore: bad compression codec")
	errBadBlock       = errors.New("docstore: corrupted block")
	errBadDocument    = errors.New("docstore: corrupted document")
	errBadIndex       = errors.New("docstore: corrupted skip index")
)

// DocID identifies a document by its logical position within the store.
// IDs are assigned densely from 0 in append order.
type DocID uint32

// Checkpoint maps one compressed block to its byte range within the
// data segment and the ID of the first document it contains.
type Checkpoint struct {
	StartOffset uint64 // byte offset of the block within the store
	EndOffset   uint64 // byte offset one past the end of the block
	StartDoc    DocID  // ID of the first doc in the block
}

// SpaceUsage summarizes the on-disk footprint of a store, computed
// once when the reader is opened.
type SpaceUsage struct {
	Data  uint64 // bytes used by compressed document blocks
	Index uint64 // bytes used by the serialized skip index
}

// Total returns the combined size of data and index segments.
func (u SpaceUsage) Total() uint64 { return u.Data + u.Index }

// CacheStats reports block cache effectiveness counters.
type CacheStats struct {
	Hits    uint64 // block reads served from cache
	Misses  uint64 // block reads requiring decompression
	Entries int    // blocks currently cached
}

// Range is a half-open byte range [Start, End) within a store.
type Range struct {
	Start, End uint64
}

// RangeReaderAt may be implemented by byte sources that can fetch
// several ranges in a single request. The reader uses it to warm the
// source before multi-doc reads; plain io.ReaderAt sources are read
// range by range instead.
type RangeReaderAt interface {
	ReadAtRanges(ranges []Range) ([][]byte, error)
}

// --------------------------------------------------------------------

// Compression is the compression codec
type Compression byte

func (c Compression) isValid() bool {
	return c >= SnappyCompression && c <= unknownCompression
}

// Supported compression codecs
const (
	SnappyCompression Compression = iota
	NoCompression
	unknownCompression
)
