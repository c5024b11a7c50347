package docstore

import (
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
)

// WriterOptions define writer specific options.
type WriterOptions struct {
	// BlockSize is the minimum uncompressed size in bytes of each
	// store block.
	// Default: 16KiB.
	BlockSize int

	// The compression codec to use.
	// Default: SnappyCompression.
	Compression Compression
}

func (o *WriterOptions) norm() *WriterOptions {
	var oo WriterOptions
	if o != nil {
		oo = *o
	}

	if oo.BlockSize < 1 {
		oo.BlockSize = 1 << 14
	}
	if !oo.Compression.isValid() {
		oo.Compression = SnappyCompression
	}

	return &oo
}

type blockEntry struct {
	NumDocs  uint64 // number of docs in the block
	BlockLen uint64 // compressed block size in bytes
}

// Writer instances can write a document store. Documents are assigned
// dense IDs starting at 0 in append order.
type Writer struct {
	w io.Writer
	o *WriterOptions

	ndocs uint64 // docs in the current block
	total DocID  // docs written overall

	buf []byte // plain block buffer
	snp []byte // snappy buffer
	rec []byte // record scratch buffer
	tmp []byte // varint scratch buffer

	index  []blockEntry
	offset int64
}

// NewWriter wraps a writer and returns a Writer.
func NewWriter(w io.Writer, o *WriterOptions) *Writer {
	return &Writer{
		w:   w,
		o:   o.norm(),
		tmp: make([]byte, 2*binary.MaxVarintLen64),
	}
}

// Append adds a document to the store and returns its assigned ID.
func (w *Writer) Append(doc *Document) (DocID, error) {
	if w.tmp == nil {
		return 0, errClosed
	}

	if len(w.buf) >= w.o.BlockSize {
		if err := w.flush(); err != nil {
			return 0, err
		}
	}

	w.rec = doc.encode(w.rec[:0])
	w.buf = binary.AppendUvarint(w.buf, uint64(len(w.rec)))
	w.buf = append(w.buf, w.rec...)

	id := w.total
	w.ndocs++
	w.total++

	return id, nil
}

// Close flushes the remaining block, writes the skip index and the
// footer, and closes the writer.
func (w *Writer) Close() error {
	if w.tmp == nil {
		return errClosed
	}
	if err := w.flush(); err != nil {
		return err
	}

	indexOffset := w.offset
	if err := w.writeIndex(); err != nil {
		return err
	}

	if err := w.writeFooter(indexOffset); err != nil {
		return err
	}
	w.tmp = nil
	return nil
}

func (w *Writer) writeIndex() error {
	for _, ent := range w.index {
		n := binary.PutUvarint(w.tmp[0:], ent.NumDocs)
		n += binary.PutUvarint(w.tmp[n:], ent.BlockLen)

		if err := w.writeRaw(w.tmp[:n]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeFooter(indexOffset int64) error {
	binary.LittleEndian.PutUint64(w.tmp[0:], uint64(indexOffset))
	return w.writeRaw(w.tmp[:footerLen])
}

func (w *Writer) writeRaw(p []byte) error {
	n, err := w.w.Write(p)
	w.offset += int64(n)
	return err
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}

	var block []byte
	switch w.o.Compression {
	case SnappyCompression:
		w.snp = snappy.Encode(w.snp[:cap(w.snp)], w.buf)
		if len(w.snp) < len(w.buf)-len(w.buf)/4 {
			block = append(w.snp, blockSnappyCompression)
		} else {
			block = append(w.buf, blockNoCompression)
		}
	default:
		block = append(w.buf, blockNoCompression)
	}

	w.index = append(w.index, blockEntry{NumDocs: w.ndocs, BlockLen: uint64(len(block))})
	w.buf = w.buf[:0]
	w.ndocs = 0

	return w.writeRaw(block)
}
