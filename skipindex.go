package docstore

import (
	"encoding/binary"
	"sort"
)

// skipIndex resolves doc IDs to the checkpoints covering them. It is
// decoded once when the store is opened and is immutable afterwards,
// so it can be shared across goroutines without synchronization.
type skipIndex struct {
	checkpoints []Checkpoint
	numDocs     DocID
}

// openSkipIndex decodes the serialized index segment. Each entry is a
// pair of varints - the number of docs in the block and the block's
// compressed size - with doc IDs and offsets accumulated across
// entries, since blocks are stored back-to-back.
func openSkipIndex(data []byte) (*skipIndex, error) {
	var (
		checkpoints []Checkpoint
		nextDoc     DocID
		nextOffset  uint64
	)

	for pos := 0; pos < len(data); {
		numDocs, n := binary.Uvarint(data[pos:])
		if n <= 0 || numDocs == 0 {
			return nil, errBadIndex
		}
		pos += n

		blockLen, n := binary.Uvarint(data[pos:])
		if n <= 0 || blockLen == 0 {
			return nil, errBadIndex
		}
		pos += n

		checkpoints = append(checkpoints, Checkpoint{
			StartOffset: nextOffset,
			EndOffset:   nextOffset + blockLen,
			StartDoc:    nextDoc,
		})
		nextDoc += DocID(numDocs)
		nextOffset += blockLen
	}

	return &skipIndex{checkpoints: checkpoints, numDocs: nextDoc}, nil
}

// seek returns the checkpoint covering id, or false if id is outside
// the stored range [0, numDocs).
func (s *skipIndex) seek(id DocID) (Checkpoint, bool) {
	if id >= s.numDocs {
		return Checkpoint{}, false
	}

	pos := sort.Search(len(s.checkpoints), func(i int) bool {
		return s.checkpoints[i].StartDoc > id
	}) - 1
	return s.checkpoints[pos], true
}

// all returns every checkpoint in block order.
func (s *skipIndex) all() []Checkpoint { return s.checkpoints }
