package docstore

import "encoding/binary"

// Field is a single named value within a document.
type Field struct {
	Name  string
	Value string
}

// Document is an ordered collection of fields. Field names may repeat;
// Get returns the first occurrence.
type Document struct {
	fields []Field
}

// NewDocument returns an empty document.
func NewDocument() *Document { return new(Document) }

// Add appends a field to the document and returns the document to
// allow chaining.
func (d *Document) Add(name, value string) *Document {
	d.fields = append(d.fields, Field{Name: name, Value: value})
	return d
}

// Get returns the value of the first field with the given name.
func (d *Document) Get(name string) (string, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Len returns the number of fields.
func (d *Document) Len() int { return len(d.fields) }

// Fields returns the document's fields in insertion order. The
// returned slice is owned by the document and must not be modified.
func (d *Document) Fields() []Field { return d.fields }

// encode appends the binary representation of the document to dst.
func (d *Document) encode(dst []byte) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(d.fields)))
	for _, f := range d.fields {
		dst = binary.AppendUvarint(dst, uint64(len(f.Name)))
		dst = append(dst, f.Name...)
		dst = binary.AppendUvarint(dst, uint64(len(f.Value)))
		dst = append(dst, f.Value...)
	}
	return dst
}

// decodeDocument decodes exactly one document from data. Truncated
// input and trailing garbage are both reported as corruption.
func decodeDocument(data []byte) (*Document, error) {
	numFields, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errBadDocument
	}
	data = data[n:]

	doc := new(Document)
	for i := uint64(0); i < numFields; i++ {
		name, rest, ok := decodeString(data)
		if !ok {
			return nil, errBadDocument
		}
		value, rest, ok := decodeString(rest)
		if !ok {
			return nil, errBadDocument
		}
		doc.fields = append(doc.fields, Field{Name: name, Value: value})
		data = rest
	}
	if len(data) != 0 {
		return nil, errBadDocument
	}
	return doc, nil
}

func decodeString(data []byte) (string, []byte, bool) {
	size, n := binary.Uvarint(data)
	if n <= 0 || uint64(len(data)-n) < size {
		return "", nil, false
	}
	return string(data[n : n+int(size)]), data[n+int(size):], true
}
