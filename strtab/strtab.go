/*
Package strtab implements the string table section of the Xarax world file.

The section is a 65536 byte heap followed by an index of 4096 five byte
records. Heap byte 0 is always zero so that offset 0 can stand for "no
string". Each block of text is stored as a NUL terminated C string whose
lines are separated by line feeds. A record holds the category, subject and
variant of a block as one byte each followed by the little-endian 16-bit heap
offset of its first byte. Both parts are zero padded to their full size so the
runtime can read them from fixed offsets.
*/
package strtab

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeapSize is the size in bytes of the padded heap.
	HeapSize = 1 << 16

	// MaxRecords is the capacity of the record index.
	MaxRecords = 4096

	// RecordSize is the size in bytes of each serialized record.
	RecordSize = 5

	// IndexSize is the size in bytes of the padded record index.
	IndexSize = MaxRecords * RecordSize

	// Size is the size in bytes of the whole section.
	Size = HeapSize + IndexSize
)

var (
	// ErrHeapFull is returned when a block does not fit in the heap.
	ErrHeapFull = errors.New("strtab: heap capacity exceeded")

	// ErrIndexFull is returned when there are more than MaxRecords blocks.
	ErrIndexFull = errors.New("strtab: record capacity exceeded")

	// ErrNulByte is returned when the text of a block contains a zero byte.
	ErrNulByte = errors.New("strtab: text contains a NUL byte")

	errSize         = errors.New("strtab: wrong section size")
	errUnterminated = errors.New("strtab: text is not terminated")
)

// Record locates one block of text in the heap.
type Record struct {
	Category uint8
	Subject  uint8
	Variant  uint8
	Offset   uint16
}

// Table is the string table. It implements the encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler interfaces.
type Table struct {
	heap    []byte
	records []Record
}

// New returns an empty string table holding only the sentinel byte.
func New() *Table {
	return &Table{
		heap: []byte{0},
	}
}

// Len returns the number of records in the table
func (t *Table) Len() int {
	return len(t.records)
}

// HeapLen returns the number of heap bytes in use, before padding.
func (t *Table) HeapLen() int {
	return len(t.heap)
}

// Records returns the records in the order their blocks were added.
func (t *Table) Records() []Record {
	return t.records
}

// Heap returns the unpadded heap.
func (t *Table) Heap() []byte {
	return t.heap
}

// Add appends a block of already encoded text and returns its record.
func (t *Table) Add(category, subject, variant uint8, text []byte) (Record, error) {
	// A full heap has no offset left that fits in 16 bits
	if len(t.heap) >= HeapSize {
		return Record{}, ErrHeapFull
	}
	r := Record{
		Category: category,
		Subject:  subject,
		Variant:  variant,
		Offset:   uint16(len(t.heap)),
	}
	if err := t.add(r, text); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (t *Table) add(r Record, text []byte) error {
	if len(t.records) >= MaxRecords {
		return fmt.Errorf("more than %d blocks: %w", MaxRecords, ErrIndexFull)
	}
	if bytes.IndexByte(text, 0) >= 0 {
		return ErrNulByte
	}
	if n := len(t.heap) + len(text) + 1; n > HeapSize {
		return fmt.Errorf("heap would grow to %d bytes: %w", n, ErrHeapFull)
	}

	t.heap = append(t.heap, text...)
	t.heap = append(t.heap, 0)
	t.records = append(t.records, r)
	return nil
}

// Text returns the text r points at, up to but excluding the terminating
// zero byte.
func (t *Table) Text(r Record) []byte {
	if int(r.Offset) >= len(t.heap) {
		return nil
	}
	b := t.heap[r.Offset:]
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return b
}

// Find returns the text of the block matching category, subject and variant,
// passing over the first skip matches. This is how the runtime pages through
// several blocks sharing one key. A negative skip never matches.
func (t *Table) Find(category, subject, variant uint8, skip int) ([]byte, bool) {
	if skip < 0 {
		return nil, false
	}
	for _, r := range t.records {
		if r.Category == category && r.Subject == subject && r.Variant == variant {
			if skip == 0 {
				return t.Text(r), true
			}
			skip--
		}
	}
	return nil, false
}

// MarshalBinary encodes the padded heap followed by the padded record index
func (t *Table) MarshalBinary() ([]byte, error) {
	if len(t.heap) > HeapSize {
		return nil, fmt.Errorf("%d bytes: %w", len(t.heap), ErrHeapFull)
	}
	if len(t.records) > MaxRecords {
		return nil, fmt.Errorf("more than %d blocks: %w", MaxRecords, ErrIndexFull)
	}

	b := new(bytes.Buffer)
	b.Grow(Size)

	// Write out the heap and pad to 64 KiB
	b.Write(t.heap)
	b.Write(make([]byte, HeapSize-len(t.heap)))

	// Write out the records and pad to 4096 entries
	var tmp [RecordSize]byte
	for _, r := range t.records {
		tmp[0], tmp[1], tmp[2] = r.Category, r.Subject, r.Variant
		binary.LittleEndian.PutUint16(tmp[3:], r.Offset)
		b.Write(tmp[:])
	}
	b.Write(make([]byte, (MaxRecords-len(t.records))*RecordSize))

	return b.Bytes(), nil
}

// UnmarshalBinary decodes a padded section. Padding records are recognised by
// their zero offset, which only the sentinel byte can have.
func (t *Table) UnmarshalBinary(b []byte) error {
	if len(b) != Size {
		return fmt.Errorf("%d bytes: %w", len(b), errSize)
	}

	heap := b[:HeapSize]
	index := b[HeapSize:]

	t.records = nil
	used := 1
	for i := 0; i < MaxRecords; i++ {
		e := index[i*RecordSize : (i+1)*RecordSize]
		r := Record{
			Category: e[0],
			Subject:  e[1],
			Variant:  e[2],
			Offset:   binary.LittleEndian.Uint16(e[3:]),
		}
		if r.Offset == 0 {
			continue
		}
		t.records = append(t.records, r)

		end := int(r.Offset) + bytes.IndexByte(heap[r.Offset:], 0) + 1
		if end <= int(r.Offset) {
			return fmt.Errorf("record %d: %w", i, errUnterminated)
		}
		if end > used {
			used = end
		}
	}

	t.heap = append([]byte(nil), heap[:used]...)
	return nil
}
