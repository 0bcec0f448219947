package strtab

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBinaryEmpty(t *testing.T) {
	b, err := New().MarshalBinary()
	require.NoError(t, err)

	assert.Len(t, b, Size)
	assert.Equal(t, make([]byte, Size), b)
}

func TestMarshalBinary(t *testing.T) {
	table := New()
	r1, err := table.Add(1, 2, 3, []byte("hello\nworld"))
	require.NoError(t, err)
	r2, err := table.Add(4, 5, 6, []byte("bye"))
	require.NoError(t, err)

	assert.Equal(t, uint16(1), r1.Offset)
	assert.Equal(t, uint16(13), r2.Offset)

	b, err := table.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, b, HeapSize+IndexSize)

	heap, index := b[:HeapSize], b[HeapSize:]
	assert.Equal(t, []byte("\x00hello\nworld\x00bye\x00"), heap[:17])
	assert.Equal(t, make([]byte, HeapSize-17), heap[17:])

	assert.Equal(t, []byte{1, 2, 3, 1, 0, 4, 5, 6, 13, 0}, index[:2*RecordSize])
	assert.Equal(t, make([]byte, IndexSize-2*RecordSize), index[2*RecordSize:])
}

func TestMarshalBinaryLittleEndianOffset(t *testing.T) {
	table := New()
	_, err := table.Add(0, 0, 0, bytes.Repeat([]byte{'a'}, 0x1233))
	require.NoError(t, err)
	r, err := table.Add(9, 9, 9, []byte("b"))
	require.NoError(t, err)
	require.Equal(t, uint16(0x1235), r.Offset)

	b, err := table.MarshalBinary()
	require.NoError(t, err)

	e := b[HeapSize+RecordSize : HeapSize+2*RecordSize]
	assert.Equal(t, []byte{9, 9, 9, 0x35, 0x12}, e)
	assert.Equal(t, r.Offset, binary.LittleEndian.Uint16(e[3:]))
}

func TestAddFillsHeapExactly(t *testing.T) {
	table := New()
	_, err := table.Add(1, 1, 1, bytes.Repeat([]byte{'x'}, HeapSize-2))
	require.NoError(t, err)
	assert.Equal(t, HeapSize, table.HeapLen())

	_, err = table.Add(1, 1, 2, nil)
	assert.ErrorIs(t, err, ErrHeapFull)

	b, err := table.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, b, Size)
}

func TestAddCapacity(t *testing.T) {
	table := New()
	for i := 0; i < MaxRecords; i++ {
		_, err := table.Add(uint8(i), uint8(i>>8), 0, nil)
		require.NoError(t, err)
	}
	_, err := table.Add(0, 0, 1, nil)
	assert.ErrorIs(t, err, ErrIndexFull)
	assert.Equal(t, MaxRecords, table.Len())
}

func TestFind(t *testing.T) {
	table := New()
	for _, s := range []string{"first", "other", "second"} {
		v := uint8(0)
		if s == "other" {
			v = 1
		}
		_, err := table.Add(3, 3, v, []byte(s))
		require.NoError(t, err)
	}

	text, ok := table.Find(3, 3, 0, 0)
	assert.True(t, ok)
	assert.Equal(t, "first", string(text))

	text, ok = table.Find(3, 3, 0, 1)
	assert.True(t, ok)
	assert.Equal(t, "second", string(text))

	_, ok = table.Find(3, 3, 0, 2)
	assert.False(t, ok)

	_, ok = table.Find(0, 0, 0, 0)
	assert.False(t, ok)

	_, ok = table.Find(3, 3, 0, -1)
	assert.False(t, ok)
}

func TestUnmarshalBinary(t *testing.T) {
	table := New()
	for _, s := range []string{"one", "two\nlines", ""} {
		_, err := table.Add(1, 2, uint8(len(s)), []byte(s))
		require.NoError(t, err)
	}

	b, err := table.MarshalBinary()
	require.NoError(t, err)

	decoded := New()
	require.NoError(t, decoded.UnmarshalBinary(b))

	assert.Equal(t, table.Records(), decoded.Records())
	assert.Equal(t, table.Heap(), decoded.Heap())
	for _, r := range decoded.Records() {
		assert.Equal(t, table.Text(r), decoded.Text(r))
	}
}

func TestUnmarshalBinaryErrors(t *testing.T) {
	assert.Error(t, New().UnmarshalBinary(make([]byte, Size-1)))

	// A record pointing into unterminated padding-free heap data
	b := bytes.Repeat([]byte{'z'}, Size)
	copy(b[HeapSize:], []byte{1, 1, 1, 0xff, 0xff})
	for i := HeapSize + RecordSize; i < Size; i++ {
		b[i] = 0
	}
	assert.Error(t, New().UnmarshalBinary(b))
}
