package xarax

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/kieselsteini/xarax/strtab"
	"github.com/kieselsteini/xarax/tilemap"
)

var errWorldSize = errors.New("xarax: world file has the wrong size")

// World is a decoded world file.
type World struct {
	Planes  [tilemap.NumPlanes][]byte
	Strings *strtab.Table

	section []byte
}

// Size returns the size in bytes of a world file whose planes hold tiles
// bytes each.
func Size(tiles int) int {
	return tilemap.NumPlanes*tiles + strtab.Size
}

// Decode reads a world file from r. The plane length is not stored in the
// file so it has to be supplied.
func Decode(r io.Reader, tiles int) (*World, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if tiles < 0 || len(b) != Size(tiles) {
		return nil, fmt.Errorf("%d bytes, want %d for %d tiles: %w", len(b), Size(tiles), tiles, errWorldSize)
	}

	w := &World{
		Strings: strtab.New(),
		section: b[tilemap.NumPlanes*tiles:],
	}
	for i := range w.Planes {
		w.Planes[i] = b[i*tiles : (i+1)*tiles]
	}
	if err := w.Strings.UnmarshalBinary(w.section); err != nil {
		return nil, err
	}

	return w, nil
}

// OpenWorld decodes the world file stored in file.
func OpenWorld(file string, tiles int) (*World, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f, tiles)
}

// Digest holds xxHash64 sums of each section of a world file.
type Digest struct {
	Planes [tilemap.NumPlanes]uint64
	Heap   uint64
	Index  uint64
}

// Digest fingerprints each section so two bakes can be compared without a
// byte-wise diff.
func (w *World) Digest() Digest {
	var d Digest
	for i, p := range w.Planes {
		d.Planes[i] = xxhash.Sum64(p)
	}
	d.Heap = xxhash.Sum64(w.section[:strtab.HeapSize])
	d.Index = xxhash.Sum64(w.section[strtab.HeapSize:])
	return d
}
