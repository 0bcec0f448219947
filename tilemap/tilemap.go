/*
Package tilemap implements the tile plane encoder for the Xarax world file.

The source is a Tiled JSON export where every top level layer is a group
holding exactly two tile layers. Layer 0 of each group feeds plane 0 and layer
1 feeds plane 1. Tiled stores 0 for an empty cell and 1..N for tile N-1 of the
tileset, so each code is shifted down by one to yield a single byte tile
index. The two planes are written back to back with no header; the consumer
knows the map dimensions.
*/
package tilemap

const (
	// NumPlanes is the number of layers in every group and the number of
	// planes written.
	NumPlanes = 2

	// MaxCode is the largest Tiled code that still fits in one byte after
	// the shift.
	MaxCode = 256
)

// Map is the subset of a Tiled JSON export read by the encoder.
type Map struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Groups []Group `json:"layers"`
}

// Group is a Tiled group layer.
type Group struct {
	Name   string  `json:"name"`
	Layers []Layer `json:"layers"`
}

// Layer is a Tiled tile layer, stored row-major.
type Layer struct {
	Name string `json:"name"`
	Data []int  `json:"data"`
}

// Remap converts a Tiled code into a tile index.
func Remap(code int) (byte, error) {
	switch {
	case code < 0 || code > MaxCode:
		return 0, ErrCodeRange
	case code == 0:
		return 0, nil
	default:
		return byte(code - 1), nil
	}
}

// Tiles returns the number of bytes each plane will hold for m.
func (m *Map) Tiles() int {
	var n int
	for _, g := range m.Groups {
		if len(g.Layers) > 0 {
			n += len(g.Layers[0].Data)
		}
	}
	return n
}
