package tilemap

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrCodeRange is returned when a tile code is negative or does not fit
	// in a byte after the shift.
	ErrCodeRange  = errors.New("tilemap: tile code out of range")
	ErrLayerCount = errors.New("tilemap: group must have exactly two layers")
	ErrLayerSize  = errors.New("tilemap: layers in group differ in size")
)

type encoder struct {
	planes [NumPlanes][]byte
}

func (e *encoder) encode(m *Map) error {
	for gi, g := range m.Groups {
		if len(g.Layers) != NumPlanes {
			return fmt.Errorf("group %d (%q): %w", gi, g.Name, ErrLayerCount)
		}
		if len(g.Layers[0].Data) != len(g.Layers[1].Data) {
			return fmt.Errorf("group %d (%q): %w", gi, g.Name, ErrLayerSize)
		}

		for i, l := range g.Layers {
			for j, code := range l.Data {
				b, err := Remap(code)
				if err != nil {
					return fmt.Errorf("group %d (%q) layer %d tile %d: %d: %w", gi, g.Name, i, j, code, err)
				}
				e.planes[i] = append(e.planes[i], b)
			}
		}
	}
	return nil
}

// Planes returns the two encoded planes of m. Both planes have the same
// length, the sum of the layer lengths across all groups.
func Planes(m *Map) ([NumPlanes][]byte, error) {
	e := encoder{}
	for i := range e.planes {
		e.planes[i] = make([]byte, 0, m.Tiles())
	}
	if err := e.encode(m); err != nil {
		return [NumPlanes][]byte{}, err
	}
	return e.planes, nil
}

// Encode writes plane 0 followed by plane 1 of m to w.
func Encode(w io.Writer, m *Map) error {
	planes, err := Planes(m)
	if err != nil {
		return err
	}

	for _, p := range planes {
		if _, err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}
