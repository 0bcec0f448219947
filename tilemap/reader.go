package tilemap

import (
	"encoding/json"
	"io"
	"os"
)

// Decode reads a Tiled JSON export from r.
func Decode(r io.Reader) (*Map, error) {
	m := new(Map)
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Open reads the Tiled JSON export stored in file.
func Open(file string) (*Map, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}
