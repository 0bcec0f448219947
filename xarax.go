/*
Package xarax bakes the world file loaded by the Xarax adventure game.

The world file has no header. It is the two tile planes of the map followed
by the string table section, and the game reads each part from a fixed offset
that depends only on the map dimensions.
*/
package xarax

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kieselsteini/xarax/config"
	"github.com/kieselsteini/xarax/strtab"
	"github.com/kieselsteini/xarax/tilemap"
)

type Baker struct {
	cfg    *config.Config
	logger *log.Logger
}

func New(cfg *config.Config, logger *log.Logger) *Baker {
	return &Baker{
		cfg:    cfg,
		logger: logger,
	}
}

// Result describes a finished bake.
type Result struct {
	// Tiles is the length of each plane.
	Tiles int
	// Strings is the string table as written.
	Strings *strtab.Table
}

func (b *Baker) parser() *strtab.Parser {
	p := strtab.NewParser(b.logger)
	p.Header = b.cfg.HeaderMarker[0]
	p.Terminator = b.cfg.TerminatorMarker[0]
	p.Codepage = b.cfg.Codepage
	return p
}

// Bake encodes the map read from m and the script read from script, then
// writes plane 0, plane 1, the heap and the record index to w. Nothing is
// written unless both inputs encode successfully.
func (b *Baker) Bake(w io.Writer, m, script io.Reader) (*Result, error) {
	tm, err := tilemap.Decode(m)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	planes, err := tilemap.Planes(tm)
	if err != nil {
		return nil, fmt.Errorf("map: %w", err)
	}
	if n := len(planes[0]); b.cfg.MapTiles > 0 && n != b.cfg.MapTiles {
		b.logger.Printf("Map has %d tiles per plane, the game expects %d\n", n, b.cfg.MapTiles)
	}

	table, err := b.parser().Parse(script)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	section, err := table.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}

	for _, p := range [][]byte{planes[0], planes[1], section} {
		if _, err := w.Write(p); err != nil {
			return nil, err
		}
	}

	b.logger.Printf("Wrote %d tiles per plane and %d text blocks\n", len(planes[0]), table.Len())

	return &Result{
		Tiles:   len(planes[0]),
		Strings: table,
	}, nil
}

// BakeFiles bakes the configured map and script into the configured output
// file. The output file is only created once everything has been encoded.
func (b *Baker) BakeFiles() (*Result, error) {
	m, err := os.Open(b.cfg.Map)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	script, err := os.Open(b.cfg.Script)
	if err != nil {
		return nil, err
	}
	defer script.Close()

	buf := new(bytes.Buffer)
	result, err := b.Bake(buf, m, script)
	if err != nil {
		return nil, err
	}

	f, err := os.Create(b.cfg.Output)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err = buf.WriteTo(f); err != nil {
		return nil, err
	}

	return result, f.Close()
}
