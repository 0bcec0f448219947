package strtab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"unicode"
)

const (
	// DefaultHeader is the marker opening a block, followed by its
	// category, subject and variant.
	DefaultHeader = '!'

	// DefaultTerminator is the marker closing a block.
	DefaultTerminator = '.'
)

// ErrHeader is returned for a header line that does not carry three byte
// sized integers.
var ErrHeader = errors.New("strtab: malformed header")

// Parser reads text markup into a Table.
//
// A header line opens a block and a terminator line closes it, appending the
// collected lines joined by line feeds to the heap. Lines outside a block are
// ignored. A header inside an open block abandons the open block without
// writing it, and a block still open at the end of the input is dropped;
// both are logged as warnings.
type Parser struct {
	Header     byte
	Terminator byte
	Codepage   string
	Logger     *log.Logger
}

// NewParser returns a Parser using the default markers and UTF-8 text.
func NewParser(logger *log.Logger) *Parser {
	return &Parser{
		Header:     DefaultHeader,
		Terminator: DefaultTerminator,
		Codepage:   UTF8,
		Logger:     logger,
	}
}

type block struct {
	line   int
	record Record
	lines  []string
}

type parser struct {
	header     byte
	terminator byte
	logger     *log.Logger
	encode     codec
	table      *Table
	current    *block
}

// Parse reads markup from r and returns the resulting table.
func (p *Parser) Parse(r io.Reader) (*Table, error) {
	encode, err := newCodec(p.Codepage)
	if err != nil {
		return nil, err
	}

	s := parser{
		header:     p.Header,
		terminator: p.Terminator,
		logger:     p.Logger,
		encode:     encode,
		table:      New(),
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}

	br := bufio.NewReader(r)
	for n := 1; ; n++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if len(line) > 0 {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if err := s.line(n, line); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
		}
		if err == io.EOF {
			break
		}
	}

	if s.current != nil {
		s.logger.Printf("Dropping unterminated block %s opened on line %d\n", key(s.current.record), s.current.line)
	}

	return s.table, nil
}

func (s *parser) line(n int, line string) error {
	switch {
	case len(line) > 0 && line[0] == s.header:
		r, err := parseHeader(line[1:])
		if err != nil {
			return err
		}
		if s.current != nil {
			s.logger.Printf("Abandoning block %s opened on line %d, header on line %d\n", key(s.current.record), s.current.line, n)
		}
		// The heap only grows on a terminator, so this is where the block
		// will start. A full heap wraps to 0 here and is rejected by add.
		r.Offset = uint16(len(s.table.heap))
		s.current = &block{line: n, record: r}
	case s.current == nil:
		// Outside of a block, including stray terminators
	case len(line) > 0 && line[0] == s.terminator:
		return s.flush()
	default:
		s.current.lines = append(s.current.lines, strings.TrimRightFunc(line, unicode.IsSpace))
	}
	return nil
}

func (s *parser) flush() error {
	b := s.current
	s.current = nil

	text, err := s.encode(strings.Join(b.lines, "\n"))
	if err != nil {
		return fmt.Errorf("block %s: %w", key(b.record), err)
	}

	if err := s.table.add(b.record, text); err != nil {
		return fmt.Errorf("block %s: %w", key(b.record), err)
	}
	return nil
}

func parseHeader(s string) (Record, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return Record{}, fmt.Errorf("%q: want three fields: %w", s, ErrHeader)
	}

	var v [3]uint8
	for i := range v {
		n, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return Record{}, fmt.Errorf("%q: %v: %w", fields[i], err, ErrHeader)
		}
		v[i] = uint8(n)
	}

	return Record{Category: v[0], Subject: v[1], Variant: v[2]}, nil
}

func key(r Record) string {
	return fmt.Sprintf("%d %d %d", r.Category, r.Subject, r.Variant)
}
