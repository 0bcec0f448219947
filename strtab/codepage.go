package strtab

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Codepage names accepted by the Parser.
const (
	UTF8  = "utf-8"
	ASCII = "ascii"
)

var (
	// ErrCodepage is returned for an unknown codepage name.
	ErrCodepage = errors.New("strtab: unknown codepage")

	// ErrUnencodable is returned when text cannot be represented in the
	// chosen codepage.
	ErrUnencodable = errors.New("strtab: text not representable in codepage")
)

var charmaps = map[string]encoding.Encoding{
	"cp437":        charmap.CodePage437,
	"cp850":        charmap.CodePage850,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
}

type codec func(string) ([]byte, error)

func utf8Codec(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, ErrUnencodable
	}
	return []byte(s), nil
}

func asciiCodec(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("byte 0x%02x at column %d: %w", s[i], i+1, ErrUnencodable)
		}
	}
	return []byte(s), nil
}

func newCodec(name string) (codec, error) {
	switch name = strings.ToLower(name); name {
	case "", UTF8:
		return utf8Codec, nil
	case ASCII:
		return asciiCodec, nil
	}

	enc, ok := charmaps[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrCodepage)
	}
	return func(s string) ([]byte, error) {
		b, err := enc.NewEncoder().Bytes([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("%s: %v: %w", name, err, ErrUnencodable)
		}
		return b, nil
	}, nil
}

// Decode converts heap text written in the named codepage back to UTF-8.
func Decode(codepage string, b []byte) (string, error) {
	switch name := strings.ToLower(codepage); name {
	case "", UTF8, ASCII:
		return string(b), nil
	default:
		enc, ok := charmaps[name]
		if !ok {
			return "", fmt.Errorf("%q: %w", name, ErrCodepage)
		}
		s, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			return "", err
		}
		return string(s), nil
	}
}
