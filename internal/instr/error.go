package instr

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Cause classifies why a line could not be turned into an instruction.
type Cause int

const (
	InvalidEncoding Cause = iota + 1
	InvalidPrefix
	EmptyLine
	EmptyPath
	LineOverflow
	NoSourcePath
	IoError
)

var causeNames = [...]string{
	InvalidEncoding: "InvalidEncoding",
	InvalidPrefix:   "InvalidPrefix",
	EmptyLine:       "EmptyLine",
	EmptyPath:       "EmptyPath",
	LineOverflow:    "LineOverflow",
	NoSourcePath:    "NoSourcePath",
	IoError:         "IoError",
}

func (c Cause) String() string {
	if c > 0 && int(c) < len(causeNames) {
		return causeNames[c]
	}
	return "Unknown"
}

// Sentinels matched by errors.Is against an *Error of the same cause.
var (
	ErrInvalidEncoding = errors.New("invalid path encoding")
	ErrInvalidPrefix   = errors.New("invalid line prefix")
	ErrEmptyLine       = errors.New("empty line")
	ErrEmptyPath       = errors.New("empty path")
	ErrLineOverflow    = fmt.Errorf("line is bigger than %d bytes", MaxLine)
	ErrNoSourcePath    = errors.New("there was no previous source path")
	ErrIO              = errors.New("io error")
)

// Err returns the sentinel error for c.
func (c Cause) Err() error {
	switch c {
	case InvalidEncoding:
		return ErrInvalidEncoding
	case InvalidPrefix:
		return ErrInvalidPrefix
	case EmptyLine:
		return ErrEmptyLine
	case EmptyPath:
		return ErrEmptyPath
	case LineOverflow:
		return ErrLineOverflow
	case NoSourcePath:
		return ErrNoSourcePath
	case IoError:
		return ErrIO
	default:
		return nil
	}
}

// Error reports a line that failed to parse.
type Error struct {
	Err     error // underlying read error, IoError only
	Preview Preview
	Prefix  Prefix // offending first character, InvalidPrefix only
	Cause   Cause
	Line    int // 1-based
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s\nsource line #%d: %s", e.message(), e.Line, e.Preview)
}

func (e *Error) message() string {
	switch e.Cause {
	case InvalidPrefix:
		return fmt.Sprintf("%s '%s', expected '<' or '>'", ErrInvalidPrefix, e.Prefix)
	case IoError:
		return fmt.Sprintf("%s: %v", ErrIO, e.Err)
	default:
		if err := e.Cause.Err(); err != nil {
			return err.Error()
		}
		return "unknown error"
	}
}

// Is matches the sentinel of the error's cause.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Cause.Err()
}

func (e *Error) Unwrap() error { return e.Err }

// Prefix is the first character of a line, kept as a raw byte unless it
// starts a valid multi-byte UTF-8 sequence.
type Prefix struct {
	char   rune
	b      byte
	isChar bool
}

func prefixOf(line []byte) Prefix {
	if line[0] < utf8.RuneSelf {
		return Prefix{b: line[0]}
	}
	r, size := utf8.DecodeRune(line)
	if r == utf8.RuneError && size <= 1 {
		return Prefix{b: line[0]}
	}
	return Prefix{char: r, isChar: true}
}

func (p Prefix) String() string {
	if p.isChar {
		return string(p.char)
	}
	return escapeByte(p.b)
}

// escapeByte renders b the way a terminal-safe diagnostic should show it:
// printable ASCII as is, common control characters as backslash escapes,
// everything else as \xNN.
func escapeByte(b byte) string {
	switch b {
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\n':
		return `\n`
	case '\\':
		return `\\`
	case '\'':
		return `\'`
	case '"':
		return `\"`
	}
	if b >= 0x20 && b < 0x7f {
		return string(rune(b))
	}
	return fmt.Sprintf(`\x%02x`, b)
}

const maxPreview = 60

// Preview is a bounded, printable rendering of a failing line.
type Preview struct {
	Value     string
	Shortened bool
}

func newPreview(line []byte) Preview {
	var b strings.Builder
	for len(line) > 0 {
		r, size := utf8.DecodeRune(line)
		if b.Len()+utf8.RuneLen(r) > maxPreview {
			return Preview{Value: b.String(), Shortened: true}
		}
		b.WriteRune(r)
		line = line[size:]
	}
	return Preview{Value: b.String()}
}

func (p Preview) String() string {
	if p.Shortened {
		return "'" + p.Value + "'..."
	}
	return "'" + p.Value + "'"
}
