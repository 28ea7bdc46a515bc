// Package instr turns a stream of "<source" / ">destination" records into
// path pairs.
//
// A source line replaces the pending source path. A destination line pairs
// with the pending source, which stays pending, so one source can fan out to
// any number of destinations until the next source line.
package instr

import (
	"bytes"
	"io"

	"github.com/bamsammich/shift/internal/input"
)

// MaxLine bounds a single record, terminator included.
const MaxLine = 1 << 20

// Pair is one transfer: Src is moved or copied to Dst.
type Pair struct {
	Src string
	Dst string
}

type kind int

const (
	source kind = iota
	dest
)

// Reader reads Pairs from a LineReader.
type Reader struct {
	lines  *input.LineReader
	src    string
	line   int
	hasSrc bool
}

// NewReader creates a Reader over lines.
func NewReader(lines *input.LineReader) *Reader {
	return &Reader{lines: lines}
}

// Line returns the number of the last record read.
func (r *Reader) Line() int { return r.line }

// Read returns the next pair. It returns io.EOF once the stream is exhausted;
// a source line with no destination after it is dropped silently. Any other
// error is an *Error.
func (r *Reader) Read() (Pair, error) {
	for {
		buf, n, err := r.lines.Read(MaxLine)
		if err != nil {
			return Pair{}, &Error{Cause: IoError, Line: r.line + 1, Err: err}
		}
		if n == 0 {
			return Pair{}, io.EOF
		}
		r.line++

		if n >= MaxLine {
			return Pair{}, r.fail(LineOverflow, buf)
		}

		k, path, perr := r.parse(buf)
		if perr != nil {
			return Pair{}, perr
		}

		switch k {
		case source:
			r.src = path
			r.hasSrc = true
		case dest:
			if !r.hasSrc {
				return Pair{}, r.fail(NoSourcePath, buf)
			}
			return Pair{Src: r.src, Dst: path}, nil
		}
	}
}

func (r *Reader) parse(line []byte) (kind, string, *Error) {
	if len(line) == 0 {
		return 0, "", r.fail(EmptyLine, line)
	}

	var k kind
	switch line[0] {
	case '<':
		k = source
	case '>':
		k = dest
	default:
		e := r.fail(InvalidPrefix, line)
		e.Prefix = prefixOf(line)
		return 0, "", e
	}

	path := line[1:]
	if len(path) == 0 {
		return 0, "", r.fail(EmptyPath, line)
	}
	// NUL can never be part of a filesystem path.
	if bytes.IndexByte(path, 0) >= 0 {
		return 0, "", r.fail(InvalidEncoding, line)
	}
	return k, string(path), nil
}

func (r *Reader) fail(cause Cause, line []byte) *Error {
	return &Error{Cause: cause, Line: r.line, Preview: newPreview(line)}
}
