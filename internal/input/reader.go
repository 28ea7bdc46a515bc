package input

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

const readBufferSize = 64 * 1024

// LineReader splits a byte stream into records on a Separator.
type LineReader struct {
	r   *bufio.Reader
	sep Separator
	buf []byte
}

// NewLineReader wraps r. An existing *bufio.Reader is used as is.
func NewLineReader(r io.Reader, sep Separator) *LineReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, readBufferSize)
	}
	return &LineReader{r: br, sep: sep}
}

// Separator returns the terminator this reader splits on.
func (l *LineReader) Separator() Separator { return l.sep }

// Read consumes the next record, stopping after the terminator, at end of
// stream, or once maxLen bytes have been consumed. It returns the record with
// the terminator stripped and the number of bytes consumed before stripping,
// so n >= maxLen tells the caller the record was cut short. A nil record with
// n == 0 and a nil error marks the end of the stream.
//
// The returned slice is only valid until the next call.
func (l *LineReader) Read(maxLen int) ([]byte, int, error) {
	l.buf = l.buf[:0]
	sep := l.sep.Byte()

	for len(l.buf) < maxLen {
		if l.r.Buffered() == 0 {
			if _, err := l.r.Peek(1); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, len(l.buf), err
			}
		}

		window, _ := l.r.Peek(min(l.r.Buffered(), maxLen-len(l.buf))) //nolint:errcheck // window is within Buffered()
		if i := bytes.IndexByte(window, sep); i >= 0 {
			l.buf = append(l.buf, window[:i+1]...)
			_, _ = l.r.Discard(i + 1)
			break
		}
		l.buf = append(l.buf, window...)
		_, _ = l.r.Discard(len(window))
	}

	n := len(l.buf)
	if n == 0 {
		return nil, 0, nil
	}
	return l.sep.Trim(l.buf), n, nil
}
