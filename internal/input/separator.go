package input

import "fmt"

// Separator selects the byte that terminates each record.
type Separator int

const (
	Newline Separator = iota
	Null
)

// Byte returns the terminator byte.
func (s Separator) Byte() byte {
	if s == Null {
		return 0
	}
	return '\n'
}

func (s Separator) String() string {
	switch s {
	case Newline:
		return "newline"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// ParseSeparator maps a config value to a Separator.
func ParseSeparator(name string) (Separator, error) {
	switch name {
	case "newline", "lf":
		return Newline, nil
	case "null", "nul":
		return Null, nil
	default:
		return Newline, fmt.Errorf("unknown separator %q (use newline or null)", name)
	}
}

// Trim strips the terminator from the end of buf. Under Newline a "\r"
// directly before the "\n" goes too; a lone trailing "\r" is kept.
func (s Separator) Trim(buf []byte) []byte {
	n := len(buf)
	if n == 0 || buf[n-1] != s.Byte() {
		return buf
	}
	n--
	if s == Newline && n > 0 && buf[n-1] == '\r' {
		n--
	}
	return buf[:n]
}
