package transfer

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("source not found")
	ErrTypeConflict = errors.New("file type conflict")
	ErrInsideSource = errors.New("destination is inside source")
)

// Error describes a transfer refused before touching the filesystem, or a
// type conflict met inside a directory merge.
type Error struct {
	Err     error
	Src     string
	Dst     string
	SrcType FileType
	DstType FileType
}

func (e *Error) Error() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return fmt.Sprintf("path '%s' does not exist or you don't have access", e.Src)
	case errors.Is(e.Err, ErrTypeConflict):
		return fmt.Sprintf("cannot overwrite %s '%s' with %s '%s'", e.DstType, e.Dst, e.SrcType, e.Src)
	case errors.Is(e.Err, ErrInsideSource):
		return fmt.Sprintf("cannot transfer directory '%s' into itself '%s'", e.Src, e.Dst)
	default:
		return fmt.Sprintf("%s -> %s: %v", e.Src, e.Dst, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func conflict(src, dst string, srcType, dstType FileType) *Error {
	return &Error{Err: ErrTypeConflict, Src: src, Dst: dst, SrcType: srcType, DstType: dstType}
}
