// Package platform holds the kernel-specific fast paths used to copy file
// data and classify filesystem errors.
package platform

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// CopyMethod identifies which syscall/strategy was used for a copy.
type CopyMethod int

const (
	ReadWrite     CopyMethod = iota
	Reflink                  // Linux FICLONE ioctl
	CopyFileRange            // Linux copy_file_range(2)
	Sendfile                 // Linux sendfile(2)
)

func (m CopyMethod) String() string {
	switch m {
	case ReadWrite:
		return "read_write"
	case Reflink:
		return "reflink"
	case CopyFileRange:
		return "copy_file_range"
	case Sendfile:
		return "sendfile"
	default:
		return "unknown"
	}
}

// CopyResult reports the outcome of a copy operation.
type CopyResult struct {
	BytesWritten int64
	Method       CopyMethod
}

// CopyParams describes a whole-file copy. Dst must be empty and open for
// writing; neither file's offset is relied on.
type CopyParams struct {
	Src  *os.File
	Dst  *os.File
	Size int64
}

// IsCrossDevice reports whether err is the EXDEV a rename returns when
// source and destination live on different filesystems.
func IsCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}

// isFallbackErr returns true if err should trigger a fallback to the next copy strategy.
func isFallbackErr(err error) bool {
	for _, errno := range []error{
		unix.ENOSYS, unix.EXDEV, unix.EINVAL, unix.ENOTSUP, unix.EOPNOTSUPP, unix.EBADF, unix.ENOTTY,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// Rename calls rename(2) directly. Unlike os.Rename it replaces an empty
// directory at newpath, which lets a directory move into a freshly created
// or empty destination stay a single atomic step.
func Rename(oldpath, newpath string) error {
	if err := unix.Rename(oldpath, newpath); err != nil {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
	}
	return nil
}
