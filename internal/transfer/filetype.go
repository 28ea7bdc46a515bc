package transfer

import "os"

// FileType is the kind of filesystem entry found at a path.
type FileType int

const (
	Missing FileType = iota
	File
	Directory
)

func (t FileType) String() string {
	switch t {
	case Missing:
		return "missing"
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// TypeOf reports the type of the entry at path. Symlinks are followed, so a
// dangling link, or any path that cannot be stat'ed, is Missing. Anything
// that is not a directory counts as a File.
func TypeOf(path string) FileType {
	info, err := os.Stat(path)
	if err != nil {
		return Missing
	}
	if info.IsDir() {
		return Directory
	}
	return File
}

// Mode selects whether the source survives a transfer.
type Mode int

const (
	Move Mode = iota
	Copy
)

func (m Mode) String() string {
	if m == Copy {
		return "copy"
	}
	return "move"
}

// Verb is the progressive form shown in verbose output.
func (m Mode) Verb() string {
	if m == Copy {
		return "Copying"
	}
	return "Moving"
}
