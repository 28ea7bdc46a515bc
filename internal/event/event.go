package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	TransferStarted Type = iota + 1
	TransferCompleted
	TransferFailed
	Renamed
	Fallback
	FileCopied
	FileSkipped
	DirCreated
	SymlinkCreated
)

var typeNames = [...]string{
	TransferStarted:   "TransferStarted",
	TransferCompleted: "TransferCompleted",
	TransferFailed:    "TransferFailed",
	Renamed:           "Renamed",
	Fallback:          "Fallback",
	FileCopied:        "FileCopied",
	FileSkipped:       "FileSkipped",
	DirCreated:        "DirCreated",
	SymlinkCreated:    "SymlinkCreated",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event represents a single progress event from the driver or engine.
type Event struct {
	Timestamp time.Time
	Error     error
	Type      Type
	Src       string
	Dst       string
	Mode      string // "move" or "copy", Transfer* only
	Line      int    // instruction line of the destination, Transfer* only
	Size      int64  // bytes written (FileCopied) or file size (FileSkipped)
}
