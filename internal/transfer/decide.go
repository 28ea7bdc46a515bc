package transfer

// Action is the filesystem operation chosen for a (source, destination) pair.
type Action int

const (
	MoveFile Action = iota + 1
	CopyFile
	MoveDir
	CopyDir
)

var actionNames = [...]string{
	MoveFile: "MoveFile",
	CopyFile: "CopyFile",
	MoveDir:  "MoveDir",
	CopyDir:  "CopyDir",
}

func (a Action) String() string {
	if a > 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// Decide maps the types of both sides and the mode to an Action.
// It fails with ErrNotFound when the source is missing and ErrTypeConflict
// when a file would replace a directory or the other way round.
func Decide(src, dst FileType, mode Mode) (Action, error) {
	switch {
	case src == Missing:
		return 0, ErrNotFound
	case src == File && dst == Directory, src == Directory && dst == File:
		return 0, ErrTypeConflict
	case src == File && mode == Copy:
		return CopyFile, nil
	case src == File:
		return MoveFile, nil
	case mode == Copy:
		return CopyDir, nil
	default:
		return MoveDir, nil
	}
}
