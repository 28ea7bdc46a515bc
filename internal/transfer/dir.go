package transfer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/platform"
)

func (e *Engine) moveDir(src, dst string) error {
	same, err := sameEntry(src, dst)
	if err != nil {
		return err
	}
	if same {
		slog.Debug("source and destination are the same directory", "src", src, "dst", dst)
		return nil
	}
	if err := checkNotInside(src, dst); err != nil {
		return err
	}

	// rename(2) replaces an empty dst, so only the parents need creating.
	if err := e.ensureDir(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	err = e.rename(src, dst)
	if err == nil {
		e.stats.AddRenames(1)
		e.emit(event.Event{Type: event.Renamed, Src: src, Dst: dst})
		return nil
	}

	slog.Debug("directory rename failed, merging",
		"src", src,
		"dst", dst,
		"cross_device", platform.IsCrossDevice(err),
		"error", err,
	)
	e.stats.AddFallbacks(1)
	e.emit(event.Event{Type: event.Fallback, Src: src, Dst: dst, Error: err})
	if err := e.ensureDir(dst, dirPerm(src)); err != nil {
		return err
	}
	return e.mergeMove(src, dst)
}

func (e *Engine) copyDir(src, dst string) error {
	same, err := sameEntry(src, dst)
	if err != nil {
		return err
	}
	if same {
		slog.Debug("source and destination are the same directory", "src", src, "dst", dst)
		return nil
	}
	if err := checkNotInside(src, dst); err != nil {
		return err
	}

	if err := e.ensureDir(dst, dirPerm(src)); err != nil {
		return err
	}
	return e.mergeCopy(src, dst)
}

// mergeMove moves every entry of src into the existing directory dst and
// removes src. Entries present in both are overwritten from src, entries
// only in dst survive, and subdirectories present in both are merged the
// same way.
func (e *Engine) mergeMove(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", src, err)
	}

	for _, ent := range entries {
		s := filepath.Join(src, ent.Name())
		d := filepath.Join(dst, ent.Name())
		dstType := TypeOf(d)

		switch {
		case ent.IsDir() && dstType == File:
			return conflict(s, d, Directory, File)
		case !ent.IsDir() && dstType == Directory:
			return conflict(s, d, File, Directory)
		case ent.IsDir() && dstType == Directory:
			err = e.mergeMove(s, d)
		case ent.IsDir():
			err = e.renameOrCopyDir(s, d)
		default:
			err = e.renameOrCopy(s, d, ent.Type())
		}
		if err != nil {
			return err
		}
	}

	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove %s: %w", src, err)
	}
	return nil
}

// renameOrCopyDir moves the directory src to the absent path dst.
func (e *Engine) renameOrCopyDir(src, dst string) error {
	err := e.rename(src, dst)
	if err == nil {
		e.stats.AddRenames(1)
		e.emit(event.Event{Type: event.Renamed, Src: src, Dst: dst})
		return nil
	}

	slog.Debug("rename failed, falling back to copy", "src", src, "dst", dst, "error", err)
	e.stats.AddFallbacks(1)
	e.emit(event.Event{Type: event.Fallback, Src: src, Dst: dst, Error: err})

	if err := e.ensureDir(dst, dirPerm(src)); err != nil {
		return err
	}
	if err := e.mergeCopy(src, dst); err != nil {
		return err
	}
	if err := os.RemoveAll(src); err != nil {
		return fmt.Errorf("remove %s: %w", src, err)
	}
	return nil
}

// mergeCopy copies every entry of src into the existing directory dst under
// the same overwrite rule as mergeMove, leaving src intact.
func (e *Engine) mergeCopy(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", src, err)
	}

	for _, ent := range entries {
		s := filepath.Join(src, ent.Name())
		d := filepath.Join(dst, ent.Name())
		if err := e.copyEntry(s, d, ent.Type()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) copyEntry(src, dst string, typ fs.FileMode) error {
	dstType := TypeOf(dst)

	switch {
	case typ.IsDir():
		if dstType == File {
			return conflict(src, dst, Directory, File)
		}
		if err := e.ensureDir(dst, dirPerm(src)); err != nil {
			return err
		}
		return e.mergeCopy(src, dst)
	case typ&fs.ModeSymlink != 0:
		if dstType == Directory {
			return conflict(src, dst, File, Directory)
		}
		return e.copySymlink(src, dst)
	case typ.IsRegular():
		if dstType == Directory {
			return conflict(src, dst, File, Directory)
		}
		return e.writeFile(src, dst)
	default:
		return fmt.Errorf("copy %s: unsupported file type %s", src, typ)
	}
}

// dirPerm returns the permission bits for a copy of the directory at path.
// The owner keeps full access so the copy can be filled.
func dirPerm(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o755
	}
	return info.Mode().Perm() | 0o700
}
