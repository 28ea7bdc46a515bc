package transfer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/platform"
)

func (e *Engine) moveFile(src, dst string) error {
	same, err := sameEntry(src, dst)
	if err != nil {
		return err
	}
	if same {
		slog.Debug("source and destination are the same file", "src", src, "dst", dst)
		return nil
	}

	if err := e.ensureDir(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return e.renameOrCopy(src, dst, 0)
}

func (e *Engine) copyFile(src, dst string) error {
	same, err := sameEntry(src, dst)
	if err != nil {
		return err
	}
	if same {
		slog.Debug("source and destination are the same file", "src", src, "dst", dst)
		return nil
	}

	if err := e.ensureDir(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return e.writeFile(src, dst)
}

// renameOrCopy renames src over dst, or copies it and removes src when the
// rename fails. typ is src's Lstat type; 0 means a regular file.
func (e *Engine) renameOrCopy(src, dst string, typ fs.FileMode) error {
	err := e.rename(src, dst)
	if err == nil {
		e.stats.AddRenames(1)
		e.emit(event.Event{Type: event.Renamed, Src: src, Dst: dst})
		return nil
	}

	slog.Debug("rename failed, falling back to copy",
		"src", src,
		"dst", dst,
		"cross_device", platform.IsCrossDevice(err),
		"error", err,
	)
	e.stats.AddFallbacks(1)
	e.emit(event.Event{Type: event.Fallback, Src: src, Dst: dst, Error: err})

	if typ&fs.ModeSymlink != 0 {
		err = e.copySymlink(src, dst)
	} else {
		err = e.writeFile(src, dst)
	}
	if err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("remove %s: %w", src, err)
	}
	return nil
}

// writeFile replaces dst with the contents and permission bits of src.
// The data lands in a temporary sibling first and is renamed into place,
// so dst is never seen half-written. A dst already identical to src is
// left alone.
func (e *Engine) writeFile(src, dst string) error {
	srcFd, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer srcFd.Close()

	info, err := srcFd.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("copy %s: unsupported file type %s", src, info.Mode().Type())
	}

	if identical(src, info, dst) {
		e.stats.AddFilesSkipped(1)
		e.emit(event.Event{Type: event.FileSkipped, Src: src, Dst: dst, Size: info.Size()})
		return nil
	}

	tmp := tmpPath(dst)
	pending.add(tmp)
	defer func() {
		pending.remove(tmp)
		_ = os.Remove(tmp) // no-op once renamed
	}()

	tmpFd, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create tmp %s: %w", tmp, err)
	}

	n, err := e.copyData(srcFd, tmpFd, info.Size())
	if err != nil {
		tmpFd.Close()
		return fmt.Errorf("copy data %s: %w", src, err)
	}

	// The create mode was filtered through the umask.
	if err := tmpFd.Chmod(info.Mode().Perm()); err != nil {
		tmpFd.Close()
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := tmpFd.Close(); err != nil {
		return fmt.Errorf("close tmp %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", tmp, dst, err)
	}

	e.stats.AddFilesCopied(1)
	e.stats.AddBytesCopied(n)
	e.emit(event.Event{Type: event.FileCopied, Src: src, Dst: dst, Size: n})
	return nil
}

func (e *Engine) copyData(src, dst *os.File, size int64) (int64, error) {
	if e.limiter != nil {
		buf := make([]byte, 32*1024)
		return io.CopyBuffer(dst, newLimitedReader(context.Background(), src, e.limiter), buf)
	}

	result, err := platform.CopyFile(platform.CopyParams{Src: src, Dst: dst, Size: size})
	if err != nil {
		return result.BytesWritten, err
	}
	slog.Debug("copied file data", "src", src.Name(), "bytes", result.BytesWritten, "method", result.Method)
	return result.BytesWritten, nil
}

// copySymlink recreates the link at src as dst, replacing any non-directory
// entry already there.
func (e *Engine) copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return fmt.Errorf("readlink %s: %w", src, err)
	}
	if info, err := os.Lstat(dst); err == nil && !info.IsDir() {
		if err := os.Remove(dst); err != nil {
			return fmt.Errorf("replace %s: %w", dst, err)
		}
	}
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("symlink %s -> %s: %w", dst, target, err)
	}
	e.stats.AddSymlinksCreated(1)
	e.emit(event.Event{Type: event.SymlinkCreated, Src: src, Dst: dst})
	return nil
}
