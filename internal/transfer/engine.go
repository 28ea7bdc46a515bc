// Package transfer moves or copies one filesystem entry to a destination
// path. Files are renamed when possible and copied otherwise; directories
// are renamed when possible and merged into the destination otherwise.
package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/platform"
	"github.com/bamsammich/shift/internal/stats"
)

// Config configures an Engine.
type Config struct {
	Events  chan<- event.Event // optional; sends never block
	Stats   *stats.Collector   // optional; a private collector is used if nil
	BWLimit int64              // bytes per second, 0 for unlimited
}

// Engine executes transfers one at a time.
type Engine struct {
	events  chan<- event.Event
	stats   *stats.Collector
	limiter *rate.Limiter
	rename  func(oldpath, newpath string) error
}

// New creates an Engine.
func New(cfg Config) *Engine {
	e := &Engine{events: cfg.Events, stats: cfg.Stats, rename: platform.Rename}
	if e.stats == nil {
		e.stats = stats.NewCollector()
	}
	if cfg.BWLimit > 0 {
		e.limiter = NewBWLimiter(cfg.BWLimit)
	}
	return e
}

// Stats returns the collector the engine reports to.
func (e *Engine) Stats() *stats.Collector { return e.stats }

// Transfer moves or copies src to dst. Both paths are inspected now; the
// returned *Error for a missing source or a type conflict means nothing was
// touched.
func (e *Engine) Transfer(src, dst string, mode Mode) error {
	srcType, dstType := TypeOf(src), TypeOf(dst)
	action, err := Decide(srcType, dstType, mode)
	if err != nil {
		return &Error{Err: err, Src: src, Dst: dst, SrcType: srcType, DstType: dstType}
	}

	switch action {
	case MoveFile:
		return e.moveFile(src, dst)
	case CopyFile:
		return e.copyFile(src, dst)
	case MoveDir:
		return e.moveDir(src, dst)
	case CopyDir:
		return e.copyDir(src, dst)
	default:
		return fmt.Errorf("unknown action %s", action)
	}
}

func (e *Engine) emit(ev event.Event) {
	if e.events == nil {
		return
	}
	ev.Timestamp = time.Now()
	select {
	case e.events <- ev:
	default:
	}
}

// ensureDir creates dir and any missing parents.
func (e *Engine) ensureDir(dir string, perm os.FileMode) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	e.stats.AddDirsCreated(1)
	e.emit(event.Event{Type: event.DirCreated, Dst: dir})
	return nil
}

// sameEntry reports whether both paths name the same filesystem entry.
// A missing dst is never the same.
func sameEntry(src, dst string) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", dst, err)
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", src, err)
	}
	return os.SameFile(srcInfo, dstInfo), nil
}

// checkNotInside refuses a directory transfer whose destination lies
// below its source, which would otherwise recurse into its own output.
func checkNotInside(src, dst string) error {
	srcReal, err := resolve(src)
	if err != nil {
		return err
	}
	dstReal, err := resolve(dst)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(srcReal, dstReal)
	if err != nil {
		return nil //nolint:nilerr // paths on different volumes cannot nest
	}
	if rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return &Error{Err: ErrInsideSource, Src: src, Dst: dst, SrcType: Directory, DstType: TypeOf(dst)}
}

// resolve returns the absolute, symlink-free form of path. Components that
// do not exist yet are appended to the resolved form of their deepest
// existing ancestor.
func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	var rest []string
	for {
		resolved, err := filepath.EvalSymlinks(abs)
		if err == nil {
			for i := len(rest) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, rest[i])
			}
			return resolved, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return filepath.Clean(path), nil
		}
		rest = append(rest, filepath.Base(abs))
		abs = parent
	}
}
