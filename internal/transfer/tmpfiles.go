package transfer

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const tmpSuffix = ".shift-tmp"

// tmpFiles tracks in-progress temporary files so an interrupted run can
// remove them.
type tmpFiles struct {
	paths map[string]struct{}
	mu    sync.Mutex
}

var pending = &tmpFiles{}

func (r *tmpFiles) add(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.paths == nil {
		r.paths = make(map[string]struct{})
	}
	r.paths[path] = struct{}{}
}

func (r *tmpFiles) remove(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.paths, path)
}

func (r *tmpFiles) drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	r.paths = nil
	return paths
}

// CleanupTmpFiles removes every temporary file still registered.
func CleanupTmpFiles() {
	for _, p := range pending.drain() {
		_ = os.Remove(p)
	}
}

// tmpPath returns a hidden sibling of dst: ".<base>.<uuid8>.shift-tmp".
func tmpPath(dst string) string {
	name := fmt.Sprintf(".%s.%s%s", filepath.Base(dst), uuid.New().String()[:8], tmpSuffix)
	return filepath.Join(filepath.Dir(dst), name)
}
