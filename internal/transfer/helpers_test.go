package transfer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bamsammich/shift/internal/event"
)

// createTestTree populates root with a standard test tree:
//
//	root.txt          (17 bytes)
//	big.bin           (320KB)
//	sub/mid.txt       (19 bytes)
//	sub/deep/leaf.txt (17 bytes)
//	link.txt          → root.txt (symlink)
func createTestTree(t *testing.T, root string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub", "deep"), 0o755))
	write(t, filepath.Join(root, "root.txt"), "root file content")
	write(t, filepath.Join(root, "big.bin"), string(bytes.Repeat([]byte("ABCDEFGHIJKLMNOP"), 20000)))
	write(t, filepath.Join(root, "sub", "mid.txt"), "middle file content")
	write(t, filepath.Join(root, "sub", "deep", "leaf.txt"), "leaf file content")
	require.NoError(t, os.Symlink("root.txt", filepath.Join(root, "link.txt")))
}

// verifyTree checks that root holds the tree created by createTestTree.
func verifyTree(t *testing.T, root string) {
	t.Helper()

	require.Equal(t, "root file content", read(t, filepath.Join(root, "root.txt")))
	require.Equal(t, string(bytes.Repeat([]byte("ABCDEFGHIJKLMNOP"), 20000)), read(t, filepath.Join(root, "big.bin")))
	require.Equal(t, "middle file content", read(t, filepath.Join(root, "sub", "mid.txt")))
	require.Equal(t, "leaf file content", read(t, filepath.Join(root, "sub", "deep", "leaf.txt")))

	for _, dir := range []string{"sub", filepath.Join("sub", "deep")} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err, "stat dir %s", dir)
		require.True(t, info.IsDir(), "%s should be a directory", dir)
	}

	target, err := os.Readlink(filepath.Join(root, "link.txt"))
	require.NoError(t, err, "readlink link.txt")
	require.Equal(t, "root.txt", target)
}

func write(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "read %s", path)
	return string(data)
}

func requireMissing(t *testing.T, path string) {
	t.Helper()
	_, err := os.Lstat(path)
	require.ErrorIs(t, err, os.ErrNotExist, "%s should not exist", path)
}

func requireNoTmpFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, "*"+tmpSuffix))
	require.NoError(t, err)
	require.Empty(t, matches, "leftover temp files in %s", dir)
}

// collectEvents returns an engine wired to a buffered event channel and a
// function that drains what has been emitted so far.
func collectEvents(t *testing.T, cfg Config) (*Engine, func() []event.Event) {
	t.Helper()
	ch := make(chan event.Event, 1024)
	cfg.Events = ch
	e := New(cfg)
	return e, func() []event.Event {
		var out []event.Event
		for {
			select {
			case ev := <-ch:
				out = append(out, ev)
			default:
				return out
			}
		}
	}
}

func eventTypes(events []event.Event) []event.Type {
	types := make([]event.Type, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}
