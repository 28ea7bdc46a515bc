package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/shift/internal/config"
)

type runOutput struct {
	stdout string
	stderr string
	code   int
}

// runShift runs the command in a fresh working directory with no user
// config file.
func runShift(t *testing.T, stdin string, args ...string) runOutput {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return runOutput{stdout: stdout.String(), stderr: stderr.String(), code: code}
}

func setup(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

func write(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_Move(t *testing.T) {
	setup(t)
	write(t, "a", "1")

	out := runShift(t, "<a\n>b\n")

	assert.Equal(t, 0, out.code, out.stderr)
	assert.Empty(t, out.stdout)
	assert.Equal(t, "1", read(t, "b"))
	assert.NoFileExists(t, "a")
}

func TestRun_CopyNullVerbose(t *testing.T) {
	setup(t)
	write(t, "a", "1")

	out := runShift(t, "<a\x00>b\x00", "-0", "--copy", "-v")

	assert.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, "Copying 'a' to 'b' ... OK\n", out.stdout)
	assert.Contains(t, out.stderr, "done ✓")
	assert.Equal(t, "1", read(t, "a"))
	assert.Equal(t, "1", read(t, "b"))
}

func TestRun_Quiet(t *testing.T) {
	setup(t)
	write(t, "a", "1")

	out := runShift(t, "<a\n>b\n", "-q")

	assert.Equal(t, 0, out.code)
	assert.Empty(t, out.stdout)
	assert.Empty(t, out.stderr)
}

func TestRun_ExitCodes(t *testing.T) {
	t.Run("nothing transferred", func(t *testing.T) {
		setup(t)
		out := runShift(t, "<missing\n>b\n")
		assert.Equal(t, 2, out.code)
		assert.Equal(t, "Error: path 'missing' does not exist or you don't have access\n", out.stderr)
	})

	t.Run("partial failure", func(t *testing.T) {
		setup(t)
		write(t, "a", "1")
		out := runShift(t, "<a\n>b\n<missing\n>c\n")
		assert.Equal(t, 1, out.code)
		assert.Equal(t, "1", read(t, "b"))
	})

	t.Run("parse error", func(t *testing.T) {
		setup(t)
		out := runShift(t, "a\n")
		assert.Equal(t, 2, out.code)
		assert.Equal(t,
			"Error: invalid line prefix 'a', expected '<' or '>'\nsource line #1: 'a'\n",
			out.stderr)
	})

	t.Run("unexpected argument", func(t *testing.T) {
		setup(t)
		out := runShift(t, "", "extra")
		assert.Equal(t, 2, out.code)
		assert.Contains(t, out.stderr, "Error: ")
	})

	t.Run("bad bwlimit", func(t *testing.T) {
		setup(t)
		out := runShift(t, "", "--bwlimit", "fast")
		assert.Equal(t, 2, out.code)
		assert.Contains(t, out.stderr, "invalid --bwlimit")
	})

	t.Run("verbose and quiet", func(t *testing.T) {
		setup(t)
		out := runShift(t, "", "-v", "-q")
		assert.Equal(t, 2, out.code)
	})
}

func TestRun_Version(t *testing.T) {
	setup(t)
	out := runShift(t, "", "--version")
	assert.Equal(t, 0, out.code)
	assert.Equal(t, "shift dev\n", out.stdout)
}

func TestRun_ConfigDefaults(t *testing.T) {
	setup(t)
	dir := os.Getenv("XDG_CONFIG_HOME")
	write(t, filepath.Join(dir, "shift", "config.toml"), "[defaults]\ncopy = true\n")
	write(t, "a", "1")

	out := runShift(t, "<a\n>b\n")
	require.Equal(t, 0, out.code, out.stderr)
	assert.Equal(t, "1", read(t, "a"), "config copy=true keeps the source")

	out = runShift(t, "<a\n>c\n", "--copy=false")
	require.Equal(t, 0, out.code, out.stderr)
	assert.NoFileExists(t, "a", "explicit flag wins over config")
}

func TestRun_BrokenConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		warn bool
	}{
		{name: "default", warn: true},
		{name: "quiet", args: []string{"-q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t)
			dir := os.Getenv("XDG_CONFIG_HOME")
			write(t, filepath.Join(dir, "shift", "config.toml"), "[defaults\ncopy = true\n")
			write(t, "a", "1")

			out := runShift(t, "<a\n>b\n", tt.args...)
			require.Equal(t, 0, out.code, out.stderr)
			assert.Equal(t, "1", read(t, "b"))
			if tt.warn {
				assert.Contains(t, out.stderr, "failed to load config")
				assert.Contains(t, out.stderr, "config.toml")
			} else {
				assert.Empty(t, out.stderr)
			}
		})
	}
}

func TestRun_LogFile(t *testing.T) {
	setup(t)
	write(t, "a", "1")

	out := runShift(t, "<a\n>b\n", "--log", "run.json")
	require.Equal(t, 0, out.code, out.stderr)

	f, err := os.Open("run.json")
	require.NoError(t, err)
	defer f.Close()

	var types []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		if rec["msg"] == "shift.event" {
			types = append(types, rec["type"].(string))
		}
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []string{"TransferStarted", "Renamed", "TransferCompleted"}, types)
}

func TestApplyConfigDefaults(t *testing.T) {
	yes, no, limit := true, false, "10M"

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	var null, copyMode, verbose bool
	var bw string
	flags.BoolVar(&null, "null", false, "")
	flags.BoolVar(&copyMode, "copy", false, "")
	flags.BoolVar(&verbose, "verbose", false, "")
	flags.Bool("quiet", false, "")
	flags.StringVar(&bw, "bwlimit", "", "")
	require.NoError(t, flags.Parse([]string{"--null=false", "--quiet"}))

	applyConfigDefaults(flags, config.DefaultsConfig{
		Null:    &yes,
		Copy:    &yes,
		Verbose: &yes,
		BWLimit: &limit,
	}, &null, &copyMode, &verbose, &bw)

	assert.False(t, null, "explicit flag wins")
	assert.True(t, copyMode)
	assert.False(t, verbose, "--quiet suppresses a configured verbose")
	assert.Equal(t, "10M", bw)

	applyConfigDefaults(flags, config.DefaultsConfig{Copy: &no}, &null, &copyMode, &verbose, &bw)
	assert.False(t, copyMode)
}
