package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/shift/internal/config"
	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/stats"
)

func runPresenter(t *testing.T, p Presenter, evs ...event.Event) {
	t.Helper()
	events := make(chan event.Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)
	require.NoError(t, p.Run(events))
}

func TestPlainPresenterTransferLines(t *testing.T) {
	var out bytes.Buffer
	p := newPlainPresenter(Config{Writer: &out, Palette: DefaultPalette()})

	runPresenter(t, p,
		event.Event{Type: event.TransferStarted, Src: "a.txt", Dst: "b.txt", Mode: "move"},
		event.Event{Type: event.Renamed, Src: "a.txt", Dst: "b.txt"},
		event.Event{Type: event.TransferCompleted, Src: "a.txt", Dst: "b.txt", Mode: "move"},
		event.Event{Type: event.TransferStarted, Src: "dir", Dst: "backup/dir", Mode: "copy"},
		event.Event{Type: event.FileCopied, Src: "dir/x", Dst: "backup/dir/x", Size: 3},
		event.Event{Type: event.TransferFailed, Src: "dir", Dst: "backup/dir", Mode: "copy", Error: errors.New("boom")},
	)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Moving 'a.txt' to 'b.txt' ... OK", lines[0])
	assert.Equal(t, "Copying 'dir' to 'backup/dir' ... ERROR", lines[1])
}

func TestPlainPresenterKeepsPathBytes(t *testing.T) {
	var out bytes.Buffer
	p := newPlainPresenter(Config{Writer: &out, Palette: DefaultPalette()})

	runPresenter(t, p,
		event.Event{Type: event.TransferStarted, Src: "tab\there", Dst: "new\nline", Mode: "move"},
		event.Event{Type: event.TransferCompleted},
	)

	assert.Equal(t, "Moving 'tab\there' to 'new\nline' ... OK\n", out.String())
}

func TestPlainPresenterIgnoresUnmatchedEnd(t *testing.T) {
	var out bytes.Buffer
	p := newPlainPresenter(Config{Writer: &out, Palette: DefaultPalette()})

	runPresenter(t, p, event.Event{Type: event.TransferCompleted})

	assert.Empty(t, out.String())
}

func TestPlainPresenterColor(t *testing.T) {
	var out bytes.Buffer
	p := newPlainPresenter(Config{Writer: &out, Palette: DefaultPalette(), Color: true})
	p.renderer.SetColorProfile(termenv.ANSI)

	runPresenter(t, p,
		event.Event{Type: event.TransferStarted, Src: "a", Dst: "b", Mode: "move"},
		event.Event{Type: event.TransferCompleted},
	)

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "OK")
	assert.True(t, strings.HasPrefix(out.String(), "Moving '"))
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestPlainPresenterWriteErrorDrains(t *testing.T) {
	p := newPlainPresenter(Config{Writer: errWriter{}, Palette: DefaultPalette()})

	events := make(chan event.Event, 3)
	events <- event.Event{Type: event.TransferStarted, Src: "a", Dst: "b"}
	events <- event.Event{Type: event.TransferCompleted}
	events <- event.Event{Type: event.TransferStarted, Src: "c", Dst: "d"}
	close(events)

	require.EqualError(t, p.Run(events), "closed pipe")
	assert.Empty(t, events)
}

func TestPlainPresenterSummary(t *testing.T) {
	c := stats.NewCollector()
	c.AddTransfers(2)
	c.AddRenames(1)
	c.AddFilesCopied(1)
	c.AddBytesCopied(2048)

	p := newPlainPresenter(Config{Writer: &bytes.Buffer{}, Stats: c})
	summary := p.Summary()
	assert.Contains(t, summary, "done ✓")
	assert.Contains(t, summary, "transfers 2")
	assert.Contains(t, summary, "size 2.0 KiB")
	assert.Contains(t, summary, "errors 0")

	assert.Empty(t, newPlainPresenter(Config{Writer: &bytes.Buffer{}}).Summary())
}

func TestNewPresenter(t *testing.T) {
	var out bytes.Buffer

	assert.IsType(t, &quietPresenter{}, NewPresenter(Config{Writer: &out}))
	assert.IsType(t, &quietPresenter{}, NewPresenter(Config{Writer: &out, Quiet: true, Verbose: true}))
	assert.IsType(t, &plainPresenter{}, NewPresenter(Config{Writer: &out, Verbose: true}))
}

func TestQuietPresenter(t *testing.T) {
	p := &quietPresenter{}
	runPresenter(t, p,
		event.Event{Type: event.TransferStarted, Src: "a", Dst: "b"},
		event.Event{Type: event.TransferCompleted},
	)
	assert.Empty(t, p.Summary())
}

func TestCompletionSummary(t *testing.T) {
	t.Run("clean run", func(t *testing.T) {
		s := CompletionSummary(stats.Snapshot{Transfers: 1200, Renames: 1200})
		assert.Equal(t, "done ✓  transfers 1,200  renamed 1,200  copied 0  size 0 B  time 0s  errors 0", s)
	})

	t.Run("failure and skips", func(t *testing.T) {
		s := CompletionSummary(stats.Snapshot{
			Transfers:       3,
			TransfersFailed: 1,
			FilesCopied:     2,
			FilesSkipped:    4,
			BytesCopied:     4096,
		})
		assert.Contains(t, s, "done ✗")
		assert.Contains(t, s, "unchanged 4")
		assert.Contains(t, s, "errors 1")
		assert.NotContains(t, s, "avg")
	})

	t.Run("rate and elapsed", func(t *testing.T) {
		s := CompletionSummary(stats.Snapshot{
			Transfers:   1,
			FilesCopied: 1,
			BytesCopied: 4 << 20,
			Elapsed:     2*time.Minute + 1400*time.Millisecond,
		})
		assert.Contains(t, s, "size 4.0 MiB  time 2m1s  avg 33.7 KiB/s")
	})
}

func TestGrouped(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{14302, "14,302"},
		{123456, "123,456"},
		{1000000, "1,000,000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, grouped(tt.in))
		})
	}
}

func TestPaletteWithColors(t *testing.T) {
	src, fail := "#89b4fa", "9"
	p := DefaultPalette().WithColors(config.ColorsConfig{Source: &src, Failure: &fail})

	assert.Equal(t, "#89b4fa", string(p.Source))
	assert.Equal(t, "9", string(p.Failure))
	assert.Equal(t, DefaultPalette().Dest, p.Dest)
	assert.Equal(t, DefaultPalette().Success, p.Success)
}
