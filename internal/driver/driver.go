// Package driver runs a stream of transfer instructions: it parses one
// source/destination pair at a time and hands it to the transfer engine,
// stopping at the first error.
package driver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/input"
	"github.com/bamsammich/shift/internal/instr"
	"github.com/bamsammich/shift/internal/stats"
	"github.com/bamsammich/shift/internal/transfer"
)

// Config configures a Run.
type Config struct {
	Input     io.Reader
	Engine    *transfer.Engine   // optional; a default engine is used if nil
	Events    chan<- event.Event // optional; receives Transfer* events
	Separator input.Separator
	Mode      transfer.Mode
}

// Result holds the outcome of a Run.
type Result struct {
	Err   error
	Stats stats.Snapshot
}

// Run executes every instruction in cfg.Input in order, blocking until the
// input is exhausted, an instruction fails, or ctx is done. Instructions
// after a failing one are neither parsed nor executed. A cancelled ctx is
// only observed between transfers.
func Run(ctx context.Context, cfg Config) Result {
	eng := cfg.Engine
	if eng == nil {
		eng = transfer.New(transfer.Config{})
	}
	collector := eng.Stats()
	done := func(err error) Result {
		return Result{Stats: collector.Snapshot(), Err: err}
	}

	r := instr.NewReader(input.NewLineReader(cfg.Input, cfg.Separator))
	for {
		if err := ctx.Err(); err != nil {
			return done(err)
		}

		pair, err := r.Read()
		if errors.Is(err, io.EOF) {
			return done(nil)
		}
		if err != nil {
			return done(err)
		}

		ev := event.Event{Src: pair.Src, Dst: pair.Dst, Mode: cfg.Mode.String(), Line: r.Line()}
		send(cfg.Events, ev, event.TransferStarted)
		slog.Debug("transfer",
			"mode", cfg.Mode,
			"src", pair.Src,
			"dst", pair.Dst,
			"line", r.Line(),
		)

		if err := eng.Transfer(pair.Src, pair.Dst, cfg.Mode); err != nil {
			collector.AddTransfersFailed(1)
			ev.Error = err
			send(cfg.Events, ev, event.TransferFailed)
			return done(err)
		}
		collector.AddTransfers(1)
		send(cfg.Events, ev, event.TransferCompleted)
	}
}

// send delivers ev. Unlike engine events these are never dropped; the
// presenter always drains its channel.
func send(ch chan<- event.Event, ev event.Event, typ event.Type) {
	if ch == nil {
		return
	}
	ev.Type = typ
	ev.Timestamp = time.Now()
	ch <- ev
}
