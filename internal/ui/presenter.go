package ui

import (
	"io"

	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line, or "" when there is none.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer  io.Writer
	Stats   *stats.Collector
	Palette Palette
	Color   bool
	Quiet   bool
	Verbose bool
}

// NewPresenter creates the appropriate presenter based on configuration.
// Only verbose runs print anything; the default output is silent like
// mv(1) and cp(1).
//
//nolint:ireturn // factory function returns interface by design
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet || !cfg.Verbose {
		return &quietPresenter{}
	}
	return newPlainPresenter(cfg)
}
