package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/shift/internal/event"
	"github.com/bamsammich/shift/internal/stats"
)

// plainPresenter writes one line per transfer:
//
//	Moving 'a.txt' to 'b.txt' ... OK
//
// The line is opened when the transfer starts and finished when it ends,
// so a slow copy shows which pair is in flight.
type plainPresenter struct {
	w        io.Writer
	stats    *stats.Collector
	renderer *lipgloss.Renderer
	src      lipgloss.Style
	dst      lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
	color    bool
	open     bool
}

func newPlainPresenter(cfg Config) *plainPresenter {
	r := lipgloss.NewRenderer(cfg.Writer)
	path := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &plainPresenter{
		w:        cfg.Writer,
		stats:    cfg.Stats,
		renderer: r,
		src:      path.Foreground(cfg.Palette.Source),
		dst:      path.Foreground(cfg.Palette.Dest),
		success:  r.NewStyle().Foreground(cfg.Palette.Success),
		failure:  r.NewStyle().Foreground(cfg.Palette.Failure),
		color:    cfg.Color,
	}
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	for ev := range events {
		if err := p.handleEvent(ev); err != nil {
			// Keep draining so the sender never blocks.
			for range events {
			}
			return err
		}
	}
	return nil
}

func (p *plainPresenter) handleEvent(ev event.Event) error {
	var err error
	switch ev.Type {
	case event.TransferStarted:
		_, err = fmt.Fprintf(p.w, "%s '%s' to '%s' ... ",
			verb(ev.Mode), p.paint(p.src, ev.Src), p.paint(p.dst, ev.Dst))
		p.open = true
	case event.TransferCompleted:
		err = p.finish(p.paint(p.success, "OK"))
	case event.TransferFailed:
		err = p.finish(p.paint(p.failure, "ERROR"))
	default:
		// Engine detail events are only of interest to the log file.
	}
	return err
}

// paint renders s in style. Without color the text is written untouched,
// since paths may hold any byte.
func (p *plainPresenter) paint(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *plainPresenter) finish(status string) error {
	if !p.open {
		return nil
	}
	p.open = false
	_, err := fmt.Fprintln(p.w, status)
	return err
}

func (p *plainPresenter) Summary() string {
	if p.stats == nil {
		return ""
	}
	return CompletionSummary(p.stats.Snapshot())
}

func verb(mode string) string {
	if mode == "copy" {
		return "Copying"
	}
	return "Moving"
}
