package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bamsammich/shift/internal/stats"
)

// CompletionSummary builds the final summary line from a snapshot:
//
//	done ✓  transfers 12  renamed 10  copied 2  size 4.0 MiB  time 1s  errors 0
//
// An average rate is appended when data was copied, and an unchanged count
// when identical files were skipped.
func CompletionSummary(snap stats.Snapshot) string {
	icon := "✓"
	if snap.TransfersFailed > 0 {
		icon = "✗"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "done %s  transfers %s  renamed %s  copied %s  size %s  time %s",
		icon,
		grouped(snap.Transfers),
		grouped(snap.Renames),
		grouped(snap.FilesCopied),
		stats.FormatBytes(snap.BytesCopied),
		snap.Elapsed.Round(time.Second),
	)
	if secs := snap.Elapsed.Seconds(); snap.BytesCopied > 0 && secs > 0 {
		fmt.Fprintf(&b, "  avg %s/s", stats.FormatBytes(int64(float64(snap.BytesCopied)/secs)))
	}
	if snap.FilesSkipped > 0 {
		fmt.Fprintf(&b, "  unchanged %s", grouped(snap.FilesSkipped))
	}
	fmt.Fprintf(&b, "  errors %d", snap.TransfersFailed)
	return b.String()
}

// grouped renders a non-negative count with comma thousands separators.
func grouped(n int64) string {
	digits := strconv.FormatInt(n, 10)
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	out := []byte(digits[:head])
	for i := head; i < len(digits); i += 3 {
		out = append(out, ',')
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}
