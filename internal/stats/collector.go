package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks transfer statistics using lock-free atomic counters.
// The engine writes; presenters and the driver only read snapshots.
type Collector struct {
	startTime       time.Time
	transfers       atomic.Int64
	transfersFailed atomic.Int64
	renames         atomic.Int64
	fallbacks       atomic.Int64
	filesCopied     atomic.Int64
	filesSkipped    atomic.Int64
	bytesCopied     atomic.Int64
	dirsCreated     atomic.Int64
	symlinksCreated atomic.Int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	Transfers       int64
	TransfersFailed int64
	Renames         int64
	Fallbacks       int64
	FilesCopied     int64
	FilesSkipped    int64
	BytesCopied     int64
	DirsCreated     int64
	SymlinksCreated int64
	Elapsed         time.Duration
}

func (c *Collector) AddTransfers(n int64)       { c.transfers.Add(n) }
func (c *Collector) AddTransfersFailed(n int64) { c.transfersFailed.Add(n) }
func (c *Collector) AddRenames(n int64)         { c.renames.Add(n) }
func (c *Collector) AddFallbacks(n int64)       { c.fallbacks.Add(n) }
func (c *Collector) AddFilesCopied(n int64)     { c.filesCopied.Add(n) }
func (c *Collector) AddFilesSkipped(n int64)    { c.filesSkipped.Add(n) }
func (c *Collector) AddBytesCopied(n int64)     { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)     { c.dirsCreated.Add(n) }
func (c *Collector) AddSymlinksCreated(n int64) { c.symlinksCreated.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		Transfers:       c.transfers.Load(),
		TransfersFailed: c.transfersFailed.Load(),
		Renames:         c.renames.Load(),
		Fallbacks:       c.fallbacks.Load(),
		FilesCopied:     c.filesCopied.Load(),
		FilesSkipped:    c.filesSkipped.Load(),
		BytesCopied:     c.bytesCopied.Load(),
		DirsCreated:     c.dirsCreated.Load(),
		SymlinksCreated: c.symlinksCreated.Load(),
		Elapsed:         c.Elapsed(),
	}
}

// Elapsed returns time since collector creation. A zero Collector reports 0.
func (c *Collector) Elapsed() time.Duration {
	if c.startTime.IsZero() {
		return 0
	}
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"transfers=%d failed=%d renames=%d fallbacks=%d copied=%d skipped=%d bytes=%d dirs=%d symlinks=%d",
		s.Transfers, s.TransfersFailed, s.Renames, s.Fallbacks,
		s.FilesCopied, s.FilesSkipped, s.BytesCopied, s.DirsCreated, s.SymlinksCreated,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
