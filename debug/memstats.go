package debug

// Runtime metrics logger enabled when config.Debug is true.
// Logs resident memory alongside Go heap and goroutine stats so native and
// heap growth can be told apart while large images are decoded.

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"

	"github.com/dustin/go-humanize"
)

// Snapshot is one sample of process metrics.
type Snapshot struct {
	Goroutines uint64
	HeapAlloc  uint64
	HeapSys    uint64
	StackInuse uint64
	NumGC      uint32
	RSS        uint64 // 0 when unavailable
}

// Sample reads the current process metrics.
func Sample() (Snapshot, error) {
	samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
	metrics.Read(samples)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s := Snapshot{
		HeapAlloc:  ms.HeapAlloc,
		HeapSys:    ms.HeapSys,
		StackInuse: ms.StackInuse,
		NumGC:      ms.NumGC,
	}
	if samples[0].Value.Kind() == metrics.KindUint64 {
		s.Goroutines = samples[0].Value.Uint64()
	}
	rss, err := residentSetSize()
	s.RSS = rss
	return s, err
}

// StartMemLogger logs a Snapshot every interval until ctx is cancelled.
// Failures to query RSS are logged once and suppressed.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			s, err := Sample()
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: rss unavailable", slog.String("err", err.Error()))
				rssErrLogged = true
			}
			logger.Info("memstats",
				slog.Uint64("goroutines", s.Goroutines),
				slog.String("heap_alloc", humanize.IBytes(s.HeapAlloc)),
				slog.String("heap_sys", humanize.IBytes(s.HeapSys)),
				slog.String("stack_inuse", humanize.IBytes(s.StackInuse)),
				slog.String("rss", humanize.IBytes(s.RSS)),
				slog.Uint64("num_gc", uint64(s.NumGC)),
			)
		}
	}()
}
