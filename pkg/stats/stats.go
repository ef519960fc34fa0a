// Package stats periodically logs memory and goroutine counts of the daemon
// process and dumps the registered prometheus metrics on shutdown.
package stats

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const gigabyte = 1 << 30

// EnableMemoryStatistics spawns a goroutine logging memory usage of the
// process on the given cadence. When the context is cancelled it dumps the
// default prometheus registry under dumpDir and stops.
func EnableMemoryStatistics(ctx context.Context, interval time.Duration, dumpDir string) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logMemoryStatistics()
			case <-ctx.Done():
				if err := DumpPrometheusDefaults(dumpDir); err != nil {
					log.WithError(err).Warn("failed to dump prometheus metrics")
				}
				return
			}
		}
	}()
}

func logMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"total allocated: %.3fGB, heap allocated: %.3fGB, goroutines: %d",
		float64(memStats.TotalAlloc)/gigabyte,
		float64(memStats.HeapAlloc)/gigabyte,
		runtime.NumGoroutine(),
	)
}

// DumpPrometheusDefaults appends the current state of the default prometheus
// registry to the stats file under dumpDir.
func DumpPrometheusDefaults(dumpDir string) error {
	file, err := os.OpenFile(
		filepath.Join(dumpDir, "stats"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	for _, family := range families {
		if _, err := writer.WriteString(family.String() + "\n"); err != nil {
			return err
		}
	}
	return writer.Flush()
}
