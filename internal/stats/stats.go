// Package stats tracks engine counters for the status endpoint.
package stats

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Collector collects pipeline statistics. All methods are safe for
// concurrent use.
type Collector struct {
	startTime     time.Time
	requestCount  atomic.Int64
	fallbackCount atomic.Int64
	errorCount    atomic.Int64
	totalDuration atomic.Int64 // nanoseconds
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
	}
}

// RecordRun records one completed pipeline run.
func (c *Collector) RecordRun(d time.Duration, fallbackUsed bool, stageErrors int) {
	c.requestCount.Add(1)
	c.totalDuration.Add(int64(d))
	if fallbackUsed {
		c.fallbackCount.Add(1)
	}
	c.errorCount.Add(int64(stageErrors))
}

// Stats represents engine statistics at a point in time.
type Stats struct {
	Uptime        string  `json:"uptime"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	RequestCount  int64   `json:"request_count"`
	FallbackCount int64   `json:"fallback_count"`
	ErrorCount    int64   `json:"error_count"`
	AvgLatencyMs  float64 `json:"avg_latency_ms"`
}

// Collect returns current statistics.
func (c *Collector) Collect() *Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	requests := c.requestCount.Load()
	avgLatency := float64(0)
	if requests > 0 {
		avgLatency = float64(c.totalDuration.Load()) / float64(requests) / 1e6
	}

	return &Stats{
		Uptime:        time.Since(c.startTime).Round(time.Second).String(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(m.HeapAlloc) / 1024 / 1024,
		RequestCount:  requests,
		FallbackCount: c.fallbackCount.Load(),
		ErrorCount:    c.errorCount.Load(),
		AvgLatencyMs:  avgLatency,
	}
}
