package engine

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/go-drift/fibre/pkg/errors"
)

const (
	runtimeSampleMinInterval = 100 * time.Millisecond
	runtimeSampleMaxSamples  = 120
)

// RuntimeSample captures a snapshot of runtime memory and GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	LastPauseNs  uint64 `json:"lastPauseNs"`
	Goroutines   int    `json:"goroutines"`
}

// RuntimeSampleBuffer stores recent runtime samples in a ring buffer.
type RuntimeSampleBuffer struct {
	mu       sync.RWMutex
	samples  ring[RuntimeSample]
	interval time.Duration
}

func newRuntimeSampleBuffer(interval time.Duration) *RuntimeSampleBuffer {
	return &RuntimeSampleBuffer{
		samples:  newRing[RuntimeSample](runtimeSampleMaxSamples),
		interval: max(interval, runtimeSampleMinInterval),
	}
}

// Interval returns the sampling interval.
func (b *RuntimeSampleBuffer) Interval() time.Duration {
	return b.interval
}

// Add stores a runtime sample.
func (b *RuntimeSampleBuffer) Add(sample RuntimeSample) {
	b.mu.Lock()
	b.samples.push(sample)
	b.mu.Unlock()
}

// Snapshot returns samples in chronological order.
func (b *RuntimeSampleBuffer) Snapshot() []RuntimeSample {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.snapshot()
}

func readRuntimeSample() RuntimeSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	lastPause := uint64(0)
	if stats.NumGC > 0 {
		lastPause = stats.PauseNs[(stats.NumGC+255)%256]
	}

	return RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
		LastPauseNs:  lastPause,
		Goroutines:   runtime.NumGoroutine(),
	}
}

// sample records one sample per interval until ctx is done.
func (b *RuntimeSampleBuffer) sample(ctx context.Context) {
	defer errors.Recover("engine.sampleRuntime")
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.Add(readRuntimeSample())
		case <-ctx.Done():
			return
		}
	}
}
