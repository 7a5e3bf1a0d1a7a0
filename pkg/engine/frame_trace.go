package engine

import (
	"sync"
	"time"

	"github.com/go-drift/fibre/pkg/core"
)

const (
	frameTraceSamplesDefault   = 240
	defaultFrameTraceThreshold = 16667 * time.Microsecond
)

// FramePhaseTimings captures time spent in each phase of a frame (ms).
type FramePhaseTimings struct {
	DispatchMs float64 `json:"dispatchMs"`
	CommandMs  float64 `json:"commandMs"`
	RenderMs   float64 `json:"renderMs"`
}

// FrameCounts captures per-frame workload indicators.
type FrameCounts struct {
	Events     int `json:"events"`
	Applied    int `json:"applied"`
	Dropped    int `json:"dropped"`
	Mounts     int `json:"mounts"`
	Unmounts   int `json:"unmounts"`
	Passes     int `json:"passes"`
	Pending    int `json:"pending"`
	Components int `json:"components"`
	Nodes      int `json:"nodes"`
}

// FrameSample is a single frame trace sample.
type FrameSample struct {
	Frame     uint64            `json:"frame"`
	Timestamp int64             `json:"ts"`
	FrameMs   float64           `json:"frameMs"`
	Phases    FramePhaseTimings `json:"phases"`
	Counts    FrameCounts       `json:"counts"`
	// Failed is set when the render phase returned an error.
	Failed bool `json:"failed,omitempty"`
}

func countsFrom(stats core.FrameStats) FrameCounts {
	return FrameCounts{
		Applied:  stats.Applied,
		Dropped:  stats.Dropped,
		Mounts:   stats.Mounts,
		Unmounts: stats.Unmounts,
		Passes:   stats.Passes,
		Pending:  stats.Pending,
	}
}

// FrameTimeline is the debug server response shape.
type FrameTimeline struct {
	Samples       []FrameSample `json:"samples"`
	DroppedFrames int           `json:"droppedFrames"`
	ThresholdMs   float64       `json:"thresholdMs"`
}

// FrameTraceBuffer stores recent frame samples in a ring buffer.
type FrameTraceBuffer struct {
	mu        sync.RWMutex
	samples   ring[FrameSample]
	dropped   int
	threshold time.Duration
}

// NewFrameTraceBuffer creates a new frame trace buffer. Frames slower than
// threshold are counted as dropped.
func NewFrameTraceBuffer(capacity int, threshold time.Duration) *FrameTraceBuffer {
	if capacity <= 0 {
		capacity = frameTraceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultFrameTraceThreshold
	}
	return &FrameTraceBuffer{
		samples:   newRing[FrameSample](capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *FrameTraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples.capacity()
}

// Threshold returns the dropped frame threshold.
func (b *FrameTraceBuffer) Threshold() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.threshold
}

// Add records a frame sample and updates the dropped frame count.
func (b *FrameTraceBuffer) Add(sample FrameSample, frameDuration time.Duration) {
	b.mu.Lock()
	b.samples.push(sample)
	if frameDuration > b.threshold {
		b.dropped++
	}
	b.mu.Unlock()
}

// Snapshot returns a chronological copy of samples and stats.
func (b *FrameTraceBuffer) Snapshot() FrameTimeline {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return FrameTimeline{
		Samples:       b.samples.snapshot(),
		DroppedFrames: b.dropped,
		ThresholdMs:   durationToMillis(b.threshold),
	}
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
