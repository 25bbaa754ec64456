package app

import (
	"sync/atomic"
	"time"
)

// Metrics counts what a session did. It is logged when the session ends.
type Metrics struct {
	refreshCount atomic.Uint64
	redrawCount  atomic.Uint64
	redrawNs     atomic.Int64

	keyCount    atomic.Uint64
	resizeCount atomic.Uint64
	ignored     atomic.Uint64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordRefresh records one screen refresh and whether the view was redrawn.
func (m *Metrics) RecordRefresh(redrawn bool, duration time.Duration) {
	m.refreshCount.Add(1)
	if redrawn {
		m.redrawCount.Add(1)
		m.redrawNs.Add(duration.Nanoseconds())
	}
}

// RecordKey records a handled key event.
func (m *Metrics) RecordKey() { m.keyCount.Add(1) }

// RecordResize records a handled resize event.
func (m *Metrics) RecordResize() { m.resizeCount.Add(1) }

// RecordIgnored records an event the loop did not act on.
func (m *Metrics) RecordIgnored() { m.ignored.Add(1) }

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Refreshes uint64
	Redraws   uint64
	AvgRedraw time.Duration
	Keys      uint64
	Resizes   uint64
	Ignored   uint64
	Uptime    time.Duration
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Refreshes: m.refreshCount.Load(),
		Redraws:   m.redrawCount.Load(),
		Keys:      m.keyCount.Load(),
		Resizes:   m.resizeCount.Load(),
		Ignored:   m.ignored.Load(),
		Uptime:    time.Since(m.startTime),
	}
	if s.Redraws > 0 {
		s.AvgRedraw = time.Duration(m.redrawNs.Load() / int64(s.Redraws))
	}
	return s
}
