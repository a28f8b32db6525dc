package notify

import (
	"sync/atomic"
	"time"
)

// Metrics tracks dispatcher statistics using atomic operations for thread-safety
type Metrics struct {
	Enqueued   atomic.Int64
	Sent       atomic.Int64
	Failed     atomic.Int64
	Suppressed atomic.Int64
	Dropped    atomic.Int64
	StartTime  time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

func (m *Metrics) IncEnqueued() {
	m.Enqueued.Add(1)
}

func (m *Metrics) IncSent() {
	m.Sent.Add(1)
}

func (m *Metrics) IncFailed() {
	m.Failed.Add(1)
}

func (m *Metrics) IncSuppressed() {
	m.Suppressed.Add(1)
}

// IncDropped counts messages refused because the queue was full or closed
func (m *Metrics) IncDropped() {
	m.Dropped.Add(1)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Enqueued   int64     `json:"enqueued"`
	Sent       int64     `json:"sent"`
	Failed     int64     `json:"failed"`
	Suppressed int64     `json:"suppressed"`
	Dropped    int64     `json:"dropped"`
	QueueDepth int       `json:"queue_depth"`
	StartTime  time.Time `json:"start_time"`
	Uptime     string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Enqueued:   m.Enqueued.Load(),
		Sent:       m.Sent.Load(),
		Failed:     m.Failed.Load(),
		Suppressed: m.Suppressed.Load(),
		Dropped:    m.Dropped.Load(),
		StartTime:  m.StartTime,
		Uptime:     time.Since(m.StartTime).Round(time.Second).String(),
	}
}
