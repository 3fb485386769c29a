// Package metrics provides in-memory session statistics collection.
package metrics

import (
	"math"
	"sync"
	"time"
)

// Operation names for the collector.
const (
	OpChat      = "chat"
	OpDocChat   = "doc_chat"
	OpTranslate = "translate"
	OpUpload    = "upload"
	OpListDocs  = "list_docs"
)

// OperationMetrics holds aggregated metrics for a single operation type.
type OperationMetrics struct {
	Count     int64
	TotalTime time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration

	// Token counters, chat operations only.
	TotalPromptTokens     int64
	TotalCompletionTokens int64
}

// OperationSnapshot provides computed stats from raw metrics.
type OperationSnapshot struct {
	Count                 int64
	TotalTimeMs           int64
	AvgTimeMs             float64
	MinTimeMs             int64
	MaxTimeMs             int64
	TotalPromptTokens     int64
	TotalCompletionTokens int64
}

// Snapshot represents the session statistics at a point in time.
type Snapshot struct {
	SessionSeconds float64
	Ops            map[string]OperationSnapshot
}

// TotalTokens sums token usage across all operations.
func (s Snapshot) TotalTokens() int64 {
	var total int64
	for _, op := range s.Ops {
		total += op.TotalPromptTokens + op.TotalCompletionTokens
	}
	return total
}

// Collector aggregates in-memory session statistics.
// All methods are thread-safe.
type Collector struct {
	mu        sync.RWMutex
	startTime time.Time
	ops       map[string]*OperationMetrics
}

// NewCollector creates a new metrics collector.
func NewCollector() *Collector {
	return &Collector{
		startTime: time.Now(),
		ops:       make(map[string]*OperationMetrics),
	}
}

// getOrCreate returns existing metrics or creates new ones for an operation.
// Caller must hold the write lock.
func (c *Collector) getOrCreate(op string) *OperationMetrics {
	m, ok := c.ops[op]
	if !ok {
		m = &OperationMetrics{MinTime: time.Duration(math.MaxInt64)}
		c.ops[op] = m
	}
	return m
}

// RecordTiming records timing for an operation.
func (c *Collector) RecordTiming(op string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}
}

// RecordChatUsage records timing and token usage for a chat operation.
func (c *Collector) RecordChatUsage(op string, duration time.Duration, promptTokens, completionTokens int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := c.getOrCreate(op)
	m.Count++
	m.TotalTime += duration

	if duration < m.MinTime {
		m.MinTime = duration
	}
	if duration > m.MaxTime {
		m.MaxTime = duration
	}

	m.TotalPromptTokens += promptTokens
	m.TotalCompletionTokens += completionTokens
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		SessionSeconds: time.Since(c.startTime).Seconds(),
		Ops:            make(map[string]OperationSnapshot, len(c.ops)),
	}

	for op, m := range c.ops {
		if m.Count == 0 {
			continue
		}
		snap.Ops[op] = OperationSnapshot{
			Count:                 m.Count,
			TotalTimeMs:           m.TotalTime.Milliseconds(),
			AvgTimeMs:             float64(m.TotalTime.Milliseconds()) / float64(m.Count),
			MinTimeMs:             m.MinTime.Milliseconds(),
			MaxTimeMs:             m.MaxTime.Milliseconds(),
			TotalPromptTokens:     m.TotalPromptTokens,
			TotalCompletionTokens: m.TotalCompletionTokens,
		}
	}

	return snap
}
