package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/keilerkonzept/plotstrip/strip"
)

// latencyRing keeps recent durations in milliseconds.
type latencyRing struct {
	mu  sync.Mutex
	buf *strip.Buffer
}

func newLatencyRing(n int) *latencyRing {
	buf, err := strip.NewBuffer(max(1, n))
	if err != nil {
		panic(err)
	}
	return &latencyRing{buf: buf}
}

func (r *latencyRing) add(d time.Duration) {
	r.mu.Lock()
	r.buf.Push(strip.Value(float64(d) / float64(time.Millisecond)))
	r.mu.Unlock()
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
	n    int
}

func (r *latencyRing) stats() durationStats {
	r.mu.Lock()
	samples := r.buf.Snapshot()
	r.mu.Unlock()
	if len(samples) == 0 {
		return durationStats{}
	}
	toDur := func(ms float64) time.Duration { return time.Duration(ms * float64(time.Millisecond)) }
	var sum, hi float64
	for _, s := range samples {
		sum += s.V
		hi = max(hi, s.V)
	}
	return durationStats{
		last: toDur(samples[len(samples)-1].V),
		max:  toDur(hi),
		avg:  toDur(sum / float64(len(samples))),
		n:    len(samples),
	}
}

type latencyMetrics struct {
	enabled atomic.Bool

	records       atomic.Uint64
	firstIngestNs atomic.Int64
	lastIngestNs  atomic.Int64

	render *latencyRing
	sample *latencyRing
}

func newLatencyMetrics(window int) *latencyMetrics {
	return &latencyMetrics{
		render: newLatencyRing(window),
		sample: newLatencyRing(window),
	}
}

func (m *latencyMetrics) setEnabled(v bool) { m.enabled.Store(v) }
func (m *latencyMetrics) isEnabled() bool   { return m.enabled.Load() }

func (m *latencyMetrics) observeIngest(now time.Time) {
	if !m.isEnabled() {
		return
	}
	nowNs := now.UnixNano()
	m.firstIngestNs.CompareAndSwap(0, nowNs)
	m.lastIngestNs.Store(nowNs)
	m.records.Add(1)
}

func (m *latencyMetrics) observeRender(d time.Duration) {
	if m.isEnabled() {
		m.render.add(d)
	}
}

func (m *latencyMetrics) observeSample(d time.Duration) {
	if m.isEnabled() {
		m.sample.add(d)
	}
}

type snapshot struct {
	records uint64
	avgRps  uint64
	render  durationStats
	sample  durationStats
}

func (m *latencyMetrics) snapshot() snapshot {
	if !m.isEnabled() {
		return snapshot{}
	}
	records := m.records.Load()
	var avgRps uint64
	first, last := m.firstIngestNs.Load(), m.lastIngestNs.Load()
	if first != 0 && last > first {
		active := time.Duration(last - first)
		avgRps = uint64(float64(records)/active.Seconds() + 0.5)
	}
	return snapshot{
		records: records,
		avgRps:  avgRps,
		render:  m.render.stats(),
		sample:  m.sample.stats(),
	}
}
