package main

import (
	"testing"
	"time"
)

func TestLatencyRingStats(t *testing.T) {
	r := newLatencyRing(3)
	if got := r.stats(); got.n != 0 {
		t.Fatalf("empty ring stats = %+v", got)
	}
	for _, d := range []time.Duration{1, 2, 3, 6} {
		r.add(d * time.Millisecond)
	}
	got := r.stats()
	want := durationStats{last: 6 * time.Millisecond, max: 6 * time.Millisecond, avg: 11 * time.Millisecond / 3, n: 3}
	if got.n != want.n || got.last != want.last || got.max != want.max {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}
	if diff := got.avg - want.avg; diff < -time.Microsecond || diff > time.Microsecond {
		t.Fatalf("avg = %v, want ~%v", got.avg, want.avg)
	}
}

func TestLatencyMetricsDisabled(t *testing.T) {
	m := newLatencyMetrics(16)
	m.observeIngest(time.Now())
	m.observeRender(time.Millisecond)
	if snap := m.snapshot(); snap.records != 0 || snap.render.n != 0 {
		t.Fatalf("disabled metrics recorded: %+v", snap)
	}
}

func TestLatencyMetricsIngestRate(t *testing.T) {
	m := newLatencyMetrics(16)
	m.setEnabled(true)
	start := time.Unix(100, 0)
	for i := 0; i <= 10; i++ {
		m.observeIngest(start.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	m.observeSample(2 * time.Millisecond)
	snap := m.snapshot()
	if snap.records != 11 {
		t.Fatalf("records = %d, want 11", snap.records)
	}
	if snap.avgRps != 11 {
		t.Fatalf("avgRps = %d, want 11", snap.avgRps)
	}
	if snap.sample.last != 2*time.Millisecond {
		t.Fatalf("sample last = %v", snap.sample.last)
	}
}

func TestFormatMetricDuration(t *testing.T) {
	if got := formatMetricDuration(0); got != "0.000ms" {
		t.Errorf("0 -> %q", got)
	}
	if got := formatMetricDuration(1500 * time.Microsecond); got != "1.500ms" {
		t.Errorf("1.5ms -> %q", got)
	}
}

func TestComputePaneWidths(t *testing.T) {
	tests := []struct {
		total, split int
		left, right  int
	}{
		{1, 50, 1, 1},
		{100, 25, 25, 75},
		{100, 10, 18, 82},
		{40, 60, 22, 18},
	}
	for _, tt := range tests {
		l, r := computePaneWidths(tt.total, tt.split)
		if l != tt.left || r != tt.right {
			t.Errorf("computePaneWidths(%d, %d) = %d, %d, want %d, %d", tt.total, tt.split, l, r, tt.left, tt.right)
		}
	}
}
