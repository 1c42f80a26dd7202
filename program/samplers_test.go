package main

import (
	"math"
	"testing"
	"time"
)

func TestSlider(t *testing.T) {
	s := newSlider(0, 100, 10)
	if s.pos != 50 {
		t.Fatalf("initial pos = %v, want 50", s.pos)
	}
	s.move(3)
	if v, _ := s.Sample(time.Time{}); v != 80 {
		t.Fatalf("after +3 = %v, want 80", v)
	}
	s.move(10)
	if s.pos != 100 {
		t.Fatalf("slider not clamped at max: %v", s.pos)
	}
	s.move(-50)
	if s.pos != 0 {
		t.Fatalf("slider not clamped at min: %v", s.pos)
	}
	s.reset()
	if s.pos != 50 {
		t.Fatalf("reset pos = %v", s.pos)
	}
}

func TestWaveSampler(t *testing.T) {
	start := time.Unix(0, 0)
	w := newWaveSampler(start, 4*time.Second)
	v, err := w.Sample(start)
	if err != nil || v != 0 {
		t.Fatalf("Sample(start) = %v, %v", v, err)
	}
	for i := 0; i < 100; i++ {
		v, _ := w.Sample(start.Add(time.Duration(i) * 37 * time.Millisecond))
		if math.Abs(v) > 1 {
			t.Fatalf("wave out of [-1,1]: %v", v)
		}
	}
	if newWaveSampler(start, 0).period <= 0 {
		t.Fatal("zero period not defaulted")
	}
}

func TestSamplerFor(t *testing.T) {
	sl := newSlider(0, 10, 1)
	if samplerFor(SourceFeed, time.Now(), sl) != nil {
		t.Error("feed strips should have no sampler")
	}
	if samplerFor(SourceSlider, time.Now(), sl) != sl {
		t.Error("slider source not bound to the slider")
	}
	for _, src := range []string{SourceWave, SourceCPU, SourceMem, SourceLoad} {
		if samplerFor(src, time.Now(), sl) == nil {
			t.Errorf("no sampler for %q", src)
		}
	}
}
