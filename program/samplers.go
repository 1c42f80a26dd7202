package main

import (
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// sampler produces one reading per sample tick.
type sampler interface {
	Sample(now time.Time) (float64, error)
}

type samplerFunc func(now time.Time) (float64, error)

func (f samplerFunc) Sample(now time.Time) (float64, error) { return f(now) }

// waveSampler is a sum of two sines so the strip has something to scroll.
type waveSampler struct {
	start  time.Time
	period time.Duration
}

func newWaveSampler(start time.Time, period time.Duration) *waveSampler {
	if period <= 0 {
		period = 10 * time.Second
	}
	return &waveSampler{start: start, period: period}
}

func (w *waveSampler) Sample(now time.Time) (float64, error) {
	phase := 2 * math.Pi * now.Sub(w.start).Seconds() / w.period.Seconds()
	return 0.7*math.Sin(phase) + 0.3*math.Sin(3.1*phase), nil
}

// slider holds a position in [min,max] moved by key presses.
type slider struct {
	min, max float64
	step     float64
	pos      float64
}

func newSlider(min, max, step float64) *slider {
	s := &slider{min: min, max: max, step: step}
	s.reset()
	return s
}

func (s *slider) move(steps int) {
	s.pos += float64(steps) * s.step
	s.pos = math.Max(s.min, math.Min(s.max, s.pos))
}

func (s *slider) reset() { s.pos = (s.min + s.max) / 2 }

func (s *slider) Sample(time.Time) (float64, error) { return s.pos, nil }

func cpuSampler() sampler {
	return samplerFunc(func(time.Time) (float64, error) {
		// interval 0 compares against the previous call
		pct, err := cpu.Percent(0, false)
		if err != nil {
			return 0, fmt.Errorf("cpu: %w", err)
		}
		if len(pct) == 0 {
			return 0, fmt.Errorf("cpu: no reading")
		}
		return pct[0], nil
	})
}

func memSampler() sampler {
	return samplerFunc(func(time.Time) (float64, error) {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return 0, fmt.Errorf("mem: %w", err)
		}
		return vm.UsedPercent, nil
	})
}

func loadSampler() sampler {
	return samplerFunc(func(time.Time) (float64, error) {
		avg, err := load.Avg()
		if err != nil {
			return 0, fmt.Errorf("load: %w", err)
		}
		return avg.Load1, nil
	})
}

// samplerFor returns the sampler for a strip source; feed strips have none.
func samplerFor(source string, start time.Time, sl *slider) sampler {
	switch source {
	case SourceWave:
		return newWaveSampler(start, 10*time.Second)
	case SourceSlider:
		return sl
	case SourceCPU:
		return cpuSampler()
	case SourceMem:
		return memSampler()
	case SourceLoad:
		return loadSampler()
	}
	return nil
}
