package strip

import "sync"

// Locked guards a Strip for use by a producer and a renderer on different
// goroutines.
type Locked struct {
	mu sync.Mutex
	s  *Strip
}

// NewLocked wraps s. The caller must not use s directly afterwards.
func NewLocked(s *Strip) *Locked {
	return &Locked{s: s}
}

// Do runs fn with the lock held.
func (l *Locked) Do(fn func(s *Strip)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.s)
}

func (l *Locked) SetValue(v float64) {
	l.mu.Lock()
	l.s.SetValue(v)
	l.mu.Unlock()
}

func (l *Locked) AddSeparator() {
	l.mu.Lock()
	l.s.AddSeparator()
	l.mu.Unlock()
}

func (l *Locked) SetAll(samples []Sample) {
	l.mu.Lock()
	l.s.SetAll(samples)
	l.mu.Unlock()
}

func (l *Locked) Snapshot() []Sample {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Snapshot()
}

func (l *Locked) Frame() Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Frame()
}
