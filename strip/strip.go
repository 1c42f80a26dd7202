// Package strip holds the data side of a scrolling strip chart: a bounded
// sample history, the clamping range used to map it onto a [0,1] vertical
// axis, an optional baseline and inert styling for whoever draws it.
//
// Nothing here draws. A renderer pulls a Frame once per redraw.
package strip

// Point is one drawable entry. Index is the x coordinate (buffer position,
// oldest first); Y is the normalized value and is zero for separators.
type Point struct {
	Index     int     `json:"index"`
	Y         float64 `json:"y"`
	Separator bool    `json:"separator,omitempty"`
}

// Frame is everything a renderer needs for one redraw.
type Frame struct {
	Points     []Point  `json:"points"`
	Value      float64  `json:"value"`
	Count      int      `json:"count"`
	Capacity   int      `json:"capacity"`
	Limits     Limits   `json:"limits"`
	Baseline   *float64 `json:"baseline,omitempty"`
	Style      Style    `json:"style"`
	Degenerate bool     `json:"degenerate,omitempty"`
}

// Strip is a rolling series plus the transform that makes it drawable.
type Strip struct {
	buf      *Buffer
	limits   Limits
	value    float64
	baseline float64
	hasBase  bool
	style    Style
}

type Option func(*Strip)

// WithLimits sets the initial clamping range.
func WithLimits(lower, upper float64) Option {
	return func(s *Strip) { s.limits = Limits{Lower: lower, Upper: upper} }
}

// WithBaseline sets an initial baseline value.
func WithBaseline(v float64) Option {
	return func(s *Strip) { s.SetBaseline(v) }
}

func WithStyle(st Style) Option {
	return func(s *Strip) { s.style = st }
}

// New creates an empty strip. Limits default to [0,1].
func New(capacity int, opts ...Option) (*Strip, error) {
	buf, err := NewBuffer(capacity)
	if err != nil {
		return nil, err
	}
	s := &Strip{
		buf:    buf,
		limits: Limits{Lower: 0, Upper: 1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetValue pushes v and makes it the current value.
func (s *Strip) SetValue(v float64) {
	s.buf.Push(Value(v))
	s.value = v
}

// Value returns the most recent scalar pushed.
func (s *Strip) Value() float64 { return s.value }

// AddSeparator pushes a separator marker into the timeline.
func (s *Strip) AddSeparator() { s.buf.AddSeparator() }

// SetAll replaces the history. Value() follows the newest value sample kept.
func (s *Strip) SetAll(samples []Sample) {
	s.buf.SetAll(samples)
	s.syncValue()
}

func (s *Strip) SetInts(data []int, n int) error {
	if err := s.buf.SetInts(data, n); err != nil {
		return err
	}
	s.syncValue()
	return nil
}

func (s *Strip) SetFloat32s(data []float32, n int) error {
	if err := s.buf.SetFloat32s(data, n); err != nil {
		return err
	}
	s.syncValue()
	return nil
}

func (s *Strip) SetFloat64s(data []float64, n int) error {
	if err := s.buf.SetFloat64s(data, n); err != nil {
		return err
	}
	s.syncValue()
	return nil
}

func (s *Strip) syncValue() {
	snap := s.buf.Snapshot()
	for i := len(snap) - 1; i >= 0; i-- {
		if !snap[i].IsSeparator() {
			s.value = snap[i].V
			return
		}
	}
}

// SetCapacity resizes the history; see Buffer.SetCapacity.
func (s *Strip) SetCapacity(n int) error { return s.buf.SetCapacity(n) }

func (s *Strip) Capacity() int { return s.buf.Capacity() }

func (s *Strip) Count() int { return s.buf.Count() }

// Clear empties the history. Value, limits and baseline are untouched.
func (s *Strip) Clear() { s.buf.Clear() }

// Snapshot returns the raw retained samples, oldest first.
func (s *Strip) Snapshot() []Sample { return s.buf.Snapshot() }

// Data returns the raw retained values with separators left out.
func (s *Strip) Data() []float64 {
	snap := s.buf.Snapshot()
	out := make([]float64, 0, len(snap))
	for _, smp := range snap {
		if !smp.IsSeparator() {
			out = append(out, smp.V)
		}
	}
	return out
}

// SetLimits changes the clamping range. Stored history is not rewritten;
// the new range applies to the next DrawableSnapshot.
func (s *Strip) SetLimits(lower, upper float64) {
	s.limits = Limits{Lower: lower, Upper: upper}
}

func (s *Strip) Limits() Limits { return s.limits }

func (s *Strip) UpperLimit() float64 { return s.limits.Upper }

func (s *Strip) LowerLimit() float64 { return s.limits.Lower }

func (s *Strip) SetBaseline(v float64) {
	s.baseline = v
	s.hasBase = true
}

// ClearBaseline removes the baseline.
func (s *Strip) ClearBaseline() {
	s.baseline = 0
	s.hasBase = false
}

// BaselineValue returns the raw baseline, if set.
func (s *Strip) BaselineValue() (float64, bool) { return s.baseline, s.hasBase }

// Baseline returns the baseline normalized against the current limits.
func (s *Strip) Baseline() (float64, bool) {
	if !s.hasBase {
		return 0, false
	}
	return s.limits.Normalize(s.baseline), true
}

func (s *Strip) Style() Style { return s.style }

func (s *Strip) SetStyle(st Style) { s.style = st }

// DrawableSnapshot maps every retained sample through the current limits.
func (s *Strip) DrawableSnapshot() []Point {
	snap := s.buf.Snapshot()
	out := make([]Point, len(snap))
	for i, smp := range snap {
		if smp.IsSeparator() {
			out[i] = Point{Index: i, Separator: true}
			continue
		}
		out[i] = Point{Index: i, Y: s.limits.Normalize(smp.V)}
	}
	return out
}

// Frame collects one consistent view of the strip for a renderer.
func (s *Strip) Frame() Frame {
	f := Frame{
		Points:     s.DrawableSnapshot(),
		Value:      s.value,
		Count:      s.buf.Count(),
		Capacity:   s.buf.Capacity(),
		Limits:     s.limits,
		Style:      s.style,
		Degenerate: s.limits.Degenerate(),
	}
	if y, ok := s.Baseline(); ok {
		f.Baseline = &y
	}
	return f
}
