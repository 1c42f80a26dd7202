package strip

// DefaultCapacity is the history length used when a caller has no preference.
const DefaultCapacity = 100

// Buffer is a fixed-capacity ring of samples. Pushing into a full buffer
// evicts the oldest sample. A Buffer is not safe for concurrent use; see Locked.
type Buffer struct {
	data  []Sample
	head  int // next write position
	count int // number of valid samples
}

// NewBuffer creates an empty Buffer holding at most capacity samples.
func NewBuffer(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, invalidCapacity(capacity)
	}
	return &Buffer{data: make([]Sample, capacity)}, nil
}

// Capacity returns the maximum number of retained samples.
func (b *Buffer) Capacity() int { return len(b.data) }

// Count returns the number of retained samples.
func (b *Buffer) Count() int { return b.count }

// Push appends s, evicting the oldest sample when full.
func (b *Buffer) Push(s Sample) {
	b.data[b.head] = s
	b.head = (b.head + 1) % len(b.data)
	if b.count < len(b.data) {
		b.count++
	}
}

// AddSeparator pushes a separator marker.
func (b *Buffer) AddSeparator() { b.Push(Separator()) }

// Last returns the most recent sample.
func (b *Buffer) Last() (Sample, bool) {
	if b.count == 0 {
		return Sample{}, false
	}
	idx := b.head - 1
	if idx < 0 {
		idx = len(b.data) - 1
	}
	return b.data[idx], true
}

// Snapshot returns the retained samples oldest first. The result is a copy.
func (b *Buffer) Snapshot() []Sample {
	out := make([]Sample, b.count)
	start := b.head - b.count
	if start < 0 {
		start += len(b.data)
	}
	for i := range out {
		out[i] = b.data[(start+i)%len(b.data)]
	}
	return out
}

// Clear drops all samples. The capacity is kept.
func (b *Buffer) Clear() {
	clear(b.data)
	b.head = 0
	b.count = 0
}

// SetCapacity resizes the buffer. Shrinking drops the oldest samples
// immediately; growing keeps everything and does not backfill.
func (b *Buffer) SetCapacity(n int) error {
	if n <= 0 {
		return invalidCapacity(n)
	}
	if n == len(b.data) {
		return nil
	}
	old := b.Snapshot()
	b.data = make([]Sample, n)
	b.head = 0
	b.count = 0
	b.load(old)
	return nil
}

// SetAll replaces the history with samples, keeping only the most recent
// Capacity() of them.
func (b *Buffer) SetAll(samples []Sample) {
	clear(b.data)
	b.head = 0
	b.count = 0
	b.load(samples)
}

func (b *Buffer) load(samples []Sample) {
	if len(samples) > len(b.data) {
		samples = samples[len(samples)-len(b.data):]
	}
	n := copy(b.data, samples)
	b.count = n
	b.head = n % len(b.data)
}

// SetInts replaces the history with the first n elements of data.
func (b *Buffer) SetInts(data []int, n int) error { return setNumbers(b, data, n) }

// SetFloat32s replaces the history with the first n elements of data.
func (b *Buffer) SetFloat32s(data []float32, n int) error { return setNumbers(b, data, n) }

// SetFloat64s replaces the history with the first n elements of data.
func (b *Buffer) SetFloat64s(data []float64, n int) error { return setNumbers(b, data, n) }

type number interface {
	~int | ~float32 | ~float64
}

// setNumbers validates the declared count before touching b, so a bad
// call leaves the history unchanged.
func setNumbers[T number](b *Buffer, data []T, n int) error {
	if n < 0 || n > len(data) {
		return invalidCount(n, len(data))
	}
	samples := make([]Sample, n)
	for i, v := range data[:n] {
		samples[i] = Value(float64(v))
	}
	b.SetAll(samples)
	return nil
}
