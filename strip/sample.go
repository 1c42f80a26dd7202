package strip

import "fmt"

// Kind tags a Sample as a plotted value or a separator marker.
type Kind uint8

const (
	KindValue Kind = iota
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindSeparator:
		return "separator"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Sample is one timeline entry. V is meaningless for separators.
type Sample struct {
	Kind Kind
	V    float64
}

// Value returns a value sample.
func Value(v float64) Sample { return Sample{Kind: KindValue, V: v} }

// Separator returns a separator marker.
func Separator() Sample { return Sample{Kind: KindSeparator} }

// IsSeparator reports whether s is a separator marker.
func (s Sample) IsSeparator() bool { return s.Kind == KindSeparator }

func (s Sample) String() string {
	if s.IsSeparator() {
		return "|"
	}
	return fmt.Sprintf("%g", s.V)
}
