package main

import (
	"fmt"
	"os"

	"github.com/keilerkonzept/plotstrip/strip"
	"gopkg.in/yaml.v3"
)

// Sources a strip can be fed from.
const (
	SourceFeed   = "feed"
	SourceWave   = "wave"
	SourceSlider = "slider"
	SourceCPU    = "cpu"
	SourceMem    = "mem"
	SourceLoad   = "load"
)

var knownSources = map[string]bool{
	SourceFeed:   true,
	SourceWave:   true,
	SourceSlider: true,
	SourceCPU:    true,
	SourceMem:    true,
	SourceLoad:   true,
}

type StripsFile struct {
	Strips []StripConfig `yaml:"strips"`
}

type StripConfig struct {
	Name     string        `yaml:"name"`
	Label    string        `yaml:"label"`
	Source   string        `yaml:"source"`
	Capacity int           `yaml:"capacity"`
	Limits   *strip.Limits `yaml:"limits"`
	Baseline *float64      `yaml:"baseline"`
	Style    strip.Style   `yaml:"style"`
}

func NewReadError(path string, err error) error {
	return fmt.Errorf("failed to read strips file %q: %w", path, err)
}

func NewParseError(path string, err error) error {
	return fmt.Errorf("failed to parse strips file %q: %w", path, err)
}

type Loader struct {
	path string
}

func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

func (l *Loader) Load() (*StripsFile, error) {
	b, err := os.ReadFile(l.path)
	if err != nil {
		return nil, NewReadError(l.path, err)
	}
	return parseStripsFile(l.path, b)
}

func parseStripsFile(path string, b []byte) (*StripsFile, error) {
	f := &StripsFile{}
	if err := yaml.Unmarshal(b, f); err != nil {
		return nil, NewParseError(path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *StripsFile) Validate() error {
	seen := make(map[string]bool, len(f.Strips))
	for i, sc := range f.Strips {
		if sc.Name == "" {
			return fmt.Errorf("strips[%d]: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("strip %q: defined more than once", sc.Name)
		}
		seen[sc.Name] = true
		if sc.Source != "" && !knownSources[sc.Source] {
			return fmt.Errorf("strip %q: unknown source %q", sc.Name, sc.Source)
		}
		if sc.Capacity < 0 {
			return fmt.Errorf("strip %q: capacity must be >= 0 (got %d)", sc.Name, sc.Capacity)
		}
		// Equal limits are allowed and render flat; inverted ones are a typo.
		if sc.Limits != nil && sc.Limits.Lower > sc.Limits.Upper {
			return fmt.Errorf("strip %q: lower limit %v > upper limit %v", sc.Name, sc.Limits.Lower, sc.Limits.Upper)
		}
	}
	return nil
}

// Resolve fills defaults left empty in the file.
func (sc StripConfig) Resolve(defaultCapacity int) StripConfig {
	if sc.Source == "" {
		sc.Source = SourceFeed
	}
	if sc.Label == "" {
		sc.Label = sc.Name
	}
	if sc.Capacity == 0 {
		sc.Capacity = defaultCapacity
	}
	if sc.Limits == nil {
		l := defaultLimits(sc.Source)
		sc.Limits = &l
	}
	if sc.Style.LabelFormat == "" {
		sc.Style.LabelFormat = "%.2f"
	}
	return sc
}

func defaultLimits(source string) strip.Limits {
	switch source {
	case SourceWave:
		return strip.Limits{Lower: -1, Upper: 1}
	case SourceSlider, SourceCPU, SourceMem:
		return strip.Limits{Lower: 0, Upper: 100}
	case SourceLoad:
		return strip.Limits{Lower: 0, Upper: 4}
	}
	return strip.Limits{Lower: 0, Upper: 100}
}

// NewStrip builds a strip from a resolved config.
func (sc StripConfig) NewStrip() (*strip.Strip, error) {
	opts := []strip.Option{
		strip.WithLimits(sc.Limits.Lower, sc.Limits.Upper),
		strip.WithStyle(sc.Style),
	}
	if sc.Baseline != nil {
		opts = append(opts, strip.WithBaseline(*sc.Baseline))
	}
	s, err := strip.New(sc.Capacity, opts...)
	if err != nil {
		return nil, fmt.Errorf("strip %q: %w", sc.Name, err)
	}
	return s, nil
}

// builtinStrips is the default screen: a timer-driven signal,
// a slider-driven strip and a few environment readings.
func builtinStrips(system bool) []StripConfig {
	zero, half := 0.0, 50.0
	out := []StripConfig{
		{Name: "wave", Label: "Wave", Source: SourceWave, Baseline: &zero,
			Style: strip.Style{ShowDot: true, LabelFormat: "%+.3f"}},
		{Name: "slider", Label: "Slider", Source: SourceSlider, Baseline: &half,
			Style: strip.Style{ShowDot: true, LabelFormat: "%.0f"}},
	}
	if system {
		out = append(out,
			StripConfig{Name: "cpu", Label: "CPU", Source: SourceCPU, Style: strip.Style{LabelFormat: "%.1f%%"}},
			StripConfig{Name: "mem", Label: "Memory", Source: SourceMem, Style: strip.Style{LabelFormat: "%.1f%%"}},
			StripConfig{Name: "load", Label: "Load", Source: SourceLoad, Style: strip.Style{LabelFormat: "%.2f"}},
		)
	}
	return out
}
