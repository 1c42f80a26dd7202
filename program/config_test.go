package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/keilerkonzept/plotstrip/strip"
)

func TestParseStripsFile(t *testing.T) {
	src := `
strips:
  - name: temp
    label: Temperature
    capacity: 50
    limits: {lower: -10, upper: 40}
    baseline: 21
    style:
      show_dot: true
      line_color: red
      label_format: "%.1f C"
  - name: cpu
    source: cpu
`
	f, err := parseStripsFile("test.yaml", []byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(f.Strips) != 2 {
		t.Fatalf("got %d strips, want 2", len(f.Strips))
	}
	temp := f.Strips[0]
	if temp.Capacity != 50 || temp.Limits == nil || *temp.Limits != (strip.Limits{Lower: -10, Upper: 40}) {
		t.Errorf("temp = %+v", temp)
	}
	if temp.Baseline == nil || *temp.Baseline != 21 {
		t.Errorf("temp baseline = %v", temp.Baseline)
	}
	if !temp.Style.ShowDot || temp.Style.LineColor != "red" || temp.Style.LabelFormat != "%.1f C" {
		t.Errorf("temp style = %+v", temp.Style)
	}
}

func TestStripsFileValidate(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"missing name", "strips:\n  - label: x\n", "name is required"},
		{"duplicate", "strips:\n  - name: a\n  - name: a\n", "more than once"},
		{"unknown source", "strips:\n  - name: a\n    source: gps\n", "unknown source"},
		{"negative capacity", "strips:\n  - name: a\n    capacity: -1\n", "capacity must be"},
		{"inverted limits", "strips:\n  - name: a\n    limits: {lower: 5, upper: 1}\n", "lower limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStripsFile("test.yaml", []byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStripsFileEqualLimitsAllowed(t *testing.T) {
	if _, err := parseStripsFile("t", []byte("strips:\n  - name: a\n    limits: {lower: 3, upper: 3}\n")); err != nil {
		t.Fatalf("equal limits rejected: %v", err)
	}
}

func TestLoaderErrors(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file err = %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("strips: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(path).Load(); err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Fatalf("bad yaml err = %v", err)
	}
}

func TestStripConfigResolve(t *testing.T) {
	sc := StripConfig{Name: "x"}.Resolve(30)
	if sc.Source != SourceFeed || sc.Label != "x" || sc.Capacity != 30 {
		t.Fatalf("resolved = %+v", sc)
	}
	if *sc.Limits != (strip.Limits{Lower: 0, Upper: 100}) {
		t.Fatalf("limits = %+v", *sc.Limits)
	}
	if sc.Style.LabelFormat == "" {
		t.Fatal("no default label format")
	}

	wave := StripConfig{Name: "w", Source: SourceWave}.Resolve(10)
	if *wave.Limits != (strip.Limits{Lower: -1, Upper: 1}) {
		t.Fatalf("wave limits = %+v", *wave.Limits)
	}
}

func TestStripConfigNewStrip(t *testing.T) {
	base := 5.0
	sc := StripConfig{Name: "x", Capacity: 4, Baseline: &base}.Resolve(10)
	s, err := sc.NewStrip()
	if err != nil {
		t.Fatal(err)
	}
	if s.Capacity() != 4 {
		t.Errorf("Capacity() = %d", s.Capacity())
	}
	if y, ok := s.Baseline(); !ok || y != 0.05 {
		t.Errorf("Baseline() = %v, %v", y, ok)
	}
}

func TestBuiltinStrips(t *testing.T) {
	if got := len(builtinStrips(false)); got != 2 {
		t.Errorf("without system: %d strips", got)
	}
	all := builtinStrips(true)
	f := &StripsFile{Strips: all}
	if err := f.Validate(); err != nil {
		t.Fatalf("builtin strips invalid: %v", err)
	}
}

func TestExampleStripsFile(t *testing.T) {
	f, err := NewLoader("strips.example.yaml").Load()
	if err != nil {
		t.Fatalf("example file: %v", err)
	}
	if len(f.Strips) != 5 {
		t.Fatalf("got %d strips", len(f.Strips))
	}
	for _, sc := range f.Strips {
		if _, err := sc.Resolve(config.Capacity).NewStrip(); err != nil {
			t.Errorf("strip %q: %v", sc.Name, err)
		}
	}
}
