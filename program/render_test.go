package main

import (
	"reflect"
	"strings"
	"testing"

	plot "github.com/chriskim06/drawille-go"
	"github.com/keilerkonzept/plotstrip/strip"
)

func TestPlotSeries(t *testing.T) {
	tests := []struct {
		name   string
		points []strip.Point
		want   []float64
	}{
		{"empty", nil, []float64{}},
		{"single point doubled", []strip.Point{{Y: 0.4}}, []float64{0.4, 0.4}},
		{"separator holds previous", []strip.Point{{Y: 0.2}, {Index: 1, Separator: true}, {Index: 2, Y: 0.8}}, []float64{0.2, 0.2, 0.8}},
		{"leading separator takes first value", []strip.Point{{Separator: true}, {Index: 1, Y: 0.6}}, []float64{0.6, 0.6}},
		{"only separators", []strip.Point{{Separator: true}, {Index: 1, Separator: true}}, []float64{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plotSeries(tt.points); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("plotSeries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSeparatorColumns(t *testing.T) {
	pts := []strip.Point{
		{Index: 0, Separator: true},
		{Index: 1, Y: 0.1},
		{Index: 2, Separator: true},
		{Index: 3, Y: 0.1},
		{Index: 4, Separator: true},
	}
	if got, want := separatorColumns(pts, 9), []int{0, 4, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("separatorColumns() = %v, want %v", got, want)
	}
	if got := separatorColumns(pts[1:2], 9); got != nil {
		t.Fatalf("no separators -> %v", got)
	}
	if got := separatorColumns(pts[:1], 9); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("lone separator -> %v", got)
	}
}

func TestSeparatorRow(t *testing.T) {
	if got := separatorRow([]int{0, 4}, 6, 1); got != "┆   ┆ " {
		t.Fatalf("row = %q", got)
	}
	if got := separatorRow([]int{4}, 6, 3); got != "    ┆┆" {
		t.Fatalf("wide marker row = %q", got)
	}
	if got := separatorRow(nil, 6, 1); got != "" {
		t.Fatalf("empty row = %q", got)
	}
}

func TestFormatLabel(t *testing.T) {
	if got := formatLabel("", 1.234); got != "1.23" {
		t.Errorf("default format -> %q", got)
	}
	if got := formatLabel("%.0f%%", 42.4); got != "42%" {
		t.Errorf("percent format -> %q", got)
	}
}

func TestPlotColor(t *testing.T) {
	if got := plotColor("Red", plot.Black); got != plot.Red {
		t.Errorf("Red -> %v", got)
	}
	if got := plotColor("#123456", plot.LightGray); got != plot.LightGray {
		t.Errorf("unknown color did not fall back: %v", got)
	}
}

func TestStripViewEmpty(t *testing.T) {
	s, err := strip.New(10, strip.WithLimits(3, 3), strip.WithStyle(strip.Style{LabelFormat: "%.1f"}))
	if err != nil {
		t.Fatal(err)
	}
	v := stripView{label: "Pressure", frame: s.Frame(), width: 30, height: 2}
	out := v.render()
	for _, want := range []string{"Pressure", "0.0", "0/10", "flat"} {
		if !strings.Contains(out, want) {
			t.Errorf("render() missing %q:\n%s", want, out)
		}
	}
}
