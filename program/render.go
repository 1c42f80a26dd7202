package main

import (
	"fmt"
	"strings"

	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
	"github.com/keilerkonzept/plotstrip/strip"
)

var plotColors = map[string]plot.Color{
	"red":       plot.Red,
	"black":     plot.Black,
	"gray":      plot.DimGray,
	"dimgray":   plot.DimGray,
	"lightgray": plot.LightGray,
}

// plotColor maps a style color name onto the braille canvas palette.
func plotColor(name string, fallback plot.Color) plot.Color {
	if c, ok := plotColors[strings.ToLower(name)]; ok {
		return c
	}
	return fallback
}

func termColor(name string, fallback styles.TerminalColor) styles.TerminalColor {
	if name == "" {
		return fallback
	}
	return styles.Color(name)
}

// plotSeries turns drawable points into a line. A separator holds the
// previous height so the line does not drop to zero at the marker.
func plotSeries(points []strip.Point) []float64 {
	out := make([]float64, len(points))
	hold := 0.0
	for _, p := range points {
		if !p.Separator {
			hold = p.Y
			break
		}
	}
	for i, p := range points {
		if !p.Separator {
			hold = p.Y
		}
		out[i] = hold
	}
	// the canvas needs two points to draw a segment
	if len(out) == 1 {
		out = append(out, out[0])
	}
	return out
}

// separatorColumns places separator markers on a row of width cells.
func separatorColumns(points []strip.Point, width int) []int {
	if len(points) == 0 || width <= 0 {
		return nil
	}
	var cols []int
	for _, p := range points {
		if !p.Separator {
			continue
		}
		col := 0
		if len(points) > 1 {
			col = p.Index * (width - 1) / (len(points) - 1)
		}
		cols = append(cols, col)
	}
	return cols
}

func separatorRow(cols []int, width int, markWidth int) string {
	if len(cols) == 0 || width <= 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", width))
	markWidth = max(1, markWidth)
	for _, c := range cols {
		for k := 0; k < markWidth && c+k < width; k++ {
			row[c+k] = '┆'
		}
	}
	return string(row)
}

func formatLabel(format string, v float64) string {
	if format == "" {
		format = "%.2f"
	}
	return fmt.Sprintf(format, v)
}

type stripView struct {
	label       string
	frame       strip.Frame
	width       int
	height      int
	highlighted bool
	highlight   plot.Color
	dim         plot.Color
}

// render draws the label line, the braille plot and the separator row.
func (v stripView) render() string {
	st := v.frame.Style
	w := max(1, v.width-2)
	h := max(1, v.height)

	border := borderColor
	if v.highlighted {
		border = selectedColor
	}
	frameStyle := styles.NewStyle().
		BorderStyle(styles.NormalBorder()).
		BorderForeground(border).
		Foreground(borderColor)

	header := selectedFg.Render(v.label) + " " + formatLabel(st.LabelFormat, v.frame.Value)
	if st.ShowDot && v.frame.Count > 0 {
		header += " " + styles.NewStyle().Foreground(termColor(st.LineColor, selectedColor)).Render("●")
	}
	header += borderFg.Render(fmt.Sprintf("  %d/%d", v.frame.Count, v.frame.Capacity))
	if v.frame.Degenerate {
		header += borderFg.Render("  [flat: limits do not span a range]")
	}

	body := ""
	if v.frame.Count > 0 {
		series := plotSeries(v.frame.Points)
		data := [][]float64{series}
		colors := []plot.Color{plotColor(st.LineColor, v.highlight)}
		if v.frame.Baseline != nil {
			base := make([]float64, len(series))
			for i := range base {
				base[i] = *v.frame.Baseline
			}
			data = append([][]float64{base}, data...)
			colors = append([]plot.Color{plotColor(st.BaselineColor, v.dim)}, colors...)
		}
		c := plot.NewCanvas(w, h)
		c.NumDataPoints = len(series)
		c.ShowAxis = false
		c.LineColors = colors
		c.Fill(data)
		body = c.String()
	}
	if body == "" {
		body = strings.TrimSuffix(strings.Repeat(strings.Repeat(" ", w)+"\n", h), "\n")
	}

	lines := []string{header, body}
	if row := separatorRow(separatorColumns(v.frame.Points, w), w, int(st.SeparatorWidth)); row != "" {
		lines = append(lines, styles.NewStyle().Foreground(termColor(st.SeparatorColor, borderColor)).Render(row))
	}
	return frameStyle.Render(styles.JoinVertical(styles.Left, lines...))
}
