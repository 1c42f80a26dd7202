package strip

// Style carries presentation attributes for a renderer. The strip stores
// them and never looks inside.
type Style struct {
	ShowDot        bool    `json:"show_dot" yaml:"show_dot"`
	LineColor      string  `json:"line_color" yaml:"line_color"`
	LineWidth      float64 `json:"line_width" yaml:"line_width"`
	BaselineColor  string  `json:"baseline_color" yaml:"baseline_color"`
	BaselineWidth  float64 `json:"baseline_width" yaml:"baseline_width"`
	SeparatorColor string  `json:"separator_color" yaml:"separator_color"`
	SeparatorWidth float64 `json:"separator_width" yaml:"separator_width"`
	LabelFormat    string  `json:"label_format" yaml:"label_format"`
}
