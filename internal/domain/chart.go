package domain

// PieData feeds the genre distribution chart. Labels and Values are parallel.
type PieData struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
}

// BarData feeds the revenue by genre chart, ordered by value descending.
type BarData struct {
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle,omitempty"`
	Categories []string  `json:"categories"`
	Values     []float64 `json:"values"`
	SeriesKey  string    `json:"seriesKey"`
	ValueLabel string    `json:"valueLabel"`
}

// RankedBarData feeds the top titles chart in ascending display order,
// so the largest value is the last element.
type RankedBarData struct {
	Title      string    `json:"title"`
	Labels     []string  `json:"labels"`
	Values     []float64 `json:"values"`
	ValueLabel string    `json:"valueLabel"`
}

// ChartSet is the per-selection output handed to the rendering layer.
type ChartSet struct {
	Scope      string        `json:"scope"`
	Pie        PieData       `json:"pie"`
	Revenue    BarData       `json:"revenue"`
	TopRevenue RankedBarData `json:"topRevenue"`
}
