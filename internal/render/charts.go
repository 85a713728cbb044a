// Package render turns chart payloads into go-echarts charts.
package render

import (
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Clark-Hu/genre-dashboard/internal/domain"
)

const (
	chartWidth      = "1100px"
	chartHeight     = "520px"
	chartBackground = "#ffffff"
	otherColor      = "#bab0ac"
	topRevenueColor = "#4e79a7"
)

// palette assigns one colour per genre by vocabulary position, so a genre keeps its colour
// across every year and both genre charts.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#17becf",
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#aec7e8",
}

// GenreColor returns the colour of genre. Labels outside the vocabulary get the neutral colour.
func GenreColor(vocab domain.GenreVocabulary, genre string) string {
	i := vocab.Index(genre)
	if i < 0 {
		return otherColor
	}
	return palette[i%len(palette)]
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: chartBackground,
	})
}

// PieChart renders the genre distribution.
func PieChart(data domain.PieData, vocab domain.GenreVocabulary) *charts.Pie {
	items := make([]opts.PieData, 0, len(data.Labels))
	for i, label := range data.Labels {
		items = append(items, opts.PieData{
			Name:      label,
			Value:     data.Values[i],
			ItemStyle: &opts.ItemStyle{Color: GenreColor(vocab, label)},
		})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title:    data.Title,
			Subtitle: data.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:      opts.Bool(true),
			Trigger:   "item",
			Formatter: "{b}: {c} ({d}%)",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:   opts.Bool(true),
			Right:  "10",
			Orient: "vertical",
			Type:   "scroll",
		}),
	)

	pie.AddSeries("Genre", items).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {d}%",
			}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"0%", "70%"},
				Center: []string{"45%", "55%"},
			}),
		)
	return pie
}

// RevenueBar renders total revenue per genre, largest first.
func RevenueBar(data domain.BarData, vocab domain.GenreVocabulary) *charts.Bar {
	items := make([]opts.BarData, 0, len(data.Values))
	for i, v := range data.Values {
		items = append(items, opts.BarData{
			Name:      data.Categories[i],
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: GenreColor(vocab, data.Categories[i])},
		})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title:    data.Title,
			Subtitle: data.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: data.SeriesKey,
			AxisLabel: &opts.AxisLabel{
				Rotate:   30,
				Interval: "0",
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: data.ValueLabel,
		}),
		charts.WithGridOpts(opts.Grid{
			Bottom: "100",
		}),
	)

	bar.SetXAxis(data.Categories).
		AddSeries(data.ValueLabel, items)
	return bar
}

// TopRevenueBar renders the ranked titles as horizontal bars. The payload is already in
// ascending order, which puts the largest bar at the top once the axes are swapped.
func TopRevenueBar(data domain.RankedBarData) *charts.Bar {
	items := make([]opts.BarData, 0, len(data.Values))
	for i, v := range data.Values {
		items = append(items, opts.BarData{Name: data.Labels[i], Value: v})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{
			Title: data.Title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:         data.ValueLabel,
			NameLocation: "center",
			NameGap:      30,
		}),
		charts.WithGridOpts(opts.Grid{
			Left: "260",
		}),
	)

	bar.SetXAxis(data.Labels).
		AddSeries(data.ValueLabel, items,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: topRevenueColor}),
		).
		XYReversal()
	return bar
}

// Page assembles the three charts of a selection into one HTML page.
func Page(set domain.ChartSet, vocab domain.GenreVocabulary) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Movie Genre Dashboard"
	page.AddCharts(
		PieChart(set.Pie, vocab),
		RevenueBar(set.Revenue, vocab),
		TopRevenueBar(set.TopRevenue),
	)
	return page
}
