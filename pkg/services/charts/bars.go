package charts

import (
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
)

type StackOptions struct {
	// Width is the bar width as a fraction of the slot each period gets. Defaults to 0.6.
	Width         float64
	LegendColumns int
}

// StackedBars draws one bar per label with the series stacked on it. Each bar is scaled to
// the full plot height, so the table is expected to hold shares of a whole.
func (r *Renderer) StackedBars(name string, t domain.Table, colors []string, opts StackOptions) (domain.Image, error) {
	if err := checkTable(name, t); err != nil {
		return domain.Image{}, err
	}
	for i := range t.Labels {
		column := make([]float64, len(t.Series))
		for j, s := range t.Series {
			column[j] = s.Values[i]
		}
		if err := checkShares(name, column); err != nil {
			return domain.Image{}, err
		}
	}
	if len(colors) == 0 {
		colors = r.palette.Cycle()
	}
	if opts.Width <= 0 || opts.Width > 1 {
		opts.Width = 0.6
	}

	bottom := legendPadding(len(t.Series), opts.LegendColumns)
	plotWidth := defaultWidth - 80
	slot := plotWidth / len(t.Labels)
	barWidth := int(float64(slot) * opts.Width)
	if barWidth < 1 {
		barWidth = 1
	}
	spacing := slot - barWidth
	if spacing < 1 {
		spacing = 1
	}

	legend := make([]legendItem, len(t.Series))
	for j, s := range t.Series {
		legend[j] = legendItem{label: s.Name, color: color(pick(colors, j))}
	}

	bars := make([]chart.StackedBar, len(t.Labels))
	for i, label := range t.Labels {
		values := make([]chart.Value, len(t.Series))
		for j, s := range t.Series {
			c := color(pick(colors, j))
			values[j] = chart.Value{
				Value: s.Values[i],
				Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
			}
		}
		bars[i] = chart.StackedBar{Name: label, Width: barWidth, Values: values}
	}

	graph := chart.StackedBarChart{
		Width:      defaultWidth,
		Height:     defaultHeight,
		BarSpacing: spacing,
		Background: chart.Style{
			FillColor: color(r.palette.Background),
			Padding:   chart.Box{Top: 20, Left: 40 + spacing/2, Right: 20, Bottom: bottom},
		},
		Canvas:   chart.Style{FillColor: color(r.palette.Background)},
		Bars:     bars,
		Elements: []chart.Renderable{legendBelow(legend, opts.LegendColumns)},
	}
	return encode(name, graph)
}
