package charts

import (
	"fmt"

	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Pie draws the share of each label, cycling through the palette. Slice labels carry the
// percentage of the total. donut switches to a ring.
func (r *Renderer) Pie(name string, labels []string, values []float64, donut bool) (domain.Image, error) {
	if err := checkLabels(name, labels, values); err != nil {
		return domain.Image{}, err
	}
	if err := checkShares(name, values); err != nil {
		return domain.Image{}, err
	}

	var total float64
	for _, v := range values {
		total += v
	}

	cycle := r.palette.Cycle()
	slices := make([]chart.Value, len(values))
	for i, v := range values {
		pct, err := format.Percent(v/total*100, 1)
		if err != nil {
			return domain.Image{}, fmt.Errorf("chart %s: %w", name, err)
		}
		fill := color(pick(cycle, i))
		slices[i] = chart.Value{
			Value: v,
			Label: fmt.Sprintf("%s (%s)", labels[i], pct),
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: color(r.palette.Background),
				StrokeWidth: 2,
				FontColor:   labelColor(fill),
			},
		}
	}

	bg := chart.Style{FillColor: color(r.palette.Background)}
	if donut {
		return encode(name, chart.DonutChart{
			Width:      pieSize,
			Height:     pieSize,
			Background: bg,
			Canvas:     bg,
			Values:     slices,
		})
	}
	return encode(name, chart.PieChart{
		Width:      pieSize,
		Height:     pieSize,
		Background: bg,
		Canvas:     bg,
		Values:     slices,
	})
}

// labelColor keeps slice labels readable on dark fills.
func labelColor(fill drawing.Color) drawing.Color {
	luma := 0.299*float64(fill.R) + 0.587*float64(fill.G) + 0.114*float64(fill.B)
	if luma < 110 {
		return drawing.ColorWhite
	}
	return drawing.ColorFromHex("262123")
}
