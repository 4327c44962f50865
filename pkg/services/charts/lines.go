package charts

import (
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
)

// DualLine compares two series over the same labels: a solid, b dashed.
func (r *Renderer) DualLine(name string, labels []string, a, b domain.Series) (domain.Image, error) {
	if err := checkLabels(name, labels, a.Values); err != nil {
		return domain.Image{}, err
	}
	if err := checkLabels(name, labels, b.Values); err != nil {
		return domain.Image{}, err
	}

	primary := color(r.palette.Primary)
	tertiary := color(r.palette.Tertiary)
	ax, ay := points(a.Values)
	bx, by := points(b.Values)

	graph := r.lineChart(labels, valueRange(a.Values, b.Values),
		chart.ContinuousSeries{
			Name:    a.Name,
			XValues: ax,
			YValues: ay,
			Style:   chart.Style{StrokeColor: primary, StrokeWidth: 2.5, DotColor: primary, DotWidth: 4},
		},
		chart.ContinuousSeries{
			Name:    b.Name,
			XValues: bx,
			YValues: by,
			Style: chart.Style{
				StrokeColor:     tertiary,
				StrokeWidth:     2,
				StrokeDashArray: []float64{6, 4},
				DotColor:        tertiary,
				DotWidth:        3,
			},
		},
	)
	legend := []legendItem{
		{label: a.Name, color: primary},
		{label: b.Name, color: tertiary, dashed: true},
	}
	graph.Background.Padding.Bottom = legendPadding(len(legend), 0)
	graph.Elements = []chart.Renderable{legendBelow(legend, 0)}

	return encode(name, graph)
}

// Line draws a single series.
func (r *Renderer) Line(name string, labels []string, s domain.Series) (domain.Image, error) {
	if err := checkLabels(name, labels, s.Values); err != nil {
		return domain.Image{}, err
	}

	c := color(r.palette.Primary)
	xs, ys := points(s.Values)
	graph := r.lineChart(labels, valueRange(s.Values), chart.ContinuousSeries{
		Name:    s.Name,
		XValues: xs,
		YValues: ys,
		Style:   chart.Style{StrokeColor: c, StrokeWidth: 2.5, DotColor: c, DotWidth: 4},
	})
	return encode(name, graph)
}

func (r *Renderer) lineChart(labels []string, yRange *chart.ContinuousRange, series ...chart.Series) chart.Chart {
	bg := color(r.palette.Background)
	return chart.Chart{
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: chart.Style{
			FillColor: bg,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: bg},
		XAxis:  indexAxis(labels),
		YAxis: chart.YAxis{
			Range:          yRange,
			ValueFormatter: numberFormatter,
		},
		Series: series,
	}
}
