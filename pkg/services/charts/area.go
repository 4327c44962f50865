package charts

import (
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
)

type AreaOptions struct {
	// Alpha is the fill opacity over the background. Defaults to 0.85.
	Alpha         float64
	LegendColumns int
}

// StackedArea draws cumulative filled areas, the first series at the bottom.
func (r *Renderer) StackedArea(name string, t domain.Table, colors []string, opts AreaOptions) (domain.Image, error) {
	if err := checkTable(name, t); err != nil {
		return domain.Image{}, err
	}
	for _, s := range t.Series {
		for _, v := range s.Values {
			if v < 0 {
				return domain.Image{}, malformed(name, "negative value %v in %s", v, s.Name)
			}
		}
	}
	if len(colors) == 0 {
		colors = r.palette.Cycle()
	}
	if opts.Alpha <= 0 || opts.Alpha > 1 {
		opts.Alpha = 0.85
	}

	bg := color(r.palette.Background)

	cumulative := make([][]float64, len(t.Series))
	running := make([]float64, len(t.Labels))
	for j, s := range t.Series {
		for i, v := range s.Values {
			running[i] += v
		}
		cumulative[j] = append([]float64(nil), running...)
	}

	// go-chart fills each series down to the axis, so the tallest layer is drawn first.
	series := make([]chart.Series, 0, len(t.Series))
	legend := make([]legendItem, len(t.Series))
	for j := len(t.Series) - 1; j >= 0; j-- {
		c := color(pick(colors, j))
		xs, ys := points(cumulative[j])
		series = append(series, chart.ContinuousSeries{
			Name:    t.Series[j].Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 1.5,
				FillColor:   blend(c, bg, opts.Alpha),
			},
		})
		legend[j] = legendItem{label: t.Series[j].Name, color: c}
	}

	graph := chart.Chart{
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: chart.Style{
			FillColor: bg,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: legendPadding(len(t.Series), opts.LegendColumns)},
		},
		Canvas: chart.Style{FillColor: bg},
		XAxis:  indexAxis(t.Labels),
		YAxis: chart.YAxis{
			Range:          valueRange(running),
			ValueFormatter: numberFormatter,
		},
		Series:   series,
		Elements: []chart.Renderable{legendBelow(legend, opts.LegendColumns)},
	}
	return encode(name, graph)
}
