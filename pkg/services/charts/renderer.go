package charts

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
)

// ErrMalformedSeries is returned when chart input cannot be drawn: empty series, mismatched
// lengths, negative shares or a zero total.
var ErrMalformedSeries = errors.New("malformed series")

const (
	defaultWidth  = 1000
	defaultHeight = 500
	pieSize       = 560
	mimePNG       = "image/png"
)

// Renderer draws the report charts as PNG images. It holds no per-chart state and may be
// shared between goroutines.
type Renderer struct {
	palette Palette
}

func NewRenderer(p Palette) *Renderer {
	return &Renderer{palette: p.withDefaults()}
}

func (r *Renderer) Palette() Palette {
	return r.palette
}

// renderable is satisfied by chart.Chart, chart.StackedBarChart, chart.PieChart and chart.DonutChart.
type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func encode(name string, c renderable) (domain.Image, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return domain.Image{}, fmt.Errorf("render chart %s: %w", name, err)
	}
	return domain.Image{
		Name:   name,
		MIME:   mimePNG,
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

func malformed(name, msg string, args ...any) error {
	return fmt.Errorf("chart %s: %w: %s", name, ErrMalformedSeries, fmt.Sprintf(msg, args...))
}

func checkValues(name string, values []float64) error {
	for _, v := range values {
		if err := format.CheckFinite(v); err != nil {
			return fmt.Errorf("chart %s: %w", name, err)
		}
	}
	return nil
}

func checkLabels(name string, labels []string, values []float64) error {
	if len(labels) == 0 {
		return malformed(name, "no labels")
	}
	if len(values) != len(labels) {
		return malformed(name, "%d values for %d labels", len(values), len(labels))
	}
	return checkValues(name, values)
}

func checkShares(name string, values []float64) error {
	var total float64
	for _, v := range values {
		if v < 0 {
			return malformed(name, "negative value %v", v)
		}
		total += v
	}
	if total == 0 {
		return malformed(name, "zero total")
	}
	return nil
}

func checkTable(name string, t domain.Table) error {
	if len(t.Series) == 0 {
		return malformed(name, "no series")
	}
	for _, s := range t.Series {
		if err := checkLabels(name, t.Labels, s.Values); err != nil {
			return err
		}
	}
	return nil
}

// valueRange returns an axis range that always includes zero, with head room above the max.
func valueRange(values ...[]float64) *chart.ContinuousRange {
	lo, hi := 0.0, math.Inf(-1)
	for _, vs := range values {
		for _, v := range vs {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi <= 0 {
		hi = 0
	} else {
		hi *= 1.1
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// indexAxis places one tick per label at x = 0..n-1.
func indexAxis(labels []string) chart.XAxis {
	ticks := make([]chart.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: l}
	}
	return chart.XAxis{
		Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(labels)) - 0.5},
		Ticks: ticks,
	}
}

func indexes(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

// points pairs values with their x positions. A single value becomes a flat segment
// across its slot, since a continuous series needs two distinct x values.
func points(values []float64) ([]float64, []float64) {
	if len(values) == 1 {
		return []float64{-0.25, 0.25}, []float64{values[0], values[0]}
	}
	return indexes(len(values)), values
}

func numberFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		if s, err := format.Ratio(f); err == nil {
			return s
		}
	}
	return ""
}
