package charts

import (
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	legendSwatch   = 12
	legendRowSpace = 20
	legendFontSize = 9
)

type legendItem struct {
	label  string
	color  drawing.Color
	dashed bool
}

// legendPadding is the bottom margin reserved for a legend of n items laid out in columns.
func legendPadding(n, columns int) int {
	if columns <= 0 {
		columns = n
	}
	rows := (n + columns - 1) / columns
	return 40 + rows*legendRowSpace
}

// legendBelow draws the items in a grid under the plot area.
func legendBelow(items []legendItem, columns int) chart.Renderable {
	if columns <= 0 || columns > len(items) {
		columns = len(items)
	}
	return func(r chart.Renderer, canvas chart.Box, defaults chart.Style) {
		if len(items) == 0 {
			return
		}

		font := defaults.Font
		if font == nil {
			font, _ = chart.GetDefaultFont()
		}
		r.SetFont(font)
		r.SetFontSize(legendFontSize)
		r.SetFontColor(drawing.ColorFromHex("262123"))

		colWidth := canvas.Width() / columns
		top := canvas.Bottom + 30

		for i, item := range items {
			x := canvas.Left + (i%columns)*colWidth
			y := top + (i/columns)*legendRowSpace

			r.SetStrokeWidth(2)
			r.SetStrokeColor(item.color)
			r.SetFillColor(item.color)
			if item.dashed {
				r.SetStrokeDashArray([]float64{4, 3})
				r.MoveTo(x, y+legendSwatch/2)
				r.LineTo(x+legendSwatch*2, y+legendSwatch/2)
				r.Stroke()
				r.SetStrokeDashArray(nil)
			} else {
				r.MoveTo(x, y)
				r.LineTo(x+legendSwatch*2, y)
				r.LineTo(x+legendSwatch*2, y+legendSwatch)
				r.LineTo(x, y+legendSwatch)
				r.Close()
				r.FillStroke()
			}

			r.Text(item.label, x+legendSwatch*2+6, y+legendSwatch-1)
		}
	}
}
