package charts

import (
	"io"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	hbarPadding    = 20
	hbarGap        = 8
	hbarFontSize   = 10
	hbarValueWidth = 90
)

// HorizontalBars ranks the entries top to bottom in the given order. Each bar is drawn
// against the largest value; any tail aggregation is up to the caller.
func (r *Renderer) HorizontalBars(name string, ranking []domain.RankEntry, barColor string) (domain.Image, error) {
	values := domain.RankValues(ranking)
	if err := checkLabels(name, domain.RankLabels(ranking), values); err != nil {
		return domain.Image{}, err
	}
	if err := checkShares(name, values); err != nil {
		return domain.Image{}, err
	}
	if barColor == "" {
		barColor = r.palette.Primary
	}

	var top float64
	for _, v := range values {
		if v > top {
			top = v
		}
	}

	bg := color(r.palette.Background)
	fill := color(barColor)
	return encode(name, hbarChart{
		width:      defaultWidth,
		height:     defaultHeight,
		entries:    ranking,
		top:        top,
		fill:       fill,
		track:      blend(fill, bg, 0.12),
		background: bg,
	})
}

// hbarChart lays out a ranking with the category labels in a left gutter sized to the
// longest label, so long names never squeeze the plot area below zero width.
type hbarChart struct {
	width      int
	height     int
	entries    []domain.RankEntry
	top        float64
	fill       drawing.Color
	track      drawing.Color
	background drawing.Color
}

func (c hbarChart) Render(rp chart.RendererProvider, w io.Writer) error {
	r, err := rp(c.width, c.height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	fillRect(r, c.background, 0, 0, c.width, c.height)

	r.SetFont(font)
	r.SetFontSize(hbarFontSize)
	r.SetFontColor(drawing.ColorFromHex("262123"))

	gutter := 0
	for _, e := range c.entries {
		if tw := r.MeasureText(e.Label).Width(); tw > gutter {
			gutter = tw
		}
	}
	if gutter > c.width/3 {
		gutter = c.width / 3
	}

	left := hbarPadding + gutter + hbarGap
	right := max(c.width-hbarPadding-hbarValueWidth, left+1)
	slot := max((c.height-2*hbarPadding)/len(c.entries), 1)
	thickness := max(slot*6/10, 1)

	for i, e := range c.entries {
		y := hbarPadding + i*slot + (slot-thickness)/2
		fillRect(r, c.track, left, y, right, y+thickness)
		if length := int(float64(right-left) * e.Value / c.top); length > 0 {
			fillRect(r, c.fill, left, y, left+length, y+thickness)
		}

		label := r.MeasureText(e.Label)
		baseline := y + thickness/2 + label.Height()/2
		r.Text(e.Label, left-hbarGap-label.Width(), baseline)
		r.Text(numberFormatter(e.Value), right+hbarGap, baseline)
	}

	return r.Save(w)
}

func fillRect(r chart.Renderer, c drawing.Color, left, top, right, bottom int) {
	r.SetStrokeWidth(0)
	r.SetStrokeColor(c)
	r.SetFillColor(c)
	r.MoveTo(left, top)
	r.LineTo(right, top)
	r.LineTo(right, bottom)
	r.LineTo(left, bottom)
	r.Close()
	r.Fill()
}
