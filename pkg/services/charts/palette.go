package charts

import (
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the brand colors as hex strings, with or without the leading '#'.
type Palette struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Tertiary   string `mapstructure:"tertiary"`
	Background string `mapstructure:"background"`
	Light      string `mapstructure:"light"`
	Pale       string `mapstructure:"pale"`
}

func DefaultPalette() Palette {
	return Palette{
		Primary:    "#829871",
		Secondary:  "#a7baa6",
		Tertiary:   "#262123",
		Background: "#fdfdfd",
		Light:      "#d1d9d0",
		Pale:       "#d8e2d8",
	}
}

// withDefaults fills empty entries from DefaultPalette.
func (p Palette) withDefaults() Palette {
	d := DefaultPalette()
	for _, f := range []struct{ dst *string; def string }{
		{&p.Primary, d.Primary},
		{&p.Secondary, d.Secondary},
		{&p.Tertiary, d.Tertiary},
		{&p.Background, d.Background},
		{&p.Light, d.Light},
		{&p.Pale, d.Pale},
	} {
		if strings.TrimSpace(*f.dst) == "" {
			*f.dst = f.def
		}
	}
	return p
}

// Cycle is the order in which slices and stacked categories take colors.
func (p Palette) Cycle() []string {
	return []string{p.Primary, p.Secondary, p.Tertiary, p.Light, p.Pale}
}

func color(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
}

// blend mixes c over the background at the given opacity and returns an opaque color,
// so overlapping areas keep their flat look.
func blend(c, background drawing.Color, alpha float64) drawing.Color {
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	mix := func(fg, bg uint8) uint8 {
		return uint8(float64(fg)*alpha + float64(bg)*(1-alpha) + 0.5)
	}
	return drawing.Color{
		R: mix(c.R, background.R),
		G: mix(c.G, background.G),
		B: mix(c.B, background.B),
		A: 255,
	}
}

func pick(colors []string, i int) string {
	return colors[i%len(colors)]
}
