package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/rps-tools/report-atlas/pkg/store/cache"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
)

// Chart names, also used as keys of ReportContext.Charts.
const (
	ChartAssetsStack      = "ativos_stack"
	ChartLiabilitiesStack = "passivos_stack"
	ChartProfitability    = "rentabilidade_line"
	ChartEquityVsAssets   = "equity_vs_ativos"
	ChartSales            = "vendas_line"
	ChartAssetsTotal      = "ativos_total_line"
	ChartTopRevenue       = "top_faturamento"
	ChartTopQuantity      = "top_quantidade"
	ChartSalesMix         = "vendas_pie"
	ChartCosts            = "custos_pie"
	ChartSuppliers        = "fornecedores_pie"
)

// ChartRenderer is implemented by charts.Renderer.
type ChartRenderer interface {
	StackedBars(name string, t domain.Table, colors []string, opts charts.StackOptions) (domain.Image, error)
	StackedArea(name string, t domain.Table, colors []string, opts charts.AreaOptions) (domain.Image, error)
	DualLine(name string, labels []string, a, b domain.Series) (domain.Image, error)
	Line(name string, labels []string, s domain.Series) (domain.Image, error)
	Pie(name string, labels []string, values []float64, donut bool) (domain.Image, error)
	HorizontalBars(name string, ranking []domain.RankEntry, color string) (domain.Image, error)
	Palette() charts.Palette
}

type Options struct {
	// CacheTTL memoises assembled contexts per company and period. Zero disables caching,
	// so every call draws fresh figures.
	CacheTTL time.Duration
	Now      func() time.Time
}

// Assembler gathers a snapshot, renders its charts and packages everything a view needs.
type Assembler struct {
	source   datasource.DataSource
	renderer ChartRenderer
	markdown goldmark.Markdown
	contexts *cache.TTL[string, *domain.ReportContext]
	now      func() time.Time
}

func NewAssembler(source datasource.DataSource, renderer ChartRenderer, opts Options) *Assembler {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	a := &Assembler{
		source:   source,
		renderer: renderer,
		markdown: goldmark.New(),
		now:      opts.Now,
	}
	if opts.CacheTTL > 0 {
		a.contexts = cache.NewTTL[string, *domain.ReportContext](opts.CacheTTL)
	}
	return a
}

func (a *Assembler) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	return a.source.ListCompanies(ctx)
}

// Assemble builds the report context of one company. An empty period means the current month.
func (a *Assembler) Assemble(ctx context.Context, code int, period string) (*domain.ReportContext, error) {
	if period == "" {
		period = format.PeriodLabel(a.now())
	}

	key := strconv.Itoa(code) + "|" + period
	if a.contexts != nil {
		if rc, ok := a.contexts.Get(key); ok {
			zerolog.Ctx(ctx).Debug().Int("company", code).Str("period", period).Msg("report context served from cache")
			return rc, nil
		}
	}

	snapshot, err := a.source.FetchSnapshot(ctx, code, period)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot for company %d: %w", code, err)
	}

	raw := buildSeries(snapshot.Period, a.now().Year())
	images, err := a.renderCharts(raw)
	if err != nil {
		return nil, fmt.Errorf("render charts for company %d: %w", code, err)
	}

	var commentary bytes.Buffer
	if err := a.markdown.Convert([]byte(snapshot.Commentary), &commentary); err != nil {
		return nil, fmt.Errorf("render commentary for company %d: %w", code, err)
	}

	rc := &domain.ReportContext{
		Data:           *snapshot,
		CommentaryHTML: template.HTML(commentary.String()),
		Charts:         images,
		Raw:            raw,
		GeneratedAt:    a.now(),
	}

	if a.contexts != nil {
		a.contexts.Set(key, rc)
	}
	zerolog.Ctx(ctx).Info().
		Int("company", code).
		Str("period", period).
		Int("charts", len(images)).
		Msg("report context assembled")
	return rc, nil
}

// Invalidate drops every memoised context.
func (a *Assembler) Invalidate() {
	if a.contexts != nil {
		a.contexts.Invalidate()
	}
}

func (a *Assembler) renderCharts(raw domain.RawSeries) (map[string]domain.Image, error) {
	p := a.renderer.Palette()
	stackColors := []string{p.Primary, p.Secondary, p.Tertiary}

	steps := []struct {
		name   string
		render func() (domain.Image, error)
	}{
		{ChartAssetsStack, func() (domain.Image, error) {
			return a.renderer.StackedBars(ChartAssetsStack, raw.AssetShares, stackColors, charts.StackOptions{Width: 0.6, LegendColumns: 3})
		}},
		{ChartLiabilitiesStack, func() (domain.Image, error) {
			return a.renderer.StackedArea(ChartLiabilitiesStack, raw.Liabilities, []string{p.Primary, p.Secondary}, charts.AreaOptions{Alpha: 0.85, LegendColumns: 2})
		}},
		{ChartProfitability, func() (domain.Image, error) {
			return a.renderer.DualLine(ChartProfitability, raw.Months, raw.Profitability.Series[0], raw.Profitability.Series[1])
		}},
		{ChartEquityVsAssets, func() (domain.Image, error) {
			return a.renderer.DualLine(ChartEquityVsAssets, raw.Months, raw.EquityAssets.Series[0], raw.EquityAssets.Series[1])
		}},
		{ChartSales, func() (domain.Image, error) {
			return a.renderer.DualLine(ChartSales, raw.Months, raw.Sales.Series[0], raw.Sales.Series[1])
		}},
		{ChartAssetsTotal, func() (domain.Image, error) {
			return a.renderer.Line(ChartAssetsTotal, raw.Months, raw.AssetTotals)
		}},
		{ChartTopRevenue, func() (domain.Image, error) {
			return a.renderer.HorizontalBars(ChartTopRevenue, raw.TopRevenue, p.Primary)
		}},
		{ChartTopQuantity, func() (domain.Image, error) {
			return a.renderer.HorizontalBars(ChartTopQuantity, raw.TopQuantity, p.Secondary)
		}},
		{ChartSalesMix, func() (domain.Image, error) {
			return a.renderer.Pie(ChartSalesMix, domain.RankLabels(raw.SalesMix), domain.RankValues(raw.SalesMix), false)
		}},
		{ChartCosts, func() (domain.Image, error) {
			return a.renderer.Pie(ChartCosts, domain.RankLabels(raw.Costs), domain.RankValues(raw.Costs), true)
		}},
		{ChartSuppliers, func() (domain.Image, error) {
			return a.renderer.Pie(ChartSuppliers, domain.RankLabels(raw.Suppliers), domain.RankValues(raw.Suppliers), true)
		}},
	}

	images := make(map[string]domain.Image, len(steps))
	for _, step := range steps {
		img, err := step.render()
		if err != nil {
			return nil, err
		}
		img.Name = step.name
		images[step.name] = img
	}
	return images, nil
}
