package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/report"
	"github.com/rs/zerolog"
)

var (
	primaryText = &props.Color{Red: 0x82, Green: 0x98, Blue: 0x71}
	mutedText   = &props.Color{Red: 0x6b, Green: 0x6b, Blue: 0x6b}
)

// MarotoRenderer lays the report out natively, without a browser engine.
type MarotoRenderer struct{}

func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{}
}

func (m *MarotoRenderer) Render(ctx context.Context, rc *domain.ReportContext) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Vertical).
		WithLeftMargin(10).
		WithTopMargin(15).
		WithRightMargin(10).
		WithBottomMargin(10).
		Build()

	doc := maroto.New(cfg)
	s := rc.Data

	addFooter(doc, s, rc)
	addCover(doc, s)
	addKPIs(doc, s)

	for _, block := range []struct {
		title  string
		charts []string
	}{
		{"Ativos", []string{report.ChartAssetsStack, report.ChartAssetsTotal}},
		{"Passivos", []string{report.ChartLiabilitiesStack}},
		{"Rentabilidade", []string{report.ChartProfitability, report.ChartEquityVsAssets}},
		{"Vendas", []string{report.ChartSales, report.ChartTopRevenue, report.ChartTopQuantity}},
	} {
		if err := addCharts(doc, rc, block.title, block.charts...); err != nil {
			return nil, err
		}
	}
	if err := addPies(doc, rc, "Custos e fornecedores", report.ChartCosts, report.ChartSuppliers); err != nil {
		return nil, err
	}
	if err := addPies(doc, rc, "Mix de vendas", report.ChartSalesMix); err != nil {
		return nil, err
	}

	addROE(doc, s)
	addTable(doc, "Planejamento tributário", []string{"Regime", "Alíquota", "Estimativa"}, taxRows(s))
	addTable(doc, "Distribuição do lucro", []string{"Destino", "Participação", "Valor"}, distributionRows(s))
	addCommentary(doc, s.Commentary)

	pdf, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int("company", s.Company.Code).Int("bytes", len(pdf.GetBytes())).Msg("pdf generated")
	return pdf.GetBytes(), nil
}

func addFooter(doc core.Maroto, s domain.Snapshot, rc *domain.ReportContext) {
	doc.RegisterFooter(
		row.New(4).Add(col.New(12).Add(line.New())),
		row.New(6).Add(
			text.NewCol(8, s.DisplayName+" · "+s.Period, props.Text{Size: 7, Color: mutedText}),
			text.NewCol(4, "Gerado em "+rc.GeneratedAt.Format("02/01/2006 15:04"), props.Text{Size: 7, Align: align.Right, Color: mutedText}),
		),
	)
}

func addCover(doc core.Maroto, s domain.Snapshot) {
	doc.AddRow(14, text.NewCol(12, "Relatório Gerencial", props.Text{
		Size:  20,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: primaryText,
	}))
	doc.AddRow(10, text.NewCol(12, s.DisplayName, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Center}))
	doc.AddRow(8, text.NewCol(12, s.Period, props.Text{Size: 11, Align: align.Center, Color: mutedText}))
	if len(s.Branches) > 0 {
		names := make([]string, len(s.Branches))
		for i, b := range s.Branches {
			names[i] = b.Name
		}
		doc.AddRow(6, text.NewCol(12, strings.Join(names, " · "), props.Text{Size: 8, Align: align.Center, Color: mutedText}))
	}
	doc.AddRow(5, line.NewCol(12))
}

func heading(doc core.Maroto, title string) {
	doc.AddRow(4)
	doc.AddRow(9, text.NewCol(12, title, props.Text{Size: 13, Style: fontstyle.Bold, Color: primaryText}))
}

func addPairs(doc core.Maroto, pairs [][2]string) {
	const perRow = 4
	for i := 0; i < len(pairs); i += perRow {
		labels := make([]core.Col, 0, perRow)
		values := make([]core.Col, 0, perRow)
		for _, p := range pairs[i:min(i+perRow, len(pairs))] {
			labels = append(labels, text.NewCol(3, p[0], props.Text{Size: 7, Color: mutedText}))
			values = append(values, text.NewCol(3, p[1], props.Text{Size: 10, Style: fontstyle.Bold}))
		}
		doc.AddRow(5, labels...)
		doc.AddRow(8, values...)
	}
}

func addKPIs(doc core.Maroto, s domain.Snapshot) {
	heading(doc, "Resumo do período")
	addPairs(doc, [][2]string{
		{"Vendas líquidas", s.KPIs.Sales},
		{"Impostos", s.KPIs.Taxes},
		{"Compras", s.KPIs.Purchases},
		{"Investimentos", s.KPIs.Capex},
		{"Despesas operacionais", s.KPIs.Opex},
		{"Despesas financeiras", s.KPIs.FinancialExpenses},
		{"Outras", s.KPIs.Other},
		{"Lucro líquido", s.KPIs.NetProfit},
	})
	heading(doc, "Indicadores")
	addPairs(doc, [][2]string{
		{"EBITDA", s.Indicators.EBITDA},
		{"Liquidez corrente", s.Indicators.CurrentLiquidity},
		{"Margem líquida", s.Indicators.NetMargin},
		{"Endividamento", s.Indicators.Leverage},
		{"ROA", s.Indicators.ROA},
		{"NCG", s.Indicators.WorkingCapitalNeed},
	})
}

func chartBytes(rc *domain.ReportContext, name string) ([]byte, error) {
	img, ok := rc.Chart(name)
	if !ok {
		return nil, fmt.Errorf("chart %s missing from report context", name)
	}
	raw, err := img.Bytes()
	if err != nil {
		return nil, fmt.Errorf("decode chart %s: %w", name, err)
	}
	return raw, nil
}

func addCharts(doc core.Maroto, rc *domain.ReportContext, title string, names ...string) error {
	heading(doc, title)
	for _, name := range names {
		raw, err := chartBytes(rc, name)
		if err != nil {
			return err
		}
		doc.AddRow(90, col.New(12).Add(image.NewFromBytes(raw, extension.Png, props.Rect{Center: true, Percent: 95})))
	}
	return nil
}

func addPies(doc core.Maroto, rc *domain.ReportContext, title string, names ...string) error {
	heading(doc, title)
	size := 12 / len(names)
	cols := make([]core.Col, 0, len(names))
	for _, name := range names {
		raw, err := chartBytes(rc, name)
		if err != nil {
			return err
		}
		cols = append(cols, col.New(size).Add(image.NewFromBytes(raw, extension.Png, props.Rect{Center: true, Percent: 90})))
	}
	doc.AddRow(85, cols...)
	return nil
}

func addTable(doc core.Maroto, title string, header []string, rows [][]string) {
	heading(doc, title)
	size := 12 / len(header)
	cells := make([]core.Col, len(header))
	for i, h := range header {
		cells[i] = text.NewCol(size, h, props.Text{Size: 8, Style: fontstyle.Bold, Color: primaryText})
	}
	doc.AddRow(7, cells...)
	for _, r := range rows {
		values := make([]core.Col, len(r))
		for i, v := range r {
			values[i] = text.NewCol(size, v, props.Text{Size: 9})
		}
		doc.AddRow(6, values...)
	}
}

func addROE(doc core.Maroto, s domain.Snapshot) {
	rows := make([][]string, 0, len(s.ROE))
	for _, r := range s.ROE {
		cells := []string{r.Period}
		for _, v := range []float64{r.ROE, r.Benchmark, r.Delta} {
			p, err := format.Percent(v, 1)
			if err != nil {
				p = "-"
			}
			cells = append(cells, p)
		}
		rows = append(rows, cells)
	}
	addTable(doc, "ROE x CDI", []string{"Janela", "ROE", "CDI", "Diferença"}, rows)
}

func taxRows(s domain.Snapshot) [][]string {
	rows := make([][]string, len(s.TaxEstimates))
	for i, t := range s.TaxEstimates {
		rows[i] = []string{t.Regime, t.Rate, t.Amount}
	}
	return rows
}

func distributionRows(s domain.Snapshot) [][]string {
	rows := make([][]string, len(s.Distribution))
	for i, d := range s.Distribution {
		rows[i] = []string{d.Destination, d.Share, d.Amount}
	}
	return rows
}

// addCommentary prints the markdown commentary as plain paragraphs.
func addCommentary(doc core.Maroto, markdown string) {
	heading(doc, "Conclusão")
	for _, l := range strings.Split(markdown, "\n") {
		l = strings.TrimSpace(strings.ReplaceAll(l, "**", ""))
		switch {
		case l == "":
			continue
		case strings.HasPrefix(l, "#"):
			doc.AddRow(7, text.NewCol(12, strings.TrimSpace(strings.TrimLeft(l, "#")), props.Text{Size: 10, Style: fontstyle.Bold}))
		case strings.HasPrefix(l, "- "):
			doc.AddRow(5, text.NewCol(12, "• "+strings.TrimPrefix(l, "- "), props.Text{Size: 9, Left: 4}))
		default:
			doc.AddRow(12, text.NewCol(12, l, props.Text{Size: 9}))
		}
	}
}
