package report

import (
	"strconv"

	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
)

const (
	topEntries = 5
	restLabel  = "Outros"
)

var months = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun"}

type product struct {
	name     string
	revenue  float64
	quantity float64
}

var plannedProducts = []product{
	{"Produto A", 42000, 320},
	{"Produto B", 38500, 410},
	{"Produto C", 27300, 150},
	{"Produto D", 21900, 280},
	{"Produto E", 18400, 95},
	{"Produto F", 9700, 130},
	{"Produto G", 6200, 60},
	{"Produto H", 3100, 45},
}

// buildSeries returns the illustrative monthly series shown next to a snapshot.
// Year labels of the sales comparison follow the snapshot period.
func buildSeries(period string, fallbackYear int) domain.RawSeries {
	year, ok := format.PeriodYear(period)
	if !ok {
		year = fallbackYear
	}

	assets := domain.Table{
		Labels: months,
		Series: []domain.Series{
			{Name: "Caixa", Values: []float64{50, 55, 60, 58, 62, 65}},
			{Name: "Estoques", Values: []float64{30, 32, 35, 33, 34, 36}},
			{Name: "Imobilizado", Values: []float64{10, 10, 12, 12, 13, 13}},
		},
	}

	revenue := make([]domain.RankEntry, len(plannedProducts))
	quantity := make([]domain.RankEntry, len(plannedProducts))
	for i, p := range plannedProducts {
		revenue[i] = domain.RankEntry{Label: p.name, Value: p.revenue}
		quantity[i] = domain.RankEntry{Label: p.name, Value: p.quantity}
	}
	topRevenue := TopN(revenue, topEntries, restLabel)

	return domain.RawSeries{
		Months:      months,
		Assets:      assets,
		AssetShares: RowNormalize(assets),
		AssetTotals: domain.Series{Name: "Ativo total", Values: assets.Totals()},
		Liabilities: domain.Table{
			Labels: months,
			Series: []domain.Series{
				{Name: "Circulante", Values: []float64{40, 42, 45, 44, 46, 48}},
				{Name: "Não Circulante", Values: []float64{60, 58, 55, 56, 54, 52}},
			},
		},
		Profitability: domain.Table{
			Labels: months,
			Series: []domain.Series{
				{Name: "RPS", Values: []float64{1, 1.5, 1.2, 1.8, 2, 1.9}},
				{Name: "CDI", Values: []float64{0.8, 0.85, 0.9, 0.9, 0.95, 0.95}},
			},
		},
		EquityAssets: domain.Table{
			Labels: months,
			Series: []domain.Series{
				{Name: "Patrimônio líquido", Values: []float64{60, 62, 64, 66, 68, 70}},
				{Name: "Ativo total", Values: []float64{100, 105, 108, 112, 115, 118}},
			},
		},
		Sales: domain.Table{
			Labels: months,
			Series: []domain.Series{
				{Name: strconv.Itoa(year), Values: []float64{100, 110, 105, 120, 125, 130}},
				{Name: strconv.Itoa(year - 1), Values: []float64{90, 95, 92, 100, 105, 110}},
			},
		},
		TopRevenue:  topRevenue,
		TopQuantity: TopN(quantity, topEntries, restLabel),
		SalesMix:    topRevenue,
		Costs: []domain.RankEntry{
			{Label: "Pessoal", Value: 50},
			{Label: "Tributos", Value: 20},
			{Label: "Serviços", Value: 15},
			{Label: "Aluguel", Value: 15},
		},
		Suppliers: []domain.RankEntry{
			{Label: "Forn A", Value: 60},
			{Label: "Forn B", Value: 30},
			{Label: "Outros", Value: 10},
		},
	}
}
