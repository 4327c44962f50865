package datasource

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
)

const (
	minSales = 500_000.0
	maxSales = 1_000_000.0
)

// Shares of net sales used by the illustrative statement.
const (
	taxShare        = 0.18
	purchasesShare  = 0.40
	capexShare      = 0.05
	opexShare       = 0.15
	finexShare      = 0.03
	otherShare      = 0.02
	ebitdaShare     = 0.15
	workingCapShare = 0.10
)

const (
	currentLiquidity = 1.45
	leveragePercent  = 45.0
	roaPercent       = 8.0
)

var roeWindows = []domain.ComparativeRow{
	{Period: "3 M", ROE: 4.5, Benchmark: 2.8},
	{Period: "6 M", ROE: 8.2, Benchmark: 5.5},
	{Period: "12 M", ROE: 15.1, Benchmark: 11.2},
}

var taxRegimes = []struct {
	name string
	rate float64
}{
	{name: "Simples Nacional", rate: 0.112},
	{name: "Lucro Presumido", rate: 0.1633},
	{name: "Lucro Real", rate: taxShare},
}

var profitDestinations = []struct {
	name  string
	share float64
}{
	{name: "Reserva legal", share: 0.05},
	{name: "Reinvestimento", share: 0.25},
	{name: "Dividendos", share: 0.70},
}

// ComputeFigures derives the statement from net sales. The components always reconcile:
// Outflows() + NetProfit == Sales.
func ComputeFigures(sales float64) domain.Figures {
	f := domain.Figures{
		Sales:             sales,
		Taxes:             sales * taxShare,
		Purchases:         sales * purchasesShare,
		Capex:             sales * capexShare,
		Opex:              sales * opexShare,
		FinancialExpenses: sales * finexShare,
		Other:             sales * otherShare,
	}
	f.NetProfit = sales - f.Outflows()
	return f
}

// figureGenerator draws random figures and names. gofakeit is not assumed to be goroutine safe.
type figureGenerator struct {
	mu   sync.Mutex
	fake *gofakeit.Faker
}

func newFigureGenerator(seed *uint64) *figureGenerator {
	s := uint64(time.Now().UnixNano())
	if seed != nil {
		s = *seed
	}
	return &figureGenerator{fake: gofakeit.New(s)}
}

func (g *figureGenerator) sales() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fake.Float64Range(minSales, maxSales)
}

func (g *figureGenerator) company(code int) domain.Company {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := domain.Company{
		Code:      code,
		LegalName: g.fake.Company(),
	}
	if parts := strings.Fields(c.LegalName); len(parts) > 1 && g.fake.Bool() {
		c.TradeName = parts[0]
	}
	return c
}

func (g *figureGenerator) branches(company domain.Company) []domain.Branch {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.fake.IntRange(1, 3)
	branches := make([]domain.Branch, n)
	for i := range branches {
		city := g.fake.City()
		name := "Matriz"
		if i > 0 {
			name = "Filial " + city
		}
		branches[i] = domain.Branch{
			Code:        i + 1,
			CompanyCode: company.Code,
			Name:        name,
			City:        city,
		}
	}
	return branches
}

// buildSnapshot formats the figures of one company. known reports whether the company was
// found in the roster; unknown companies get a placeholder display name.
func buildSnapshot(company domain.Company, known bool, period string, sales float64, branches []domain.Branch) (*domain.Snapshot, error) {
	figures := ComputeFigures(sales)

	kpis, err := buildKPIs(figures)
	if err != nil {
		return nil, err
	}
	indicators, err := buildIndicators(figures)
	if err != nil {
		return nil, err
	}
	taxes, err := buildTaxEstimates(figures)
	if err != nil {
		return nil, err
	}
	distribution, err := buildDistribution(figures)
	if err != nil {
		return nil, err
	}

	displayName := domain.PlaceholderName(company.Code)
	if known {
		displayName = company.DisplayName()
	}

	roe := make([]domain.ComparativeRow, len(roeWindows))
	for i, row := range roeWindows {
		row.Delta = row.ROE - row.Benchmark
		roe[i] = row
	}

	s := &domain.Snapshot{
		Company:      company,
		DisplayName:  displayName,
		Known:        known,
		Period:       period,
		Figures:      figures,
		KPIs:         kpis,
		Indicators:   indicators,
		ROE:          roe,
		Branches:     branches,
		TaxEstimates: taxes,
		Distribution: distribution,
	}
	s.Commentary = commentary(s)
	return s, nil
}

type currencyField struct {
	dst   *string
	value float64
}

func formatCurrencies(fields ...currencyField) error {
	for _, field := range fields {
		s, err := format.Currency(field.value)
		if err != nil {
			return err
		}
		*field.dst = s
	}
	return nil
}

func buildKPIs(f domain.Figures) (domain.KPIs, error) {
	k := domain.KPIs{NetProfitRaw: f.NetProfit}
	err := formatCurrencies(
		currencyField{&k.Sales, f.Sales},
		currencyField{&k.Taxes, f.Taxes},
		currencyField{&k.Purchases, f.Purchases},
		currencyField{&k.Capex, f.Capex},
		currencyField{&k.Opex, f.Opex},
		currencyField{&k.FinancialExpenses, f.FinancialExpenses},
		currencyField{&k.Other, f.Other},
		currencyField{&k.NetProfit, f.NetProfit},
	)
	if err != nil {
		return domain.KPIs{}, fmt.Errorf("format kpis: %w", err)
	}
	return k, nil
}

func buildIndicators(f domain.Figures) (domain.Indicators, error) {
	var ind domain.Indicators
	err := formatCurrencies(
		currencyField{&ind.EBITDA, f.Sales * ebitdaShare},
		currencyField{&ind.WorkingCapitalNeed, f.Sales * workingCapShare},
	)
	if err != nil {
		return domain.Indicators{}, fmt.Errorf("format indicators: %w", err)
	}

	if ind.CurrentLiquidity, err = format.Ratio(currentLiquidity); err != nil {
		return domain.Indicators{}, err
	}
	if ind.NetMargin, err = format.Percent(f.NetProfit/f.Sales*100, 0); err != nil {
		return domain.Indicators{}, fmt.Errorf("format net margin: %w", err)
	}
	if ind.Leverage, err = format.Percent(leveragePercent, 0); err != nil {
		return domain.Indicators{}, err
	}
	if ind.ROA, err = format.Percent(roaPercent, 0); err != nil {
		return domain.Indicators{}, err
	}
	return ind, nil
}

func buildTaxEstimates(f domain.Figures) ([]domain.TaxEstimate, error) {
	estimates := make([]domain.TaxEstimate, 0, len(taxRegimes))
	for _, regime := range taxRegimes {
		rate, err := format.Percent(regime.rate*100, 2)
		if err != nil {
			return nil, err
		}
		amount, err := format.Currency(f.Sales * regime.rate)
		if err != nil {
			return nil, fmt.Errorf("format %s estimate: %w", regime.name, err)
		}
		estimates = append(estimates, domain.TaxEstimate{Regime: regime.name, Rate: rate, Amount: amount})
	}
	return estimates, nil
}

func buildDistribution(f domain.Figures) ([]domain.ProfitShare, error) {
	shares := make([]domain.ProfitShare, 0, len(profitDestinations))
	for _, dest := range profitDestinations {
		share, err := format.Percent(dest.share*100, 0)
		if err != nil {
			return nil, err
		}
		amount, err := format.Currency(f.NetProfit * dest.share)
		if err != nil {
			return nil, fmt.Errorf("format %s share: %w", dest.name, err)
		}
		shares = append(shares, domain.ProfitShare{Destination: dest.name, Share: share, Amount: amount})
	}
	return shares, nil
}

func commentary(s *domain.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## Resumo de %s\n\n", s.Period)
	fmt.Fprintf(&sb, "A **%s** registrou vendas líquidas de %s e lucro líquido de %s, "+
		"com margem líquida de %s.\n\n", s.DisplayName, s.KPIs.Sales, s.KPIs.NetProfit, s.Indicators.NetMargin)
	fmt.Fprintf(&sb, "- Carga tributária: %s\n", s.KPIs.Taxes)
	fmt.Fprintf(&sb, "- EBITDA: %s\n", s.Indicators.EBITDA)
	fmt.Fprintf(&sb, "- Necessidade de capital de giro: %s\n", s.Indicators.WorkingCapitalNeed)
	if len(s.ROE) > 0 {
		last := s.ROE[len(s.ROE)-1]
		fmt.Fprintf(&sb, "\nNos últimos %s o ROE superou o CDI em %.1f p.p.\n", last.Period, last.Delta)
	}
	return sb.String()
}
