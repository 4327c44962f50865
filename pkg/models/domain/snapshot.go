package domain

// Figures are the raw amounts behind the KPIs of one company in one period.
type Figures struct {
	Sales             float64
	Taxes             float64
	Purchases         float64
	Capex             float64
	Opex              float64
	FinancialExpenses float64
	Other             float64
	NetProfit         float64
}

// Outflows sums every component that is deducted from sales.
func (f Figures) Outflows() float64 {
	return f.Taxes + f.Purchases + f.Capex + f.Opex + f.FinancialExpenses + f.Other
}

type KPIs struct {
	Sales             string
	Taxes             string
	Purchases         string
	Capex             string
	Opex              string
	FinancialExpenses string
	Other             string
	NetProfit         string
	NetProfitRaw      float64
}

type Indicators struct {
	EBITDA             string
	CurrentLiquidity   string
	NetMargin          string
	Leverage           string
	ROA                string
	WorkingCapitalNeed string
}

// ComparativeRow compares return on equity with a benchmark rate over a trailing window.
type ComparativeRow struct {
	Period    string
	ROE       float64
	Benchmark float64
	Delta     float64
}

type TaxEstimate struct {
	Regime string
	Rate   string
	Amount string
}

type ProfitShare struct {
	Destination string
	Share       string
	Amount      string
}

type Snapshot struct {
	Company      Company
	DisplayName  string
	Known        bool // false when the code is absent from the roster
	Period       string
	Figures      Figures
	KPIs         KPIs
	Indicators   Indicators
	ROE          []ComparativeRow
	Branches     []Branch
	TaxEstimates []TaxEstimate
	Distribution []ProfitShare
	Commentary   string // markdown
}
