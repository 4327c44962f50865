package api

import "time"

type Company struct {
	Code        int    `json:"code"`
	LegalName   string `json:"legal_name"`
	TradeName   string `json:"trade_name,omitempty"`
	DisplayName string `json:"display_name"`
}

type Branch struct {
	Code int    `json:"code"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

type ComparativeRow struct {
	Period    string  `json:"period"`
	ROE       float64 `json:"roe"`
	Benchmark float64 `json:"benchmark"`
	Delta     float64 `json:"delta"`
}

type TaxEstimate struct {
	Regime string `json:"regime"`
	Rate   string `json:"rate"`
	Amount string `json:"amount"`
}

type ProfitShare struct {
	Destination string `json:"destination"`
	Share       string `json:"share"`
	Amount      string `json:"amount"`
}

type Snapshot struct {
	Company      Company           `json:"company"`
	Known        bool              `json:"known"`
	Period       string            `json:"period"`
	KPIs         map[string]string `json:"kpis"`
	Indicators   map[string]string `json:"indicators"`
	ROE          []ComparativeRow  `json:"roe"`
	Branches     []Branch          `json:"branches"`
	TaxEstimates []TaxEstimate     `json:"tax_estimates"`
	Distribution []ProfitShare     `json:"distribution"`
	Commentary   string            `json:"commentary"`
}

type Report struct {
	Snapshot    Snapshot   `json:"snapshot"`
	Series      ReportData `json:"series"`
	Charts      []string   `json:"charts"`
	GeneratedAt time.Time  `json:"generated_at"`
}

type ArchiveLocation struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
	Size   int64  `json:"size"`
}

type Error struct {
	Error string `json:"error"`
}
