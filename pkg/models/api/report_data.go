package api

// ReportData is the payload exposed to the report page as window.reportData.
// Keys are part of the client script contract.
type ReportData struct {
	Months        []string     `json:"meses"`
	Assets        AssetsData   `json:"ativos"`
	Liabilities   []SeriesData `json:"passivos"`
	Profitability []SeriesData `json:"rentabilidade"`
	Equity        []SeriesData `json:"patrimonio"`
	Sales         []SeriesData `json:"vendas"`
	Products      ProductsData `json:"produtos"`
	Costs         []EntryData  `json:"custos"`
	Suppliers     []EntryData  `json:"fornecedores"`
	Colors        PaletteData  `json:"cores"`
}

type SeriesData struct {
	Name   string    `json:"nome"`
	Values []float64 `json:"valores"`
}

type EntryData struct {
	Label string  `json:"rotulo"`
	Value float64 `json:"valor"`
}

type AssetsData struct {
	Series []SeriesData `json:"series"`
	Shares []SeriesData `json:"participacao"`
	Total  []float64    `json:"total"`
}

type ProductsData struct {
	Revenue  []EntryData `json:"faturamento"`
	Quantity []EntryData `json:"quantidade"`
	Mix      []EntryData `json:"mix"`
}

type PaletteData struct {
	Primary   string `json:"primaria"`
	Secondary string `json:"secundaria"`
	Tertiary  string `json:"terciaria"`
	Light     string `json:"clara"`
}
