package adapters

import (
	"sort"

	"github.com/rps-tools/report-atlas/pkg/models/api"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
)

func MapCompanyDomainToApi(c domain.Company) api.Company {
	return api.Company{
		Code:        c.Code,
		LegalName:   c.LegalName,
		TradeName:   c.TradeName,
		DisplayName: c.DisplayName(),
	}
}

func MapCompaniesDomainToApi(companies []domain.Company) []api.Company {
	res := make([]api.Company, 0, len(companies))
	for _, c := range companies {
		res = append(res, MapCompanyDomainToApi(c))
	}
	return res
}

func MapSnapshotDomainToApi(s domain.Snapshot) api.Snapshot {
	company := MapCompanyDomainToApi(s.Company)
	company.DisplayName = s.DisplayName

	res := api.Snapshot{
		Company: company,
		Known:   s.Known,
		Period:  s.Period,
		KPIs: map[string]string{
			"sales":              s.KPIs.Sales,
			"taxes":              s.KPIs.Taxes,
			"purchases":          s.KPIs.Purchases,
			"capex":              s.KPIs.Capex,
			"opex":               s.KPIs.Opex,
			"financial_expenses": s.KPIs.FinancialExpenses,
			"other":              s.KPIs.Other,
			"net_profit":         s.KPIs.NetProfit,
		},
		Indicators: map[string]string{
			"ebitda":               s.Indicators.EBITDA,
			"current_liquidity":    s.Indicators.CurrentLiquidity,
			"net_margin":           s.Indicators.NetMargin,
			"leverage":             s.Indicators.Leverage,
			"roa":                  s.Indicators.ROA,
			"working_capital_need": s.Indicators.WorkingCapitalNeed,
		},
		ROE:          make([]api.ComparativeRow, 0, len(s.ROE)),
		Branches:     make([]api.Branch, 0, len(s.Branches)),
		TaxEstimates: make([]api.TaxEstimate, 0, len(s.TaxEstimates)),
		Distribution: make([]api.ProfitShare, 0, len(s.Distribution)),
		Commentary:   s.Commentary,
	}
	for _, r := range s.ROE {
		res.ROE = append(res.ROE, api.ComparativeRow(r))
	}
	for _, b := range s.Branches {
		res.Branches = append(res.Branches, api.Branch{Code: b.Code, Name: b.Name, City: b.City})
	}
	for _, t := range s.TaxEstimates {
		res.TaxEstimates = append(res.TaxEstimates, api.TaxEstimate(t))
	}
	for _, d := range s.Distribution {
		res.Distribution = append(res.Distribution, api.ProfitShare(d))
	}
	return res
}

func mapSeries(series []domain.Series) []api.SeriesData {
	res := make([]api.SeriesData, 0, len(series))
	for _, s := range series {
		res = append(res, api.SeriesData{Name: s.Name, Values: s.Values})
	}
	return res
}

func mapEntries(entries []domain.RankEntry) []api.EntryData {
	res := make([]api.EntryData, 0, len(entries))
	for _, e := range entries {
		res = append(res, api.EntryData(e))
	}
	return res
}

func MapReportDataDomainToApi(raw domain.RawSeries) api.ReportData {
	return api.ReportData{
		Months: raw.Months,
		Assets: api.AssetsData{
			Series: mapSeries(raw.Assets.Series),
			Shares: mapSeries(raw.AssetShares.Series),
			Total:  raw.AssetTotals.Values,
		},
		Liabilities:   mapSeries(raw.Liabilities.Series),
		Profitability: mapSeries(raw.Profitability.Series),
		Equity:        mapSeries(raw.EquityAssets.Series),
		Sales:         mapSeries(raw.Sales.Series),
		Products: api.ProductsData{
			Revenue:  mapEntries(raw.TopRevenue),
			Quantity: mapEntries(raw.TopQuantity),
			Mix:      mapEntries(raw.SalesMix),
		},
		Costs:     mapEntries(raw.Costs),
		Suppliers: mapEntries(raw.Suppliers),
	}
}

func MapReportContextDomainToApi(rc *domain.ReportContext) api.Report {
	charts := make([]string, 0, len(rc.Charts))
	for name := range rc.Charts {
		charts = append(charts, name)
	}
	sort.Strings(charts)

	return api.Report{
		Snapshot:    MapSnapshotDomainToApi(rc.Data),
		Series:      MapReportDataDomainToApi(rc.Raw),
		Charts:      charts,
		GeneratedAt: rc.GeneratedAt,
	}
}
