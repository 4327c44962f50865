package domain

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"time"
)

// Image is a rendered chart, base64 encoded so it can be embedded directly in markup.
type Image struct {
	Name   string
	MIME   string
	Base64 string
}

func (i Image) DataURI() template.URL {
	return template.URL(fmt.Sprintf("data:%s;base64,%s", i.MIME, i.Base64))
}

func (i Image) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Base64)
}

// RawSeries are the numbers behind the charts, kept for client-side interactive charts.
type RawSeries struct {
	Months        []string
	Assets        Table
	AssetShares   Table // row-normalised percentages of Assets
	AssetTotals   Series
	Liabilities   Table
	Profitability Table // company return vs benchmark
	EquityAssets  Table // equity vs total assets
	Sales         Table // current vs previous year
	TopRevenue    []RankEntry
	TopQuantity   []RankEntry
	SalesMix      []RankEntry
	Costs         []RankEntry
	Suppliers     []RankEntry
}

type ReportContext struct {
	Data           Snapshot
	CommentaryHTML template.HTML
	Charts         map[string]Image
	Raw            RawSeries
	GeneratedAt    time.Time
}

func (rc *ReportContext) Chart(name string) (Image, bool) {
	img, ok := rc.Charts[name]
	return img, ok
}
