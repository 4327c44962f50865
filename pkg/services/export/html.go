package export

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/rps-tools/report-atlas/pkg/adapters"
	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/api"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/skip2/go-qrcode"
)

const qrSize = 200

// Section is one navigable page of the report view.
type Section struct {
	ID    string
	Title string
}

var Sections = []Section{
	{"capa", "Capa"},
	{"resumo", "Resumo"},
	{"ativos", "Ativos"},
	{"passivos", "Passivos"},
	{"custos", "Custos"},
	{"rentabilidade", "Rentabilidade"},
	{"vendas", "Vendas"},
	{"tributario", "Tributário"},
	{"distribuicao", "Distribuição"},
	{"conclusao", "Conclusão"},
}

type ViewOptions struct {
	// PDFURL is encoded in the QR code of the cover. Empty omits the QR code.
	PDFURL string
	// Print drops the scripts and navigation, for HTML handed to a PDF engine.
	Print bool
}

type reportView struct {
	Data       domain.Snapshot
	Context    *domain.ReportContext
	Sections   []Section
	QRCode     template.URL
	ReportData template.JS
	Stylesheet template.CSS
	Print      bool
}

type DashboardView struct {
	Companies []domain.Company
	Periods   []string
	Selected  string
}

type dashboardView struct {
	DashboardView
	BatchIDs string
}

// HTMLRenderer executes the report and dashboard templates.
type HTMLRenderer struct {
	report     *template.Template
	dashboard  *template.Template
	stylesheet template.CSS
	palette    charts.Palette
}

func NewHTMLRenderer(templates, static fs.FS, palette charts.Palette) (*HTMLRenderer, error) {
	funcs := template.FuncMap{
		"currency": func(v float64) string {
			s, err := format.Currency(v)
			if err != nil {
				return "-"
			}
			return s
		},
		"percent": func(v float64) string {
			s, err := format.Percent(v, 1)
			if err != nil {
				return "-"
			}
			return s
		},
		"chart": func(rc *domain.ReportContext, name string) template.URL {
			img, ok := rc.Chart(name)
			if !ok {
				return ""
			}
			return img.DataURI()
		},
	}

	report, err := template.New("report.html").Funcs(funcs).ParseFS(templates, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	dashboard, err := template.New("dashboard.html").Funcs(funcs).ParseFS(templates, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}
	css, err := fs.ReadFile(static, "css/report.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	return &HTMLRenderer{
		report:     report,
		dashboard:  dashboard,
		stylesheet: template.CSS(css),
		palette:    palette,
	}, nil
}

// ReportData is the client-side payload of the report page.
func (h *HTMLRenderer) ReportData(rc *domain.ReportContext) api.ReportData {
	data := adapters.MapReportDataDomainToApi(rc.Raw)
	data.Colors = api.PaletteData{
		Primary:   h.palette.Primary,
		Secondary: h.palette.Secondary,
		Tertiary:  h.palette.Tertiary,
		Light:     h.palette.Light,
	}
	return data
}

func (h *HTMLRenderer) RenderReport(w io.Writer, rc *domain.ReportContext, opts ViewOptions) error {
	view := reportView{
		Data:       rc.Data,
		Context:    rc,
		Sections:   Sections,
		Stylesheet: h.stylesheet,
		Print:      opts.Print,
	}

	if !opts.Print {
		payload, err := json.Marshal(h.ReportData(rc))
		if err != nil {
			return fmt.Errorf("encode report data: %w", err)
		}
		view.ReportData = template.JS(payload)
	}

	if opts.PDFURL != "" {
		png, err := qrcode.Encode(opts.PDFURL, qrcode.Medium, qrSize)
		if err != nil {
			return fmt.Errorf("encode qr code: %w", err)
		}
		view.QRCode = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
	}

	if err := h.report.Execute(w, view); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	return nil
}

// RenderReportBytes renders into memory so a failed template never leaves a partial response.
func (h *HTMLRenderer) RenderReportBytes(rc *domain.ReportContext, opts ViewOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := h.RenderReport(&buf, rc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (h *HTMLRenderer) RenderDashboard(w io.Writer, view DashboardView) error {
	ids := make([]string, len(view.Companies))
	for i, c := range view.Companies {
		ids[i] = strconv.Itoa(c.Code)
	}
	if err := h.dashboard.Execute(w, dashboardView{DashboardView: view, BatchIDs: strings.Join(ids, ",")}); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}
	return nil
}
