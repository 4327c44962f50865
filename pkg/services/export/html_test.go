package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/rps-tools/report-atlas/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHTMLRenderer(t *testing.T) *HTMLRenderer {
	t.Helper()
	h, err := NewHTMLRenderer(web.Templates(), web.Static(), charts.DefaultPalette())
	require.NoError(t, err)
	return h
}

func TestHTMLRenderer_RenderReport(t *testing.T) {
	// Given
	h := newHTMLRenderer(t)
	rc := assembledContext(t)

	// When
	var buf bytes.Buffer
	err := h.RenderReport(&buf, rc, ViewOptions{PDFURL: "http://localhost:8080/report/pdf/1001"})

	// Then
	require.NoError(t, err)
	page := buf.String()
	assert.Contains(t, page, rc.Data.DisplayName)
	assert.Contains(t, page, "window.reportData")
	assert.Contains(t, page, `"meses":["Jan","Fev","Mar","Abr","Mai","Jun"]`)
	assert.Contains(t, page, "data:image/png;base64,")
	assert.Contains(t, page, "QR code do PDF")
	assert.Contains(t, page, "<strong>")
	for _, s := range Sections {
		assert.Contains(t, page, `id="`+s.ID+`"`)
	}
}

func TestHTMLRenderer_RenderReport_Print(t *testing.T) {
	h := newHTMLRenderer(t)
	rc := assembledContext(t)

	page, err := h.RenderReportBytes(rc, ViewOptions{Print: true})

	require.NoError(t, err)
	assert.NotContains(t, string(page), "window.reportData")
	assert.NotContains(t, string(page), "QR code do PDF")
	assert.Contains(t, string(page), `class="print"`)
}

func TestHTMLRenderer_ReportDataColors(t *testing.T) {
	h := newHTMLRenderer(t)

	data := h.ReportData(&domain.ReportContext{})

	assert.Equal(t, charts.DefaultPalette().Primary, data.Colors.Primary)
}

func TestHTMLRenderer_RenderDashboard(t *testing.T) {
	h := newHTMLRenderer(t)

	var buf bytes.Buffer
	err := h.RenderDashboard(&buf, DashboardView{
		Companies: []domain.Company{
			{Code: 1001, LegalName: "Alfa Comércio Ltda", TradeName: "Alfa"},
			{Code: 1002, LegalName: "Beta Serviços SA"},
		},
		Periods:  []string{"Março/2025", "Fevereiro/2025"},
		Selected: "Fevereiro/2025",
	})

	require.NoError(t, err)
	page := buf.String()
	assert.Contains(t, page, "Alfa Comércio Ltda")
	assert.Contains(t, page, "/report/view/1001")
	assert.Contains(t, page, "/report/pdf-batch?ids=1001%2c1002")
	assert.Equal(t, 1, strings.Count(page, " selected"))
}

func TestHTMLRenderer_RenderDashboard_Empty(t *testing.T) {
	h := newHTMLRenderer(t)

	var buf bytes.Buffer
	require.NoError(t, h.RenderDashboard(&buf, DashboardView{Periods: []string{"Março/2025"}, Selected: "Março/2025"}))

	assert.Contains(t, buf.String(), "Nenhuma empresa cadastrada.")
}
