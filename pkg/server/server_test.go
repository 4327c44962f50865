package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rps-tools/report-atlas/pkg/models/api"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/rps-tools/report-atlas/pkg/services/export"
	"github.com/rps-tools/report-atlas/pkg/services/report"
	"github.com/rps-tools/report-atlas/web"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPDF struct{}

func (stubPDF) Render(_ context.Context, rc *domain.ReportContext) ([]byte, error) {
	return []byte(fmt.Sprintf("%%PDF-1.4 %d", rc.Data.Company.Code)), nil
}

func fixedNow() time.Time { return time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC) }

func testConfig(t *testing.T, rateLimit RateLimit) Config {
	t.Helper()
	seed := uint64(21)
	palette := charts.DefaultPalette()

	source := datasource.NewSyntheticSource(datasource.SyntheticOptions{Seed: &seed, Now: fixedNow})
	assembler := report.NewAssembler(source, charts.NewRenderer(palette), report.Options{Now: fixedNow})
	pages, err := export.NewHTMLRenderer(web.Templates(), web.Static(), palette)
	require.NoError(t, err)

	return Config{
		Addr:            ":8080",
		ShutdownTimeout: 10 * time.Second,
		RateLimit:       rateLimit,
		Now:             fixedNow,
		Dependencies: Dependencies{
			Reports:  assembler,
			Exporter: export.NewExporter(assembler, stubPDF{}, export.ExporterOptions{Now: fixedNow}),
			Pages:    pages,
		},
	}
}

func unmarshalResponse[T any]() func([]byte) (interface{}, error) {
	return func(data []byte) (interface{}, error) {
		var result T
		err := json.Unmarshal(data, &result)
		return result, err
	}
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	router := ConfigureRouter(&logger, testConfig(t, RateLimit{}))
	testServer := httptest.NewServer(router)
	defer testServer.Close()

	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
		check          func(t *testing.T, resp *http.Response, body []byte)
	}{
		{
			name:           "Dashboard",
			method:         http.MethodGet,
			path:           "/",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, _ *http.Response, body []byte) {
				assert.Contains(t, string(body), "/report/view/1001")
				assert.Contains(t, string(body), "Junho/2025")
			},
		},
		{
			name:           "Stylesheet",
			method:         http.MethodGet,
			path:           "/static/css/report.css",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, _ []byte) {
				assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/css"))
			},
		},
		{
			name:           "Script",
			method:         http.MethodGet,
			path:           "/static/js/report.js",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, _ *http.Response, body []byte) {
				assert.Contains(t, string(body), "reportData")
			},
		},
		{
			name:           "ViewReport",
			method:         http.MethodGet,
			path:           "/report/view/1002",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, _ *http.Response, body []byte) {
				assert.Contains(t, string(body), "window.reportData")
				assert.Contains(t, string(body), "data:image/png;base64,")
			},
		},
		{
			name:           "ViewReport_InvalidID",
			method:         http.MethodGet,
			path:           "/report/view/zero",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "DownloadPDF",
			method:         http.MethodGet,
			path:           "/report/pdf/1001",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, body []byte) {
				assert.Equal(t, "attachment; filename=RPS_Relatorio_1001.pdf", resp.Header.Get("Content-Disposition"))
				assert.Equal(t, "%PDF-1.4 1001", string(body))
			},
		},
		{
			name:           "DownloadBatch_MissingIDs",
			method:         http.MethodGet,
			path:           "/report/pdf-batch",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "ArchiveBatch_NotConfigured",
			method:         http.MethodPost,
			path:           "/report/pdf-batch/archive?ids=1001",
			expectedStatus: http.StatusNotImplemented,
		},
		{
			name:           "LegacyRedirect",
			method:         http.MethodGet,
			path:           "/relatorio/1001",
			expectedStatus: http.StatusFound,
			check: func(t *testing.T, resp *http.Response, _ []byte) {
				assert.Equal(t, "/report/view/1001", resp.Header.Get("Location"))
			},
		},
		{
			name:           "ListCompanies",
			method:         http.MethodGet,
			path:           "/api/v1/companies",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, _ *http.Response, body []byte) {
				actual, err := unmarshalResponse[[]api.Company]()(body)
				require.NoError(t, err)
				assert.Len(t, actual, 3)
			},
		},
		{
			name:           "GetReport",
			method:         http.MethodGet,
			path:           "/api/v1/reports/1003?periodo=Maio/2025",
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, _ *http.Response, body []byte) {
				actual, err := unmarshalResponse[api.Report]()(body)
				require.NoError(t, err)
				rep := actual.(api.Report)
				assert.Equal(t, "Maio/2025", rep.Snapshot.Period)
				assert.Len(t, rep.Charts, 11)
				assert.Len(t, rep.Series.Months, 6)
			},
		},
		{
			name:           "UnknownRoute",
			method:         http.MethodGet,
			path:           "/api/v1/workspaces",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, testServer.URL+tc.path, nil)
			require.NoError(t, err)

			resp, err := client.Do(req)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")
			if tc.check != nil {
				tc.check(t, resp, body)
			}
		})
	}
}

func TestWebAPI_RateLimitsExports(t *testing.T) {
	// Given: exports allow a single request per client
	logger := zerolog.Nop()
	router := ConfigureRouter(&logger, testConfig(t, RateLimit{RPS: 0.001, Burst: 1}))

	get := func(path string) int {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec.Code
	}

	// When / Then
	assert.Equal(t, http.StatusOK, get("/report/pdf/1001"))
	assert.Equal(t, http.StatusTooManyRequests, get("/report/pdf/1001"))
	assert.Equal(t, http.StatusOK, get("/report/view/1001"), "views are not throttled")
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	webAPI := NewWebAPI(zerolog.Nop(), Config{Addr: ":0"})

	assert.Equal(t, defaultShutdownTimeout, webAPI.shutdownTimeout)
	assert.Equal(t, ":0", webAPI.server.Addr)
}
