package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rps-tools/report-atlas/pkg/adapters"
	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/api"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/rps-tools/report-atlas/pkg/services/export"
)

const (
	periodParam     = "periodo"
	dashboardMonths = 6

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json"
	contentTypePDF  = "application/pdf"
	contentTypeZIP  = "application/zip"
)

var errInvalidCompany = errors.New("invalid company id")

type ReportService interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	Assemble(ctx context.Context, code int, period string) (*domain.ReportContext, error)
}

type DocumentExporter interface {
	PDF(ctx context.Context, code int, period string) ([]byte, error)
	ZIP(ctx context.Context, ids []int, period string) ([]byte, error)
	Archive(ctx context.Context, ids []int, period string) (export.Location, error)
}

type PageRenderer interface {
	RenderReport(w io.Writer, rc *domain.ReportContext, opts export.ViewOptions) error
	RenderDashboard(w io.Writer, view export.DashboardView) error
}

type Options struct {
	// BaseURL prefixes the PDF link encoded in the report QR code. Empty derives it from the request.
	BaseURL string
	Now     func() time.Time
}

type Handler struct {
	reports  ReportService
	exporter DocumentExporter
	pages    PageRenderer
	baseURL  string
	now      func() time.Time
}

func NewHandler(reports ReportService, exporter DocumentExporter, pages PageRenderer, opts Options) *Handler {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handler{
		reports:  reports,
		exporter: exporter,
		pages:    pages,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		now:      now,
	}
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	companies, err := h.reports.ListCompanies(ctx)
	if err != nil {
		h.writeError(w, r, err, "failed to list companies")
		return
	}

	periods := format.LastPeriods(h.now(), dashboardMonths)
	selected := r.URL.Query().Get(periodParam)
	if selected == "" {
		selected = periods[0]
	}

	var buf bytes.Buffer
	err = h.pages.RenderDashboard(&buf, export.DashboardView{
		Companies: companies,
		Periods:   periods,
		Selected:  selected,
	})
	if err != nil {
		h.writeError(w, r, err, "failed to render dashboard")
		return
	}
	h.write(w, r, contentTypeHTML, buf.Bytes())
}

func (h *Handler) ViewReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, err := companyID(r)
	if err != nil {
		h.writeError(w, r, err, "invalid company id")
		return
	}
	period := h.period(r)

	rc, err := h.reports.Assemble(ctx, code, period)
	if err != nil {
		h.writeError(w, r, err, "failed to assemble report")
		return
	}

	var buf bytes.Buffer
	err = h.pages.RenderReport(&buf, rc, export.ViewOptions{
		PDFURL: fmt.Sprintf("%s/report/pdf/%d?%s=%s", h.base(r), code, periodParam, url.QueryEscape(period)),
	})
	if err != nil {
		h.writeError(w, r, err, "failed to render report")
		return
	}
	h.write(w, r, contentTypeHTML, buf.Bytes())
}

func (h *Handler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	code, err := companyID(r)
	if err != nil {
		h.writeError(w, r, err, "invalid company id")
		return
	}

	pdf, err := h.exporter.PDF(ctx, code, h.period(r))
	if err != nil {
		h.writeError(w, r, err, "failed to export pdf")
		return
	}

	w.Header().Set("Content-Disposition", attachment(export.FileName(code)))
	h.write(w, r, contentTypePDF, pdf)
}

func (h *Handler) DownloadBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := export.ParseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.writeError(w, r, err, "invalid batch ids")
		return
	}

	archive, err := h.exporter.ZIP(ctx, ids, h.period(r))
	if err != nil {
		h.writeError(w, r, err, "failed to export batch")
		return
	}

	w.Header().Set("Content-Disposition", attachment(export.ArchiveName))
	h.write(w, r, contentTypeZIP, archive)
}

func (h *Handler) ArchiveBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ids, err := export.ParseIDs(r.URL.Query().Get("ids"))
	if err != nil {
		h.writeJSONError(w, r, err, "invalid batch ids")
		return
	}

	loc, err := h.exporter.Archive(ctx, ids, h.period(r))
	if err != nil {
		h.writeJSONError(w, r, err, "failed to archive batch")
		return
	}

	h.writeJSON(w, r, http.StatusCreated, api.ArchiveLocation{
		Bucket: loc.Bucket,
		Key:    loc.Key,
		Size:   loc.Size,
	})
}

// LegacyView keeps the old /relatorio/{companyID} links working.
func (h *Handler) LegacyView(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, "/report/view/")
}

// LegacyPDF keeps the old /pdf/{companyID} links working.
func (h *Handler) LegacyPDF(w http.ResponseWriter, r *http.Request) {
	h.redirect(w, r, "/report/pdf/")
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.reports.ListCompanies(r.Context())
	if err != nil {
		h.writeJSONError(w, r, err, "failed to list companies")
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapCompaniesDomainToApi(companies))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	code, err := companyID(r)
	if err != nil {
		h.writeJSONError(w, r, err, "invalid company id")
		return
	}

	rc, err := h.reports.Assemble(r.Context(), code, h.period(r))
	if err != nil {
		h.writeJSONError(w, r, err, "failed to assemble report")
		return
	}
	h.writeJSON(w, r, http.StatusOK, adapters.MapReportContextDomainToApi(rc))
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, prefix string) {
	code, err := companyID(r)
	if err != nil {
		h.writeError(w, r, err, "invalid company id")
		return
	}

	target := prefix + strconv.Itoa(code)
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) period(r *http.Request) string {
	if p := strings.TrimSpace(r.URL.Query().Get(periodParam)); p != "" {
		return p
	}
	return format.PeriodLabel(h.now())
}

func (h *Handler) base(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if _, err := w.Write(body); err != nil {
		loggerFrom(r).Error().Err(err).Msg("failed to write response")
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		loggerFrom(r).Error().Err(err).Msg("failed to encode response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	logError(r, err, status, msg)
	http.Error(w, http.StatusText(status), status)
}

func (h *Handler) writeJSONError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	logError(r, err, status, msg)
	h.writeJSON(w, r, status, api.Error{Error: http.StatusText(status)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, export.ErrArchiveDisabled):
		return http.StatusNotImplemented
	case errors.Is(err, export.ErrArchiveUpload):
		return http.StatusBadGateway
	case errors.Is(err, errInvalidCompany), errors.Is(err, export.ErrInvalidIDs):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func companyID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "companyID")
	code, err := strconv.Atoi(raw)
	if err != nil || code <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidCompany, raw)
	}
	return code, nil
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%s", name)
}

func loggerFrom(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}

// logError logs client errors as warnings.
func logError(r *http.Request, err error, status int, msg string) {
	event := loggerFrom(r).Error()
	if status < http.StatusInternalServerError {
		event = loggerFrom(r).Warn()
	}
	event.Err(err).Int("status", status).Msg(msg)
}
