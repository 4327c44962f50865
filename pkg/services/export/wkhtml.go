package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// WkhtmlRenderer prints the HTML report view with the wkhtmltopdf binary.
type WkhtmlRenderer struct {
	html *HTMLRenderer
}

func NewWkhtmlRenderer(html *HTMLRenderer) (*WkhtmlRenderer, error) {
	if html == nil {
		return nil, fmt.Errorf("html renderer cannot be nil")
	}
	return &WkhtmlRenderer{html: html}, nil
}

func (w *WkhtmlRenderer) Render(ctx context.Context, rc *domain.ReportContext) ([]byte, error) {
	page, err := w.html.RenderReportBytes(rc, ViewOptions{Print: true})
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("create pdf generator: %w", err)
	}
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Grayscale.Set(false)

	reader := wkhtmltopdf.NewPageReader(bytes.NewReader(page))
	reader.EnableLocalFileAccess.Set(true)
	pdfg.AddPage(reader)

	if err := pdfg.CreateContext(ctx); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Int("company", rc.Data.Company.Code).Msg("wkhtmltopdf failed")
		return nil, fmt.Errorf("create pdf: %w", err)
	}
	return pdfg.Bytes(), nil
}
