package commands

import (
	"context"
	"io"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/services/export"
)

type Reports interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	Assemble(ctx context.Context, code int, period string) (*domain.ReportContext, error)
}

type Documents interface {
	PDF(ctx context.Context, code int, period string) ([]byte, error)
	ZIP(ctx context.Context, ids []int, period string) ([]byte, error)
	Upload(ctx context.Context, body []byte) (export.Location, error)
}

type Pages interface {
	RenderReport(w io.Writer, rc *domain.ReportContext, opts export.ViewOptions) error
}

// Services is what the commands need from the report stack.
type Services struct {
	Reports   Reports
	Documents Documents
	Pages     Pages
	Close     func() error
}

// Loader builds the services once flags are parsed.
type Loader func(ctx context.Context) (*Services, error)

type Reporter interface {
	Companies(companies []domain.Company) error
	Written(path string, size int) error
	Archived(loc export.Location) error
}

func withServices(ctx context.Context, load Loader, fn func(*Services) error) (err error) {
	services, err := load(ctx)
	if err != nil {
		return err
	}
	if services.Close != nil {
		defer func() {
			if closeErr := services.Close(); err == nil {
				err = closeErr
			}
		}()
	}
	return fn(services)
}
