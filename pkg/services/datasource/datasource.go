package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/rps-tools/report-atlas/pkg/format"
	"github.com/rps-tools/report-atlas/pkg/models/domain"
)

// ErrSourceUnavailable is returned when the backing store cannot be reached or queried.
// It is distinct from an empty roster, which is a successful result.
var ErrSourceUnavailable = errors.New("data source unavailable")

const (
	KindSynthetic  = "synthetic"
	KindRelational = "relational"
)

// DataSource supplies the company roster and per-period figures of a company.
type DataSource interface {
	// ListCompanies returns the roster ordered by legal name.
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	// FetchSnapshot never fails for an unknown code; the snapshot carries a placeholder name instead.
	FetchSnapshot(ctx context.Context, code int, period string) (*domain.Snapshot, error)
}

func resolvePeriod(period string, now func() time.Time) string {
	if period != "" {
		return period
	}
	return format.PeriodLabel(now())
}

func cloneCompanies(companies []domain.Company) []domain.Company {
	out := make([]domain.Company, len(companies))
	copy(out, companies)
	return out
}
