package datasource

import (
	"context"
	"time"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	defaultSyntheticCompanies = 3
	firstSyntheticCode        = 1001
)

type SyntheticOptions struct {
	// Seed makes the roster and the sequence of generated figures reproducible.
	// A nil seed draws one from the clock.
	Seed      *uint64
	Companies int
	Now       func() time.Time
}

// SyntheticSource generates a roster and figures without any external system.
type SyntheticSource struct {
	companies []domain.Company
	gen       *figureGenerator
	now       func() time.Time
}

func NewSyntheticSource(opts SyntheticOptions) *SyntheticSource {
	if opts.Companies <= 0 {
		opts.Companies = defaultSyntheticCompanies
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	gen := newFigureGenerator(opts.Seed)
	companies := make([]domain.Company, opts.Companies)
	for i := range companies {
		companies[i] = gen.company(firstSyntheticCode + i)
	}
	domain.SortCompanies(companies)

	return &SyntheticSource{
		companies: companies,
		gen:       gen,
		now:       opts.Now,
	}
}

func (s *SyntheticSource) ListCompanies(_ context.Context) ([]domain.Company, error) {
	return cloneCompanies(s.companies), nil
}

func (s *SyntheticSource) FetchSnapshot(ctx context.Context, code int, period string) (*domain.Snapshot, error) {
	period = resolvePeriod(period, s.now)

	company, known := domain.FindCompany(s.companies, code)
	var branches []domain.Branch
	if known {
		branches = s.gen.branches(company)
	} else {
		company = domain.Company{Code: code}
		zerolog.Ctx(ctx).Debug().Int("company", code).Msg("company not in synthetic roster, using placeholder")
	}

	return buildSnapshot(company, known, period, s.gen.sales(), branches)
}
