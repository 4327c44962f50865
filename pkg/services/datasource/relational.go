package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/store/cache"
	"github.com/rps-tools/report-atlas/pkg/store/relational"
	"github.com/rps-tools/report-atlas/pkg/store/roster"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const rosterKey = "roster"

// DBProvider hands out the database handle, opening it on first use.
type DBProvider interface {
	DB(ctx context.Context) (*sql.DB, error)
	Close() error
}

type RelationalOptions struct {
	// RosterTTL bounds how long the roster is cached. Zero keeps it until Invalidate.
	RosterTTL time.Duration
	Seed      *uint64
	Now       func() time.Time
}

// RelationalSource reads the company roster from the data warehouse.
// Figures are still illustrative and drawn from the shared generator.
type RelationalSource struct {
	provider DBProvider
	dialect  relational.Dialect
	roster   *cache.TTL[string, []domain.Company]
	group    singleflight.Group
	gen      *figureGenerator
	now      func() time.Time

	mu    sync.Mutex
	store roster.Store
}

func NewRelationalSource(provider DBProvider, dialect relational.Dialect, opts RelationalOptions) *RelationalSource {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RelationalSource{
		provider: provider,
		dialect:  dialect,
		roster:   cache.NewTTL[string, []domain.Company](opts.RosterTTL),
		gen:      newFigureGenerator(opts.Seed),
		now:      opts.Now,
	}
}

func (s *RelationalSource) rosterStore(ctx context.Context) (roster.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return s.store, nil
	}

	db, err := s.provider.DB(ctx)
	if err != nil {
		return nil, err
	}
	st, err := roster.NewStore(db, s.dialect)
	if err != nil {
		return nil, err
	}
	s.store = st
	return s.store, nil
}

func (s *RelationalSource) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	if companies, ok := s.roster.Get(rosterKey); ok {
		return cloneCompanies(companies), nil
	}

	// The load is shared by every waiting caller, so it must outlive the one that started it.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(rosterKey, func() (interface{}, error) {
		if companies, ok := s.roster.Get(rosterKey); ok {
			return companies, nil
		}

		st, err := s.rosterStore(loadCtx)
		if err != nil {
			return nil, err
		}
		companies, err := st.ListCompanies(loadCtx)
		if err != nil {
			return nil, err
		}
		domain.SortCompanies(companies)
		s.roster.Set(rosterKey, companies)
		return companies, nil
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load company roster")
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	return cloneCompanies(v.([]domain.Company)), nil
}

func (s *RelationalSource) FetchSnapshot(ctx context.Context, code int, period string) (*domain.Snapshot, error) {
	period = resolvePeriod(period, s.now)

	companies, err := s.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}

	company, known := domain.FindCompany(companies, code)
	var branches []domain.Branch
	if known {
		st, err := s.rosterStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		branches, err = st.ListBranches(ctx, code)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Int("company", code).Msg("failed to load branches")
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
	} else {
		company = domain.Company{Code: code}
		zerolog.Ctx(ctx).Warn().Int("company", code).Msg("company not found in roster, using placeholder")
	}

	return buildSnapshot(company, known, period, s.gen.sales(), branches)
}

// Invalidate drops the cached roster so the next call queries the store again.
func (s *RelationalSource) Invalidate() {
	s.roster.Invalidate()
}

func (s *RelationalSource) Close() error {
	return s.provider.Close()
}
