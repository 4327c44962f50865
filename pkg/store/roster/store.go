package roster

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rps-tools/report-atlas/pkg/models/domain"
	"github.com/rps-tools/report-atlas/pkg/store/relational"
	"github.com/rs/zerolog"
)

// The legacy warehouse spells the trade name column "fantaisa".
const listCompaniesQuery = `SELECT codigo, nome, fantaisa FROM tabempresas ORDER BY nome`

const listBranchesQueryTmpl = `SELECT codigo, empresa, nome, cidade FROM tabfiliais WHERE empresa = %s ORDER BY codigo`

// Store reads the company roster and branch offices from the data warehouse.
type Store interface {
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	ListBranches(ctx context.Context, companyCode int) ([]domain.Branch, error)
}

type rosterStore struct {
	db            *sql.DB
	branchesQuery string
}

func NewStore(db *sql.DB, dialect relational.Dialect) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &rosterStore{
		db:            db,
		branchesQuery: fmt.Sprintf(listBranchesQueryTmpl, dialect.Placeholder(1)),
	}, nil
}

func (s *rosterStore) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	rows, err := s.db.QueryContext(ctx, listCompaniesQuery)
	if err != nil {
		return nil, fmt.Errorf("list companies query failed: %w", err)
	}
	defer closeRows(ctx, rows)

	var companies []domain.Company
	for rows.Next() {
		var (
			code      int
			legalName string
			tradeName sql.NullString
		)
		if err := rows.Scan(&code, &legalName, &tradeName); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, domain.Company{
			Code:      code,
			LegalName: legalName,
			TradeName: tradeName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}

	return companies, nil
}

func (s *rosterStore) ListBranches(ctx context.Context, companyCode int) ([]domain.Branch, error) {
	rows, err := s.db.QueryContext(ctx, s.branchesQuery, companyCode)
	if err != nil {
		return nil, fmt.Errorf("list branches query failed: %w", err)
	}
	defer closeRows(ctx, rows)

	var branches []domain.Branch
	for rows.Next() {
		var (
			b    domain.Branch
			city sql.NullString
		)
		if err := rows.Scan(&b.Code, &b.CompanyCode, &b.Name, &city); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		b.City = city.String
		branches = append(branches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branches: %w", err)
	}

	return branches, nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close roster query rows")
	}
}
