package relational

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/databricks/databricks-sql-go"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/marcboeker/go-duckdb/v2"
	_ "github.com/snowflakedb/gosnowflake"
)

const (
	DriverPostgres   = "pgx"
	DriverSnowflake  = "snowflake"
	DriverDatabricks = "databricks"
	DriverDuckDB     = "duckdb"
)

// Dialect captures the per-driver differences of the roster queries.
type Dialect struct {
	Driver       string
	numberedArgs bool // $1, $2 ... instead of ?
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverPostgres:
		return Dialect{Driver: driver, numberedArgs: true}, nil
	case DriverSnowflake, DriverDatabricks, DriverDuckDB:
		return Dialect{Driver: driver}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numberedArgs {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

type Settings struct {
	Driver string
	DSN    string
}

func NewDB(settings Settings) (*sql.DB, error) {
	if _, err := DialectFor(settings.Driver); err != nil {
		return nil, err
	}
	if settings.DSN == "" {
		return nil, fmt.Errorf("empty DSN for driver %s", settings.Driver)
	}
	return sql.Open(settings.Driver, settings.DSN)
}

// Lazy opens the database on first use and keeps the handle for the lifetime of the process.
// A failed open or ping is not remembered, so the next call tries again.
type Lazy struct {
	settings Settings
	open     func(Settings) (*sql.DB, error)

	mu sync.Mutex
	db *sql.DB
}

func NewLazy(settings Settings) *Lazy {
	return &Lazy{settings: settings, open: NewDB}
}

func (l *Lazy) DB(ctx context.Context) (*sql.DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db != nil {
		return l.db, nil
	}

	db, err := l.open(l.settings)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", l.settings.Driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", l.settings.Driver, err)
	}

	l.db = db
	return l.db, nil
}

func (l *Lazy) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.db == nil {
		return nil
	}
	err := l.db.Close()
	l.db = nil
	return err
}
