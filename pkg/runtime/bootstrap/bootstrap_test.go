package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rps-tools/report-atlas/pkg/services/config"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/rps-tools/report-atlas/pkg/services/export"
	"github.com/rps-tools/report-atlas/pkg/store/relational"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func defaultConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestNew_Synthetic(t *testing.T) {
	// Given
	cfg := defaultConfig(t)
	cfg.DataSource.Seed = 11
	cfg.DataSource.Companies = 4

	// When
	app, err := New(testContext(t), cfg)
	require.NoError(t, err)
	defer app.Close()

	// Then
	assert.IsType(t, &datasource.SyntheticSource{}, app.Source)
	assert.False(t, app.Exporter.HasArchive())

	companies, err := app.Assembler.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Len(t, companies, 4)

	rc, err := app.Assembler.Assemble(testContext(t), companies[0].Code, "Março/2025")
	require.NoError(t, err)
	assert.Equal(t, "Março/2025", rc.Data.Period)
}

func TestNew_RelationalFromDSN(t *testing.T) {
	// Given: the database is only opened on first use
	cfg := defaultConfig(t)
	cfg.DataSource.Kind = datasource.KindRelational
	cfg.Relational.Driver = relational.DriverDuckDB
	cfg.Relational.DSN = filepath.Join(t.TempDir(), "erp.duckdb")

	// When
	app, err := New(testContext(t), cfg)

	// Then
	require.NoError(t, err)
	assert.IsType(t, &datasource.RelationalSource{}, app.Source)
	assert.NoError(t, app.Close())
}

func TestNew_RelationalFromProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.ini")
	require.NoError(t, os.WriteFile(path, []byte("[local]\ndriver = duckdb\npath = /tmp/erp.duckdb\n"), 0o600))

	cfg := defaultConfig(t)
	cfg.DataSource.Kind = datasource.KindRelational
	cfg.Relational.Profile = "local"
	cfg.Relational.ProfilesPath = path

	settings, err := relationalSettings(context.Background(), cfg.Relational)
	require.NoError(t, err)
	assert.Equal(t, relational.Settings{Driver: relational.DriverDuckDB, DSN: "/tmp/erp.duckdb"}, settings)

	app, err := New(testContext(t), cfg)
	require.NoError(t, err)
	assert.NoError(t, app.Close())
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *config.Config)
	}{
		{
			name:   "unknown pdf engine",
			modify: func(cfg *config.Config) { cfg.PDF.Engine = "typewriter" },
		},
		{
			name:   "unknown datasource kind",
			modify: func(cfg *config.Config) { cfg.DataSource.Kind = "spreadsheet" },
		},
		{
			name: "unsupported driver",
			modify: func(cfg *config.Config) {
				cfg.DataSource.Kind = datasource.KindRelational
				cfg.Relational.Driver = "oracle"
				cfg.Relational.DSN = "oracle://erp"
			},
		},
		{
			name: "missing profiles file",
			modify: func(cfg *config.Config) {
				cfg.DataSource.Kind = datasource.KindRelational
				cfg.Relational.Profile = "finance"
				cfg.Relational.ProfilesPath = filepath.Join(t.TempDir(), "missing.ini")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.modify(cfg)

			_, err := New(testContext(t), cfg)

			assert.Error(t, err)
		})
	}
}

func TestNew_WkhtmltopdfEngine(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.PDF.Engine = export.EngineWkhtmltopdf

	app, err := New(testContext(t), cfg)

	require.NoError(t, err)
	assert.NotNil(t, app.Exporter)
}
