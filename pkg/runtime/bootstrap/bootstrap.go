// Package bootstrap builds the report services from configuration. The web server and the
// CLI share the same wiring.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rps-tools/report-atlas/pkg/services/charts"
	"github.com/rps-tools/report-atlas/pkg/services/config"
	"github.com/rps-tools/report-atlas/pkg/services/datasource"
	"github.com/rps-tools/report-atlas/pkg/services/export"
	"github.com/rps-tools/report-atlas/pkg/services/report"
	"github.com/rps-tools/report-atlas/pkg/store/archive"
	"github.com/rps-tools/report-atlas/pkg/store/relational"
	"github.com/rps-tools/report-atlas/web"
	"github.com/rs/zerolog"
)

const defaultProfilesFile = ".rpsprofiles"

type App struct {
	Source    datasource.DataSource
	Assembler *report.Assembler
	HTML      *export.HTMLRenderer
	Exporter  *export.Exporter

	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)
	app := &App{}

	source, err := app.newSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Source = source

	renderer := charts.NewRenderer(cfg.Palette)
	app.Assembler = report.NewAssembler(source, renderer, report.Options{CacheTTL: cfg.Report.CacheTTL})

	app.HTML, err = export.NewHTMLRenderer(web.Templates(), web.Static(), renderer.Palette())
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	pdf, err := export.DefaultEngines().Create(cfg.PDF.Engine, export.EngineDeps{HTML: app.HTML})
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf engine: %w", err)
	}

	var store archive.Store
	if cfg.Archive.Bucket != "" {
		awsCfg, err := archive.LoadConfig(ctx, cfg.Archive.Profile, cfg.Archive.Region)
		if err != nil {
			return nil, err
		}
		store, err = archive.NewS3StoreFromConfig(*awsCfg, cfg.Archive.Bucket)
		if err != nil {
			return nil, err
		}
	}

	app.Exporter = export.NewExporter(app.Assembler, pdf, export.ExporterOptions{
		Archive: store,
		Prefix:  cfg.Archive.Prefix,
	})

	logger.Info().
		Str("datasource", cfg.DataSource.Kind).
		Str("pdf_engine", cfg.PDF.Engine).
		Bool("archive", store != nil).
		Msg("report services ready")

	return app, nil
}

func (a *App) newSource(ctx context.Context, cfg *config.Config) (datasource.DataSource, error) {
	var seed *uint64
	if cfg.DataSource.Seed != 0 {
		s := cfg.DataSource.Seed
		seed = &s
	}

	switch cfg.DataSource.Kind {
	case datasource.KindSynthetic:
		return datasource.NewSyntheticSource(datasource.SyntheticOptions{
			Seed:      seed,
			Companies: cfg.DataSource.Companies,
		}), nil
	case datasource.KindRelational:
		settings, err := relationalSettings(ctx, cfg.Relational)
		if err != nil {
			return nil, err
		}
		dialect, err := relational.DialectFor(settings.Driver)
		if err != nil {
			return nil, err
		}
		db := relational.NewLazy(settings)
		a.closers = append(a.closers, db)
		return datasource.NewRelationalSource(db, dialect, datasource.RelationalOptions{
			RosterTTL: cfg.Relational.RosterTTL,
			Seed:      seed,
		}), nil
	default:
		return nil, fmt.Errorf("unknown datasource kind %q", cfg.DataSource.Kind)
	}
}

// relationalSettings prefers an explicit DSN over a credential profile.
func relationalSettings(ctx context.Context, rc config.RelationalConfig) (relational.Settings, error) {
	if rc.DSN != "" {
		return relational.Settings{Driver: rc.Driver, DSN: rc.DSN}, nil
	}

	path := rc.ProfilesPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return relational.Settings{}, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, defaultProfilesFile)
	}

	registry, err := config.NewProfileRegistry(path)
	if err != nil {
		return relational.Settings{}, err
	}
	return registry.GetSettings(ctx, rc.Profile)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
