package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rps-tools/report-atlas/pkg/handlers/report"
	atlasmiddleware "github.com/rps-tools/report-atlas/pkg/server/middleware"
	"github.com/rps-tools/report-atlas/web"
	"github.com/rs/zerolog"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          http.Handler
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Reports  report.ReportService
	Exporter report.DocumentExporter
	Pages    report.PageRenderer
}

type RateLimit struct {
	RPS   float64
	Burst int
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	BaseURL         string
	// RateLimit throttles the export routes. A zero RPS disables it.
	RateLimit    RateLimit
	Dependencies Dependencies
	Now          func() time.Time
}

// ConfigureRouter mounts the dashboard, report, export and API routes.
func ConfigureRouter(logger *zerolog.Logger, config Config) http.Handler {
	h := report.NewHandler(
		config.Dependencies.Reports,
		config.Dependencies.Exporter,
		config.Dependencies.Pages,
		report.Options{BaseURL: config.BaseURL, Now: config.Now},
	)

	router := chi.NewRouter()

	router.Use(atlasmiddleware.Logger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/", h.Dashboard)
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	router.Get("/relatorio/{companyID}", h.LegacyView)
	router.Get("/pdf/{companyID}", h.LegacyPDF)

	router.Route("/report", func(r chi.Router) {
		r.Get("/view/{companyID}", h.ViewReport)

		r.Group(func(r chi.Router) {
			if config.RateLimit.RPS > 0 {
				r.Use(atlasmiddleware.NewRateLimiter(config.RateLimit.RPS, config.RateLimit.Burst).Middleware)
			}
			r.Get("/pdf/{companyID}", h.DownloadPDF)
			r.Get("/pdf-batch", h.DownloadBatch)
			r.Post("/pdf-batch/archive", h.ArchiveBatch)
		})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/companies", h.ListCompanies)
		r.Get("/reports/{companyID}", h.GetReport)
	})

	return router
}

func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	router := ConfigureRouter(&logger, config)

	shutdownTimeout := config.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
