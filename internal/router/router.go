package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mem "registro-obras/internal/adapters/storage/memory"
	pg "registro-obras/internal/adapters/storage/postgres"
	"registro-obras/internal/adapters/upload/local"
	"registro-obras/internal/domain/casos"
	"registro-obras/internal/domain/geografia"
	"registro-obras/internal/domain/stats"
	"registro-obras/internal/middleware"
	"registro-obras/internal/platform/logger"
	"registro-obras/internal/platform/metrics"
	"registro-obras/internal/ports/upload"
)

type Options struct {
	// Claves compartidas de las dos operaciones irreversibles.
	Claves casos.Claves

	// Opcional: si viene, usa Postgres. Si no, in-memory (modo dev).
	DB *sql.DB

	// Opcional: cache derivada del listado. Nil = sin cache.
	Cache casos.ListCache

	// Opcional: contadores Prometheus. Nil en tests (promauto registra
	// en el registry global una sola vez).
	Metrics *metrics.Metrics

	// Opcional: colaborador de subida. Nil = adapter local de dev.
	Uploader upload.Uploader

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.ActorContext)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	var (
		casosRepo interface {
			casos.Repository
			stats.Repository
		}
		geoRepo geografia.Repository
	)

	if opts.DB != nil {
		casosRepo = pg.NewCasosRepo(opts.DB)
		geoRepo = pg.NewGeografiaRepo(opts.DB)
	} else {
		casosRepo = mem.NewCasosRepo()
		geoRepo = mem.NewGeografiaRepo()
	}

	uploader := opts.Uploader
	if uploader == nil {
		uploader = local.New()
	}

	// Services por módulo
	casosSvc := casos.NewService(casosRepo, opts.Claves).
		WithCache(opts.Cache).
		WithMetrics(opts.Metrics)
	geoSvc := geografia.NewService(geoRepo)
	statsSvc := stats.NewService(casosRepo)

	// Rutas por módulo
	casos.RegisterRoutes(r, casosSvc, uploader, log)
	geografia.RegisterRoutes(r, geoSvc)
	stats.RegisterRoutes(r, statsSvc)

	return r
}
