package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"registro-obras/internal/adapters/cache/rediscache"
	pg "registro-obras/internal/adapters/storage/postgres"
	"registro-obras/internal/adapters/upload/httpstore"
	"registro-obras/internal/domain/casos"
	"registro-obras/internal/platform/config"
	"registro-obras/internal/platform/logger"
	"registro-obras/internal/platform/metrics"
	"registro-obras/internal/router"
)

func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv()

	opts := router.Options{
		Claves: casos.Claves{
			Entrega:     cfg.ClaveEntrega,
			Eliminacion: cfg.ClaveEliminacion,
		},
		Metrics: metrics.New(),
		Log:     log,
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("no se pudo abrir postgres", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		opts.DB = db
	} else {
		log.Warn("sin DB_DSN: repos in-memory (modo dev)", nil)
	}

	if cfg.RedisURL != "" {
		cache, err := rediscache.New(cfg.RedisURL, log)
		if err != nil {
			// La cache es advisory: arrancar sin ella, no morir.
			log.Warn("redis no disponible, listado sin cache", map[string]any{"err": err.Error()})
		} else {
			defer cache.Close()
			opts.Cache = cache
		}
	}

	if cfg.UploadURL != "" {
		store, err := httpstore.New(cfg.UploadURL)
		if err != nil {
			log.Error("upload url inválida", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := store.Health(ctx); err != nil {
			// El colaborador puede levantarse después; avisar, no morir.
			log.Warn("servicio de archivos no responde", map[string]any{"err": err.Error()})
		}
		cancel()
		opts.Uploader = store
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
