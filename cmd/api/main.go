package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"campaign-insights-go/internal/config"
	"campaign-insights-go/internal/dataset"
	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/server"
)

func main() {
	cfg := config.Load() // loads .env

	log := logger.New()
	log.WithField("service", "campaign-insights-go").Info("starting service")

	log.WithFields(map[string]interface{}{
		"keyword_path": cfg.KeywordPath,
		"domain_path":  cfg.DomainPath,
		"row_limit":    cfg.RowLimit,
	}).Info("loading data")
	store := dataset.Open(context.Background(), cfg)
	if err := store.Err(); err != nil {
		log.WithError(err).Warn("starting with data load error page")
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.New(store).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
