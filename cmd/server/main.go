package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/JungleMango/qqq-dashboard/internal/config"
	"github.com/JungleMango/qqq-dashboard/internal/httpx"
	"github.com/JungleMango/qqq-dashboard/internal/logging"
	"github.com/JungleMango/qqq-dashboard/internal/portfolio"
	"github.com/JungleMango/qqq-dashboard/internal/quote"
	"github.com/JungleMango/qqq-dashboard/internal/web"
	"github.com/JungleMango/qqq-dashboard/internal/yahoo"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log)
	defer func() { _ = logger.Sync() }()

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(timeout)

	yahooOpts := []yahoo.Option{yahoo.WithHTTPClient(httpClient.HTTP)}
	if cfg.Quote.BaseURL != "" {
		yahooOpts = append(yahooOpts, yahoo.WithBaseURL(cfg.Quote.BaseURL))
	}
	var upstream quote.Upstream = yahoo.New(yahooOpts...)
	if cfg.Quote.UpstreamMinIntervalMs > 0 {
		upstream = &quote.MinInterval{
			Next:     upstream,
			Interval: time.Duration(cfg.Quote.UpstreamMinIntervalMs) * time.Millisecond,
		}
	}

	cache := quote.NewCache(time.Duration(cfg.Quote.CacheTTLSeconds) * time.Second)
	fetcher := quote.NewFetcher(upstream, nil, logger)
	svc := quote.NewService(cache, fetcher)

	loadSet := func() portfolio.Set { return portfolio.Load(cfg.PortfolioFile, logger) }
	handler := web.New(svc, loadSet, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
