package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/kbjinsurance/advisor/backend/internal/config"
	"github.com/kbjinsurance/advisor/backend/internal/handler"
	"github.com/kbjinsurance/advisor/backend/internal/model/faq"
	"github.com/kbjinsurance/advisor/backend/internal/service/advisor"
	"github.com/kbjinsurance/advisor/backend/internal/service/ai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.Log.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, using system environment only", zap.Error(envErr))
	}

	routes := cfg.Site.Routes()

	entries, err := faq.Open(cfg.Site.FAQFile, routes)
	if err != nil {
		logger.Fatal("failed to load FAQ bank", zap.String("path", cfg.Site.FAQFile), zap.Error(err))
	}
	faqStore := faq.NewMemoryStore(entries)
	logger.Info("FAQ bank loaded", zap.Int("entries", faqStore.Len()))

	// The model stage is optional; without it the rules answer every unmatched turn.
	var completer advisor.Completer
	if cfg.AI.Enabled() {
		aiService, err := ai.NewService(ctx, cfg.AI, routes, logger)
		if err != nil {
			logger.Warn("failed to initialize model provider, continuing with rules only",
				zap.String("provider", string(cfg.AI.Provider)),
				zap.Error(err),
			)
		} else {
			completer = aiService
			logger.Info("model provider initialized", zap.String("provider", aiService.Provider()))
		}
	} else {
		logger.Info("model provider not configured, skipping model stage", zap.String("provider", string(cfg.AI.Provider)))
	}

	var (
		registerer prometheus.Registerer
		gatherer   prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		registerer, gatherer = registry, registry
	}

	advisorSvc := advisor.NewService(faqStore, routes, advisor.Options{
		Model:      completer,
		Timeout:    cfg.AI.Timeout,
		Logger:     logger,
		Registerer: registerer,
	})

	router := handler.NewRouter(handler.Dependencies{
		Advisor:        advisorSvc,
		FAQs:           faqStore,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Gatherer:       gatherer,
		Logger:         logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("advisor backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
