package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobmatch/internal/artifact"
	"github.com/kailas-cloud/jobmatch/internal/config"
	dbRedis "github.com/kailas-cloud/jobmatch/internal/db/redis"
	logpkg "github.com/kailas-cloud/jobmatch/internal/logger"
	"github.com/kailas-cloud/jobmatch/internal/metrics"
	"github.com/kailas-cloud/jobmatch/internal/repository/matchcache"
	chiTransport "github.com/kailas-cloud/jobmatch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/jobmatch/internal/usecase/health"
	matchuc "github.com/kailas-cloud/jobmatch/internal/usecase/match"
	modeluc "github.com/kailas-cloud/jobmatch/internal/usecase/model"
	"github.com/kailas-cloud/jobmatch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger("jobmatch", env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting jobmatch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("artifacts_dir", cfg.Artifacts.Dir),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	metrics.RegisterMatchMetrics()

	// Artifacts: download what is missing, then load. Failure here is fatal.
	layout := artifact.Layout{
		Dir:        cfg.Artifacts.Dir,
		Vectorizer: cfg.Artifacts.VectorizerFile,
		Matrix:     cfg.Artifacts.MatrixFile,
		Dataset:    cfg.Artifacts.DatasetFile,
	}
	remote := artifact.Remote{
		VectorizerURL: cfg.Artifacts.VectorizerURL,
		MatrixURL:     cfg.Artifacts.MatrixURL,
		DatasetURL:    cfg.Artifacts.DatasetURL,
	}
	fetcher := artifact.NewFetcher(
		&http.Client{Timeout: time.Duration(cfg.Artifacts.DownloadTimeoutSec) * time.Second},
		metrics.ArtifactDownloadBytes,
		logger,
	)
	provisioner := artifact.NewProvisioner(layout, remote, fetcher)

	holder := artifact.NewHolder(nil)
	modelSvc := modeluc.New(provisioner, holder, modeluc.Metrics{
		Reloads:   metrics.ModelReloadsTotal,
		Documents: metrics.ModelDocuments,
		Terms:     metrics.ModelTerms,
	}, logger)

	ctx := context.Background()
	if _, err := modelSvc.Reload(ctx); err != nil {
		logger.Fatal("Failed to load model artifacts", zap.Error(err))
	}

	// Optional result cache
	var scorer matchuc.Scorer = matchuc.TFIDFScorer{}
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache",
			zap.String("driver", cfg.Cache.Driver),
			zap.Strings("addrs", cfg.Cache.Addrs),
		)

		scorer = matchcache.New(scorer, store,
			time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.MatchCacheTotal, logger)
		cachePinger = store
	}

	matchSvc := matchuc.New(holder, scorer, cfg.Match(), matchuc.Metrics{
		Queries:  metrics.MatchQueriesTotal,
		Duration: metrics.MatchDuration,
	})
	healthSvc := healthuc.New(holder, cachePinger)

	server := chiTransport.NewServer(matchSvc, modelSvc, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{
		APIKeys:        cfg.Auth.APIKeys,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// SIGHUP reloads artifacts, SIGINT/SIGTERM shut down
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

wait:
	for {
		select {
		case <-hup:
			logger.Info("Received SIGHUP, reloading model")
			_, _ = modelSvc.Reload(ctx)
		case <-quit:
			break wait
		}
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
