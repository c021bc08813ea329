// Command scout runs the trading-opportunity pipeline: it listens for new
// Raydium pools, validates and scores them, serves the HTTP API and runs
// periodic trend analysis over the trade ledger.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"solana-trade-scout/internal/analyzer"
	"solana-trade-scout/internal/cache"
	"solana-trade-scout/internal/config"
	"solana-trade-scout/internal/httpapi"
	"solana-trade-scout/internal/ledger"
	"solana-trade-scout/internal/listener"
	"solana-trade-scout/internal/observability"
	"solana-trade-scout/internal/pricing"
	"solana-trade-scout/internal/scorer"
	"solana-trade-scout/internal/solana"
	"solana-trade-scout/internal/storage"
	chstore "solana-trade-scout/internal/storage/clickhouse"
	"solana-trade-scout/internal/storage/jsonfile"
	pgstore "solana-trade-scout/internal/storage/postgres"
	"solana-trade-scout/internal/tokenlist"
	"solana-trade-scout/internal/validator"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	pretty := flag.Bool("pretty", false, "Human-readable console logging")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// .env is optional; environment overrides are applied by config.Load.
	_ = godotenv.Load()

	setupLogging(*pretty, *debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("configuration load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		zlog.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	metrics := observability.NewMetrics("")

	// List registry and validator.
	registry := tokenlist.NewRegistry(tokenlist.Options{
		WhitelistPath:  cfg.Validator.WhitelistPath,
		BlacklistPath:  cfg.Validator.BlacklistPath,
		CombinedPath:   cfg.Validator.CombinedListPath,
		ReloadInterval: cfg.Validator.ReloadInterval.Std(),
		Metrics:        metrics,
	})
	valid := validator.New(registry, validator.Config{
		EnforceWhitelist: cfg.Validator.EnforceWhitelist,
		EnforceBlacklist: cfg.Validator.EnforceBlacklist,
		RequireMetadata:  cfg.Validator.RequireMetadata,
		RequireDecimals:  cfg.Validator.RequireDecimals,
		MinLiquidityUsd:  cfg.Validator.MinLiquidityUsd,
	}, metrics)

	// Chain access and enrichment.
	rpc := solana.NewHTTPClient(cfg.Solana.RPCEndpoint)
	lookup := solana.NewMetadataLookup(rpc)
	tokenCache := buildCache(cfg)
	enricher := validator.NewEnricher(tokenCache, lookup)

	estimator := pricing.NewEstimator(rpc, cfg.Solana.SolPriceUsd)
	sc := scorer.New(valid, enricher, estimator, scorer.Config{
		MaxInitialPriceUsd: cfg.Scorer.MaxInitialPriceUsd,
		MinLiquidityUsd:    cfg.Scorer.MinLiquidityUsd,
		TradeSizeUsd:       cfg.Scorer.TradeSizeUsd,
		TargetProfitPct:    cfg.Scorer.TargetProfitPct,
	}, metrics)

	// Ledger storage.
	tradeStore, analyticsStore, cleanup := buildStores(ctx, cfg)
	defer cleanup()

	ldgr, err := ledger.New(ctx, ledger.Options{
		Store:         tradeStore,
		Analytics:     analyticsStore,
		RetentionDays: cfg.Ledger.RetentionDays,
		Metrics:       metrics,
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("trade ledger initialization failed")
	}

	// Periodic analysis.
	reports := jsonfile.NewReportStore(cfg.Analyzer.ReportsDir)
	runner := analyzer.NewRunner(analyzer.RunnerOptions{
		Ledger:    ldgr,
		Reports:   reports,
		Interval:  cfg.Analyzer.Interval.Std(),
		MinTrades: cfg.Analyzer.MinTradesForAnalysis,
		Metrics:   metrics,
	})
	go runner.Run(ctx)
	go func() {
		for report := range runner.Completed() {
			zlog.Info().Int64("generatedAt", report.GeneratedAt).Msg("analysis report available")
		}
	}()

	// Pool discovery feeding the scorer.
	go runListener(ctx, cfg, rpc, sc)

	// HTTP API.
	api := httpapi.New(valid, enricher, sc, ldgr, reports)
	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      api.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	go func() {
		zlog.Info().Str("addr", cfg.Server.ListenAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error().Err(err).Msg("http server failed")
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Warn().Err(err).Msg("http server shutdown failed")
	}
	zlog.Info().Msg("scout stopped")
}

func setupLogging(pretty, debug bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if pretty {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func buildCache(cfg *config.Config) cache.TokenCache {
	if cfg.Cache.RedisAddr != "" {
		zlog.Info().Str("addr", cfg.Cache.RedisAddr).Msg("using redis token cache")
		return cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.TTL.Std())
	}
	return cache.NewMemoryCache(cfg.Cache.TTL.Std())
}

// buildStores picks the ledger store (postgres when a DSN is configured,
// JSON file otherwise) and the optional clickhouse archive.
func buildStores(ctx context.Context, cfg *config.Config) (storage.TradeRecordStore, storage.TradeAnalyticsStore, func()) {
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	var tradeStore storage.TradeRecordStore
	if cfg.Ledger.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.Ledger.PostgresDSN)
		if err != nil {
			zlog.Fatal().Err(err).Msg("postgres connection failed")
		}
		closers = append(closers, pool.Close)

		store := pgstore.NewTradeRecordStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("postgres schema setup failed")
		}
		zlog.Info().Msg("using postgres trade record store")
		tradeStore = store
	} else {
		zlog.Info().Str("path", cfg.Ledger.TradeRecordsPath).Msg("using json file trade record store")
		tradeStore = jsonfile.NewTradeRecordStore(cfg.Ledger.TradeRecordsPath)
	}

	var analyticsStore storage.TradeAnalyticsStore
	if cfg.Ledger.ClickhouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.Ledger.ClickhouseDSN)
		if err != nil {
			zlog.Fatal().Err(err).Msg("clickhouse connection failed")
		}
		closers = append(closers, func() { conn.Close() })

		store := chstore.NewTradeAnalyticsStore(conn)
		if err := store.EnsureSchema(ctx); err != nil {
			zlog.Fatal().Err(err).Msg("clickhouse schema setup failed")
		}
		zlog.Info().Msg("clickhouse trade archive enabled")
		analyticsStore = store
	}

	return tradeStore, analyticsStore, cleanup
}

// runListener keeps the pool subscription alive, feeding every
// discovered pool through the scorer.
func runListener(ctx context.Context, cfg *config.Config, rpc solana.RPCClient, sc *scorer.Scorer) {
	for ctx.Err() == nil {
		ws, err := solana.NewWSClient(ctx, cfg.Solana.WSEndpoint, nil)
		if err != nil {
			zlog.Error().Err(err).Msg("websocket connection failed, retrying in 5s")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
				continue
			}
		}

		l := listener.New(ws, rpc)
		go func() {
			for pool := range l.Pools() {
				if opp := sc.Detect(ctx, pool); opp != nil {
					zlog.Info().
						Str("mint", opp.TargetToken.MintAddress).
						Float64("priority", opp.PriorityScore).
						Msg("opportunity ready for execution")
				}
			}
		}()

		if err := l.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zlog.Error().Err(err).Msg("pool listener failed, restarting")
		}
		ws.Close()
	}
}
