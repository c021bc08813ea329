// Command report generates a one-shot analysis report from the trade
// ledger and prints it as Markdown or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"solana-trade-scout/internal/analyzer"
	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/ledger"
	"solana-trade-scout/internal/storage"
	"solana-trade-scout/internal/storage/jsonfile"
	"solana-trade-scout/internal/storage/memory"
	pgstore "solana-trade-scout/internal/storage/postgres"
)

func main() {
	tradeRecordsPath := flag.String("trade-records", "data/trade_records.json", "Path to the JSON trade ledger")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides the JSON file)")
	minTrades := flag.Int("min-trades", 10, "Minimum closed trades required for trend analysis")
	format := flag.String("format", "markdown", "Output format: markdown or json")
	outPath := flag.String("out", "", "Write the report to a file instead of stdout")
	useFixtures := flag.Bool("use-fixtures", false, "Generate from built-in demo trades instead of stored data")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx := context.Background()

	store, cleanup := pickStore(ctx, *tradeRecordsPath, *postgresDSN, *useFixtures)
	defer cleanup()

	ldgr, err := ledger.New(ctx, ledger.Options{Store: store})
	if err != nil {
		zlog.Fatal().Err(err).Msg("ledger load failed")
	}

	report := analyzer.BuildReport(ldgr, *minTrades, time.Now())
	if report == nil {
		fmt.Fprintf(os.Stderr, "not enough closed trades for analysis (need %d)\n", *minTrades)
		os.Exit(1)
	}

	var output []byte
	switch *format {
	case "markdown":
		output = []byte(analyzer.RenderMarkdown(report))
	case "json":
		output, err = json.MarshalIndent(report, "", "  ")
		if err != nil {
			zlog.Fatal().Err(err).Msg("report encoding failed")
		}
	default:
		zlog.Fatal().Str("format", *format).Msg("format must be markdown or json")
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, output, 0o644); err != nil {
			zlog.Fatal().Err(err).Msg("report write failed")
		}
		fmt.Printf("report written to %s\n", *outPath)
		return
	}
	fmt.Print(string(output))
}

func pickStore(ctx context.Context, jsonPath, dsn string, useFixtures bool) (storage.TradeRecordStore, func()) {
	if useFixtures {
		store := memory.NewTradeRecordStore()
		if err := store.Save(ctx, fixtureTrades()); err != nil {
			zlog.Fatal().Err(err).Msg("fixture setup failed")
		}
		return store, func() {}
	}

	if dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			zlog.Fatal().Err(err).Msg("postgres connection failed")
		}
		return pgstore.NewTradeRecordStore(pool), pool.Close
	}

	return jsonfile.NewTradeRecordStore(jsonPath), func() {}
}

// fixtureTrades builds a small demo ledger covering both strategies and
// a mix of outcomes, enough to exercise every report section.
func fixtureTrades() []*domain.TradeRecord {
	now := time.Now()
	profits := []float64{0.45, -0.12, 0.3, 0.05, -0.2, 0.6, 0.15, -0.05, 0.25, 0.1, 0.35, -0.15}
	mints := []string{"DemoMintAAA", "DemoMintBBB", "DemoMintCCC"}
	strategies := []string{"take-profit", "trailing-stop"}

	var out []*domain.TradeRecord
	for i, p := range profits {
		buyAt := now.Add(-time.Duration(len(profits)-i) * 6 * time.Hour)
		sellAt := buyAt.Add(45 * time.Minute)
		out = append(out, &domain.TradeRecord{
			ID:             fmt.Sprintf("%d-demo%04d", buyAt.UnixMilli(), i),
			TokenMint:      mints[i%len(mints)],
			TokenSymbol:    fmt.Sprintf("DEMO%d", i%len(mints)+1),
			BuyTimestamp:   buyAt.UnixMilli(),
			BuyPrice:       0.001,
			BuyAmount:      1000,
			BuyCost:        1.0,
			Status:         domain.TradeStatusClosed,
			SellTimestamp:  sellAt.UnixMilli(),
			SellPrice:      0.001 * (1 + p),
			SellAmount:     1000,
			SellProceeds:   1.0 + p,
			Profit:         p,
			ProfitPct:      p * 100,
			HoldingTimeSec: sellAt.Sub(buyAt).Seconds(),
			Strategy:       strategies[i%len(strategies)],
			Reason:         "demo fixture",
		})
	}
	return out
}
