package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/ledger"
	"solana-trade-scout/internal/pricing"
	"solana-trade-scout/internal/scorer"
	"solana-trade-scout/internal/storage/memory"
	"solana-trade-scout/internal/tokenlist"
	"solana-trade-scout/internal/validator"
)

const (
	wsolMint = "So11111111111111111111111111111111111111112"
	newMint  = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

type fixedPrices struct {
	quote *pricing.Quote
}

func (f *fixedPrices) Quote(context.Context, domain.PoolInfo, string) (*pricing.Quote, error) {
	return f.quote, nil
}

func newTestServer(t *testing.T) (*Server, *ledger.Ledger, *memory.ReportStore) {
	t.Helper()
	dir := t.TempDir()

	registry := tokenlist.NewRegistry(tokenlist.Options{
		WhitelistPath: filepath.Join(dir, "whitelist.json"),
		BlacklistPath: filepath.Join(dir, "blacklist.json"),
	})
	v := validator.New(registry, validator.Config{EnforceBlacklist: true, MinLiquidityUsd: 1000}, nil)
	e := validator.NewEnricher(nil, nil)

	prices := &fixedPrices{quote: &pricing.Quote{PriceUsd: 0.0005, LiquidityUsd: 6000, QuoteUsd: 150}}
	sc := scorer.New(v, e, prices, scorer.Config{
		MaxInitialPriceUsd: 0.01,
		MinLiquidityUsd:    1000,
		TradeSizeUsd:       50,
		TargetProfitPct:    25,
	}, nil)

	l, err := ledger.New(context.Background(), ledger.Options{Store: memory.NewTradeRecordStore()})
	require.NoError(t, err)

	reports := memory.NewReportStore()
	return New(v, e, sc, l, reports), l, reports
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/validate", validateRequest{
		Token: domain.TokenRef{MintAddress: newMint, Name: "Bonk", Symbol: "BONK"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Result domain.ValidationResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Result.IsValid)

	// Liquidity below the floor is rejected.
	liq := 100.0
	rec = doJSON(t, router, http.MethodPost, "/api/v1/validate", validateRequest{
		Token:        domain.TokenRef{MintAddress: newMint},
		LiquidityUsd: &liq,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Result.IsValid)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/validate", validateRequest{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	pool := domain.PoolInfo{
		Address:         "pool1",
		DEX:             "raydium",
		TokenAMint:      newMint,
		TokenBMint:      wsolMint,
		TokenAVault:     "vaultA",
		TokenBVault:     "vaultB",
		FirstDetectedAt: time.Now().UnixMilli(),
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/detect", pool)
	require.Equal(t, http.StatusOK, rec.Code)

	var opp domain.Opportunity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opp))
	require.Equal(t, newMint, opp.TargetToken.MintAddress)

	// Both sides base -> no opportunity.
	pool.TokenAMint = wsolMint
	rec = doJSON(t, router, http.MethodPost, "/api/v1/detect", pool)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTradeLifecycleOverHTTP(t *testing.T) {
	srv, _, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/trades", recordBuyRequest{
		Token:    domain.TokenRef{MintAddress: newMint, Symbol: "BONK"},
		Amount:   1000,
		Price:    0.001,
		Cost:     1.0,
		Strategy: "take-profit",
		Reason:   "new pool",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		TradeID string `json:"tradeId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.TradeID)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/trades/%s/notes", created.TradeID), addNoteRequest{Text: "watching"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/trades/%s/sell", created.TradeID), recordSellRequest{
		Price: 0.0012, Amount: 1000, Proceeds: 1.2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/trades/unknown/sell", recordSellRequest{Proceeds: 1})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/trades?status=closed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var trades []domain.TradeRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trades))
	require.Len(t, trades, 1)
	require.InDelta(t, 0.2, trades[0].Profit, 1e-9)
	require.Equal(t, []string{"watching"}, trades[0].Notes)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/trades/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.TradeStatistics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, 1, stats.ClosedTrades)
	require.InDelta(t, 100, stats.SuccessRatePct, 1e-9)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/performance/tokens?mint="+newMint, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var perf domain.TokenPerformance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perf))
	require.Equal(t, 1, perf.Trades)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/performance/strategies?id=take-profit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLatestReportEndpoint(t *testing.T) {
	srv, _, reports := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodGet, "/api/v1/report/latest", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, reports.Save(context.Background(), &domain.AnalysisReport{GeneratedAt: 1700000000000}))
	rec = doJSON(t, router, http.MethodGet, "/api/v1/report/latest", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report domain.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, int64(1700000000000), report.GeneratedAt)
}
