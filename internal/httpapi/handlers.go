package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/ledger"
)

type validateRequest struct {
	Token        domain.TokenRef `json:"token"`
	LiquidityUsd *float64        `json:"liquidityUsd,omitempty"`
	Source       string          `json:"source,omitempty"`
	Enrich       bool            `json:"enrich,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token.MintAddress == "" {
		respondError(w, http.StatusBadRequest, "token.mintAddress is required")
		return
	}

	token := req.Token
	if req.Enrich {
		token = s.enricher.EnrichTokenInfo(r.Context(), token)
	}
	result := s.validator.ValidateForSource(r.Context(), token, req.LiquidityUsd, req.Source)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token":  token,
		"result": result,
	})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var pool domain.PoolInfo
	if err := json.NewDecoder(r.Body).Decode(&pool); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if pool.TokenAMint == "" || pool.TokenBMint == "" {
		respondError(w, http.StatusBadRequest, "pool mints are required")
		return
	}

	opp := s.scorer.Detect(r.Context(), pool)
	if opp == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, opp)
}

type recordBuyRequest struct {
	Token     domain.TokenRef `json:"token"`
	Amount    float64         `json:"amount"`
	Price     float64         `json:"price"`
	Cost      float64         `json:"cost"`
	Strategy  string          `json:"strategy"`
	LatencyMs int64           `json:"latencyMs"`
	Reason    string          `json:"reason"`
}

func (s *Server) handleRecordBuy(w http.ResponseWriter, r *http.Request) {
	var req recordBuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token.MintAddress == "" {
		respondError(w, http.StatusBadRequest, "token.mintAddress is required")
		return
	}

	id := s.ledger.RecordBuy(r.Context(), req.Token, req.Amount, req.Price, req.Cost, req.Strategy, req.LatencyMs, req.Reason)
	respondJSON(w, http.StatusCreated, map[string]string{"tradeId": id})
}

type recordSellRequest struct {
	Price    float64 `json:"price"`
	Amount   float64 `json:"amount"`
	Proceeds float64 `json:"proceeds"`
}

func (s *Server) handleRecordSell(w http.ResponseWriter, r *http.Request) {
	var req recordSellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id := mux.Vars(r)["id"]
	if !s.ledger.RecordSell(r.Context(), id, req.Price, req.Amount, req.Proceeds) {
		respondError(w, http.StatusNotFound, "trade not found or already closed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type addNoteRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	var req addNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	id := mux.Vars(r)["id"]
	if !s.ledger.AddNote(r.Context(), id, req.Text) {
		respondError(w, http.StatusNotFound, "trade not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	var filter ledger.Filter

	if status := r.URL.Query().Get("status"); status != "" {
		switch domain.TradeStatus(status) {
		case domain.TradeStatusOpen, domain.TradeStatusClosed:
			filter.Status = domain.TradeStatus(status)
		default:
			respondError(w, http.StatusBadRequest, "status must be open or closed")
			return
		}
	}

	var err error
	if filter.From, err = parseMsParam(r, "from"); err != nil {
		respondError(w, http.StatusBadRequest, "from must be a unix millisecond timestamp")
		return
	}
	if filter.To, err = parseMsParam(r, "to"); err != nil {
		respondError(w, http.StatusBadRequest, "to must be a unix millisecond timestamp")
		return
	}

	respondJSON(w, http.StatusOK, s.ledger.TradeRecords(filter))
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.ledger.Statistics())
}

func (s *Server) handleTokenPerformance(w http.ResponseWriter, r *http.Request) {
	if mint := r.URL.Query().Get("mint"); mint != "" {
		perf, ok := s.ledger.TokenPerformance(mint)
		if !ok {
			respondError(w, http.StatusNotFound, "no trades recorded for mint")
			return
		}
		respondJSON(w, http.StatusOK, perf)
		return
	}
	respondJSON(w, http.StatusOK, s.ledger.TokenPerformances())
}

func (s *Server) handleStrategyEvaluation(w http.ResponseWriter, r *http.Request) {
	if id := r.URL.Query().Get("id"); id != "" {
		eval, ok := s.ledger.StrategyEvaluation(id)
		if !ok {
			respondError(w, http.StatusNotFound, "no trades recorded for strategy")
			return
		}
		respondJSON(w, http.StatusOK, eval)
		return
	}
	respondJSON(w, http.StatusOK, s.ledger.StrategyEvaluations())
}

func parseMsParam(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
