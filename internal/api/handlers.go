package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/quantlab/rotor/internal/app"
	"github.com/quantlab/rotor/internal/core"
	"github.com/quantlab/rotor/internal/perf"
	"github.com/quantlab/rotor/internal/rotation"
	"github.com/quantlab/rotor/internal/scoring"
	"go.uber.org/zap"
)

// backtestRequest overrides the configured run parameters per request.
// Empty fields fall back to the server configuration.
type backtestRequest struct {
	Pool           []string `json:"pool"`
	ScoringVariant string   `json:"scoring_variant"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	InitialCapital float64  `json:"initial_capital"`
}

type backtestResponse struct {
	RunID     string       `json:"run_id"`
	Strategy  string       `json:"strategy"`
	Pool      []string     `json:"pool"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Days      int          `json:"days"`
	Trades    int          `json:"trades"`
	FinalHeld string       `json:"final_held"`
	Summary   perf.Summary `json:"summary"`
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	cfg := s.cfg.Backtest
	if len(req.Pool) > 0 {
		cfg.InstrumentPool = req.Pool
	}
	if req.ScoringVariant != "" {
		cfg.ScoringVariant = req.ScoringVariant
	}
	if req.StartDate != "" {
		cfg.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		cfg.EndDate = req.EndDate
	}
	if req.InitialCapital > 0 {
		cfg.InitialCapital = req.InitialCapital
	}

	runCfg := *s.cfg
	runCfg.Backtest = cfg
	if err := runCfg.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	store, err := s.loader.LoadPool(cfg.InstrumentPool)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	result, err := app.RunBacktest(r.Context(), cfg, store, s.logger)
	if err != nil {
		s.metrics.RecordBacktest(cfg.ScoringVariant, "error", time.Since(start).Seconds())
		s.logger.Error("backtest failed", zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrSeriesNotFound) || errors.Is(err, core.ErrConfigInvalid) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	s.metrics.RecordBacktest(result.Strategy, "ok", time.Since(start).Seconds())
	for _, t := range result.Trades {
		s.metrics.RecordTrade(string(t.Action))
	}

	writeJSON(w, http.StatusOK, backtestResponse{
		RunID:     result.RunID,
		Strategy:  result.Strategy,
		Pool:      result.Pool,
		StartDate: result.StartDate.Format("2006-01-02"),
		EndDate:   result.EndDate.Format("2006-01-02"),
		Days:      len(result.Snapshots),
		Trades:    len(result.Trades),
		FinalHeld: finalHeld(result),
		Summary:   result.Summary,
	})
}

type rankEntry struct {
	Instrument string         `json:"instrument"`
	Detail     scoring.Detail `json:"detail"`
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}

	pool := s.cfg.Backtest.InstrumentPool
	if len(pool) == 0 {
		writeError(w, http.StatusBadRequest, "no instrument pool configured")
		return
	}

	date := core.Day(time.Now())
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date: expected YYYY-MM-DD")
			return
		}
		date = core.Day(parsed)
	}

	store, err := s.loader.LoadPool(pool)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ranker, err := app.NewRanker(s.cfg.Backtest, store, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ranked, _, err := ranker.Rank(r.Context(), pool, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	entries := make([]rankEntry, len(ranked))
	for i, rk := range ranked {
		entries[i] = rankEntry{Instrument: rk.Code, Detail: rk.Detail}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    date.Format("2006-01-02"),
		"ranking": entries,
	})
}

func finalHeld(result *rotation.Result) string {
	if len(result.Snapshots) == 0 {
		return core.CashLabel
	}
	return result.Snapshots[len(result.Snapshots)-1].Held
}
