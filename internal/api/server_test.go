package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/quantlab/rotor/internal/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// writeFixtures produces a data directory with one rising and one flat
// instrument, 40 trading days each.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var up, flat strings.Builder
	up.WriteString("date,close\n")
	flat.WriteString("date,close\n")
	for i := 0; i < 40; i++ {
		date := base.AddDate(0, 0, i).Format("2006-01-02")
		fmt.Fprintf(&up, "%s,%.6f\n", date, math.Exp(0.01*float64(i)))
		fmt.Fprintf(&flat, "%s,%.6f\n", date, 100.0)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "UP.csv"), []byte(up.String()), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FLAT.csv"), []byte(flat.String()), 0644))
	return dir
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Backtest.InstrumentPool = []string{"UP", "FLAT"}
	cfg.Data.Dir = writeFixtures(t)

	s := NewServer(cfg, zap.NewNop())
	ts := httptest.NewServer(s.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string, out any) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts, "/api/v1/health", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestBacktest_OK(t *testing.T) {
	ts := newTestServer(t)

	var body backtestResponse
	resp := postJSON(t, ts, "/api/v1/backtest", `{}`, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body.RunID)
	require.Equal(t, "weighted_single_window", body.Strategy)
	require.Equal(t, 40, body.Days)
	require.Equal(t, 1, body.Trades)
	require.Equal(t, "UP", body.FinalHeld)
	require.Greater(t, body.Summary.TotalReturn, 0.0)
}

func TestBacktest_VariantOverride(t *testing.T) {
	ts := newTestServer(t)

	var body backtestResponse
	resp := postJSON(t, ts, "/api/v1/backtest", `{"scoring_variant":"B"}`, &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "dual_window_sigmoid", body.Strategy)
}

func TestBacktest_MethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	resp := getJSON(t, ts, "/api/v1/backtest", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestBacktest_BadVariant(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/v1/backtest", `{"scoring_variant":"Z"}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBacktest_UnknownInstrument(t *testing.T) {
	ts := newTestServer(t)
	resp := postJSON(t, ts, "/api/v1/backtest", `{"pool":["UP","GHOST"]}`, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRank(t *testing.T) {
	ts := newTestServer(t)

	var body struct {
		Date    string      `json:"date"`
		Ranking []rankEntry `json:"ranking"`
	}
	resp := getJSON(t, ts, "/api/v1/rank?date=2024-02-05", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "2024-02-05", body.Date)
	require.Len(t, body.Ranking, 2)
	require.Equal(t, "UP", body.Ranking[0].Instrument)
	require.Equal(t, "FLAT", body.Ranking[1].Instrument)
}

func TestRank_BadDate(t *testing.T) {
	ts := newTestServer(t)
	resp := getJSON(t, ts, "/api/v1/rank?date=garbage", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := getJSON(t, ts, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
