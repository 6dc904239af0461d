package perf

import (
	"math"
	"testing"
	"time"
)

func dates(n int) []time.Time {
	out := make([]time.Time, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = base.AddDate(0, 0, i)
	}
	return out
}

func TestMaxDrawdown(t *testing.T) {
	values := []float64{100, 120, 90, 110, 80, 130}
	// Peak 120 down to 80: 80/120 - 1 = -1/3.
	want := 80.0/120.0 - 1
	if got := MaxDrawdown(values); math.Abs(got-want) > 1e-9 {
		t.Errorf("MaxDrawdown = %v, want %v", got, want)
	}
}

func TestMaxDrawdown_MonotonicRise(t *testing.T) {
	if got := MaxDrawdown([]float64{100, 110, 120}); got != 0 {
		t.Errorf("MaxDrawdown = %v, want 0 for a monotonic rise", got)
	}
}

func TestMaxDrawdown_Empty(t *testing.T) {
	if got := MaxDrawdown(nil); got != 0 {
		t.Errorf("MaxDrawdown(nil) = %v, want 0", got)
	}
}

func TestSharpeRatio_ZeroVariance(t *testing.T) {
	if got := SharpeRatio([]float64{100, 100, 100, 100}); got != 0 {
		t.Errorf("SharpeRatio = %v, want 0 with no variance", got)
	}
	if got := SharpeRatio([]float64{100, 110}); got != 0 {
		t.Errorf("SharpeRatio = %v, want 0 with a single change", got)
	}
}

func TestSharpeRatio_Sign(t *testing.T) {
	rising := []float64{100, 101, 103, 104, 107, 108}
	if got := SharpeRatio(rising); got <= 0 {
		t.Errorf("SharpeRatio = %v, want positive for rising values", got)
	}
	falling := []float64{108, 107, 104, 103, 101, 100}
	if got := SharpeRatio(falling); got >= 0 {
		t.Errorf("SharpeRatio = %v, want negative for falling values", got)
	}
}

func TestAnalyze(t *testing.T) {
	values := []float64{100, 120, 90, 110, 80, 130}
	ds := dates(len(values))
	s := Analyze(ds, values)

	if math.Abs(s.TotalReturn-0.30) > 1e-9 {
		t.Errorf("TotalReturn = %v, want 0.30", s.TotalReturn)
	}
	if s.FinalValue != 130 {
		t.Errorf("FinalValue = %v, want 130", s.FinalValue)
	}
	// 5 elapsed days: (1.3)^(365.25/5) - 1.
	wantAnn := math.Pow(1.3, 365.25/5) - 1
	if math.Abs(s.AnnualizedReturn-wantAnn) > 1e-6 {
		t.Errorf("AnnualizedReturn = %v, want %v", s.AnnualizedReturn, wantAnn)
	}
	if math.Abs(s.MaxDrawdown-(80.0/120.0-1)) > 1e-9 {
		t.Errorf("MaxDrawdown = %v, want -1/3", s.MaxDrawdown)
	}
}

func TestAnalyze_DegenerateInputs(t *testing.T) {
	if s := Analyze(nil, nil); s != (Summary{}) {
		t.Errorf("Analyze(nil) = %+v, want zero summary", s)
	}
	// Single observation: no elapsed time, no returns.
	s := Analyze(dates(1), []float64{100})
	if s.TotalReturn != 0 || s.AnnualizedReturn != 0 || s.FinalValue != 100 {
		t.Errorf("single-point summary = %+v", s)
	}
	// Mismatched lengths are refused.
	if s := Analyze(dates(2), []float64{100}); s != (Summary{}) {
		t.Errorf("mismatched Analyze = %+v, want zero summary", s)
	}
}
