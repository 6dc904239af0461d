package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quantlab/rotor/internal/core"
)

func writeCSV(t *testing.T, dir, code, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, code+".csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadInstrument_CloseColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "510300", `date,open,close
2024-01-02,3.50,3.55
2024-01-03,3.55,3.60
2024-01-04,3.60,3.58
`)

	s, err := New(dir).LoadInstrument("510300")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
	if s.First().Price != 3.55 || s.Last().Price != 3.58 {
		t.Errorf("prices = %v..%v", s.First().Price, s.Last().Price)
	}
}

func TestLoadInstrument_NetValueColumn(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "fund", `date,net_value
2024/01/02,1.001
2024/01/03,1.005
`)

	s, err := New(dir).LoadInstrument("fund")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.Last().Price != 1.005 {
		t.Errorf("series = %d points, last %v", s.Len(), s.Last().Price)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !s.First().Date.Equal(want) {
		t.Errorf("first date = %v, want %v", s.First().Date, want)
	}
}

func TestLoadInstrument_SkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "messy", `date,close
2024-01-02,10.0
not-a-date,11.0
2024-01-03,abc
2024-01-04,-5
2024-01-05,12.0
`)

	s, err := New(dir).LoadInstrument("messy")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Errorf("len = %d, want 2 valid rows", s.Len())
	}
}

func TestLoadInstrument_DuplicateDateLastWins(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "dup", `date,close
2024-01-02,10.0
2024-01-02,11.0
2024-01-03,12.0
`)

	s, err := New(dir).LoadInstrument("dup")
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.First().Price != 11.0 {
		t.Errorf("len=%d first=%v, want corrected price 11.0", s.Len(), s.First().Price)
	}
}

func TestLoadInstrument_MissingFile(t *testing.T) {
	_, err := New(t.TempDir()).LoadInstrument("ghost")
	if !errors.Is(err, core.ErrSeriesNotFound) {
		t.Errorf("expected ErrSeriesNotFound, got %v", err)
	}
}

func TestLoadInstrument_BadHeader(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "headless", `timestamp,price
2024-01-02,10.0
`)
	_, err := New(dir).LoadInstrument("headless")
	if !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("expected ErrSeriesInvalid, got %v", err)
	}
}

func TestLoadPool(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "A", "date,close\n2024-01-02,10\n")
	writeCSV(t, dir, "B", "date,close\n2024-01-02,20\n")

	store, err := New(dir).LoadPool([]string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.Get("A"); !ok {
		t.Error("A missing from store")
	}
	if _, ok := store.Get("B"); !ok {
		t.Error("B missing from store")
	}

	if _, err := New(dir).LoadPool([]string{"A", "ghost"}); err == nil {
		t.Error("expected error for missing pool member")
	}
}
