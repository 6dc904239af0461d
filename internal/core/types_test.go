package core

import (
	"testing"
	"time"
)

func TestDay(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	in := time.Date(2024, 6, 3, 15, 42, 7, 123, loc)
	got := Day(in)

	want := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day(%v) = %v, want %v", in, got, want)
	}
	// Idempotent.
	if !Day(got).Equal(got) {
		t.Errorf("Day not idempotent: %v", Day(got))
	}
}

func TestPricePoint_IsValid(t *testing.T) {
	valid := PricePoint{Date: time.Now(), Price: 1.5}
	if !valid.IsValid() {
		t.Error("expected valid point")
	}
	if (PricePoint{Date: time.Now(), Price: 0}).IsValid() {
		t.Error("zero price must be invalid")
	}
	if (PricePoint{Price: 1}).IsValid() {
		t.Error("zero date must be invalid")
	}
}
