package scoring

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestFloat_MarshalNonFinite(t *testing.T) {
	cases := map[Float]string{
		Float(1.5):            "1.5",
		Float(math.NaN()):     "null",
		Float(math.Inf(-1)):   "null",
		Float(math.Inf(1)):    "null",
		Float(-999):           "-999",
		Float(0.333333333333): "0.333333333333",
	}
	for in, want := range cases {
		got, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", in, err)
		}
		if string(got) != want {
			t.Errorf("Marshal(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestFloat_UnmarshalNull(t *testing.T) {
	var f Float
	if err := json.Unmarshal([]byte("null"), &f); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(f)) {
		t.Errorf("got %v, want NaN", f)
	}
	if err := json.Unmarshal([]byte("2.5"), &f); err != nil || float64(f) != 2.5 {
		t.Errorf("got %v,%v want 2.5", f, err)
	}
}

func TestDetail_SentinelSerializes(t *testing.T) {
	d := newDetail(math.Inf(-1))
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("sentinel detail must serialize: %v", err)
	}
	if !strings.Contains(string(raw), `"score":null`) {
		t.Errorf("expected null score in %s", raw)
	}
	if !strings.Contains(string(raw), `"valid":false`) {
		t.Errorf("expected valid=false in %s", raw)
	}

	var back Detail
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if !math.IsNaN(float64(back.Annualized)) {
		t.Errorf("annualized = %v, want NaN after round trip", back.Annualized)
	}
}
