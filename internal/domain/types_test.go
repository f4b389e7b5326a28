package domain

import (
	"encoding/json"
	"testing"
)

func TestRawBarUnmarshalObject(t *testing.T) {
	data := []byte(`{"timestamp":"2024-01-02","open":"100.5","high":101,"low":99.5,"close":"100.75","volume":12345}`)

	var b RawBar
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("unmarshal object form: %v", err)
	}
	if b.Timestamp != "2024-01-02" {
		t.Errorf("Timestamp = %q, want %q", b.Timestamp, "2024-01-02")
	}
	if s, ok := b.Open.(string); !ok || s != "100.5" {
		t.Errorf("Open = %#v, want string \"100.5\"", b.Open)
	}
	if f, ok := b.High.(float64); !ok || f != 101 {
		t.Errorf("High = %#v, want float64 101", b.High)
	}
}

func TestRawBarUnmarshalCandleArray(t *testing.T) {
	data := []byte(`["2024-01-02T00:00:00", "100.5", "101.0", "99.5", "100.75", "12345"]`)

	var b RawBar
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("unmarshal array form: %v", err)
	}
	if b.Timestamp != "2024-01-02T00:00:00" {
		t.Errorf("Timestamp = %q, want %q", b.Timestamp, "2024-01-02T00:00:00")
	}
	if s, ok := b.Close.(string); !ok || s != "100.75" {
		t.Errorf("Close = %#v, want string \"100.75\"", b.Close)
	}
}

func TestRawBarUnmarshalShortArray(t *testing.T) {
	var b RawBar
	if err := json.Unmarshal([]byte(`["2024-01-02", 1, 2]`), &b); err == nil {
		t.Error("expected error for a 3-element candle array")
	}
}

func TestDisplaySymbol(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"RELIANCE-EQ", "RELIANCE"},
		{"TCS-BE", "TCS"},
		{"AAPL", "AAPL"},
		{"", ""},
	}
	for _, c := range cases {
		if got := DisplaySymbol(c.in); got != c.want {
			t.Errorf("DisplaySymbol(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReturn(t *testing.T) {
	if got := Return(100, 110); got != 10 {
		t.Errorf("Return(100, 110) = %v, want 10", got)
	}
	if got := Return(100, 95); got != -5 {
		t.Errorf("Return(100, 95) = %v, want -5", got)
	}
}
