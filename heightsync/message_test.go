package heightsync

import (
	"math"
	"testing"
)

func TestAppliedHeight(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{300, 300},
		{299.5, 300},
		{299.4, 299},
		{0, 1},
		{0.4, 1},
		{-50, 1},
	}
	for _, tc := range tests {
		got, ok := Message{Height: tc.in}.AppliedHeight()
		if !ok || got != tc.want {
			t.Errorf("AppliedHeight(%v) = %d, %v; want %d", tc.in, got, ok, tc.want)
		}
	}

	for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, ok := (Message{Height: h}).AppliedHeight(); ok {
			t.Errorf("AppliedHeight(%v) should not be ok", h)
		}
	}
}

func TestParseMessage(t *testing.T) {
	for _, raw := range []string{
		``,
		`not json`,
		`null`,
		` null `,
		`[]`,
		`"qveg:height"`,
		`300`,
		`{"type":"qveg:height","id":"A"}`,
		`{"type":"qveg:height","id":"A","height":null}`,
		`{"type":"qveg:height","id":"A","height":"300"}`,
		`{"type":"qveg:height","id":1,"height":300}`,
	} {
		if m, ok := ParseMessage([]byte(raw)); ok {
			t.Errorf("%q: expected rejection, got %+v", raw, m)
		}
	}

	m, ok := ParseMessage([]byte(` {"type":"qveg:height","id":"A","height":412.7,"extra":true}`))
	if !ok {
		t.Fatal("expected a valid payload to parse")
	}
	if !m.Matches("A") || m.Matches("B") || m.Matches("") {
		t.Errorf("unexpected identifier matching for %+v", m)
	}
	if px, _ := m.AppliedHeight(); px != 413 {
		t.Errorf("expected 413, got %d", px)
	}

	if m, ok := ParseMessage([]byte(`{"type":"other","id":"A","height":1}`)); !ok || m.Matches("A") {
		t.Error("a foreign type tag parses but never matches")
	}
}
