package quran

import "testing"

func TestStripBasmala(t *testing.T) {
	body := "الٓمٓ"

	if got := StripBasmala(2, 1, Basmala+" "+body); got != body {
		t.Errorf("chapter 2 verse 1: got %q, want %q", got, body)
	}
	if got := StripBasmala(1, 1, Basmala); got != Basmala {
		t.Errorf("chapter 1 verse 1 must keep the basmala, got %q", got)
	}
	if got := StripBasmala(2, 2, Basmala+" "+body); got != Basmala+" "+body {
		t.Errorf("verse 2 must be untouched, got %q", got)
	}
	if got := StripBasmala(3, 1, body); got != body {
		t.Errorf("text without basmala must be untouched, got %q", got)
	}
}
