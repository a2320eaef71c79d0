package quran

import "testing"

func TestLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"", English},
		{"en", English},
		{"ar", Arabic},
		{"ar-EG", Arabic},
		{"fr", English},
		{"not a tag!", English},
	}
	for _, tc := range tests {
		if got := ParseLanguage(tc.in); got != tc.want {
			t.Errorf("ParseLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if got := NegotiateLanguage("ar-SA,ar;q=0.9,en;q=0.5"); got != Arabic {
		t.Errorf("NegotiateLanguage = %q, want ar", got)
	}
	if Arabic.T(MsgRetry) == English.T(MsgRetry) {
		t.Error("expected a localized retry label")
	}
}
