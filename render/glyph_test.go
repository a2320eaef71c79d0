package render

import (
	"strings"
	"testing"

	"github.com/danielledeleo/ayatembed/quran"
)

func TestSanitizeGlyph(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"character reference passes through", "&#xFB51;", "&#xFB51;"},
		{"bare glyph passes through", "ﱁ", "ﱁ"},
		{"tag is escaped", "<b>x</b>", "&lt;b&gt;x&lt;/b&gt;"},
		{"xss payload is escaped", "<img src=x onerror=alert(1)>", "&lt;img src=x onerror=alert(1)&gt;"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeGlyph(tc.raw); got != tc.want {
				t.Errorf("SanitizeGlyph(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestSanitizeGlyphLengthGuard(t *testing.T) {
	long := strings.Repeat("&#xFB51;", 300) // 2400 characters
	if got := SanitizeGlyph(long); got != "" {
		t.Errorf("expected oversized payload to be dropped, got %d bytes", len(got))
	}
	if got := SanitizeGlyphForMarkup(long); got != "" {
		t.Errorf("expected oversized payload to be dropped, got %d bytes", len(got))
	}

	atLimit := strings.Repeat("a", MaxGlyphLength)
	if got := SanitizeGlyph(atLimit); got != atLimit {
		t.Error("payload at the limit must pass")
	}
}

func TestSanitizeGlyphForMarkup(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"hex reference", "&#xFB51;&#xFB52;", "&#xFB51;&#xFB52;"},
		{"decimal reference", "&#64337;", "&#64337;"},
		{"named reference", "&amp;", "&amp;"},
		{"bare ampersand is escaped", "a & b", "a &amp; b"},
		{"unterminated reference is escaped", "&#xFB51", "&amp;#xFB51"},
		{"quote is escaped", `x" onmouseover="y`, "x&#34; onmouseover=&#34;y"},
		{"tag is escaped", "<script>", "&lt;script&gt;"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeGlyphForMarkup(tc.raw); got != tc.want {
				t.Errorf("SanitizeGlyphForMarkup(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestEndMarker(t *testing.T) {
	if got := EndMarker(quran.Word{Kind: quran.WordKindEnd, Text: "١"}); got != "١" {
		t.Errorf("got %q", got)
	}
	if got := EndMarker(quran.Word{Kind: quran.WordKindEnd}); got != DefaultEndMarker {
		t.Errorf("expected default marker, got %q", got)
	}
	if got := EndMarker(quran.Word{Kind: quran.WordKindEnd, Text: "<i>"}); got != "&lt;i&gt;" {
		t.Errorf("expected escaped marker, got %q", got)
	}
}

func TestFormatReference(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		native   bool
		want     string
	}{
		{"latin single", 1, 1, false, "Al-Fatiha (1:1)"},
		{"latin range", 2, 5, false, "Al-Fatiha (1:2-5)"},
		{"native single", 1, 1, true, "الفاتحة (١)"},
		{"native range", 2, 7, true, "الفاتحة (٢-٧)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatReference("Al-Fatiha", "الفاتحة", 1, tc.from, tc.to, tc.native)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestLocalizeDigits(t *testing.T) {
	if got := LocalizeDigits(286); got != "٢٨٦" {
		t.Errorf("got %q, want ٢٨٦", got)
	}
	if got := LocalizeDigits(10); got != "١٠" {
		t.Errorf("got %q, want ١٠", got)
	}
}

func TestPageFontFaces(t *testing.T) {
	faces := PageFontFaces([]int{3, 1, 3, 0, 605, 2})
	if n := strings.Count(faces, "@font-face"); n != 3 {
		t.Fatalf("expected 3 font faces, got %d:\n%s", n, faces)
	}
	i1 := strings.Index(faces, `"QPC Mushaf Page 1"`)
	i2 := strings.Index(faces, `"QPC Mushaf Page 2"`)
	i3 := strings.Index(faces, `"QPC Mushaf Page 3"`)
	if !(i1 < i2 && i2 < i3) {
		t.Error("expected font faces in ascending page order")
	}
	if !strings.Contains(faces, PageFontBaseURL+"/p2.woff2") {
		t.Error("expected page 2 font url")
	}
}
