package embedurl

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/danielledeleo/ayatembed/quran"
	"pgregory.net/rapid"
)

func drawStyle(t *rapid.T) quran.CardStyle {
	color := rapid.StringMatching(`[0-9a-f]{6}`)
	return quran.CardStyle{
		AccentColor:     color.Draw(t, "accent"),
		BackgroundColor: color.Draw(t, "background"),
		TextColor:       color.Draw(t, "text"),
		Theme:           rapid.SampledFrom([]quran.Theme{quran.ThemeDark, quran.ThemeLight}).Draw(t, "theme"),

		ShowTranslation:       rapid.Bool().Draw(t, "translation"),
		ShowReference:         rapid.Bool().Draw(t, "reference"),
		ShowVerseNumbers:      rapid.Bool().Draw(t, "verseNumbers"),
		ShowAccentLine:        rapid.Bool().Draw(t, "accentLine"),
		TransparentBackground: rapid.Bool().Draw(t, "transparentBg"),
		ShowBrackets:          rapid.Bool().Draw(t, "brackets"),
		ContinuousLines:       rapid.Bool().Draw(t, "continuousLines"),
	}
}

func drawSelection(t *rapid.T) quran.Selection {
	chapter := rapid.IntRange(1, quran.ChapterCount).Draw(t, "chapter")
	from := rapid.IntRange(1, quran.MaxChapterVerses).Draw(t, "from")
	to := rapid.IntRange(from, quran.MaxChapterVerses).Draw(t, "to")
	return quran.Selection{Chapter: chapter, From: from, To: to}
}

func TestRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		style := drawStyle(t)
		sel := drawSelection(t)
		lang := rapid.SampledFrom([]quran.Language{quran.English, quran.Arabic}).Draw(t, "lang")

		gotSel, opts, err := Parse(URL("https://example.com", sel, style, lang))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if gotSel != sel {
			t.Fatalf("selection: got %+v, want %+v", gotSel, sel)
		}
		if opts.Style != style {
			t.Fatalf("style: got %+v, want %+v", opts.Style, style)
		}
		if opts.Language != lang {
			t.Fatalf("language: got %q, want %q", opts.Language, lang)
		}
	})
}

func TestEncodeOrder(t *testing.T) {
	got := Encode(quran.DefaultStyle(), quran.English)
	want := "color=f97316&bg=1c2331&text=ffffff&theme=dark&translation=true&reference=true" +
		"&verseNumbers=false&accentLine=true&transparentBg=false&brackets=true&continuousLines=false&lang=en"
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestEncodeStripsHash(t *testing.T) {
	style := quran.DefaultStyle()
	style.AccentColor = "#ABCDEF"
	if q := Encode(style, quran.English); !strings.HasPrefix(q, "color=ABCDEF&") {
		t.Errorf("expected bare hex color, got %s", q)
	}
}

func TestFlagDefaults(t *testing.T) {
	empty := Decode(url.Values{})
	if !empty.Style.ShowTranslation || !empty.Style.ShowReference || !empty.Style.ShowVerseNumbers ||
		!empty.Style.ShowAccentLine || !empty.Style.ShowBrackets {
		t.Errorf("flags that default on must decode on when absent: %+v", empty.Style)
	}
	if empty.Style.TransparentBackground || empty.Style.ContinuousLines {
		t.Errorf("flags that default off must decode off when absent: %+v", empty.Style)
	}

	tests := []struct {
		query string
		get   func(quran.CardStyle) bool
		want  bool
	}{
		{"translation=false", func(s quran.CardStyle) bool { return s.ShowTranslation }, false},
		{"translation=no", func(s quran.CardStyle) bool { return s.ShowTranslation }, true},
		{"translation=FALSE", func(s quran.CardStyle) bool { return s.ShowTranslation }, true},
		{"transparentBg=true", func(s quran.CardStyle) bool { return s.TransparentBackground }, true},
		{"transparentBg=1", func(s quran.CardStyle) bool { return s.TransparentBackground }, false},
		{"continuousLines=true", func(s quran.CardStyle) bool { return s.ContinuousLines }, true},
		{"brackets=false", func(s quran.CardStyle) bool { return s.ShowBrackets }, false},
		{"verseNumbers=false", func(s quran.CardStyle) bool { return s.ShowVerseNumbers }, false},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			if got := tc.get(DecodeString(tc.query).Style); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDecodeTheme(t *testing.T) {
	for query, want := range map[string]quran.Theme{
		"":            quran.ThemeDark,
		"theme=light": quran.ThemeLight,
		"theme=Light": quran.ThemeDark,
		"theme=dark":  quran.ThemeDark,
		"theme=sepia": quran.ThemeDark,
	} {
		if got := DecodeString(query).Style.Theme; got != want {
			t.Errorf("%q: got %q, want %q", query, got, want)
		}
	}
}

func TestDecodeColors(t *testing.T) {
	opts := DecodeString("?color=00ff00&bg=%23112233&text=nothex")
	if opts.Style.AccentColor != "00ff00" {
		t.Errorf("accent: got %q", opts.Style.AccentColor)
	}
	if opts.Style.BackgroundColor != "112233" {
		t.Errorf("background: got %q", opts.Style.BackgroundColor)
	}
	if opts.Style.TextColor != quran.DefaultTextColor {
		t.Errorf("malformed text color must fall back, got %q", opts.Style.TextColor)
	}
}

func TestDecodeEmbedID(t *testing.T) {
	if id := DecodeString("embedId=qveg-abc_123").EmbedID; id != "qveg-abc_123" {
		t.Errorf("got %q", id)
	}
	for _, bad := range []string{`embedId=a"b`, "embedId=%3Cscript%3E", "embedId=" + strings.Repeat("a", 65)} {
		if id := DecodeString(bad).EmbedID; id != "" {
			t.Errorf("%s: expected id to be dropped, got %q", bad, id)
		}
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		chapter, verses string
		want            quran.Selection
	}{
		{"2", "255", quran.Selection{Chapter: 2, From: 255, To: 255}},
		{"1", "1-7", quran.Selection{Chapter: 1, From: 1, To: 7}},
		{"2", "1-100", quran.Selection{Chapter: 2, From: 1, To: 100}},
	}
	for _, tc := range tests {
		got, err := ParseSelection(tc.chapter, tc.verses)
		if err != nil {
			t.Errorf("%s/%s: %v", tc.chapter, tc.verses, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s/%s: got %+v, want %+v", tc.chapter, tc.verses, got, tc.want)
		}
	}
}

func TestParseSelectionErrors(t *testing.T) {
	tests := []struct {
		chapter, verses string
		malformed       bool
	}{
		{"abc", "1", true},
		{"2", "x", true},
		{"2", "1-", true},
		{"2", "-3", true},
		{"2", "1-2-3", true},
		{"0", "1", false},
		{"115", "1", false},
		{"2", "0", false},
		{"2", "5-3", false},
	}
	for _, tc := range tests {
		_, err := ParseSelection(tc.chapter, tc.verses)
		var invalid *quran.InvalidSelectionError
		if !errors.As(err, &invalid) {
			t.Errorf("%s/%s: expected InvalidSelectionError, got %v", tc.chapter, tc.verses, err)
			continue
		}
		if invalid.Chapter != tc.chapter || invalid.Verses != tc.verses {
			t.Errorf("%s/%s: raw values lost: %+v", tc.chapter, tc.verses, invalid)
		}
		if got := errors.Is(err, quran.ErrMalformedNumber); got != tc.malformed {
			t.Errorf("%s/%s: malformed = %v, want %v", tc.chapter, tc.verses, got, tc.malformed)
		}
	}
}

func TestURL(t *testing.T) {
	style := quran.DefaultStyle()
	single := URL("https://example.com/", quran.Selection{Chapter: 2, From: 255, To: 255}, style, quran.Arabic)
	if !strings.HasPrefix(single, "https://example.com/embed/2/255?color=") {
		t.Errorf("unexpected url %s", single)
	}
	if !strings.HasSuffix(single, "&lang=ar") {
		t.Errorf("expected language last, got %s", single)
	}

	withID := WithEmbedID(single, "qveg-1")
	if !strings.HasSuffix(withID, "&lang=ar&embedId=qveg-1") {
		t.Errorf("got %s", withID)
	}
	if got := WithEmbedID("/embed/1/1", "x"); got != "/embed/1/1?embedId=x" {
		t.Errorf("got %s", got)
	}
}

func TestParseRejectsForeignPath(t *testing.T) {
	if _, _, err := Parse("https://example.com/other/2/255"); !errors.Is(err, quran.ErrMalformedNumber) {
		t.Errorf("expected malformed link error, got %v", err)
	}
}
