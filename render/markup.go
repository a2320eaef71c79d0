package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/danielledeleo/ayatembed/quran"
)

// Ornate brackets drawn around verse text.
const (
	OpenBracket  = "﴿"
	CloseBracket = "﴾"
)

const defaultBorderTint = "rgba(255,255,255,0.1)"

// Fragment is a self-contained card: the CSS needed to load its fonts and
// the card markup. It depends on no script and no external stylesheet.
type Fragment struct {
	Styles string
	Body   string
}

// String joins the fragment into the block users paste into their pages.
func (f Fragment) String() string {
	return "<style>\n" + f.Styles + "</style>\n\n" + f.Body
}

// BorderTint derives the low-opacity separator color from a text color.
// Anything but six hex digits yields a fixed translucent white.
func BorderTint(textColor string) string {
	if !quran.IsHexColor(textColor) {
		return defaultBorderTint
	}
	v, err := strconv.ParseUint(textColor, 16, 32)
	if err != nil {
		return defaultBorderTint
	}
	return fmt.Sprintf("rgba(%d,%d,%d,0.1)", (v>>16)&255, (v>>8)&255, v&255)
}

func cssColor(c, fallback string) string {
	if quran.IsHexColor(c) {
		return "#" + c
	}
	return "#" + fallback
}

// bracketMode decides where brackets go. At most one mode is active, and
// exactly one when brackets are enabled.
func bracketMode(style quran.CardStyle, verseCount int) (wrapRange, perVerse bool) {
	wrapRange = style.ShowBrackets && style.ContinuousLines && verseCount > 1
	perVerse = style.ShowBrackets && !wrapRange
	return wrapRange, perVerse
}

type cardRenderer struct {
	style  quran.CardStyle
	accent string
	border string
}

func (r *cardRenderer) bracket(glyph string) string {
	return fmt.Sprintf(`<span style="color: %s; font-size: 1.5rem; font-family: 'Amiri Quran', '%s', serif;">%s</span>`,
		r.accent, FallbackFontFamily, glyph)
}

// verseGlyphs renders the verse text. Word-level data wins; each word uses
// the font of its own page so a verse crossing a page break renders right.
func (r *cardRenderer) verseGlyphs(v *quran.Verse) string {
	if len(v.Words) > 0 {
		parts := make([]string, 0, len(v.Words))
		for _, w := range v.Words {
			switch {
			case w.IsEnd():
				if !r.style.ShowVerseNumbers {
					continue
				}
				parts = append(parts, fmt.Sprintf(`<span style="font-family: '%s', serif; color: %s;">%s</span>`,
					FallbackFontFamily, r.accent, EndMarker(w)))
			case w.Code != "" && w.Page >= 1:
				parts = append(parts, fmt.Sprintf(`<span style="font-family: '%s';">%s</span>`,
					PageFontFamily(w.Page), SanitizeGlyphForMarkup(w.Code)))
			default:
				parts = append(parts, fmt.Sprintf(`<span style="font-family: '%s', serif;">%s</span>`,
					FallbackFontFamily, html.EscapeString(w.Text)))
			}
		}
		return strings.Join(parts, " ")
	}

	if v.CodeText != "" && v.Page >= 1 {
		return fmt.Sprintf(`<span style="font-family: '%s';">%s</span>`,
			PageFontFamily(v.Page), SanitizeGlyphForMarkup(v.CodeText))
	}
	return fmt.Sprintf(`<span style="font-family: '%s', serif;">%s</span>`,
		FallbackFontFamily, html.EscapeString(v.Text))
}

func (r *cardRenderer) translationNumber(v *quran.Verse, margin int) string {
	if !r.style.ShowVerseNumbers {
		return ""
	}
	return fmt.Sprintf(`<span style="opacity: 0.5; font-size: 0.875rem; margin-right: %dpx;">(%d)</span>`, margin, v.Number)
}

func (r *cardRenderer) continuous(b *strings.Builder, verses []*quran.Verse) {
	wrapRange, perVerse := bracketMode(r.style, len(verses))

	parts := make([]string, 0, len(verses))
	for _, v := range verses {
		s := r.verseGlyphs(v)
		if perVerse {
			s = r.bracket(OpenBracket) + s + r.bracket(CloseBracket)
		}
		parts = append(parts, s)
	}
	content := strings.Join(parts, " ")
	if wrapRange {
		content = r.bracket(OpenBracket) + content + r.bracket(CloseBracket)
	}

	b.WriteString(`  <p style="font-size: 2rem; line-height: 2; direction: rtl; text-align: right; margin: 0;">` + "\n")
	b.WriteString("    " + content + "\n")
	b.WriteString("  </p>\n")

	if !r.style.ShowTranslation {
		return
	}

	var translations []string
	for _, v := range verses {
		if v.Translation == "" {
			continue
		}
		translations = append(translations, r.translationNumber(v, 4)+html.EscapeString(v.Translation))
	}
	if len(translations) == 0 {
		return
	}

	fmt.Fprintf(b, `  <p style="font-family: 'Inter', system-ui, sans-serif; font-size: 1rem; line-height: 1.6; opacity: 0.9; margin: 16px 0 0 0; padding-top: 16px; border-top: 1px solid %s; text-align: left;">`+"\n", r.border)
	b.WriteString("    " + strings.Join(translations, " ") + "\n")
	b.WriteString("  </p>\n")
}

func (r *cardRenderer) perVerse(b *strings.Builder, verses []*quran.Verse) {
	_, perVerse := bracketMode(r.style, len(verses))

	translationGap := "0"
	if r.style.ShowTranslation {
		translationGap = "8px"
	}

	for i, v := range verses {
		content := r.verseGlyphs(v)
		if perVerse {
			content = r.bracket(OpenBracket) + content + r.bracket(CloseBracket)
		}

		fmt.Fprintf(b, `  <p style="font-size: 2rem; line-height: 2; direction: rtl; text-align: right; margin: 0 0 %s;">`+"\n", translationGap)
		b.WriteString("    " + content + "\n")
		b.WriteString("  </p>\n")

		if !r.style.ShowTranslation || v.Translation == "" {
			continue
		}

		last := i == len(verses)-1
		padding, separator := "0", ""
		if !last {
			padding = "16px"
			separator = fmt.Sprintf(" border-bottom: 1px solid %s; margin-bottom: 16px;", r.border)
		}
		fmt.Fprintf(b, `  <p style="font-family: 'Inter', system-ui, sans-serif; font-size: 1rem; line-height: 1.6; opacity: 0.9; margin: 0; padding: 8px 0 %s;%s text-align: left;">`+"\n", padding, separator)
		b.WriteString("    " + r.translationNumber(v, 8) + html.EscapeString(v.Translation) + "\n")
		b.WriteString("  </p>\n")
	}
}

// GenerateMarkup assembles a portable card for verses of chapter ch. Zero
// verses render an empty verse area with verse 1 as the cited verse.
func GenerateMarkup(verses []*quran.Verse, ch *quran.Chapter, style quran.CardStyle, lang quran.Language) Fragment {
	if ch == nil {
		ch = &quran.Chapter{}
	}

	r := &cardRenderer{
		style:  style,
		accent: cssColor(style.AccentColor, quran.DefaultAccentColor),
		border: BorderTint(style.TextColor),
	}

	background := cssColor(style.BackgroundColor, quran.DefaultBackgroundColor)
	if style.TransparentBackground {
		background = "transparent"
	}
	text := cssColor(style.TextColor, quran.DefaultTextColor)

	from, to := 1, 1
	if len(verses) > 0 {
		from, to = verses[0].Number, verses[len(verses)-1].Number
	}

	var styles strings.Builder
	styles.WriteString("@import url('" + UIFontImport + "');\n")
	styles.WriteString(FallbackFontFace())
	styles.WriteString(PageFontFaces(VersePages(verses)))

	var b strings.Builder
	fmt.Fprintf(&b, `<div style="font-family: 'Inter', system-ui, sans-serif; background-color: %s; color: %s; padding: 24px 32px; border-radius: 16px; position: relative; box-sizing: border-box; max-width: 100%%; direction: ltr;">`+"\n", background, text)

	if style.ShowAccentLine {
		fmt.Fprintf(&b, `  <div style="position: absolute; top: 0; bottom: 0; right: 0; width: 6px; background-color: %s; border-radius: 0 8px 8px 0;"></div>`+"\n", r.accent)
	}

	if style.ContinuousLines {
		r.continuous(&b, verses)
	} else {
		r.perVerse(&b, verses)
	}

	if style.ShowReference {
		ref := FormatReference(ch.NameLatin, ch.NameNative, ch.Number, from, to, lang.IsNative())
		b.WriteString(`  <div style="display: flex; justify-content: flex-end; margin-top: 24px;">` + "\n")
		fmt.Fprintf(&b, `    <span style="font-family: 'Inter', system-ui, sans-serif; display: inline-flex; align-items: center; padding: 4px 12px; border-radius: 9999px; font-size: 0.875rem; background-color: %s20; color: %s; font-weight: 500;">📖 %s</span>`+"\n",
			r.accent, r.accent, html.EscapeString(ref))
		b.WriteString("  </div>\n")
	}

	b.WriteString("</div>")

	return Fragment{Styles: styles.String(), Body: b.String()}
}
