// Package embedurl maps card styles and selections to embed URLs and back.
//
// The query parameters are a public contract: third parties build embed
// links by hand, so names, defaults and flag encoding never change.
package embedurl

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/danielledeleo/ayatembed/quran"
)

// Query parameter names, in encoding order.
const (
	ParamColor           = "color"
	ParamBackground      = "bg"
	ParamText            = "text"
	ParamTheme           = "theme"
	ParamTranslation     = "translation"
	ParamReference       = "reference"
	ParamVerseNumbers    = "verseNumbers"
	ParamAccentLine      = "accentLine"
	ParamTransparentBg   = "transparentBg"
	ParamBrackets        = "brackets"
	ParamContinuousLines = "continuousLines"
	ParamLanguage        = "lang"
	ParamEmbedID         = "embedId"
)

// Options is everything a query string carries besides the selection.
type Options struct {
	Style    quran.CardStyle
	Language quran.Language
	EmbedID  string // empty unless a valid identifier was supplied
}

type pair struct{ key, value string }

func encodePairs(pairs []pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

// Encode renders the style and language as a query string without the
// leading '?'. Parameters keep a fixed order so generated links are stable.
func Encode(style quran.CardStyle, lang quran.Language) string {
	if lang == "" {
		lang = quran.English
	}
	theme := style.Theme
	if theme == "" {
		theme = quran.ThemeDark
	}
	return encodePairs([]pair{
		{ParamColor, quran.NormalizeColor(style.AccentColor)},
		{ParamBackground, quran.NormalizeColor(style.BackgroundColor)},
		{ParamText, quran.NormalizeColor(style.TextColor)},
		{ParamTheme, string(theme)},
		{ParamTranslation, strconv.FormatBool(style.ShowTranslation)},
		{ParamReference, strconv.FormatBool(style.ShowReference)},
		{ParamVerseNumbers, strconv.FormatBool(style.ShowVerseNumbers)},
		{ParamAccentLine, strconv.FormatBool(style.ShowAccentLine)},
		{ParamTransparentBg, strconv.FormatBool(style.TransparentBackground)},
		{ParamBrackets, strconv.FormatBool(style.ShowBrackets)},
		{ParamContinuousLines, strconv.FormatBool(style.ContinuousLines)},
		{ParamLanguage, string(lang)},
	})
}

// enabledUnlessFalse is the decode rule for flags that default to on.
func enabledUnlessFalse(q url.Values, key string) bool {
	return q.Get(key) != "false"
}

// enabledOnlyIfTrue is the decode rule for flags that default to off.
func enabledOnlyIfTrue(q url.Values, key string) bool {
	return q.Get(key) == "true"
}

func decodeColor(q url.Values, key, fallback string) string {
	c := quran.NormalizeColor(q.Get(key))
	if !quran.IsHexColor(c) {
		return fallback
	}
	return c
}

// Decode rebuilds options from query parameters. A missing parameter means
// "use the default", which for several flags differs from "false".
// Malformed colors fall back to their defaults.
func Decode(q url.Values) Options {
	theme := quran.ThemeDark
	if q.Get(ParamTheme) == string(quran.ThemeLight) {
		theme = quran.ThemeLight
	}

	opts := Options{
		Style: quran.CardStyle{
			AccentColor:     decodeColor(q, ParamColor, quran.DefaultAccentColor),
			BackgroundColor: decodeColor(q, ParamBackground, quran.DefaultBackgroundColor),
			TextColor:       decodeColor(q, ParamText, quran.DefaultTextColor),
			Theme:           theme,

			ShowTranslation:       enabledUnlessFalse(q, ParamTranslation),
			ShowReference:         enabledUnlessFalse(q, ParamReference),
			ShowVerseNumbers:      enabledUnlessFalse(q, ParamVerseNumbers),
			ShowAccentLine:        enabledUnlessFalse(q, ParamAccentLine),
			ShowBrackets:          enabledUnlessFalse(q, ParamBrackets),
			TransparentBackground: enabledOnlyIfTrue(q, ParamTransparentBg),
			ContinuousLines:       enabledOnlyIfTrue(q, ParamContinuousLines),
		},
		Language: quran.ParseLanguage(q.Get(ParamLanguage)),
	}

	if id := q.Get(ParamEmbedID); quran.IsValidEmbedID(id) {
		opts.EmbedID = id
	}
	return opts
}

// DecodeString parses a raw query string, with or without the leading '?'.
// Malformed pairs are skipped; the rest still apply.
func DecodeString(raw string) Options {
	q, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return Decode(q)
}
