package quran

import "strings"

// Theme is advisory; explicit colors always win.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// CardStyle describes how a verse block looks. Colors are six hex digits
// without a leading '#'; renderers prepend it.
type CardStyle struct {
	AccentColor     string
	BackgroundColor string
	TextColor       string
	Theme           Theme

	ShowTranslation       bool
	ShowReference         bool
	ShowVerseNumbers      bool
	ShowAccentLine        bool
	TransparentBackground bool
	ShowBrackets          bool
	ContinuousLines       bool
}

// Default colors
const (
	DefaultAccentColor     = "f97316"
	DefaultBackgroundColor = "1c2331"
	DefaultTextColor       = "ffffff"
)

// DefaultStyle is the style the builder starts with.
func DefaultStyle() CardStyle {
	return CardStyle{
		AccentColor:     DefaultAccentColor,
		BackgroundColor: DefaultBackgroundColor,
		TextColor:       DefaultTextColor,
		Theme:           ThemeDark,

		ShowTranslation:       true,
		ShowReference:         true,
		ShowVerseNumbers:      false,
		ShowAccentLine:        true,
		TransparentBackground: false,
		ShowBrackets:          true,
		ContinuousLines:       false,
	}
}

// IsHexColor reports whether s is exactly six hex digits.
func IsHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeColor strips one leading '#'.
func NormalizeColor(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "#")
}
