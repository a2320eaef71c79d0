package quran

import "math/rand/v2"

type stylePreset struct {
	accent, background, text string
	theme                    Theme
}

var curatedPresets = []stylePreset{
	{"f97316", "1c2331", "ffffff", ThemeDark},
	{"10b981", "0a0a0a", "ffffff", ThemeDark},
	{"3b82f6", "1f2937", "ffffff", ThemeDark},
	{"8b5cf6", "1c2331", "e5e7eb", ThemeDark},
	{"f59e0b", "0a0a0a", "ffffff", ThemeDark},
	{"f97316", "ffffff", "000000", ThemeLight},
	{"3b82f6", "fef3c7", "000000", ThemeLight},
	{"10b981", "ffffff", "000000", ThemeLight},
	{"8b5cf6", "fef3c7", "000000", ThemeLight},
}

var (
	accentPresets     = []string{"f97316", "f59e0b", "10b981", "3b82f6", "8b5cf6"}
	backgroundPresets = []string{"1c2331", "0a0a0a", "1f2937", "ffffff", "fef3c7"}
)

func isLightBackground(c string) bool {
	return c == "ffffff" || c == "fef3c7"
}

// RandomStyle picks a readable style: a curated preset most of the time,
// otherwise a background with a contrasting text color and accent.
func RandomStyle(r *rand.Rand) CardStyle {
	var s CardStyle

	if r.Float64() < 0.7 {
		p := curatedPresets[r.IntN(len(curatedPresets))]
		s.AccentColor, s.BackgroundColor, s.TextColor, s.Theme = p.accent, p.background, p.text, p.theme
	} else {
		s.BackgroundColor = backgroundPresets[r.IntN(len(backgroundPresets))]
		if isLightBackground(s.BackgroundColor) {
			s.TextColor = []string{"000000", "1f2937"}[r.IntN(2)]
			s.AccentColor = accentPresets[r.IntN(len(accentPresets))]
			s.Theme = ThemeLight
		} else {
			s.TextColor = []string{"ffffff", "e5e7eb"}[r.IntN(2)]
			var accents []string
			for _, a := range accentPresets {
				if a != s.TextColor {
					accents = append(accents, a)
				}
			}
			s.AccentColor = accents[r.IntN(len(accents))]
			s.Theme = ThemeDark
		}
	}

	s.ShowTranslation = r.Float64() > 0.1
	s.ShowReference = r.Float64() > 0.15
	s.ShowVerseNumbers = r.Float64() > 0.6
	s.ShowAccentLine = r.Float64() > 0.2
	s.TransparentBackground = r.Float64() > 0.8
	s.ShowBrackets = r.Float64() > 0.15
	s.ContinuousLines = r.Float64() > 0.8
	return s
}
