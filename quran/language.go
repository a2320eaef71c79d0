package quran

import "golang.org/x/text/language"

// Language is the UI language of a card or page.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

var (
	supportedTags = []language.Tag{language.English, language.Arabic}
	matcher       = language.NewMatcher(supportedTags)
)

func fromIndex(i int) Language {
	if supportedTags[i] == language.Arabic {
		return Arabic
	}
	return English
}

// ParseLanguage maps a BCP 47 tag to a supported language, defaulting to
// English.
func ParseLanguage(s string) Language {
	if s == "" {
		return English
	}
	tag, err := language.Parse(s)
	if err != nil {
		return English
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return English
	}
	return fromIndex(i)
}

// NegotiateLanguage picks a language from an Accept-Language header.
func NegotiateLanguage(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, i, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return fromIndex(i)
}

// IsNative reports whether citations and digits use the native script.
func (l Language) IsNative() bool {
	return l == Arabic
}

// Dir returns the HTML text direction for the language.
func (l Language) Dir() string {
	if l == Arabic {
		return "rtl"
	}
	return "ltr"
}

// Message keys for the few user-facing strings the server renders itself.
const (
	MsgInvalidVerseTitle = "invalidVerseTitle"
	MsgInvalidVerseBody  = "invalidVerseBody"
	MsgInvalidLinkTitle  = "invalidLinkTitle"
	MsgInvalidLinkBody   = "invalidLinkBody"
	MsgLoadFailed        = "loadFailed"
	MsgRetry             = "retry"
)

var messages = map[Language]map[string]string{
	English: {
		MsgInvalidVerseTitle: "Invalid Verse",
		MsgInvalidVerseBody:  "Please check the Surah and Ayah numbers.",
		MsgInvalidLinkTitle:  "Invalid embed link",
		MsgInvalidLinkBody:   "Embed links look like /embed/2/255 or /embed/2/1-5.",
		MsgLoadFailed:        "Failed to load verses",
		MsgRetry:             "Retry",
	},
	Arabic: {
		MsgInvalidVerseTitle: "آية غير صالحة",
		MsgInvalidVerseBody:  "يرجى التحقق من رقم السورة والآية.",
		MsgInvalidLinkTitle:  "رابط التضمين غير صالح",
		MsgInvalidLinkBody:   "روابط التضمين تكون بالشكل /embed/2/255 أو /embed/2/1-5.",
		MsgLoadFailed:        "تعذر تحميل الآيات",
		MsgRetry:             "إعادة المحاولة",
	},
}

// T returns the message for key, falling back to English.
func (l Language) T(key string) string {
	if m, ok := messages[l][key]; ok {
		return m
	}
	return messages[English][key]
}
