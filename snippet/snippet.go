// Package snippet generates the copy-paste iframe embed code.
package snippet

import (
	"bytes"
	"html/template"

	"github.com/danielledeleo/ayatembed/embedurl"
	"github.com/danielledeleo/ayatembed/heightsync"
	"github.com/danielledeleo/ayatembed/quran"
	"github.com/google/uuid"
)

// Fallback height model, in pixels.
const (
	BasePadding     = 32
	ReferenceHeight = 56
	MaxHeight       = 700
)

// NewEmbedID returns a fresh embed identifier. UUIDv7 carries a millisecond
// timestamp followed by 74 random bits.
func NewEmbedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return quran.EmbedIDPrefix + id.String()
}

func perVerseHeight(style quran.CardStyle) int {
	switch {
	case style.ContinuousLines && style.ShowTranslation:
		return 100
	case style.ContinuousLines:
		return 70
	case style.ShowTranslation:
		return 140
	default:
		return 110
	}
}

// FallbackHeight estimates the iframe height shown until the first size
// update arrives. It never decreases as verses are added and never exceeds
// MaxHeight.
func FallbackHeight(verseCount int, style quran.CardStyle) int {
	h := BasePadding + max(verseCount, 0)*perVerseHeight(style)
	if style.ShowReference {
		h += ReferenceHeight
	}
	return min(h, MaxHeight)
}

// Snippet is a generated embed.
type Snippet struct {
	ID     string
	URL    string // embed document URL including the embed id
	Height int
	HTML   string
}

var iframeTmpl = template.Must(template.New("iframe").Parse(`<iframe
  id="{{.ID}}"
  src="{{.URL}}"
  width="100%"
  height="{{.Height}}"
  frameborder="0"
  scrolling="no"
  style="max-width: 700px; border: none; background: transparent; display: block; margin: 0 auto; vertical-align: top; overflow: hidden; resize: none;"
  title="Ayat Embed - Surah {{.Label}}"
  loading="lazy"
></iframe>
{{.Script}}`))

// Generate builds an iframe snippet with a fresh embed id.
func Generate(baseURL string, sel quran.Selection, style quran.CardStyle, lang quran.Language) (Snippet, error) {
	return GenerateWithID(NewEmbedID(), baseURL, sel, style, lang)
}

// GenerateWithID builds an iframe snippet for a known embed id.
func GenerateWithID(id, baseURL string, sel quran.Selection, style quran.CardStyle, lang quran.Language) (Snippet, error) {
	s := Snippet{
		ID:     id,
		URL:    embedurl.WithEmbedID(embedurl.URL(baseURL, sel, style, lang), id),
		Height: FallbackHeight(sel.Count(), style),
	}

	var buf bytes.Buffer
	err := iframeTmpl.Execute(&buf, struct {
		ID     string
		URL    string
		Height int
		Label  string
		Script template.HTML
	}{s.ID, s.URL, s.Height, sel.String(), heightsync.ParentScript(id)})
	if err != nil {
		return Snippet{}, err
	}
	s.HTML = buf.String()
	return s, nil
}
