package embedurl

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielledeleo/ayatembed/quran"
)

// EmbedPathPrefix is the path under which embed documents are served.
const EmbedPathPrefix = "/embed/"

// ParseSelection parses the chapter and verse-range path segments of an
// embed URL. "255" selects one verse; "1-5" selects a range. Numbers must
// be plain decimal integers. Errors are *quran.InvalidSelectionError
// carrying the raw segments; malformed numbers additionally match
// quran.ErrMalformedNumber so callers can tell a broken link from a
// verse that does not exist.
func ParseSelection(chapter, verses string) (quran.Selection, error) {
	malformed := func(what string) error {
		return &quran.InvalidSelectionError{
			Chapter: chapter,
			Verses:  verses,
			Err:     fmt.Errorf("%w: %s", quran.ErrMalformedNumber, what),
		}
	}

	c, err := strconv.Atoi(chapter)
	if err != nil {
		return quran.Selection{}, malformed("chapter")
	}

	fromRaw, toRaw, isRange := strings.Cut(verses, "-")
	from, err := strconv.Atoi(fromRaw)
	if err != nil {
		return quran.Selection{}, malformed("first verse")
	}
	to := from
	if isRange {
		if to, err = strconv.Atoi(toRaw); err != nil {
			return quran.Selection{}, malformed("last verse")
		}
	}

	sel := quran.Selection{Chapter: c, From: from, To: to}
	if err := sel.Validate(); err != nil {
		var invalid *quran.InvalidSelectionError
		if errors.As(err, &invalid) {
			invalid.Chapter, invalid.Verses = chapter, verses
		}
		return quran.Selection{}, err
	}
	return sel, nil
}

// Path returns the embed path of a selection, e.g. "/embed/2/1-5".
func Path(sel quran.Selection) string {
	return fmt.Sprintf("%s%d/%s", EmbedPathPrefix, sel.Chapter, sel.VerseRange())
}

// URL builds the full embed document URL for a selection and style.
func URL(baseURL string, sel quran.Selection, style quran.CardStyle, lang quran.Language) string {
	return strings.TrimSuffix(baseURL, "/") + Path(sel) + "?" + Encode(style, lang)
}

// WithEmbedID appends the embed identifier parameter to an embed URL.
func WithEmbedID(embedURL, id string) string {
	sep := "?"
	if strings.Contains(embedURL, "?") {
		sep = "&"
	}
	return embedURL + sep + ParamEmbedID + "=" + url.QueryEscape(id)
}

// Parse reverses URL. The base is ignored; only the path after /embed/ and
// the query matter.
func Parse(raw string) (quran.Selection, Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return quran.Selection{}, Options{}, &quran.InvalidSelectionError{
			Err: fmt.Errorf("%w: %v", quran.ErrMalformedNumber, err),
		}
	}

	i := strings.Index(u.Path, EmbedPathPrefix)
	if i < 0 {
		return quran.Selection{}, Options{}, &quran.InvalidSelectionError{
			Err: fmt.Errorf("%w: not an embed path", quran.ErrMalformedNumber),
		}
	}
	chapter, verses, _ := strings.Cut(u.Path[i+len(EmbedPathPrefix):], "/")

	sel, err := ParseSelection(chapter, strings.TrimSuffix(verses, "/"))
	if err != nil {
		return quran.Selection{}, Options{}, err
	}
	return sel, Decode(u.Query()), nil
}
