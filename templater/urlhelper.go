package templater

import (
	"net/url"
	"strconv"

	"github.com/danielledeleo/ayatembed/embedurl"
	"github.com/danielledeleo/ayatembed/quran"
)

// URL helper functions for templates.

// embedPath returns the embed document path with the style query.
// Example: embedPath(2:255, "color=...") → "/embed/2/255?color=..."
func embedPath(sel quran.Selection, query string) string {
	if query == "" {
		return embedurl.Path(sel)
	}
	return embedurl.Path(sel) + "?" + query
}

// builderURL returns the builder URL that restores a selection and style.
// Example: builderURL(2:1-3, "color=...") → "/?chapter=2&verses=1-3&color=..."
func builderURL(sel quran.Selection, query string) string {
	u := "/?chapter=" + strconv.Itoa(sel.Chapter) + "&verses=" + url.QueryEscape(sel.VerseRange())
	if query != "" {
		u += "&" + query
	}
	return u
}

// randomURL returns the builder URL that keeps the selection and picks a
// random style.
func randomURL(sel quran.Selection) string {
	return builderURL(sel, "") + "&random"
}
