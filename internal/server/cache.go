package server

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"time"
)

// setCacheStable sets Tier 1 headers for content that is fixed for the
// lifetime of the server process (docs pages, the chapter list).
func setCacheStable(w http.ResponseWriter, lastMod time.Time) {
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if !lastMod.IsZero() {
		w.Header().Set("Last-Modified", lastMod.UTC().Format(http.TimeFormat))
	}
}

// setCacheShared sets headers for relayed provider data. Verse text does
// not change, so shared caches may keep it for a day and serve it stale
// for a week while revalidating.
func setCacheShared(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "public, s-maxage=86400, stale-while-revalidate=604800")
}

// setCacheConditional sets Tier 2 headers for embed documents, which
// change only when the provider's data or the renderer changes.
func setCacheConditional(w http.ResponseWriter, etag string, lastMod time.Time) {
	w.Header().Set("Cache-Control", "public, no-cache")
	if etag != "" {
		w.Header().Set("ETag", `W/"`+etag+`"`)
	}
	if !lastMod.IsZero() {
		w.Header().Set("Last-Modified", lastMod.UTC().Format(http.TimeFormat))
	}
}

// contentETag returns the weak validator body for a rendered document.
func contentETag(body []byte) string {
	h := fnv.New64a()
	h.Write(body)
	return strconv.FormatUint(h.Sum64(), 36)
}

// checkNotModified checks If-None-Match and If-Modified-Since request headers.
// Returns true and writes 304 if the client's cached copy is still fresh.
// The etag parameter should be the full ETag value including W/ prefix and quotes.
func checkNotModified(w http.ResponseWriter, r *http.Request, etag string, lastMod time.Time) bool {
	// ETag takes priority per RFC 7232
	if inmatch := r.Header.Get("If-None-Match"); inmatch != "" && etag != "" {
		if inmatch == etag {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
		return false
	}

	if ims := r.Header.Get("If-Modified-Since"); ims != "" && !lastMod.IsZero() {
		t, err := http.ParseTime(ims)
		if err == nil && !lastMod.Truncate(time.Second).After(t.Truncate(time.Second)) {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}

	return false
}

// noStore wraps a handler to set Cache-Control: no-store (Tier 3). The
// builder and the live preview are per visitor.
func noStore(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		handler(w, r)
	}
}
