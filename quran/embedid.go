package quran

import "regexp"

// EmbedIDPrefix starts every generated embed identifier.
const EmbedIDPrefix = "qveg-"

var embedIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// IsValidEmbedID reports whether id can be threaded through a query string,
// a DOM id and an inline script literal without escaping.
func IsValidEmbedID(id string) bool {
	return embedIDPattern.MatchString(id)
}
