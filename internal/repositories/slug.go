package repositories

import "strings"

// Slugify derives a URL slug from a recipe title: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NextSlug disambiguates a slug against already-taken slugs with the
// same -2, -3, ... suffix scheme used for event codes.
func NextSlug(base string, taken []string) string {
	return nextAvailable(base, taken)
}
