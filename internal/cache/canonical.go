package cache

import (
	"net/url"
	"strings"
)

// Canonicalize reduces a backend URL or path to the key streams are stored
// under: scheme, host and port are removed, the query and fragment are
// dropped, and leading and trailing slashes are trimmed.
//
//	http://localhost:8080/services/foo/1.0.0/ -> services/foo/1.0.0
//	/services/                                 -> services
//
// Canonicalize(Canonicalize(x)) == Canonicalize(x).
func Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil {
			return strings.Trim(u.Path, "/")
		}
	}

	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return strings.Trim(raw, "/")
}
