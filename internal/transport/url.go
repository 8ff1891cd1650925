package transport

import (
	"net/url"
	"strings"

	"mico/internal/api"
)

// docsSuffix is the OpenAPI docs endpoint; the backend rejects it with a
// trailing slash.
const docsSuffix = "api-docs"

// IsHTTPURL reports whether raw already carries an http(s) scheme.
func IsHTTPURL(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://")
}

// Resolve turns a reference into the absolute URL a request is sent to.
func (c *Client) Resolve(ref api.Ref) (string, error) {
	raw, err := ref.Resolve()
	if err != nil {
		return "", err
	}
	return JoinBase(c.baseURL, raw), nil
}

// JoinBase resolves path against baseURL. Absolute URLs are returned as is.
// A relative path gets a trailing slash unless it already has one, is the
// docs endpoint, or its last segment looks like a file name (contains a dot).
func JoinBase(baseURL, path string) string {
	path = strings.TrimSpace(path)
	if IsHTTPURL(path) {
		return path
	}

	path = withTrailingSlash(path)

	base := strings.TrimSuffix(baseURL, "/")
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

func withTrailingSlash(path string) string {
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, docsSuffix) {
		return path
	}
	lastDot := strings.LastIndex(path, ".")
	if lastDot >= 0 && strings.LastIndex(path, "/") < lastDot {
		return path
	}
	return path + "/"
}

func withQuery(target string, query url.Values) string {
	if len(query) == 0 {
		return target
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + query.Encode()
}
