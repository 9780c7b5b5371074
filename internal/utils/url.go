package utils

import (
	"net/url"
	"strings"
)

// ValidateURL reports whether rawURL is an absolute http(s) URL with a host
func ValidateURL(rawURL string) bool {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		return true
	}
	return false
}

// TrimURL drops surrounding whitespace and trailing slashes
func TrimURL(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

// StripScheme turns "http://host:port/" into "host:port" so a pasted URL can
// be used as an adapter location.
func StripScheme(location string) string {
	location = strings.TrimSpace(location)
	if _, rest, ok := strings.Cut(location, "://"); ok {
		location = rest
	}
	return strings.TrimRight(location, "/")
}
