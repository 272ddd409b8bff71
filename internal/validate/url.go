// Package validate holds the pure predicate functions guarding user input:
// server URL validation and advisory platform detection. None of these touch
// the network or mutate state, so callers can use them as synchronous gates.
package validate

import (
	"net/url"
	"strings"
)

// IsValidURL reports whether s parses as an absolute URL with an http or
// https scheme. Every enqueue and auth call must pass this gate first.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// JoinAPIURL combines a base URL and an API path with exactly one slash
// between them, regardless of how the inputs are written.
func JoinAPIURL(base, apiPath string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(apiPath, "/")
}
