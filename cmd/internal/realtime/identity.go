package realtime

import (
	"net/url"
	"strings"
)

const (
	nameCookie   = "username"
	fallbackName = "Guest"
)

// ResolveName extracts the player display name from a raw Cookie header blob
// (semicolon-separated key=value pairs). Missing, empty, or malformed input
// resolves to the guest label.
func ResolveName(cookieHeader string) string {
	for _, part := range strings.Split(cookieHeader, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || k != nameCookie {
			continue
		}
		if dec, err := url.QueryUnescape(v); err == nil {
			v = dec
		}
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return fallbackName
}
