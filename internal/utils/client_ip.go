package utils

import (
	"net"
	"net/http"
	"strings"
)

// proxyIPHeaders are consulted in order before falling back to RemoteAddr.
// The site sits behind Cloudflare, so CF-Connecting-IP is usually the one
// that answers; X-Forwarded-For wins when an upstream proxy rewrote it.
var proxyIPHeaders = []struct {
	name    string
	extract func(string) string
}{
	{"X-Forwarded-For", firstValidInList},
	{"CF-Connecting-IP", validOrEmpty},
	{"X-Real-IP", validOrEmpty},
	{"Forwarded", forwardedFor},
}

// GetClientIP returns the caller address handed to the bot-check service
// as its remoteip hint. Returns "" when nothing parses as an IP.
func GetClientIP(r *http.Request) string {
	for _, h := range proxyIPHeaders {
		if raw := r.Header.Get(h.name); raw != "" {
			if ip := h.extract(raw); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return validOrEmpty(host)
}

func firstValidInList(raw string) string {
	for _, part := range strings.Split(raw, ",") {
		if ip := validOrEmpty(part); ip != "" {
			return ip
		}
	}
	return ""
}

// forwardedFor reads the first usable for= directive of an RFC 7239 header,
// e.g. `for="[2001:db8::1]:4711";proto=https, for=198.51.100.17`.
func forwardedFor(raw string) string {
	for _, element := range strings.Split(raw, ",") {
		for _, pair := range strings.Split(element, ";") {
			pair = strings.TrimSpace(pair)
			if len(pair) < 4 || !strings.EqualFold(pair[:4], "for=") {
				continue
			}
			node := strings.Trim(pair[4:], `"`)
			if host, _, err := net.SplitHostPort(node); err == nil {
				node = host
			}
			node = strings.TrimSuffix(strings.TrimPrefix(node, "["), "]")
			if ip := validOrEmpty(node); ip != "" {
				return ip
			}
		}
	}
	return ""
}

func validOrEmpty(s string) string {
	s = strings.TrimSpace(s)
	if net.ParseIP(s) == nil {
		return ""
	}
	return s
}
