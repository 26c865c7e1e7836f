// Package network provides request address helpers.
package network

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the client address for r. The first valid address in
// X-Forwarded-For wins, then X-Real-IP, then the host part of RemoteAddr
// (IPv6 brackets removed). Header values that do not parse as an IP are
// skipped.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := parseIP(first); ip != "" {
			return ip
		}
	}
	if ip := parseIP(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if ip := net.ParseIP(s); ip != nil {
		return ip.String()
	}
	return ""
}
