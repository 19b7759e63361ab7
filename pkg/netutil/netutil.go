// Package netutil normalizes and matches caller network addresses.
package netutil

import (
	"net"
	"strings"
)

// CanonicalAddr normalizes a caller address for list matching. It strips
// an IPv4-in-IPv6 prefix ("::ffff:203.0.113.5" becomes "203.0.113.5")
// and any port suffix, and trims whitespace.
func CanonicalAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	addr = strings.TrimPrefix(addr, "::ffff:")

	if ip := net.ParseIP(addr); ip != nil {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
		return ip.String()
	}

	return addr
}

// InList reports whether addr (already canonical) appears in the list by
// exact match. List entries are canonicalized before comparison.
func InList(addr string, list []string) bool {
	for _, entry := range list {
		if CanonicalAddr(entry) == addr {
			return true
		}
	}
	return false
}

// MatchesBlockEntry reports whether addr matches a block-list entry.
// An entry matches exactly, or as a prefix: listing "198.51.100." blocks
// the whole range.
func MatchesBlockEntry(addr string, list []string) bool {
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if addr == CanonicalAddr(entry) || strings.HasPrefix(addr, entry) {
			return true
		}
	}
	return false
}

// SplitList parses a comma-separated address list, dropping empty entries.
func SplitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
