package models

import (
	"strings"
	"unicode"
)

// NormalizeHost lowercases a host name and drops surrounding space and the
// trailing root dot, so "API.acme.io." and "api.acme.io" share one key.
func NormalizeHost(host string) string {
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(host), "."))
}

// ValidHost accepts dot-separated labels of letters, digits, '-' and '_'.
// Unicode letters are allowed so IDNs pass in either form; IP literals and
// single-label names like localhost pass too.
func ValidHost(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		for _, r := range label {
			if r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
			return false
		}
	}
	return true
}
