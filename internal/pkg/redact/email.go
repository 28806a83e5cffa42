// Package redact masks personal data before it reaches the logs.
package redact

import (
	"strings"
	"unicode/utf8"
)

// Email keeps the first two runes of the local part and the domain, replacing
// the rest with "****". Empty, malformed, or very short inputs come back as is.
func Email(s string) string {
	s = strings.TrimSpace(s)
	at := strings.IndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return s
	}
	local, domain := s[:at], s[at+1:]
	if utf8.RuneCountInString(local) < 3 {
		return s
	}
	offset := 0
	for i := 0; i < 2; i++ {
		_, size := utf8.DecodeRuneInString(local[offset:])
		offset += size
	}
	return local[:offset] + "****@" + domain
}
