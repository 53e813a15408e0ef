package handlers

import (
	"strings"
	"unicode/utf8"
)

// RedactEmail masks the local part of an address for logging, keeping its
// first and last characters once it is longer than two. Anything that is not
// exactly one "@" redacts to "".
func RedactEmail(email string) string {
	if strings.Count(email, "@") != 1 {
		return ""
	}

	local, domain, _ := strings.Cut(email, "@")

	n := utf8.RuneCountInString(local)
	if n <= 2 {
		return strings.Repeat("*", n) + "@" + domain
	}

	first, _ := utf8.DecodeRuneInString(local)
	last, _ := utf8.DecodeLastRuneInString(local)

	var b strings.Builder
	b.Grow(len(email))
	b.WriteRune(first)
	b.WriteString(strings.Repeat("*", n-2))
	b.WriteRune(last)
	b.WriteByte('@')
	b.WriteString(domain)
	return b.String()
}
