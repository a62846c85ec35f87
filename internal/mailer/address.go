package mailer

import "regexp"

var addressRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidAddress reports whether addr has the local@domain.tld shape. It does
// not resolve the domain.
func IsValidAddress(addr string) bool {
	return addressRegex.MatchString(addr)
}
