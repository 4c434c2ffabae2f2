package auth

import (
	"regexp"
	"strings"
)

var ninPattern = regexp.MustCompile(`^\d{13}$`)

// NormalizeNIN strips the whitespace members tend to type inside their NIN.
func NormalizeNIN(nin string) string {
	return strings.Join(strings.Fields(nin), "")
}

// ValidNIN reports whether nin is the 13-digit membership number.
func ValidNIN(nin string) bool {
	return ninPattern.MatchString(nin)
}

// EmailForNIN builds the login e-mail of a member, e.g. 1234567890123@azimute.cne.
func EmailForNIN(nin, domain string) string {
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	return strings.ToLower(nin + domain)
}
