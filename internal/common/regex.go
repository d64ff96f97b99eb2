package common

import "regexp"

// EmailPattern is the address format accepted by the login and registration
// forms.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsEmail reports whether s matches EmailPattern.
func IsEmail(s string) bool {
	return EmailPattern.MatchString(s)
}
