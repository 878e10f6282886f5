package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxUsernameLength is the longest username accepted at registration.
const MaxUsernameLength = 32

// usernames double as avatar file names, so no dots or separators
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_-]+$`)

// NormalizeUsername trims the input and reports whether it is acceptable.
func NormalizeUsername(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxUsernameLength {
		return s, false
	}
	return s, usernamePattern.MatchString(s)
}

// AvatarLetter returns the uppercase first letter of a username.
func AvatarLetter(username string) string {
	r, _ := utf8.DecodeRuneInString(username)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
