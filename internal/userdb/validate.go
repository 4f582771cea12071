package userdb

import (
	"strings"
	"unicode"
)

// ValidLoginName rejects prompted names that can never resolve to an
// account: empty, option-like (leading '-'), over-long, or containing
// field separators, spaces, or control characters.
func ValidLoginName(u string) bool {
	if u == "" || strings.HasPrefix(u, "-") || len(u) > 32 {
		return false
	}
	for _, r := range u {
		if r == ':' || r == '/' || unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
