package utils

import (
	"strconv"
)

// ParseID parses a positive numeric id from a route parameter.
func ParseID(s string) (uint, bool) {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil || i == 0 {
		return 0, false
	}
	return uint(i), true
}
