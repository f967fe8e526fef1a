package handler

import "strconv"

// parsePositiveInt parses s as a positive integer, returning def when s is
// empty, malformed, or not positive
func parsePositiveInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
