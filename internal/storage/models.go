package storage

import (
	"strconv"
	"strings"
)

// parseBest decodes a stored value. Anything that is not a non-negative
// integer is treated as absent.
func parseBest(raw string) (int, bool) {
	ms, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || ms < 0 {
		return 0, false
	}
	return ms, true
}

func formatBest(ms int) string {
	return strconv.Itoa(ms)
}
