package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// earliestKey is the sort key for unknown dates: they sink to the bottom of a
// descending-by-date order.
const earliestKey = "0000-00-00"

// NormalizeDate converts a date string into a lexically sortable YYYY-MM-DD
// key. It is used only for ordering, never for display. Sentinels ("N/A",
// "Recent", "Loading...", empty) and unparseable strings map to the earliest
// possible key.
func NormalizeDate(dateStr string) string {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return earliestKey
	}

	if isISODate(s) {
		return s
	}

	// MM/DD/YYYY, with or without zero padding.
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		month, errM := strconv.Atoi(parts[0])
		day, errD := strconv.Atoi(parts[1])
		year, errY := strconv.Atoi(parts[2])
		if errM == nil && errD == nil && errY == nil &&
			month >= 1 && month <= 12 && day >= 1 && day <= 31 && year >= 1000 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}

	// Long form: "March 4, 2024".
	if t, err := time.Parse("January 2, 2006", s); err == nil {
		return t.Format("2006-01-02")
	}

	return earliestKey
}

func isISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
