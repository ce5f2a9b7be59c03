package common

import (
	"math"
	"strings"
)

// ContainsAnyFold reports whether s contains any of the keywords, ignoring case.
func ContainsAnyFold(s string, keywords ...string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Round1 rounds v to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Plurality returns the most frequent non-empty value. Ties go to the value seen first.
func Plurality(values []string) string {
	counts := make(map[string]int, len(values))
	order := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}

	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best
}
