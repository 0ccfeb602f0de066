package resolver

import "strings"

// partialRatio scores two strings 0-100. Containment either way is a
// perfect match; otherwise the score is the longest common substring
// length relative to the shorter string.
func partialRatio(a, b string) int {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(b, a) || strings.Contains(a, b) {
		return 100
	}

	n, m := len(a), len(b)
	best := 0
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if a[i] == b[j] {
				dp[i+1][j+1] = dp[i][j] + 1
				if dp[i+1][j+1] > best {
					best = dp[i+1][j+1]
				}
			}
		}
	}

	shorter := n
	if m < shorter {
		shorter = m
	}
	if shorter < 1 {
		shorter = 1
	}
	return 100 * best / shorter
}

// nameScore blends substring similarity with whole-token overlap so
// that "pat mahomes" still lands on "Patrick Mahomes".
func nameScore(queryTokens []string, full string) float64 {
	targetTokens := strings.Fields(strings.ToLower(full))
	overlap := 0
	for _, t := range queryTokens {
		for _, tt := range targetTokens {
			if t == tt {
				overlap++
				break
			}
		}
	}
	denom := len(queryTokens)
	if denom < 1 {
		denom = 1
	}
	overlapRatio := float64(overlap) / float64(denom)

	pr := float64(partialRatio(strings.Join(queryTokens, " "), full)) / 100.0
	return 0.6*pr + 0.4*overlapRatio
}

// tokenize splits a query into lowercase non-empty tokens
func tokenize(name string) []string {
	return strings.Fields(strings.ToLower(name))
}
