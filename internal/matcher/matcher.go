// Package matcher scores free-text queries against the knowledge base.
//
// The algorithm is deliberately simple keyword overlap: no stemming, no
// stopword removal, no token-rarity weighting. Bidirectional substring
// containment tolerates near-forms ("charger" matches "charge") at the cost
// of false positives on short or common tokens. Treat it as a heuristic, not a
// ranking model.
package matcher

import (
	"strings"

	"github.com/scootcare/support-platform/internal/model"
)

// Match returns the entry with the strictly highest overlap score against
// query, or nil when no entry scores above zero. Ties keep the first-seen
// entry, so the caller's ordering of entries is the tie-break.
func Match(query string, entries []model.KnowledgeEntry) *model.KnowledgeEntry {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var best *model.KnowledgeEntry
	bestScore := 0

	for i := range entries {
		score := overlap(queryTokens, tokenize(entries[i].Question))
		if score > bestScore {
			bestScore = score
			best = &entries[i]
		}
	}

	return best
}

// Score exposes the raw overlap count between a query and a single pattern.
func Score(query, pattern string) int {
	return overlap(tokenize(query), tokenize(pattern))
}

// overlap counts query tokens for which some pattern token contains the query
// token or vice versa.
func overlap(queryTokens, patternTokens []string) int {
	score := 0
	for _, qt := range queryTokens {
		for _, pt := range patternTokens {
			if strings.Contains(pt, qt) || strings.Contains(qt, pt) {
				score++
				break
			}
		}
	}
	return score
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
