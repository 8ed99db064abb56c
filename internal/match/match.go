// Package match implements the lost/found cross-matching heuristic.
//
// A candidate qualifies only if its category equals the query category
// (case-insensitively). Location equality raises the score but never
// qualifies an item on its own. The result is advisory: a human acts on it
// through the claim flow; nothing here mutates state.
package match

import (
	"sort"
	"strings"

	"github.com/campushub/campushub/internal/model"
)

// Find scores every open item of the opposite kind against the given
// (kind, category, location) and returns matches in descending score order.
// Ties keep the candidates' encounter order. An empty candidate set yields an
// empty (nil) result, not an error.
func Find(candidates []model.Item, kind, category, location string) []model.MatchCandidate {
	opposite := model.OppositeKind(kind)

	var matches []model.MatchCandidate
	for _, item := range candidates {
		if item.Kind != opposite || item.Status != model.StatusOpen {
			continue
		}
		if !strings.EqualFold(item.Category, category) {
			continue
		}

		score := model.ScoreCategory
		if strings.EqualFold(item.Location, location) {
			score = model.ScoreCategoryLocation
		}
		matches = append(matches, model.MatchCandidate{Item: item, MatchScore: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches
}
