// Package search provides ranked fuzzy lookup over catalog names,
// complementing the catalog view's exact substring filter.
package search

import (
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/drake/drivecast/internal/domain"
)

// Match is one ranked search hit.
type Match struct {
	File           domain.MediaFile
	Score          int   // higher = better
	MatchedIndexes []int // rune positions for highlighting
}

// fileSource adapts a catalog slice for the ranking matcher.
type fileSource []domain.MediaFile

func (s fileSource) String(i int) string { return s[i].Name }
func (s fileSource) Len() int            { return len(s) }

// Find returns catalog files matching the query, best first. A cheap
// case-folded subsequence check prunes the candidate set before ranking.
func Find(query string, files []domain.MediaFile) []Match {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	candidates := make(fileSource, 0, len(files))
	for _, f := range files {
		if lfuzzy.MatchNormalizedFold(query, f.Name) {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	ranked := fuzzy.FindFrom(query, candidates)
	matches := make([]Match, 0, len(ranked))
	for _, r := range ranked {
		matches = append(matches, Match{
			File:           candidates[r.Index],
			Score:          r.Score,
			MatchedIndexes: r.MatchedIndexes,
		})
	}
	return matches
}
