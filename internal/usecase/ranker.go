package usecase

import (
	"sort"
	"strings"

	"github.com/nutricart/backend/internal/domain"
)

// minNameLength discards noise entries (stray glyphs, truncated scrapes).
const minNameLength = 3

// RankAndDedupe orders items by descending score, preserving merge order
// on ties, and collapses duplicates by identity (name + source label,
// lower-cased), keeping the first occurrence. Names shorter than three
// characters after trimming are dropped. Running it on its own output
// yields the same list.
func RankAndDedupe(items []domain.CandidateItem) []domain.CandidateItem {
	ranked := make([]domain.CandidateItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	type identity struct{ name, source string }
	seen := make(map[identity]bool, len(ranked))
	out := make([]domain.CandidateItem, 0, len(ranked))
	for _, item := range ranked {
		name, source := item.Identity()
		if len(strings.TrimSpace(name)) < minNameLength {
			continue
		}
		key := identity{name, source}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
