package usecase

import (
	"fmt"

	"github.com/nutricart/backend/internal/domain"
)

// Scoring constants. The score is a heuristic relevance signal in
// [0,100], not a nutritional one.
const (
	baselineScore  = 50.0
	favoritesBoost = 15.0 // single boost regardless of match count
	healthyBoost   = 5.0
	maxScore       = 100.0
)

// FilterItem applies the hard exclusion rules to one item. Every rule is
// an independent veto; the first matching rule's reason is returned.
func FilterItem(item *domain.CandidateItem, constraints *domain.ConstraintSet) (bool, string) {
	if domain.IsDrink(item) {
		return false, "drink (excluded)"
	}

	combined := item.CombinedText()

	for _, term := range constraints.Allergies {
		if term != "" && domain.ContainsAny(combined, []string{term}) {
			return false, fmt.Sprintf("contains allergen: %s", term)
		}
	}
	for _, term := range constraints.Intolerances {
		if term != "" && domain.ContainsAny(combined, []string{term}) {
			return false, fmt.Sprintf("contains intolerance: %s", term)
		}
	}
	for _, term := range constraints.Disliked {
		if term != "" && domain.ContainsAny(combined, []string{term}) {
			return false, fmt.Sprintf("contains disliked food: %s", term)
		}
	}

	return true, "ok"
}

// ScoreItem computes the soft fitness score for one item: baseline 50,
// +15 if any favorite term matches, +5 if any healthy-lexicon term
// matches, clamped to 100.
func ScoreItem(item *domain.CandidateItem, constraints *domain.ConstraintSet) float64 {
	score := baselineScore
	combined := item.CombinedText()

	if domain.ContainsAny(combined, constraints.Favorites) {
		score += favoritesBoost
	}
	if domain.ContainsAny(combined, domain.HealthyTerms) {
		score += healthyBoost
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// FilterAndScore runs the veto filter over a pool and scores the
// survivors. Input order is preserved.
func FilterAndScore(items []domain.CandidateItem, constraints *domain.ConstraintSet) []domain.CandidateItem {
	out := make([]domain.CandidateItem, 0, len(items))
	for _, item := range items {
		if passes, _ := FilterItem(&item, constraints); !passes {
			continue
		}
		item.Score = ScoreItem(&item, constraints)
		out = append(out, item)
	}
	return out
}

// StripDrinks removes beverage items from a slice. Used on cached
// payloads written before the drink policy applied to them.
func StripDrinks(items []domain.CandidateItem) []domain.CandidateItem {
	out := make([]domain.CandidateItem, 0, len(items))
	for _, item := range items {
		if domain.IsDrink(&item) {
			continue
		}
		out = append(out, item)
	}
	return out
}
