package usecase

import (
	"regexp"
	"strings"

	"github.com/nutricart/backend/internal/domain"
)

// listSplitRegex separates free-text dietary details into entries.
var listSplitRegex = regexp.MustCompile(`[,;]`)

// noneSentinels are detail strings that mean "nothing to report" and must
// never contribute constraint entries.
var noneSentinels = map[string]bool{
	"não tem": true,
	"nenhum":  true,
	"nenhuma": true,
	"none":    true,
	"n/a":     true,
	"—":       true,
}

// ExtractConstraints normalizes a Subject into a ConstraintSet. It is a
// pure function with no failure mode: malformed or missing fields default
// to empty lists. Every returned entry is non-empty, trimmed and
// lower-case.
func ExtractConstraints(subject *domain.Subject) domain.ConstraintSet {
	if subject == nil {
		return domain.ConstraintSet{}
	}
	d := subject.Dietary
	return domain.ConstraintSet{
		Allergies:    normalizeField(d.FoodAllergies),
		Intolerances: normalizeField(d.FoodIntolerances),
		Disliked:     normalizeField(d.DislikedFoods),
		Favorites:    normalizeField(d.FavoriteFoods),
		DietTypes:    normalizeField(d.DietTypes),
		Medications:  strings.TrimSpace(subject.Medical.Medications.Details),
		EnergyGoal:   subject.EnergyGoal,
		MacroTarget:  subject.MacroGoal,
	}
}

// normalizeField merges a field's explicit list with entries split out of
// its details string, unless the details are a "none" sentinel.
func normalizeField(f domain.FlexField) []string {
	var raw []string
	raw = append(raw, f.List...)

	details := strings.TrimSpace(f.Details)
	if details != "" && !noneSentinels[strings.ToLower(details)] {
		raw = append(raw, listSplitRegex.Split(details, -1)...)
	}

	var out []string
	for _, entry := range raw {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
