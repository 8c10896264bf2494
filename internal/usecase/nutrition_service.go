package usecase

import (
	"math"
	"regexp"
	"strings"

	"github.com/nutricart/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	ordinalPrefixRegex = regexp.MustCompile(`^\d+\.?\s*`)
	parentheticalRegex = regexp.MustCompile(`\s*\(.*?\)`)
	conjunctionRegex   = regexp.MustCompile(`,|\s+(?:e|com|plus|\+|&|and|with)\s+`)
)

// ingredientStopWords are adjectives and fillers stripped before a menu
// name is decomposed into ingredient tokens.
var ingredientStopWords = []string{
	"delicioso", "caseiro", "fresco", "tradicional", "da casa",
	"especial", "grelhado", "frito", "assado", "no forno", "molho", "com",
}

var stopWordRegexes = compileStopWords(ingredientStopWords)

func compileStopWords(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}

// minIngredientLength drops split fragments too short to be a food word.
const minIngredientLength = 3

// NutritionServiceConfig holds configuration for the nutrition service
type NutritionServiceConfig struct {
	ServingGrams  float64
	LowEnergyKcal float64
}

// NutritionService resolves a food name to an estimated per-serving
// nutrient profile using only the static reference tables; it has no
// live network dependency.
type NutritionService struct {
	db            domain.FoodDatabase
	servingGrams  float64
	lowEnergyKcal float64
}

// NewNutritionService creates a new nutrition service with dependencies
func NewNutritionService(db domain.FoodDatabase, config NutritionServiceConfig) *NutritionService {
	servingGrams := config.ServingGrams
	if servingGrams <= 0 {
		servingGrams = 200 // typical restaurant portion
	}
	lowEnergy := config.LowEnergyKcal
	if lowEnergy <= 0 {
		lowEnergy = 80 // salad / vegetable-only territory
	}
	return &NutritionService{
		db:            db,
		servingGrams:  servingGrams,
		lowEnergyKcal: lowEnergy,
	}
}

// Resolve maps a food name (plus optional source context such as the
// venue name) to a per-serving profile. Known dishes win first and carry
// exact per-serving values; otherwise the name is decomposed into
// ingredients matched against the per-100g table and scaled. A nil
// result with domain.ErrNoNutritionMatch means "unknown", never "zero".
func (s *NutritionService) Resolve(name, sourceContext string) (*domain.NutrientProfile, error) {
	return s.ResolveServing(name, sourceContext, s.servingGrams)
}

// ResolveServing is Resolve with an explicit serving size in grams.
func (s *NutritionService) ResolveServing(name, sourceContext string, servingGrams float64) (*domain.NutrientProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidRequest
	}
	if servingGrams <= 0 {
		servingGrams = s.servingGrams
	}

	searchText := strings.ToLower(strings.TrimSpace(name + " " + sourceContext))
	if dish := matchKnownDish(searchText, s.db.KnownDishes()); dish != nil {
		return &domain.NutrientProfile{
			EnergyKcal:   dish.EnergyKcal,
			Protein:      dish.Protein,
			Carbohydrate: dish.Carbohydrate,
			Fat:          dish.Fat,
			Fiber:        dish.Fiber,
			MatchedName:  dish.Name,
			Source:       "known_dish",
		}, nil
	}

	per100, matchedName, confidence, err := s.resolvePer100g(name)
	if err != nil {
		return nil, err
	}

	factor := servingGrams / 100.0
	return &domain.NutrientProfile{
		EnergyKcal:   math.Round(per100.EnergyKcal * factor),
		Protein:      round1(per100.Protein * factor),
		Carbohydrate: round1(per100.Carbohydrate * factor),
		Fat:          round1(per100.Fat * factor),
		Fiber:        round1(per100.Fiber * factor),
		MatchedName:  matchedName,
		Source:       "reference_db",
		Confidence:   confidence,
	}, nil
}

// MacroFit returns the squared-difference distance between an item's
// macro ratios and the subject's target macro distribution. Lower is a
// better fit. The second return is false when either side has no macros.
func MacroFit(profile *domain.NutrientProfile, target domain.MacroGrams) (float64, bool) {
	if profile == nil {
		return 0, false
	}
	itemTotal := profile.Protein + profile.Carbohydrate + profile.Fat
	targetTotal := target.Protein + target.Carbohydrate + target.Fat
	if itemTotal == 0 || targetTotal == 0 {
		return 0, false
	}
	dp := target.Protein/targetTotal - profile.Protein/itemTotal
	dc := target.Carbohydrate/targetTotal - profile.Carbohydrate/itemTotal
	df := target.Fat/targetTotal - profile.Fat/itemTotal
	return round4(dp*dp + dc*dc + df*df), true
}

// matchKnownDish scans the known-dish table in order; the first dish
// whose keywords satisfy its match mode wins.
func matchKnownDish(searchText string, dishes []domain.KnownDish) *domain.KnownDish {
	for i := range dishes {
		dish := &dishes[i]
		if len(dish.Keywords) == 0 {
			continue
		}
		if dish.MatchAll {
			if !containsAll(searchText, dish.Keywords) {
				continue
			}
		} else if !domain.ContainsAny(searchText, dish.Keywords) {
			continue
		}
		return dish
	}
	return nil
}

// resolvePer100g decomposes the name into ingredient tokens, matches each
// against the per-100g table and averages the matches.
func (s *NutritionService) resolvePer100g(name string) (domain.Per100g, string, string, error) {
	foods := s.db.Foods()
	if len(foods) == 0 {
		return domain.Per100g{}, "", "", domain.ErrNoNutritionMatch
	}

	ingredients := ExtractIngredients(name)
	if len(ingredients) == 0 {
		ingredients = []string{strings.ToLower(name)}
	}

	var matches []domain.ReferenceFood
	for _, ing := range ingredients {
		if food := findReferenceFood(ing, foods); food != nil {
			matches = append(matches, *food)
		}
	}
	if len(matches) == 0 {
		return domain.Per100g{}, "", "", domain.ErrNoNutritionMatch
	}

	// A lone low-calorie match out of several tokens means the probable
	// main component did not match; report unknown instead of a
	// misleadingly low estimate.
	if len(ingredients) > 1 && len(matches) == 1 && matches[0].Per100g.EnergyKcal < s.lowEnergyKcal {
		return domain.Per100g{}, "", "", domain.ErrNoNutritionMatch
	}

	var avg domain.Per100g
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		avg.EnergyKcal += m.Per100g.EnergyKcal
		avg.Protein += m.Per100g.Protein
		avg.Carbohydrate += m.Per100g.Carbohydrate
		avg.Fat += m.Per100g.Fat
		avg.Fiber += m.Per100g.Fiber
		names = append(names, m.Name)
	}
	n := float64(len(matches))
	avg.EnergyKcal = round2(avg.EnergyKcal / n)
	avg.Protein = round2(avg.Protein / n)
	avg.Carbohydrate = round2(avg.Carbohydrate / n)
	avg.Fat = round2(avg.Fat / n)
	avg.Fiber = round2(avg.Fiber / n)

	confidence := "estimated"
	if len(matches) < len(ingredients) {
		confidence = "partial"
	}
	return avg, strings.Join(names, " + "), confidence, nil
}

// ExtractIngredients splits a menu item name into candidate ingredient
// tokens: ordinal prefixes and parentheticals are stripped, stop words
// removed, then the remainder is split on commas and conjunctions. Only
// tokens of at least three characters survive.
func ExtractIngredients(name string) []string {
	cleaned := strings.ToLower(name)
	cleaned = ordinalPrefixRegex.ReplaceAllString(cleaned, "")
	cleaned = parentheticalRegex.ReplaceAllString(cleaned, "")
	for _, re := range stopWordRegexes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}

	parts := conjunctionRegex.Split(cleaned, -1)
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= minIngredientLength {
			out = append(out, p)
		}
	}
	return out
}

// findReferenceFood searches the per-100g table: exact name match first,
// then keyword containment.
func findReferenceFood(query string, foods []domain.ReferenceFood) *domain.ReferenceFood {
	queryLower := strings.ToLower(query)
	for i := range foods {
		if queryLower == strings.ToLower(foods[i].Name) {
			return &foods[i]
		}
	}
	for i := range foods {
		for _, kw := range foods[i].Keywords {
			if kw != "" && strings.Contains(queryLower, kw) {
				return &foods[i]
			}
		}
	}
	return nil
}

func containsAll(text string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(text, term) {
			return false
		}
	}
	return true
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
