package domain

import "strings"

// BasketRole is a meal-composition slot for a basket item.
type BasketRole string

const (
	RoleProtein          BasketRole = "protein"
	RoleCarbohydrate     BasketRole = "carbohydrate"
	RoleVegetable        BasketRole = "vegetable"
	RoleVegetableOrFruit BasketRole = "vegetable_or_fruit"
	RoleDrink            BasketRole = "drink"
	RoleExtra            BasketRole = "extra"
)

// CandidateItem is a single food offering collected from any source,
// before or after filtering.
type CandidateItem struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       string           `json:"price,omitempty"`
	ImageURL    string           `json:"image_url,omitempty"`
	SourceLabel string           `json:"source"`
	SourceURL   string           `json:"source_url"`
	ProductURL  string           `json:"product_url,omitempty"`
	Nutrients   *NutrientProfile `json:"nutrients,omitempty"`
	Macros      *MacroGrams      `json:"macro_grams,omitempty"`
	MacroFit    float64          `json:"macro_fit,omitempty"`
	BasketRole  BasketRole       `json:"basket_role,omitempty"`
	Score       float64          `json:"score,omitempty"`
}

// Identity returns the deduplication key: lower-cased name plus
// lower-cased source label. Two items with the same identity are the same
// candidate regardless of origin.
func (it *CandidateItem) Identity() (string, string) {
	return strings.ToLower(strings.TrimSpace(it.Name)), strings.ToLower(strings.TrimSpace(it.SourceLabel))
}

// CombinedText is the lower-cased name+description used by every lexicon
// check.
func (it *CandidateItem) CombinedText() string {
	return strings.ToLower(strings.TrimSpace(it.Name) + " " + strings.TrimSpace(it.Description))
}

// NutrientProfile is an estimated per-serving nutrient content.
type NutrientProfile struct {
	EnergyKcal   float64 `json:"energy_kcal"`
	Protein      float64 `json:"protein"`
	Carbohydrate float64 `json:"carbohydrate"`
	Fat          float64 `json:"fat"`
	Fiber        float64 `json:"fiber,omitempty"`
	Sugar        float64 `json:"sugar,omitempty"`
	Sodium       float64 `json:"sodium,omitempty"`
	Salt         float64 `json:"salt,omitempty"`
	MatchedName  string  `json:"matched_name,omitempty"`
	Source       string  `json:"nutrition_source"`
	Confidence   string  `json:"confidence,omitempty"`
}

// Basket is a composed, role-balanced subset of candidate items intended
// as one meal's worth of orderable goods.
type Basket struct {
	SubjectName string          `json:"subject_name,omitempty"`
	Store       string          `json:"store"`
	StoreURL    string          `json:"store_url"`
	Items       []CandidateItem `json:"items"`
	TotalMacros MacroGrams      `json:"total_macros"`
	Count       int             `json:"count"`
}

// SumMacros recomputes the basket's macro totals from its items.
func (b *Basket) SumMacros() {
	var total MacroGrams
	for _, it := range b.Items {
		if it.Macros == nil {
			continue
		}
		total.Protein += it.Macros.Protein
		total.Carbohydrate += it.Macros.Carbohydrate
		total.Fat += it.Macros.Fat
	}
	b.TotalMacros = total
	b.Count = len(b.Items)
}

// CachedPayload wraps a pipeline result stored in the cache.
type CachedPayload struct {
	SubjectName string          `json:"subject_name,omitempty"`
	Store       string          `json:"store,omitempty"`
	StoreURL    string          `json:"store_url,omitempty"`
	Items       []CandidateItem `json:"items"`
	TotalMacros *MacroGrams     `json:"total_macros,omitempty"`
	Count       int             `json:"count"`
	CachedAt    int64           `json:"cached_at"`
	FromCache   bool            `json:"from_cache"`
}
