package domain

import "strings"

// Keyword lexicons used across the pipeline. They live here as plain data
// so matching behavior can be tested and extended independently of the
// algorithms that consume them. Menus mix Portuguese and English, so the
// lexicons carry both.

// DrinkTerms classifies an item as a beverage. Drinks are excluded from
// food results and never composed into a basket.
var DrinkTerms = []string{
	"café", "coffee", "chá", "tea", "sumo", "juice", "refrigerante", "soda", "cola", "coca",
	"cerveja", "beer", "wine", "vinho", "água", "water", "smoothie", "leite", "milk",
	"bebida", "drink", "sprite", "fanta", "red bull", "energético", "energy drink",
	"mocktail", "cocktail", "sangria", "limonada", "lemonade", "ice tea", "chá gelado",
	"expresso", "espresso", "cappuccino", "latte", "mocha", "água com gás", "sparkling",
	"sumo de", "juice of", "copo de", "glass of", "garrafa de", "bottle of",
}

// HealthyTerms mark an item as a likely healthy choice and feed the soft
// scoring boost.
var HealthyTerms = []string{
	"salada", "salad", "grilled", "grelhado", "vegetal", "vegetable",
	"poke", "sopa", "soup", "fruta", "fruit", "arroz", "rice",
	"peixe", "fish", "frango", "chicken", "legumes", "vegetarian",
	"vegan", "plant", "açaí", "acai", "quinoa", "integral", "whole",
}

// RoleLexicons map each canonical basket role to the keywords that
// qualify an item for it. The drink role exists only so tagged drinks can
// be recognized; it is never filled by the composer.
var RoleLexicons = map[BasketRole][]string{
	RoleProtein:      {"frango", "chicken", "peixe", "fish", "carne", "meat", "ovo", "egg", "atum", "tuna", "peru", "turkey", "tofu", "grilled", "grelhado"},
	RoleCarbohydrate: {"arroz", "rice", "batata", "potato", "massa", "pasta", "pão", "bread", "quinoa", "integral", "whole"},
	RoleVegetable:    {"salada", "salad", "vegetal", "vegetable", "legumes", "sopa", "soup", "brócolos", "broccoli", "espinafre", "spinach"},
	RoleDrink:        {"água", "water", "sumo", "juice", "chá", "tea", "leite", "milk"},
}

// FruitTerms back the vegetable_or_fruit fallback slot.
var FruitTerms = []string{"fruta", "fruit", "maçã", "apple", "banana", "laranja", "orange"}

// SnapshotGroceryTerms select grocery snapshot entries worth offering:
// salads, prepared food, produce, staples.
var SnapshotGroceryTerms = []string{
	"salada", "salad", "sandes", "sandwich", "preparad", "legumes", "fruta", "vegetal",
	"bio", "integral", "grelhado", "atum", "frango", "queijo", "iogurte", "arroz", "massa",
	"banana", "uva", "abacate", "mirtilo", "maçã", "laranja", "manga", "limão", "clementina",
	"frutas", "produce",
}

// SnapshotExcludeTerms reject snapshot entries that are not food at all
// (cosmetics, pet supplies) before any dietary filtering runs.
var SnapshotExcludeTerms = []string{
	"coloração", "perfume", "batom", "verniz", "unhas", "máscara", "eyeliner",
	"lápis de olhos", "beauty", "cosmetic", "nail", "hair",
	"ração", "cão", "gato", "pet", "dog", "cat",
}

// SectionNoiseTerms mark menu entries that are page furniture rather than
// orderable items (section headers, promos, fees).
var SectionNoiseTerms = []string{
	"featured", "most liked", "combos", "see all", "save on", "buy 1", "get 1",
	"offer", "top offer", "spend €", "appetisers", "sides", "drinks", "bebidas",
	"sobremesas", "desserts", "house news", "sweet treats", "extras", "add-ons",
	"entradas", "taxa de embalagem", "packaging", "fee", "limite", "limitado",
	"for all your", "frutas da época",
}

// ContainsAny reports whether text contains any of the given terms.
// Matching is plain substring containment; callers pass lower-cased text.
func ContainsAny(text string, terms []string) bool {
	_, ok := FirstMatch(text, terms)
	return ok
}

// FirstMatch returns the first term contained in text, if any.
func FirstMatch(text string, terms []string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			return term, true
		}
	}
	return "", false
}

// CountMatches returns how many terms text contains.
func CountMatches(text string, terms []string) int {
	if text == "" {
		return 0
	}
	n := 0
	for _, term := range terms {
		if term != "" && strings.Contains(text, term) {
			n++
		}
	}
	return n
}

// IsDrink reports whether the item looks like a beverage, either by role
// tag or by lexicon match on its combined text.
func IsDrink(it *CandidateItem) bool {
	if it.BasketRole == RoleDrink {
		return true
	}
	return ContainsAny(it.CombinedText(), DrinkTerms)
}
