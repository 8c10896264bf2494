package usecase

import "github.com/nutricart/backend/internal/domain"

// seedBaskets are hand-authored balanced baskets used when every live and
// snapshot source comes up empty, and to pre-seed the cache at startup so
// the dashboard always has something to show.
var seedBaskets = []domain.Basket{
	{
		Store:    "Grocery Marketplace",
		StoreURL: "https://marketplace.example/feeds/shop_feed",
		Items: []domain.CandidateItem{
			{Name: "Peito de frango grelhado", Price: "€6.90", BasketRole: domain.RoleProtein,
				Macros: &domain.MacroGrams{Protein: 31, Carbohydrate: 0, Fat: 3.6}},
			{Name: "Arroz integral", Price: "€2.50", BasketRole: domain.RoleCarbohydrate,
				Macros: &domain.MacroGrams{Protein: 2.6, Carbohydrate: 23, Fat: 1.9}},
			{Name: "Salada mista", Price: "€3.90", BasketRole: domain.RoleVegetable,
				Macros: &domain.MacroGrams{Protein: 1.5, Carbohydrate: 4, Fat: 0.3}},
			{Name: "Maçã", Price: "€0.80", BasketRole: domain.RoleVegetableOrFruit,
				Macros: &domain.MacroGrams{Protein: 0.3, Carbohydrate: 14, Fat: 0.2}},
		},
	},
	{
		Store:    "Grocery Marketplace",
		StoreURL: "https://marketplace.example/feeds/shop_feed",
		Items: []domain.CandidateItem{
			{Name: "Salmão grelhado", Price: "€8.90", BasketRole: domain.RoleProtein,
				Macros: &domain.MacroGrams{Protein: 25, Carbohydrate: 0, Fat: 13}},
			{Name: "Arroz de sushi", Price: "€2.90", BasketRole: domain.RoleCarbohydrate,
				Macros: &domain.MacroGrams{Protein: 2.4, Carbohydrate: 28, Fat: 0.3}},
			{Name: "Edamame", Price: "€3.50", BasketRole: domain.RoleVegetable,
				Macros: &domain.MacroGrams{Protein: 11, Carbohydrate: 10, Fat: 5}},
			{Name: "Abacate", Price: "€2.00", BasketRole: domain.RoleVegetableOrFruit,
				Macros: &domain.MacroGrams{Protein: 2, Carbohydrate: 9, Fat: 15}},
		},
	},
}

// SeedBasket returns a copy of the seed basket template at index (mod the
// template count), with source labels stamped and macros summed.
func SeedBasket(index int) domain.Basket {
	if index < 0 {
		index = -index
	}
	template := seedBaskets[index%len(seedBaskets)]

	basket := domain.Basket{
		Store:    template.Store,
		StoreURL: template.StoreURL,
		Items:    make([]domain.CandidateItem, len(template.Items)),
	}
	copy(basket.Items, template.Items)
	for i := range basket.Items {
		it := &basket.Items[i]
		if it.SourceLabel == "" {
			it.SourceLabel = template.Store
		}
		if it.SourceURL == "" {
			it.SourceURL = template.StoreURL
		}
		if it.Macros != nil {
			m := *it.Macros
			it.Macros = &m
		}
	}
	basket.SumMacros()
	return basket
}

// SeedBasketCount reports how many seed templates exist.
func SeedBasketCount() int {
	return len(seedBaskets)
}
