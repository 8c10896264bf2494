package usecase

import (
	"strings"

	"github.com/nutricart/backend/internal/domain"
)

// canonicalRoleOrder is the fixed fill order for basket composition.
// Drinks are never composed into a basket.
var canonicalRoleOrder = []domain.BasketRole{
	domain.RoleProtein,
	domain.RoleCarbohydrate,
	domain.RoleVegetable,
	domain.RoleVegetableOrFruit,
}

// minRolesBeforeTopUp: below this many filled roles the composer pads the
// basket from the remaining ranked pool.
const minRolesBeforeTopUp = 3

// ComposeBasket assembles a role-balanced basket from a ranked, filtered,
// deduplicated pool. For each canonical role it takes the highest-scored
// unused item whose text matches the role lexicon; vegetable_or_fruit
// first tries a second vegetable and falls back to fruit. If fewer than
// three roles were filled, it tops up with "extra" items until targetSize
// or pool exhaustion. It never fails: an empty pool yields an empty
// basket.
func ComposeBasket(pool []domain.CandidateItem, targetSize int) []domain.CandidateItem {
	if targetSize <= 0 {
		targetSize = 6
	}

	basket := make([]domain.CandidateItem, 0, targetSize)
	used := make(map[string]bool, targetSize)

	pick := func(terms []string) *domain.CandidateItem {
		var best *domain.CandidateItem
		for i := range pool {
			item := &pool[i]
			name := strings.ToLower(strings.TrimSpace(item.Name))
			if name == "" || used[name] {
				continue
			}
			if !domain.ContainsAny(item.CombinedText(), terms) {
				continue
			}
			if best == nil || item.Score > best.Score {
				best = item
			}
		}
		if best != nil {
			used[strings.ToLower(strings.TrimSpace(best.Name))] = true
		}
		return best
	}

	for _, role := range canonicalRoleOrder {
		if len(basket) >= targetSize {
			break
		}
		var chosen *domain.CandidateItem
		if role == domain.RoleVegetableOrFruit {
			// Second vegetable preferred, fruit as the alternate.
			chosen = pick(domain.RoleLexicons[domain.RoleVegetable])
			if chosen == nil {
				chosen = pick(domain.FruitTerms)
			}
		} else {
			chosen = pick(domain.RoleLexicons[role])
		}
		if chosen != nil {
			tagged := *chosen
			tagged.BasketRole = role
			basket = append(basket, tagged)
		}
	}

	if len(basket) < minRolesBeforeTopUp {
		for i := range pool {
			if len(basket) >= targetSize {
				break
			}
			item := pool[i]
			name := strings.ToLower(strings.TrimSpace(item.Name))
			if name == "" || used[name] {
				continue
			}
			used[name] = true
			item.BasketRole = domain.RoleExtra
			basket = append(basket, item)
		}
	}

	return basket
}
