package usecase

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/nutricart/backend/internal/domain"
)

func newTestEnricher(ext *fakeExtractor, config EnricherConfig) *Enricher {
	return NewEnricher(newTestNutritionService(), ext, config, zap.NewNop().Sugar())
}

func TestEnrichFillsNutrition(t *testing.T) {
	ext := &fakeExtractor{images: map[string]string{"Arroz": "https://img.example.com/arroz.jpg"}}
	e := newTestEnricher(ext, EnricherConfig{})

	items := []domain.CandidateItem{{Name: "Arroz"}}
	target := domain.MacroGrams{Protein: 150, Carbohydrate: 150, Fat: 60}
	e.Enrich(context.Background(), items, target)

	it := items[0]
	if it.Nutrients == nil {
		t.Fatal("Nutrients = nil, want resolved profile")
	}
	// per-100g values scaled to the 200 g default serving
	if it.Nutrients.EnergyKcal != 260 {
		t.Errorf("energy = %v, want 260", it.Nutrients.EnergyKcal)
	}
	if it.Macros == nil || it.Macros.Carbohydrate != 56 {
		t.Errorf("macros = %+v, want carbohydrate 56", it.Macros)
	}
	if it.MacroFit == 0 {
		t.Error("MacroFit = 0, want a nonzero distance for a mismatched item")
	}
	if it.ImageURL != "https://img.example.com/arroz.jpg" {
		t.Errorf("image = %q, want backfilled URL", it.ImageURL)
	}
}

func TestEnrichLeavesUnresolvedItemsUntouched(t *testing.T) {
	e := newTestEnricher(&fakeExtractor{}, EnricherConfig{})

	items := []domain.CandidateItem{{Name: "Mystery stew"}}
	e.Enrich(context.Background(), items, domain.MacroGrams{Protein: 100, Carbohydrate: 100, Fat: 50})

	if items[0].Nutrients != nil {
		t.Errorf("Nutrients = %+v, want nil when nothing matches", items[0].Nutrients)
	}
	if items[0].Macros != nil {
		t.Errorf("Macros = %+v, want nil when nothing matches", items[0].Macros)
	}
}

func TestEnrichKeepsExistingImage(t *testing.T) {
	ext := &fakeExtractor{images: map[string]string{"Arroz": "https://img.example.com/other.jpg"}}
	e := newTestEnricher(ext, EnricherConfig{})

	items := []domain.CandidateItem{{Name: "Arroz", ImageURL: "https://img.example.com/original.jpg"}}
	e.Enrich(context.Background(), items, domain.MacroGrams{})

	if items[0].ImageURL != "https://img.example.com/original.jpg" {
		t.Errorf("image = %q, want original kept", items[0].ImageURL)
	}
	for _, call := range ext.calls {
		if call == "image:Arroz" {
			t.Error("image lookup issued although the item already had one")
		}
	}
}

func TestEnrichHonorsBatchLimit(t *testing.T) {
	e := newTestEnricher(&fakeExtractor{}, EnricherConfig{Workers: 1, BatchLimit: 1})

	items := []domain.CandidateItem{{Name: "Arroz"}, {Name: "Frango"}}
	e.Enrich(context.Background(), items, domain.MacroGrams{})

	if items[0].Nutrients == nil {
		t.Error("first item not enriched")
	}
	if items[1].Nutrients != nil {
		t.Errorf("second item enriched (%+v), want untouched past the batch limit", items[1].Nutrients)
	}
}
