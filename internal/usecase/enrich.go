package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nutricart/backend/internal/domain"
)

// EnricherConfig bounds the enrichment pool.
type EnricherConfig struct {
	Workers     int
	ItemTimeout time.Duration
	// BatchLimit caps how many items of a result get enriched; the rest
	// keep their raw form.
	BatchLimit int
}

// Enricher decorates candidate items with nutrition estimates, macro-fit
// scores and images. Enrichment is strictly best effort: when a lookup
// fails or times out the item stays unenriched, it is never dropped and
// never gets zero-valued nutrients.
type Enricher struct {
	nutrition *NutritionService
	extractor domain.MenuExtractor
	config    EnricherConfig
	log       *zap.SugaredLogger
}

// NewEnricher creates an Enricher. Zero config values fall back to
// defaults.
func NewEnricher(nutrition *NutritionService, extractor domain.MenuExtractor, config EnricherConfig, log *zap.SugaredLogger) *Enricher {
	if config.Workers <= 0 {
		config.Workers = 8
	}
	if config.ItemTimeout <= 0 {
		config.ItemTimeout = 6 * time.Second
	}
	if config.BatchLimit <= 0 {
		config.BatchLimit = 20
	}
	return &Enricher{
		nutrition: nutrition,
		extractor: extractor,
		config:    config,
		log:       log,
	}
}

// Enrich fills in nutrition, macro fit and images for up to BatchLimit
// items, in place, using a bounded worker pool. It returns when every
// worker has finished; the pool never propagates item failures.
func (e *Enricher) Enrich(ctx context.Context, items []domain.CandidateItem, target domain.MacroGrams) {
	limit := len(items)
	if limit > e.config.BatchLimit {
		limit = e.config.BatchLimit
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)
	for i := 0; i < limit; i++ {
		item := &items[i]
		g.Go(func() error {
			e.enrichOne(ctx, item, target)
			return nil
		})
	}
	_ = g.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, item *domain.CandidateItem, target domain.MacroGrams) {
	itemCtx, cancel := context.WithTimeout(ctx, e.config.ItemTimeout)
	defer cancel()

	if item.Nutrients == nil {
		profile, err := e.nutrition.Resolve(item.Name, item.SourceLabel)
		if err != nil {
			e.log.Debugw("nutrition unresolved", "item", item.Name, "error", err)
		} else {
			item.Nutrients = profile
			item.Macros = &domain.MacroGrams{
				Protein:      profile.Protein,
				Carbohydrate: profile.Carbohydrate,
				Fat:          profile.Fat,
			}
			if fit, ok := MacroFit(profile, target); ok {
				item.MacroFit = fit
			}
		}
	}

	if item.ImageURL == "" && e.extractor != nil {
		url, err := e.extractor.ItemImage(itemCtx, item.Name)
		if err != nil {
			e.log.Debugw("image lookup failed", "item", item.Name, "error", err)
		} else if url != "" {
			item.ImageURL = url
		}
	}
}
