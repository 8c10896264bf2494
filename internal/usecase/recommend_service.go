package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nutricart/backend/internal/domain"
)

// Cache key kinds. Keys are prefixed with the kind so enumeration can
// pick out one family of entries.
const (
	kindFood   = "food"
	kindBasket = "basket"
)

// RecommendServiceConfig carries the tunables of the recommendation
// pipeline.
type RecommendServiceConfig struct {
	CacheTTL      time.Duration
	BasketSize    int
	DiscoveryMax  int
	DefaultLocale string
	// WarmTimeout bounds a background cache-warming run.
	WarmTimeout time.Duration
}

// RecommendService runs the full recommendation pipeline: constraints,
// source aggregation, filtering, ranking, composition, enrichment and
// caching. It is the single entry point the HTTP layer talks to.
type RecommendService struct {
	cache      domain.ResultCache
	snapshot   domain.SnapshotStore
	aggregator *Aggregator
	enricher   *Enricher
	nutrition  *NutritionService
	config     RecommendServiceConfig
	log        *zap.SugaredLogger
}

// NewRecommendService creates a RecommendService. Zero config values fall
// back to defaults.
func NewRecommendService(
	cache domain.ResultCache,
	snapshot domain.SnapshotStore,
	aggregator *Aggregator,
	enricher *Enricher,
	nutrition *NutritionService,
	config RecommendServiceConfig,
	log *zap.SugaredLogger,
) *RecommendService {
	if config.CacheTTL <= 0 {
		config.CacheTTL = 6 * time.Hour
	}
	if config.BasketSize <= 0 {
		config.BasketSize = 6
	}
	if config.DiscoveryMax <= 0 {
		config.DiscoveryMax = 30
	}
	if config.DefaultLocale == "" {
		config.DefaultLocale = "braga-norte"
	}
	if config.WarmTimeout <= 0 {
		config.WarmTimeout = 2 * time.Minute
	}
	return &RecommendService{
		cache:      cache,
		snapshot:   snapshot,
		aggregator: aggregator,
		enricher:   enricher,
		nutrition:  nutrition,
		config:     config,
		log:        log,
	}
}

// CacheKey derives the cache key for a result kind: the kind prefix plus
// a truncated digest of subject id, locale and kind. An empty subject id
// keys as anonymous.
func CacheKey(kind, subjectID, locale string) string {
	if subjectID == "" {
		subjectID = "anon"
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%s_%s", subjectID, locale, kind)))
	return kind + ":" + hex.EncodeToString(sum[:])[:32]
}

func (s *RecommendService) locale(locale string) string {
	if locale == "" {
		return s.config.DefaultLocale
	}
	return locale
}

// FindFood runs the discovery pipeline for a subject: cache hit returns
// instantly, otherwise sources are aggregated, filtered and ranked, the
// top of the list enriched, and the result cached. When every source
// yields nothing the raw snapshot pool is served unranked so the response
// is never empty for no good reason.
func (s *RecommendService) FindFood(ctx context.Context, subject *domain.Subject, subjectID, locale string) (*domain.CachedPayload, error) {
	locale = s.locale(locale)
	key := CacheKey(kindFood, subjectID, locale)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		return s.servedFromCache(cached), nil
	}

	constraints := ExtractConstraints(subject)
	items := s.aggregator.DiscoverFood(ctx, &constraints)

	if len(items) == 0 {
		// Instant fallback, no live extraction involved.
		raw, err := s.snapshot.AllItems(s.config.DiscoveryMax)
		if err != nil {
			s.log.Warnw("snapshot fallback failed", "error", err)
		}
		items = raw
	}

	items = StripDrinks(items)
	if len(items) > s.config.DiscoveryMax {
		items = items[:s.config.DiscoveryMax]
	}
	s.enricher.Enrich(ctx, items, constraints.MacroTarget)

	payload := &domain.CachedPayload{
		SubjectName: subject.Name,
		Items:       items,
		Count:       len(items),
		CachedAt:    time.Now().Unix(),
	}
	if len(items) > 0 {
		if err := s.cache.Set(ctx, key, payload, s.config.CacheTTL); err != nil {
			s.log.Warnw("cache write failed", "key", key, "error", err)
		}
	}
	return payload, nil
}

// CachedFood returns the cached discovery result for a subject, falling
// back to raw snapshot items when cold. It never triggers live
// extraction.
func (s *RecommendService) CachedFood(ctx context.Context, subjectID, locale string) (*domain.CachedPayload, error) {
	locale = s.locale(locale)
	if cached, err := s.cache.Get(ctx, CacheKey(kindFood, subjectID, locale)); err == nil {
		return s.servedFromCache(cached), nil
	}

	items, err := s.snapshot.AllItems(s.config.DiscoveryMax)
	if err != nil {
		return nil, err
	}
	items = StripDrinks(items)
	return &domain.CachedPayload{
		SubjectName: "Unknown",
		Items:       items,
		Count:       len(items),
		CachedAt:    time.Now().Unix(),
	}, nil
}

// GroceryBasket builds a role-balanced grocery basket for a subject,
// walking the basket source chain and composing from the first source
// that yields survivors. When everything is empty a seed basket is
// served, so the call never fails for lack of items.
func (s *RecommendService) GroceryBasket(ctx context.Context, subject *domain.Subject, subjectID, locale string) (*domain.CachedPayload, error) {
	locale = s.locale(locale)
	key := CacheKey(kindBasket, subjectID, locale)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		return s.servedFromCache(cached), nil
	}

	constraints := ExtractConstraints(subject)
	pool, venue := s.aggregator.GroceryPool(ctx, &constraints)

	var items []domain.CandidateItem
	if len(pool) > 0 {
		items = ComposeBasket(pool, s.config.BasketSize)
		if len(items) == 0 {
			items = pool
			if len(items) > s.config.BasketSize {
				items = items[:s.config.BasketSize]
			}
		}
	}

	if len(items) == 0 {
		seed := SeedBasket(0)
		venue = domain.Venue{Name: seed.Store, URL: seed.StoreURL}
		items = seed.Items
	}

	items = StripDrinks(items)
	s.enricher.Enrich(ctx, items, constraints.MacroTarget)

	basket := domain.Basket{
		SubjectName: subject.Name,
		Store:       venue.Name,
		StoreURL:    venue.URL,
		Items:       items,
	}
	basket.SumMacros()

	payload := &domain.CachedPayload{
		SubjectName: basket.SubjectName,
		Store:       basket.Store,
		StoreURL:    basket.StoreURL,
		Items:       basket.Items,
		TotalMacros: &basket.TotalMacros,
		Count:       basket.Count,
		CachedAt:    time.Now().Unix(),
	}
	if err := s.cache.Set(ctx, key, payload, s.config.CacheTTL); err != nil {
		s.log.Warnw("cache write failed", "key", key, "error", err)
	}
	return payload, nil
}

// CachedGroceryBasket returns the cached basket for a subject, falling
// back to grocery snapshot items and finally a seed basket when cold.
func (s *RecommendService) CachedGroceryBasket(ctx context.Context, subjectID, locale string) (*domain.CachedPayload, error) {
	locale = s.locale(locale)
	if cached, err := s.cache.Get(ctx, CacheKey(kindBasket, subjectID, locale)); err == nil {
		return s.servedFromCache(cached), nil
	}

	items, err := s.snapshot.GroceryItems(locale, s.config.BasketSize*3)
	if err != nil {
		s.log.Warnw("grocery snapshot fallback failed", "error", err)
	}
	items = StripDrinks(items)
	if len(items) > 0 {
		return &domain.CachedPayload{
			Store:    items[0].SourceLabel,
			StoreURL: items[0].SourceURL,
			Items:    items,
			Count:    len(items),
			CachedAt: time.Now().Unix(),
		}, nil
	}

	seed := SeedBasket(0)
	return &domain.CachedPayload{
		Store:       seed.Store,
		StoreURL:    seed.StoreURL,
		Items:       seed.Items,
		TotalMacros: &seed.TotalMacros,
		Count:       seed.Count,
		CachedAt:    time.Now().Unix(),
	}, nil
}

// WarmStatus is what WarmCache reports back immediately.
type WarmStatus struct {
	Status string `json:"status"`
	Count  int    `json:"count,omitempty"`
}

// WarmCache pre-computes the discovery result for a subject in the
// background. It returns immediately: "cached" when a result is already
// present, otherwise "warming" while a goroutine fills the cache. The
// outcome of the background run is observable only through the cache.
func (s *RecommendService) WarmCache(ctx context.Context, subject *domain.Subject, subjectID, locale string) WarmStatus {
	locale = s.locale(locale)

	if cached, err := s.cache.Get(ctx, CacheKey(kindFood, subjectID, locale)); err == nil {
		return WarmStatus{Status: "cached", Count: cached.Count}
	}
	if cached, err := s.cache.Get(ctx, CacheKey(kindBasket, subjectID, locale)); err == nil {
		return WarmStatus{Status: "cached", Count: cached.Count}
	}

	subjectCopy := *subject
	go func() {
		warmCtx, cancel := context.WithTimeout(context.Background(), s.config.WarmTimeout)
		defer cancel()
		if _, err := s.FindFood(warmCtx, &subjectCopy, subjectID, locale); err != nil {
			s.log.Warnw("cache warm failed", "subject_id", subjectID, "error", err)
		}
	}()
	return WarmStatus{Status: "warming"}
}

// Baskets lists every non-expired cached basket.
func (s *RecommendService) Baskets(ctx context.Context) ([]*domain.CachedPayload, error) {
	return s.cache.Entries(ctx, kindBasket)
}

// Nutrition resolves a nutrition estimate for a free-form food name.
// ErrNoNutritionMatch means unknown, never zero.
func (s *RecommendService) Nutrition(name, sourceContext string) (*domain.NutrientProfile, error) {
	return s.nutrition.Resolve(name, sourceContext)
}

// SeedCaches fills cold basket cache slots for the given subjects with
// seed templates, rotating through the templates. Meant to run in a
// background goroutine at startup; already-cached slots are left alone.
func (s *RecommendService) SeedCaches(ctx context.Context, subjectList []domain.Subject, locale string) {
	locale = s.locale(locale)
	for i, subject := range subjectList {
		subjectID := fmt.Sprintf("%d", i)
		key := CacheKey(kindBasket, subjectID, locale)
		if _, err := s.cache.Get(ctx, key); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrCacheMiss) && !errors.Is(err, domain.ErrCacheCorrupt) {
			s.log.Warnw("cache read failed during seeding", "key", key, "error", err)
			continue
		}

		basket := SeedBasket(i)
		name := subject.Name
		if name == "" {
			name = fmt.Sprintf("Subject %d", i)
		}
		payload := &domain.CachedPayload{
			SubjectName: name,
			Store:       basket.Store,
			StoreURL:    basket.StoreURL,
			Items:       basket.Items,
			TotalMacros: &basket.TotalMacros,
			Count:       basket.Count,
			CachedAt:    time.Now().Unix(),
		}
		if err := s.cache.Set(ctx, key, payload, s.config.CacheTTL); err != nil {
			s.log.Warnw("cache seed failed", "key", key, "error", err)
		}
	}
	s.log.Infow("basket cache seeded", "subjects", len(subjectList))
}

func (s *RecommendService) servedFromCache(p *domain.CachedPayload) *domain.CachedPayload {
	out := *p
	out.Items = StripDrinks(out.Items)
	out.Count = len(out.Items)
	out.FromCache = true
	return &out
}
