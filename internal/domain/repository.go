package domain

import (
	"context"
	"time"
)

// ResultCache defines the keyed payload store the pipeline sits behind.
// Entries expire after the TTL given on Set and stale entries are purged
// on read. Concurrent writers to the same key are last-write-wins.
type ResultCache interface {
	Get(ctx context.Context, key string) (*CachedPayload, error)
	Set(ctx context.Context, key string, payload *CachedPayload, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Entries returns all non-expired payloads whose key carries the
	// given kind prefix.
	Entries(ctx context.Context, kind string) ([]*CachedPayload, error)
}

// Venue is a store or restaurant discovered by the extraction service.
type Venue struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MenuExtractor defines the interface to the external content extraction
// service. Any call may return an empty list or fail; callers impose
// their own timeouts and treat failures as empty contributions.
type MenuExtractor interface {
	// VenuesByCategory lists venues for a locale category such as
	// "healthy" or "grocery".
	VenuesByCategory(ctx context.Context, locale, category string, limit int) ([]Venue, error)
	// VenueMenu extracts the raw menu of one venue.
	VenueMenu(ctx context.Context, venueURL string) ([]CandidateItem, error)
	// FeedSearch extracts items from the generic feed for a search term.
	FeedSearch(ctx context.Context, term string, limit int) ([]CandidateItem, error)
	// ItemImage looks up an image URL for a food name. Best effort.
	ItemImage(ctx context.Context, name string) (string, error)
}

// SnapshotStore reads the previously captured menu snapshot.
type SnapshotStore interface {
	// GroceryItems returns curated grocery entries for a locale, ordered
	// by healthy-keyword relevance, at most max items.
	GroceryItems(locale string, max int) ([]CandidateItem, error)
	// AllItems returns a flat slice of snapshot menu entries across all
	// captured venues, at most max items.
	AllItems(max int) ([]CandidateItem, error)
}

// FoodDatabase exposes the static reference nutrition tables.
type FoodDatabase interface {
	Foods() []ReferenceFood
	KnownDishes() []KnownDish
}

// ReferenceFood is one per-100g entry of the reference table.
type ReferenceFood struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
	Per100g
}

// Per100g carries nutrient values per 100 grams.
type Per100g struct {
	EnergyKcal   float64 `json:"energy_kcal_100g"`
	Protein      float64 `json:"proteins_100g"`
	Carbohydrate float64 `json:"carbohydrates_100g"`
	Fat          float64 `json:"fat_100g"`
	Fiber        float64 `json:"fiber_100g"`
}

// KnownDish is a named dish with exact per-serving nutrition. Keywords
// are matched against the lower-cased name plus source context; MatchAll
// selects conjunctive instead of disjunctive matching.
type KnownDish struct {
	Name         string   `json:"product_name"`
	Keywords     []string `json:"keywords"`
	MatchAll     bool     `json:"match_all"`
	EnergyKcal   float64  `json:"energy_kcal"`
	Protein      float64  `json:"protein"`
	Carbohydrate float64  `json:"carbohydrate"`
	Fat          float64  `json:"fat"`
	Fiber        float64  `json:"fiber"`
}
