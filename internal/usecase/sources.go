package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/nutricart/backend/internal/domain"
)

// sourceAttempt is one named step of an aggregation chain. Fetch returns
// raw candidates; an error or an empty slice both count as "this source
// yielded nothing" and the chain moves on.
type sourceAttempt struct {
	name  string
	fetch func(ctx context.Context) ([]domain.CandidateItem, error)
}

// AggregatorConfig bounds how much each source is asked for.
type AggregatorConfig struct {
	Locale           string
	GroceryVenue     domain.Venue
	MaxVenues        int
	MaxItemsPerVenue int
	DiscoveryMax     int
	// Oversample widens raw fetches so filtering still leaves enough.
	Oversample int
}

// Aggregator walks ordered source chains until one produces items that
// survive dietary filtering. Live sources are isolated: a failing or slow
// extraction never breaks the chain, it just contributes nothing.
type Aggregator struct {
	snapshot  domain.SnapshotStore
	extractor domain.MenuExtractor
	config    AggregatorConfig
	log       *zap.SugaredLogger
}

// NewAggregator creates an Aggregator. Zero config values fall back to
// workable defaults.
func NewAggregator(snapshot domain.SnapshotStore, extractor domain.MenuExtractor, config AggregatorConfig, log *zap.SugaredLogger) *Aggregator {
	if config.MaxVenues <= 0 {
		config.MaxVenues = 3
	}
	if config.MaxItemsPerVenue <= 0 {
		config.MaxItemsPerVenue = 20
	}
	if config.DiscoveryMax <= 0 {
		config.DiscoveryMax = 30
	}
	if config.Oversample <= 0 {
		config.Oversample = 2
	}
	return &Aggregator{
		snapshot:  snapshot,
		extractor: extractor,
		config:    config,
		log:       log,
	}
}

// DiscoverFood builds the discovery pool: snapshot items supplemented by
// live healthy-category extraction, filtered, scored and ranked. Unlike
// the basket chain both sources always contribute; the snapshot makes the
// result instant and the live step adds variety when it works.
func (a *Aggregator) DiscoverFood(ctx context.Context, constraints *domain.ConstraintSet) []domain.CandidateItem {
	var pool []domain.CandidateItem

	snapItems, err := a.snapshot.AllItems(a.config.DiscoveryMax * a.config.Oversample)
	if err != nil {
		a.log.Warnw("snapshot read failed", "error", err)
	}
	pool = append(pool, FilterAndScore(snapItems, constraints)...)

	pool = append(pool, FilterAndScore(a.liveHealthyItems(ctx), constraints)...)

	return RankAndDedupe(pool)
}

// GroceryPool walks the basket source chain and returns the first batch
// of items that survives filtering, together with the venue it came from.
// The chain order is fixed: locale grocery snapshot, known grocery venue
// extraction, feed search seeded with the subject's favorites, then a
// category scrape across venues.
func (a *Aggregator) GroceryPool(ctx context.Context, constraints *domain.ConstraintSet) ([]domain.CandidateItem, domain.Venue) {
	venue := a.config.GroceryVenue

	attempts := []sourceAttempt{
		{
			name: "grocery_snapshot",
			fetch: func(ctx context.Context) ([]domain.CandidateItem, error) {
				return a.snapshot.GroceryItems(a.config.Locale, a.config.MaxItemsPerVenue*a.config.Oversample)
			},
		},
		{
			name: "grocery_venue",
			fetch: func(ctx context.Context) ([]domain.CandidateItem, error) {
				if venue.URL == "" {
					return nil, nil
				}
				return a.extractor.VenueMenu(ctx, venue.URL)
			},
		},
		{
			name: "feed_search",
			fetch: func(ctx context.Context) ([]domain.CandidateItem, error) {
				return a.feedSearchItems(ctx, constraints)
			},
		},
		{
			name: "category_scrape",
			fetch: func(ctx context.Context) ([]domain.CandidateItem, error) {
				return a.categoryItems(ctx)
			},
		},
	}

	for _, attempt := range attempts {
		raw, err := attempt.fetch(ctx)
		if err != nil {
			a.log.Warnw("source attempt failed", "source", attempt.name, "error", err)
			continue
		}
		survivors := FilterAndScore(raw, constraints)
		if len(survivors) == 0 {
			a.log.Debugw("source attempt empty", "source", attempt.name, "raw", len(raw))
			continue
		}
		a.log.Infow("source attempt selected", "source", attempt.name, "items", len(survivors))
		if v := dominantVenue(survivors, venue); v.URL != "" {
			venue = v
		}
		return RankAndDedupe(survivors), venue
	}

	return nil, venue
}

// feedSearchTerms are the default healthy queries; the subject's first
// favorites go in front of them.
var feedSearchTerms = []string{"healthy", "frango grelhado", "arroz integral", "salada", "legumes"}

const (
	maxFavoriteTerms = 3
	maxSearchTerms   = 5
)

func (a *Aggregator) feedSearchItems(ctx context.Context, constraints *domain.ConstraintSet) ([]domain.CandidateItem, error) {
	terms := make([]string, 0, maxSearchTerms)
	for _, fav := range constraints.Favorites {
		if len(terms) == maxFavoriteTerms {
			break
		}
		terms = append(terms, fav)
	}
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		seen[t] = true
	}
	for _, t := range feedSearchTerms {
		if len(terms) == maxSearchTerms {
			break
		}
		if !seen[t] {
			seen[t] = true
			terms = append(terms, t)
		}
	}

	var items []domain.CandidateItem
	for _, term := range terms {
		found, err := a.extractor.FeedSearch(ctx, term, a.config.MaxItemsPerVenue)
		if err != nil {
			a.log.Debugw("feed search failed", "term", term, "error", err)
			continue
		}
		items = append(items, found...)
	}
	return items, nil
}

// categoryItems scrapes the grocery category venues and falls back to the
// healthy category when no grocery venues are listed.
func (a *Aggregator) categoryItems(ctx context.Context) ([]domain.CandidateItem, error) {
	venues, err := a.extractor.VenuesByCategory(ctx, a.config.Locale, "grocery", a.config.MaxVenues)
	if err != nil || len(venues) == 0 {
		venues, err = a.extractor.VenuesByCategory(ctx, a.config.Locale, "healthy", a.config.MaxVenues)
		if err != nil {
			return nil, err
		}
	}

	var items []domain.CandidateItem
	for _, v := range venues {
		menu, err := a.extractor.VenueMenu(ctx, v.URL)
		if err != nil {
			a.log.Debugw("venue menu failed", "venue", v.URL, "error", err)
			continue
		}
		if len(menu) > a.config.MaxItemsPerVenue {
			menu = menu[:a.config.MaxItemsPerVenue]
		}
		for i := range menu {
			if menu[i].SourceLabel == "" {
				menu[i].SourceLabel = v.Name
			}
			if menu[i].SourceURL == "" {
				menu[i].SourceURL = v.URL
			}
		}
		items = append(items, menu...)
	}
	return items, nil
}

func (a *Aggregator) liveHealthyItems(ctx context.Context) []domain.CandidateItem {
	venues, err := a.extractor.VenuesByCategory(ctx, a.config.Locale, "healthy", a.config.MaxVenues)
	if err != nil {
		a.log.Debugw("healthy venue listing failed", "error", err)
		return nil
	}

	var items []domain.CandidateItem
	for _, v := range venues {
		menu, err := a.extractor.VenueMenu(ctx, v.URL)
		if err != nil {
			a.log.Debugw("venue menu failed", "venue", v.URL, "error", err)
			continue
		}
		if len(menu) > a.config.MaxItemsPerVenue {
			menu = menu[:a.config.MaxItemsPerVenue]
		}
		for i := range menu {
			if menu[i].SourceLabel == "" {
				menu[i].SourceLabel = v.Name
			}
			if menu[i].SourceURL == "" {
				menu[i].SourceURL = v.URL
			}
		}
		items = append(items, menu...)
	}
	return items
}

// dominantVenue returns the venue most items in the batch came from, used
// so a feed-search basket links back to the right store page.
func dominantVenue(items []domain.CandidateItem, fallback domain.Venue) domain.Venue {
	counts := make(map[domain.Venue]int)
	for _, it := range items {
		if it.SourceURL == "" {
			continue
		}
		counts[domain.Venue{Name: it.SourceLabel, URL: it.SourceURL}]++
	}
	best := fallback
	bestCount := 0
	for v, n := range counts {
		if n > bestCount {
			best, bestCount = v, n
		}
	}
	return best
}
