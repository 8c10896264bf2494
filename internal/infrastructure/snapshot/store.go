package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/nutricart/backend/internal/domain"
)

// matches a leading price in a description, capturing the text after it
var priceLeadRegex = regexp.MustCompile(`[€$]\s*[\d,]+\.?\d*(?:\(est\))?\s*(.+)`)

// Store serves menu items out of a captured venue snapshot file. The file
// is a JSON array of {url, menu: [{name, description, price, image_url,
// product_url}]} objects, read once at load time. All reads after that
// are in-memory and cannot fail.
type Store struct {
	venues  []venueSnapshot
	grocery domain.Venue
}

type venueSnapshot struct {
	URL  string      `json:"url"`
	Menu []menuEntry `json:"menu"`
}

type menuEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	ProductURL  string `json:"product_url"`
}

// exact section headers groceries use as pseudo-items
var groceryHeaderNames = map[string]bool{
	"deli":          true,
	"produce":       true,
	"prepared food": true,
	"all items":     true,
}

const (
	maxNameLen = 120
	maxDescLen = 300
)

// Load reads the snapshot at path. An empty path yields an empty store,
// which is a valid (always-miss) source. The grocery venue identifies
// which captured venue GroceryItems draws from.
func Load(path string, grocery domain.Venue) (*Store, error) {
	s := &Store{grocery: grocery}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.venues); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return s, nil
}

// GroceryItems returns curated grocery entries for the locale, ordered by
// how many grocery-relevance keywords they match, at most max items.
// Non-food aisles (cosmetics, pet supplies), drinks, and section headers
// are dropped before any dietary filtering sees them.
func (s *Store) GroceryItems(locale string, max int) ([]domain.CandidateItem, error) {
	marker := strings.ToLower(s.grocery.URL)
	if marker == "" {
		marker = strings.ToLower(locale)
	}

	type scored struct {
		item  domain.CandidateItem
		score int
	}
	var picked []scored
	for _, venue := range s.venues {
		url := cleanURL(venue.URL)
		if marker != "" && !strings.Contains(strings.ToLower(url), marker) {
			continue
		}
		for _, entry := range venue.Menu {
			name := recoverName(entry)
			if len(name) < 4 {
				continue
			}
			lower := strings.ToLower(name)
			if groceryHeaderNames[lower] || domain.ContainsAny(lower, domain.SectionNoiseTerms) {
				continue
			}
			if domain.ContainsAny(lower, domain.SnapshotExcludeTerms) {
				continue
			}
			item := s.groceryItem(name, entry, url)
			if domain.IsDrink(&item) {
				continue
			}
			score := domain.CountMatches(item.CombinedText(), domain.SnapshotGroceryTerms)
			if score < 1 {
				continue
			}
			picked = append(picked, scored{item, score})
			if len(picked) >= max*2 {
				break
			}
		}
		if len(picked) > 0 {
			break
		}
	}

	sort.SliceStable(picked, func(i, j int) bool { return picked[i].score > picked[j].score })
	if len(picked) > max {
		picked = picked[:max]
	}
	items := make([]domain.CandidateItem, 0, len(picked))
	for _, p := range picked {
		items = append(items, p.item)
	}
	return items, nil
}

// AllItems returns a flat list of snapshot entries across every captured
// venue, at most max items, with section-header noise and drinks removed.
func (s *Store) AllItems(max int) ([]domain.CandidateItem, error) {
	var items []domain.CandidateItem
	for _, venue := range s.venues {
		if len(items) >= max {
			break
		}
		label := venueLabel(venue.URL)
		for _, entry := range venue.Menu {
			name := strings.TrimSpace(entry.Name)
			if len(name) < minEntryNameLen {
				continue
			}
			lower := strings.ToLower(name)
			if domain.ContainsAny(lower, domain.SectionNoiseTerms) || isNumberedHeader(lower) {
				continue
			}
			item := domain.CandidateItem{
				Name:        truncate(name, maxNameLen),
				Description: truncate(strings.TrimSpace(entry.Description), maxDescLen),
				Price:       entry.Price,
				ImageURL:    entry.ImageURL,
				SourceLabel: label,
				SourceURL:   venue.URL,
				ProductURL:  entry.ProductURL,
			}
			if domain.IsDrink(&item) {
				continue
			}
			items = append(items, item)
			if len(items) >= max {
				break
			}
		}
	}
	return items, nil
}

// VenueCount reports how many venues the snapshot captured.
func (s *Store) VenueCount() int {
	return len(s.venues)
}

const minEntryNameLen = 3

func (s *Store) groceryItem(name string, entry menuEntry, url string) domain.CandidateItem {
	label := s.grocery.Name
	if label == "" {
		label = venueLabel(url)
	}
	return domain.CandidateItem{
		Name:        truncate(name, maxNameLen),
		Description: truncate(strings.TrimSpace(entry.Description), 200),
		Price:       entry.Price,
		ImageURL:    entry.ImageURL,
		SourceLabel: label,
		SourceURL:   url,
		ProductURL:  entry.ProductURL,
	}
}

// recoverName repairs entries whose scraped name is actually a price
// fragment ("€2,49" or "(est)…"); the real name usually survives in the
// description after the price or a "Quick view" marker.
func recoverName(entry menuEntry) string {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return ""
	}
	if !looksLikePrice(name) {
		return name
	}
	desc := strings.TrimSpace(entry.Description)
	if m := priceLeadRegex.FindStringSubmatch(desc); m != nil {
		name = strings.TrimSpace(m[1])
	} else if idx := strings.LastIndex(desc, "Quick view"); idx >= 0 {
		name = strings.TrimSpace(desc[idx+len("Quick view"):])
	} else {
		name = desc
	}
	name = strings.TrimSpace(strings.TrimPrefix(name, "(est)"))
	return truncate(name, 100)
}

func looksLikePrice(name string) bool {
	if strings.HasPrefix(name, "(est)") {
		return true
	}
	r := []rune(name)
	if len(r) >= 2 && (r[0] == '€' || r[0] == '$') {
		return true
	}
	return false
}

func isNumberedHeader(lower string) bool {
	return strings.HasPrefix(lower, "#") && len(lower) > 1 && unicode.IsDigit(rune(lower[1]))
}

func cleanURL(url string) string {
	if idx := strings.Index(url, "?"); idx >= 0 {
		return url[:idx]
	}
	return url
}

// venueLabel derives a display name from a snapshot venue URL, turning
// the /store/<slug>/ path segment into title case.
func venueLabel(url string) string {
	const marker = "/store/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "Marketplace"
	}
	slug := url[idx+len(marker):]
	if end := strings.Index(slug, "/"); end >= 0 {
		slug = slug[:end]
	}
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
