package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nutricart/backend/internal/domain"
)

const (
	maxAttempts    = 3
	retryBaseDelay = 500 * time.Millisecond
)

// Config carries the extraction service connection settings.
type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RequestsPerSec float64
	Burst          int
}

// Client talks to the content extraction service, which renders venue
// pages and returns structured menu data. Every method is best effort:
// callers treat an error as an empty contribution from that source.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	log         *zap.SugaredLogger
}

// NewClient creates an extraction service client. Zero config values fall
// back to conservative defaults.
func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	if cfg.RequestsPerSec <= 0 {
		cfg.RequestsPerSec = 2.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst),
		log:         log,
	}
}

// wireItem is one menu entry as the extraction service reports it.
type wireItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	ImageURL    string `json:"image_url"`
	ProductURL  string `json:"product_url"`
	Source      string `json:"source"`
	SourceURL   string `json:"source_url"`
}

type venuesResponse struct {
	Venues []domain.Venue `json:"venues"`
}

type itemsResponse struct {
	Items []wireItem `json:"items"`
}

type imageResponse struct {
	ImageURL string `json:"image_url"`
}

// VenuesByCategory lists venues for a locale category such as "healthy"
// or "grocery".
func (c *Client) VenuesByCategory(ctx context.Context, locale, category string, limit int) ([]domain.Venue, error) {
	params := url.Values{}
	params.Add("locale", locale)
	params.Add("category", category)
	params.Add("limit", fmt.Sprintf("%d", limit))

	var resp venuesResponse
	if err := c.getWithRetry(ctx, "/v1/venues", params, &resp); err != nil {
		return nil, err
	}
	if limit > 0 && len(resp.Venues) > limit {
		resp.Venues = resp.Venues[:limit]
	}
	c.log.Debugw("venues listed", "locale", locale, "category", category, "count", len(resp.Venues))
	return resp.Venues, nil
}

// VenueMenu extracts the raw menu of one venue.
func (c *Client) VenueMenu(ctx context.Context, venueURL string) ([]domain.CandidateItem, error) {
	params := url.Values{}
	params.Add("url", venueURL)

	var resp itemsResponse
	if err := c.getWithRetry(ctx, "/v1/menu", params, &resp); err != nil {
		return nil, err
	}
	items := c.toItems(resp.Items)
	for i := range items {
		if items[i].SourceURL == "" {
			items[i].SourceURL = venueURL
		}
	}
	c.log.Debugw("menu extracted", "venue", venueURL, "count", len(items))
	return items, nil
}

// FeedSearch extracts items from the generic feed for a search term.
func (c *Client) FeedSearch(ctx context.Context, term string, limit int) ([]domain.CandidateItem, error) {
	params := url.Values{}
	params.Add("term", term)
	params.Add("limit", fmt.Sprintf("%d", limit))

	var resp itemsResponse
	if err := c.getWithRetry(ctx, "/v1/feed/search", params, &resp); err != nil {
		return nil, err
	}
	items := c.toItems(resp.Items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	c.log.Debugw("feed searched", "term", term, "count", len(items))
	return items, nil
}

// ItemImage looks up an image URL for a food name. Single attempt, no
// retries: a missing image never blocks a result.
func (c *Client) ItemImage(ctx context.Context, name string) (string, error) {
	params := url.Values{}
	params.Add("name", name)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	body, err := c.get(ctx, "/v1/image", params)
	if err != nil {
		return "", err
	}
	var resp imageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decoding image response: %w", err)
	}
	return resp.ImageURL, nil
}

func (c *Client) toItems(wire []wireItem) []domain.CandidateItem {
	items := make([]domain.CandidateItem, 0, len(wire))
	for _, w := range wire {
		if w.Name == "" {
			continue
		}
		items = append(items, domain.CandidateItem{
			Name:        w.Name,
			Description: w.Description,
			Price:       w.Price,
			ImageURL:    w.ImageURL,
			ProductURL:  w.ProductURL,
			SourceLabel: w.Source,
			SourceURL:   w.SourceURL,
		})
	}
	return items
}

// getWithRetry runs a GET with rate limiting and up to three attempts,
// backing off linearly between them. A 404 is terminal, not retried.
func (c *Client) getWithRetry(ctx context.Context, path string, params url.Values, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
		body, err := c.get(ctx, path, params)
		if err != nil {
			if err == domain.ErrSourceUnavailable {
				return err
			}
			c.log.Debugw("extraction request failed", "path", path, "attempt", attempt, "error", err)
			lastErr = err
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBaseDelay):
			}
			continue
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
		return nil
	}
	return lastErr
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "NutriCart/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractorFailure, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrSourceUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrExtractorFailure, resp.StatusCode)
	}
	return body, nil
}
