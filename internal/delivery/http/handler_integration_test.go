package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutricart/backend/config"
	"github.com/nutricart/backend/internal/domain"
	"github.com/nutricart/backend/internal/infrastructure/cache"
	"github.com/nutricart/backend/internal/infrastructure/fooddb"
	"github.com/nutricart/backend/internal/infrastructure/snapshot"
	"github.com/nutricart/backend/internal/infrastructure/subjects"
	"github.com/nutricart/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

// stubExtractor is an unreachable extraction service: every call fails,
// forcing the pipeline onto its snapshot and seed fallbacks.
type stubExtractor struct{}

func (stubExtractor) VenuesByCategory(ctx context.Context, locale, category string, limit int) ([]domain.Venue, error) {
	return nil, domain.ErrSourceUnavailable
}

func (stubExtractor) VenueMenu(ctx context.Context, venueURL string) ([]domain.CandidateItem, error) {
	return nil, domain.ErrSourceUnavailable
}

func (stubExtractor) FeedSearch(ctx context.Context, term string, limit int) ([]domain.CandidateItem, error) {
	return nil, domain.ErrSourceUnavailable
}

func (stubExtractor) ItemImage(ctx context.Context, name string) (string, error) {
	return "", domain.ErrSourceUnavailable
}

// setupTestRouter wires the full pipeline with an empty snapshot, the
// embedded food database and a dead extraction service.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}

	log := zap.NewNop().Sugar()

	store := cache.NewMemoryCache(time.Minute)
	t.Cleanup(store.Close)

	venue := domain.Venue{Name: "Mercado Central", URL: "https://example.com/store/mercado-central/1"}
	snap, err := snapshot.Load("", venue)
	if err != nil {
		t.Fatalf("snapshot.Load() error = %v", err)
	}
	db, err := fooddb.Load("")
	if err != nil {
		t.Fatalf("fooddb.Load() error = %v", err)
	}
	registry, err := subjects.Load("")
	if err != nil {
		t.Fatalf("subjects.Load() error = %v", err)
	}

	nutrition := usecase.NewNutritionService(db, usecase.NutritionServiceConfig{})
	agg := usecase.NewAggregator(snap, stubExtractor{}, usecase.AggregatorConfig{
		Locale:       "braga-norte",
		GroceryVenue: venue,
	}, log)
	enricher := usecase.NewEnricher(nutrition, stubExtractor{}, usecase.EnricherConfig{}, log)
	service := usecase.NewRecommendService(store, snap, agg, enricher, nutrition, usecase.RecommendServiceConfig{
		CacheTTL: time.Minute,
	}, log)

	handler := NewHandler(service, registry, log)
	return SetupRouter(cfg, handler)
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/health", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "nutricart-backend" {
			t.Errorf("service = %v, want nutricart-backend", response["service"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t)

		methods := []string{"POST", "PUT", "DELETE", "PATCH"}

		for _, method := range methods {
			req, _ := http.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestFindFoodEndpoint tests the discovery endpoint end to end
func TestFindFoodEndpoint(t *testing.T) {
	t.Run("accepts a subject in the body", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"subject": {"subject_name": "Maria"}, "subject_id": "7"}`
		req, _ := http.NewRequest("POST", "/api/v1/food/find", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["subject_name"] != "Maria" {
			t.Errorf("subject_name = %v, want Maria", response["subject_name"])
		}
	})

	t.Run("works without a body", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/food/find", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
	})
}

// TestCachedEndpointsRequireSubjectID tests the subject_id guard
func TestCachedEndpointsRequireSubjectID(t *testing.T) {
	paths := []string{
		"/api/v1/food/cached",
		"/api/v1/basket/grocery/cached",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			router := setupTestRouter(t)

			req, _ := http.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("Failed to unmarshal response: %v", err)
			}
			if response["error"] == nil {
				t.Error("expected error field in response")
			}
		})
	}
}

// TestGroceryBasketEndpoint tests the basket endpoint with every live
// source dead, which must still produce a seed basket.
func TestGroceryBasketEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/basket/grocery?subject_id=7", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response["store"] != "Grocery Marketplace" {
		t.Errorf("store = %v, want Grocery Marketplace", response["store"])
	}
	if response["count"] != float64(4) {
		t.Errorf("count = %v, want 4", response["count"])
	}

	// The basket is now cached and shows up in the listing.
	req, _ = http.NewRequest("GET", "/api/v1/baskets", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	var listing map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Failed to unmarshal listing: %v", err)
	}
	if listing["count"] != float64(1) {
		t.Errorf("baskets count = %v, want 1", listing["count"])
	}
}

// TestNutritionEndpoint tests the nutrition estimation endpoint
func TestNutritionEndpoint(t *testing.T) {
	t.Run("returns nutrition for a known dish", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/nutrition?q=Francesinha", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["name"] != "Francesinha" {
			t.Errorf("name = %v, want Francesinha", response["name"])
		}
		if response["nutrients"] == nil {
			t.Error("expected nutrients field in response")
		}
	})

	t.Run("accepts a POST body", func(t *testing.T) {
		router := setupTestRouter(t)

		payload := `{"name": "Arroz integral"}`
		req, _ := http.NewRequest("POST", "/api/v1/nutrition", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}
	})

	t.Run("returns 404 for an unknown food", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/nutrition?q=zzzzzz", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("returns 400 when the name is missing", func(t *testing.T) {
		router := setupTestRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/nutrition", nil)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestWarmCacheEndpoint tests the cache warming endpoint
func TestWarmCacheEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/cache/warm?subject_id=w1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusAccepted)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "warming" {
		t.Errorf("status = %v, want warming", response["status"])
	}
}

// TestSubjectsEndpoint tests the subject listing
func TestSubjectsEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/subjects", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["count"] != float64(0) {
		t.Errorf("count = %v, want 0 with no subjects loaded", response["count"])
	}
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	gotOrigin := w.Header().Get("Access-Control-Allow-Origin")
	if gotOrigin != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q, want %q", gotOrigin, "http://localhost:3000")
	}
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(t)

	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	req, _ := http.NewRequest("GET", "/panic", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	router := setupTestRouter(t)

	req, _ := http.NewRequest("GET", "/api/food/find", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}
}
