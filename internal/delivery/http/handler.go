package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutricart/backend/internal/domain"
	"github.com/nutricart/backend/internal/infrastructure/subjects"
	"github.com/nutricart/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service  *usecase.RecommendService
	registry *subjects.Registry
	log      *zap.SugaredLogger
}

// NewHandler creates a new HTTP handler
func NewHandler(service *usecase.RecommendService, registry *subjects.Registry, log *zap.SugaredLogger) *Handler {
	return &Handler{service: service, registry: registry, log: log}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "nutricart-backend",
		"version": "1.0.0",
	})
}

// recommendRequest is the shared body for the pipeline endpoints. Every
// field is optional: a missing subject is resolved from the loaded
// registry by index.
type recommendRequest struct {
	Subject      *domain.Subject `json:"subject"`
	SubjectID    string          `json:"subject_id"`
	SubjectIndex int             `json:"subject_index"`
	Locale       string          `json:"locale"`
}

// resolveSubject merges body and query parameters into a subject, its
// cache identity and a locale. Unknown indexes clamp to the last loaded
// subject; with nothing loaded an anonymous empty subject is used.
func (h *Handler) resolveSubject(c *gin.Context) (*domain.Subject, string, string) {
	req := recommendRequest{SubjectIndex: -1}
	if c.Request.Method == http.MethodPost {
		// Malformed bodies fall back to query parameters.
		_ = c.ShouldBindJSON(&req)
	}

	if req.SubjectID == "" {
		req.SubjectID = c.Query("subject_id")
	}
	if req.Locale == "" {
		req.Locale = c.Query("locale")
	}
	if req.SubjectIndex < 0 {
		req.SubjectIndex, _ = strconv.Atoi(c.DefaultQuery("subject_index", "0"))
	}

	if req.Subject != nil {
		return req.Subject, req.SubjectID, req.Locale
	}

	if h.registry.Count() == 0 {
		return &domain.Subject{}, req.SubjectID, req.Locale
	}
	idx := req.SubjectIndex
	if idx < 0 {
		idx = 0
	}
	if idx >= h.registry.Count() {
		idx = h.registry.Count() - 1
	}
	subject, err := h.registry.ByIndex(idx)
	if err != nil {
		return &domain.Subject{}, req.SubjectID, req.Locale
	}
	return subject, req.SubjectID, req.Locale
}

// FindFood runs the discovery pipeline and returns ranked items that fit
// the subject's dietary constraints.
func (h *Handler) FindFood(c *gin.Context) {
	subject, subjectID, locale := h.resolveSubject(c)

	payload, err := h.service.FindFood(c.Request.Context(), subject, subjectID, locale)
	if err != nil {
		h.log.Errorw("find food failed", "subject_id", subjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// CachedFood returns the cached discovery result, with an instant
// snapshot fallback when cold.
func (h *Handler) CachedFood(c *gin.Context) {
	subjectID := c.Query("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrSubjectIDRequired.Error()})
		return
	}

	payload, err := h.service.CachedFood(c.Request.Context(), subjectID, c.Query("locale"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// GroceryBasket builds a role-balanced basket of grocery items for the
// subject.
func (h *Handler) GroceryBasket(c *gin.Context) {
	subject, subjectID, locale := h.resolveSubject(c)

	payload, err := h.service.GroceryBasket(c.Request.Context(), subject, subjectID, locale)
	if err != nil {
		h.log.Errorw("grocery basket failed", "subject_id", subjectID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// CachedGroceryBasket returns the cached basket, with snapshot and seed
// fallbacks when cold.
func (h *Handler) CachedGroceryBasket(c *gin.Context) {
	subjectID := c.Query("subject_id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrSubjectIDRequired.Error()})
		return
	}

	payload, err := h.service.CachedGroceryBasket(c.Request.Context(), subjectID, c.Query("locale"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// WarmCache pre-computes results in the background. Responds 202 while
// warming, 200 when already cached.
func (h *Handler) WarmCache(c *gin.Context) {
	subject, subjectID, locale := h.resolveSubject(c)

	status := h.service.WarmCache(c.Request.Context(), subject, subjectID, locale)
	if status.Status == "warming" {
		c.JSON(http.StatusAccepted, status)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Baskets lists every cached grocery basket.
func (h *Handler) Baskets(c *gin.Context) {
	baskets, err := h.service.Baskets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(baskets),
		"baskets": baskets,
	})
}

// nutritionRequest is the POST body for nutrition lookups.
type nutritionRequest struct {
	Q      string `json:"q"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Nutrition estimates a per-serving nutrient profile for a food name.
// An unknown food is 404, never a zero-valued profile.
func (h *Handler) Nutrition(c *gin.Context) {
	var req nutritionRequest
	if c.Request.Method == http.MethodPost {
		_ = c.ShouldBindJSON(&req)
	}
	query := strings.TrimSpace(req.Q)
	if query == "" {
		query = strings.TrimSpace(req.Name)
	}
	if query == "" {
		query = strings.TrimSpace(c.Query("q"))
	}
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q (food name) required"})
		return
	}
	source := req.Source
	if source == "" {
		source = c.Query("source")
	}

	profile, err := h.service.Nutrition(query, source)
	if err != nil {
		if errors.Is(err, domain.ErrNoNutritionMatch) {
			c.JSON(http.StatusNotFound, gin.H{"name": query, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": query, "nutrients": profile})
}

// Subjects lists the loaded subject records by name.
func (h *Handler) Subjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count":    h.registry.Count(),
		"subjects": h.registry.Names(),
	})
}
