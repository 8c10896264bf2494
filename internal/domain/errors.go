package domain

import "errors"

var (
	// ErrNoNutritionMatch is returned when the nutrition resolver finds
	// neither a known dish nor any ingredient match. Callers must treat
	// this as "unknown", never as a zero-valued profile.
	ErrNoNutritionMatch = errors.New("no nutrition match found")

	// ErrSourceUnavailable is returned when a single aggregation source
	// fails or times out. It is recovered locally and never surfaces.
	ErrSourceUnavailable = errors.New("item source unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSubjectIDRequired is returned when a required subject identifier
	// is missing from a request.
	ErrSubjectIDRequired = errors.New("subject id required")

	// ErrSubjectNotFound is returned when a subject id does not resolve
	// to a loaded subject record.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrCacheMiss is returned when data is not found in cache.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheCorrupt is returned when a cache entry cannot be decoded.
	// The entry is deleted and treated as absent.
	ErrCacheCorrupt = errors.New("cache entry corrupt")

	// ErrExtractorFailure is returned when the content extraction service
	// request fails.
	ErrExtractorFailure = errors.New("content extraction request failed")
)
