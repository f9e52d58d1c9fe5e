package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/cache"
	"github.com/wonny/astroquant/pkg/logger"
)

// HoroscopeRequest is the body of POST /api/horoscopes
type HoroscopeRequest struct {
	Symbol    string              `json:"symbol" validate:"required"`
	Seed      int64               `json:"seed"`
	DateRange contracts.DateRange `json:"date_range"`
	TimeRange contracts.TimeRange `json:"time_range"`
	Location  string              `json:"location" validate:"required"`
}

// BatchHoroscopeRequest is the body of POST /api/horoscopes/batch
type BatchHoroscopeRequest struct {
	Symbols   []string            `json:"symbols" validate:"required,min=1,dive,required"`
	Seed      int64               `json:"seed"`
	DateRange contracts.DateRange `json:"date_range"`
	TimeRange contracts.TimeRange `json:"time_range"`
	Location  string              `json:"location" validate:"required"`
}

// FeaturesRequest is the body of POST /api/features.
// Either horoscopes or params must be given; horoscopes win when both are.
type FeaturesRequest struct {
	Horoscopes []*contracts.Horoscope `json:"horoscopes" validate:"required_without=Params,omitempty,dive,required"`
	Params     *BatchHoroscopeRequest `json:"params"`
}

// AstroHandler serves horoscope generation and feature extraction
// ⭐ SSOT: 호로스코프/피처 API 핸들러는 이 구조체에서만
type AstroHandler struct {
	generator contracts.HoroscopeGenerator
	extractor contracts.FeatureExtractor
	cache     cache.Store // optional
	logger    *logger.Logger
}

// NewAstroHandler creates a new astro handler; store may be nil
func NewAstroHandler(gen contracts.HoroscopeGenerator, ext contracts.FeatureExtractor, store cache.Store, log *logger.Logger) *AstroHandler {
	return &AstroHandler{
		generator: gen,
		extractor: ext,
		cache:     store,
		logger:    log,
	}
}

// Generate synthesizes one horoscope
// POST /api/horoscopes
func (h *AstroHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req HoroscopeRequest
	if !decode(w, r, &req) {
		return
	}

	hs, err := h.generate(r.Context(), []string{req.Symbol}, req.Seed, req.DateRange, req.TimeRange, req.Location)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "generate horoscope")
		return
	}

	respondJSON(w, http.StatusOK, hs[0])
}

// GenerateBatch synthesizes one horoscope per symbol, in input order
// POST /api/horoscopes/batch
func (h *AstroHandler) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchHoroscopeRequest
	if !decode(w, r, &req) {
		return
	}

	hs, err := h.generate(r.Context(), req.Symbols, req.Seed, req.DateRange, req.TimeRange, req.Location)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "generate horoscopes")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(hs),
		"horoscopes": hs,
	})
}

// Features extracts feature sets from supplied horoscopes or generation params
// POST /api/features
func (h *AstroHandler) Features(w http.ResponseWriter, r *http.Request) {
	var req FeaturesRequest
	if !decode(w, r, &req) {
		return
	}

	hs := req.Horoscopes
	if len(hs) == 0 {
		if req.Params == nil {
			respondError(w, r, http.StatusBadRequest, CodeValidation, "Either horoscopes or params is required",
				FieldError{Field: "horoscopes", Message: "is required"})
			return
		}
		p := req.Params
		var err error
		hs, err = h.generate(r.Context(), p.Symbols, p.Seed, p.DateRange, p.TimeRange, p.Location)
		if err != nil {
			respondServiceError(w, r, h.logger, err, "generate horoscopes")
			return
		}
	}

	fs, err := h.extractor.ExtractBatch(hs)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "extract features")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(fs),
		"features": fs,
	})
}

// generate runs the generator per symbol, reading and filling the cache.
// Cache failures only cost a regeneration.
func (h *AstroHandler) generate(ctx context.Context, symbols []string, seed int64, dates contracts.DateRange, times contracts.TimeRange, location string) ([]*contracts.Horoscope, error) {
	out := make([]*contracts.Horoscope, len(symbols))
	for i, symbol := range symbols {
		key := horoscopeCacheKey(symbol, seed, dates, times, location)

		if h.cache != nil {
			var cached contracts.Horoscope
			found, err := h.cache.Get(ctx, key, &cached)
			if err != nil {
				h.logger.WithError(err).Warn("Horoscope cache read failed")
			}
			if found {
				out[i] = &cached
				continue
			}
		}

		hs, err := h.generator.Generate(symbol, seed, dates, times, location)
		if err != nil {
			if len(symbols) > 1 {
				return nil, fmt.Errorf("symbols[%d] %q: %w", i, symbol, err)
			}
			return nil, err
		}
		out[i] = hs

		if h.cache != nil {
			if err := h.cache.Set(ctx, key, hs, cache.TTLLong); err != nil {
				h.logger.WithError(err).Warn("Horoscope cache write failed")
			}
		}
	}
	return out, nil
}

func horoscopeCacheKey(symbol string, seed int64, dates contracts.DateRange, times contracts.TimeRange, location string) string {
	return strings.Join([]string{
		"horoscope",
		strings.TrimSpace(symbol),
		fmt.Sprint(seed),
		dates.Start, dates.End,
		times.Start, times.End,
		location,
	}, "|")
}
