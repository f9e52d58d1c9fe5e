package handlers

import (
	"net/http"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/scoring"
	"github.com/wonny/astroquant/internal/scoringconfig"
	"github.com/wonny/astroquant/pkg/logger"
)

// ScoresRequest is the body of POST /api/scores and /api/scores/distribution
type ScoresRequest struct {
	Features []*contracts.FeatureSet `json:"features" validate:"required,min=1,dive,required"`
	Weights  map[string]float64      `json:"weights,omitempty"`
}

// RankRequest is the body of POST /api/scores/rank
type RankRequest struct {
	Features []*contracts.FeatureSet `json:"features" validate:"required,min=1,dive,required"`
	Weights  map[string]float64      `json:"weights,omitempty"`
	TopN     int                     `json:"top_n" validate:"gt=0"`
}

// ScoreHandler serves aggregation, ranking and distribution
type ScoreHandler struct {
	aggregator *scoring.Aggregator
	configHash string
	logger     *logger.Logger
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(agg *scoring.Aggregator, log *logger.Logger) (*ScoreHandler, error) {
	hash, err := scoringconfig.Hash(agg.Config())
	if err != nil {
		return nil, err
	}
	return &ScoreHandler{
		aggregator: agg,
		configHash: hash,
		logger:     log,
	}, nil
}

// Aggregate scores each feature set
// POST /api/scores
func (h *ScoreHandler) Aggregate(w http.ResponseWriter, r *http.Request) {
	var req ScoresRequest
	if !decode(w, r, &req) {
		return
	}

	scores, err := h.aggregator.AggregateBatch(req.Features, req.Weights)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "aggregate scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(scores),
		"scores": scores,
	})
}

// Rank aggregates then returns the top_n by score
// POST /api/scores/rank
func (h *ScoreHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var req RankRequest
	if !decode(w, r, &req) {
		return
	}

	scores, err := h.aggregator.AggregateBatch(req.Features, req.Weights)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "aggregate scores")
		return
	}
	ranked, err := h.aggregator.Rank(scores, req.TopN)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "rank scores")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(ranked),
		"total":   len(scores),
		"ranking": ranked,
	})
}

// Distribution aggregates then summarizes the score spread
// POST /api/scores/distribution
func (h *ScoreHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	var req ScoresRequest
	if !decode(w, r, &req) {
		return
	}

	scores, err := h.aggregator.AggregateBatch(req.Features, req.Weights)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "aggregate scores")
		return
	}

	respondJSON(w, http.StatusOK, h.aggregator.Distribution(scores))
}

// Config returns the active scoring rules
// GET /api/scoring/config
func (h *ScoreHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg := h.aggregator.Config()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"meta":          cfg.Meta,
		"weights":       cfg.Weights.Map(),
		"normalization": cfg.Normalization,
		"thresholds":    h.aggregator.Thresholds(),
		"confidence":    cfg.Confidence,
		"distribution":  cfg.Distribution,
		"hash":          h.configHash,
	})
}
