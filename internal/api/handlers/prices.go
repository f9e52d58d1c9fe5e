package handlers

import (
	"net/http"
	"time"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/prices"
	"github.com/wonny/astroquant/pkg/logger"
)

const dateLayout = "2006-01-02"

// Stats defaults when a request leaves them unset
var (
	defaultHorizons  = []int{1, 5, 20}
	defaultVolWindow = 20
)

// PriceSeriesRequest is the body of POST /api/prices/series
type PriceSeriesRequest struct {
	Symbol string `json:"symbol" validate:"required"`
	Start  string `json:"start" validate:"required,datetime=2006-01-02"`
	End    string `json:"end" validate:"required,datetime=2006-01-02"`
}

// PriceStatsRequest is the body of POST /api/prices/stats
type PriceStatsRequest struct {
	Symbol    string `json:"symbol" validate:"required"`
	Start     string `json:"start" validate:"required,datetime=2006-01-02"`
	End       string `json:"end" validate:"required,datetime=2006-01-02"`
	Horizons  []int  `json:"horizons,omitempty" validate:"omitempty,dive,gte=0"`
	VolWindow int    `json:"vol_window" validate:"gte=0"`
	MAWindow  int    `json:"ma_window" validate:"gte=0"`
}

// PriceHandler serves synthetic price series and their statistics
type PriceHandler struct {
	synthesizer contracts.PriceSynthesizer
	logger      *logger.Logger
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(synth contracts.PriceSynthesizer, log *logger.Logger) *PriceHandler {
	return &PriceHandler{
		synthesizer: synth,
		logger:      log,
	}
}

// Series synthesizes a daily series with its summary
// POST /api/prices/series
func (h *PriceHandler) Series(w http.ResponseWriter, r *http.Request) {
	var req PriceSeriesRequest
	if !decode(w, r, &req) {
		return
	}

	series, err := h.synthesize(req.Symbol, req.Start, req.End)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "synthesize prices")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"series":  series,
		"summary": prices.Summarize(series),
	})
}

// Stats synthesizes a series and derives returns, volatility and moving average
// POST /api/prices/stats
func (h *PriceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var req PriceStatsRequest
	if !decode(w, r, &req) {
		return
	}

	series, err := h.synthesize(req.Symbol, req.Start, req.End)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "synthesize prices")
		return
	}

	horizons := req.Horizons
	if len(horizons) == 0 {
		horizons = defaultHorizons
	}
	volWindow := req.VolWindow
	if volWindow == 0 {
		volWindow = defaultVolWindow
	}

	stats, err := prices.Compute(series, horizons, volWindow, req.MAWindow)
	if err != nil {
		respondServiceError(w, r, h.logger, err, "compute price stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

func (h *PriceHandler) synthesize(symbol, start, end string) (*contracts.PriceSeries, error) {
	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return nil, contracts.NewInputError("start", "invalid date %q", start)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return nil, contracts.NewInputError("end", "invalid date %q", end)
	}
	return h.synthesizer.Synthesize(symbol, from, to)
}
