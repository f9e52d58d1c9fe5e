package prices

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/numeric"
)

// TradingDaysPerYear annualizes daily volatility
const TradingDaysPerYear = 252

// HorizonKey formats a horizon as used in Returns, e.g. 5d
func HorizonKey(h int) string {
	return fmt.Sprintf("%dd", h)
}

// Returns computes the percent return from the first bar to bar h for
// every horizon. Series shorter than h+1 bars report 0; h = 0 is always 0.
func Returns(series *contracts.PriceSeries, horizons []int) (map[string]float64, error) {
	out := make(map[string]float64, len(horizons))
	for _, h := range horizons {
		if h < 0 {
			return nil, contracts.NewInputError("horizons", "must be >= 0, got %d", h)
		}

		if series == nil || len(series.Bars) < h+1 || series.Bars[0].Close == 0 {
			out[HorizonKey(h)] = 0.0
			continue
		}

		first := series.Bars[0].Close
		out[HorizonKey(h)] = numeric.Round(((series.Bars[h].Close-first)/first)*100, 4)
	}
	return out, nil
}

// DailyReturns converts closes to simple returns
// Returns[i] = (Close[i+1] - Close[i]) / Close[i]
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns[i-1] = (closes[i] - closes[i-1]) / closes[i-1]
		}
	}
	return returns
}

// Volatility is the sample standard deviation of the trailing window of
// daily returns, annualized by sqrt(252). Fewer than window bars yields 0.
func Volatility(series *contracts.PriceSeries, window int) (float64, error) {
	if window <= 0 {
		return 0, contracts.NewInputError("window", "must be > 0, got %d", window)
	}
	if series == nil || len(series.Bars) < window {
		return 0, nil
	}

	returns := DailyReturns(series.Closes())
	if len(returns) > window {
		returns = returns[len(returns)-window:]
	}
	if len(returns) < 2 {
		return 0, nil
	}

	return numeric.Round(stat.StdDev(returns, nil)*math.Sqrt(TradingDaysPerYear), 6), nil
}

// MovingAverage attaches the trailing mean of window closes to each bar;
// the first window-1 bars have none.
func MovingAverage(series *contracts.PriceSeries, window int) ([]contracts.MovingAveragePoint, error) {
	if window <= 0 {
		return nil, contracts.NewInputError("window", "must be > 0, got %d", window)
	}
	if series == nil {
		return []contracts.MovingAveragePoint{}, nil
	}

	points := make([]contracts.MovingAveragePoint, len(series.Bars))
	sum := 0.0
	for i, bar := range series.Bars {
		points[i].PriceBar = bar
		sum += bar.Close
		if i >= window {
			sum -= series.Bars[i-window].Close
		}
		if i >= window-1 {
			ma := numeric.Round2(sum / float64(window))
			points[i].MA = &ma
		}
	}
	return points, nil
}

// Summarize describes the whole series. A series without bars gets an empty
// summary, which encodes as {}.
func Summarize(series *contracts.PriceSeries) *contracts.PriceSummary {
	if series == nil || len(series.Bars) == 0 {
		return &contracts.PriceSummary{}
	}

	closes := series.Closes()
	first := series.Bars[0]
	last := series.Bars[len(series.Bars)-1]

	minPrice, maxPrice := closes[0], closes[0]
	for _, c := range closes[1:] {
		minPrice = math.Min(minPrice, c)
		maxPrice = math.Max(maxPrice, c)
	}

	summary := &contracts.PriceSummary{
		Count:        len(series.Bars),
		StartDate:    first.Date,
		EndDate:      last.Date,
		CurrentPrice: last.Close,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		AvgPrice:     numeric.Round2(stat.Mean(closes, nil)),
		PriceChange:  numeric.Round2(last.Close - first.Close),
	}
	if first.Close != 0 {
		summary.PriceChangePct = numeric.Round2((last.Close - first.Close) / first.Close * 100)
	}
	return summary
}

// Stats bundles the derived statistics of one series
type Stats struct {
	Symbol        string                         `json:"symbol"`
	Returns       map[string]float64             `json:"returns"`
	Volatility    float64                        `json:"volatility"`
	MovingAverage []contracts.MovingAveragePoint `json:"moving_average,omitempty"`
	Summary       *contracts.PriceSummary        `json:"summary"`
	Risk          *RiskMetrics                   `json:"risk"`
}

// Compute derives returns, volatility, risk at DefaultVaRConfidence, summary
// and, when maWindow > 0, the moving average
func Compute(series *contracts.PriceSeries, horizons []int, volWindow, maWindow int) (*Stats, error) {
	if series == nil {
		return nil, contracts.NewInputError("series", "must not be nil")
	}

	returns, err := Returns(series, horizons)
	if err != nil {
		return nil, err
	}
	vol, err := Volatility(series, volWindow)
	if err != nil {
		return nil, err
	}

	risk, err := Risk(series, DefaultVaRConfidence)
	if err != nil {
		return nil, err
	}

	st := &Stats{
		Symbol:     series.Symbol,
		Returns:    returns,
		Volatility: vol,
		Summary:    Summarize(series),
		Risk:       risk,
	}
	if maWindow > 0 {
		if st.MovingAverage, err = MovingAverage(series, maWindow); err != nil {
			return nil, err
		}
	}
	return st, nil
}
