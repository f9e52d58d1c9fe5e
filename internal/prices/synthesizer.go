// Package prices synthesizes daily OHLCV series and derives return,
// volatility and moving-average statistics from them.
package prices

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/internal/horoscope"
	"github.com/wonny/astroquant/pkg/logger"
	"github.com/wonny/astroquant/pkg/numeric"
)

// Synthesis parameters
const (
	MinStartPrice = 50.0
	MaxStartPrice = 500.0
	DriftMean     = 0.0005
	DriftStdDev   = 0.02
	MinVolume     = 100_000
	MaxVolume     = 5_000_000

	// intraday envelope beyond open/close
	maxWick = 0.01
)

// Synthesizer generates weekday-only price series
// ⭐ SSOT: 합성 가격 시계열 생성은 여기서만
type Synthesizer struct {
	seed   int64
	now    func() time.Time
	logger *logger.Logger
}

// NewSynthesizer creates a synthesizer. A non-zero seed makes every series
// reproducible per symbol; zero seeds from the clock.
func NewSynthesizer(seed int64, log *logger.Logger) *Synthesizer {
	return &Synthesizer{
		seed:   seed,
		now:    time.Now,
		logger: log.Component("prices"),
	}
}

// Seed returns the configured seed (0 = time based)
func (s *Synthesizer) Seed() int64 {
	return s.seed
}

func (s *Synthesizer) source(symbol string) rand.Source {
	if s.seed == 0 {
		return rand.NewSource(s.now().UnixNano())
	}
	return rand.NewSource(horoscope.DeriveSeed(symbol, s.seed))
}

// Synthesize builds a series over [start, end], skipping weekends.
// Each bar opens at the previous close.
func (s *Synthesizer) Synthesize(symbol string, start, end time.Time) (*contracts.PriceSeries, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, contracts.NewInputError("symbol", "must not be empty")
	}

	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return nil, contracts.NewInputError("end", "end %s is before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	rng := rand.New(s.source(symbol))
	price := numeric.Round2(MinStartPrice + rng.Float64()*(MaxStartPrice-MinStartPrice))

	series := &contracts.PriceSeries{
		Symbol: symbol,
		Start:  start,
		End:    end,
		Bars:   make([]contracts.PriceBar, 0, int(end.Sub(start).Hours()/24)+1),
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}

		open := price
		ret := DriftMean + DriftStdDev*rng.NormFloat64()
		closePrice := math.Max(numeric.Round2(open*(1+ret)), 0.01)
		high := numeric.Round2(math.Max(open, closePrice) * (1 + rng.Float64()*maxWick))
		low := numeric.Round2(math.Min(open, closePrice) * (1 - rng.Float64()*maxWick))

		series.Bars = append(series.Bars, contracts.PriceBar{
			Date:   d,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: MinVolume + rng.Int63n(MaxVolume-MinVolume),
		})
		price = closePrice
	}

	s.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series.Bars),
		"seeded": s.seed != 0,
	}).Debug("Price series synthesized")

	return series, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var _ contracts.PriceSynthesizer = (*Synthesizer)(nil)
