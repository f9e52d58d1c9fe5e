// Package horoscope synthesizes deterministic pseudo-astrological charts.
//
// A chart is a pure function of (symbol, seed, date range, time range,
// location). Draws come from math/rand seeded with DeriveSeed, in a fixed
// order; changing that order changes every chart ever generated.
package horoscope

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/wonny/astroquant/internal/catalog"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/logger"
)

// Generator creates horoscopes
// ⭐ SSOT: 호로스코프 생성은 여기서만
type Generator struct {
	logger *logger.Logger
}

// NewGenerator creates a new generator
func NewGenerator(log *logger.Logger) *Generator {
	return &Generator{logger: log.Component("horoscope")}
}

// Generate synthesizes one chart
func (g *Generator) Generate(symbol string, seed int64, dates contracts.DateRange, times contracts.TimeRange, location string) (*contracts.Horoscope, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, contracts.NewInputError("symbol", "must not be empty")
	}

	startDate, days, err := parseDateRange(dates)
	if err != nil {
		return nil, err
	}
	startSec, span, err := parseTimeRange(times)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(DeriveSeed(symbol, seed)))

	h := &contracts.Horoscope{
		Symbol:        symbol,
		Seed:          seed,
		BirthLocation: location,
	}

	// Draw order below is fixed
	h.BirthDate = startDate.AddDate(0, 0, rng.Intn(days+1)).Format(dateLayout)
	h.BirthTime = formatClock(startSec + rng.Intn(span+1))

	h.SunSign = pick(rng, catalog.Signs)
	h.MoonSign = pick(rng, catalog.Signs)
	h.Ascendant = pick(rng, catalog.Signs)
	h.Nakshatra = pick(rng, catalog.Nakshatras)
	h.DashaLord = catalog.Planets[rng.Intn(len(catalog.Planets))].Name

	h.PlanetaryPositions = make(map[string]float64, len(catalog.Planets))
	for _, p := range catalog.Planets {
		h.PlanetaryPositions[p.Name] = rng.Float64() * 360
	}

	h.HousePositions = make(map[int]float64, catalog.HouseCount)
	for house := 1; house <= catalog.HouseCount; house++ {
		h.HousePositions[house] = rng.Float64() * 360
	}

	h.ActiveYogas = drawYogas(rng)

	g.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"seed":       seed,
		"sun_sign":   h.SunSign,
		"nakshatra":  h.Nakshatra,
		"yoga_count": len(h.ActiveYogas),
	}).Debug("Horoscope generated")

	return h, nil
}

// GenerateBatch generates one chart per symbol in input order.
// The first invalid item aborts the batch.
func (g *Generator) GenerateBatch(symbols []string, seed int64, dates contracts.DateRange, times contracts.TimeRange, location string) ([]*contracts.Horoscope, error) {
	if len(symbols) == 0 {
		return nil, contracts.NewInputError("symbols", "must not be empty")
	}

	out := make([]*contracts.Horoscope, 0, len(symbols))
	for i, symbol := range symbols {
		h, err := g.Generate(symbol, seed, dates, times, location)
		if err != nil {
			return nil, fmt.Errorf("symbols[%d] %q: %w", i, symbol, err)
		}
		out = append(out, h)
	}

	g.logger.WithFields(map[string]interface{}{
		"count": len(out),
		"seed":  seed,
	}).Info("Horoscope batch generated")

	return out, nil
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

// drawYogas picks MinYogas..MaxYogas distinct catalog yogas (partial Fisher-Yates)
func drawYogas(rng *rand.Rand) []string {
	count := catalog.MinYogas + rng.Intn(catalog.MaxYogas-catalog.MinYogas+1)

	idx := make([]int, len(catalog.Yogas))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < count; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	yogas := make([]string, count)
	for i := 0; i < count; i++ {
		yogas[i] = catalog.Yogas[idx[i]].Name
	}
	return yogas
}

var _ contracts.HoroscopeGenerator = (*Generator)(nil)
