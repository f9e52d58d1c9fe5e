// Package features turns generated horoscopes into the four normalized
// feature groups consumed by scoring.
package features

import (
	"fmt"
	"math"

	"github.com/wonny/astroquant/internal/catalog"
	"github.com/wonny/astroquant/internal/contracts"
	"github.com/wonny/astroquant/pkg/logger"
	"github.com/wonny/astroquant/pkg/numeric"
)

// Category weights used for FeatureSet.TotalScore
const (
	WeightHouse     = 0.35
	WeightPlanetary = 0.30
	WeightYoga      = 0.25
	WeightTiming    = 0.10
)

// DefaultWeights returns the category weights keyed by category name
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		contracts.CategoryHouse:     WeightHouse,
		contracts.CategoryPlanetary: WeightPlanetary,
		contracts.CategoryYoga:      WeightYoga,
		contracts.CategoryTiming:    WeightTiming,
	}
}

// Extractor computes feature sets
// ⭐ SSOT: 피처 추출은 여기서만
type Extractor struct {
	logger *logger.Logger
}

// NewExtractor creates a new extractor
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{logger: log.Component("features")}
}

// HouseKey returns the house feature key, e.g. house_10
func HouseKey(house int) string {
	return fmt.Sprintf("house_%d", house)
}

// Extract computes the feature set of one horoscope.
// Missing positions and unknown names fall back to catalog defaults.
func (e *Extractor) Extract(h *contracts.Horoscope) (*contracts.FeatureSet, error) {
	if h == nil {
		return nil, contracts.NewInputError("horoscope", "must not be nil")
	}

	fs := &contracts.FeatureSet{
		Symbol:            h.Symbol,
		HouseFeatures:     houseFeatures(h),
		PlanetaryFeatures: planetaryFeatures(h),
		TimingFeatures:    timingFeatures(h),
	}
	fs.YogaFeatures, fs.UnknownYogas = yogaFeatures(h)
	fs.UnknownYogaScore = unknownYogaScore(fs.UnknownYogas)
	fs.TotalScore = TotalScore(fs)

	if len(fs.UnknownYogas) > 0 {
		e.logger.WithFields(map[string]interface{}{
			"symbol": h.Symbol,
			"yogas":  fs.UnknownYogas,
			"score":  fs.UnknownYogaScore,
		}).Debug("Unlisted yogas scored at default")
	}

	return fs, nil
}

// ExtractBatch extracts in input order; the first failure aborts the batch
func (e *Extractor) ExtractBatch(hs []*contracts.Horoscope) ([]*contracts.FeatureSet, error) {
	if len(hs) == 0 {
		return nil, contracts.NewInputError("horoscopes", "must not be empty")
	}

	out := make([]*contracts.FeatureSet, 0, len(hs))
	for i, h := range hs {
		fs, err := e.Extract(h)
		if err != nil {
			return nil, fmt.Errorf("horoscopes[%d]: %w", i, err)
		}
		out = append(out, fs)
	}

	e.logger.WithField("count", len(out)).Info("Feature batch extracted")

	return out, nil
}

// TotalScore is the weighted sum of the four group sums.
// Each weighted component is rounded to 3 places, then the sum is.
func TotalScore(fs *contracts.FeatureSet) float64 {
	house := numeric.Round3(WeightHouse * sumHouses(fs.HouseFeatures))
	planetary := numeric.Round3(WeightPlanetary * sumPlanets(fs.PlanetaryFeatures))
	yoga := numeric.Round3(WeightYoga * sumYogas(fs))
	timing := numeric.Round3(WeightTiming * (fs.TimingFeatures[contracts.TimingDashaStrength] + fs.TimingFeatures[contracts.TimingNakshatraInfluence]))

	return numeric.Round3(house + planetary + yoga + timing)
}

// normalize maps a degree position to [0,1)
func normalize(pos float64) float64 {
	m := math.Mod(pos, 360)
	if m < 0 {
		m += 360
	}
	return m / 360
}

func houseFeatures(h *contracts.Horoscope) map[string]float64 {
	out := make(map[string]float64, len(catalog.WealthHouses))
	for _, house := range catalog.WealthHouses {
		v := catalog.DefaultNormalizedPosition
		if pos, ok := h.HousePositions[house]; ok {
			v = normalize(pos)
		}
		out[HouseKey(house)] = v
	}
	return out
}

func planetaryFeatures(h *contracts.Horoscope) map[string]float64 {
	out := make(map[string]float64, len(catalog.Planets))
	for _, p := range catalog.Planets {
		v := catalog.DefaultNormalizedPosition
		if pos, ok := h.PlanetaryPositions[p.Name]; ok {
			v = normalize(pos)
		}
		out[p.Name] = v * p.Weight
	}
	return out
}

// yogaFeatures always carries every catalog key; off-catalog names are
// returned separately, once each, in first-seen order
func yogaFeatures(h *contracts.Horoscope) (map[string]float64, []string) {
	out := make(map[string]float64, len(catalog.Yogas))
	for _, y := range catalog.Yogas {
		out[y.Name] = 0.0
	}

	var unknown []string
	seen := make(map[string]bool)
	for _, name := range h.ActiveYogas {
		if catalog.IsCatalogYoga(name) {
			out[name] = catalog.YogaScore(name)
			continue
		}
		if !seen[name] {
			seen[name] = true
			unknown = append(unknown, name)
		}
	}
	return out, unknown
}

// unknownYogaScore gives every unlisted yoga the catalog default
func unknownYogaScore(names []string) float64 {
	s := 0.0
	for _, name := range names {
		s += catalog.YogaScore(name)
	}
	return s
}

// timingFeatures: an absent or unrecognized nakshatra has no influence
func timingFeatures(h *contracts.Horoscope) map[string]float64 {
	dasha, ok := catalog.PlanetWeight(h.DashaLord)
	if !ok {
		dasha = catalog.DefaultDashaStrength
	}

	influence := 0.0
	if idx, ok := catalog.NakshatraIndex(h.Nakshatra); ok {
		influence = float64(idx+1) / float64(len(catalog.Nakshatras))
	}

	return map[string]float64{
		contracts.TimingDashaStrength:      dasha,
		contracts.TimingNakshatraInfluence: influence,
	}
}

// Group sums walk catalog order so totals do not depend on map iteration

func sumHouses(m map[string]float64) float64 {
	s := 0.0
	for _, house := range catalog.WealthHouses {
		s += m[HouseKey(house)]
	}
	return s
}

func sumPlanets(m map[string]float64) float64 {
	s := 0.0
	for _, p := range catalog.Planets {
		s += m[p.Name]
	}
	return s
}

// sumYogas includes the unlisted yogas after the catalog ones
func sumYogas(fs *contracts.FeatureSet) float64 {
	s := 0.0
	for _, y := range catalog.Yogas {
		s += fs.YogaFeatures[y.Name]
	}
	return s + fs.UnknownYogaScore
}

// GroupSum sums a category in catalog order
func GroupSum(fs *contracts.FeatureSet, category string) float64 {
	switch category {
	case contracts.CategoryHouse:
		return sumHouses(fs.HouseFeatures)
	case contracts.CategoryPlanetary:
		return sumPlanets(fs.PlanetaryFeatures)
	case contracts.CategoryYoga:
		return sumYogas(fs)
	case contracts.CategoryTiming:
		return fs.TimingFeatures[contracts.TimingDashaStrength] + fs.TimingFeatures[contracts.TimingNakshatraInfluence]
	default:
		return 0
	}
}

var _ contracts.FeatureExtractor = (*Extractor)(nil)
