package contracts

// DateRange is an inclusive calendar range, YYYY-MM-DD
type DateRange struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// TimeRange is an inclusive time-of-day window, HH:MM or HH:MM:SS
type TimeRange struct {
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// Horoscope is a synthesized chart for a subject symbol.
// ⭐ SSOT: Generator → Extractor 전달
type Horoscope struct {
	Symbol        string `json:"symbol"`
	Seed          int64  `json:"seed"`
	BirthDate     string `json:"birth_date"` // YYYY-MM-DD
	BirthTime     string `json:"birth_time"` // HH:MM:SS
	BirthLocation string `json:"birth_location"`

	SunSign   string `json:"sun_sign"`
	MoonSign  string `json:"moon_sign"`
	Ascendant string `json:"ascendant"`
	Nakshatra string `json:"nakshatra"`
	DashaLord string `json:"dasha_lord"`

	PlanetaryPositions map[string]float64 `json:"planetary_positions"` // planet -> degrees [0,360)
	HousePositions     map[int]float64    `json:"house_positions"`     // 1..12 -> degrees [0,360)
	ActiveYogas        []string           `json:"active_yogas"`
}

// HasYoga reports whether name is among the active yogas
func (h *Horoscope) HasYoga(name string) bool {
	for _, y := range h.ActiveYogas {
		if y == name {
			return true
		}
	}
	return false
}

// Feature group names, also the keys of category weights
const (
	CategoryHouse     = "house"
	CategoryPlanetary = "planetary"
	CategoryYoga      = "yoga"
	CategoryTiming    = "timing"
)

// Categories lists the feature groups in display order
var Categories = []string{CategoryHouse, CategoryPlanetary, CategoryYoga, CategoryTiming}

// Timing feature keys
const (
	TimingDashaStrength      = "dasha_strength"
	TimingNakshatraInfluence = "nakshatra_influence"
)

// FeatureSet is the extracted, normalized view of one horoscope
// ⭐ SSOT: Extractor → Aggregator 전달
type FeatureSet struct {
	Symbol            string             `json:"symbol"`
	HouseFeatures     map[string]float64 `json:"house_features"`     // house_<n> -> [0,1)
	PlanetaryFeatures map[string]float64 `json:"planetary_features"` // planet -> [0, weight)
	YogaFeatures      map[string]float64 `json:"yoga_features"`      // all 10 catalog yogas
	TimingFeatures    map[string]float64 `json:"timing_features"`
	TotalScore        float64            `json:"total_score"`

	// Active yogas that are not in the catalog. They carry no feature key;
	// each distinct name adds the default yoga score to UnknownYogaScore,
	// which counts toward the yoga group.
	UnknownYogas     []string `json:"unknown_yogas,omitempty"`
	UnknownYogaScore float64  `json:"unknown_yoga_score"`
}

// Group returns the feature map for a category name
func (f *FeatureSet) Group(category string) map[string]float64 {
	switch category {
	case CategoryHouse:
		return f.HouseFeatures
	case CategoryPlanetary:
		return f.PlanetaryFeatures
	case CategoryYoga:
		return f.YogaFeatures
	case CategoryTiming:
		return f.TimingFeatures
	default:
		return nil
	}
}
