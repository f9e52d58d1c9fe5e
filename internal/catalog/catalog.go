// Package catalog holds the fixed astrological enumerations shared by the
// horoscope generator and the feature extractor.
//
// Order matters: the generator draws from these slices by index, so
// reordering any of them changes every generated horoscope.
package catalog

// Planet is a graha with its weight in the planetary feature group
type Planet struct {
	Name   string
	Weight float64
}

// Yoga is a planetary combination with its feature score
type Yoga struct {
	Name  string
	Score float64
}

// Defaults applied to values missing from a horoscope or unknown to the catalog
const (
	DefaultNormalizedPosition = 0.5
	DefaultDashaStrength      = 0.10
	DefaultUnknownYogaScore   = 0.10

	MinYogas = 2
	MaxYogas = 4
)

// Signs are the 12 rasis, used for sun sign, moon sign and ascendant
var Signs = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// Nakshatras are the 27 lunar mansions in canonical order
var Nakshatras = []string{
	"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
	"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
	"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
	"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
	"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
}

// Planets in generation order. Weights sum to 1.0.
var Planets = []Planet{
	{"Sun", 0.15},
	{"Moon", 0.12},
	{"Mars", 0.12},
	{"Mercury", 0.10},
	{"Jupiter", 0.18},
	{"Venus", 0.15},
	{"Saturn", 0.10},
	{"Rahu", 0.05},
	{"Ketu", 0.03},
}

// Yogas in generation order
var Yogas = []Yoga{
	{"Raj Yoga", 0.25},
	{"Dhana Yoga", 0.22},
	{"Lakshmi Yoga", 0.20},
	{"Gaja Kesari Yoga", 0.18},
	{"Budha Aditya Yoga", 0.15},
	{"Hamsa Yoga", 0.14},
	{"Malavya Yoga", 0.13},
	{"Chandra Mangala Yoga", 0.12},
	{"Viparita Raja Yoga", 0.10},
	{"Kemadruma Yoga", 0.08},
}

// WealthHouses are the houses read by the house feature group
var WealthHouses = []int{2, 5, 8, 9, 10, 11, 12}

// HouseCount is the number of bhavas
const HouseCount = 12

var (
	planetWeights  = make(map[string]float64, len(Planets))
	yogaScores     = make(map[string]float64, len(Yogas))
	nakshatraIndex = make(map[string]int, len(Nakshatras))
)

func init() {
	for _, p := range Planets {
		planetWeights[p.Name] = p.Weight
	}
	for _, y := range Yogas {
		yogaScores[y.Name] = y.Score
	}
	for i, n := range Nakshatras {
		nakshatraIndex[n] = i
	}
}

// PlanetWeight returns the weight of a planet and whether it is in the catalog
func PlanetWeight(name string) (float64, bool) {
	w, ok := planetWeights[name]
	return w, ok
}

// MaxPlanetWeight returns the largest planetary weight (Jupiter)
func MaxPlanetWeight() float64 {
	max := 0.0
	for _, p := range Planets {
		if p.Weight > max {
			max = p.Weight
		}
	}
	return max
}

// YogaScore returns the catalog score, DefaultUnknownYogaScore for unlisted names
func YogaScore(name string) float64 {
	if s, ok := yogaScores[name]; ok {
		return s
	}
	return DefaultUnknownYogaScore
}

// IsCatalogYoga reports whether name is one of the 10 catalog yogas
func IsCatalogYoga(name string) bool {
	_, ok := yogaScores[name]
	return ok
}

// TopYogaScoreSum is the best yoga group a generated horoscope can reach:
// the MaxYogas highest catalog scores.
func TopYogaScoreSum() float64 {
	// Yogas is sorted by descending score
	sum := 0.0
	for i := 0; i < MaxYogas && i < len(Yogas); i++ {
		sum += Yogas[i].Score
	}
	return sum
}

// NakshatraIndex returns the 0-based catalog index of a nakshatra
func NakshatraIndex(name string) (int, bool) {
	i, ok := nakshatraIndex[name]
	return i, ok
}
