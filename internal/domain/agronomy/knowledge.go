package agronomy

// Candidate crop sets keyed by the prevailing temperature regime. Order
// matters: it is the preference ranking the suitability score encodes.
type cropSet struct {
	crops  []string
	season string
}

var (
	warmWeatherCrops     = cropSet{crops: []string{"rice", "cotton", "sugarcane", "maize", "sorghum"}, season: "kharif"}
	moderateWeatherCrops = cropSet{crops: []string{"wheat", "barley", "mustard", "gram", "peas"}, season: "rabi"}
	coolWeatherCrops     = cropSet{crops: []string{"potato", "cauliflower", "cabbage", "carrot", "spinach"}, season: "winter"}
)

var cropBenefits = map[string][]string{
	"rice":      {"High market demand", "Water efficient varieties available", "Good storage life"},
	"wheat":     {"Stable market price", "Multiple varieties", "Good processing value"},
	"cotton":    {"Export potential", "High profit margins", "Industrial demand"},
	"maize":     {"Versatile use", "Good fodder value", "Drought tolerant varieties"},
	"sugarcane": {"Continuous harvesting", "High biomass", "Multiple products"},
}

var genericBenefits = []string{"Suitable for local conditions", "Good nutritional value", "Market availability"}

var cropChallenges = map[string][]string{
	"rice":      {"Water intensive", "Pest susceptibility", "Labor intensive"},
	"wheat":     {"Storage issues", "Price volatility", "Disease management"},
	"cotton":    {"Pest management", "Input costs", "Quality requirements"},
	"maize":     {"Storage pests", "Market fluctuations", "Weather dependency"},
	"sugarcane": {"Processing dependency", "Transport costs", "Long crop cycle"},
}

var genericChallenges = []string{"Market risks", "Weather dependency", "Input costs"}

var cropInvestment = map[string]string{
	"rice":      "medium",
	"wheat":     "low",
	"cotton":    "high",
	"maize":     "medium",
	"sugarcane": "high",
}

const genericInvestment = "medium"

func benefitsFor(crop string) []string {
	if b, ok := cropBenefits[crop]; ok {
		return b
	}
	return genericBenefits
}

func challengesFor(crop string) []string {
	if c, ok := cropChallenges[crop]; ok {
		return c
	}
	return genericChallenges
}

func investmentFor(crop string) string {
	if inv, ok := cropInvestment[crop]; ok {
		return inv
	}
	return genericInvestment
}

// candidatesFor picks the crop set for the prevailing temperature.
func candidatesFor(temperatureC float64) cropSet {
	switch {
	case temperatureC > 30:
		return warmWeatherCrops
	case temperatureC < 20:
		return coolWeatherCrops
	default:
		return moderateWeatherCrops
	}
}

var syntheticSoilTypes = []string{"loamy", "clay", "sandy", "black_cotton", "red_laterite"}

var nutrientLevels = []string{"low", "medium", "high"}

var drainageLevels = []string{"good", "moderate", "poor"}

var priceTrends = []string{"rising", "stable", "declining"}
