package agronomy

import "github.com/agromitra/advisory-engine/internal/domain/weather"

// ProfileOrigin tags how a soil profile was produced.
type ProfileOrigin string

const (
	OriginClassifier ProfileOrigin = "classifier"
	OriginSynthetic  ProfileOrigin = "synthetic"
)

// SoilProfile describes the analyzed (or synthesized) soil of a field.
type SoilProfile struct {
	SoilType           string        `json:"soilType"`
	PHLevel            float64       `json:"phLevel"`
	OrganicMatterPct   float64       `json:"organicMatterPct"`
	NitrogenLevel      string        `json:"nitrogenLevel"`
	PhosphorusLevel    string        `json:"phosphorusLevel"`
	PotassiumLevel     string        `json:"potassiumLevel"`
	MoistureContentPct float64       `json:"moistureContentPct"`
	Drainage           string        `json:"drainage"`
	Confidence         float64       `json:"confidence"`
	Origin             ProfileOrigin `json:"origin"`
}

// CropRecommendation ranks one candidate crop for the analyzed field.
type CropRecommendation struct {
	CropName          string   `json:"cropName"`
	SuitabilityScore  float64  `json:"suitabilityScore"`
	ExpectedYieldNote string   `json:"expectedYieldNote"`
	GrowingPeriodDays int      `json:"growingPeriodDays"`
	WaterRequirement  string   `json:"waterRequirement"`
	MarketPriceTrend  string   `json:"marketPriceTrend"`
	Season            string   `json:"season"`
	Benefits          []string `json:"benefits"`
	Challenges        []string `json:"challenges"`
	InvestmentLevel   string   `json:"investmentLevel"`
}

// FarmingTip is one templated piece of field guidance.
type FarmingTip struct {
	Category       string `json:"category"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// ClassifyRequest carries the soil image plus contextual data the external
// classifier uses to refine its answer.
type ClassifyRequest struct {
	Image       []byte
	MimeType    string
	Coordinates weather.Coordinates
	Context     ClassifyContext
}

// ClassifyContext mirrors the free-form additional info the classifier accepts.
type ClassifyContext struct {
	TemperatureC float64 `json:"temperature"`
	RainfallMm   float64 `json:"rainfall"`
	HumidityPct  float64 `json:"humidity"`
	Conditions   string  `json:"weather_conditions,omitempty"`
	Language     string  `json:"language,omitempty"`
	FarmSize     string  `json:"farmSize,omitempty"`
	SoilType     string  `json:"soilType,omitempty"`
	PreviousCrop string  `json:"previousCrop,omitempty"`
	Experience   string  `json:"experience,omitempty"`
}

// ClassifyResult is what the external classifier returned. Recommendations
// and tips are optional; when present the orchestrator prefers them over
// the local scoring logic.
type ClassifyResult struct {
	Soil            SoilProfile
	Recommendations []CropRecommendation
	Tips            []FarmingTip
	Confidence      float64
}
