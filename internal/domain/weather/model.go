package weather

import (
	"math"
	"time"
)

// Coordinates identifies the farm location an advisory is generated for.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both values are finite and inside the WGS84 range.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsInf(c.Latitude, 0) {
		return false
	}
	if math.IsNaN(c.Longitude) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Snapshot is the current-conditions view for one coordinate pair.
// It is immutable once produced.
type Snapshot struct {
	TemperatureC float64   `json:"temperatureC"`
	HumidityPct  float64   `json:"humidityPct"`
	RainfallMm   float64   `json:"rainfallMm"`
	Condition    string    `json:"condition"`
	Description  string    `json:"description,omitempty"`
	LocationName string    `json:"locationName"`
	CountryCode  string    `json:"countryCode"`
	CapturedAt   time.Time `json:"capturedAt"`
	Synthetic    bool      `json:"isSynthetic"`
}

// ForecastDay is one day of the multi-day outlook.
type ForecastDay struct {
	Date         string  `json:"date"`
	TemperatureC float64 `json:"temperatureC"`
	HumidityPct  float64 `json:"humidityPct"`
	RainfallMm   float64 `json:"rainfallMm"`
	MinTempC     float64 `json:"minTempC"`
	MaxTempC     float64 `json:"maxTempC"`
	Condition    string  `json:"condition"`
}

// Forecast bundles the ordered daily outlook with its location metadata.
type Forecast struct {
	LocationName string        `json:"locationName"`
	CountryCode  string        `json:"countryCode"`
	Days         []ForecastDay `json:"days"`
	Alerts       []Alert       `json:"alerts"`
	Synthetic    bool          `json:"isSynthetic"`
}

// AlertSeverity grades how serious an alert is.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertSource tags where an alert came from so callers can separate
// live provider data from locally generated advisories.
type AlertSource string

const (
	AlertSourceLive      AlertSource = "live"
	AlertSourceSynthetic AlertSource = "synthetic"
)

// Alert is a weather advisory with attached farming guidance.
type Alert struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Severity      AlertSeverity `json:"severity"`
	Urgency       string        `json:"urgency"`
	EffectiveAt   time.Time     `json:"effectiveAt"`
	ExpiresAt     time.Time     `json:"expiresAt"`
	Category      string        `json:"category"`
	FarmingAdvice string        `json:"farmingAdvice"`
	Source        AlertSource   `json:"source"`
}

// ProviderAlert is an upstream alert before severity mapping.
type ProviderAlert struct {
	Event       string
	Description string
	Severity    string
	Urgency     string
	Category    string
	EffectiveAt time.Time
	ExpiresAt   time.Time
}

// Band labels for the qualitative weather classification.
const (
	TempCold     = "cold"
	TempCool     = "cool"
	TempModerate = "moderate"
	TempHot      = "hot"
	TempVeryHot  = "very_hot"

	RainNone     = "no_rain"
	RainLight    = "light"
	RainModerate = "moderate"
	RainHeavy    = "heavy"

	HumidityLow      = "low"
	HumidityModerate = "moderate"
	HumidityHigh     = "high"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"

	ConditionsExcellent   = "excellent"
	ConditionsGood        = "good"
	ConditionsModerate    = "moderate"
	ConditionsChallenging = "challenging"
)

// Analysis is the derived, read-only view over a snapshot.
type Analysis struct {
	TemperatureBand   string   `json:"temperatureBand"`
	RainfallBand      string   `json:"rainfallBand"`
	HumidityBand      string   `json:"humidityBand"`
	DiseaseRisk       string   `json:"diseaseRisk"`
	OverallConditions string   `json:"overallConditions"`
	IrrigationNeeded  bool     `json:"irrigationNeeded"`
	Recommendations   []string `json:"recommendations"`
}

// TemperatureBand classifies a temperature in degrees Celsius.
func TemperatureBand(temp float64) string {
	switch {
	case temp < 10:
		return TempCold
	case temp < 20:
		return TempCool
	case temp < 30:
		return TempModerate
	case temp < 40:
		return TempHot
	default:
		return TempVeryHot
	}
}

// RainfallBand classifies rainfall in millimetres.
func RainfallBand(rainfall float64) string {
	switch {
	case rainfall == 0:
		return RainNone
	case rainfall < 2:
		return RainLight
	case rainfall < 10:
		return RainModerate
	default:
		return RainHeavy
	}
}

// HumidityBand classifies relative humidity in percent.
func HumidityBand(humidity float64) string {
	switch {
	case humidity < 40:
		return HumidityLow
	case humidity < 70:
		return HumidityModerate
	default:
		return HumidityHigh
	}
}

func diseaseRisk(humidity float64) string {
	switch {
	case humidity > 80:
		return RiskHigh
	case humidity > 60:
		return RiskMedium
	default:
		return RiskLow
	}
}

func overallConditions(temp, rainfall, humidity float64) string {
	switch {
	case temp >= 20 && temp <= 30 && rainfall >= 2 && humidity >= 50:
		return ConditionsExcellent
	case temp >= 15 && temp <= 35 && (rainfall >= 1 || humidity >= 40):
		return ConditionsGood
	case temp >= 10 && temp <= 40:
		return ConditionsModerate
	default:
		return ConditionsChallenging
	}
}
