package advisory

import (
	"time"

	"github.com/agromitra/advisory-engine/internal/domain/agronomy"
	"github.com/agromitra/advisory-engine/internal/domain/trust"
	"github.com/agromitra/advisory-engine/internal/domain/weather"
)

// RecommendationOrigin tags where the crop recommendations came from.
type RecommendationOrigin string

const (
	// OriginExternal means the ML classifier produced the recommendations.
	OriginExternal RecommendationOrigin = "external"
	// OriginSynthesized means the local scoring engine produced them.
	OriginSynthesized RecommendationOrigin = "synthesized"
)

// Request is one advisory request as submitted by a farmer.
type Request struct {
	Coordinates  weather.Coordinates
	Image        []byte
	MimeType     string
	Language     string
	FarmSize     string
	SoilType     string
	PreviousCrop string
	Experience   string
}

// Record is a fully assembled advisory, addressable by ID for follow-up
// questions.
type Record struct {
	ID                 string                        `json:"id"`
	Success            bool                          `json:"success"`
	CreatedAt          time.Time                     `json:"createdAt"`
	Weather            weather.Snapshot              `json:"weather"`
	Analysis           weather.Analysis              `json:"analysis"`
	Forecast           weather.Forecast              `json:"forecast"`
	Soil               agronomy.SoilProfile          `json:"soilAnalysis"`
	Recommendations    []agronomy.CropRecommendation `json:"cropRecommendations"`
	Tips               []agronomy.FarmingTip         `json:"farmingTips"`
	Trust              trust.Assessment              `json:"trust"`
	Confidence         float64                       `json:"confidenceScore"`
	Origin             RecommendationOrigin          `json:"recommendationSource"`
	SuggestedQuestions []string                      `json:"suggestedQuestions"`
}

// TopCrop returns the highest ranked crop name, or empty when the
// recommendation list is empty.
func (r Record) TopCrop() string {
	if len(r.Recommendations) == 0 {
		return ""
	}
	return r.Recommendations[0].CropName
}

// Fallback is returned when the pipeline degrades so badly that not even a
// synthesized advisory can be assembled. The farmer still gets something
// actionable.
type Fallback struct {
	Success                bool     `json:"success"`
	Message                string   `json:"message"`
	GeneralRecommendations []string `json:"generalRecommendations"`
	SuggestedAction        string   `json:"suggestedAction"`
}

// Outcome is the union result of an advisory request. Exactly one of Record
// and Fallback is set.
type Outcome struct {
	Record   *Record   `json:"record,omitempty"`
	Fallback *Fallback `json:"fallback,omitempty"`
}

func newFallback() Fallback {
	return Fallback{
		Success: false,
		Message: "We could not assemble a full advisory right now, but here is general guidance for your region.",
		GeneralRecommendations: []string{
			"Test your soil through the nearest Krishi Vigyan Kendra before the sowing season",
			"Choose crop varieties recommended for your agro-climatic zone",
			"Keep following local weather bulletins before irrigation and spraying",
			"Consult your local agriculture extension officer for field-specific advice",
		},
		SuggestedAction: "Please try again in a few minutes with a clear photo of your soil.",
	}
}
