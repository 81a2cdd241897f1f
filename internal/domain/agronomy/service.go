package agronomy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agromitra/advisory-engine/internal/domain/weather"
	"github.com/agromitra/advisory-engine/pkg/randx"
)

// Classifier is the external ML soil classification backend.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (ClassifyResult, error)
}

// Service scores crops against soil and weather and generates farming tips.
type Service struct {
	classifier Classifier
	logger     *slog.Logger
	rng        randx.Source
}

// NewService wires up the soil/crop scorer. A nil classifier means soil
// profiles are always synthesized locally.
func NewService(classifier Classifier, rng randx.Source, logger *slog.Logger) *Service {
	return &Service{
		classifier: classifier,
		logger:     logger.With("component", "agronomy.service"),
		rng:        rng,
	}
}

// ClassifySoil delegates to the external classifier; on failure or absence
// it returns a bounded-random synthetic profile with no recommendations.
func (s *Service) ClassifySoil(ctx context.Context, req ClassifyRequest) ClassifyResult {
	if s.classifier != nil && len(req.Image) > 0 {
		result, err := s.classifier.Classify(ctx, req)
		if err == nil {
			result.Soil.Origin = OriginClassifier
			return result
		}
		s.logger.Warn("soil classifier failed, using synthetic profile", "error", err)
	}
	return ClassifyResult{Soil: s.SyntheticSoilProfile()}
}

// SyntheticSoilProfile samples a plausible soil profile from bounded
// uniform ranges.
func (s *Service) SyntheticSoilProfile() SoilProfile {
	return SoilProfile{
		SoilType:           syntheticSoilTypes[s.rng.Intn(len(syntheticSoilTypes))],
		PHLevel:            6.0 + s.rng.Float64()*2.5,
		OrganicMatterPct:   1.5 + s.rng.Float64()*3.5,
		NitrogenLevel:      nutrientLevels[s.rng.Intn(len(nutrientLevels))],
		PhosphorusLevel:    nutrientLevels[s.rng.Intn(len(nutrientLevels))],
		PotassiumLevel:     nutrientLevels[s.rng.Intn(len(nutrientLevels))],
		MoistureContentPct: 10 + s.rng.Float64()*20,
		Drainage:           drainageLevels[s.rng.Intn(len(drainageLevels))],
		Confidence:         0.82,
		Origin:             OriginSynthetic,
	}
}

const topCandidates = 3

// RecommendCrops ranks candidate crops for the current weather. The
// candidate set is temperature-driven; the top three are returned with a
// strictly descending index-based suitability score.
func (s *Service) RecommendCrops(soil SoilProfile, snap weather.Snapshot) []CropRecommendation {
	set := candidatesFor(snap.TemperatureC)
	limit := topCandidates
	if limit > len(set.crops) {
		limit = len(set.crops)
	}

	recs := make([]CropRecommendation, 0, limit)
	for i := 0; i < limit; i++ {
		crop := set.crops[i]
		recs = append(recs, CropRecommendation{
			CropName:          crop,
			SuitabilityScore:  SuitabilityScore(i),
			ExpectedYieldNote: fmt.Sprintf("%d%% above average", 20+s.rng.Intn(31)),
			GrowingPeriodDays: 90 + s.rng.Intn(61),
			WaterRequirement:  nutrientLevels[s.rng.Intn(len(nutrientLevels))],
			MarketPriceTrend:  priceTrends[s.rng.Intn(len(priceTrends))],
			Season:            set.season,
			Benefits:          benefitsFor(crop),
			Challenges:        challengesFor(crop),
			InvestmentLevel:   investmentFor(crop),
		})
	}
	return recs
}

// SuitabilityScore is the relative preference ranking for the i-th
// returned candidate: 0.85 minus 0.10 per index, clamped to [0, 1]. It is
// a ranking value, not an absolute agronomic confidence.
func SuitabilityScore(index int) float64 {
	score := 0.85 - 0.10*float64(index)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// Tip categories produced for every advisory, in order.
const (
	TipIrrigation  = "irrigation"
	TipFertilizer  = "fertilizer"
	TipPestControl = "pest_control"
	TipTiming      = "timing"
)

// FarmingTips derives the four fixed tip categories from current weather.
func (s *Service) FarmingTips(snap weather.Snapshot) []FarmingTip {
	irrigation := "Monitor soil moisture, reduce irrigation if needed"
	if snap.RainfallMm < 2 {
		irrigation = "Increase irrigation frequency due to low rainfall"
	}

	pest := "Regular pest scouting recommended"
	if snap.HumidityPct > 70 {
		pest = "Monitor for fungal diseases due to high humidity"
	}

	return []FarmingTip{
		{
			Category:       TipIrrigation,
			Title:          "Smart Irrigation",
			Description:    "Based on current weather conditions and soil moisture",
			Recommendation: irrigation,
		},
		{
			Category:       TipFertilizer,
			Title:          "Nutrient Management",
			Description:    "Optimal fertilizer application timing",
			Recommendation: "Apply nitrogen fertilizer in split doses for better absorption",
		},
		{
			Category:       TipPestControl,
			Title:          "Pest Management",
			Description:    "Weather-based pest risk assessment",
			Recommendation: pest,
		},
		{
			Category:       TipTiming,
			Title:          "Planting Schedule",
			Description:    "Optimal timing based on weather forecast",
			Recommendation: "Current conditions are favorable for planting",
		},
	}
}
