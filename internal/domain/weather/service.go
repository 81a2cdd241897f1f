package weather

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/agromitra/advisory-engine/pkg/randx"
)

// Provider fetches live conditions from the upstream weather API.
type Provider interface {
	CurrentWeather(ctx context.Context, coords Coordinates) (Snapshot, error)
	Forecast(ctx context.Context, coords Coordinates) (Forecast, []ProviderAlert, error)
}

// Service produces weather snapshots, forecasts and crop-oriented analyses.
// When the provider is absent or fails it degrades to seasonal synthetic data.
type Service struct {
	provider Provider
	logger   *slog.Logger
	rng      randx.Source
	now      func() time.Time
}

// NewService wires up the weather analyzer. A nil provider means every
// request is served from the synthetic generator.
func NewService(provider Provider, rng randx.Source, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With("component", "weather.service"),
		rng:      rng,
		now:      time.Now,
	}
}

// CurrentWeather returns live conditions, or a synthetic snapshot flagged
// as such when the provider is unreachable or unconfigured.
func (s *Service) CurrentWeather(ctx context.Context, coords Coordinates) (Snapshot, error) {
	if ctx.Err() != nil {
		return Snapshot{}, ctx.Err()
	}
	if s.provider != nil {
		snap, err := s.provider.CurrentWeather(ctx, coords)
		if err == nil {
			return snap, nil
		}
		s.logger.Warn("weather provider failed, using synthetic snapshot", "error", err)
	}
	return s.syntheticSnapshot(coords), nil
}

// ForecastWithAlerts returns the 5-day outlook plus the blended alert list.
// Live alerts are severity-mapped; when fewer than two exist the list is
// augmented with seasonal synthetic advisories, and a generic seasonal
// farming tip alert is always present.
func (s *Service) ForecastWithAlerts(ctx context.Context, coords Coordinates) (Forecast, error) {
	if ctx.Err() != nil {
		return Forecast{}, ctx.Err()
	}

	var (
		fc  Forecast
		raw []ProviderAlert
	)
	if s.provider != nil {
		live, alerts, err := s.provider.Forecast(ctx, coords)
		if err == nil {
			fc = live
			raw = alerts
		} else {
			s.logger.Warn("forecast provider failed, using synthetic forecast", "error", err)
			fc = s.syntheticForecast(coords)
		}
	} else {
		fc = s.syntheticForecast(coords)
	}

	if len(fc.Days) > maxForecastDays {
		fc.Days = fc.Days[:maxForecastDays]
	}

	alerts := make([]Alert, 0, len(raw)+4)
	for _, a := range raw {
		alerts = append(alerts, s.mapProviderAlert(a))
	}
	alerts = s.augmentAlerts(alerts)
	fc.Alerts = alerts
	return fc, nil
}

// Analyze derives the qualitative view over a snapshot. Pure: calling it
// twice on the same snapshot yields identical results.
func (s *Service) Analyze(snap Snapshot) Analysis {
	return Analyze(snap)
}

// Analyze classifies a snapshot into qualitative bands and attaches
// weather-driven farming recommendations.
func Analyze(snap Snapshot) Analysis {
	return Analysis{
		TemperatureBand:   TemperatureBand(snap.TemperatureC),
		RainfallBand:      RainfallBand(snap.RainfallMm),
		HumidityBand:      HumidityBand(snap.HumidityPct),
		DiseaseRisk:       diseaseRisk(snap.HumidityPct),
		OverallConditions: overallConditions(snap.TemperatureC, snap.RainfallMm, snap.HumidityPct),
		IrrigationNeeded:  snap.RainfallMm < 2,
		Recommendations:   recommendationsFor(snap),
	}
}

const maxForecastDays = 5

func recommendationsFor(snap Snapshot) []string {
	recs := make([]string, 0, 8)
	if snap.TemperatureC > 35 {
		recs = append(recs,
			"Consider heat-resistant crop varieties",
			"Increase irrigation frequency")
	}
	if snap.RainfallMm == 0 {
		recs = append(recs,
			"Ensure adequate irrigation",
			"Consider drought-resistant crops")
	}
	if snap.HumidityPct > 80 {
		recs = append(recs,
			"Monitor for fungal diseases",
			"Ensure proper ventilation")
	}
	if snap.TemperatureC < 15 {
		recs = append(recs,
			"Protect crops from frost",
			"Consider cold-hardy varieties")
	}
	return recs
}

func (s *Service) mapProviderAlert(a ProviderAlert) Alert {
	urgency := a.Urgency
	if urgency == "" {
		urgency = "expected"
	}
	expires := a.ExpiresAt
	if expires.Before(a.EffectiveAt) {
		expires = a.EffectiveAt
	}
	return Alert{
		ID:            newAlertID(),
		Title:         a.Event,
		Description:   a.Description,
		Severity:      mapSeverity(a.Severity),
		Urgency:       urgency,
		EffectiveAt:   a.EffectiveAt,
		ExpiresAt:     expires,
		Category:      a.Category,
		FarmingAdvice: farmingAdviceFor(a.Event),
		Source:        AlertSourceLive,
	}
}

func mapSeverity(raw string) AlertSeverity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "minor":
		return SeverityLow
	case "moderate":
		return SeverityMedium
	case "severe":
		return SeverityHigh
	case "extreme":
		return SeverityCritical
	default:
		return SeverityMedium
	}
}

func farmingAdviceFor(event string) string {
	lower := strings.ToLower(event)
	switch {
	case strings.Contains(lower, "rain") || strings.Contains(lower, "flood"):
		return "Stop irrigation, check field drainage and prepare rainwater harvesting"
	case strings.Contains(lower, "heat"):
		return "Increase water supply and provide shade to sensitive crops"
	case strings.Contains(lower, "frost") || strings.Contains(lower, "cold"):
		return "Cover seedlings overnight and delay transplanting"
	case strings.Contains(lower, "wind") || strings.Contains(lower, "storm"):
		return "Stake tall crops and postpone pesticide spraying"
	default:
		return "Inspect crops and adjust field work to the conditions"
	}
}
