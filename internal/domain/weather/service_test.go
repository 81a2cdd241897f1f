package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agromitra/advisory-engine/pkg/randx"
)

func newTestService(provider Provider, seed int64, now time.Time) *Service {
	svc := NewService(provider, randx.New(seed), testLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnalyzeIsPure(t *testing.T) {
	snap := Snapshot{TemperatureC: 25, RainfallMm: 5, HumidityPct: 60}

	first := Analyze(snap)
	second := Analyze(snap)

	require.Equal(t, first, second)
	require.Equal(t, ConditionsExcellent, first.OverallConditions)
	require.Equal(t, TempModerate, first.TemperatureBand)
	require.Equal(t, RainModerate, first.RainfallBand)
	require.False(t, first.IrrigationNeeded)
}

func TestAnalyzeChallengingConditions(t *testing.T) {
	analysis := Analyze(Snapshot{TemperatureC: 5, RainfallMm: 0, HumidityPct: 30})

	require.Equal(t, ConditionsChallenging, analysis.OverallConditions)
	require.True(t, analysis.IrrigationNeeded)
	require.Contains(t, analysis.Recommendations, "Protect crops from frost")
	require.Contains(t, analysis.Recommendations, "Ensure adequate irrigation")
}

func TestCurrentWeatherSyntheticWhenNoProvider(t *testing.T) {
	july := time.Date(2025, time.July, 15, 12, 0, 0, 0, time.UTC)
	svc := newTestService(nil, 42, july)

	snap, err := svc.CurrentWeather(context.Background(), Coordinates{Latitude: 28.6, Longitude: 77.2})

	require.NoError(t, err)
	require.True(t, snap.Synthetic)
	require.GreaterOrEqual(t, snap.RainfallMm, 0.0)
	// Monsoon base 28 with +/-4 jitter.
	require.GreaterOrEqual(t, snap.TemperatureC, 24.0)
	require.LessOrEqual(t, snap.TemperatureC, 32.0)
	require.Equal(t, "Delhi NCR", snap.LocationName)
	require.Equal(t, "IN", snap.CountryCode)
}

func TestCurrentWeatherSyntheticIsSeedDeterministic(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)
	coords := Coordinates{Latitude: 12.9, Longitude: 77.6}

	first, err := newTestService(nil, 7, jan).CurrentWeather(context.Background(), coords)
	require.NoError(t, err)
	second, err := newTestService(nil, 7, jan).CurrentWeather(context.Background(), coords)
	require.NoError(t, err)

	require.Equal(t, first, second)
	// Winter base 20 with +/-4 jitter.
	require.GreaterOrEqual(t, first.TemperatureC, 16.0)
	require.LessOrEqual(t, first.TemperatureC, 24.0)
}

func TestCurrentWeatherFallsBackOnProviderError(t *testing.T) {
	provider := &stubProvider{currentErr: errors.New("connection refused")}
	svc := newTestService(provider, 1, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC))

	snap, err := svc.CurrentWeather(context.Background(), Coordinates{Latitude: 20, Longitude: 78})

	require.NoError(t, err)
	require.True(t, snap.Synthetic)
	require.Equal(t, "Rural District", snap.LocationName)
}

func TestCurrentWeatherUsesLiveProvider(t *testing.T) {
	live := Snapshot{TemperatureC: 31, HumidityPct: 55, RainfallMm: 0, LocationName: "Nagpur", CountryCode: "IN"}
	provider := &stubProvider{current: live}
	svc := newTestService(provider, 1, time.Now())

	snap, err := svc.CurrentWeather(context.Background(), Coordinates{Latitude: 21.1, Longitude: 79.1})

	require.NoError(t, err)
	require.False(t, snap.Synthetic)
	require.Equal(t, live, snap)
}

func TestForecastAlertsSeverityMapping(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		forecast: Forecast{LocationName: "Pune", CountryCode: "IN", Days: []ForecastDay{{Date: "2025-07-01"}}},
		alerts: []ProviderAlert{
			{Event: "Thunderstorm Watch", Severity: "Minor", EffectiveAt: start, ExpiresAt: start.Add(time.Hour)},
			{Event: "Cyclone Warning", Severity: "Extreme", EffectiveAt: start, ExpiresAt: start.Add(time.Hour)},
			{Event: "Unknown Event", Severity: "weird", EffectiveAt: start, ExpiresAt: start.Add(time.Hour)},
		},
	}
	svc := newTestService(provider, 3, start)

	fc, err := svc.ForecastWithAlerts(context.Background(), Coordinates{Latitude: 18.5, Longitude: 73.8})
	require.NoError(t, err)

	require.Equal(t, SeverityLow, fc.Alerts[0].Severity)
	require.Equal(t, SeverityCritical, fc.Alerts[1].Severity)
	require.Equal(t, SeverityMedium, fc.Alerts[2].Severity)
	for _, a := range fc.Alerts[:3] {
		require.Equal(t, AlertSourceLive, a.Source)
		require.NotEmpty(t, a.FarmingAdvice)
		require.False(t, a.ExpiresAt.Before(a.EffectiveAt))
	}
}

func TestForecastAlwaysCarriesSeasonalTip(t *testing.T) {
	start := time.Date(2025, time.December, 20, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{forecast: Forecast{Days: []ForecastDay{}}}
	svc := newTestService(provider, 11, start)

	fc, err := svc.ForecastWithAlerts(context.Background(), Coordinates{Latitude: 30.9, Longitude: 75.8})
	require.NoError(t, err)

	require.NotEmpty(t, fc.Alerts)
	tip := fc.Alerts[len(fc.Alerts)-1]
	require.Equal(t, "Seasonal Farming Tip", tip.Title)
	require.Equal(t, SeverityLow, tip.Severity)
	require.Equal(t, AlertSourceSynthetic, tip.Source)

	// Synthetic advisories only augment, never exceed the cap.
	synthetic := 0
	for _, a := range fc.Alerts {
		if a.Source == AlertSourceSynthetic && a.Title != "Seasonal Farming Tip" {
			synthetic++
		}
	}
	require.LessOrEqual(t, synthetic, maxSyntheticAlerts)
}

func TestForecastSkipsAugmentationWhenEnoughLiveAlerts(t *testing.T) {
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	provider := &stubProvider{
		forecast: Forecast{},
		alerts: []ProviderAlert{
			{Event: "Alert A", Severity: "Severe", EffectiveAt: start, ExpiresAt: start.Add(time.Hour)},
			{Event: "Alert B", Severity: "Moderate", EffectiveAt: start, ExpiresAt: start.Add(time.Hour)},
		},
	}
	svc := newTestService(provider, 5, start)

	fc, err := svc.ForecastWithAlerts(context.Background(), Coordinates{})
	require.NoError(t, err)

	// Two live alerts plus the always-present seasonal tip, nothing else.
	require.Len(t, fc.Alerts, 3)
	require.Equal(t, AlertSourceSynthetic, fc.Alerts[2].Source)
}

func TestForecastCapsAtFiveDays(t *testing.T) {
	days := make([]ForecastDay, 8)
	for i := range days {
		days[i] = ForecastDay{Date: time.Date(2025, time.March, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")}
	}
	provider := &stubProvider{forecast: Forecast{Days: days}}
	svc := newTestService(provider, 9, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))

	fc, err := svc.ForecastWithAlerts(context.Background(), Coordinates{})
	require.NoError(t, err)
	require.Len(t, fc.Days, 5)
}

func TestSeasonFor(t *testing.T) {
	require.Equal(t, seasonWinter, seasonFor(time.January))
	require.Equal(t, seasonSummer, seasonFor(time.March))
	require.Equal(t, seasonSummer, seasonFor(time.June))
	require.Equal(t, seasonMonsoon, seasonFor(time.July))
	require.Equal(t, seasonMonsoon, seasonFor(time.September))
	require.Equal(t, seasonPostMonsoon, seasonFor(time.October))
	require.Equal(t, seasonWinter, seasonFor(time.December))
}

type stubProvider struct {
	current    Snapshot
	currentErr error
	forecast   Forecast
	alerts     []ProviderAlert
	fcErr      error
}

func (s *stubProvider) CurrentWeather(_ context.Context, _ Coordinates) (Snapshot, error) {
	if s.currentErr != nil {
		return Snapshot{}, s.currentErr
	}
	return s.current, nil
}

func (s *stubProvider) Forecast(_ context.Context, _ Coordinates) (Forecast, []ProviderAlert, error) {
	if s.fcErr != nil {
		return Forecast{}, nil, s.fcErr
	}
	return s.forecast, s.alerts, nil
}
