package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemperatureBandBoundaries(t *testing.T) {
	cases := []struct {
		temp float64
		want string
	}{
		{-5, TempCold},
		{9.9, TempCold},
		{10, TempCool},
		{19.9, TempCool},
		{20, TempModerate},
		{29.9, TempModerate},
		{30, TempHot},
		{39.9, TempHot},
		{40, TempVeryHot},
		{48, TempVeryHot},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, TemperatureBand(tc.temp), "temp=%v", tc.temp)
	}
}

func TestRainfallBandBoundaries(t *testing.T) {
	require.Equal(t, RainNone, RainfallBand(0))
	require.Equal(t, RainLight, RainfallBand(0.5))
	require.Equal(t, RainLight, RainfallBand(1.9))
	require.Equal(t, RainModerate, RainfallBand(2))
	require.Equal(t, RainModerate, RainfallBand(9.9))
	require.Equal(t, RainHeavy, RainfallBand(10))
	require.Equal(t, RainHeavy, RainfallBand(120))
}

func TestHumidityBandAndRisk(t *testing.T) {
	require.Equal(t, HumidityLow, HumidityBand(39.9))
	require.Equal(t, HumidityModerate, HumidityBand(40))
	require.Equal(t, HumidityModerate, HumidityBand(69.9))
	require.Equal(t, HumidityHigh, HumidityBand(70))

	require.Equal(t, RiskLow, diseaseRisk(60))
	require.Equal(t, RiskMedium, diseaseRisk(60.1))
	require.Equal(t, RiskMedium, diseaseRisk(80))
	require.Equal(t, RiskHigh, diseaseRisk(80.1))
}

func TestOverallConditionsExamples(t *testing.T) {
	require.Equal(t, ConditionsExcellent, overallConditions(25, 5, 60))
	require.Equal(t, ConditionsChallenging, overallConditions(5, 0, 30))
	require.Equal(t, ConditionsGood, overallConditions(33, 1, 30))
	require.Equal(t, ConditionsModerate, overallConditions(38, 0, 20))
}

func TestCoordinatesValid(t *testing.T) {
	require.True(t, Coordinates{Latitude: 28.6, Longitude: 77.2}.Valid())
	require.True(t, Coordinates{Latitude: -90, Longitude: 180}.Valid())
	require.False(t, Coordinates{Latitude: 90.1, Longitude: 0}.Valid())
	require.False(t, Coordinates{Latitude: 0, Longitude: -180.5}.Valid())
}
