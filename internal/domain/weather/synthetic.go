package weather

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Seasons of the agricultural calendar used by the synthetic generator.
const (
	seasonWinter      = "winter"
	seasonSummer      = "summer"
	seasonMonsoon     = "monsoon"
	seasonPostMonsoon = "post_monsoon"
)

func seasonFor(month time.Month) string {
	switch {
	case month >= time.March && month <= time.June:
		return seasonSummer
	case month >= time.July && month <= time.September:
		return seasonMonsoon
	case month == time.October || month == time.November:
		return seasonPostMonsoon
	default:
		return seasonWinter
	}
}

func baseTemperatureFor(season string) float64 {
	switch season {
	case seasonSummer:
		return 30
	case seasonMonsoon:
		return 28
	case seasonPostMonsoon:
		return 26
	default:
		return 20
	}
}

// coordinateBox maps a rough lat/lon rectangle to a display name.
type coordinateBox struct {
	minLat, maxLat float64
	minLon, maxLon float64
	name           string
	country        string
}

var knownRegions = []coordinateBox{
	{28.2, 29.0, 76.8, 77.6, "Delhi NCR", "IN"},
	{18.8, 19.4, 72.7, 73.2, "Mumbai", "IN"},
	{12.8, 13.2, 77.4, 77.9, "Bengaluru", "IN"},
	{12.9, 13.3, 80.0, 80.4, "Chennai", "IN"},
	{22.4, 22.8, 88.2, 88.5, "Kolkata", "IN"},
	{17.2, 17.6, 78.2, 78.7, "Hyderabad", "IN"},
	{30.5, 31.6, 74.5, 76.5, "Punjab Plains", "IN"},
	{25.2, 26.5, 80.0, 83.0, "Gangetic Plain", "IN"},
}

func locationFor(coords Coordinates) (string, string) {
	for _, box := range knownRegions {
		if coords.Latitude >= box.minLat && coords.Latitude <= box.maxLat &&
			coords.Longitude >= box.minLon && coords.Longitude <= box.maxLon {
			return box.name, box.country
		}
	}
	return "Rural District", "IN"
}

// syntheticSnapshot derives plausible current conditions from the calendar
// month with bounded jitter from the injected random source.
func (s *Service) syntheticSnapshot(coords Coordinates) Snapshot {
	now := s.now()
	season := seasonFor(now.Month())
	temp := baseTemperatureFor(season) + s.rng.Float64()*8 - 4

	var rainfall float64
	switch {
	case season == seasonMonsoon:
		rainfall = s.rng.Float64() * 12
	case s.rng.Float64() < 0.2:
		rainfall = s.rng.Float64() * 3
	}

	humidity := 40 + s.rng.Float64()*30
	if season == seasonMonsoon {
		humidity = 70 + s.rng.Float64()*20
	}

	name, country := locationFor(coords)
	return Snapshot{
		TemperatureC: round1(temp),
		HumidityPct:  round1(humidity),
		RainfallMm:   round1(rainfall),
		Condition:    conditionFor(rainfall),
		Description:  descriptionFor(conditionFor(rainfall)),
		LocationName: name,
		CountryCode:  country,
		CapturedAt:   now,
		Synthetic:    true,
	}
}

func (s *Service) syntheticForecast(coords Coordinates) Forecast {
	now := s.now()
	name, country := locationFor(coords)
	days := make([]ForecastDay, 0, maxForecastDays)
	for i := 0; i < maxForecastDays; i++ {
		date := now.AddDate(0, 0, i)
		season := seasonFor(date.Month())
		temp := baseTemperatureFor(season) + s.rng.Float64()*8 - 4

		var rainfall float64
		switch {
		case season == seasonMonsoon:
			rainfall = s.rng.Float64() * 15
		case s.rng.Float64() < 0.2:
			rainfall = s.rng.Float64() * 4
		}

		humidity := 40 + s.rng.Float64()*30
		if season == seasonMonsoon {
			humidity = 65 + s.rng.Float64()*25
		}

		days = append(days, ForecastDay{
			Date:         date.Format("2006-01-02"),
			TemperatureC: round1(temp),
			HumidityPct:  round1(humidity),
			RainfallMm:   round1(rainfall),
			MinTempC:     round1(temp - 3 - s.rng.Float64()*2),
			MaxTempC:     round1(temp + 3 + s.rng.Float64()*2),
			Condition:    conditionFor(rainfall),
		})
	}
	return Forecast{
		LocationName: name,
		CountryCode:  country,
		Days:         days,
		Synthetic:    true,
	}
}

func conditionFor(rainfall float64) string {
	switch {
	case rainfall >= 10:
		return "Rain"
	case rainfall > 0:
		return "Drizzle"
	default:
		return "Clear"
	}
}

func descriptionFor(condition string) string {
	switch condition {
	case "Clear":
		return "clear sky"
	case "Clouds":
		return "partly cloudy"
	case "Rain":
		return "light rain"
	case "Drizzle":
		return "light drizzle"
	case "Thunderstorm":
		return "thunderstorm"
	case "Snow":
		return "snow"
	case "Mist":
		return "misty conditions"
	default:
		return "variable conditions"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func newAlertID() string {
	return uuid.NewString()
}
