package weather

import "time"

type alertTemplate struct {
	title         string
	description   string
	severity      AlertSeverity
	urgency       string
	category      string
	farmingAdvice string
	validFor      time.Duration
}

var seasonalAlertTemplates = map[string][]alertTemplate{
	seasonMonsoon: {
		{
			title:         "Heavy Rainfall Warning",
			description:   "Intense monsoon showers expected over the next 48 hours",
			severity:      SeverityHigh,
			urgency:       "expected",
			category:      "rain",
			farmingAdvice: "Stop irrigation, clear drainage channels and delay fertilizer application",
			validFor:      48 * time.Hour,
		},
		{
			title:         "Flood Watch",
			description:   "Low-lying fields may accumulate standing water",
			severity:      SeverityMedium,
			urgency:       "possible",
			category:      "flood",
			farmingAdvice: "Move harvested produce to higher ground and inspect field bunds",
			validFor:      72 * time.Hour,
		},
	},
	seasonSummer: {
		{
			title:         "Heat Wave Advisory",
			description:   "Daytime temperatures well above seasonal normals",
			severity:      SeverityHigh,
			urgency:       "expected",
			category:      "heat",
			farmingAdvice: "Irrigate in the evening, mulch soil and shade young plants",
			validFor:      72 * time.Hour,
		},
		{
			title:         "Wind Advisory",
			description:   "Gusty dry winds may stress standing crops",
			severity:      SeverityLow,
			urgency:       "possible",
			category:      "wind",
			farmingAdvice: "Stake tall crops and postpone spraying operations",
			validFor:      24 * time.Hour,
		},
	},
	seasonWinter: {
		{
			title:         "Frost Warning",
			description:   "Night temperatures may drop near freezing in open fields",
			severity:      SeverityMedium,
			urgency:       "expected",
			category:      "frost",
			farmingAdvice: "Cover nurseries overnight and irrigate lightly before sunset",
			validFor:      24 * time.Hour,
		},
	},
	seasonPostMonsoon: {
		{
			title:         "Wind Advisory",
			description:   "Retreating monsoon winds expected through the week",
			severity:      SeverityLow,
			urgency:       "possible",
			category:      "wind",
			farmingAdvice: "Secure drying produce and check storage covers",
			validFor:      48 * time.Hour,
		},
	},
}

var seasonalTips = map[string]string{
	seasonMonsoon:     "Monsoon season: favour paddy and other water-tolerant crops, and keep drainage clear",
	seasonSummer:      "Summer season: plan irrigation ahead of sowing and prefer short-duration varieties",
	seasonWinter:      "Winter season: good window for wheat, mustard and vegetables; watch for frost",
	seasonPostMonsoon: "Post-monsoon season: residual soil moisture suits rabi sowing; test soil before fertilizing",
}

const (
	minLiveAlerts      = 2
	maxSyntheticAlerts = 3
)

// augmentAlerts tops up the live alert list with seasonal synthetic
// advisories so the caller never receives an empty panel. A generic
// seasonal farming tip alert is always appended.
func (s *Service) augmentAlerts(alerts []Alert) []Alert {
	now := s.now()
	season := seasonFor(now.Month())

	if len(alerts) < minLiveAlerts {
		added := 0
		for _, tmpl := range seasonalAlertTemplates[season] {
			if added >= maxSyntheticAlerts {
				break
			}
			if s.rng.Float64() >= 0.5 {
				continue
			}
			alerts = append(alerts, tmpl.build(now))
			added++
		}
	}

	tip := alertTemplate{
		title:         "Seasonal Farming Tip",
		description:   seasonalTips[season],
		severity:      SeverityLow,
		urgency:       "ongoing",
		category:      "advisory",
		farmingAdvice: seasonalTips[season],
		validFor:      7 * 24 * time.Hour,
	}
	return append(alerts, tip.build(now))
}

func (t alertTemplate) build(now time.Time) Alert {
	return Alert{
		ID:            newAlertID(),
		Title:         t.title,
		Description:   t.description,
		Severity:      t.severity,
		Urgency:       t.urgency,
		EffectiveAt:   now,
		ExpiresAt:     now.Add(t.validFor),
		Category:      t.category,
		FarmingAdvice: t.farmingAdvice,
		Source:        AlertSourceSynthetic,
	}
}
