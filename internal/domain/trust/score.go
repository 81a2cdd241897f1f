package trust

import "strings"

const baseScore = 0.5

var governmentKeywords = []string{"icar", "government", "krishi", "agriculture department", "extension"}

var scientificKeywords = []string{"research", "university", "institute", "study", "journal"}

var commercialKeywords = []string{"buy", "purchase", "brand", "company", "product"}

// Score rates a piece of advice from 0 to 1. Each signal contributes
// independently and the total is clamped at 1.
func Score(advice Advice) Assessment {
	score := baseScore

	if hasGovernmentBacking(advice) {
		score += 0.3
	}
	if hasScientificBacking(advice) {
		score += 0.2
	}
	if hasCommunityValidation(advice) {
		score += 0.2
	}
	if isTransparent(advice) {
		score += 0.1
	}
	if isIndependent(advice) {
		score += 0.1
	}
	if advice.LocallyTested {
		score += 0.1
	}
	if score > 1 {
		score = 1
	}

	return Assessment{
		Score:      score,
		Level:      levelFor(score),
		Indicators: indicatorsFor(advice),
	}
}

func levelFor(score float64) string {
	switch {
	case score >= 0.8:
		return LevelHigh
	case score >= 0.6:
		return LevelModerate
	default:
		return LevelLow
	}
}

// indicatorsFor re-evaluates each signal on its own so an advisory can show
// badges even when the aggregate score is middling.
func indicatorsFor(advice Advice) []Indicator {
	var indicators []Indicator
	if hasScientificBacking(advice) {
		indicators = append(indicators, Indicator{
			Key:         "scientific",
			Label:       "Science-Based",
			Description: "Based on agricultural research and data",
			Icon:        "🔬",
		})
	}
	if hasCommunityValidation(advice) {
		indicators = append(indicators, Indicator{
			Key:         "community",
			Label:       "Farmer Verified",
			Description: "Tested by local farming community",
			Icon:        "👥",
		})
	}
	if hasGovernmentBacking(advice) {
		indicators = append(indicators, Indicator{
			Key:         "government",
			Label:       "Government Approved",
			Description: "Endorsed by agricultural departments",
			Icon:        "🏛️",
		})
	}
	if isIndependent(advice) {
		indicators = append(indicators, Indicator{
			Key:         "independence",
			Label:       "Independent Advisory",
			Description: "Not affiliated with any product company",
			Icon:        "🔒",
		})
	}
	if isTransparent(advice) {
		indicators = append(indicators, Indicator{
			Key:         "transparent",
			Label:       "Transparent Process",
			Description: "Clear explanation of recommendations",
			Icon:        "🔍",
		})
	}
	return indicators
}

func hasGovernmentBacking(advice Advice) bool {
	return containsAny(advice.Source, governmentKeywords)
}

func hasScientificBacking(advice Advice) bool {
	return containsAny(advice.Source, scientificKeywords)
}

func hasCommunityValidation(advice Advice) bool {
	return advice.CommunityPositive > 70
}

func isTransparent(advice Advice) bool {
	return advice.Explanation != "" && advice.Reasoning != ""
}

func isIndependent(advice Advice) bool {
	return !containsAny(advice.Content, commercialKeywords)
}

func containsAny(text string, keywords []string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
