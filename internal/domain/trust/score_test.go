package trust

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScoreBaseline(t *testing.T) {
	got := Score(Advice{Content: "buy our premium brand mix"})

	require.InDelta(t, 0.5, got.Score, 1e-9)
	require.Equal(t, LevelLow, got.Level)
	require.Empty(t, got.Indicators)
}

func TestScoreGovernmentSource(t *testing.T) {
	got := Score(Advice{Source: "ICAR regional bulletin"})

	// base + government + independence
	require.InDelta(t, 0.9, got.Score, 1e-9)
	require.Equal(t, LevelHigh, got.Level)
}

func TestScoreClampsAtOne(t *testing.T) {
	got := Score(Advice{
		Source:            "ICAR and university research study",
		Explanation:       "soil nitrogen is depleted",
		Reasoning:         "three seasons of continuous paddy",
		CommunityPositive: 85,
		LocallyTested:     true,
	})

	require.Equal(t, 1.0, got.Score)
	require.Equal(t, LevelHigh, got.Level)
}

func TestScoreCommunityBoundary(t *testing.T) {
	at := Score(Advice{Content: "buy brand", CommunityPositive: 70})
	above := Score(Advice{Content: "buy brand", CommunityPositive: 71})

	require.InDelta(t, 0.5, at.Score, 1e-9)
	require.InDelta(t, 0.7, above.Score, 1e-9)
}

func TestScoreTransparencyNeedsBoth(t *testing.T) {
	onlyExplanation := Score(Advice{Content: "buy brand", Explanation: "because"})
	both := Score(Advice{Content: "buy brand", Explanation: "because", Reasoning: "field trial"})

	require.InDelta(t, 0.5, onlyExplanation.Score, 1e-9)
	require.InDelta(t, 0.6, both.Score, 1e-9)
	require.Equal(t, LevelModerate, both.Level)
}

func TestIndicatorsAssembledIndependently(t *testing.T) {
	got := Score(Advice{
		Source:            "Krishi Vigyan Kendra extension study",
		Explanation:       "split nitrogen doses",
		Reasoning:         "reduces leaching in sandy soil",
		CommunityPositive: 90,
	})

	keys := make([]string, 0, len(got.Indicators))
	for _, ind := range got.Indicators {
		require.NotEmpty(t, ind.Label)
		require.NotEmpty(t, ind.Description)
		require.NotEmpty(t, ind.Icon)
		keys = append(keys, ind.Key)
	}
	require.ElementsMatch(t, []string{"scientific", "community", "government", "independence", "transparent"}, keys)
}

func TestIndependenceChecksAdviceContent(t *testing.T) {
	biased := Score(Advice{Content: "purchase the premium mix"})
	for _, ind := range biased.Indicators {
		require.NotEqual(t, "independence", ind.Key)
	}

	// Commercial wording outside the advice text itself is ignored.
	clean := Score(Advice{Source: "seed company catalogue", Content: "mulch the beds before sowing"})
	keys := make([]string, 0, len(clean.Indicators))
	for _, ind := range clean.Indicators {
		keys = append(keys, ind.Key)
	}
	require.Contains(t, keys, "independence")
}
