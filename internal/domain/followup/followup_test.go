package followup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agromitra/advisory-engine/pkg/randx"
)

type stubBackend struct {
	reply BackendAnswer
	err   error
	calls int
}

func (s *stubBackend) Answer(_ context.Context, _ string, _ Context) (BackendAnswer, error) {
	s.calls++
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAnswerPrefersBackend(t *testing.T) {
	backend := &stubBackend{reply: BackendAnswer{Text: "use 60 kg urea per acre", Confidence: 0.93}}
	svc := NewService(backend, testLogger())

	got := svc.Answer(context.Background(), "what fertilizer for wheat?", Context{SoilType: "loamy", TopCrop: "wheat"})

	require.Equal(t, 1, backend.calls)
	require.Equal(t, "use 60 kg urea per acre", got.Text)
	require.Equal(t, "fertilizer", got.Intent)
	require.InDelta(t, 0.93, got.Confidence, 1e-9)
	require.False(t, got.Synthetic)
}

func TestAnswerFallsBackOnBackendError(t *testing.T) {
	backend := &stubBackend{err: errors.New("boom")}
	svc := NewService(backend, testLogger())

	got := svc.Answer(context.Background(), "How much water for my rice?", Context{SoilType: "clay", TopCrop: "rice"})

	require.Equal(t, "irrigation", got.Intent)
	require.True(t, got.Synthetic)
	require.Contains(t, got.Text, "rice")
	require.InDelta(t, fallbackConfidence, got.Confidence, 1e-9)
}

func TestAnswerWithoutBackendUsesRuleTable(t *testing.T) {
	svc := NewService(nil, testLogger())

	got := svc.Answer(context.Background(), "any pest problems to watch for?", Context{SoilType: "sandy", TopCrop: "cotton"})

	require.Equal(t, "disease", got.Intent)
	require.True(t, got.Synthetic)
	require.Contains(t, got.Text, "cotton")
}

func TestClassifyIntentOrdering(t *testing.T) {
	cases := map[string]string{
		"which fertilizer and how much water?": "fertilizer",
		"irrigation schedule please":           "irrigation",
		"leaf blight on my crop":               "disease",
		"when to harvest?":                     "harvest",
		"mandi price today":                    "market",
		"tell me something useful":             "general",
	}
	for question, intent := range cases {
		require.Equal(t, intent, classify(question).intent, "question %q", question)
	}
}

func TestAnswerEmptyBackendReplyFallsBack(t *testing.T) {
	backend := &stubBackend{reply: BackendAnswer{Text: "   "}}
	svc := NewService(backend, testLogger())

	got := svc.Answer(context.Background(), "when to harvest wheat?", Context{SoilType: "loamy", TopCrop: "wheat"})

	require.True(t, got.Synthetic)
	require.Equal(t, "harvest", got.Intent)
}

func TestSuggestQuestions(t *testing.T) {
	rng := randx.New(7)

	for i := 0; i < 20; i++ {
		questions := SuggestQuestions(Context{SoilType: "black", TopCrop: "cotton"}, rng)

		require.GreaterOrEqual(t, len(questions), 3)
		require.LessOrEqual(t, len(questions), 4)
		seen := map[string]bool{}
		for _, q := range questions {
			require.False(t, seen[q], "duplicate question %q", q)
			seen[q] = true
			require.True(t, strings.Contains(q, "cotton") || strings.Contains(q, "black"))
		}
	}
}

func TestSuggestQuestionsDeterministicWithSeed(t *testing.T) {
	ctx := Context{SoilType: "red", TopCrop: "maize"}

	first := SuggestQuestions(ctx, randx.New(42))
	second := SuggestQuestions(ctx, randx.New(42))

	require.Equal(t, first, second)
}
