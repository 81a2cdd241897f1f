package followup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agromitra/advisory-engine/pkg/randx"
)

// Context is what the answer templates and the backend know about the
// advisory the question refers to.
type Context struct {
	SoilType string `json:"soilType"`
	TopCrop  string `json:"topCrop"`
}

// BackendAnswer is a reply produced by the reasoning backend.
type BackendAnswer struct {
	Text       string
	Confidence float64
}

// Backend answers free-form questions with the advisory context attached.
type Backend interface {
	Answer(ctx context.Context, question string, advisory Context) (BackendAnswer, error)
}

// Answer is what a farmer gets back for a follow-up question.
type Answer struct {
	Text       string  `json:"text"`
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Synthetic  bool    `json:"isSynthetic"`
}

const fallbackConfidence = 0.8

// rule maps question keywords to an intent and a templated answer. Rules are
// checked in order and the first keyword hit wins, so more specific intents
// must come before broader ones.
type rule struct {
	intent   string
	keywords []string
	render   func(Context) string
}

var intentRules = []rule{
	{
		intent:   "fertilizer",
		keywords: []string{"fertilizer", "fertiliser", "nutrient", "urea", "npk"},
		render: func(c Context) string {
			return fmt.Sprintf("For %s in %s soil, apply a balanced NPK fertilizer before sowing, then split nitrogen into two or three top dressings during the growing period. Get a soil test done through your local Krishi Vigyan Kendra to fine-tune the doses.", c.TopCrop, c.SoilType)
		},
	},
	{
		intent:   "irrigation",
		keywords: []string{"water", "irrigat"},
		render: func(c Context) string {
			return fmt.Sprintf("In %s soil, %s usually needs irrigation every 7 to 10 days depending on the weather. Check soil moisture at a hand's depth before watering, and prefer early morning irrigation to reduce evaporation losses.", c.SoilType, c.TopCrop)
		},
	},
	{
		intent:   "disease",
		keywords: []string{"disease", "pest", "insect", "fungus", "blight"},
		render: func(c Context) string {
			return fmt.Sprintf("Inspect your %s crop weekly for leaf spots, discoloration and insect damage. Remove affected plants early, keep the field weed-free, and use neem-based sprays first. If the problem spreads, consult your local agriculture extension officer before using chemical pesticides.", c.TopCrop)
		},
	},
	{
		intent:   "harvest",
		keywords: []string{"harvest", "yield", "maturity"},
		render: func(c Context) string {
			return fmt.Sprintf("Harvest %s when the crop shows clear maturity signs such as color change and drying of lower leaves. Harvest in dry weather, dry the produce properly before storage, and store in a ventilated place to avoid fungal damage.", c.TopCrop)
		},
	},
	{
		intent:   "market",
		keywords: []string{"market", "price", "sell", "mandi"},
		render: func(c Context) string {
			return fmt.Sprintf("Check current %s prices at your nearest mandi and on the eNAM portal before selling. Prices are usually better just after the peak arrival period, so if you can store safely, waiting a few weeks often pays off.", c.TopCrop)
		},
	},
}

var generalRule = rule{
	intent: "general",
	render: func(c Context) string {
		return fmt.Sprintf("Based on your %s soil and the recommendation to grow %s, follow the suggested crop calendar, keep monitoring weather updates, and reach out to your local Krishi Vigyan Kendra for hands-on guidance specific to your village.", c.SoilType, c.TopCrop)
	},
}

// classify finds the first rule whose keywords appear in the question.
func classify(question string) rule {
	lowered := strings.ToLower(question)
	for _, r := range intentRules {
		for _, kw := range r.keywords {
			if strings.Contains(lowered, kw) {
				return r
			}
		}
	}
	return generalRule
}

// Service answers follow-up questions, preferring the reasoning backend and
// falling back to the local rule table when it is absent or failing.
type Service struct {
	backend Backend
	logger  *slog.Logger
}

// NewService builds a follow-up service. backend may be nil, in which case
// every answer comes from the rule table.
func NewService(backend Backend, logger *slog.Logger) *Service {
	return &Service{backend: backend, logger: logger.With("component", "followup.service")}
}

// Answer resolves one follow-up question against an advisory context.
func (s *Service) Answer(ctx context.Context, question string, advisory Context) Answer {
	matched := classify(question)

	if s.backend != nil {
		reply, err := s.backend.Answer(ctx, question, advisory)
		if err == nil && strings.TrimSpace(reply.Text) != "" {
			confidence := reply.Confidence
			if confidence <= 0 {
				confidence = fallbackConfidence
			}
			return Answer{
				Text:       reply.Text,
				Intent:     matched.intent,
				Confidence: confidence,
				Synthetic:  false,
			}
		}
		if err != nil {
			s.logger.Warn("reasoning backend failed, using rule table", "error", err, "intent", matched.intent)
		}
	}

	return Answer{
		Text:       matched.render(advisory),
		Intent:     matched.intent,
		Confidence: fallbackConfidence,
		Synthetic:  true,
	}
}

var questionTemplates = []string{
	"What fertilizer should I use for %s?",
	"How often should I water my %s crop?",
	"How do I protect %s from pests and diseases?",
	"When is the best time to harvest %s?",
	"What is the market price trend for %s?",
	"Which crop should I grow after %s?",
	"How can I improve my %s soil for the next season?",
}

// SuggestQuestions samples 3 or 4 ready-made follow-up questions so the
// farmer has something to tap on.
func SuggestQuestions(advisory Context, rng randx.Source) []string {
	count := 3 + rng.Intn(2)
	order := rng.Perm(len(questionTemplates))

	questions := make([]string, 0, count)
	for _, idx := range order[:count] {
		tmpl := questionTemplates[idx]
		subject := advisory.TopCrop
		if strings.Contains(tmpl, "soil") {
			subject = advisory.SoilType
		}
		questions = append(questions, fmt.Sprintf(tmpl, subject))
	}
	return questions
}
