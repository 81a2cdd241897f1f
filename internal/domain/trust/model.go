package trust

// Advice is the subset of an advisory that trust scoring inspects.
// Content is the rendered advice text shown to the farmer; the commercial
// bias check runs against it.
type Advice struct {
	Source            string
	Content           string
	Explanation       string
	Reasoning         string
	CommunityPositive float64
	LocallyTested     bool
}

// Indicator is one badge surfaced next to an advisory so a farmer can see
// at a glance why the advice is (or is not) worth trusting.
type Indicator struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Assessment is the scored outcome plus its supporting indicators.
type Assessment struct {
	Score      float64     `json:"score"`
	Level      string      `json:"level"`
	Indicators []Indicator `json:"indicators"`
}

const (
	LevelHigh     = "high"
	LevelModerate = "moderate"
	LevelLow      = "low"
)
