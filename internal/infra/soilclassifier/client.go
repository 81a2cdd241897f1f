package soilclassifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agromitra/advisory-engine/internal/domain/agronomy"
	"github.com/agromitra/advisory-engine/internal/domain/weather"
)

const defaultBaseURL = "http://localhost:5001/api"

// Client calls the external ML soil classification backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a classifier client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify implements agronomy.Classifier.
func (c *Client) Classify(ctx context.Context, req agronomy.ClassifyRequest) (agronomy.ClassifyResult, error) {
	payload, err := json.Marshal(classifyWire{
		ImageData:      encodeImage(req.Image, req.MimeType),
		Location:       req.Coordinates,
		AdditionalInfo: req.Context,
	})
	if err != nil {
		return agronomy.ClassifyResult{}, fmt.Errorf("encode classify request: %w", err)
	}

	endpoint := c.baseURL + "/crop-advisory"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return agronomy.ClassifyResult{}, fmt.Errorf("build classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return agronomy.ClassifyResult{}, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return agronomy.ClassifyResult{}, fmt.Errorf("classify request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var raw resultWire
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return agronomy.ClassifyResult{}, fmt.Errorf("decode classify response: %w", err)
	}
	return raw.toDomain(), nil
}

func encodeImage(data []byte, mimeType string) string {
	if len(data) == 0 {
		return ""
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

type classifyWire struct {
	ImageData      string                   `json:"imageData"`
	Location       weather.Coordinates      `json:"location"`
	AdditionalInfo agronomy.ClassifyContext `json:"additionalInfo"`
}

type soilWire struct {
	SoilType        string      `json:"soil_type"`
	PHLevel         json.Number `json:"ph_level"`
	OrganicMatter   json.Number `json:"organic_matter"`
	NitrogenLevel   string      `json:"nitrogen_level"`
	PhosphorusLevel string      `json:"phosphorus_level"`
	PotassiumLevel  string      `json:"potassium_level"`
	MoistureContent json.Number `json:"moisture_content"`
	Drainage        string      `json:"drainage"`
	Confidence      float64     `json:"confidence"`
}

type recommendationWire struct {
	CropName         string      `json:"crop_name"`
	SuitabilityScore json.Number `json:"suitability_score"`
	ExpectedYield    string      `json:"expected_yield"`
	GrowingPeriod    string      `json:"growing_period"`
	WaterRequirement string      `json:"water_requirement"`
	MarketPriceTrend string      `json:"market_price_trend"`
	Season           string      `json:"season"`
	Benefits         []string    `json:"benefits"`
	Challenges       []string    `json:"challenges"`
	Investment       string      `json:"investment_required"`
}

type tipWire struct {
	Category       string `json:"category"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

type resultWire struct {
	SoilAnalysis        *soilWire            `json:"soil_analysis"`
	CropRecommendations []recommendationWire `json:"crop_recommendations"`
	FarmingTips         []tipWire            `json:"farming_tips"`
	ConfidenceScore     float64              `json:"confidence_score"`
}

func (w resultWire) toDomain() agronomy.ClassifyResult {
	result := agronomy.ClassifyResult{Confidence: w.ConfidenceScore}
	if w.SoilAnalysis != nil {
		result.Soil = agronomy.SoilProfile{
			SoilType:           w.SoilAnalysis.SoilType,
			PHLevel:            toFloat(w.SoilAnalysis.PHLevel),
			OrganicMatterPct:   toFloat(w.SoilAnalysis.OrganicMatter),
			NitrogenLevel:      w.SoilAnalysis.NitrogenLevel,
			PhosphorusLevel:    w.SoilAnalysis.PhosphorusLevel,
			PotassiumLevel:     w.SoilAnalysis.PotassiumLevel,
			MoistureContentPct: toFloat(w.SoilAnalysis.MoistureContent),
			Drainage:           w.SoilAnalysis.Drainage,
			Confidence:         w.SoilAnalysis.Confidence,
		}
	}
	for _, rec := range w.CropRecommendations {
		result.Recommendations = append(result.Recommendations, agronomy.CropRecommendation{
			CropName:          rec.CropName,
			SuitabilityScore:  toFloat(rec.SuitabilityScore),
			ExpectedYieldNote: rec.ExpectedYield,
			GrowingPeriodDays: parseDays(rec.GrowingPeriod),
			WaterRequirement:  rec.WaterRequirement,
			MarketPriceTrend:  rec.MarketPriceTrend,
			Season:            rec.Season,
			Benefits:          rec.Benefits,
			Challenges:        rec.Challenges,
			InvestmentLevel:   rec.Investment,
		})
	}
	for _, tip := range w.FarmingTips {
		result.Tips = append(result.Tips, agronomy.FarmingTip(tip))
	}
	return result
}

func toFloat(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

// parseDays extracts the leading integer from values like "120 days".
func parseDays(raw string) int {
	fields := strings.Fields(strings.TrimSpace(raw))
	if len(fields) == 0 {
		return 0
	}
	if v, err := strconv.ParseFloat(fields[0], 64); err == nil {
		return int(v)
	}
	return 0
}
