package reasoning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/agromitra/advisory-engine/internal/domain/followup"
)

// Client asks the external reasoning backend to answer follow-up questions.
// It implements followup.Backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a reasoning client. An empty baseURL yields a client that
// always errors, which pushes the follow-up service onto its rule table.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var errNotConfigured = fmt.Errorf("reasoning backend not configured")

type questionWire struct {
	Question string           `json:"question"`
	Context  followup.Context `json:"context"`
}

type answerWire struct {
	Answer     string  `json:"answer"`
	Confidence float64 `json:"confidence"`
}

// Answer posts the question together with the advisory context.
func (c *Client) Answer(ctx context.Context, question string, advisory followup.Context) (followup.BackendAnswer, error) {
	if c.baseURL == "" {
		return followup.BackendAnswer{}, errNotConfigured
	}

	payload, err := json.Marshal(questionWire{Question: question, Context: advisory})
	if err != nil {
		return followup.BackendAnswer{}, fmt.Errorf("encode question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/answer", bytes.NewReader(payload))
	if err != nil {
		return followup.BackendAnswer{}, fmt.Errorf("build question request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return followup.BackendAnswer{}, fmt.Errorf("question request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return followup.BackendAnswer{}, fmt.Errorf("question request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var raw answerWire
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return followup.BackendAnswer{}, fmt.Errorf("decode answer: %w", err)
	}
	return followup.BackendAnswer{Text: raw.Answer, Confidence: raw.Confidence}, nil
}
