package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/clipforge/clipforge-api/internal/models"
)

// HTTPClient calls an external impact scoring service
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a scoring client with the given timeout
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type scoreRequest struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds"`
}

type scoreResponse struct {
	ImpactType string `json:"impact_type"`
	Confidence int    `json:"confidence"`
	Reason     string `json:"reason"`
}

// Score submits candidate text for impact assessment and validates the
// response. A malformed response (unknown impact type, confidence outside
// [0,100], or empty reason) is reported as an error so callers retry it
// like a transport failure rather than accepting a silent default.
func (c *HTTPClient) Score(ctx context.Context, text string, durationSeconds float64) (*Assessment, error) {
	body, err := json.Marshal(scoreRequest{
		Text:            text,
		DurationSeconds: durationSeconds,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling score request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/impact", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling scoring service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, string(data))
	}

	var sr scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decoding score response: %w", err)
	}

	assessment := Assessment{
		ImpactType: models.ImpactType(sr.ImpactType),
		Confidence: sr.Confidence,
		Rationale:  strings.TrimSpace(sr.Reason),
	}
	if err := validate(assessment); err != nil {
		return nil, fmt.Errorf("malformed score response: %w", err)
	}

	return &assessment, nil
}

func validate(a Assessment) error {
	if !a.ImpactType.Valid() {
		return fmt.Errorf("unknown impact type %q", a.ImpactType)
	}
	if a.Confidence < 0 || a.Confidence > 100 {
		return fmt.Errorf("confidence %d outside [0,100]", a.Confidence)
	}
	if a.Rationale == "" {
		return fmt.Errorf("missing rationale")
	}
	return nil
}
