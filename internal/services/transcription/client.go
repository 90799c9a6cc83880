package transcription

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

// HTTPClient talks to an external transcription service
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient creates a transcription client. The timeout bounds a
// single request, not the whole transcription job.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type submitRequest struct {
	StorageKey string `json:"storage_key"`
}

type submitResponse struct {
	JobID string `json:"job_id"`
}

type segmentDTO struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type pollResponse struct {
	Status   string       `json:"status"`
	Segments []segmentDTO `json:"segments,omitempty"`
	Language string       `json:"language,omitempty"`
	Duration float64      `json:"duration,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// Submit starts a transcription job for the stored asset
func (c *HTTPClient) Submit(ctx context.Context, storageKey string) (JobHandle, error) {
	body, err := json.Marshal(submitRequest{StorageKey: storageKey})
	if err != nil {
		return "", fmt.Errorf("marshaling submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcriptions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode, string(data))
	}

	var sr submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("decoding submit response: %w", err)
	}
	if sr.JobID == "" {
		return "", fmt.Errorf("transcription service returned empty job id")
	}

	return JobHandle(sr.JobID), nil
}

// Poll fetches the current state of a transcription job
func (c *HTTPClient) Poll(ctx context.Context, handle JobHandle) (*PollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/transcriptions/"+string(handle), nil)
	if err != nil {
		return nil, fmt.Errorf("creating poll request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling transcription: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("transcription service returned status %d: %s", resp.StatusCode, string(data))
	}

	var pr pollResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decoding poll response: %w", err)
	}

	result := &PollResult{
		Language: pr.Language,
		Duration: pr.Duration,
		Error:    pr.Error,
	}

	switch PollStatus(pr.Status) {
	case StatusPending, StatusDone, StatusFailed:
		result.Status = PollStatus(pr.Status)
	default:
		return nil, fmt.Errorf("transcription service returned unknown status %q", pr.Status)
	}

	if result.Status == StatusDone {
		result.Segments = make([]models.TranscriptSegment, 0, len(pr.Segments))
		for _, s := range pr.Segments {
			result.Segments = append(result.Segments, models.TranscriptSegment{
				Start:      s.Start,
				End:        s.End,
				Text:       s.Text,
				Confidence: s.Confidence,
			})
		}
	}

	return result, nil
}
