package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ChatPayload is the body posted to the chat webhook. UserRole is always
// re-derived server side before a send, never taken from the caller.
type ChatPayload struct {
	SessionId        string `json:"session_id"`
	Message          string `json:"message"`
	UserId           string `json:"user_id"`
	UserRole         string `json:"user_role"`
	PolicyDocumentId string `json:"policy_document_id"`
	Timestamp        string `json:"timestamp"`
}

// ProcessDocumentPayload notifies the workflow that a source is ready
// for ingestion. FileURL is set for uploaded files, SourceURL for link
// sources and Content for pasted text.
type ProcessDocumentPayload struct {
	SourceId         string `json:"source_id"`
	PolicyDocumentId string `json:"policy_document_id"`
	SourceType       string `json:"source_type"`
	FileURL          string `json:"file_url,omitempty"`
	SourceURL        string `json:"source_url,omitempty"`
	Content          string `json:"content,omitempty"`
	MimeType         string `json:"mime_type,omitempty"`
	Title            string `json:"title"`
}

// GenerationPayload asks the workflow to build document-level artifacts
// once the first source of a policy document completes.
type GenerationPayload struct {
	PolicyDocumentId string `json:"policy_document_id"`
}

type Client struct {
	httpClient *http.Client
	authHeader string
}

func NewClient(authHeader string, timeoutSeconds int) *Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	return &Client{
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		authHeader: authHeader,
	}
}

// Post sends payload to url and returns the raw response body.
func (c *Client) Post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("webhook url not configured")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("webhook error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	return bodyBytes, nil
}
