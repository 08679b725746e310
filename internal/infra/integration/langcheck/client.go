package langcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client calls the external language-classification service. What the
// service does with the text is its business; we just carry the
// verdict and its explanation.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type classifyRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	FullName string `json:"full_name"`
}

type classifyResponse struct {
	German bool   `json:"german"`
	Reason string `json:"reason"`
}

func (c *Client) Classify(ctx context.Context, username, bio, fullName string) (bool, string, error) {
	body, err := json.Marshal(classifyRequest{Username: username, Bio: bio, FullName: fullName})
	if err != nil {
		return false, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewBuffer(body))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("langcheck request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, "", fmt.Errorf("langcheck status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, "", fmt.Errorf("langcheck decode: %w", err)
	}
	return out.German, out.Reason, nil
}
