package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBytes = 1 << 20

// EndpointClient speaks to a self-hosted generation endpoint over plain
// HTTP JSON: {prompt, temperature, maxOutputTokens} in, {text} out.
type EndpointClient struct {
	httpClient *http.Client
	url        string
}

func NewEndpointClient(url string) *EndpointClient {
	return &EndpointClient{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		url: url,
	}
}

type endpointRequest struct {
	Prompt          string  `json:"prompt"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type endpointResponse struct {
	Text string `json:"text"`
}

func (c *EndpointClient) Generate(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(endpointRequest{
		Prompt:          req.Prompt,
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	})
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}

	var endpointResp endpointResponse
	if err := json.Unmarshal(body, &endpointResp); err != nil {
		return "", err
	}

	if endpointResp.Text == "" {
		return "", fmt.Errorf("generation endpoint returned no text")
	}

	return endpointResp.Text, nil
}
