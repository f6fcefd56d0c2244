// Package embedding provides the HTTP client for the embedding
// collaborator: an out-of-process service that turns text into
// fixed-dimension vectors.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 10 * time.Second

// embedRequest is the request body for POST /embed.
type embedRequest struct {
	Texts []string `json:"texts"`
}

// embedItem is one entry of the /embed response. Embedding is null when
// the service failed to embed that item.
type embedItem struct {
	Embedding []float64 `json:"embedding"`
}

// embedResponse is the response body for POST /embed. The embeddings list
// is required to be the same length as the request texts.
type embedResponse struct {
	Embeddings []embedItem `json:"embeddings"`
	Model      string      `json:"model,omitempty"`
}

// healthResponse is the JSON shape returned by GET /health.
type healthResponse struct {
	ModelVersion string `json:"model_version"`
	Dimension    int    `json:"dimension"`
}

// doEmbed sends POST /embed to baseURL and returns the per-item vectors,
// nil entries included.
func doEmbed(ctx context.Context, httpClient *http.Client, baseURL string, texts []string) ([][]float64, error) {
	body, err := json.Marshal(&embedRequest{Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned %d", resp.StatusCode)
	}

	var decoded embedResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&decoded); decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if len(decoded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding service returned %d items for %d texts",
			len(decoded.Embeddings), len(texts))
	}

	vectors := make([][]float64, len(decoded.Embeddings))
	for i, item := range decoded.Embeddings {
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// doHealth calls GET /health at baseURL and returns reachability, latency,
// and the reported model version.
func doHealth(ctx context.Context, httpClient *http.Client, baseURL string) (reachable bool, latencyMs int64, modelVersion string, err error) {
	start := time.Now()

	httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", http.NoBody)
	if reqErr != nil {
		return false, 0, "", fmt.Errorf("create request: %w", reqErr)
	}

	resp, doErr := httpClient.Do(httpReq)
	latencyMs = time.Since(start).Milliseconds()
	if doErr != nil {
		return false, latencyMs, "", fmt.Errorf("service unreachable: %w", doErr)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, latencyMs, "", fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}

	reachable = true
	var healthResp healthResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&healthResp); decodeErr == nil {
		modelVersion = healthResp.ModelVersion
	}
	return reachable, latencyMs, modelVersion, nil
}
