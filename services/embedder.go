package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/firedesk/asrsAI/models"
)

// Embedder wraps the hosted embedding capability behind an OpenAI-compatible
// endpoint. The "simple" model is a deterministic local hash-frequency
// embedding used by the evaluation harness and for keyless development.
type Embedder struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewEmbedder(baseURL, apiKey, model string) *Embedder {
	return &Embedder{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed turns text into a fixed-length vector. Transport failures wrap
// models.ErrEmbeddingUnavailable; callers must not retry internally.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.Model == "simple" {
		return e.simpleEmbedding(text), nil
	}

	reqBody := embeddingRequest{
		Model: e.Model,
		Input: text,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/embeddings", e.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.APIKey)

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", models.ErrEmbeddingUnavailable, resp.StatusCode, string(body))
	}

	var embedResp embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(embedResp.Data) == 0 || len(embedResp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", models.ErrEmbeddingUnavailable)
	}

	return embedResp.Data[0].Embedding, nil
}

// simpleEmbedding builds a normalized 128-dim word-frequency vector.
func (e *Embedder) simpleEmbedding(text string) []float32 {
	text = strings.ToLower(text)
	words := strings.Fields(text)

	embedding := make([]float32, 128)
	if len(words) == 0 {
		return embedding
	}

	wordCounts := make(map[string]int)
	for _, word := range words {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if len(word) > 0 {
			wordCounts[word]++
		}
	}

	for word, count := range wordCounts {
		hash := 0
		for _, char := range word {
			hash = hash*31 + int(char)
		}
		pos := (hash & 0x7FFFFFFF) % 128
		embedding[pos] += float32(count) / float32(len(words))
	}

	var norm float64
	for _, val := range embedding {
		norm += float64(val) * float64(val)
	}
	if norm > 0 {
		n := float32(math.Sqrt(norm))
		for i := range embedding {
			embedding[i] /= n
		}
	}

	return embedding
}

// EmbedBatch generates embeddings for multiple texts, used by ingestion.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))

	for i, text := range texts {
		embedding, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		embeddings[i] = embedding

		// small delay to avoid overwhelming the api
		if e.Model != "simple" && i < len(texts)-1 {
			time.Sleep(10 * time.Millisecond)
		}
	}

	return embeddings, nil
}
