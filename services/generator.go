package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/firedesk/asrsAI/models"
)

// Generator wraps the hosted completion capability behind an OpenAI-compatible
// chat endpoint.
type Generator struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewGenerator(baseURL, apiKey, model string) *Generator {
	return &Generator{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		Client: &http.Client{
			Timeout: 120 * time.Second, // longer timeout for generation
		},
	}
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string                  `json:"model"`
	Messages    []chatCompletionMessage `json:"messages"`
	Temperature float64                 `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatCompletionMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a system prompt, an optional context prompt, prior history
// and the user message, and returns the completion text. Transport failures
// wrap models.ErrCompletionUnavailable.
func (g *Generator) Complete(ctx context.Context, systemPrompt, contextPrompt string, history []models.ChatMessage, userMessage string) (string, error) {
	messages := make([]chatCompletionMessage, 0, len(history)+3)
	messages = append(messages, chatCompletionMessage{Role: "system", Content: systemPrompt})
	if contextPrompt != "" {
		messages = append(messages, chatCompletionMessage{Role: "system", Content: contextPrompt})
	}
	for _, m := range history {
		messages = append(messages, chatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, chatCompletionMessage{Role: "user", Content: userMessage})

	reqBody := chatCompletionRequest{
		Model:       g.Model,
		Messages:    messages,
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", g.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.APIKey)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrCompletionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: status %d: %s", models.ErrCompletionUnavailable, resp.StatusCode, string(body))
	}

	var genResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(genResp.Choices) == 0 || genResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion returned", models.ErrCompletionUnavailable)
	}

	return strings.TrimSpace(genResp.Choices[0].Message.Content), nil
}
