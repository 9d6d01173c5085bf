package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	groqChatCompletionsURL = "https://api.groq.com/openai/v1/chat/completions"

	chatModelName       = "llama3-8b-8192"
	chatTemperature     = 0.7
	chatMaxTokens       = 100
	chatSystemPrompt    = "You are a knowledgeable AI yoga instructor. you have to only give response to yoga related question"
	providerHTTPTimeout = 30 * time.Second
)

// ChatMessage mirrors the OpenAI-compatible message shape.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatProvider is the remote chat-completion dependency of the chat service.
type ChatProvider interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// GroqClient calls Groq's OpenAI-compatible chat-completions endpoint.
type GroqClient struct {
	apiKey string
	url    string
	client *http.Client
}

func NewGroqClient(apiKey string) *GroqClient {
	return &GroqClient{
		apiKey: apiKey,
		url:    groqChatCompletionsURL,
		client: &http.Client{Timeout: providerHTTPTimeout},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends the message list and returns the assistant reply. The
// request runs once; no retries.
func (g *GroqClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       chatModelName,
		Messages:    messages,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("response contained no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
