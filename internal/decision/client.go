// Package decision turns autonomous players into submissions: it asks an
// OpenAI-compatible chat completions endpoint what a bot should do, validates
// the answer against the game rules, and falls back to a random legal choice
// when the provider misbehaves. Game progress never depends on the provider.
package decision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/nightfall-games/mafia-night/internal/config"
	"github.com/nightfall-games/mafia-night/internal/constants"
)

// ChatFunc is the provider call: system prompt, user prompt, raw reply.
// The gateway depends on this instead of the HTTP client so tests can
// inject canned replies.
type ChatFunc func(system, user string) (string, error)

// Client calls an OpenAI-compatible chat completions API.
type Client struct {
	baseURL string
	model   string
	http    *http.Client
}

func NewClient(cfg config.DecisionConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.OpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = constants.OpenAIChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: timeout},
	}
}

// Complete sends one system+user exchange and returns the assistant reply.
func (c *Client) Complete(system, user string) (string, error) {
	apiKey := os.Getenv(constants.EnvOpenAIAPIKey)
	if apiKey == "" {
		return "", fmt.Errorf("%s not set", constants.EnvOpenAIAPIKey)
	}

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"max_completion_tokens": 300,
	}

	b, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, c.baseURL+constants.OpenAIChatCompletionsPath, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+apiKey)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("decision provider error: %d %s", resp.StatusCode, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty response from decision provider")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// extractJSON pulls the first {...} block out of a reply so code-fenced or
// chatty answers still parse.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
