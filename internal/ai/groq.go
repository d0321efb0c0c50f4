package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

const defaultGroqURL = "https://api.groq.com/openai/v1/chat/completions"

type groqClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGroqClient creates a Groq chat-completions client
func NewGroqClient(apiKey string) Client {
	return &groqClient{
		apiKey:     apiKey,
		model:      "llama-3.3-70b-versatile",
		baseURL:    defaultGroqURL,
		httpClient: &http.Client{},
	}
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []groqMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *groqClient) GenerateCoverLetter(ctx context.Context, profile *models.Profile, jobURL, platformTag string) (string, error) {
	reqBody := groqRequest{
		Model: c.model,
		Messages: []groqMessage{
			{Role: "system", Content: buildSystemPrompt()},
			{Role: "user", Content: buildUserPrompt(profile, jobURL, platformTag)},
		},
		Temperature: 0.4,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal groq request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var groqResp groqResponse
	if err := json.Unmarshal(bodyBytes, &groqResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if groqResp.Error != nil {
		return "", fmt.Errorf("API error: %s", groqResp.Error.Message)
	}
	if len(groqResp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from groq API")
	}

	return cleanMarkdown(groqResp.Choices[0].Message.Content), nil
}

// cleanMarkdown removes backtick fences if the model tries to be helpful
func cleanMarkdown(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}
