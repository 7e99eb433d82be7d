package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/langcode"
	"github.com/valpere/baligh/internal/placeholder"
	"github.com/valpere/baligh/internal/postprocess"
)

const (
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	DefaultOpenRouterModel = "google/gemini-2.0-flash-exp:free"
)

var errMissingAPIKey = errors.New("OpenRouter API key not configured")

// OpenRouter translates through a hosted chat model.
type OpenRouter struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenRouter(apiKey, baseURL, model string) *OpenRouter {
	if baseURL == "" {
		baseURL = DefaultOpenRouterURL
	}
	if model == "" {
		model = DefaultOpenRouterModel
	}
	return &OpenRouter{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *OpenRouter) Name() string {
	return "openrouter"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature *float64      `json:"temperature,omitempty"`
}

func (s *OpenRouter) Translate(ctx context.Context, req internal.TranslationRequest) (string, error) {
	if s.apiKey == "" {
		return "", errMissingAPIKey
	}
	src, err := langcode.Parse(req.SourceLang)
	if err != nil {
		return "", fmt.Errorf("%w: source %s", ErrUnsupportedLanguage, req.SourceLang)
	}
	tgt, err := langcode.Parse(req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("%w: target %s", ErrUnsupportedLanguage, req.TargetLang)
	}

	shielded := placeholder.Shield(req.Text)
	chat := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(src, tgt, shielded.Len() > 0)},
			{Role: "user", Content: shielded.Text},
		},
		MaxTokens: req.MaxLength,
	}
	if req.BeamWidth > 1 {
		zero := 0.0
		chat.Temperature = &zero
	}

	body, err := json.Marshal(chat)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	httpReq.Header.Set("X-Title", "Baligh")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var chatResp struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrEmptyResult
	}

	text := postprocess.Clean(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResult
	}
	text, _ = shielded.Unshield(text)
	return text, nil
}

func (s *OpenRouter) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return errMissingAPIKey
	}
	return nil
}

func systemPrompt(src, tgt langcode.Language, markers bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are a professional translator. Translate the user's text from %s to %s.\n", src.Name, tgt.Name)
	sb.WriteString("Only respond with the translation, nothing else. No explanations, no quotes, just the translation.")
	if markers {
		sb.WriteString(" ")
		sb.WriteString(placeholder.Hint)
	}
	return sb.String()
}
