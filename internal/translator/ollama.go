package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/langcode"
	"github.com/valpere/baligh/internal/placeholder"
	"github.com/valpere/baligh/internal/postprocess"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
)

// Ollama runs translations on a locally served model.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllama(baseURL, model string) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *Ollama) Name() string {
	return "ollama"
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

func (s *Ollama) Translate(ctx context.Context, req internal.TranslationRequest) (string, error) {
	src, err := langcode.Parse(req.SourceLang)
	if err != nil {
		return "", fmt.Errorf("%w: source %s", ErrUnsupportedLanguage, req.SourceLang)
	}
	tgt, err := langcode.Parse(req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("%w: target %s", ErrUnsupportedLanguage, req.TargetLang)
	}

	shielded := placeholder.Shield(req.Text)
	instructions := "Only respond with the translation, nothing else."
	if shielded.Len() > 0 {
		instructions += " " + placeholder.Hint
	}

	prompt := fmt.Sprintf(`Translate the following text from %s to %s.
%s

Text: "%s"

Translation:`, src.Name, tgt.Name, instructions, shielded.Text)

	// Greedy decoding for beam width 1; a wider beam asks for the most
	// deterministic output the server can give.
	options := map[string]any{"num_predict": req.MaxLength}
	if req.BeamWidth > 1 {
		options["temperature"] = 0
		options["top_k"] = req.BeamWidth
	}

	body, err := json.Marshal(ollamaRequest{
		Model:   s.model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := postprocess.Clean(ollamaResp.Response)
	if text == "" {
		return "", ErrEmptyResult
	}
	// Markers the model dropped are lost; the rest of the translation is
	// still usable.
	text, _ = shielded.Unshield(text)
	return text, nil
}

func (s *Ollama) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
