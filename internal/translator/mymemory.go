package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/chunker"
	"github.com/valpere/baligh/internal/langcode"
)

const (
	myMemoryURL = "https://api.mymemory.translated.net/get"

	// The API rejects queries longer than this many bytes.
	myMemoryMaxQuery = 500
)

type MyMemory struct {
	endpoint string
	email    string
	client   *http.Client
}

func NewMyMemory(email string) *MyMemory {
	return &MyMemory{
		endpoint: myMemoryURL,
		email:    email,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemory) Name() string {
	return "mymemory"
}

func (s *MyMemory) Translate(ctx context.Context, req internal.TranslationRequest) (string, error) {
	src, err := langcode.Parse(req.SourceLang)
	if err != nil {
		return "", fmt.Errorf("%w: source %s", ErrUnsupportedLanguage, req.SourceLang)
	}
	tgt, err := langcode.Parse(req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("%w: target %s", ErrUnsupportedLanguage, req.TargetLang)
	}

	langpair := src.ISO + "|" + tgt.ISO
	pieces := chunker.Split(req.Text, myMemoryMaxQuery)
	translated := make([]string, 0, len(pieces))
	for _, p := range pieces {
		text, err := s.query(ctx, p.Text, langpair)
		if err != nil {
			return "", err
		}
		translated = append(translated, text)
	}
	if len(translated) == 0 {
		return "", ErrEmptyResult
	}
	return chunker.Join(translated, pieces), nil
}

func (s *MyMemory) query(ctx context.Context, text, langpair string) (string, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", langpair)
	if s.email != "" {
		q.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("mymemory request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if body.ResponseStatus != http.StatusOK {
		return "", fmt.Errorf("mymemory error: %s (%d)", body.ResponseDetails, body.ResponseStatus)
	}
	if body.ResponseData.TranslatedText == "" {
		return "", ErrEmptyResult
	}
	return body.ResponseData.TranslatedText, nil
}

func (s *MyMemory) IsAvailable(ctx context.Context) error {
	return nil
}
