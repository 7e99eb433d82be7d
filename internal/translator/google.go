package translator

import (
	"context"
	"fmt"
	"html"

	translate "cloud.google.com/go/translate"
	"google.golang.org/api/option"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/langcode"
)

// Google translates through the Cloud Translation API. The client is
// created once and shared by all requests.
type Google struct {
	client *translate.Client
}

// NewGoogle dials the API. credentials may be empty to use application
// default credentials.
func NewGoogle(ctx context.Context, credentials string) (*Google, error) {
	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Google{client: client}, nil
}

func (s *Google) Name() string {
	return "google"
}

func (s *Google) Translate(ctx context.Context, req internal.TranslationRequest) (string, error) {
	tgt, err := langcode.Parse(req.TargetLang)
	if err != nil {
		return "", fmt.Errorf("%w: target %s", ErrUnsupportedLanguage, req.TargetLang)
	}

	opts := &translate.Options{Format: translate.Text}
	if req.SourceLang != langcode.Auto {
		src, err := langcode.Parse(req.SourceLang)
		if err != nil {
			return "", fmt.Errorf("%w: source %s", ErrUnsupportedLanguage, req.SourceLang)
		}
		opts.Source = src.Tag()
	}

	translations, err := s.client.Translate(ctx, []string{req.Text}, tgt.Tag(), opts)
	if err != nil {
		return "", fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 || translations[0].Text == "" {
		return "", ErrEmptyResult
	}
	return html.UnescapeString(translations[0].Text), nil
}

func (s *Google) IsAvailable(ctx context.Context) error {
	_, err := s.client.SupportedLanguages(ctx, langcode.All()[0].Tag())
	return err
}

func (s *Google) Close() error {
	return s.client.Close()
}
