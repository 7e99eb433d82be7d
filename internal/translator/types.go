package translator

import (
	"context"
	"errors"

	"github.com/valpere/baligh/internal"
)

var (
	// ErrUnsupportedLanguage is returned when a backend cannot handle a
	// source or target language code.
	ErrUnsupportedLanguage = errors.New("unsupported language")
	// ErrEmptyResult is returned when a backend answers without any text.
	ErrEmptyResult = errors.New("empty translation")
)

// Engine is the model inference service. Translate blocks until the model
// answers and must be safe to call from several goroutines.
type Engine interface {
	Name() string
	Translate(ctx context.Context, req internal.TranslationRequest) (string, error)
	IsAvailable(ctx context.Context) error
}
