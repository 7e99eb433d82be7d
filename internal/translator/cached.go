package translator

import (
	"context"

	"go.uber.org/zap"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/store"
)

// Memory is the translation memory consulted by Cached. *store.Store
// satisfies it.
type Memory interface {
	GetCachedTranslation(ctx context.Context, key store.Key) (string, bool, error)
	SaveToMemory(ctx context.Context, key store.Key, finalText string) error
}

// Checker rejects translations that should not be remembered.
type Checker interface {
	Check(text, targetLang string) error
}

// Cached serves repeated texts from the translation memory and records
// every fresh translation. Memory failures are logged and never fail the
// request.
type Cached struct {
	inner   Engine
	memory  Memory
	checker Checker
	logger  *zap.SugaredLogger
}

func NewCached(inner Engine, memory Memory, logger *zap.SugaredLogger) *Cached {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Cached{inner: inner, memory: memory, logger: logger}
}

// WithChecker makes c skip saving translations that checker rejects. They
// are still returned to the caller.
func (c *Cached) WithChecker(checker Checker) *Cached {
	c.checker = checker
	return c
}

func (c *Cached) Name() string {
	return c.inner.Name()
}

func (c *Cached) Translate(ctx context.Context, req internal.TranslationRequest) (string, error) {
	key := store.Key{
		SourceText: req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Engine:     c.inner.Name(),
		MaxLength:  req.MaxLength,
		NumBeams:   req.BeamWidth,
	}
	cached, found, err := c.memory.GetCachedTranslation(ctx, key)
	switch {
	case err != nil:
		c.logger.Warnw("Translation memory lookup failed", "error", err)
	case found:
		c.logger.Debugw("Translation memory hit", "seq", req.Seq, "target", req.TargetLang)
		return cached, nil
	}

	text, err := c.inner.Translate(ctx, req)
	if err != nil {
		return "", err
	}

	if c.checker != nil {
		if err := c.checker.Check(text, req.TargetLang); err != nil {
			c.logger.Infow("Translation not remembered", "seq", req.Seq, "reason", err)
			return text, nil
		}
	}

	// Calls the caller stopped waiting for are still remembered.
	if err := c.memory.SaveToMemory(context.WithoutCancel(ctx), key, text); err != nil {
		if ctx.Err() != nil {
			// The memory may already be closed during shutdown.
			c.logger.Debugw("Translation memory not saved for abandoned call", "seq", req.Seq, "error", err)
		} else {
			c.logger.Warnw("Failed to save translation memory", "error", err)
		}
	}
	return text, nil
}

func (c *Cached) IsAvailable(ctx context.Context) error {
	return c.inner.IsAvailable(ctx)
}
