// Package coordinator turns translation submissions into background model
// calls and makes sure only the most recent submission's outcome reaches
// the presenter.
//
// Every Submit takes the next sequence number and immediately reports
// OnTranslationStarted. The model call runs on its own goroutine. When it
// returns, its outcome is delivered only if no newer Submit happened in the
// meantime; otherwise it is dropped. Stale calls already inside the model
// are left to finish, since the model cannot be interrupted.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/translator"
)

const (
	DefaultTimeout     = 60 * time.Second
	DefaultMaxInFlight = 1
)

var (
	ErrInvalidRequest = errors.New("invalid translation request")
	ErrTimeout        = errors.New("translation timed out")
	ErrClosed         = errors.New("coordinator closed")
	ErrInference      = errors.New("inference failed")

	errSuperseded = errors.New("superseded before inference started")
)

// Presenter receives the coordinator's notifications. Calls are made while
// the coordinator lock is held, so implementations must not call back into
// the Coordinator synchronously.
type Presenter interface {
	OnTranslationStarted(req internal.TranslationRequest)
	OnTranslationResult(seq uint64, text string)
	OnTranslationFailed(seq uint64, err error)
}

type Option func(*Coordinator)

// WithTimeout bounds the time a request may spend waiting for a model slot
// plus running inference. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

// WithMaxInFlight sets how many model calls may run at once. The default of
// one serializes all calls into the model.
func WithMaxInFlight(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.maxInFlight = n
		}
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Stats counts what happened to submitted requests.
type Stats struct {
	Submitted uint64
	Delivered uint64
	Failed    uint64
	Dropped   uint64
}

type Coordinator struct {
	engine    translator.Engine
	presenter Presenter
	logger    *zap.SugaredLogger

	timeout     time.Duration
	maxInFlight int
	slots       *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	latest uint64
	closed bool

	submitted atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

func New(engine translator.Engine, presenter Presenter, opts ...Option) *Coordinator {
	c := &Coordinator{
		engine:      engine,
		presenter:   presenter,
		logger:      zap.NewNop().Sugar(),
		timeout:     DefaultTimeout,
		maxInFlight: DefaultMaxInFlight,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.slots = semaphore.NewWeighted(int64(c.maxInFlight))
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Submit validates and registers a request, notifies the presenter that a
// translation started, and dispatches the model call in the background.
// It returns the request's sequence number.
func (c *Coordinator) Submit(text, sourceLang, targetLang string, maxLength, beamWidth int) (uint64, error) {
	req := internal.TranslationRequest{
		Text:        text,
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
		MaxLength:   maxLength,
		BeamWidth:   beamWidth,
		SubmittedAt: time.Now(),
	}
	if err := req.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return 0, ErrClosed
	}
	c.latest++
	req.Seq = c.latest
	c.wg.Add(1)
	c.presenter.OnTranslationStarted(req)
	c.mu.Unlock()

	c.submitted.Add(1)
	c.logger.Debugw("Translation submitted", "seq", req.Seq, "source", req.SourceLang, "target", req.TargetLang, "chars", len([]rune(req.Text)))

	go c.run(req)
	return req.Seq, nil
}

// Latest returns the most recently assigned sequence number.
func (c *Coordinator) Latest() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latest
}

func (c *Coordinator) Stats() Stats {
	return Stats{
		Submitted: c.submitted.Load(),
		Delivered: c.delivered.Load(),
		Failed:    c.failed.Load(),
		Dropped:   c.dropped.Load(),
	}
}

// Close stops accepting requests, cancels the context handed to the model,
// and waits until every submitted request has been resolved.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

func (c *Coordinator) run(req internal.TranslationRequest) {
	defer c.wg.Done()

	start := time.Now()
	text, err := c.infer(req)
	c.complete(internal.TranslationResult{
		Seq:            req.Seq,
		TranslatedText: text,
		Err:            err,
		Latency:        time.Since(start),
	})
}

type outcome struct {
	text string
	err  error
}

func (c *Coordinator) infer(req internal.TranslationRequest) (string, error) {
	ctx := c.ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.slots.Acquire(ctx, 1); err != nil {
		return "", c.contextError(ctx)
	}
	if c.isStale(req.Seq) {
		c.slots.Release(1)
		return "", errSuperseded
	}

	// The slot is held until the model returns, even if this request times
	// out first, so the concurrency limit covers calls nobody waits for.
	done := make(chan outcome, 1)
	go func() {
		defer c.slots.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: panic: %v", ErrInference, r)}
			}
		}()
		text, err := c.engine.Translate(ctx, req)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrInference, err)
		}
		done <- outcome{text: text, err: err}
	}()

	select {
	case o := <-done:
		return o.text, o.err
	case <-ctx.Done():
		return "", c.contextError(ctx)
	}
}

func (c *Coordinator) contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
	}
	return ErrClosed
}

func (c *Coordinator) isStale(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq != c.latest
}

// complete runs exactly once per submitted request.
func (c *Coordinator) complete(res internal.TranslationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if res.Seq != c.latest {
		c.dropped.Add(1)
		c.logger.Debugw("Dropping stale translation", "seq", res.Seq, "latest", c.latest, "latency", res.Latency.String())
		return
	}

	if res.Err != nil {
		c.failed.Add(1)
		c.logger.Warnw("Translation failed", "seq", res.Seq, "error", res.Err, "latency", res.Latency.String())
		c.presenter.OnTranslationFailed(res.Seq, res.Err)
		return
	}

	c.delivered.Add(1)
	c.logger.Infow("Translation delivered", "seq", res.Seq, "latency", res.Latency.String())
	c.presenter.OnTranslationResult(res.Seq, res.TranslatedText)
}
