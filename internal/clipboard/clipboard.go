// Package clipboard watches the system clipboard for newly copied text.
package clipboard

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

const (
	DefaultInterval  = 300 * time.Millisecond
	DefaultMinLength = 3
)

// Reader reads textual data from a clipboard.
type Reader interface {
	ReadText() (string, error)
}

// System implements Reader using github.com/atotto/clipboard.
type System struct{}

func NewSystem() *System {
	return &System{}
}

// ReadText returns the current clipboard contents.
func (s *System) ReadText() (string, error) {
	return clipboard.ReadAll()
}

var _ Reader = (*System)(nil)

type Option func(*Watcher)

// WithInterval sets the polling interval. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithMinLength sets the minimum number of characters a text must have to be
// emitted. Values below 1 are ignored.
func WithMinLength(n int) Option {
	return func(w *Watcher) {
		if n > 0 {
			w.minLength = n
		}
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher detects new clipboard text by polling a Reader. It does not run a
// loop of its own: the owner calls Poll every Interval.
type Watcher struct {
	reader    Reader
	logger    *zap.SugaredLogger
	interval  time.Duration
	minLength int

	mu          sync.Mutex
	enabled     bool
	lastEmitted string
	failing     bool
}

// NewWatcher returns an enabled watcher.
func NewWatcher(reader Reader, opts ...Option) *Watcher {
	w := &Watcher{
		reader:    reader,
		logger:    zap.NewNop().Sugar(),
		interval:  DefaultInterval,
		minLength: DefaultMinLength,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Poll reads the clipboard once and returns the trimmed text if it is new:
// non-empty, different from the previously emitted text and at least
// MinLength characters long.
func (w *Watcher) Poll() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.enabled {
		return "", false
	}

	raw, err := w.reader.ReadText()
	if err != nil {
		if !w.failing {
			w.failing = true
			w.logger.Debugw("Clipboard read failed", "error", err)
		}
		return "", false
	}
	if w.failing {
		w.failing = false
		w.logger.Debug("Clipboard readable again")
	}

	text := strings.TrimSpace(raw)
	if text == "" || text == w.lastEmitted {
		return "", false
	}
	if utf8.RuneCountInString(text) < w.minLength {
		return "", false
	}

	w.lastEmitted = text
	w.logger.Debugw("New clipboard text", "chars", utf8.RuneCountInString(text))
	return text, true
}

func (w *Watcher) Start() {
	w.setEnabled(true)
}

func (w *Watcher) Stop() {
	w.setEnabled(false)
}

// Toggle flips the enabled state and returns the new one.
func (w *Watcher) Toggle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = !w.enabled
	w.logger.Infow("Clipboard capture toggled", "enabled", w.enabled)
	return w.enabled
}

func (w *Watcher) Enabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enabled
}

func (w *Watcher) Interval() time.Duration {
	return w.interval
}

func (w *Watcher) setEnabled(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.enabled != enabled {
		w.enabled = enabled
		w.logger.Infow("Clipboard capture toggled", "enabled", enabled)
	}
}
