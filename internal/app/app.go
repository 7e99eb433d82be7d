// Package app runs the control loop that connects the clipboard watcher,
// console commands and the global hotkey to the translation coordinator.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/baligh/internal/i18n"
	"github.com/valpere/baligh/internal/langcode"
)

// Submitter starts a translation and returns its sequence number.
type Submitter interface {
	Submit(text, sourceLang, targetLang string, maxLength, beamWidth int) (uint64, error)
}

// Watcher is the clipboard source polled by the control loop.
type Watcher interface {
	Poll() (string, bool)
	Start()
	Stop()
	Toggle() bool
	Enabled() bool
	Interval() time.Duration
}

// Notifier shows messages that are not translation outcomes.
type Notifier interface {
	Notice(msg string)
	Languages(langs []langcode.Language)
}

// Detector guesses the FLORES-200 code of a text.
type Detector interface {
	DetectCode(text string) (string, bool)
}

// Settings are the translation parameters used for every submission.
type Settings struct {
	SourceLang         string
	TargetLang         string
	FallbackSourceLang string
	MaxLength          int
	NumBeams           int
}

type Option func(*App)

func WithDetector(d Detector) Option {
	return func(a *App) { a.detector = d }
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

type App struct {
	coord    Submitter
	watcher  Watcher
	notifier Notifier
	detector Detector
	logger   *zap.SugaredLogger

	mu         sync.Mutex
	settings   Settings
	lastSource string
}

func New(coord Submitter, watcher Watcher, notifier Notifier, settings Settings, opts ...Option) *App {
	a := &App{
		coord:    coord,
		watcher:  watcher,
		notifier: notifier,
		settings: settings,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Settings returns the current translation parameters.
func (a *App) Settings() Settings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

// Translate remembers text as the current source and submits it with the
// current settings.
func (a *App) Translate(text string) (uint64, error) {
	a.mu.Lock()
	a.lastSource = text
	s := a.settings
	a.mu.Unlock()

	return a.submit(text, s)
}

// SetTargetLanguage changes the target language and, when a source text is
// known, submits it again so the shown translation follows the new
// language. It returns the new request's sequence number, or zero when
// nothing was submitted.
func (a *App) SetTargetLanguage(code string) (uint64, error) {
	lang, err := langcode.Parse(code)
	if err != nil {
		return 0, err
	}

	a.mu.Lock()
	a.settings.TargetLang = lang.Code
	s := a.settings
	text := a.lastSource
	a.mu.Unlock()

	a.logger.Infow("Target language changed", "target", lang.Code)
	if text == "" {
		return 0, nil
	}
	return a.submit(text, s)
}

// SetSourceLanguage changes the source language. "auto" enables detection.
func (a *App) SetSourceLanguage(code string) error {
	resolved := langcode.Auto
	if code != langcode.Auto {
		lang, err := langcode.Parse(code)
		if err != nil {
			return err
		}
		resolved = lang.Code
	}

	a.mu.Lock()
	a.settings.SourceLang = resolved
	a.mu.Unlock()
	return nil
}

func (a *App) submit(text string, s Settings) (uint64, error) {
	src := a.resolveSource(text, s)
	seq, err := a.coord.Submit(text, src, s.TargetLang, s.MaxLength, s.NumBeams)
	if err != nil {
		a.logger.Warnw("Submit rejected", "error", err)
		return 0, err
	}
	return seq, nil
}

func (a *App) resolveSource(text string, s Settings) string {
	if s.SourceLang != langcode.Auto {
		return s.SourceLang
	}
	if a.detector != nil {
		if code, ok := a.detector.DetectCode(text); ok {
			a.logger.Debugw("Detected source language", "source", code)
			return code
		}
	}
	a.notifier.Notice(i18n.T("Could not detect the source language, using %s", s.FallbackSourceLang))
	return s.FallbackSourceLang
}

// ErrQuit is returned by Handle for the quit command.
var ErrQuit = errors.New("quit")

// Handle executes one console line.
func (a *App) Handle(line string) error {
	cmd := ParseCommand(line)

	switch cmd.Kind {
	case CmdNone:
		return nil
	case CmdTranslate:
		if _, err := a.Translate(cmd.Arg); err != nil {
			a.notifier.Notice(i18n.T("Translation failed: %s", err.Error()))
		}
	case CmdTarget:
		_, err := a.SetTargetLanguage(cmd.Arg)
		if errors.Is(err, langcode.ErrUnsupported) {
			a.notifier.Notice(i18n.T("Unknown language: %s", cmd.Arg))
			return nil
		}
		a.notifier.Notice(i18n.T("Target language set to %s", languageName(a.Settings().TargetLang)))
		if err != nil {
			a.notifier.Notice(i18n.T("Translation failed: %s", err.Error()))
		}
	case CmdSource:
		if err := a.SetSourceLanguage(cmd.Arg); err != nil {
			a.notifier.Notice(i18n.T("Unknown language: %s", cmd.Arg))
			return nil
		}
		a.notifier.Notice(i18n.T("Source language set to %s", languageName(a.Settings().SourceLang)))
	case CmdPause:
		a.watcher.Stop()
		a.notifyCapture(false)
	case CmdResume:
		a.watcher.Start()
		a.notifyCapture(true)
	case CmdToggle:
		a.notifyCapture(a.watcher.Toggle())
	case CmdLanguages:
		a.notifier.Languages(langcode.All())
	case CmdQuit:
		return ErrQuit
	case CmdUnknown:
		a.notifier.Notice(i18n.T("Unknown command: %s", cmd.Arg))
	}
	return nil
}

// Run is the control loop. It polls the watcher every Interval, executes
// commands and flips capture on every toggle until ctx is done or a quit
// command arrives. A closed commands channel stops only command input.
func (a *App) Run(ctx context.Context, commands <-chan string, toggles <-chan struct{}) error {
	ticker := time.NewTicker(a.watcher.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if text, ok := a.watcher.Poll(); ok {
				if _, err := a.Translate(text); err != nil {
					a.notifier.Notice(i18n.T("Translation failed: %s", err.Error()))
				}
			}
		case line, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			if err := a.Handle(line); errors.Is(err, ErrQuit) {
				return nil
			}
		case <-toggles:
			a.notifyCapture(a.watcher.Toggle())
		}
	}
}

func (a *App) notifyCapture(enabled bool) {
	if enabled {
		a.notifier.Notice(i18n.T("Clipboard capture enabled"))
		return
	}
	a.notifier.Notice(i18n.T("Clipboard capture disabled"))
}

func languageName(code string) string {
	if l, ok := langcode.Lookup(code); ok {
		return l.Name
	}
	return code
}
