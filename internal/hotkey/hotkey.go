// Package hotkey registers the global shortcut that toggles clipboard
// capture.
package hotkey

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.design/x/hotkey"
)

// Binding is a registered global shortcut.
type Binding interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
}

// Listener forwards key presses of a Binding as toggle events.
type Listener struct {
	binding Binding
	name    string
	logger  *zap.SugaredLogger
}

// NewToggle returns a listener for Ctrl+Shift+T.
func NewToggle(logger *zap.SugaredLogger) *Listener {
	return newListener(hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyT), "Ctrl+Shift+T", logger)
}

func newListener(b Binding, name string, logger *zap.SugaredLogger) *Listener {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Listener{binding: b, name: name, logger: logger}
}

// Listen registers the shortcut and sends one value on toggles per key
// press until ctx is done. A press is dropped if the previous one has not
// been consumed yet.
func (l *Listener) Listen(ctx context.Context, toggles chan<- struct{}) error {
	if err := l.binding.Register(); err != nil {
		return fmt.Errorf("failed to register hotkey %s: %w", l.name, err)
	}
	defer func() {
		if err := l.binding.Unregister(); err != nil {
			l.logger.Warnw("Failed to unregister hotkey", "hotkey", l.name, "error", err)
		}
	}()
	l.logger.Infow("Hotkey registered", "hotkey", l.name)

	keydown := l.binding.Keydown()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-keydown:
			if !ok {
				return nil
			}
			select {
			case toggles <- struct{}{}:
			default:
				l.logger.Debugw("Hotkey press dropped", "hotkey", l.name)
			}
		}
	}
}
