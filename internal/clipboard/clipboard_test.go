package clipboard

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeReader struct {
	text string
	err  error
}

func (r *fakeReader) ReadText() (string, error) {
	return r.text, r.err
}

func newTestWatcher(t *testing.T, r Reader, opts ...Option) *Watcher {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return NewWatcher(r, opts...)
}

func TestWatcher_Poll(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		want     []string
	}{
		{name: "new text", contents: []string{"Hello!"}, want: []string{"Hello!"}},
		{name: "trimmed", contents: []string{"  Hello!\n"}, want: []string{"Hello!"}},
		{name: "too short", contents: []string{"ab", "a", "  hi  "}, want: nil},
		{name: "three characters", contents: []string{"abc"}, want: []string{"abc"}},
		{name: "counts runes", contents: []string{"مرح"}, want: []string{"مرح"}},
		{name: "empty", contents: []string{"", "   "}, want: nil},
		{name: "duplicate", contents: []string{"Hello!", "Hello!", " Hello! "}, want: []string{"Hello!"}},
		{name: "changed back", contents: []string{"Hello!", "World", "Hello!"}, want: []string{"Hello!", "World", "Hello!"}},
		{name: "short text keeps last", contents: []string{"Hello!", "ab", "Hello!"}, want: []string{"Hello!"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeReader{}
			w := newTestWatcher(t, r)

			var got []string
			for _, c := range tt.contents {
				r.text = c
				if text, ok := w.Poll(); ok {
					got = append(got, text)
				}
			}

			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("emission %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestWatcher_ReadError(t *testing.T) {
	r := &fakeReader{err: errors.New("no clipboard utilities available")}
	w := newTestWatcher(t, r)

	for i := 0; i < 3; i++ {
		if _, ok := w.Poll(); ok {
			t.Fatal("expected no emission while the clipboard is unreadable")
		}
	}

	r.err = nil
	r.text = "Hello!"
	if text, ok := w.Poll(); !ok || text != "Hello!" {
		t.Errorf("expected emission after recovery, got %q, %v", text, ok)
	}
}

func TestWatcher_Disabled(t *testing.T) {
	r := &fakeReader{text: "Hello!"}
	w := newTestWatcher(t, r)

	w.Stop()
	if w.Enabled() {
		t.Fatal("expected watcher stopped")
	}
	if _, ok := w.Poll(); ok {
		t.Error("expected no emission while stopped")
	}

	w.Start()
	if text, ok := w.Poll(); !ok || text != "Hello!" {
		t.Errorf("expected text copied while stopped to be emitted after Start, got %q, %v", text, ok)
	}
}

func TestWatcher_Toggle(t *testing.T) {
	w := newTestWatcher(t, &fakeReader{})

	if w.Toggle() {
		t.Error("expected first toggle to disable")
	}
	if !w.Toggle() {
		t.Error("expected second toggle to enable")
	}
}

func TestWatcher_Options(t *testing.T) {
	r := &fakeReader{text: "abcd"}
	w := newTestWatcher(t, r, WithInterval(time.Second), WithMinLength(5))

	if w.Interval() != time.Second {
		t.Errorf("expected interval 1s, got %s", w.Interval())
	}
	if _, ok := w.Poll(); ok {
		t.Error("expected four characters to be below the minimum of five")
	}

	d := NewWatcher(r, WithInterval(0), WithMinLength(0))
	if d.Interval() != DefaultInterval || d.minLength != DefaultMinLength {
		t.Errorf("expected defaults for invalid options, got %s and %d", d.Interval(), d.minLength)
	}
}

func TestWatcher_RemembersEmittedText(t *testing.T) {
	r := &fakeReader{text: "  Hello!\n"}
	w := newTestWatcher(t, r)

	if w.lastEmitted != "" {
		t.Errorf("expected no last text, got %q", w.lastEmitted)
	}
	w.Poll()
	if w.lastEmitted != "Hello!" {
		t.Errorf("expected trimmed last text Hello!, got %q", w.lastEmitted)
	}
}
