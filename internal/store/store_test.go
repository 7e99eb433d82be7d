package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testKey(text, source, target, engine string) Key {
	return Key{SourceText: text, SourceLang: source, TargetLang: target, Engine: engine, MaxLength: 500, NumBeams: 1}
}

func TestStore_New_InvalidPath(t *testing.T) {
	_, err := New("/nonexistent/path/test.db")
	if err == nil {
		t.Error("expected error for invalid path")
	}
}

func TestStore_GetCachedTranslation_Miss(t *testing.T) {
	s := newTestStore(t)

	text, found, err := s.GetCachedTranslation(context.Background(), testKey("Hello", "eng_Latn", "arb_Arab", "ollama"))
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected not found on empty store")
	}
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
}

func TestStore_GetCachedTranslation_Hit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveToMemory(ctx, testKey("Hello!", "eng_Latn", "arb_Arab", "ollama"), "مرحبا!"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	// Surrounding whitespace is normalized away.
	text, found, err := s.GetCachedTranslation(ctx, testKey("  Hello!\n", "eng_Latn", "arb_Arab", "ollama"))
	if err != nil {
		t.Fatalf("GetCachedTranslation failed: %v", err)
	}
	if !found {
		t.Fatal("expected to find cached translation")
	}
	if text != "مرحبا!" {
		t.Errorf("expected 'مرحبا!', got %q", text)
	}

	entries, err := s.ListMemory(ctx)
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].UsageCount != 2 {
		t.Errorf("expected one entry used twice, got %+v", entries)
	}
	if entries[0].Engine != "ollama" {
		t.Errorf("expected engine ollama, got %q", entries[0].Engine)
	}
}

func TestStore_GetCachedTranslation_Invalidated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "fra_Latn", "google"), "Bonjour"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	entries, err := s.ListMemory(ctx)
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected at least one entry")
	}

	if err := s.InvalidateMemory(ctx, entries[0].ID); err != nil {
		t.Fatalf("InvalidateMemory failed: %v", err)
	}

	_, found, err := s.GetCachedTranslation(ctx, testKey("Hello", "eng_Latn", "fra_Latn", "google"))
	if err != nil {
		t.Errorf("GetCachedTranslation failed: %v", err)
	}
	if found {
		t.Error("expected not found for invalidated translation")
	}
}

func TestStore_SaveToMemory_Replaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "fra_Latn", "google"), "Salut")
	s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "fra_Latn", "google"), "Bonjour")

	entries, err := s.ListMemory(ctx)
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].FinalText != "Bonjour" {
		t.Errorf("expected replaced text 'Bonjour', got %q", entries[0].FinalText)
	}
}

func TestStore_KeyIncludesGenerationSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := testKey("Hello", "eng_Latn", "fra_Latn", "ollama")
	if err := s.SaveToMemory(ctx, base, "Bonjour"); err != nil {
		t.Fatalf("SaveToMemory failed: %v", err)
	}

	otherEngine := base
	otherEngine.Engine = "google"
	longer := base
	longer.MaxLength = 1000
	wider := base
	wider.NumBeams = 4

	for name, key := range map[string]Key{"engine": otherEngine, "max length": longer, "beams": wider} {
		_, found, err := s.GetCachedTranslation(ctx, key)
		if err != nil {
			t.Fatalf("%s: GetCachedTranslation failed: %v", name, err)
		}
		if found {
			t.Errorf("%s: expected a miss for different settings", name)
		}
	}

	s.SaveToMemory(ctx, longer, "Bonjour à tous")
	entries, err := s.ListMemory(ctx)
	if err != nil {
		t.Fatalf("ListMemory failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestStore_MigratesOldSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	_, err = old.Exec(`CREATE TABLE translation_memory (id TEXT PRIMARY KEY, source_text TEXT, source_lang TEXT, target_lang TEXT, final_text TEXT, UNIQUE(source_text, source_lang, target_lang))`)
	old.Close()
	if err != nil {
		t.Fatalf("failed to create old table: %v", err)
	}

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed on old schema: %v", err)
	}
	defer s.Close()

	if err := s.SaveToMemory(context.Background(), testKey("Hello", "eng_Latn", "fra_Latn", "ollama"), "Bonjour"); err != nil {
		t.Errorf("SaveToMemory failed after migration: %v", err)
	}
}

func TestStore_Stats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 0 {
		t.Errorf("expected 0 total entries, got %d", stats.TotalEntries)
	}

	s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "arb_Arab", "ollama"), "مرحبا")
	s.SaveToMemory(ctx, testKey("World", "eng_Latn", "arb_Arab", "ollama"), "عالم")

	entries, _ := s.ListMemory(ctx)
	if err := s.InvalidateMemory(ctx, entries[0].ID); err != nil {
		t.Fatalf("InvalidateMemory failed: %v", err)
	}

	stats, err = s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("expected 2 total entries, got %d", stats.TotalEntries)
	}
	if stats.ActiveEntries != 1 {
		t.Errorf("expected 1 active entry, got %d", stats.ActiveEntries)
	}
	if stats.InvalidEntries != 1 {
		t.Errorf("expected 1 invalid entry, got %d", stats.InvalidEntries)
	}
}

func TestStore_DeleteMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "spa_Latn", "google"), "Hola")
	entries, _ := s.ListMemory(ctx)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	if err := s.DeleteMemory(ctx, entries[0].ID); err != nil {
		t.Fatalf("DeleteMemory failed: %v", err)
	}

	entries, _ = s.ListMemory(ctx)
	if len(entries) != 0 {
		t.Errorf("expected 0 entries after delete, got %d", len(entries))
	}
}

func TestStore_UnknownID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.DeleteMemory(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteMemory: expected ErrNotFound, got %v", err)
	}
	if err := s.InvalidateMemory(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("InvalidateMemory: expected ErrNotFound, got %v", err)
	}
}

func TestStore_ClearMemory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "arb_Arab", "ollama"), "مرحبا")
	s.SaveToMemory(ctx, testKey("Hello", "eng_Latn", "fra_Latn", "ollama"), "Bonjour")

	n, err := s.ClearMemory(ctx)
	if err != nil {
		t.Fatalf("ClearMemory failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows cleared, got %d", n)
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"  hello  ", "hello"},
		{"hello", "hello"},
		{"\thello\n", "hello"},
		// e + combining acute accent composes to a single rune.
		{"e\u0301", "\u00e9"},
	}

	for _, tt := range tests {
		got := normalizeText(tt.input)
		if got != tt.expected {
			t.Errorf("normalizeText(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
