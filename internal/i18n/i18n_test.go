package i18n

import "testing"

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
}

func resetLocale(t *testing.T) {
	t.Helper()
	oldPo, oldActive := po, active
	t.Cleanup(func() { po, active = oldPo, oldActive })
}

func TestDetectLanguage(t *testing.T) {
	t.Run("LANGUAGE has highest priority", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "ar_EG.UTF-8:en_US")
		t.Setenv("LC_ALL", "de_DE.UTF-8")

		if got := detectLanguage(); got != "ar_EG" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "ar_EG")
		}
	})

	t.Run("C and POSIX are skipped", func(t *testing.T) {
		clearLocaleEnv(t)
		t.Setenv("LANGUAGE", "C")
		t.Setenv("LC_ALL", "POSIX")
		t.Setenv("LANG", "fr_FR.UTF-8")

		if got := detectLanguage(); got != "fr_FR" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "fr_FR")
		}
	})

	t.Run("falls back to en", func(t *testing.T) {
		clearLocaleEnv(t)
		if got := detectLanguage(); got != "en" {
			t.Fatalf("detectLanguage() = %q, want %q", got, "en")
		}
	})
}

func TestFallbackWhenUninitialized(t *testing.T) {
	resetLocale(t)
	po = nil

	if got := T("Translating..."); got != "Translating..." {
		t.Errorf("T fallback = %q", got)
	}
	if got := T("Unknown command: %s", ":foo"); got != "Unknown command: :foo" {
		t.Errorf("T formatted fallback = %q", got)
	}
	if got := N("%d language", "%d languages", 1, 1); got != "1 language" {
		t.Errorf("N singular fallback = %q", got)
	}
	if got := N("%d language", "%d languages", 24, 24); got != "24 languages" {
		t.Errorf("N plural fallback = %q", got)
	}
	if IsRTL() {
		t.Error("expected left to right without a locale")
	}
}

func TestInitArabic(t *testing.T) {
	resetLocale(t)
	Init("ar")

	if got := T("Translation timed out"); got != "انتهت مهلة الترجمة" {
		t.Errorf("T = %q", got)
	}
	if got := T("Target language set to %s", "French"); got != "تم تعيين اللغة الهدف إلى French" {
		t.Errorf("T formatted = %q", got)
	}
	if !IsRTL() {
		t.Error("expected Arabic to be right to left")
	}
}

func TestInitMissingMessage(t *testing.T) {
	resetLocale(t)
	Init("en")

	if got := T("Not in any catalog"); got != "Not in any catalog" {
		t.Errorf("expected passthrough, got %q", got)
	}
}
