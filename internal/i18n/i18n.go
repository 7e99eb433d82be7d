// Package i18n translates baligh's own user-facing strings.
//
// Catalogs are gettext .po files embedded in the binary. Init selects the
// locale once at startup; T and N fall back to the msgid when no catalog is
// loaded or the message is missing.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// Directory structure: locales/{lang}/LC_MESSAGES/baligh.po
//
//go:embed all:locales
var locales embed.FS

const domain = "baligh"

var (
	po     *gotext.Locale
	active string
)

// Init loads the catalog for lang. An empty lang is detected from LANGUAGE,
// LC_ALL, LC_MESSAGES and LANG, in that order.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	active = lang
	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates msgid and formats it with args when any are given.
func T(msgid string, args ...any) string {
	if po == nil {
		if len(args) > 0 {
			return fmt.Sprintf(msgid, args...)
		}
		return msgid
	}
	return po.Get(msgid, args...)
}

// N translates a string with plural forms.
func N(singular, plural string, n int, args ...any) string {
	if po == nil {
		format := plural
		if n == 1 {
			format = singular
		}
		if len(args) > 0 {
			return fmt.Sprintf(format, args...)
		}
		return format
	}
	return po.GetN(singular, plural, n, args...)
}

// IsRTL reports whether the active locale is written right to left.
func IsRTL() bool {
	if po == nil {
		return false
	}
	switch strings.SplitN(active, "_", 2)[0] {
	case "ar", "fa", "he", "ur":
		return true
	}
	return false
}

func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list.
		if env == "LANGUAGE" {
			val = strings.SplitN(val, ":", 2)[0]
		}
		// ar_EG.UTF-8 -> ar_EG
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
