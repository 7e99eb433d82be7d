// Package detector guesses the language of copied text so that a source
// language of "auto" can be resolved before a request reaches the model.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"

	"github.com/valpere/baligh/internal/langcode"
)

// Detector is expensive to build; create one and reuse it.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector restricted to the languages langcode knows about.
func New() *Detector {
	var langs []lingua.Language
	for _, iso := range langcode.ISOCodes() {
		l := lingua.GetLanguageFromIsoCode639_1(lingua.GetIsoCode639_1FromValue(strings.ToUpper(iso)))
		if l != lingua.Unknown {
			langs = append(langs, l)
		}
	}

	builder := lingua.NewLanguageDetectorBuilder()
	var detector lingua.LanguageDetector
	if len(langs) >= 2 {
		detector = builder.FromLanguages(langs...).Build()
	} else {
		detector = builder.FromAllLanguages().Build()
	}
	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectCode returns the FLORES-200 code of the detected language.
func (d *Detector) DetectCode(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	l, ok := langcode.FromISO(strings.ToLower(lang.IsoCode639_1().String()))
	if !ok {
		return "", false
	}
	return l.Code, true
}
