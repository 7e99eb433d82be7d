// Package validator checks that a translation is written in the language it
// was requested in.
package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Shorter texts are accepted without detection; the detector is unreliable
// on them.
const minLength = 20

var ErrWrongLanguage = errors.New("translation is not in the target language")

// Detector returns the FLORES-200 code of a text's language.
type Detector interface {
	DetectCode(text string) (string, bool)
}

type Validator struct {
	detector Detector
}

func New(detector Detector) *Validator {
	return &Validator{detector: detector}
}

// Check returns an error wrapping ErrWrongLanguage when text is detected to
// be in a language other than targetLang. Short texts and texts whose
// language cannot be determined pass.
func (v *Validator) Check(text, targetLang string) error {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < minLength {
		return nil
	}

	detected, ok := v.detector.DetectCode(text)
	if !ok {
		return nil
	}
	if !strings.EqualFold(detected, targetLang) {
		return fmt.Errorf("%w: expected %s, detected %s", ErrWrongLanguage, targetLang, detected)
	}
	return nil
}
