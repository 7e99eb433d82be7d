package internal

import (
	"errors"
	"strings"
	"time"
)

// TranslationRequest is a single submission to the translation model.
// Language codes use the FLORES-200 form, e.g. "eng_Latn".
type TranslationRequest struct {
	Seq         uint64    `json:"seq"`
	Text        string    `json:"text"`
	SourceLang  string    `json:"source_lang"`
	TargetLang  string    `json:"target_lang"`
	MaxLength   int       `json:"max_length"`
	BeamWidth   int       `json:"beam_width"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Validate reports the first constraint the request breaks.
func (r TranslationRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Text) == "":
		return errors.New("text is empty")
	case r.SourceLang == "":
		return errors.New("source language is empty")
	case r.TargetLang == "":
		return errors.New("target language is empty")
	case r.MaxLength < 1:
		return errors.New("max length must be at least 1")
	case r.BeamWidth < 1:
		return errors.New("beam width must be at least 1")
	}
	return nil
}

type TranslationResult struct {
	Seq            uint64        `json:"seq"`
	TranslatedText string        `json:"translated_text"`
	Err            error         `json:"-"`
	Latency        time.Duration `json:"latency"`
}
