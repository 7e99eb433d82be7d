// Package postprocess cleans raw model output before it is shown as a
// translation.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean strips, in order: reasoning blocks, leftover special tokens,
// a leading "Translation:" style preamble and one pair of wrapping quotes.
func Clean(text string) string {
	text = reasoningRe.ReplaceAllString(text, "")
	text = unclosedReasoningRe.ReplaceAllString(text, "")
	text = markerRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	text = langTokenRe.ReplaceAllString(text, "")
	text = stripPreamble(text)
	text = stripQuotes(text)
	return strings.TrimSpace(text)
}

// RE2 has no backreferences, so each tag pair is spelled out.
var reasoningRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// A reasoning tag the model never closed swallows the rest of the output.
var unclosedReasoningRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)

// Sequence markers and a leading FLORES-200 language token ("arb_Arab")
// are what seq2seq decoders leave behind when special tokens are kept.
var (
	markerRe    = regexp.MustCompile(`</?s>|<pad>|<unk>`)
	langTokenRe = regexp.MustCompile(`^[a-z]{3}_[A-Z][a-z]{3}\s+`)
)

var preambleRe = regexp.MustCompile(
	`(?i)^(?:(?:sure|certainly|of course)[,.!]?\s+)?(?:here(?:'s| is)\s+)?(?:the\s+)?(?:translation|translated text)(?:\s+(?:in|into)\s+[\p{L} ]+?)?\s*:`,
)

func stripPreamble(text string) string {
	if loc := preambleRe.FindStringIndex(text); loc != nil {
		return strings.TrimSpace(text[loc[1]:])
	}
	return text
}

var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'«':  '»',
	'“':  '”',
	'‘':  '’',
}

func stripQuotes(text string) string {
	runes := []rune(text)
	if len(runes) < 2 {
		return text
	}
	if closing, ok := quotePairs[runes[0]]; ok && runes[len(runes)-1] == closing {
		return strings.TrimSpace(string(runes[1 : len(runes)-1]))
	}
	return text
}
