// Package chunker cuts text that is too long for a single backend request
// into pieces that end at natural boundaries, and puts translated pieces
// back together with the original spacing.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Piece is one part of a split text. Sep holds the whitespace that
// followed it in the original.
type Piece struct {
	Text string
	Sep  string
}

// Split cuts text into pieces of at most maxBytes bytes. It prefers, in
// order: paragraph breaks, sentence ends, whitespace, and finally a cut at
// the last whole rune. Surrounding whitespace of text is dropped. A
// non-positive maxBytes returns text as one piece.
func Split(text string, maxBytes int) []Piece {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxBytes <= 0 || len(text) <= maxBytes {
		return []Piece{{Text: text}}
	}

	var pieces []Piece
	rest := text
	for len(rest) > maxBytes {
		cut := splitPoint(rest, maxBytes)
		head := strings.TrimRightFunc(rest[:cut], unicode.IsSpace)
		tail := strings.TrimLeftFunc(rest[cut:], unicode.IsSpace)
		pieces = append(pieces, Piece{Text: head, Sep: rest[len(head) : len(rest)-len(tail)]})
		rest = tail
	}
	if rest != "" {
		pieces = append(pieces, Piece{Text: rest})
	}
	return pieces
}

// Join concatenates translated pieces using the separators of the pieces
// they were produced from.
func Join(translated []string, pieces []Piece) string {
	var b strings.Builder
	for i, t := range translated {
		b.WriteString(t)
		if i < len(pieces) {
			b.WriteString(pieces[i].Sep)
		}
	}
	return b.String()
}

func splitPoint(s string, maxBytes int) int {
	limit := maxBytes
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	if limit == 0 {
		// A single rune wider than maxBytes.
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
	prefix := s[:limit]

	if i := strings.LastIndex(prefix, "\n\n"); i > 0 {
		return i
	}

	sentence := 0
	for i, r := range prefix {
		if !isSentenceEnd(r) {
			continue
		}
		next := i + utf8.RuneLen(r)
		if next < len(s) {
			if nr, _ := utf8.DecodeRuneInString(s[next:]); unicode.IsSpace(nr) {
				sentence = next
			}
		}
	}
	if sentence > 0 {
		return sentence
	}

	if i := strings.LastIndexFunc(prefix, unicode.IsSpace); i > 0 {
		return i
	}
	return limit
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '…', '。', '！', '？', '؟', '۔':
		return true
	}
	return false
}
