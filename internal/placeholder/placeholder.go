// Package placeholder shields parts of copied text that must survive a
// model translation unchanged: fenced and inline code, URLs and e-mail
// addresses. They are swapped for numbered markers before the prompt is
// built and put back in the model's output.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
)

var (
	fencedCode = regexp.MustCompile("(?s)```.*?```")
	inlineCode = regexp.MustCompile("`[^`\n]+`")
	url        = regexp.MustCompile(`\bhttps?://[^\s<>"'` + "`" + `]+[^\s<>"'.,;:!?)\]` + "`" + `]`)
	email      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	marker = regexp.MustCompile(`\[\[(\d+)\]\]`)
)

// Hint is appended to prompts that contain markers.
const Hint = "Keep every [[n]] marker exactly as written."

// Shielded is text whose protected spans were replaced by markers.
type Shielded struct {
	Text      string
	originals []string
}

// Shield replaces protected spans in text with [[0]], [[1]], ... in the
// order the patterns are applied: fenced code, inline code, URLs, e-mails.
func Shield(text string) Shielded {
	s := Shielded{}
	replace := func(match string) string {
		s.originals = append(s.originals, match)
		return fmt.Sprintf("[[%d]]", len(s.originals)-1)
	}

	for _, re := range []*regexp.Regexp{fencedCode, inlineCode, url, email} {
		text = re.ReplaceAllStringFunc(text, replace)
	}
	s.Text = text
	return s
}

// Len returns the number of shielded spans.
func (s Shielded) Len() int {
	return len(s.originals)
}

// Unshield puts the original spans back into translated. It also returns
// the indices of markers the model dropped; unknown markers are left as
// they are.
func (s Shielded) Unshield(translated string) (string, []int) {
	seen := make([]bool, len(s.originals))
	out := marker.ReplaceAllStringFunc(translated, func(m string) string {
		idx, err := strconv.Atoi(marker.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(s.originals) {
			return m
		}
		seen[idx] = true
		return s.originals[idx]
	})

	var missing []int
	for i, ok := range seen {
		if !ok {
			missing = append(missing, i)
		}
	}
	return out, missing
}
