// Package presenter renders coordinator notifications on a terminal.
package presenter

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/valpere/baligh/internal"
	"github.com/valpere/baligh/internal/coordinator"
	"github.com/valpere/baligh/internal/i18n"
	"github.com/valpere/baligh/internal/langcode"
	"github.com/valpere/baligh/internal/translator"
)

// Theme holds the colors used by the console.
type Theme struct {
	Primary lipgloss.Color
	Dim     lipgloss.Color
	Error   lipgloss.Color
}

var DefaultTheme = Theme{
	Primary: lipgloss.Color("#00ff9f"),
	Dim:     lipgloss.Color("#6e7681"),
	Error:   lipgloss.Color("#ff5f5f"),
}

type styles struct {
	header lipgloss.Style
	result lipgloss.Style
	dim    lipgloss.Style
	failed lipgloss.Style
}

// Console writes translation progress and results to w. It is safe for use
// from multiple goroutines.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	styles styles
}

var _ coordinator.Presenter = (*Console)(nil)

func NewConsole(out io.Writer, theme Theme) *Console {
	r := lipgloss.NewRenderer(out)
	align := lipgloss.Left
	if i18n.IsRTL() {
		align = lipgloss.Right
	}
	return &Console{
		out: out,
		styles: styles{
			header: r.NewStyle().Bold(true).Foreground(theme.Primary),
			result: r.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(theme.Primary).
				Padding(0, 1).
				Align(align),
			dim:    r.NewStyle().Foreground(theme.Dim),
			failed: r.NewStyle().Bold(true).Foreground(theme.Error),
		},
	}
}

func (c *Console) OnTranslationStarted(req internal.TranslationRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := fmt.Sprintf("[%d] %s", req.Seq, i18n.T("From %s to %s", languageName(req.SourceLang), languageName(req.TargetLang)))
	fmt.Fprintln(c.out, c.styles.header.Render(header))
	fmt.Fprintln(c.out, c.styles.dim.Render(i18n.T("Translating...")))
}

func (c *Console) OnTranslationResult(seq uint64, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, c.styles.result.Render(text))
}

func (c *Console) OnTranslationFailed(seq uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, c.styles.failed.Render(FailureMessage(err)))
}

// Notice prints an informational line.
func (c *Console) Notice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, c.styles.dim.Render(msg))
}

// Languages prints the selectable languages.
func (c *Console) Languages(langs []langcode.Language) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fmt.Fprintln(c.out, c.styles.header.Render(i18n.N("%d language", "%d languages", len(langs), len(langs))))
	for _, l := range langs {
		fmt.Fprintf(c.out, "  %-10s %s\n", l.Code, c.styles.dim.Render(l.Name))
	}
}

// FailureMessage returns the localized text shown for err.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, translator.ErrUnsupportedLanguage):
		return i18n.T("Language not supported: %s", err.Error())
	case errors.Is(err, coordinator.ErrTimeout):
		return i18n.T("Translation timed out")
	default:
		return i18n.T("Translation failed: %s", err.Error())
	}
}

func languageName(code string) string {
	if l, ok := langcode.Lookup(code); ok {
		return l.Name
	}
	return code
}
