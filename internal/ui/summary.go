// Package ui renders terminal summary blocks for the CLI.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Summary is the per-run outcome the check command prints after the
// diagnostics.
type Summary struct {
	Signatures  int
	Calls       int
	Direct      int
	Constructed int
	Defaulted   int
	Failed      int
	Errors      int
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// Render produces the summary block. With color off it degrades to the
// same text without styling.
func (s Summary) Render(color bool, width int) string {
	lines := []string{
		styled(color, titleStyle, "expanded-parameter check"),
		fmt.Sprintf("signatures %d   calls %d", s.Signatures, s.Calls),
		fmt.Sprintf("direct %d   constructed %d   defaulted %d",
			s.Direct, s.Constructed, s.Defaulted),
	}
	if s.Failed > 0 || s.Errors > 0 {
		lines = append(lines, styled(color, badStyle,
			fmt.Sprintf("failed %d   errors %d", s.Failed, s.Errors)))
	} else {
		lines = append(lines, styled(color, okStyle, "all call sites resolved"))
	}

	body := strings.Join(truncateAll(lines, width), "\n")
	if !color {
		return body
	}
	return boxStyle.Render(body)
}

func styled(color bool, st lipgloss.Style, text string) string {
	if !color {
		return text
	}
	return st.Render(text)
}

func truncateAll(lines []string, width int) []string {
	if width <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = runewidth.Truncate(l, width, "…")
	}
	return out
}

// Hint renders a secondary, de-emphasized line.
func Hint(color bool, text string) string {
	return styled(color, dimStyle, text)
}
