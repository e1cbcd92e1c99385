package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"expandc/internal/diag"
	"expandc/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeHeading(w, d.Severity, d.Code, d.Message, d.Primary, fs, opts)
		if opts.ShowPreview {
			writePreview(w, d.Primary, fs, opts)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  note: %s: %s\n", formatLocation(n.Span, fs, opts.PathMode), n.Msg)
			}
		}
		if opts.ShowFixes {
			for _, f := range d.Fixes {
				fmt.Fprintf(w, "  fix: %s\n", f.Title)
			}
		}
	}
}

func writeHeading(w io.Writer, sev diag.Severity, code diag.Code, msg string, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	sevText := sev.String()
	codeText := code.ID()
	if opts.Color {
		sevText = severityColor(sev).Sprint(sevText)
		codeText = color.New(color.Bold).Sprint(codeText)
	}
	line := fmt.Sprintf("%s: %s %s: %s", formatLocation(span, fs, opts.PathMode), sevText, codeText, msg)
	if opts.Width > 0 {
		line = runewidth.Truncate(line, opts.Width, "…")
	}
	fmt.Fprintln(w, line)
}

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

func formatLocation(span source.Span, fs *source.FileSet, mode PathMode) string {
	path := fs.PathOf(span.File)
	if mode == PathModeBasename && path != "" {
		path = filepath.Base(path)
	}
	if pos, ok := fs.Resolve(span.File, span.Start); ok {
		return fmt.Sprintf("%s:%d:%d", path, pos.Line, pos.Col)
	}
	return fmt.Sprintf("%s:+%d", path, span.Start)
}

// writePreview prints the source line under the heading with a caret
// run marking the span. Multi-line spans are underlined only on their
// first line.
func writePreview(w io.Writer, span source.Span, fs *source.FileSet, opts PrettyOpts) {
	pos, ok := fs.Resolve(span.File, span.Start)
	if !ok {
		return
	}
	content, ok := fs.LineContent(span.File, pos.Line)
	if !ok || len(content) == 0 {
		return
	}
	text := strings.ReplaceAll(string(content), "\t", " ")
	if opts.Width > 0 {
		text = runewidth.Truncate(text, opts.Width, "…")
	}

	width := int(span.End - span.Start)
	if width < 1 {
		width = 1
	}
	if rest := len(text) - int(pos.Col-1); width > rest && rest > 0 {
		width = rest
	}
	marker := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		marker = color.New(color.FgGreen, color.Bold).Sprint(marker)
	}
	fmt.Fprintf(w, "  %s\n", text)
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", int(pos.Col-1)), marker)
}
