package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/starford/filenav/internal/commands"
	"github.com/starford/filenav/internal/i18n"
	"github.com/starford/filenav/internal/settings"
)

// Printer writes human-readable output. Styling is applied only when the
// destination is a terminal.
type Printer struct {
	w      io.Writer
	styled bool
}

// NewPrinter returns a Printer for f, styled when f is a terminal.
func NewPrinter(f *os.File) *Printer {
	fd := f.Fd()
	return &Printer{w: f, styled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// NewPlainPrinter returns a Printer that never styles its output.
func NewPlainPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) render(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// Notice prints an advisory message.
func (p *Printer) Notice(message string) {
	fmt.Fprintf(p.w, "%s %s\n", p.render(Bold, SymbolNotice), message)
}

// Path prints a bare document path, e.g. the navigation target.
func (p *Printer) Path(path string) {
	fmt.Fprintln(p.w, p.render(Accent, path))
}

// Groups lists every group with its rules in priority order.
func (p *Printer) Groups(tr *i18n.Translator, s settings.Settings) {
	if len(s.Groups) == 0 {
		fmt.Fprintln(p.w, p.render(Muted, tr.T("settings.groups.empty")))
		return
	}
	for _, g := range s.Groups {
		fmt.Fprintf(p.w, "%s %s\n", p.render(Accent, tr.GroupLabel(g)), p.render(Muted, g.ID))
		if len(g.Rules) == 0 {
			fmt.Fprintf(p.w, "  %s\n", p.render(Muted, tr.T("settings.rules.empty")))
			continue
		}
		for i, r := range g.Rules {
			fmt.Fprintf(p.w, "  %d. %s %s %s\n", i+1, tr.RuleSummary(r), SymbolRule, p.render(Muted, tr.SortSummary(r)))
		}
	}
}

// Commands prints one command per line: full id, then label.
func (p *Printer) Commands(list []commands.Descriptor) {
	width := 0
	for _, d := range list {
		width = max(width, len(d.ID))
	}
	for _, d := range list {
		fmt.Fprintf(p.w, "%s  %s\n", p.render(Muted, fmt.Sprintf("%-*s", width, d.ID)), d.Label)
	}
}
