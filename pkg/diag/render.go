package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/airscript-lang/airscript/pkg/sexp"
)

// Render writes every diagnostic to w, in the fixed format:
//
//	<severity>: <message>
//	<source line>
//	<caret line>
//
// followed, when a secondary span is present, by an indented note block.
// file is consulted to recover the source line and column of each span;
// color is used only when w is a terminal.
func Render(w io.Writer, diagnostics []*Diagnostic, file *sexp.SourceFile) {
	useColor := false

	if f, ok := w.(*os.File); ok {
		useColor = term.IsTerminal(int(f.Fd()))
	}

	severity := color.New(color.FgRed, color.Bold)
	note := color.New(color.FgCyan)

	for _, d := range diagnostics {
		renderOne(w, d, file, severity, note, useColor)
	}
}

func renderOne(w io.Writer, d *Diagnostic, file *sexp.SourceFile, severity, note *color.Color, useColor bool) {
	label := fmt.Sprintf("%s: %s", strings.ToLower(kindSeverity(d.Kind)), d.Message)

	if useColor {
		label = severity.Sprint(strings.ToLower(kindSeverity(d.Kind))) + ": " + d.Message
	}

	fmt.Fprintln(w, label)
	renderSpan(w, file, d.Primary)

	if d.Secondary != nil {
		header := "note: " + d.SecondaryMessage

		if useColor {
			header = note.Sprint("note") + ": " + d.SecondaryMessage
		}

		fmt.Fprintln(w, "  "+header)
		renderSpan(w, file, *d.Secondary)
	}
}

// kindSeverity returns the severity label printed for a diagnostic kind.
// Every kind in this core is an error; there are no warnings.
func kindSeverity(Kind) string {
	return "error"
}

func renderSpan(w io.Writer, file *sexp.SourceFile, span sexp.Span) {
	line := file.Line(span)
	fmt.Fprintln(w, line.String())

	start := span.Start()
	col := start - line.Start()
	length := span.Length()

	if length < 1 {
		length = 1
	}

	fmt.Fprintln(w, strings.Repeat(" ", col)+strings.Repeat("^", length))
}
