package diag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airscript-lang/airscript/pkg/sexp"
)

func TestRenderProducesCaretUnderPrimarySpan(t *testing.T) {
	source := "let x = y\nenf x = 0"
	file := sexp.NewSourceFile("test.json", []byte(source))

	// "y" starts at byte 8 on the first line.
	span := sexp.NewSpan(8, 9)
	d := New(UndeclaredIdentifier, span, "undeclared identifier %q", "y")

	var buf bytes.Buffer
	Render(&buf, []*Diagnostic{d}, file)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, `error: undeclared identifier "y"`, lines[0])
	assert.Equal(t, "let x = y", lines[1])
	assert.Equal(t, strings.Repeat(" ", 8)+"^", lines[2])
}

func TestRenderEmitsNoteBlockForSecondarySpan(t *testing.T) {
	source := "const a = 1\nconst a = 2"
	file := sexp.NewSourceFile("test.json", []byte(source))

	primary := sexp.NewSpan(18, 19)
	secondary := sexp.NewSpan(6, 7)

	d := New(DuplicateIdentifier, primary, "identifier %q is already declared", "a").
		WithSecondary(secondary, "previously declared here")

	var buf bytes.Buffer
	Render(&buf, []*Diagnostic{d}, file)

	out := buf.String()
	assert.Contains(t, out, "note: previously declared here")
	assert.Contains(t, out, "const a = 1")
	assert.Contains(t, out, "const a = 2")
}

func TestRenderHandlesMultipleDiagnosticsInOrder(t *testing.T) {
	source := "x\ny"
	file := sexp.NewSourceFile("test.json", []byte(source))

	first := New(UndeclaredIdentifier, sexp.NewSpan(0, 1), "first")
	second := New(UndeclaredIdentifier, sexp.NewSpan(2, 3), "second")

	var buf bytes.Buffer
	Render(&buf, []*Diagnostic{first, second}, file)

	out := buf.String()
	assert.True(t, strings.Index(out, "first") < strings.Index(out, "second"))
}
