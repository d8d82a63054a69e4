package compiler

import (
	"fmt"
	"strings"
)

// cWriter accumulates indented C source text the way the teacher's
// goWriter accumulates indented Go source text: a string builder plus an
// indent counter, with Line writing a fully-formed statement and Raw
// appending fragments that make up one logical line (an expression built
// up call-by-call, the way fo_compiler.py's SourceCodeBuilder.append
// pieces a C expression together before the closing Line call lands the
// trailing newline).
type cWriter struct {
	sb     strings.Builder
	indent int
}

// Line writes an indented, formatted line with a trailing newline.
func (w *cWriter) Line(format string, args ...interface{}) {
	w.sb.WriteString(strings.Repeat("  ", w.indent))
	w.sb.WriteString(fmt.Sprintf(format, args...))
	w.sb.WriteString("\n")
}

// Raw writes unindented text directly to the buffer, no trailing newline.
func (w *cWriter) Raw(s string) {
	w.sb.WriteString(s)
}

// Indent increases the indentation level.
func (w *cWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *cWriter) Dedent() { w.indent-- }

// String returns the accumulated output.
func (w *cWriter) String() string { return w.sb.String() }
