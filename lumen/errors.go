// errors.go — diagnostics collection and user-facing error rendering.
//
// Every pass (lexer, parser, resolver) and the interpreter's runtime
// failures report into an explicit Reporter owned by the orchestration
// layer; there is no hidden process-wide error state. The Reporter keeps
// two flags — static errors gate execution entirely, runtime errors abort
// only the remaining statements of the current run — and both reset at the
// start of a fresh top-level run.
//
// When the Reporter knows the source text it renders a caret snippet under
// the offending line:
//
//	[line 3] error at ')': expected expression
//
//	   2 | var x = (1 + 2
//	   3 |              );
//	     |              ^
package lumen

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// RuntimeError is an evaluation failure carrying the offending token for
// line reporting. It aborts the current Interpret call when it propagates
// to the top.
type RuntimeError struct {
	Token Token
	Msg   string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[line %d] runtime error: %s", e.Token.Line, e.Msg)
}

func runtimeErr(tok Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, Msg: fmt.Sprintf(format, args...)}
}

// Reporter accumulates diagnostics for one top-level run.
type Reporter struct {
	out io.Writer
	src string // optional; enables caret snippets

	hadError        bool
	hadRuntimeError bool
}

// NewReporter writes diagnostics to out (stderr when nil).
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{out: out}
}

// SetSource gives the reporter the text being processed so diagnostics can
// include caret snippets. Pass "" to disable.
func (r *Reporter) SetSource(src string) { r.src = src }

// Reset clears both flags for a fresh top-level run.
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

func (r *Reporter) HadError() bool        { return r.hadError }
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Report records a static error keyed only by line (lexical errors).
func (r *Reporter) Report(line int, msg string) {
	r.hadError = true
	fmt.Fprintln(r.out, r.render(line, -1, fmt.Sprintf("[line %d] error: %s", line, msg)))
}

// ReportToken records a static error anchored to a token (parse and
// resolution errors). The EOF token renders as "at end".
func (r *Reporter) ReportToken(tok Token, msg string) {
	r.hadError = true
	where := "at " + tok.String()
	fmt.Fprintln(r.out, r.render(tok.Line, tok.Col, fmt.Sprintf("[line %d] error %s: %s", tok.Line, where, msg)))
}

// ReportRuntime records a runtime failure.
func (r *Reporter) ReportRuntime(err *RuntimeError) {
	r.hadRuntimeError = true
	fmt.Fprintln(r.out, r.render(err.Token.Line, err.Token.Col, err.Error()))
}

// render appends a caret snippet to header when source text is available.
// col is 0-based; pass -1 when unknown (the caret line is skipped).
func (r *Reporter) render(line, col int, header string) string {
	if r.src == "" {
		return header
	}
	lines := strings.Split(r.src, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	if col >= 0 {
		if col > len(lines[line-1]) {
			col = len(lines[line-1])
		}
		fmt.Fprintf(&b, "     | %s^", strings.Repeat(" ", col))
	}
	return strings.TrimRight(b.String(), "\n")
}
