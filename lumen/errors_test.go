package lumen

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Reporter_FlagsAndReset(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)

	assert.False(t, rep.HadError())
	rep.Report(1, "boom")
	assert.True(t, rep.HadError())
	assert.False(t, rep.HadRuntimeError())

	rep.ReportRuntime(&RuntimeError{Token: Token{Line: 2}, Msg: "bad"})
	assert.True(t, rep.HadRuntimeError())

	rep.Reset()
	assert.False(t, rep.HadError())
	assert.False(t, rep.HadRuntimeError())
}

func Test_Reporter_TokenRendering(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)

	rep.ReportToken(Token{Type: EOF, Line: 3}, "unexpected end")
	assert.Contains(t, buf.String(), "[line 3] error at end: unexpected end")

	buf.Reset()
	rep.ReportToken(Token{Type: IDENT, Lexeme: "foo", Line: 1}, "bad name")
	assert.Contains(t, buf.String(), "error at 'foo': bad name")
}

func Test_Reporter_CaretSnippet(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)
	rep.SetSource("var x = 1;\nvar y = @;\nprint y;")

	rep.ReportToken(Token{Type: IDENT, Lexeme: "@", Line: 2, Col: 8}, "unexpected")
	out := buf.String()
	assert.Contains(t, out, "   2 | var y = @;")
	assert.Contains(t, out, "     |         ^")
	assert.Contains(t, out, "   1 | var x = 1;", "one line of leading context")
}

func Test_Reporter_NoSource_PlainLine(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)
	rep.Report(7, "plain")
	assert.Equal(t, "[line 7] error: plain\n", buf.String())
}

func Test_RuntimeError_MessageCarriesLine(t *testing.T) {
	err := runtimeErr(Token{Type: SLASH, Lexeme: "/", Line: 4}, "division by zero")
	assert.Equal(t, "[line 4] runtime error: division by zero", err.Error())
}
