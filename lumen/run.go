// run.go — front-to-back orchestration: lex → parse → resolve → interpret.
package lumen

import "io"

// Runner owns one interpreter and one diagnostics reporter and drives the
// whole pipeline over source text. A REPL keeps a single Runner alive so
// globals persist between lines; each Run starts with fresh error flags.
type Runner struct {
	ip  *Interpreter
	rep *Reporter
}

// NewRunner builds a runner printing to out and reporting diagnostics to
// errOut (stdout/stderr when nil).
func NewRunner(out, errOut io.Writer) *Runner {
	return &Runner{
		ip:  NewInterpreter(out),
		rep: NewReporter(errOut),
	}
}

func (r *Runner) Interpreter() *Interpreter { return r.ip }
func (r *Runner) Reporter() *Reporter       { return r.rep }

// Run executes src end to end. The interpreter does not run when any static
// error (lexical, syntactic or resolution) was reported.
func (r *Runner) Run(src string) {
	stmts, ok := r.frontend(src)
	if !ok {
		return
	}
	r.ip.Interpret(stmts, r.rep)
}

// Check runs only the static passes over src, reporting diagnostics without
// executing anything.
func (r *Runner) Check(src string) bool {
	_, ok := r.frontend(src)
	return ok
}

// Parse exposes the frontend through static resolution, for tooling like
// the AST printer.
func (r *Runner) Parse(src string) ([]Stmt, bool) {
	return r.frontend(src)
}

func (r *Runner) frontend(src string) ([]Stmt, bool) {
	r.rep.Reset()
	r.rep.SetSource(src)

	tokens := NewLexer(src, r.rep).Scan()
	stmts := NewParser(tokens, r.rep).Parse()
	if r.rep.HadError() {
		return nil, false
	}
	NewResolver(r.ip, r.rep).Resolve(stmts)
	if r.rep.HadError() {
		return nil, false
	}
	return stmts, true
}
