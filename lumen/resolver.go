// resolver.go — static scope resolution, run between parsing and execution.
//
// The resolver walks the statement tree once, maintaining a stack of scopes
// (name → "defined yet" flag), and records the lexical distance of every
// local variable reference into the interpreter's locals map. References it
// cannot find in any scope are globals and get no entry. It also enforces
// the structural rules: no duplicate declaration in one scope, no
// self-referential initializer, return only inside functions (and a bare
// return only inside init), break/continue only inside loops, this only
// inside classes. Errors are reported and resolution continues, so one pass
// surfaces as many as possible.
package lumen

type functionKind int

const (
	funcNone functionKind = iota
	funcFunction
	funcMethod
	funcInitializer
)

type classKind int

const (
	classNone classKind = iota
	classClass
)

// Resolver computes lexical distances and validates structure.
type Resolver struct {
	ip  *Interpreter
	rep *Reporter

	scopes       []map[string]bool
	currentFunc  functionKind
	currentClass classKind
	loopDepth    int
}

func NewResolver(ip *Interpreter, rep *Reporter) *Resolver {
	return &Resolver{ip: ip, rep: rep}
}

// Resolve analyzes a full program. Re-resolving the same tree produces the
// same locals map; the resolver keeps no state between calls.
func (r *Resolver) Resolve(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

// ----- scope plumbing -----

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks the name as existing but not yet usable, so a reference to
// it inside its own initializer can be caught.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.rep.ReportToken(name, "a variable named '"+name.Lexeme+"' already exists in this scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal walks the scope stack from innermost outward and records the
// first hit's distance against the expression node. No hit means global.
func (r *Resolver) resolveLocal(e Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.ip.bindLocal(e, len(r.scopes)-1-i)
			return
		}
	}
}

// ----- statements -----

func (r *Resolver) resolveStmt(s Stmt) {
	switch s := s.(type) {
	case *ExpressionStmt:
		r.resolveExpr(s.Expr)

	case *PrintStmt:
		r.resolveExpr(s.Expr)

	case *VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)

	case *BlockStmt:
		r.beginScope()
		r.Resolve(s.Stmts)
		r.endScope()

	case *IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *WhileStmt:
		r.resolveExpr(s.Cond)
		r.loopDepth++
		r.resolveStmt(s.Body)
		if s.Increment != nil {
			r.resolveExpr(s.Increment)
		}
		r.loopDepth--

	case *BreakStmt:
		if r.loopDepth == 0 {
			r.rep.ReportToken(s.Keyword, "'break' outside a loop")
		}

	case *ContinueStmt:
		if r.loopDepth == 0 {
			r.rep.ReportToken(s.Keyword, "'continue' outside a loop")
		}

	case *ReturnStmt:
		if r.currentFunc == funcNone {
			r.rep.ReportToken(s.Keyword, "'return' outside a function")
		}
		if s.Value != nil {
			if r.currentFunc == funcInitializer {
				r.rep.ReportToken(s.Keyword, "can't return a value from an initializer")
			}
			r.resolveExpr(s.Value)
		}

	case *FunctionStmt:
		// the name is usable inside the body, enabling recursion
		r.declare(*s.Fn.Name)
		r.define(*s.Fn.Name)
		r.resolveFunction(s.Fn, funcFunction)

	case *ClassStmt:
		enclosing := r.currentClass
		r.currentClass = classClass
		r.declare(s.Name)
		r.define(s.Name)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		for _, m := range s.Methods {
			kind := funcMethod
			if m.Name.Lexeme == "init" {
				kind = funcInitializer
			}
			r.resolveFunction(m, kind)
		}
		r.endScope()

		r.currentClass = enclosing
	}
}

// resolveFunction pushes the function's own scope, binds parameters, and
// resolves the body with the function-kind context switched.
func (r *Resolver) resolveFunction(fn *FunctionExpr, kind functionKind) {
	enclosing := r.currentFunc
	r.currentFunc = kind
	// break/continue can't cross a function boundary
	enclosingLoops := r.loopDepth
	r.loopDepth = 0

	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.Resolve(fn.Body)
	r.endScope()

	r.loopDepth = enclosingLoops
	r.currentFunc = enclosing
}

// ----- expressions -----

func (r *Resolver) resolveExpr(e Expr) {
	switch e := e.(type) {
	case *LiteralExpr:
		// nothing to resolve

	case *GroupingExpr:
		r.resolveExpr(e.Inner)

	case *UnaryExpr:
		r.resolveExpr(e.Operand)

	case *BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *CommaExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.rep.ReportToken(e.Name, "can't read variable '"+e.Name.Lexeme+"' in its own initializer")
			}
		}
		r.resolveLocal(e, e.Name)

	case *AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *GetExpr:
		r.resolveExpr(e.Object)

	case *SetExpr:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Value)

	case *FunctionExpr:
		// a named literal binds its own name in a wrapper scope so it can
		// call itself; the interpreter mirrors this with a wrapper env
		if e.Name != nil {
			r.beginScope()
			r.declare(*e.Name)
			r.define(*e.Name)
		}
		r.resolveFunction(e, funcFunction)
		if e.Name != nil {
			r.endScope()
		}

	case *ThisExpr:
		if r.currentClass == classNone {
			r.rep.ReportToken(e.Keyword, "'this' outside a class")
			return
		}
		r.resolveLocal(e, e.Keyword)
	}
}
