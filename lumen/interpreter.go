// interpreter.go — the tree-walking evaluator.
//
// The interpreter executes a resolved statement tree against a chain of
// environments. Variable references and assignments never search: when the
// resolver recorded a lexical distance for a node the access goes straight
// to that ancestor frame, otherwise it goes to globals.
//
// Two channels propagate up the execution: ordinary Go errors carry
// *RuntimeError (type mismatches, bad calls, undefined names), and a small
// control struct carries the loop/function unwind signals (return, break,
// continue). Keeping the two apart means a catch-all error path can never
// swallow a break or misreport a return.
package lumen

import (
	"errors"
	"io"
	"math"
	"os"
)

type ctrlKind int

const (
	ctrlNone ctrlKind = iota
	ctrlReturn
	ctrlBreak
	ctrlContinue
)

// control is the non-error unwind signal. The zero value means normal
// completion.
type control struct {
	kind  ctrlKind
	value Value // only for ctrlReturn
}

// Interpreter executes resolved statement trees. One interpreter can serve
// many Interpret calls (the REPL does this); globals persist across runs.
type Interpreter struct {
	globals *Env
	env     *Env
	locals  map[Expr]int
	out     io.Writer
}

// NewInterpreter builds an interpreter whose globals hold the native
// standard library. Print output goes to out (stdout when nil).
func NewInterpreter(out io.Writer) *Interpreter {
	if out == nil {
		out = os.Stdout
	}
	globals := NewEnv(nil)
	registerCoreBuiltins(globals)
	registerTimeBuiltins(globals)
	return &Interpreter{
		globals: globals,
		env:     globals,
		locals:  make(map[Expr]int),
		out:     out,
	}
}

// Globals exposes the global frame so hosts can register extra natives.
func (ip *Interpreter) Globals() *Env { return ip.globals }

// bindLocal records the resolver's lexical distance for a reference node.
func (ip *Interpreter) bindLocal(e Expr, depth int) {
	ip.locals[e] = depth
}

// Interpret executes statements top to bottom. A runtime error aborts the
// remaining statements of this call and is reported through rep; global
// state stays usable for a subsequent fresh run.
func (ip *Interpreter) Interpret(stmts []Stmt, rep *Reporter) {
	for _, s := range stmts {
		// top-level break/continue/return were rejected by the resolver,
		// so any control signal reaching here is ignored
		if _, err := ip.exec(s); err != nil {
			var rte *RuntimeError
			if errors.As(err, &rte) {
				rep.ReportRuntime(rte)
			} else {
				rep.ReportRuntime(&RuntimeError{Msg: err.Error()})
			}
			return
		}
	}
}

// ----- statement execution -----

func (ip *Interpreter) exec(s Stmt) (control, error) {
	switch s := s.(type) {
	case *ExpressionStmt:
		_, err := ip.eval(s.Expr)
		return control{}, err

	case *PrintStmt:
		v, err := ip.eval(s.Expr)
		if err != nil {
			return control{}, err
		}
		_, err = io.WriteString(ip.out, Stringify(v)+"\n")
		return control{}, err

	case *VarStmt:
		v := Nil
		if s.Init != nil {
			var err error
			if v, err = ip.eval(s.Init); err != nil {
				return control{}, err
			}
		}
		ip.env.Define(s.Name.Lexeme, v)
		return control{}, nil

	case *BlockStmt:
		return ip.executeBlock(s.Stmts, NewEnv(ip.env))

	case *IfStmt:
		cond, err := ip.eval(s.Cond)
		if err != nil {
			return control{}, err
		}
		if Truthy(cond) {
			return ip.exec(s.Then)
		}
		if s.Else != nil {
			return ip.exec(s.Else)
		}
		return control{}, nil

	case *WhileStmt:
		return ip.execWhile(s)

	case *BreakStmt:
		return control{kind: ctrlBreak}, nil

	case *ContinueStmt:
		return control{kind: ctrlContinue}, nil

	case *ReturnStmt:
		v := Nil
		if s.Value != nil {
			var err error
			if v, err = ip.eval(s.Value); err != nil {
				return control{}, err
			}
		}
		return control{kind: ctrlReturn, value: v}, nil

	case *FunctionStmt:
		fn := NewFunction(s.Fn, ip.env, false)
		ip.env.Define(s.Fn.Name.Lexeme, FunVal(fn))
		return control{}, nil

	case *ClassStmt:
		methods := make(map[string]*Function, len(s.Methods))
		for _, m := range s.Methods {
			methods[m.Name.Lexeme] = NewFunction(m, ip.env, m.Name.Lexeme == "init")
		}
		ip.env.Define(s.Name.Lexeme, ClassVal(NewClass(s.Name.Lexeme, methods)))
		return control{}, nil
	}
	return control{}, nil
}

// execWhile runs the loop, absorbing break and continue from its own body.
// The desugar-only increment runs after every iteration, including ones cut
// short by continue; break skips it.
func (ip *Interpreter) execWhile(s *WhileStmt) (control, error) {
	for {
		cond, err := ip.eval(s.Cond)
		if err != nil {
			return control{}, err
		}
		if !Truthy(cond) {
			return control{}, nil
		}

		ctrl, err := ip.exec(s.Body)
		if err != nil {
			return control{}, err
		}
		switch ctrl.kind {
		case ctrlBreak:
			return control{}, nil
		case ctrlReturn:
			return ctrl, nil
		}

		if s.Increment != nil {
			if _, err := ip.eval(s.Increment); err != nil {
				return control{}, err
			}
		}
	}
}

// executeBlock runs statements in the given environment, restoring the
// previous one on the way out. Control signals propagate to the caller.
func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) (control, error) {
	prev := ip.env
	ip.env = env
	defer func() { ip.env = prev }()

	for _, s := range stmts {
		ctrl, err := ip.exec(s)
		if err != nil {
			return control{}, err
		}
		if ctrl.kind != ctrlNone {
			return ctrl, nil
		}
	}
	return control{}, nil
}

// ----- expression evaluation -----

func (ip *Interpreter) eval(e Expr) (Value, error) {
	switch e := e.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *GroupingExpr:
		return ip.eval(e.Inner)

	case *UnaryExpr:
		operand, err := ip.eval(e.Operand)
		if err != nil {
			return Nil, err
		}
		switch e.Op.Type {
		case MINUS:
			if operand.Tag != VTNum {
				return Nil, runtimeErr(e.Op, "operand must be a number")
			}
			return Num(-operand.Data.(float64)), nil
		case BANG:
			return Bool(!Truthy(operand)), nil
		}
		return Nil, runtimeErr(e.Op, "unknown unary operator")

	case *BinaryExpr:
		left, err := ip.eval(e.Left)
		if err != nil {
			return Nil, err
		}
		right, err := ip.eval(e.Right)
		if err != nil {
			return Nil, err
		}
		return applyBinary(e.Op, e.Op.Type, left, right)

	case *LogicalExpr:
		left, err := ip.eval(e.Left)
		if err != nil {
			return Nil, err
		}
		// short-circuit: yield the deciding operand's value, uncoerced
		if e.Op.Type == OR {
			if Truthy(left) {
				return left, nil
			}
		} else {
			if !Truthy(left) {
				return left, nil
			}
		}
		return ip.eval(e.Right)

	case *CommaExpr:
		if _, err := ip.eval(e.Left); err != nil {
			return Nil, err
		}
		return ip.eval(e.Right)

	case *VariableExpr:
		return ip.lookupVariable(e.Name, e)

	case *AssignExpr:
		return ip.evalAssign(e)

	case *CallExpr:
		return ip.evalCall(e)

	case *GetExpr:
		obj, err := ip.eval(e.Object)
		if err != nil {
			return Nil, err
		}
		if obj.Tag != VTInstance {
			return Nil, runtimeErr(e.Name, "only instances have properties")
		}
		v, ok := obj.Data.(*Instance).Get(e.Name.Lexeme)
		if !ok {
			return Nil, runtimeErr(e.Name, "undefined property '%s'", e.Name.Lexeme)
		}
		return v, nil

	case *SetExpr:
		obj, err := ip.eval(e.Object)
		if err != nil {
			return Nil, err
		}
		if obj.Tag != VTInstance {
			return Nil, runtimeErr(e.Name, "only instances have fields")
		}
		v, err := ip.eval(e.Value)
		if err != nil {
			return Nil, err
		}
		obj.Data.(*Instance).Set(e.Name.Lexeme, v)
		return v, nil

	case *FunctionExpr:
		closure := ip.env
		if e.Name != nil {
			// a wrapper frame binds the literal's own name so the body can
			// recurse; mirrors the resolver's wrapper scope
			closure = NewEnv(ip.env)
		}
		fn := NewFunction(e, closure, false)
		if e.Name != nil {
			closure.Define(e.Name.Lexeme, FunVal(fn))
		}
		return FunVal(fn), nil

	case *ThisExpr:
		return ip.lookupVariable(e.Keyword, e)
	}
	return Nil, nil
}

// lookupVariable reads through the resolved distance when the resolver
// recorded one, otherwise through globals.
func (ip *Interpreter) lookupVariable(name Token, e Expr) (Value, error) {
	if d, ok := ip.locals[e]; ok {
		return ip.env.GetAt(d, name.Lexeme), nil
	}
	v, err := ip.globals.Get(name.Lexeme)
	if err != nil {
		return Nil, runtimeErr(name, "%s", err.Error())
	}
	return v, nil
}

// evalAssign handles plain and compound assignment. Compound forms read the
// current value through the same resolved-distance path before combining.
func (ip *Interpreter) evalAssign(e *AssignExpr) (Value, error) {
	v, err := ip.eval(e.Value)
	if err != nil {
		return Nil, err
	}

	if e.Op.Type != EQ {
		var base TokenType
		switch e.Op.Type {
		case PLUS_EQ:
			base = PLUS
		case MINUS_EQ:
			base = MINUS
		case STAR_EQ:
			base = STAR
		case SLASH_EQ:
			base = SLASH
		}
		cur, err := ip.lookupVariable(e.Name, e)
		if err != nil {
			return Nil, err
		}
		if v, err = applyBinary(e.Op, base, cur, v); err != nil {
			return Nil, err
		}
	}

	if d, ok := ip.locals[e]; ok {
		ip.env.SetAt(d, e.Name.Lexeme, v)
		return v, nil
	}
	if err := ip.globals.Set(e.Name.Lexeme, v); err != nil {
		return Nil, runtimeErr(e.Name, "%s", err.Error())
	}
	return v, nil
}

func (ip *Interpreter) evalCall(e *CallExpr) (Value, error) {
	callee, err := ip.eval(e.Callee)
	if err != nil {
		return Nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := ip.eval(a)
		if err != nil {
			return Nil, err
		}
		args = append(args, v)
	}

	var fn Callable
	switch callee.Tag {
	case VTFun:
		fn = callee.Data.(Callable)
	case VTClass:
		fn = callee.Data.(*Class)
	default:
		return Nil, runtimeErr(e.Paren, "can only call functions and classes")
	}

	if len(args) != fn.Arity() {
		return Nil, runtimeErr(e.Paren, "expected %d arguments but got %d", fn.Arity(), len(args))
	}
	v, err := fn.Call(ip, args)
	if err != nil {
		// native failures come back as plain errors; anchor them here
		var rte *RuntimeError
		if !errors.As(err, &rte) {
			return Nil, runtimeErr(e.Paren, "%s", err.Error())
		}
		return Nil, err
	}
	return v, nil
}

// applyBinary implements the binary operator table; op anchors errors and
// kind selects the operation (compound assignment maps += onto PLUS, etc.).
func applyBinary(op Token, kind TokenType, left, right Value) (Value, error) {
	bothNums := left.Tag == VTNum && right.Tag == VTNum

	switch kind {
	case PLUS:
		if bothNums {
			return Num(left.Data.(float64) + right.Data.(float64)), nil
		}
		// either side being a string makes + concatenation
		if left.Tag == VTStr || right.Tag == VTStr {
			return Str(Stringify(left) + Stringify(right)), nil
		}
		return Nil, runtimeErr(op, "operands must be numbers or strings")

	case MINUS, STAR, SLASH, PERCENT, STARSTAR:
		if !bothNums {
			return Nil, runtimeErr(op, "operands must be numbers")
		}
		l, r := left.Data.(float64), right.Data.(float64)
		switch kind {
		case MINUS:
			return Num(l - r), nil
		case STAR:
			return Num(l * r), nil
		case SLASH:
			if r == 0 {
				return Nil, runtimeErr(op, "division by zero")
			}
			return Num(l / r), nil
		case PERCENT:
			return Num(math.Mod(l, r)), nil
		default: // STARSTAR
			return Num(math.Pow(l, r)), nil
		}

	case LESS, LESS_EQ, GREATER, GREATER_EQ:
		if !bothNums {
			return Nil, runtimeErr(op, "operands must be numbers")
		}
		l, r := left.Data.(float64), right.Data.(float64)
		switch kind {
		case LESS:
			return Bool(l < r), nil
		case LESS_EQ:
			return Bool(l <= r), nil
		case GREATER:
			return Bool(l > r), nil
		default:
			return Bool(l >= r), nil
		}

	case EQ_EQ:
		return Bool(Equal(left, right)), nil
	case BANG_EQ:
		return Bool(!Equal(left, right)), nil
	}
	return Nil, runtimeErr(op, "unknown binary operator")
}
