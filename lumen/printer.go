// printer.go — debug printer rendering the syntax tree as parenthesized
// prefix forms, one top-level statement per line. Used by "lumen ast" and
// by tests that assert on tree shape.
package lumen

import (
	"fmt"
	"strings"
)

// PrintProgram renders every statement on its own line.
func PrintProgram(stmts []Stmt) string {
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(PrintStmtNode(s))
		b.WriteByte('\n')
	}
	return b.String()
}

func PrintStmtNode(s Stmt) string {
	switch s := s.(type) {
	case *ExpressionStmt:
		return "(expr " + PrintExpr(s.Expr) + ")"
	case *PrintStmt:
		return "(print " + PrintExpr(s.Expr) + ")"
	case *VarStmt:
		if s.Init == nil {
			return "(var " + s.Name.Lexeme + ")"
		}
		return "(var " + s.Name.Lexeme + " " + PrintExpr(s.Init) + ")"
	case *BlockStmt:
		parts := make([]string, 0, len(s.Stmts)+1)
		parts = append(parts, "(block")
		for _, inner := range s.Stmts {
			parts = append(parts, PrintStmtNode(inner))
		}
		return strings.Join(parts, " ") + ")"
	case *IfStmt:
		out := "(if " + PrintExpr(s.Cond) + " " + PrintStmtNode(s.Then)
		if s.Else != nil {
			out += " " + PrintStmtNode(s.Else)
		}
		return out + ")"
	case *WhileStmt:
		out := "(while " + PrintExpr(s.Cond) + " " + PrintStmtNode(s.Body)
		if s.Increment != nil {
			out += " " + PrintExpr(s.Increment)
		}
		return out + ")"
	case *BreakStmt:
		return "(break)"
	case *ContinueStmt:
		return "(continue)"
	case *ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return "(return " + PrintExpr(s.Value) + ")"
	case *FunctionStmt:
		return printFunction(s.Fn)
	case *ClassStmt:
		parts := []string{"(class " + s.Name.Lexeme}
		for _, m := range s.Methods {
			parts = append(parts, printFunction(m))
		}
		return strings.Join(parts, " ") + ")"
	}
	return "(?)"
}

func PrintExpr(e Expr) string {
	switch e := e.(type) {
	case *LiteralExpr:
		if e.Value.Tag == VTStr {
			return fmt.Sprintf("%q", e.Value.Data.(string))
		}
		return Stringify(e.Value)
	case *GroupingExpr:
		return "(group " + PrintExpr(e.Inner) + ")"
	case *UnaryExpr:
		return "(" + e.Op.Lexeme + " " + PrintExpr(e.Operand) + ")"
	case *BinaryExpr:
		return "(" + e.Op.Lexeme + " " + PrintExpr(e.Left) + " " + PrintExpr(e.Right) + ")"
	case *LogicalExpr:
		return "(" + e.Op.Lexeme + " " + PrintExpr(e.Left) + " " + PrintExpr(e.Right) + ")"
	case *CommaExpr:
		return "(, " + PrintExpr(e.Left) + " " + PrintExpr(e.Right) + ")"
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return "(" + e.Op.Lexeme + " " + e.Name.Lexeme + " " + PrintExpr(e.Value) + ")"
	case *CallExpr:
		parts := []string{"(call", PrintExpr(e.Callee)}
		for _, a := range e.Args {
			parts = append(parts, PrintExpr(a))
		}
		return strings.Join(parts, " ") + ")"
	case *GetExpr:
		return "(get " + PrintExpr(e.Object) + " " + e.Name.Lexeme + ")"
	case *SetExpr:
		return "(set " + PrintExpr(e.Object) + " " + e.Name.Lexeme + " " + PrintExpr(e.Value) + ")"
	case *FunctionExpr:
		return printFunction(e)
	case *ThisExpr:
		return "this"
	}
	return "?"
}

func printFunction(fn *FunctionExpr) string {
	name := ""
	if fn.Name != nil {
		name = " " + fn.Name.Lexeme
	}
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = p.Lexeme
	}
	parts := []string{"(fun" + name + " (" + strings.Join(params, " ") + ")"}
	for _, s := range fn.Body {
		parts = append(parts, PrintStmtNode(s))
	}
	return strings.Join(parts, " ") + ")"
}
