// ast.go — syntax tree node types shared by the parser, resolver,
// interpreter and printer.
//
// The node set is closed, so each family is a sealed interface (the
// unexported marker method keeps outside packages from adding variants) and
// every consumer dispatches with a type switch. Nodes carry the tokens later
// stages need for error reporting; they hold no behavior of their own.
package lumen

// Expr is the expression node family.
type Expr interface{ isExpr() }

type LiteralExpr struct {
	Value Value
}

type GroupingExpr struct {
	Inner Expr
}

type UnaryExpr struct {
	Op      Token
	Operand Expr
}

type BinaryExpr struct {
	Op    Token
	Left  Expr
	Right Expr
}

// LogicalExpr is kept apart from BinaryExpr because "and"/"or" short-circuit
// and yield operand values rather than coerced booleans.
type LogicalExpr struct {
	Op    Token
	Left  Expr
	Right Expr
}

// CommaExpr evaluates both operands and yields the right one.
type CommaExpr struct {
	Left  Expr
	Right Expr
}

type VariableExpr struct {
	Name Token
}

// AssignExpr writes Value into the binding named by Name. For compound forms
// (+=, -=, *=, /=) Op is the compound token and the current value is read
// through the same resolved path before combining; for plain "=" Op.Type is
// EQ.
type AssignExpr struct {
	Name  Token
	Op    Token
	Value Expr
}

type CallExpr struct {
	Callee Expr
	Paren  Token // closing ')', anchors call-site errors
	Args   []Expr
}

type GetExpr struct {
	Object Expr
	Name   Token
}

type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

// FunctionExpr is both the anonymous function literal and the payload of
// function/method declarations; functions are first-class values and the
// two forms share one representation.
type FunctionExpr struct {
	Name   *Token // nil for anonymous literals
	Params []Token
	Body   []Stmt
}

type ThisExpr struct {
	Keyword Token
}

func (*LiteralExpr) isExpr()  {}
func (*GroupingExpr) isExpr() {}
func (*UnaryExpr) isExpr()    {}
func (*BinaryExpr) isExpr()   {}
func (*LogicalExpr) isExpr()  {}
func (*CommaExpr) isExpr()    {}
func (*VariableExpr) isExpr() {}
func (*AssignExpr) isExpr()   {}
func (*CallExpr) isExpr()     {}
func (*GetExpr) isExpr()      {}
func (*SetExpr) isExpr()      {}
func (*FunctionExpr) isExpr() {}
func (*ThisExpr) isExpr()     {}

// Stmt is the statement node family.
type Stmt interface{ isStmt() }

type ExpressionStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

type VarStmt struct {
	Name Token
	Init Expr // nil when declared without an initializer
}

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

// WhileStmt executes Body while Cond is truthy. Increment is only set by the
// for-loop desugaring: it runs after the body on every iteration, including
// ones cut short by continue, which keeps desugared for loops advancing.
type WhileStmt struct {
	Cond      Expr
	Body      Stmt
	Increment Expr // nil except for desugared for loops
}

type BreakStmt struct {
	Keyword Token
}

type ContinueStmt struct {
	Keyword Token
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr // nil for bare "return;"
}

// FunctionStmt names a FunctionExpr in the enclosing scope.
type FunctionStmt struct {
	Fn *FunctionExpr // Fn.Name is always non-nil here
}

type ClassStmt struct {
	Name    Token
	Methods []*FunctionExpr
}

func (*ExpressionStmt) isStmt() {}
func (*PrintStmt) isStmt()      {}
func (*VarStmt) isStmt()        {}
func (*BlockStmt) isStmt()      {}
func (*IfStmt) isStmt()         {}
func (*WhileStmt) isStmt()      {}
func (*BreakStmt) isStmt()      {}
func (*ContinueStmt) isStmt()   {}
func (*ReturnStmt) isStmt()     {}
func (*FunctionStmt) isStmt()   {}
func (*ClassStmt) isStmt()      {}
