package lumen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSrc(t *testing.T, src string) ([]Stmt, *Reporter, string) {
	t.Helper()
	var diags bytes.Buffer
	rep := NewReporter(&diags)
	tokens := NewLexer(src, rep).Scan()
	stmts := NewParser(tokens, rep).Parse()
	return stmts, rep, diags.String()
}

// firstExpr parses a single expression statement and returns its printed
// shape.
func firstExpr(t *testing.T, src string) string {
	t.Helper()
	stmts, rep, diags := parseSrc(t, src)
	require.False(t, rep.HadError(), "unexpected parse errors: %s", diags)
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(*ExpressionStmt)
	require.True(t, ok, "want expression statement, got %T", stmts[0])
	return PrintExpr(es.Expr)
}

func Test_Parser_MultiplicativeBindsTighterThanAdditive(t *testing.T) {
	assert.Equal(t, "(+ 1 (* 2 3))", firstExpr(t, "1+2*3;"))
}

func Test_Parser_ModuloBindsTighterThanMultiplicative(t *testing.T) {
	assert.Equal(t, "(* (% 10 4) 2)", firstExpr(t, "10 % 4 * 2;"))
}

func Test_Parser_ExponentBindsTighterThanModulo_AndIsRightAssociative(t *testing.T) {
	assert.Equal(t, "(% 10 (** 2 2))", firstExpr(t, "10 % 2 ** 2;"))
	assert.Equal(t, "(** 2 (** 3 2))", firstExpr(t, "2 ** 3 ** 2;"))
}

func Test_Parser_UnaryBindsTighterThanExponent(t *testing.T) {
	assert.Equal(t, "(** (- 2) 2)", firstExpr(t, "-2 ** 2;"))
}

func Test_Parser_Comparison_And_Equality(t *testing.T) {
	assert.Equal(t, "(== (< 1 2) true)", firstExpr(t, "1 < 2 == true;"))
}

func Test_Parser_Logical_OrLowerThanAnd(t *testing.T) {
	assert.Equal(t, "(or (and a b) c)", firstExpr(t, "a and b or c;"))
}

func Test_Parser_Comma_LowestPrecedence(t *testing.T) {
	assert.Equal(t, "(, (= a 1) (= b 2))", firstExpr(t, "a = 1, b = 2;"))
}

func Test_Parser_Assignment_RightAssociative(t *testing.T) {
	assert.Equal(t, "(= a (= b 1))", firstExpr(t, "a = b = 1;"))
}

func Test_Parser_CompoundAssignment(t *testing.T) {
	assert.Equal(t, "(+= a 1)", firstExpr(t, "a += 1;"))
	assert.Equal(t, "(/= a (+ b 1))", firstExpr(t, "a /= b + 1;"))
}

func Test_Parser_CompoundAssignment_PropertyTargetRejected(t *testing.T) {
	_, rep, diags := parseSrc(t, "a.b += 1;")
	assert.True(t, rep.HadError())
	assert.Contains(t, diags, "compound assignment target must be a variable")
}

func Test_Parser_InvalidAssignmentTarget_Reported(t *testing.T) {
	_, rep, diags := parseSrc(t, "1 = 2;")
	assert.True(t, rep.HadError())
	assert.Contains(t, diags, "invalid assignment target")
}

func Test_Parser_SetTarget_PropertyAssignment(t *testing.T) {
	assert.Equal(t, "(set a b 1)", firstExpr(t, "a.b = 1;"))
}

func Test_Parser_CallChains_LeftAssociative(t *testing.T) {
	assert.Equal(t, "(call (get (call f 1) g) 2)", firstExpr(t, "f(1).g(2);"))
}

func Test_Parser_CallArguments_AtAssignmentLevel(t *testing.T) {
	// a bare comma separates arguments; a parenthesized comma is one
	assert.Equal(t, "(call f 1 2)", firstExpr(t, "f(1, 2);"))
	assert.Equal(t, "(call f (group (, 1 2)))", firstExpr(t, "f((1, 2));"))
}

func Test_Parser_FunctionLiteral_AnonymousAndNamed(t *testing.T) {
	assert.Equal(t, "(fun (x) (return x))", firstExpr(t, "fun (x) { return x; };"))

	// "fun name" at statement start is a declaration, so the named literal
	// form shows up in initializer position
	stmts, rep, diags := parseSrc(t, "var f = fun self(n) { return self(n); };")
	require.False(t, rep.HadError(), diags)
	require.Len(t, stmts, 1)
	assert.Equal(t, "(var f (fun self (n) (return (call self n))))",
		PrintStmtNode(stmts[0]))
}

func Test_Parser_ForLoop_DesugarsToWhile(t *testing.T) {
	stmts, rep, diags := parseSrc(t, "for (var i = 0; i < 3; i += 1) print i;")
	require.False(t, rep.HadError(), diags)
	require.Len(t, stmts, 1)
	assert.Equal(t,
		"(block (var i 0) (while (< i 3) (print i) (+= i 1)))",
		PrintStmtNode(stmts[0]))
}

func Test_Parser_ForLoop_OmittedClausesDefaultToTrue(t *testing.T) {
	stmts, rep, diags := parseSrc(t, "for (;;) break;")
	require.False(t, rep.HadError(), diags)
	require.Len(t, stmts, 1)
	assert.Equal(t, "(while true (break))", PrintStmtNode(stmts[0]))
}

func Test_Parser_ClassBody_MethodsAndInit(t *testing.T) {
	stmts, rep, diags := parseSrc(t, `
class Thing {
  init(x) { this.x = x; }
  get() { return this.x; }
}`)
	require.False(t, rep.HadError(), diags)
	require.Len(t, stmts, 1)
	cs, ok := stmts[0].(*ClassStmt)
	require.True(t, ok)
	require.Len(t, cs.Methods, 2)
	assert.Equal(t, "init", cs.Methods[0].Name.Lexeme)
	assert.Equal(t, "get", cs.Methods[1].Name.Lexeme)
}

func Test_Parser_ArgumentCap_ReportedNotFatal(t *testing.T) {
	stmts, rep, diags := parseSrc(t, "f(1,2,3,4,5,6,7,8,9);")
	assert.True(t, rep.HadError())
	assert.Contains(t, diags, "more than 8 arguments")
	// parse finished anyway
	require.Len(t, stmts, 1)
}

func Test_Parser_ParameterCap_Reported(t *testing.T) {
	_, rep, diags := parseSrc(t, "fun f(a,b,c,d,e,f,g,h,i) {}")
	assert.True(t, rep.HadError())
	assert.Contains(t, diags, "more than 8 parameters")
}

func Test_Parser_SynchronizesAtStatementBoundary(t *testing.T) {
	// two separate errors in one run: the parser resumed after the first
	_, rep, diags := parseSrc(t, "var = 1;\nprint 2;\nvar = 3;")
	assert.True(t, rep.HadError())
	assert.Equal(t, 2, strings.Count(diags, "expected variable name"))
}

func Test_Parser_ErrorAtEndOfInput(t *testing.T) {
	_, rep, diags := parseSrc(t, "print 1")
	assert.True(t, rep.HadError())
	assert.Contains(t, diags, "at end")
}
