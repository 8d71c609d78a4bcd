package lumen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---------------------------------------------------------------

type runResult struct {
	out   string
	diags string
	rep   *Reporter
}

func runProgram(t *testing.T, src string) runResult {
	t.Helper()
	var out, diags bytes.Buffer
	r := NewRunner(&out, &diags)
	r.Run(src)
	return runResult{out: out.String(), diags: diags.String(), rep: r.Reporter()}
}

// wantOut runs src and requires clean execution with exactly the given
// printed lines.
func wantOut(t *testing.T, src string, lines ...string) {
	t.Helper()
	res := runProgram(t, src)
	require.False(t, res.rep.HadError(), "static errors: %s", res.diags)
	require.False(t, res.rep.HadRuntimeError(), "runtime errors: %s", res.diags)
	want := ""
	if len(lines) > 0 {
		want = strings.Join(lines, "\n") + "\n"
	}
	assert.Equal(t, want, res.out)
}

// wantRuntimeError runs src and requires a runtime failure mentioning msg.
func wantRuntimeError(t *testing.T, src, msg string) runResult {
	t.Helper()
	res := runProgram(t, src)
	require.False(t, res.rep.HadError(), "static errors: %s", res.diags)
	require.True(t, res.rep.HadRuntimeError(), "expected runtime error, got none; out=%q", res.out)
	assert.Contains(t, res.diags, msg)
	return res
}

// --- basics ----------------------------------------------------------------

func Test_Interpreter_PrintLiterals(t *testing.T) {
	wantOut(t, `print 1; print 2.5; print "hi"; print true; print nil;`,
		"1", "2.5", "hi", "true", "nil")
}

func Test_Interpreter_NumberFormatting_NoTrailingZero(t *testing.T) {
	wantOut(t, "print 6/2; print 0.5; print 10/4;", "3", "0.5", "2.5")
}

func Test_Interpreter_Arithmetic_Precedence(t *testing.T) {
	wantOut(t, "print 1 + 2 * 3; print 2 ** 3 ** 2; print 7 % 4; print -2 ** 2;",
		"7", "512", "3", "4")
}

func Test_Interpreter_StringConcat_EitherSide(t *testing.T) {
	wantOut(t, `print "a" + "b"; print "n=" + 4; print 4 + "!";`,
		"ab", "n=4", "4!")
}

func Test_Interpreter_PlusTypeMismatch(t *testing.T) {
	wantRuntimeError(t, "print true + 1;", "operands must be numbers or strings")
}

func Test_Interpreter_ComparisonRequiresNumbers(t *testing.T) {
	wantRuntimeError(t, `print "a" < "b";`, "operands must be numbers")
}

func Test_Interpreter_DivisionByZero_AbortsBeforePrint(t *testing.T) {
	res := wantRuntimeError(t, "print 1/0;", "division by zero")
	assert.Empty(t, res.out, "print must not produce output")
}

func Test_Interpreter_Equality_NoCoercion(t *testing.T) {
	wantOut(t, `print 1 == 1; print 1 == "1"; print nil == nil; print nil == false; print 1 != 2;`,
		"true", "false", "true", "false", "true")
}

func Test_Interpreter_Truthiness_ZeroIsFalsy(t *testing.T) {
	wantOut(t, `
if (0) print "yes"; else print "no";
if ("") print "empty string is truthy";
if (nil) print "never"; else print "nil falsy";`,
		"no", "empty string is truthy", "nil falsy")
}

func Test_Interpreter_ShortCircuit_YieldsOperandValues(t *testing.T) {
	wantOut(t, `print 0 or "x"; print 1 and 2; print nil and 1; print "a" or "b";`,
		"x", "2", "nil", "a")
}

func Test_Interpreter_ShortCircuit_SkipsRightSideEffects(t *testing.T) {
	wantOut(t, `
var n = 0;
fun bump() { n += 1; return true; }
false and bump();
true or bump();
print n;`,
		"0")
}

func Test_Interpreter_CommaOperator(t *testing.T) {
	wantOut(t, "print (1, 2);", "2")
}

// --- variables & scoping ---------------------------------------------------

func Test_Interpreter_BlockShadowing(t *testing.T) {
	wantOut(t, `
var a = 1;
{ var a = 2; print a; }
print a;`,
		"2", "1")
}

func Test_Interpreter_CompoundAssignment(t *testing.T) {
	wantOut(t, `
var a = 10;
a += 5; print a;
a -= 3; print a;
a *= 2; print a;
a /= 4; print a;`,
		"15", "12", "24", "6")
}

func Test_Interpreter_CompoundAssignment_ThroughClosure(t *testing.T) {
	wantOut(t, `
var total = 0;
fun add(n) { total += n; }
add(2); add(3);
print total;`,
		"5")
}

func Test_Interpreter_UndefinedVariable(t *testing.T) {
	wantRuntimeError(t, "print missing;", "undefined variable 'missing'")
	wantRuntimeError(t, "missing = 1;", "undefined variable 'missing'")
}

func Test_Interpreter_AssignmentEvaluatesToValue(t *testing.T) {
	wantOut(t, "var a = 0; print a = 3;", "3")
}

// --- functions & closures --------------------------------------------------

func Test_Interpreter_FunctionCall_And_Return(t *testing.T) {
	wantOut(t, `
fun add(a, b) { return a + b; }
print add(1, 2);`,
		"3")
}

func Test_Interpreter_FunctionWithoutReturn_YieldsNil(t *testing.T) {
	wantOut(t, "fun f() {} print f();", "nil")
}

func Test_Interpreter_Recursion(t *testing.T) {
	wantOut(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);`,
		"55")
}

func Test_Interpreter_Closures_IndependentCounters(t *testing.T) {
	wantOut(t, `
fun makeCounter() {
  var n = 0;
  return fun () { n += 1; return n; };
}
var a = makeCounter();
var b = makeCounter();
print a(); print a(); print a();
print b();`,
		"1", "2", "3", "1")
}

func Test_Interpreter_ClosureCapturesDefiningScope(t *testing.T) {
	// both closures share one defining frame
	wantOut(t, `
var get; var set;
{
  var shared = 1;
  set = fun (v) { shared = v; };
  get = fun () { return shared; };
}
set(42);
print get();`,
		"42")
}

func Test_Interpreter_NamedFunctionLiteral_SelfRecursion(t *testing.T) {
	wantOut(t, `
var f = fun fact(n) {
  if (n <= 1) return 1;
  return n * fact(n - 1);
};
print f(5);`,
		"120")
}

func Test_Interpreter_ArityMismatch(t *testing.T) {
	wantRuntimeError(t, "fun f(a, b) {} f(1);", "expected 2 arguments but got 1")
}

func Test_Interpreter_CallNonCallable(t *testing.T) {
	wantRuntimeError(t, `"abc"();`, "can only call functions and classes")
	wantRuntimeError(t, "123();", "can only call functions and classes")
}

func Test_Interpreter_FunctionsAreValues(t *testing.T) {
	wantOut(t, `
fun twice(f, x) { return f(f(x)); }
fun inc(n) { return n + 1; }
print twice(inc, 5);`,
		"7")
}

// --- control flow ----------------------------------------------------------

func Test_Interpreter_IfElse(t *testing.T) {
	wantOut(t, `
if (1 < 2) print "then"; else print "else";
if (1 > 2) print "then"; else print "else";`,
		"then", "else")
}

func Test_Interpreter_WhileLoop(t *testing.T) {
	wantOut(t, `
var i = 0;
while (i < 3) { print i; i += 1; }`,
		"0", "1", "2")
}

func Test_Interpreter_BreakContinue_InnermostLoopOnly(t *testing.T) {
	wantOut(t, `
var i = 0;
while (i < 2) {
  i += 1;
  var j = 0;
  while (j < 10) {
    j += 1;
    if (j == 2) continue;
    if (j > 3) break;
    print i * 10 + j;
  }
}`,
		"11", "13", "21", "23")
}

func Test_Interpreter_ForLoop(t *testing.T) {
	wantOut(t, `
for (var i = 0; i < 3; i += 1) print i;`,
		"0", "1", "2")
}

func Test_Interpreter_ForLoop_ContinueStillIncrements(t *testing.T) {
	wantOut(t, `
for (var i = 0; i < 5; i += 1) {
  if (i == 2) continue;
  print i;
}`,
		"0", "1", "3", "4")
}

func Test_Interpreter_ForLoop_BreakSkipsIncrement(t *testing.T) {
	wantOut(t, `
var steps = 0;
for (var i = 0; i < 10; steps += 1, i += 1) {
  if (i == 3) break;
}
print steps;`,
		"3")
}

func Test_Interpreter_ReturnUnwindsThroughLoop(t *testing.T) {
	wantOut(t, `
fun firstOver(limit) {
  for (var i = 0; ; i += 1) {
    if (i > limit) return i;
  }
}
print firstOver(4);`,
		"5")
}

// --- classes ---------------------------------------------------------------

func Test_Interpreter_Class_InitAndMethod(t *testing.T) {
	wantOut(t, `
class Thing {
  init(x) { this.x = x; }
  get() { return this.x; }
}
print Thing(5).get();`,
		"5")
}

func Test_Interpreter_Class_FieldsArePerInstance(t *testing.T) {
	wantOut(t, `
class Box { init(v) { this.v = v; } }
var a = Box(1);
var b = Box(2);
a.v = 10;
print a.v; print b.v;`,
		"10", "2")
}

func Test_Interpreter_Class_UndefinedProperty(t *testing.T) {
	wantRuntimeError(t, `
class Thing {}
print Thing().missing;`,
		"undefined property 'missing'")
}

func Test_Interpreter_Class_SetCreatesField(t *testing.T) {
	wantOut(t, `
class Bag {}
var b = Bag();
b.weight = 3;
print b.weight;`,
		"3")
}

func Test_Interpreter_Class_MethodsBindThis(t *testing.T) {
	wantOut(t, `
class Greeter {
  init(name) { this.name = name; }
  greet() { return "hello " + this.name; }
}
var m = Greeter("ada").greet;
print m();`,
		"hello ada")
}

func Test_Interpreter_Class_InitReturnsInstance(t *testing.T) {
	wantOut(t, `
class C {
  init() { this.ok = true; return; }
}
var c = C();
print c.ok;
print c.init().ok;`,
		"true", "true")
}

func Test_Interpreter_Class_ArityFromInit(t *testing.T) {
	wantRuntimeError(t, `
class P { init(a, b) {} }
P(1);`,
		"expected 2 arguments but got 1")
}

func Test_Interpreter_PropertyOnNonInstance(t *testing.T) {
	wantRuntimeError(t, "print 1.foo;", "only instances have properties")
	wantRuntimeError(t, `"s".x = 1;`, "only instances have fields")
}

func Test_Interpreter_Class_Stringify(t *testing.T) {
	wantOut(t, `
class Thing {}
print Thing;
print Thing();`,
		"Thing", "Thing instance")
}

// --- orchestration ---------------------------------------------------------

func Test_Runner_StaticErrorBlocksExecution(t *testing.T) {
	res := runProgram(t, "print 1;\nvar = oops;")
	assert.True(t, res.rep.HadError())
	assert.Empty(t, res.out, "interpreter must not run after static errors")
}

func Test_Runner_RuntimeErrorReportsLine(t *testing.T) {
	res := wantRuntimeError(t, "var a = 1;\nprint a + nil;", "operands must be numbers")
	assert.Contains(t, res.diags, "[line 2]")
}

func Test_Runner_RuntimeErrorAbortsRemainingStatements(t *testing.T) {
	res := wantRuntimeError(t, `print "before"; print 1/0; print "after";`, "division by zero")
	assert.Equal(t, "before\n", res.out)
}

func Test_Runner_FreshRunAfterRuntimeError(t *testing.T) {
	var out, diags bytes.Buffer
	r := NewRunner(&out, &diags)

	r.Run("var a = 1; print 1/0;")
	require.True(t, r.Reporter().HadRuntimeError())

	r.Run("print a + 1;")
	assert.False(t, r.Reporter().HadRuntimeError(), "flags reset per run")
	assert.Contains(t, out.String(), "2\n", "globals survive a failed run")
}

func Test_Runner_GlobalsPersistAcrossRuns(t *testing.T) {
	var out, diags bytes.Buffer
	r := NewRunner(&out, &diags)
	r.Run("var greeting = \"hi\";")
	r.Run("print greeting;")
	assert.Equal(t, "hi\n", out.String())
}
