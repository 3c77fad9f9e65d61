package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadir014/Dust/ast"
	"github.com/kadir014/Dust/diag"
	"github.com/kadir014/Dust/lexer"
)

func parseSource(t *testing.T, src string) *ast.Body {
	t.Helper()
	r := diag.New(true)
	exited := false
	r.Exit = func(int) { exited = true }

	toks := lexer.New([]rune(src), "<test>", r).Tokenize()
	body := ParseProgram(toks, "<test>", r)
	require.False(t, exited, "parser raised a diagnostic unexpectedly")
	return body
}

func parseSourceExpectError(t *testing.T, src string) int {
	t.Helper()
	r := diag.New(true)
	exitCode := -1
	r.Exit = func(code int) { exitCode = code }

	toks := lexer.New([]rune(src), "<test>", r).Tokenize()
	ParseProgram(toks, "<test>", r)
	return exitCode
}

func TestFinalStatementTerminatedByEndOfInputIsAccepted(t *testing.T) {
	// The lexer rewrites a trailing ';' to EndOfInput in place, so the
	// last statement of any program ending in ';' must be accepted
	// there, not only on a literal StmtSep.
	body := parseSource(t, "int x = 1 + 2 * 3;")
	require.Len(t, body.Statements, 1)
	_, ok := body.Statements[0].(*ast.Decl)
	assert.True(t, ok)
}

func TestEmptySourceYieldsEmptyBody(t *testing.T) {
	body := parseSource(t, "")
	assert.Empty(t, body.Statements)
}

func TestDeclWithInitializer(t *testing.T) {
	body := parseSource(t, "int32 x = 5;")
	require.Len(t, body.Statements, 1)

	decl, ok := body.Statements[0].(*ast.Decl)
	require.True(t, ok, "expected *ast.Decl, got %T", body.Statements[0])
	assert.Equal(t, "x", decl.Name)

	typ, ok := decl.Type.(*ast.Primitive)
	require.True(t, ok)
	assert.Equal(t, "int32", typ.Name)

	val, ok := decl.Init.(*ast.Integer)
	require.True(t, ok)
	assert.Equal(t, int64(5), val.Value)
}

func TestDeclNoInit(t *testing.T) {
	body := parseSource(t, "string name;")
	require.Len(t, body.Statements, 1)

	decl, ok := body.Statements[0].(*ast.DeclNoInit)
	require.True(t, ok, "expected *ast.DeclNoInit, got %T", body.Statements[0])
	assert.Equal(t, "name", decl.Name)
}

func TestGenericDecl(t *testing.T) {
	body := parseSource(t, "list<int32, string> xs;")
	require.Len(t, body.Statements, 1)

	decl, ok := body.Statements[0].(*ast.DeclNoInit)
	require.True(t, ok)

	gt, ok := decl.Type.(*ast.GenType)
	require.True(t, ok, "expected *ast.GenType, got %T", decl.Type)
	assert.Equal(t, "list", gt.Base)
	require.Len(t, gt.Args, 2)
}

func TestAssignOperators(t *testing.T) {
	for _, op := range []string{"=", "+=", "-=", "*=", "/=", "^=", "%="} {
		src := "x " + op + " 1;"
		body := parseSource(t, src)
		require.Len(t, body.Statements, 1, "source %q", src)

		assign, ok := body.Statements[0].(*ast.Assign)
		require.True(t, ok, "source %q: expected *ast.Assign, got %T", src, body.Statements[0])
		assert.Equal(t, op, assign.Op)
	}
}

func TestBinaryOperatorPrecedence(t *testing.T) {
	// "1 + 2 * 3" should parse as 1 + (2 * 3): the BinOp for '+' has a
	// BinOp('*') on its right, not its left.
	body := parseSource(t, "x = 1 + 2 * 3;")
	assign := body.Statements[0].(*ast.Assign)
	add, ok := assign.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Add, add.Op)

	_, leftIsInt := add.Left.(*ast.Integer)
	assert.True(t, leftIsInt)

	mul, ok := add.Right.(*ast.BinOp)
	require.True(t, ok)
	assert.Equal(t, ast.Mul, mul.Op)
}

func TestUnaryMinus(t *testing.T) {
	body := parseSource(t, "x = -1;")
	assign := body.Statements[0].(*ast.Assign)
	un, ok := assign.Right.(*ast.UnaryOp)
	require.True(t, ok)
	assert.Equal(t, ast.Sub, un.Op)
}

func TestFloatFusion(t *testing.T) {
	body := parseSource(t, "x = 3.14;")
	assign := body.Statements[0].(*ast.Assign)
	f, ok := assign.Right.(*ast.Float)
	require.True(t, ok, "expected *ast.Float, got %T", assign.Right)
	assert.InDelta(t, 3.14, f.Value, 1e-9)
}

func TestPostfixChainCallSubscriptMember(t *testing.T) {
	body := parseSource(t, "x = foo(1)[0].bar;")
	assign := body.Statements[0].(*ast.Assign)

	child, ok := assign.Right.(*ast.Child)
	require.True(t, ok, "expected *ast.Child, got %T", assign.Right)

	sub, ok := child.Parent.(*ast.Subscript)
	require.True(t, ok, "expected *ast.Subscript, got %T", child.Parent)

	call, ok := sub.Base.(*ast.Call)
	require.True(t, ok, "expected *ast.Call, got %T", sub.Base)

	callee, ok := call.Callee.(*ast.FuncBase)
	require.True(t, ok, "expected *ast.FuncBase, got %T", call.Callee)
	assert.Equal(t, "foo", callee.Name)
}

func TestPostfixChainMemberThenSubscriptIsLeftAssociative(t *testing.T) {
	// "foo().bar[0]" must parse as Subscript(Child(Call(foo), bar), 0):
	// the trailing "[0]" binds to the whole "foo().bar" chain, not to
	// the member leaf "bar" alone.
	body := parseSource(t, "x = foo().bar[0];")
	assign := body.Statements[0].(*ast.Assign)

	sub, ok := assign.Right.(*ast.Subscript)
	require.True(t, ok, "expected *ast.Subscript, got %T", assign.Right)

	child, ok := sub.Base.(*ast.Child)
	require.True(t, ok, "expected *ast.Child, got %T", sub.Base)

	member, ok := child.Child.(*ast.Var)
	require.True(t, ok, "expected *ast.Var, got %T", child.Child)
	assert.Equal(t, "bar", member.Name)

	_, ok = child.Parent.(*ast.Call)
	require.True(t, ok, "expected *ast.Call, got %T", child.Parent)
}

func TestArrayLiteral(t *testing.T) {
	body := parseSource(t, "x = [1, 2, 3];")
	assign := body.Statements[0].(*ast.Assign)
	arr, ok := assign.Right.(*ast.Array)
	require.True(t, ok)
	assert.False(t, arr.Empty)
	assert.Len(t, arr.Elements, 3)
}

func TestEmptyArrayLiteral(t *testing.T) {
	body := parseSource(t, "x = [];")
	assign := body.Statements[0].(*ast.Assign)
	arr, ok := assign.Right.(*ast.Array)
	require.True(t, ok)
	assert.True(t, arr.Empty)
	assert.Empty(t, arr.Elements)
}

func TestImportAndImportFrom(t *testing.T) {
	body := parseSource(t, "import math; import sqrt from math;")
	require.Len(t, body.Statements, 2)

	imp, ok := body.Statements[0].(*ast.Import)
	require.True(t, ok)
	assert.Equal(t, "math", imp.Module)

	impFrom, ok := body.Statements[1].(*ast.ImportFrom)
	require.True(t, ok)
	assert.Equal(t, "math", impFrom.Module)
	assert.Equal(t, "sqrt", impFrom.Member)
}

func TestEnumWithMixedItems(t *testing.T) {
	body := parseSource(t, "enum Color { Red, Green = 1, Blue };")
	require.Len(t, body.Statements, 1)

	en, ok := body.Statements[0].(*ast.Enum)
	require.True(t, ok)
	assert.Equal(t, "Color", en.Name)
	require.Len(t, en.Body.Statements, 3)

	_, isVar := en.Body.Statements[0].(*ast.Var)
	assert.True(t, isVar)

	assign, isAssign := en.Body.Statements[1].(*ast.Assign)
	require.True(t, isAssign)
	assert.Equal(t, "Green", assign.Name)
}

func TestIfElifElseAreSiblings(t *testing.T) {
	body := parseSource(t, "if x { y = 1; } elif z { y = 2; } else { y = 3; }")
	require.Len(t, body.Statements, 3)

	_, isIf := body.Statements[0].(*ast.If)
	assert.True(t, isIf)
	_, isElif := body.Statements[1].(*ast.Elif)
	assert.True(t, isElif)
	_, isElse := body.Statements[2].(*ast.Else)
	assert.True(t, isElse)
}

func TestRepeatWhileFor(t *testing.T) {
	body := parseSource(t, "repeat 3 { x = 1; } while x { x = 0; } for i in xs { y = i; }")
	require.Len(t, body.Statements, 3)

	rep, ok := body.Statements[0].(*ast.Repeat)
	require.True(t, ok)
	_, isInt := rep.Count.(*ast.Integer)
	assert.True(t, isInt)

	_, isWhile := body.Statements[1].(*ast.While)
	assert.True(t, isWhile)

	forStmt, ok := body.Statements[2].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "i", forStmt.Var)
}

func TestNestedBody(t *testing.T) {
	body := parseSource(t, "{ x = 1; }")
	require.Len(t, body.Statements, 1)
	nested, ok := body.Statements[0].(*ast.Body)
	require.True(t, ok)
	require.Len(t, nested.Statements, 1)
}

func TestBareExpressionStatement(t *testing.T) {
	body := parseSource(t, "foo();")
	require.Len(t, body.Statements, 1)
	_, ok := body.Statements[0].(*ast.Call)
	assert.True(t, ok)
}

func TestMissingTerminatorRaisesExpectedSemicolon(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "x = 1"))
}

func TestDoubleSemicolonRaises(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "x = 1;; y = 2;"))
}

func TestUnclosedParenRaises(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "x = (1 + 2;"))
}

func TestEmptyParensRaises(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "x = ();"))
}

func TestEmptySubscriptRaises(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "x = y[];"))
}

func TestForWithoutInRaises(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "for i xs { y = i; }"))
}

func TestEnumLeadingCommaRaises(t *testing.T) {
	assert.Equal(t, 1, parseSourceExpectError(t, "enum Color { , Red };"))
}
