// Package transpiler is an experimental, incomplete Dust-to-C emitter.
//
// WARNING: this is still an experimental part of Dust, and may change
// or get removed in the future. It is a pretty-printer, not a code
// generator: it only emits top-level declarations that have an
// initializer, and translates only integer, float, string, variable,
// binary and unary expressions in them; any other expression is
// written as an "unsupported" C comment.
package transpiler

import (
	"fmt"
	"io"

	"github.com/kadir014/Dust/ast"
)

var cTypeNames = map[string]string{
	"int8": "int8_t", "int16": "int16_t", "int32": "int32_t", "int64": "int64_t",
	"uint8": "uint8_t", "uint16": "uint16_t", "uint32": "uint32_t", "uint64": "uint64_t",
	"float32": "float", "float64": "double",
	"bool": "bool", "string": "const char *",
}

// Transpile walks body's top-level Decl statements and writes a naive
// C translation of each to w, ported from transpile/translate_decl in
// the original transpiler source.
func Transpile(w io.Writer, body *ast.Body) {
	fmt.Fprint(w, "/* Transpiled from Dust */\n\n#include <stdint.h>\n\n\n")

	for _, stmt := range body.Statements {
		decl, ok := stmt.(*ast.Decl)
		if !ok {
			continue
		}
		fmt.Fprintln(w, translateDecl(decl))
	}
}

func translateDecl(decl *ast.Decl) string {
	return fmt.Sprintf("%s %s = %s;", translateType(decl.Type), decl.Name, translateExpr(decl.Init))
}

func translateType(t ast.Expression) string {
	prim, ok := t.(*ast.Primitive)
	if !ok {
		// Generic types have no C equivalent in this experimental
		// emitter; fall back to the spelled-out Dust name.
		return fmt.Sprintf("/* %s */ void *", t.TokenLiteral())
	}
	if name, ok := cTypeNames[prim.Name]; ok {
		return name
	}
	return prim.Name
}

func translateExpr(n ast.Expression) string {
	switch node := n.(type) {
	case *ast.Integer:
		return fmt.Sprintf("%d", node.Value)

	case *ast.Float:
		return fmt.Sprintf("%f", node.Value)

	case *ast.String:
		return fmt.Sprintf("%q", string(node.Value))

	case *ast.Var:
		return node.Name

	case *ast.BinOp:
		return fmt.Sprintf("(%s%s%s)", translateExpr(node.Left), translateOp(node.Op), translateExpr(node.Right))

	case *ast.UnaryOp:
		return fmt.Sprintf("(%s%s)", translateOp(node.Op), translateExpr(node.Operand))

	default:
		return fmt.Sprintf("/* unsupported: %T */", n)
	}
}

func translateOp(op ast.OpType) string {
	return op.Symbol()
}
