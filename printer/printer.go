// Package printer renders a Dust AST as an indented, human-readable
// tree, for the "parse" command output of the front-end.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/kadir014/Dust/ast"
)

// Print walks n and writes its indented "kind:\n  field: value" form
// to w, ported from Node_repr in the original C front-end's parser
// source.
func Print(w io.Writer, n ast.Node) {
	printNode(w, n, 0)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth+1)
}

func printNode(w io.Writer, n ast.Node, depth int) {
	ind := indent(depth)

	switch node := n.(type) {
	case *ast.Integer:
		fmt.Fprintf(w, "integer: %d\n", node.Value)

	case *ast.Float:
		fmt.Fprintf(w, "float: %f\n", node.Value)

	case *ast.String:
		fmt.Fprintf(w, "string: %s\n", string(node.Value))

	case *ast.Var:
		fmt.Fprintf(w, "var: %s\n", node.Name)

	case *ast.Primitive:
		fmt.Fprintf(w, "type: %s\n", node.Name)

	case *ast.FuncBase:
		fmt.Fprintf(w, "func: %s\n", node.Name)

	case *ast.Array:
		fmt.Fprintf(w, "array:\n")
		if node.Empty {
			return
		}
		for _, el := range node.Elements {
			fmt.Fprint(w, ind)
			printNode(w, el, depth+1)
		}

	case *ast.Decl:
		fmt.Fprintf(w, "declaration:\n")
		fmt.Fprint(w, ind, "type: ")
		printNode(w, node.Type, depth+1)
		fmt.Fprintf(w, "%svar: %s\n", ind, node.Name)
		fmt.Fprint(w, ind, "expr: ")
		printNode(w, node.Init, depth+1)

	case *ast.DeclNoInit:
		fmt.Fprintf(w, "declaration:\n")
		fmt.Fprint(w, ind, "type: ")
		printNode(w, node.Type, depth+1)
		fmt.Fprintf(w, "%svar: %s\n", ind, node.Name)

	case *ast.Assign:
		fmt.Fprintf(w, "assignment:\n")
		fmt.Fprintf(w, "%svar: %s\n", ind, node.Name)
		fmt.Fprintf(w, "%sop: %s\n", ind, node.Op)
		fmt.Fprint(w, ind, "expr: ")
		printNode(w, node.Right, depth+1)

	case *ast.BinOp:
		fmt.Fprintf(w, "binop:\n")
		fmt.Fprintf(w, "%sop: %s\n", ind, node.Op.Symbol())
		fmt.Fprint(w, ind)
		printNode(w, node.Left, depth+1)
		fmt.Fprint(w, ind)
		printNode(w, node.Right, depth+1)

	case *ast.UnaryOp:
		fmt.Fprintf(w, "unaryop:\n")
		fmt.Fprintf(w, "%sop: %s\n", ind, node.Op.Symbol())
		fmt.Fprint(w, ind)
		printNode(w, node.Operand, depth+1)

	case *ast.Import:
		fmt.Fprintf(w, "import:\n")
		fmt.Fprintf(w, "%smodule: %s\n", ind, node.Module)

	case *ast.ImportFrom:
		fmt.Fprintf(w, "import:\n")
		fmt.Fprintf(w, "%smodule: %s\n", ind, node.Module)
		fmt.Fprintf(w, "%smember: %s\n", ind, node.Member)

	case *ast.Child:
		// Printed as parent/child, not the original source's
		// copy-pasted subs_node/subs_expr labels.
		fmt.Fprintf(w, "child:\n")
		fmt.Fprint(w, ind, "parent: ")
		printNode(w, node.Parent, depth+1)
		fmt.Fprint(w, ind, "child: ")
		printNode(w, node.Child, depth+1)

	case *ast.Subscript:
		fmt.Fprintf(w, "subscript:\n")
		fmt.Fprint(w, ind, "base: ")
		printNode(w, node.Base, depth+1)
		fmt.Fprint(w, ind, "index: ")
		printNode(w, node.Index, depth+1)

	case *ast.Call:
		fmt.Fprintf(w, "call:\n")
		fmt.Fprint(w, ind, "base: ")
		printNode(w, node.Callee, depth+1)
		fmt.Fprintf(w, "%sargs:\n", ind)
		for _, arg := range node.Args {
			fmt.Fprint(w, indent(depth+1))
			printNode(w, arg, depth+2)
		}

	case *ast.Enum:
		fmt.Fprintf(w, "enum:\n")
		fmt.Fprintf(w, "%sname: %s\n", ind, node.Name)
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.GenType:
		fmt.Fprintf(w, "generic type:\n")
		fmt.Fprintf(w, "%sbase: %s\n", ind, node.Base)
		fmt.Fprintf(w, "%sargs:\n", ind)
		for _, arg := range node.Args {
			fmt.Fprint(w, indent(depth+1))
			printNode(w, arg, depth+2)
		}

	case *ast.If:
		fmt.Fprintf(w, "if:\n")
		fmt.Fprint(w, ind, "condition: ")
		printNode(w, node.Condition, depth+1)
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.Elif:
		fmt.Fprintf(w, "elif:\n")
		fmt.Fprint(w, ind, "condition: ")
		printNode(w, node.Condition, depth+1)
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.Else:
		fmt.Fprintf(w, "else:\n")
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.Repeat:
		fmt.Fprintf(w, "repeat:\n")
		fmt.Fprint(w, ind, "count: ")
		printNode(w, node.Count, depth+1)
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.While:
		fmt.Fprintf(w, "while:\n")
		fmt.Fprint(w, ind, "condition: ")
		printNode(w, node.Condition, depth+1)
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.For:
		fmt.Fprintf(w, "for:\n")
		fmt.Fprintf(w, "%svar: %s\n", ind, node.Var)
		fmt.Fprint(w, ind, "iterable: ")
		printNode(w, node.Iterable, depth+1)
		fmt.Fprint(w, ind, "body: ")
		printNode(w, node.Body, depth+1)

	case *ast.Body:
		fmt.Fprintf(w, "body:\n")
		for _, stmt := range node.Statements {
			fmt.Fprint(w, ind)
			printNode(w, stmt, depth+1)
		}

	default:
		fmt.Fprintf(w, "unknown node: %T\n", n)
	}
}
