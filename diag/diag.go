// Package diag reports syntax diagnostics for the Dust front-end.
//
// Raise and RaiseInternal terminate the process — there is no
// propagation, no recovery, and no partial-AST return. This mirrors
// the original C implementation's raise()/raise_internal(), which
// print a formatted message and exit(1).
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Kind is a closed taxonomy of diagnostic categories. Only Syntax
// exists today; the type exists so a future category doesn't require
// reshaping the Reporter API.
type Kind int

const (
	Syntax Kind = iota
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	default:
		return "Error"
	}
}

// Reporter formats and emits diagnostics for one compilation run. It
// holds the ANSI-enabled flag explicitly (as a struct field) rather
// than as a C-style process global, per the front-end's "explicit
// context" contract — callers construct one Reporter per CLI
// invocation and thread it through the lexer and parser.
type Reporter struct {
	// Out is where diagnostics are printed. Defaults to os.Stderr when
	// nil.
	Out io.Writer
	// NoColor disables ANSI coloring of the label, kind name, and line
	// marker. Payload text is always plain so it stays copy-pasteable.
	NoColor bool
	// Exit is called to terminate the process after a diagnostic is
	// printed. Defaults to os.Exit; overridable in tests so Raise can
	// be exercised without killing the test binary.
	Exit func(code int)
}

// New returns a Reporter writing to os.Stderr with the given color
// mode.
func New(noColor bool) *Reporter {
	return &Reporter{Out: os.Stderr, NoColor: noColor, Exit: os.Exit}
}

func (r *Reporter) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return os.Stderr
}

func (r *Reporter) exit(code int) {
	if r.Exit != nil {
		r.Exit(code)
		return
	}
	os.Exit(code)
}

// Raise prints a formatted diagnostic of kind at (column, line) in
// source, with message, then terminates the process with exit code 1.
// It never returns control to the caller.
func (r *Reporter) Raise(kind Kind, message, source string, column, line int) {
	if r.NoColor {
		fmt.Fprintf(r.out(), "\n%s %d:%d\n%s: %s\n...\n#%d line\n",
			source, line+1, column, kind, message, line+1)
	} else {
		label := color.New(color.FgYellow).Sprintf("%d", line+1)
		col := color.New(color.FgYellow).Sprintf("%d", column)
		kindStr := color.New(color.FgHiRed).Sprint(kind)
		marker := color.New(color.FgHiBlack).Sprintf("#%d", line+1)

		fmt.Fprintf(r.out(), "\n%s %s:%s\n%s%s: %s\n...\n%s line\n",
			source, label, col,
			kindStr, color.New(color.FgHiBlack).Sprint(""), message,
			marker)
	}

	r.exit(1)
}

// RaiseInternal reports a bug in the front-end itself (an invariant
// the lexer/parser should have upheld but didn't) and terminates the
// process.
func (r *Reporter) RaiseInternal(message string) {
	if r.NoColor {
		fmt.Fprintf(r.out(), "InternalError: %s\n", message)
	} else {
		fmt.Fprintf(r.out(), "%s: %s\n",
			color.New(color.FgHiRed).Sprint("InternalError"), message)
	}

	r.exit(1)
}
