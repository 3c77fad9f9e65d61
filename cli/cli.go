// Package cli wires the Dust front-end (lexer, parser, printer,
// transpiler, platform probe) into a cobra command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kadir014/Dust/diag"
	"github.com/kadir014/Dust/lexer"
	"github.com/kadir014/Dust/parser"
	"github.com/kadir014/Dust/platform"
	"github.com/kadir014/Dust/printer"
	"github.com/kadir014/Dust/transpiler"
)

// sharedFlags holds the persistent flags every subcommand reads.
type sharedFlags struct {
	fp      bool
	noColor bool
	verbose bool
}

// NewRootCommand builds the "dust" command tree: tokenize, parse,
// transpile and version subcommands, sharing --fp/--no-color/--verbose
// persistent flags.
func NewRootCommand() *cobra.Command {
	flags := &sharedFlags{}
	log := logrus.New()

	root := &cobra.Command{
		Use:           "dust",
		Short:         "Dust language front-end: lexer, parser, printer and transpiler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}

	root.PersistentFlags().BoolVar(&flags.fp, "fp", false, "treat the positional argument as a file path instead of inline source")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "disable ANSI-colored diagnostics")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug-level token tracing")

	root.AddCommand(
		newTokenizeCmd(flags, log),
		newParseCmd(flags, log),
		newTranspileCmd(flags, log),
		newVersionCmd(),
	)

	return root
}

// readSource resolves the positional argument to source text, either
// by reading it as a file path (--fp) or using it verbatim.
func readSource(arg string, fp bool) ([]rune, string, error) {
	if !fp {
		return []rune(arg), "<stdin>", nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %q: %w", arg, err)
	}
	return []rune(string(data)), arg, nil
}

func newReporter(out io.Writer, flags *sharedFlags) *diag.Reporter {
	r := diag.New(flags.noColor)
	r.Out = out
	return r
}

func newTokenizeCmd(flags *sharedFlags, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <source>",
		Short: "Lex source into a token stream and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, source, err := readSource(args[0], flags.fp)
			if err != nil {
				return err
			}

			r := newReporter(cmd.ErrOrStderr(), flags)
			l := lexer.New(src, source, r)
			if flags.verbose {
				l.WithLogger(log)
			}

			toks := l.Tokenize()
			for _, tok := range toks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %q\n", tok.Pos.String(), tok.Kind.String(), tok.Text())
			}
			return nil
		},
	}
}

func newParseCmd(flags *sharedFlags, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <source>",
		Short: "Lex and parse source, printing the resulting syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, source, err := readSource(args[0], flags.fp)
			if err != nil {
				return err
			}

			r := newReporter(cmd.ErrOrStderr(), flags)
			l := lexer.New(src, source, r)
			if flags.verbose {
				l.WithLogger(log)
			}

			toks := l.Tokenize()
			body := parser.ParseProgram(toks, source, r)
			printer.Print(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func newTranspileCmd(flags *sharedFlags, log *logrus.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "transpile <source>",
		Short: "Emit an experimental, best-effort C translation of declarations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, source, err := readSource(args[0], flags.fp)
			if err != nil {
				return err
			}

			r := newReporter(cmd.ErrOrStderr(), flags)
			l := lexer.New(src, source, r)
			if flags.verbose {
				l.WithLogger(log)
			}

			toks := l.Tokenize()
			body := parser.ParseProgram(toks, source, r)
			transpiler.Transpile(cmd.OutOrStdout(), body)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the OS, architecture and Go toolchain this binary was built with",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := platform.Probe()
			fmt.Fprintf(cmd.OutOrStdout(), "os: %s\narch: %s\ngo: %s\n", info.OS, info.Arch, info.GoVersion)
			return nil
		},
	}
}
