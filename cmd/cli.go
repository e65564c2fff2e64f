// Package cmd is the command-line driver: argument parsing, file/REPL
// dispatch, and exit-code selection (spec.md §6). Everything here is
// "external" per spec.md §1 — the core (token/lexer/ast/parser/resolver/
// interp) never imports it.
//
// Shape adapted from the teacher's cmd/cli.go: Run() switches on argument
// count and returns a process exit code rather than calling log.Fatalln
// directly, so main can defer os.Exit to a single place.
package cmd

import (
	"fmt"
	"os"

	"github.com/lohvht/plox/interp"
	"github.com/lohvht/plox/lexer"
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/parser"
	"github.com/lohvht/plox/resolver"
)

const usage = "Usage: plox [script]"

// Exit codes follow the BSD sysexits.h convention jlox itself uses: 64 for
// a CLI usage error, 65 for a static (parse/resolve) error, 70 for an
// unhandled runtime error — three distinct non-zero codes satisfying
// spec.md §6's "non-zero on parse/resolve error ... a distinct non-zero on
// runtime error".
const (
	exitOK        = 0
	exitUsage     = 64
	exitDataErr   = 65
	exitIOErr     = 74
	exitSoftware  = 70 // runtime error
)

// Run dispatches on os.Args and returns the process exit code.
func Run() int {
	switch len(os.Args) {
	case 1:
		return runPrompt()
	case 2:
		return runFile(os.Args[1])
	default:
		fmt.Println(usage)
		return exitUsage
	}
}

func runFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "plox: %v\n", err)
		return exitIOErr
	}

	reporter := loxerror.NewReporter(os.Stderr)
	interpreter := interp.New(reporter, os.Stdout)
	runSource(interpreter, reporter, string(data))

	switch {
	case reporter.HadError:
		return exitDataErr
	case reporter.HadRuntimeError:
		return exitSoftware
	default:
		return exitOK
	}
}

// runSource takes source all the way from text to evaluated effects,
// stopping early at whichever stage set HadError (spec.md §7: "driver must
// not proceed to evaluation when the flag is set").
func runSource(interpreter *interp.Interpreter, reporter *loxerror.Reporter, source string) {
	tokens := lexer.New(source, reporter.ReportLine).ScanTokens()
	stmts := parser.New(tokens, reporter).Parse()
	if reporter.HadError {
		return
	}

	locals := resolver.New(reporter).Resolve(stmts)
	if reporter.HadError {
		return
	}

	interpreter.Interpret(stmts, locals)
}
