// Package loxerror implements the error sink contract from spec.md §6/§7:
// a sticky "had error" pair of flags plus the two diagnostic formats
// (parse/resolve vs. runtime). The shape is adapted from the teacher's
// token.GenericError/ErrorList (lang/token/errors.go): a small embeddable
// base error plus a reporter that owns the sticky flags and the output
// stream, rather than a free package-level function.
package loxerror

import (
	"fmt"
	"io"

	"github.com/lohvht/plox/token"
)

// StaticError is a scan, parse or resolve-time diagnostic: reported via the
// sink, never fatal to the process that reports it (the driver decides
// whether to proceed to evaluation by checking Reporter.HadError).
type StaticError struct {
	Line    int
	Where   string // "", " at end", or " at 'lexeme'"
	Message string
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// RuntimeError is raised as an unwindable error carrying (token, message)
// per spec.md §7. It propagates out of the current Interpret call and is
// reported via the runtime sink; evaluation halts after it is reported.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Reporter is the error sink consumed by the core (scanner, parser,
// resolver, evaluator): two entry points, ReportLine and ReportToken,
// matching spec.md §6's error_with_line/error contract, plus a dedicated
// RuntimeError sink. Both static-error entry points set the sticky HadError
// flag; ReportRuntimeError sets HadRuntimeError. The driver must not
// proceed to evaluation when HadError is set.
type Reporter struct {
	Out             io.Writer
	HadError        bool
	HadRuntimeError bool
}

func NewReporter(out io.Writer) *Reporter { return &Reporter{Out: out} }

// ReportLine reports a scan-time error keyed only by line (no offending
// token available yet, e.g. an unterminated string).
func (r *Reporter) ReportLine(line int, message string) {
	r.report(&StaticError{Line: line, Message: message})
}

// ReportToken reports a parse/resolve-time error at a specific token. EOF
// tokens are reported as "at end"; everything else as "at '<lexeme>'".
func (r *Reporter) ReportToken(tok token.Token, message string) {
	where := ""
	if tok.Type == token.EOF {
		where = " at end"
	} else {
		where = " at '" + tok.Lexeme + "'"
	}
	r.report(&StaticError{Line: tok.Line, Where: where, Message: message})
}

func (r *Reporter) report(e *StaticError) {
	r.HadError = true
	fmt.Fprintln(r.Out, e.Error())
}

// ReportRuntimeError reports a runtime fault and sets HadRuntimeError.
func (r *Reporter) ReportRuntimeError(err *RuntimeError) {
	r.HadRuntimeError = true
	fmt.Fprintln(r.Out, err.Error())
}

// Reset clears both sticky flags; used by the REPL so one bad line does not
// poison the rest of the session.
func (r *Reporter) Reset() {
	r.HadError = false
	r.HadRuntimeError = false
}
