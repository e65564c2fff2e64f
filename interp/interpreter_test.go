package interp

import (
	"strings"
	"testing"

	"github.com/lohvht/plox/lexer"
	"github.com/lohvht/plox/loxerror"
	"github.com/lohvht/plox/parser"
	"github.com/lohvht/plox/resolver"
)

func run(t *testing.T, src string) (stdout string, reporter *loxerror.Reporter) {
	t.Helper()
	var errs strings.Builder
	reporter = loxerror.NewReporter(&errs)

	toks := lexer.New(src, reporter.ReportLine).ScanTokens()
	stmts := parser.New(toks, reporter).Parse()
	if reporter.HadError {
		t.Fatalf("unexpected parse error: %s", errs.String())
	}

	locals := resolver.New(reporter).Resolve(stmts)
	if reporter.HadError {
		t.Fatalf("unexpected resolve error: %s", errs.String())
	}

	var out strings.Builder
	New(reporter, &out).Interpret(stmts, locals)
	return out.String(), reporter
}

func TestInterpret_ArithmeticPrecedence(t *testing.T) {
	out, r := run(t, "print 1 + 2 * 3;")
	if r.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "7\n" {
		t.Fatalf("got %q, want %q", out, "7\n")
	}
}

func TestInterpret_BlockShadowing(t *testing.T) {
	out, _ := run(t, `var a = 1; { var a = 2; print a; } print a;`)
	if out != "2\n1\n" {
		t.Fatalf("got %q, want %q", out, "2\n1\n")
	}
}

func TestInterpret_ClosureCapturesMutableState(t *testing.T) {
	out, _ := run(t, `
		fun make(){ var i=0; fun inc(){ i = i+1; return i; } return inc; }
		var c = make();
		print c(); print c(); print c();
	`)
	if out != "1\n2\n3\n" {
		t.Fatalf("got %q, want %q", out, "1\n2\n3\n")
	}
}

func TestInterpret_SuperclassMethodDispatch(t *testing.T) {
	out, _ := run(t, `
		class A { hi(){ print "a"; } }
		class B < A { hi(){ super.hi(); print "b"; } }
		B().hi();
	`)
	if out != "a\nb\n" {
		t.Fatalf("got %q, want %q", out, "a\nb\n")
	}
}

func TestInterpret_ClassInitializer(t *testing.T) {
	out, _ := run(t, `
		class P { init(n){ this.n = n; } }
		var p = P(7);
		print p.n;
	`)
	if out != "7\n" {
		t.Fatalf("got %q, want %q", out, "7\n")
	}
}

func TestInterpret_LogicalOperatorsShortCircuit(t *testing.T) {
	out, _ := run(t, `
		fun sideEffect() { print "evaluated"; return true; }
		print false and sideEffect();
		print true or sideEffect();
	`)
	if out != "false\ntrue\n" {
		t.Fatalf("right operand should not have been evaluated, got %q", out)
	}
}

func TestInterpret_DivisionByZeroYieldsInfinity(t *testing.T) {
	out, r := run(t, "print 1 / 0;")
	if r.HadRuntimeError {
		t.Fatalf("division by zero must not be a runtime error")
	}
	if out != "+Inf\n" {
		t.Fatalf("got %q, want %q", out, "+Inf\n")
	}
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, _ := run(t, `print "foo" + "bar";`)
	if out != "foobar\n" {
		t.Fatalf("got %q, want %q", out, "foobar\n")
	}
}

func TestInterpret_NumberAddingNonNumberIsRuntimeError(t *testing.T) {
	_, r := run(t, `print 1 + "a";`)
	if !r.HadRuntimeError {
		t.Fatalf("expected 'Operands must be two numbers or two strings.'")
	}
}

func TestInterpret_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, r := run(t, `var a = 1; a();`)
	if !r.HadRuntimeError {
		t.Fatalf("expected 'Can only call functions and classes.'")
	}
}

func TestInterpret_WrongArityIsRuntimeError(t *testing.T) {
	_, r := run(t, `fun f(a, b) { return a + b; } f(1);`)
	if !r.HadRuntimeError {
		t.Fatalf("expected 'Expected N arguments but got M.'")
	}
}

func TestInterpret_UndefinedPropertyIsRuntimeError(t *testing.T) {
	_, r := run(t, `class A {} A().missing;`)
	if !r.HadRuntimeError {
		t.Fatalf("expected 'Undefined property'")
	}
}

func TestInterpret_FieldsPrecedeMethodsOnGet(t *testing.T) {
	out, r := run(t, `
		class A { greet() { return "method"; } }
		var a = A();
		a.greet = "field";
		print a.greet;
	`)
	if r.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "field\n" {
		t.Fatalf("got %q, want %q", out, "field\n")
	}
}

func TestInterpret_EqualityNilOnlyEqualsNil(t *testing.T) {
	out, _ := run(t, `
		print nil == nil;
		print 1 == nil;
		print 1 == "1";
	`)
	if out != "true\nfalse\nfalse\n" {
		t.Fatalf("got %q, want %q", out, "true\nfalse\nfalse\n")
	}
}

func TestInterpret_NativeClockHasZeroArity(t *testing.T) {
	out, r := run(t, `print clock() >= 0;`)
	if r.HadRuntimeError {
		t.Fatalf("unexpected runtime error")
	}
	if out != "true\n" {
		t.Fatalf("got %q, want %q", out, "true\n")
	}
}

func TestInterpret_WholeNumbersPrintWithoutFractionalZero(t *testing.T) {
	out, _ := run(t, `print 6.0 / 2;`)
	if out != "3\n" {
		t.Fatalf("got %q, want %q", out, "3\n")
	}
}
