package loxerror

import (
	"strings"
	"testing"

	"github.com/lohvht/plox/token"
)

func TestReportLine_SetsHadErrorAndFormats(t *testing.T) {
	var out strings.Builder
	r := NewReporter(&out)
	r.ReportLine(3, "unterminated string.")

	if !r.HadError {
		t.Fatalf("expected HadError to be set")
	}
	want := "[line 3] Error: unterminated string.\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestReportToken_EOFReportsAtEnd(t *testing.T) {
	var out strings.Builder
	r := NewReporter(&out)
	eof := token.New(token.EOF, "", nil, 5)
	r.ReportToken(eof, "Expect ';' after value.")

	want := "[line 5] Error at end: Expect ';' after value.\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestReportToken_NonEOFReportsLexeme(t *testing.T) {
	var out strings.Builder
	r := NewReporter(&out)
	tok := token.New(token.IDENTIFIER, "foo", nil, 1)
	r.ReportToken(tok, "Already a variable with this name in the scope")

	want := "[line 1] Error at 'foo': Already a variable with this name in the scope\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestReportRuntimeError_SetsHadRuntimeErrorAndFormats(t *testing.T) {
	var out strings.Builder
	r := NewReporter(&out)
	tok := token.New(token.IDENTIFIER, "x", nil, 7)
	r.ReportRuntimeError(NewRuntimeError(tok, "Undefined variable '%s'.", "x"))

	if !r.HadRuntimeError {
		t.Fatalf("expected HadRuntimeError to be set")
	}
	want := "Undefined variable 'x'.\n[line 7]\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestReset_ClearsBothFlags(t *testing.T) {
	var out strings.Builder
	r := NewReporter(&out)
	r.ReportLine(1, "bad")
	r.ReportRuntimeError(NewRuntimeError(token.New(token.EOF, "", nil, 1), "bad"))

	r.Reset()
	if r.HadError || r.HadRuntimeError {
		t.Fatalf("expected both sticky flags cleared after Reset")
	}
}
