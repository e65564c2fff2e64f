package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/lohvht/plox/interp"
	"github.com/lohvht/plox/loxerror"
)

const (
	ploxPrefix  = "> "
	contPrefix  = "..... "
	historyFile = "plox_history"
)

var replState struct {
	livePrefix string
	live       bool
	brackets   bracketStack
	pending    strings.Builder
}

var matchingBracket = map[string]string{
	"(": ")",
	"{": "}",
	"[": "]",
}

// bracketStack tracks nesting of (), {}, [] across REPL lines so a statement
// spanning several physical lines (a function or class body, chiefly) is
// not evaluated until its brackets balance. Adapted from the teacher's
// cmd/repl.go bracketStack/collectBrackets, which uses the same technique
// for went's block syntax.
type bracketStack []string

func (s *bracketStack) empty() bool { return len(*s) == 0 }

func (s *bracketStack) push(r string) { *s = append(*s, r) }

func (s *bracketStack) pop() (r string) {
	r, *s = (*s)[len(*s)-1], (*s)[:len(*s)-1]
	return
}

type bracketLineStatus int

const (
	lineComplete bracketLineStatus = iota
	lineOpen                       // brackets still unbalanced, need another line
	lineMismatched
)

func (s *bracketStack) collectBrackets(in string) bracketLineStatus {
	for _, r := range in {
		switch rStr := string(r); rStr {
		case "(", "[", "{":
			s.push(rStr)
		case ")", "]", "}":
			if s.empty() {
				return lineMismatched
			}
			if want := matchingBracket[s.pop()]; want != rStr {
				return lineMismatched
			}
		}
	}
	if s.empty() {
		return lineComplete
	}
	return lineOpen
}

func changeLivePrefix() (string, bool) { return replState.livePrefix, replState.live }

func completer(prompt.Document) []prompt.Suggest { return nil }

// runPrompt runs the REPL: read a line, accumulate it until brackets
// balance, then run the accumulated source as one unit (spec.md §6 "read a
// line from standard input prefixed by '> '; run it; loop until EOF").
// Reporter.Reset is called between statements so a bad line does not
// poison the rest of the session.
func runPrompt() int {
	reporter := loxerror.NewReporter(os.Stderr)
	interpreter := interp.New(reporter, os.Stdout)

	history := loadHistory()

	executor := func(line string) {
		status := replState.brackets.collectBrackets(line)
		replState.pending.WriteString(line)
		replState.pending.WriteString("\n")

		switch status {
		case lineOpen:
			replState.live = true
			replState.livePrefix = contPrefix
			return
		case lineMismatched:
			replState.brackets = nil
		}

		replState.live = false
		source := replState.pending.String()
		replState.pending.Reset()

		reporter.Reset()
		runSource(interpreter, reporter, source)
		appendHistory(source)
	}

	p := prompt.New(
		executor,
		completer,
		prompt.OptionPrefix(ploxPrefix),
		prompt.OptionLivePrefix(changeLivePrefix),
		prompt.OptionHistory(history),
	)
	p.Run()
	return exitOK
}

// historyPath locates the REPL history file under the user's cache
// directory, creating the plox subdirectory on first use. Empty string
// means history is not persisted for this invocation (no cache dir
// available), which is not fatal — the REPL still works within the session.
func historyPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "plox")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(dir, historyFile)
}

func loadHistory() []string {
	path := historyPath()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}

func appendHistory(source string) {
	path := historyPath()
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	for _, line := range strings.Split(strings.TrimRight(source, "\n"), "\n") {
		if line == "" {
			continue
		}
		fmt.Fprintln(f, line)
	}
}
