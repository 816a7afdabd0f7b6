package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"

	"github.com/arborlang/golox/internal/lox"
)

var (
	promptColor = color.New(color.FgCyan)
	errorColor  = color.New(color.FgRed)
)

const banner = `golox -- a tree-walking Lox interpreter
Type '.exit' to quit.`

// runREPL starts an interactive session. Each line is compiled and
// interpreted independently against one shared Interpreter, so a mistake
// on one line never aborts the session (spec §7's REPL-survives-errors
// requirement) while variable and function state still persists across
// lines, the way a REPL is expected to behave.
func runREPL(logger hclog.Logger) {
	fmt.Println(banner)

	rl, err := readline.New("golox> ")
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	interp := lox.NewInterpreter(map[int]int{}, os.Stdout, logger)
	nextNodeID := 0

	for {
		line, err := rl.Readline()
		if err != nil { // EOF (Ctrl-D) or interrupt
			fmt.Println("Goodbye!")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Println("Goodbye!")
			return
		}

		rl.SaveHistory(line)
		nextNodeID = evalLine(interp, line, nextNodeID, os.Stdout, logger)
	}
}

// evalLine compiles and runs one REPL line, seeding its parser's node id
// counter at nextNodeID so ids stay unique across lines sharing interp's
// MergeLocals'd table (spec §8 invariant 1 depends on node id -> distance
// being unambiguous). It returns the counter to resume from on the next
// line.
func evalLine(interp *lox.Interpreter, line string, nextNodeID int, out io.Writer, logger hclog.Logger) (newNextNodeID int) {
	newNextNodeID = nextNodeID
	defer func() {
		if r := recover(); r != nil {
			errorColor.Fprintf(out, "%v\n", r)
		}
	}()

	scanner := lox.NewScanner([]byte(line))
	tokens := scanner.Scan()
	if scanner.HadError() {
		for _, msg := range scanner.Errors() {
			errorColor.Fprintln(out, msg)
		}
		return newNextNodeID
	}

	parser := lox.NewParserAt(tokens, nextNodeID)
	prog, err := parser.Parse()
	newNextNodeID = parser.NextID()
	if err != nil {
		errorColor.Fprintln(out, err)
		return newNextNodeID
	}

	resolver := lox.NewResolver(logger)
	locals, err := resolver.Resolve(prog)
	if err != nil {
		errorColor.Fprintln(out, err)
		return newNextNodeID
	}
	interp.MergeLocals(locals)

	if err := interp.Interpret(prog); err != nil {
		errorColor.Fprintln(out, err)
	}
	return newNextNodeID
}
