// Command golox runs the Lox interpreter as either a script runner or an
// interactive REPL, per the CLI contract described by spec §6.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/arborlang/golox/internal/lox"
)

func main() {
	trace := flag.Bool("trace", false, "enable trace-level logging to stderr")
	var input string
	flag.StringVar(&input, "i", "", "path to a script file to run")
	flag.StringVar(&input, "input", "", "path to a script file to run")
	flag.Parse()

	level := hclog.Warn
	if *trace {
		level = hclog.Trace
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "golox",
		Level: level,
	})

	args := flag.Args()
	switch {
	case input != "" && len(args) == 0:
		os.Exit(runFile(input, logger))
	case input == "" && len(args) == 0:
		runREPL(logger)
	case input == "" && len(args) == 1:
		os.Exit(runFile(args[0], logger))
	default:
		fmt.Fprintln(os.Stderr, "Usage: golox [--trace] (-i|--input) <file> | golox [--trace] [script]")
		os.Exit(64)
	}
}

// runFile executes a single source file and returns the process exit code
// per spec §7: 0 on success, 65 on a parse/resolution error, 70 on a
// runtime error.
func runFile(path string, logger hclog.Logger) int {
	contents, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 74
	}

	prog, locals, err := compile(contents, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 65
	}

	interp := lox.NewInterpreter(locals, os.Stdout, logger)
	if err := interp.Interpret(prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 70
	}
	return 0
}

// compile runs the scan/parse/resolve pipeline up to but not including
// evaluation.
func compile(contents []byte, logger hclog.Logger) (*lox.Program, map[int]int, error) {
	scanner := lox.NewScanner(contents)
	tokens := scanner.Scan()
	if scanner.HadError() {
		return nil, nil, joinErrors(scanner.Errors())
	}

	parser := lox.NewParser(tokens)
	prog, err := parser.Parse()
	if err != nil {
		return nil, nil, err
	}

	resolver := lox.NewResolver(logger)
	locals, err := resolver.Resolve(prog)
	if err != nil {
		return nil, nil, err
	}

	logger.Trace("compiled program", "statements", len(prog.Decls))
	return prog, locals, nil
}

func joinErrors(msgs []string) error {
	joined := ""
	for i, msg := range msgs {
		if i > 0 {
			joined += "\n"
		}
		joined += msg
	}
	return fmt.Errorf("%s", joined)
}
