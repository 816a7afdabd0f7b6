package lox

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Interpreter walks a resolved Program and evaluates it against a tree of
// Environment frames (spec §4.3). locals is the resolver's node-id-to-
// distance side table; a miss means the name lives in globals.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[int]int
	out     io.Writer
	log     hclog.Logger // traced at the call/return boundary in LoxFunction.Call
}

func NewInterpreter(locals map[int]int, out io.Writer, log hclog.Logger) *Interpreter {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	globals := NewEnvironment(nil)
	globals.Define("clock", &nativeFunc{
		name:  "clock",
		arity: 0,
		fn: func(_ *Interpreter, _ []Object) Object {
			return NewNumber(float64(time.Now().UnixNano()) / float64(time.Second))
		},
	})

	return &Interpreter{
		globals: globals,
		env:     globals,
		locals:  locals,
		out:     out,
		log:     log,
	}
}

// Interpret runs every top-level declaration in order. It stops at the
// first runtime error (spec §7: a run aborts on the first one); callers
// that want REPL-style per-line recovery should call Interpret once per
// parsed chunk.
func (interp *Interpreter) Interpret(prog *Program) (err error) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			err = re
		}
	}()

	for _, decl := range prog.Decls {
		decl.Run(interp)
	}
	return nil
}

// executeBlock runs stmts with env as the current frame, restoring the
// previous frame on the way out even if a runtime error panics through.
func (interp *Interpreter) executeBlock(stmts []Stmt, env *Environment) (retVal Object, ret bool) {
	previous := interp.env
	interp.env = env
	defer func() { interp.env = previous }()

	for _, stmt := range stmts {
		if retVal, ret = stmt.Run(interp); ret {
			return retVal, true
		}
	}
	return nil, false
}

// lookupVariable resolves name either through the distance recorded for id
// by the resolver, or by a dynamic lookup in globals when id is absent
// (spec §4.2 — unresolved references are assumed global).
func (interp *Interpreter) lookupVariable(id int, name Token) Object {
	if distance, ok := interp.locals[id]; ok {
		return interp.env.GetAt(distance, name.Lexeme)
	}
	return interp.globals.Get(name.Lexeme, name.Line)
}

// MergeLocals folds a resolver pass's node-id table into the interpreter's,
// for callers (the REPL) that resolve one chunk of input at a time against
// a single long-lived Interpreter.
func (interp *Interpreter) MergeLocals(locals map[int]int) {
	for id, distance := range locals {
		interp.locals[id] = distance
	}
}

func (interp *Interpreter) print(obj Object) {
	fmt.Fprintln(interp.out, obj.String())
}

// nativeFunc wraps a Go function as a Callable, grounding spec §4.3's
// native-function extension point (e.g. clock()).
type nativeFunc struct {
	name  string
	arity int
	fn    func(interp *Interpreter, args []Object) Object
}

func (n *nativeFunc) Type() ObjectType { return ObjCallable }
func (n *nativeFunc) String() string   { return fmt.Sprintf("<native fn %s>", n.name) }
func (n *nativeFunc) Arity() int       { return n.arity }
func (n *nativeFunc) Call(interp *Interpreter, args []Object) Object {
	return n.fn(interp, args)
}
