package lox

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-multierror"
)

// The interpreter alone cannot make a variable reference always resolve to
// the same binding (closures over loop variables, shadowing) without a
// static pass. The resolver walks the AST once, before evaluation, and
// records how many environment frames back each variable/this/super
// reference must walk at run time (spec §4.2). It never evaluates an
// expression; it only tracks which scope declares which name.
//
// Locals are keyed by node ID rather than by Go's AST pointer identity:
// two distinct Variable nodes with the same name in the same scope are
// different references and must resolve independently.

type FunctionType int

const (
	FunctionTypeNone FunctionType = iota
	FunctionTypeFunction
	FunctionTypeInitializer
	FunctionTypeMethod
)

type ClassType int

const (
	ClassTypeNone ClassType = iota
	ClassTypeClass
	ClassTypeSubclass
)

type Resolver struct {
	locals    map[int]int
	scopes    []map[string]bool
	funcType  FunctionType
	classType ClassType
	errs      *multierror.Error
	log       hclog.Logger
}

func NewResolver(log hclog.Logger) *Resolver {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Resolver{
		locals: make(map[int]int),
		scopes: []map[string]bool{},
		log:    log,
	}
}

// Resolve walks prog, accumulating every resolution error instead of
// stopping at the first (spec §7). A nil return means prog is safe to
// interpret; locals holds the resolved node ID -> scope distance table.
func (r *Resolver) Resolve(prog *Program) (map[int]int, error) {
	for _, decl := range prog.Decls {
		r.resolveStmt(decl)
	}
	return r.locals, r.errs.ErrorOrNil()
}

func (r *Resolver) fail(line int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.errs = multierror.Append(r.errs, fmt.Errorf("[line %d] Error: %s", line, msg))
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ClassDecl:
		r.resolveClassDecl(s)
	case *FunDecl:
		r.declare(s.Name, 0)
		r.define(s.Name)
		r.resolveFunction(s, FunctionTypeFunction)
	case *VarDecl:
		r.declare(s.Name, 0)
		if s.Expr != nil {
			r.resolveExpr(s.Expr)
		}
		r.define(s.Name)
	case *ExprStmt:
		r.resolveExpr(s.Expr)
	case *IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.ThenBranch)
		if s.ElseBranch != nil {
			r.resolveStmt(s.ElseBranch)
		}
	case *PrintStmt:
		r.resolveExpr(s.Expr)
	case *ReturnStmt:
		if r.funcType == FunctionTypeNone {
			r.fail(s.Keyword.Line, "Can't return from top-level code.")
		}
		if s.Expr != nil {
			if r.funcType == FunctionTypeInitializer {
				r.fail(s.Keyword.Line, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Expr)
		}
	case *WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *Block:
		r.beginScope()
		for _, decl := range s.Decls {
			r.resolveStmt(decl)
		}
		r.endScope()
	default:
		panic(fmt.Sprintf("internal error: unhandled statement %T", stmt))
	}
}

func (r *Resolver) resolveClassDecl(c *ClassDecl) {
	enclosingClassType := r.classType
	r.classType = ClassTypeClass

	r.declare(c.Name, 0)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Name == c.Superclass.Name.Lexeme {
			r.fail(c.Superclass.Name.Line, "A class can't inherit from itself.")
		} else {
			r.classType = ClassTypeSubclass
			r.resolveExpr(c.Superclass)

			r.beginScope()
			r.declare("super", 0)
			r.define("super")
		}
	}

	r.beginScope()
	r.declare("this", 0)
	r.define("this")

	for _, method := range c.Methods {
		fnType := FunctionTypeMethod
		if method.Name == "init" {
			fnType = FunctionTypeInitializer
		}
		r.resolveFunction(method, fnType)
	}

	r.endScope()

	if c.Superclass != nil {
		r.endScope()
	}

	r.classType = enclosingClassType
}

func (r *Resolver) resolveFunction(fd *FunDecl, funcType FunctionType) {
	enclosingFnType := r.funcType
	r.funcType = funcType

	r.beginScope()
	for _, param := range fd.Params {
		r.declare(param.Lexeme, param.Line)
		r.define(param.Lexeme)
	}
	for _, stmt := range fd.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.funcType = enclosingFnType
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *AssignmentExpr:
		r.resolveExpr(e.Expr)
		r.resolveLocal(e.ID, e.Name.Lexeme)
	case *SetExpr:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ThisExpr:
		if r.classType == ClassTypeNone {
			r.fail(e.Keyword.Line, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e.ID, e.Keyword.Lexeme)
	case *LogicOrExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *LogicAndExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *UnaryExpr:
		r.resolveExpr(e.Right)
	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *GetExpr:
		r.resolveExpr(e.Object)
	case *LiteralExpr:
		// nothing to resolve
	case *GroupExpr:
		r.resolveExpr(e.Inner)
	case *VariableExpr:
		if len(r.scopes) > 0 {
			scope := r.scopes[len(r.scopes)-1]
			if defined, declared := scope[e.Name.Lexeme]; declared && !defined {
				r.fail(e.Name.Line, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e.ID, e.Name.Lexeme)
	case *SuperExpr:
		if r.classType == ClassTypeNone || r.classType != ClassTypeSubclass {
			r.fail(e.Keyword.Line, "Can't use 'super' outside of a subclass.")
		}
		r.resolveLocal(e.ID, e.Keyword.Lexeme)
	default:
		panic(fmt.Sprintf("internal error: unhandled expression %T", expr))
	}
}

func (r *Resolver) declare(name string, line int) {
	if len(r.scopes) == 0 {
		return
	}

	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name]; ok {
		r.fail(line, "Already a variable with this name in this scope.")
	}

	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

// resolveLocal records, for the node identified by id, how many scopes back
// name is declared. A miss leaves id absent from locals, which the
// interpreter takes to mean "look in globals" (spec §4.2).
func (r *Resolver) resolveLocal(id int, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			distance := len(r.scopes) - 1 - i
			r.locals[id] = distance
			r.log.Trace("resolved local", "name", name, "node", id, "distance", distance)
			return
		}
	}
	r.log.Trace("resolved global", "name", name, "node", id)
}
