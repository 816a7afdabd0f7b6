package lox

import "fmt"

// Callable is implemented by anything that can appear in call position
// (spec §3 Callable): user functions, methods and classes (as constructors).
type Callable interface {
	Call(interp *Interpreter, args []Object) Object
	Arity() int
	String() string
}

// LoxFunction is a function or method closing over the environment active
// at its declaration site (spec §4.3 closures).
type LoxFunction struct {
	decl    *FunDecl
	closure *Environment
	isInit  bool
}

func (f *LoxFunction) Type() ObjectType { return ObjCallable }
func (f *LoxFunction) String() string   { return fmt.Sprintf("<fn %s>", f.decl.Name) }

func (f *LoxFunction) Arity() int { return len(f.decl.Params) }

// Call runs the function body in a fresh frame parented at the closure,
// binding each parameter positionally. An initializer always yields the
// bound instance regardless of what (if anything) it returns (spec §4.3).
func (f *LoxFunction) Call(interp *Interpreter, args []Object) Object {
	interp.log.Trace("call", "fn", f.decl.Name, "args", len(args))

	callEnv := NewEnvironment(f.closure)
	for i, param := range f.decl.Params {
		callEnv.Define(param.Lexeme, args[i])
	}

	retVal, ret := interp.executeBlock(f.decl.Body, callEnv)

	var result Object
	switch {
	case f.isInit:
		result = f.closure.GetAt(0, "this")
	case ret:
		result = retVal
	default:
		result = NewNil()
	}

	interp.log.Trace("return", "fn", f.decl.Name, "value", result.String())
	return result
}

// bind returns a copy of the function whose closure's immediate frame maps
// "this" to instance; called once per instance per method lookup.
func (f *LoxFunction) bind(instance *LoxInstance) *LoxFunction {
	env := NewEnvironment(f.closure)
	env.Define("this", instance)
	return &LoxFunction{decl: f.decl, closure: env, isInit: f.isInit}
}

// LoxClass is both a callable constructor and a method table; it carries a
// pointer to its superclass (nil if none) to support single inheritance.
type LoxClass struct {
	name       string
	superclass *LoxClass
	methods    map[string]*LoxFunction
}

func (c *LoxClass) Type() ObjectType { return ObjClass }
func (c *LoxClass) String() string   { return c.name }

func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance, running its init method (if any) against
// the fresh instance before returning it.
func (c *LoxClass) Call(interp *Interpreter, args []Object) Object {
	instance := &LoxInstance{class: c, fields: make(map[string]Object)}
	if init := c.FindMethod("init"); init != nil {
		init.bind(instance).Call(interp, args)
	}
	return instance
}

// FindMethod looks up name on c, then walks the superclass chain.
func (c *LoxClass) FindMethod(name string) *LoxFunction {
	if m, ok := c.methods[name]; ok {
		return m
	}
	if c.superclass != nil {
		return c.superclass.FindMethod(name)
	}
	return nil
}

// LoxInstance is a class instance with its own mutable field table; field
// lookups that miss fall back to a bound method from the class (spec §4.3).
type LoxInstance struct {
	class  *LoxClass
	fields map[string]Object
}

func (i *LoxInstance) Type() ObjectType { return ObjInstance }
func (i *LoxInstance) String() string   { return i.class.name + " instance" }

func (i *LoxInstance) Get(name Token) Object {
	if field, ok := i.fields[name.Lexeme]; ok {
		return field
	}
	if method := i.class.FindMethod(name.Lexeme); method != nil {
		return method.bind(i)
	}
	panic(newRuntimeError(name.Line, "Undefined property '"+name.Lexeme+"'."))
}

func (i *LoxInstance) Set(name Token, value Object) {
	i.fields[name.Lexeme] = value
}
