package lox

import "fmt"

func (ae *AssignmentExpr) Evaluate(interp *Interpreter) Object {
	val := ae.Expr.Evaluate(interp)

	if distance, ok := interp.locals[ae.ID]; ok {
		interp.env.AssignAt(distance, ae.Name.Lexeme, val)
	} else {
		interp.globals.Assign(ae.Name.Lexeme, val, ae.Name.Line)
	}

	return val
}

func (se *SetExpr) Evaluate(interp *Interpreter) Object {
	obj := se.Object.Evaluate(interp)
	instance, ok := IsInstance(obj)
	if !ok {
		panic(newRuntimeError(se.Name.Line, "Only instances have fields."))
	}

	val := se.Value.Evaluate(interp)
	instance.Set(se.Name, val)
	return val
}

func (te *ThisExpr) Evaluate(interp *Interpreter) Object {
	return interp.lookupVariable(te.ID, te.Keyword)
}

// The logical operators return a value of the proper truthiness, not a
// forced boolean (spec §4.3 short-circuit note).
func (loe *LogicOrExpr) Evaluate(interp *Interpreter) Object {
	left := loe.Left.Evaluate(interp)
	if IsTruthy(left) {
		return left
	}
	return loe.Right.Evaluate(interp)
}

func (lae *LogicAndExpr) Evaluate(interp *Interpreter) Object {
	left := lae.Left.Evaluate(interp)
	if !IsTruthy(left) {
		return left
	}
	return lae.Right.Evaluate(interp)
}

func (ue *UnaryExpr) Evaluate(interp *Interpreter) Object {
	right := ue.Right.Evaluate(interp)

	switch ue.Op.Type {
	case BANG:
		return NewBool(!IsTruthy(right))
	case MINUS:
		n := assertNumber(ue.Op.Line, right)
		return NewNumber(-n)
	}
	panic("unreachable: UnaryExpr.Evaluate")
}

func (ce *CallExpr) Evaluate(interp *Interpreter) Object {
	callee := ce.Callee.Evaluate(interp)
	fn, ok := callee.(Callable)
	if !ok {
		panic(newRuntimeError(ce.Paren.Line, "Can only call functions and classes."))
	}

	args := make([]Object, 0, len(ce.Args))
	for _, arg := range ce.Args {
		args = append(args, arg.Evaluate(interp))
	}

	if len(args) != fn.Arity() {
		panic(newRuntimeError(ce.Paren.Line, fmt.Sprintf(
			"Expected %d arguments but got %d.", fn.Arity(), len(args),
		)))
	}

	return fn.Call(interp, args)
}

func (ge *GetExpr) Evaluate(interp *Interpreter) Object {
	obj := ge.Object.Evaluate(interp)
	instance, ok := IsInstance(obj)
	if !ok {
		panic(newRuntimeError(ge.Name.Line, "Only instances have properties."))
	}
	return instance.Get(ge.Name)
}

func (be *BinaryExpr) Evaluate(interp *Interpreter) Object {
	left := be.Left.Evaluate(interp)
	right := be.Right.Evaluate(interp)
	line := be.Op.Line

	switch be.Op.Type {
	case PLUS:
		a, aok := IsString(left)
		b, bok := IsString(right)
		if aok && bok {
			return NewString(a + b)
		}

		c, cok := IsNumber(left)
		d, dok := IsNumber(right)
		if cok && dok {
			return NewNumber(c + d)
		}

		panic(newRuntimeError(line, "Operands must be two numbers or two strings."))

	case MINUS:
		a, b := assertNumbers(line, left, right)
		return NewNumber(a - b)

	case STAR:
		a, b := assertNumbers(line, left, right)
		return NewNumber(a * b)

	case SLASH:
		a, b := assertNumbers(line, left, right)
		return NewNumber(a / b)

	case GREATER:
		a, b := assertNumbers(line, left, right)
		return NewBool(a > b)

	case GREATER_EQUAL:
		a, b := assertNumbers(line, left, right)
		return NewBool(a >= b)

	case LESS:
		a, b := assertNumbers(line, left, right)
		return NewBool(a < b)

	case LESS_EQUAL:
		a, b := assertNumbers(line, left, right)
		return NewBool(a <= b)

	case EQUAL_EQUAL:
		return NewBool(isEqual(left, right))

	case BANG_EQUAL:
		return NewBool(!isEqual(left, right))
	}

	panic("unreachable: BinaryExpr.Evaluate")
}

func (ge *GroupExpr) Evaluate(interp *Interpreter) Object {
	return ge.Inner.Evaluate(interp)
}

func (le *LiteralExpr) Evaluate(interp *Interpreter) Object {
	switch v := le.Value.(type) {
	case nil:
		return NewNil()
	case bool:
		return NewBool(v)
	case float64:
		return NewNumber(v)
	case string:
		return NewString(v)
	}
	panic(fmt.Sprintf("unreachable: LiteralExpr.Evaluate: %T", le.Value))
}

func (ve *VariableExpr) Evaluate(interp *Interpreter) Object {
	return interp.lookupVariable(ve.ID, ve.Name)
}

func (se *SuperExpr) Evaluate(interp *Interpreter) Object {
	distance := interp.locals[se.ID]
	superObj := interp.env.GetAt(distance, "super")
	superclass, _ := IsClass(superObj)

	// "this" always sits one frame closer than "super" in the environment
	// chain the resolver builds around a method body (spec §4.3).
	instObj := interp.env.GetAt(distance-1, "this")
	instance, _ := IsInstance(instObj)

	method := superclass.FindMethod(se.Method.Lexeme)
	if method == nil {
		panic(newRuntimeError(se.Method.Line, "Undefined property '"+se.Method.Lexeme+"'."))
	}
	return method.bind(instance)
}

// --------------- Helper Functions --------------- //

func assertNumbers(line int, left, right Object) (float64, float64) {
	a, aok := IsNumber(left)
	b, bok := IsNumber(right)

	if !aok || !bok {
		panic(newRuntimeError(line, "Operands must be numbers."))
	}

	return a, b
}

func assertNumber(line int, obj Object) float64 {
	n, ok := IsNumber(obj)
	if !ok {
		panic(newRuntimeError(line, "Operand must be a number."))
	}
	return n
}
