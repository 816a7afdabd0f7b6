package lox

// Run methods thread (retVal Object, ret bool) back up through nested
// blocks/loops/ifs so a return statement inside any of them propagates to
// the enclosing function call without unwinding via panic (spec §4.3).

func (p *Program) Run(interp *Interpreter) (retVal Object, ret bool) {
	for _, decl := range p.Decls {
		if retVal, ret = decl.Run(interp); ret {
			return retVal, true
		}
	}
	return nil, false
}

// FunDecl.Run only runs the *declaration*: it binds the function value
// (closing over the defining environment) into scope.
func (fd *FunDecl) Run(interp *Interpreter) (retVal Object, ret bool) {
	fn := &LoxFunction{decl: fd, closure: interp.env}
	interp.env.Define(fd.Name, fn)
	return nil, false
}

func (cd *ClassDecl) Run(interp *Interpreter) (retVal Object, ret bool) {
	var superclass *LoxClass
	if cd.Superclass != nil {
		obj := cd.Superclass.Evaluate(interp)
		sc, ok := IsClass(obj)
		if !ok {
			panic(newRuntimeError(cd.Superclass.Name.Line, "Superclass must be a class."))
		}
		superclass = sc
	}

	interp.env.Define(cd.Name, NewNil())

	classEnv := interp.env
	if cd.Superclass != nil {
		classEnv = NewEnvironment(interp.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction, len(cd.Methods))
	for _, method := range cd.Methods {
		methods[method.Name] = &LoxFunction{
			decl:    method,
			closure: classEnv,
			isInit:  method.Name == "init",
		}
	}

	class := &LoxClass{name: cd.Name, superclass: superclass, methods: methods}
	interp.env.Assign(cd.Name, class, 0)

	return nil, false
}

func (b *Block) Run(interp *Interpreter) (retVal Object, ret bool) {
	return interp.executeBlock(b.Decls, NewEnvironment(interp.env))
}

func (vd *VarDecl) Run(interp *Interpreter) (retVal Object, ret bool) {
	value := Object(NewNil())
	if vd.Expr != nil {
		value = vd.Expr.Evaluate(interp)
	}
	interp.env.Define(vd.Name, value)
	return nil, false
}

func (es *ExprStmt) Run(interp *Interpreter) (retVal Object, ret bool) {
	es.Expr.Evaluate(interp)
	return nil, false
}

func (ps *PrintStmt) Run(interp *Interpreter) (retVal Object, ret bool) {
	interp.print(ps.Expr.Evaluate(interp))
	return nil, false
}

func (rs *ReturnStmt) Run(interp *Interpreter) (retVal Object, ret bool) {
	if rs.Expr == nil {
		return NewNil(), true
	}
	return rs.Expr.Evaluate(interp), true
}

func (is *IfStmt) Run(interp *Interpreter) (retVal Object, ret bool) {
	if IsTruthy(is.Condition.Evaluate(interp)) {
		return is.ThenBranch.Run(interp)
	} else if is.ElseBranch != nil {
		return is.ElseBranch.Run(interp)
	}
	return nil, false
}

func (ws *WhileStmt) Run(interp *Interpreter) (retVal Object, ret bool) {
	for IsTruthy(ws.Condition.Evaluate(interp)) {
		if retVal, ret = ws.Body.Run(interp); ret {
			return retVal, true
		}
	}
	return nil, false
}
