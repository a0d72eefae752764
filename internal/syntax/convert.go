package syntax

import "fmt"

// FieldToArg converts a field declaration (`name: T = v` or `name = v`)
// into a parameter and its default. The default is nil when the field has
// no value.
func FieldToArg(s Stmt) (*Arg, Expr, error) {
	switch s := s.(type) {
	case *AnnAssign:
		name, ok := s.Target.(*Name)
		if !ok {
			return nil, nil, fmt.Errorf("field target %s is not a plain name", FormatExpr(s.Target))
		}
		return &Arg{Name: name.ID, Annotation: s.Annotation}, s.Value, nil
	case *Assign:
		name, ok := s.Target.(*Name)
		if !ok {
			return nil, nil, fmt.Errorf("field target %s is not a plain name", FormatExpr(s.Target))
		}
		return &Arg{Name: name.ID}, s.Value, nil
	}
	return nil, nil, fmt.Errorf("%T is not a field declaration", s)
}

// ArgToField converts a parameter and its default into a field declaration.
// An unannotated parameter becomes a plain assignment, defaulting to None
// when it has no default.
func ArgToField(a *Arg, def Expr) Stmt {
	if a.Annotation == nil {
		if def == nil {
			def = None()
		}
		return &Assign{Target: Ident(a.Name), Value: def}
	}
	return &AnnAssign{Target: Ident(a.Name), Annotation: a.Annotation, Value: def}
}

// StmtName returns the name a statement binds, if it binds exactly one.
func StmtName(s Stmt) (string, bool) {
	switch s := s.(type) {
	case *ClassDef:
		return s.Name, true
	case *FuncDef:
		return s.Name, true
	case *AnnAssign:
		if n, ok := s.Target.(*Name); ok {
			return n.ID, true
		}
	case *Assign:
		if n, ok := s.Target.(*Name); ok {
			return n.ID, true
		}
	}
	return "", false
}

// Docstring returns the docstring at the head of body, if any.
func Docstring(body []Stmt) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	e, ok := body[0].(*ExprStmt)
	if !ok || !IsStr(e.X) {
		return "", false
	}
	return e.X.(*Constant).Value, true
}

// WithoutDocstring returns body minus its leading docstring.
func WithoutDocstring(body []Stmt) []Stmt {
	if _, ok := Docstring(body); ok {
		return body[1:]
	}
	return body
}

// WithDocstring returns a new body whose docstring is doc. An empty doc
// removes the docstring.
func WithDocstring(body []Stmt, doc string) []Stmt {
	rest := WithoutDocstring(body)
	if doc == "" {
		return append([]Stmt(nil), rest...)
	}
	out := make([]Stmt, 0, len(rest)+1)
	out = append(out, &ExprStmt{X: Str(doc)})
	return append(out, rest...)
}

// Receiver returns the name of the leading instance or type parameter of a
// method, or "" for plain functions and static methods.
func Receiver(fn *FuncDef) string {
	if fn.Args == nil || len(fn.Args.Args) == 0 || HasDecorator(fn, "staticmethod") {
		return ""
	}
	switch first := fn.Args.Args[0].Name; {
	case HasDecorator(fn, "classmethod"):
		return first
	case first == "self" || first == "cls":
		return first
	}
	return ""
}

// HasDecorator reports whether fn carries the bare decorator name.
func HasDecorator(fn *FuncDef, name string) bool {
	for _, d := range fn.Decorators {
		if n, ok := d.(*Name); ok && n.ID == name {
			return true
		}
	}
	return false
}
