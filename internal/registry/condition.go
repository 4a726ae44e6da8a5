package registry

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Values is the in-progress map of field values the editor holds for one
// component instance.
type Values map[string]any

// Get returns the value of a field, or nil.
func (v Values) Get(name string) any {
	if v == nil {
		return nil
	}
	return v[name]
}

// String returns a field as a string, or "" when unset or not a string.
func (v Values) String(name string) string {
	s, _ := v.Get(name).(string)
	return s
}

// Bool returns a field as a bool, or false when unset or not a bool.
func (v Values) Bool(name string) bool {
	b, _ := v.Get(name).(bool)
	return b
}

// Condition is a showIf predicate. It carries both the Go predicate used by
// this service and the equivalent expression evaluated by the editor, so the
// two never drift apart.
type Condition struct {
	expr string
	eval func(Values) bool
}

// When builds a condition from an editor expression and its Go equivalent.
func When(expr string, eval func(Values) bool) *Condition {
	return &Condition{expr: expr, eval: eval}
}

// FieldEquals is visible when field equals want.
func FieldEquals(field string, want any) *Condition {
	return When(
		fmt.Sprintf("options.get(%s) === %s", jsLiteral(field), jsLiteral(want)),
		func(v Values) bool { return reflect.DeepEqual(v.Get(field), want) },
	)
}

// FieldIn is visible when field equals any of wants.
func FieldIn(field string, wants ...string) *Condition {
	literals := make([]string, len(wants))
	for i, w := range wants {
		literals[i] = jsLiteral(w)
	}
	return When(
		fmt.Sprintf("[%s].includes(options.get(%s))", strings.Join(literals, ", "), jsLiteral(field)),
		func(v Values) bool {
			got := v.String(field)
			for _, w := range wants {
				if got == w {
					return true
				}
			}
			return false
		},
	)
}

// FieldTruthy is visible when field is true.
func FieldTruthy(field string) *Condition {
	return When(
		fmt.Sprintf("options.get(%s) === true", jsLiteral(field)),
		func(v Values) bool { return v.Bool(field) },
	)
}

// Not negates c.
func Not(c *Condition) *Condition {
	return When("!("+c.expr+")", func(v Values) bool { return !c.Eval(v) })
}

// All is visible when every condition is.
func All(conds ...*Condition) *Condition {
	exprs := make([]string, len(conds))
	for i, c := range conds {
		exprs[i] = "(" + c.expr + ")"
	}
	return When(strings.Join(exprs, " && "), func(v Values) bool {
		for _, c := range conds {
			if !c.Eval(v) {
				return false
			}
		}
		return true
	})
}

// Eval evaluates the predicate. A nil condition is always visible.
func (c *Condition) Eval(v Values) bool {
	if c == nil || c.eval == nil {
		return true
	}
	return c.eval(v)
}

// Expr returns the editor expression.
func (c *Condition) Expr() string {
	if c == nil {
		return ""
	}
	return c.expr
}

// MarshalJSON emits the editor expression as a function body string.
func (c *Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal("return " + c.Expr())
}

func jsLiteral(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "undefined"
	}
	return string(b)
}
