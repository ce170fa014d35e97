package gouncertain

import (
	"encoding/json"
	"fmt"
	"math"
)

// ============================================================
// JSON Serialization
// ============================================================

// Env names the leaves an expression tree may refer to.
type Env map[string]*Leaf

func quantityJSON(o Operand) map[string]interface{} {
	v, q := operand("json", o)
	out := map[string]interface{}{"value": v}
	if q == nil {
		out["error"] = 0.0
		out["string"] = FormatNoError(v)
		return out
	}
	e := q.Error()
	out["error"] = e
	out["string"] = Format(v, e)
	if rel, ok := q.RelativeError(); ok && !math.IsNaN(rel) && !math.IsInf(rel, 0) {
		out["relative_error"] = rel
	}
	if l, ok := o.(*Leaf); ok {
		out["has_error"] = l.HasError()
	}
	return out
}

// ToJSON renders value, error, relative error and formatted string.
func ToJSON(o Operand) (string, error) {
	b, err := json.Marshal(quantityJSON(o))
	return string(b), err
}

// unaryFuncs is the set of named functions an expression tree may apply.
var unaryFuncs = map[string]func(Operand) *Derived{
	"sqrt":  Sqrt,
	"exp":   Exp,
	"log":   Log,
	"ln":    Log,
	"log10": Log10,
	"sin":   Sin,
	"cos":   Cos,
	"tan":   Tan,
	"asin":  Asin,
	"acos":  Acos,
	"atan":  Atan,
	"sinh":  Sinh,
	"cosh":  Cosh,
	"tanh":  Tanh,
	"abs":   Abs,
	"neg":   Neg,
}

// toFloat accepts the number types produced by encoding/json and yaml.v3.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// FromJSON evaluates an expression tree against env. Node types:
//
//	{"type":"num","value":2}
//	{"type":"lit","value":"1.23(4)"}       a fresh independent leaf
//	{"type":"ref","name":"a"}
//	{"type":"add","terms":[...]}  {"type":"mul","factors":[...]}
//	{"type":"sub","args":[x,y]}   {"type":"div","args":[x,y]}
//	{"type":"pow","base":x,"exp":y}
//	{"type":"neg","arg":x}
//	{"type":"func","name":"sqrt","arg":x}
//
// Numbers stay constants, so {"type":"pow"} with a "num" exponent never takes
// the logarithm of its base.
func FromJSON(data map[string]interface{}, env Env) (*Derived, error) {
	o, err := fromJSON(data, env)
	if err != nil {
		return nil, err
	}
	return Pos(o), nil
}

func fromJSON(data map[string]interface{}, env Env) (Operand, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subExpr := func(field string) (Operand, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		o, err := fromJSON(m, env)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return o, nil
	}

	subExprArray := func(field string, want int) ([]Operand, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		if want > 0 && len(raw) != want {
			return nil, fmt.Errorf("%s: %q needs %d entries, got %d", typ, field, want, len(raw))
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("%s: %q must not be empty", typ, field)
		}
		out := make([]Operand, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			o, err := fromJSON(m, env)
			if err != nil {
				return nil, fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			out[i] = o
		}
		return out, nil
	}

	subString := func(field string) (string, error) {
		v, ok := data[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	switch typ {
	case "num":
		f, ok := toFloat(data["value"])
		if !ok {
			return nil, fmt.Errorf("num: 'value' must be a number")
		}
		return Const(f), nil

	case "lit":
		s, err := subString("value")
		if err != nil {
			return nil, err
		}
		l, err := ParseLeaf(s)
		if err != nil {
			return nil, fmt.Errorf("lit: %w", err)
		}
		return l, nil

	case "ref":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		l, ok := env[name]
		if !ok {
			return nil, fmt.Errorf("ref: unknown quantity %q", name)
		}
		return l, nil

	case "add":
		terms, err := subExprArray("terms", 0)
		if err != nil {
			return nil, err
		}
		return Sum(terms...), nil

	case "mul":
		factors, err := subExprArray("factors", 0)
		if err != nil {
			return nil, err
		}
		acc := factors[0]
		for _, f := range factors[1:] {
			acc = Mul(acc, f)
		}
		return acc, nil

	case "sub", "div":
		args, err := subExprArray("args", 2)
		if err != nil {
			return nil, err
		}
		if typ == "sub" {
			return Sub(args[0], args[1]), nil
		}
		return Div(args[0], args[1]), nil

	case "pow":
		base, err := subExpr("base")
		if err != nil {
			return nil, err
		}
		exp, err := subExpr("exp")
		if err != nil {
			return nil, err
		}
		return Pow(base, exp), nil

	case "neg":
		arg, err := subExpr("arg")
		if err != nil {
			return nil, err
		}
		return Neg(arg), nil

	case "func":
		name, err := subString("name")
		if err != nil {
			return nil, err
		}
		f, ok := unaryFuncs[name]
		if !ok {
			return nil, &InvalidOperandError{Op: "func", Operand: name, Reason: "unknown function " + name}
		}
		arg, err := subExpr("arg")
		if err != nil {
			return nil, err
		}
		return f(arg), nil
	}
	return nil, &InvalidOperandError{Op: "FromJSON", Operand: typ, Reason: "unknown expression type " + typ}
}
