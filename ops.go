package gouncertain

import "math"

// ============================================================
// Binary operators
// ============================================================

// Add returns a + b. The gradients are unioned lazily, which keeps
// `total = Add(total, x)` loops linear.
func Add(a, b Operand) *Derived {
	av, qa := operand("add", a)
	bv, qb := operand("add", b)
	return union(av+bv, qa, qb)
}

// Sub returns a + (-1)·b.
func Sub(a, b Operand) *Derived {
	av, qa := operand("sub", a)
	bv, qb := operand("sub", b)
	return union(av-bv, qa, scaled(qb, -1))
}

func Mul(a, b Operand) *Derived {
	av, qa := operand("mul", a)
	bv, qb := operand("mul", b)
	return union(av*bv, scaled(qa, bv), scaled(qb, av))
}

// Div returns a/b. Division by a zero value yields IEEE infinities.
func Div(a, b Operand) *Derived {
	av, qa := operand("div", a)
	bv, qb := operand("div", b)
	return union(av/bv, scaled(qa, 1/bv), scaled(qb, -av/(bv*bv)))
}

// Pow returns a^b. With a constant exponent ln(a) is never evaluated, so
// negative bases with integral exponents work.
func Pow(a, b Operand) *Derived {
	av, qa := operand("pow", a)
	bv, qb := operand("pow", b)
	v := math.Pow(av, bv)
	switch {
	case qa != nil && qb != nil:
		return union(v, scaled(qa, v*bv/av), scaled(qb, v*math.Log(av)))
	case qa != nil:
		return union(v, scaled(qa, bv*math.Pow(av, bv-1)), nil)
	case qb != nil:
		return union(v, nil, scaled(qb, v*math.Log(av)))
	}
	return constant(v)
}

// ============================================================
// Unary operators
// ============================================================

func Neg(x Operand) *Derived {
	v, q := operand("neg", x)
	return union(-v, scaled(q, -1), nil)
}

// Pos returns a quantity equal to x, sharing its gradient.
func Pos(x Operand) *Derived {
	v, q := operand("pos", x)
	return union(v, q, nil)
}

// Abs returns |x|; the gradient flips sign for negative values.
func Abs(x Operand) *Derived {
	v, q := operand("abs", x)
	if v < 0 {
		return union(-v, scaled(q, -1), nil)
	}
	return union(v, q, nil)
}

// chain builds f(x) from f(x.value) and f'(x.value).
func chain(op string, x Operand, f, df func(float64) float64) *Derived {
	v, q := operand(op, x)
	fv := f(v)
	if q == nil {
		return constant(fv)
	}
	return union(fv, scaled(q, df(v)), nil)
}

// ============================================================
// Transcendental functions
// ============================================================

func Sqrt(x Operand) *Derived {
	return chain("sqrt", x, math.Sqrt, func(v float64) float64 { return 1 / (2 * math.Sqrt(v)) })
}

func Exp(x Operand) *Derived { return chain("exp", x, math.Exp, math.Exp) }

// Log is the natural logarithm.
func Log(x Operand) *Derived {
	return chain("log", x, math.Log, func(v float64) float64 { return 1 / v })
}

func Log10(x Operand) *Derived {
	return chain("log10", x, math.Log10, func(v float64) float64 { return 1 / (v * math.Ln10) })
}

func Sin(x Operand) *Derived { return chain("sin", x, math.Sin, math.Cos) }

func Cos(x Operand) *Derived {
	return chain("cos", x, math.Cos, func(v float64) float64 { return -math.Sin(v) })
}

func Tan(x Operand) *Derived {
	return chain("tan", x, math.Tan, func(v float64) float64 {
		c := math.Cos(v)
		return 1 / (c * c)
	})
}

func Asin(x Operand) *Derived {
	return chain("asin", x, math.Asin, func(v float64) float64 { return 1 / math.Sqrt(1-v*v) })
}

func Acos(x Operand) *Derived {
	return chain("acos", x, math.Acos, func(v float64) float64 { return -1 / math.Sqrt(1-v*v) })
}

func Atan(x Operand) *Derived {
	return chain("atan", x, math.Atan, func(v float64) float64 { return 1 / (1 + v*v) })
}

func Sinh(x Operand) *Derived { return chain("sinh", x, math.Sinh, math.Cosh) }

func Cosh(x Operand) *Derived { return chain("cosh", x, math.Cosh, math.Sinh) }

func Tanh(x Operand) *Derived {
	return chain("tanh", x, math.Tanh, func(v float64) float64 {
		t := math.Tanh(v)
		return 1 - t*t
	})
}

// ============================================================
// Method forms
// ============================================================

func (d *Derived) Add(o Operand) *Derived { return Add(d, o) }
func (d *Derived) Sub(o Operand) *Derived { return Sub(d, o) }
func (d *Derived) Mul(o Operand) *Derived { return Mul(d, o) }
func (d *Derived) Div(o Operand) *Derived { return Div(d, o) }
func (d *Derived) Pow(o Operand) *Derived { return Pow(d, o) }
func (d *Derived) Neg() *Derived          { return Neg(d) }
func (d *Derived) Abs() *Derived          { return Abs(d) }
func (d *Derived) Pos() *Derived          { return Pos(d) }
