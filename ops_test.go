package gouncertain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/dual"

	gou "github.com/njchilds90/gouncertain"
)

func TestAddErrorsInQuadrature(t *testing.T) {
	a := gou.M(2, 0.3)
	b := gou.M(5, 0.4)

	s := gou.Add(a, b)
	assert.Equal(t, 7.0, s.Value())
	assert.InDelta(t, 0.5, s.Error(), 1e-15)

	d := gou.Sub(a, b)
	assert.Equal(t, -3.0, d.Value())
	assert.InDelta(t, 0.5, d.Error(), 1e-15)
}

func TestConstantsAreExact(t *testing.T) {
	a := gou.M(2, 0.1)

	assert.InDelta(t, 0.1, gou.Add(a, gou.Const(10)).Error(), 1e-15)
	assert.InDelta(t, 0.3, gou.Mul(gou.Const(3), a).Error(), 1e-15)
	assert.InDelta(t, 0.05, gou.Div(a, gou.Const(2)).Error(), 1e-15)
	assert.Zero(t, gou.Add(gou.Const(1), gou.Const(2)).Error())
	assert.Equal(t, 3.0, gou.Add(gou.Const(1), gou.Const(2)).Value())
}

func TestCorrelatedIdentities(t *testing.T) {
	a := gou.M(2, 0.1)
	b := gou.M(7, 0.4)

	back := gou.Div(gou.Sub(gou.Add(gou.Add(a, a), b), b), gou.Const(2))
	assert.InDelta(t, a.Value(), back.Value(), 1e-15)
	assert.InDelta(t, a.Error(), back.Error(), 1e-15)
	assert.True(t, back.EqualWithinTolerance(a, 1e-9))

	ratio := gou.Div(gou.Mul(a, b), b)
	assert.InDelta(t, a.Error(), ratio.Error(), 1e-15)
	assert.Zero(t, gou.Sub(gou.Mul(a, b), gou.Mul(b, a)).Error())
}

func TestFunctionInverses(t *testing.T) {
	x := gou.M(0.7, 0.02)

	sq := gou.Pow(gou.Sqrt(x), gou.Const(2))
	assert.InDelta(t, x.Value(), sq.Value(), 1e-15)
	assert.InDelta(t, x.Error(), sq.Error(), 1e-15)

	at := gou.Atan(gou.Div(gou.Sin(x), gou.Cos(x)))
	assert.InDelta(t, x.Value(), at.Value(), 1e-15)
	assert.InDelta(t, x.Error(), at.Error(), 1e-15)

	el := gou.Exp(gou.Log(x))
	assert.InDelta(t, x.Error(), el.Error(), 1e-15)
	assert.InDelta(t, 0, gou.Sub(el, x).Error(), 1e-15)
}

func TestPowBranches(t *testing.T) {
	a := gou.M(-2, 0.1)

	cube := gou.Pow(a, gou.Const(3))
	assert.Equal(t, -8.0, cube.Value())
	assert.InDelta(t, 3*4*0.1, cube.Error(), 1e-14)
	assert.False(t, math.IsNaN(cube.Error()))

	e := gou.M(3, 0.05)
	p := gou.Pow(gou.Const(2), e)
	assert.Equal(t, 8.0, p.Value())
	assert.InDelta(t, 8*math.Ln2*0.05, p.Error(), 1e-14)

	b := gou.M(2, 0.1)
	both := gou.Pow(b, e)
	assert.InDelta(t, 8*3/2.0, both.Weight(b), 1e-14)
	assert.InDelta(t, 8*math.Ln2, both.Weight(e), 1e-14)

	assert.Zero(t, gou.Pow(gou.Const(2), gou.Const(10)).Error())
	assert.Equal(t, 1024.0, gou.Pow(gou.Const(2), gou.Const(10)).Value())
}

func TestUnarySigns(t *testing.T) {
	x := gou.M(-3, 0.2)

	assert.Equal(t, 3.0, gou.Neg(x).Value())
	assert.Equal(t, -1.0, gou.Neg(x).Weight(x))
	assert.Equal(t, 3.0, gou.Abs(x).Value())
	assert.Equal(t, -1.0, gou.Abs(x).Weight(x))
	zero := gou.M(0, 1)
	assert.Equal(t, 1.0, gou.Abs(zero).Weight(zero))
	assert.Equal(t, x.Value(), gou.Pos(x).Value())
	assert.InDelta(t, 0.2, gou.Pos(x).Error(), 1e-15)
}

func TestDivisionByZeroFollowsIEEE(t *testing.T) {
	a := gou.M(1, 0.1)

	q := gou.Div(a, gou.Const(0))
	assert.True(t, math.IsInf(q.Value(), 1))
	assert.True(t, math.IsInf(q.Error(), 1))
}

func TestMethodForms(t *testing.T) {
	a := gou.M(4, 0.2)
	b := gou.M(2, 0.1)

	assert.Equal(t, gou.Add(a, b).Value(), a.Add(b).Value())
	assert.Equal(t, gou.Sub(a, b).Value(), a.Sub(b).Value())
	assert.Equal(t, gou.Mul(a, b).Error(), a.Mul(b).Error())
	assert.Equal(t, gou.Div(a, b).Error(), a.Div(b).Error())
	assert.Equal(t, 16.0, a.Pow(gou.Const(2)).Value())
	assert.Equal(t, -4.0, a.Neg().Value())
	assert.Equal(t, 4.0, a.Neg().Abs().Value())
	assert.Equal(t, 4.0, a.Pos().Value())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(gou.Const(3)))
	assert.Equal(t, 0, b.Cmp(gou.Const(2)))
}

func TestDerivativesMatchDualNumbers(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		f    func(gou.Operand) *gou.Derived
		df   func(dual.Number) dual.Number
	}{
		{"sqrt", 2.5, gou.Sqrt, dual.Sqrt},
		{"exp", 0.3, gou.Exp, dual.Exp},
		{"log", 1.7, gou.Log, dual.Log},
		{"sin", 0.4, gou.Sin, dual.Sin},
		{"cos", 0.4, gou.Cos, dual.Cos},
		{"tan", 0.4, gou.Tan, dual.Tan},
		{"asin", 0.3, gou.Asin, dual.Asin},
		{"acos", 0.3, gou.Acos, dual.Acos},
		{"atan", 1.3, gou.Atan, dual.Atan},
		{"sinh", 0.8, gou.Sinh, dual.Sinh},
		{"cosh", 0.8, gou.Cosh, dual.Cosh},
		{"tanh", 0.8, gou.Tanh, dual.Tanh},
		{"cube", 1.9, func(o gou.Operand) *gou.Derived { return gou.Pow(o, gou.Const(3)) },
			func(d dual.Number) dual.Number { return dual.PowReal(d, 3) }},
		{"reciprocal", 1.9, func(o gou.Operand) *gou.Derived { return gou.Div(gou.Const(1), o) }, dual.Inv},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := gou.M(tt.x, 1)
			got := tt.f(x)
			want := tt.df(dual.Number{Real: tt.x, Emag: 1})

			assert.InDelta(t, want.Real, got.Value(), 1e-12)
			assert.InDelta(t, want.Emag, got.Weight(x), 1e-12)
			assert.InDelta(t, math.Abs(want.Emag), got.Error(), 1e-12)
		})
	}
}

func TestLog10(t *testing.T) {
	x := gou.M(100, 1)
	y := gou.Log10(x)

	assert.InDelta(t, 2, y.Value(), 1e-15)
	assert.InDelta(t, 1/(100*math.Ln10), y.Error(), 1e-15)
}

func TestRunningSum(t *testing.T) {
	const n = 2000
	total := gou.Pos(gou.Const(0))
	leaves := make([]*gou.Leaf, n)
	for i := 1; i <= n; i++ {
		l := gou.M(float64(i), math.Sqrt(float64(i)))
		leaves[i-1] = l
		total = total.Add(l)
	}

	want := float64(n * (n + 1) / 2)
	assert.Equal(t, want, total.Value())
	assert.InDelta(t, want, total.Variance(), 1e-4)
	require.Len(t, total.Leaves(), n)
	assert.Equal(t, leaves[0], total.Leaves()[0])

	sum := gou.Sum(leaves[0], leaves[1], gou.Const(10))
	assert.Equal(t, 13.0, sum.Value())
	assert.InDelta(t, 3.0, sum.Variance(), 1e-15)
}

func TestIntermediatesStayValid(t *testing.T) {
	a := gou.M(1, 0.1)
	b := gou.M(2, 0.2)
	c := gou.M(3, 0.3)

	ab := gou.Add(a, b)
	abc := gou.Add(ab, c)
	abcd := gou.Add(abc, gou.M(4, 0.4))
	_ = abcd.Variance()

	assert.InDelta(t, 0.01+0.04, ab.Variance(), 1e-15)
	assert.InDelta(t, 0.01+0.04+0.09, abc.Variance(), 1e-15)
	assert.InDelta(t, 0.01+0.04+0.09+0.16, abcd.Variance(), 1e-15)
	assert.InDelta(t, 0.01+0.04, ab.Covariance(abcd), 1e-15)
	assert.Equal(t, 0.0, ab.Weight(c))
}

func TestRelativeErrorAndTolerance(t *testing.T) {
	x := gou.M(4, 0.2)

	rel, ok := x.RelativeError()
	require.True(t, ok)
	assert.InDelta(t, 0.05, rel, 1e-15)

	_, ok = gou.M(0, 1).RelativeError()
	assert.False(t, ok)

	assert.True(t, x.EqualWithinTolerance(gou.Const(4.3), 2))
	assert.False(t, x.EqualWithinTolerance(gou.Const(4.5), 2))
	assert.True(t, x.EqualWithinTolerance(gou.Const(4), 0))
}
