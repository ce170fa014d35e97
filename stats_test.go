package gouncertain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	gou "github.com/njchilds90/gouncertain"
)

func TestWeightedMean(t *testing.T) {
	m, err := gou.WeightedMean(gou.M(10, 1), gou.M(20, 2))
	require.NoError(t, err)

	assert.InDelta(t, 12, m.Value(), 1e-12)
	assert.InDelta(t, 0.8, m.Variance(), 1e-12)

	same, err := gou.WeightedMean(gou.M(10, 1), gou.M(12, 1))
	require.NoError(t, err)
	assert.InDelta(t, 11, same.Value(), 1e-12)
	assert.InDelta(t, math.Sqrt(0.5), same.Error(), 1e-12)
}

func TestWeightedMeanPropagatesCorrelation(t *testing.T) {
	a := gou.M(10, 1)
	b := gou.M(12, 1)
	require.NoError(t, a.SetCovariance(b, 1))

	m, err := gou.WeightedMean(a, b)
	require.NoError(t, err)

	// Fully correlated inputs: averaging gains nothing.
	assert.InDelta(t, 1, m.Error(), 1e-12)
	assert.InDelta(t, 0.5, m.Weight(a), 1e-15)
}

func TestWeightedMeanErrors(t *testing.T) {
	_, err := gou.WeightedMean()
	assert.ErrorIs(t, err, gou.ErrInvalidOperand)

	_, err = gou.WeightedMean(gou.M(1, 1), gou.Const(2))
	assert.ErrorIs(t, err, gou.ErrInvalidOperand)

	_, err = gou.WeightedMean(gou.M(1, 1), gou.NewLeaf(2))
	assert.ErrorIs(t, err, gou.ErrInvalidOperand)
}

func TestCovarianceMatrix(t *testing.T) {
	a := gou.M(1, 0.1)
	b := gou.M(2, 0.2)
	s := gou.Add(a, b)

	c := gou.CovarianceMatrix(a, b, s, gou.Const(3))
	require.Equal(t, 4, c.SymmetricDim())

	want := mat.NewSymDense(4, []float64{
		0.01, 0, 0.01, 0,
		0, 0.04, 0.04, 0,
		0.01, 0.04, 0.05, 0,
		0, 0, 0, 0,
	})
	assert.True(t, mat.EqualApprox(want, c, 1e-15))
}

func TestCorrelationMatrix(t *testing.T) {
	a := gou.M(1, 0.1)
	b := gou.M(2, 0.1)
	s := gou.Add(a, b)

	r := gou.CorrelationMatrix(a, s, gou.Neg(a), gou.Const(1))

	for i := 0; i < 4; i++ {
		assert.Equal(t, 1.0, r.At(i, i))
	}
	assert.InDelta(t, 1/math.Sqrt2, r.At(0, 1), 1e-12)
	assert.InDelta(t, -1, r.At(0, 2), 1e-12)
	assert.Zero(t, r.At(0, 3))
	assert.Zero(t, r.At(3, 1))
}

func TestCorrelation(t *testing.T) {
	a := gou.M(1, 0.3)

	rho, ok := gou.Correlation(a, gou.Mul(gou.Const(-2), a))
	require.True(t, ok)
	assert.InDelta(t, -1, rho, 1e-12)

	_, ok = gou.Correlation(a, gou.Const(1))
	assert.False(t, ok)

	_, ok = gou.Correlation(a, gou.NewLeaf(1))
	assert.False(t, ok)
}
