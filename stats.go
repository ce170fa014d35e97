package gouncertain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ============================================================
// Aggregates
// ============================================================

// Sum adds all operands left to right on the lazy additive path.
func Sum(ops ...Operand) *Derived {
	acc := constant(0)
	for _, o := range ops {
		acc = Add(acc, o)
	}
	return acc
}

// WeightedMean returns the inverse-variance weighted mean of ops. Every
// operand needs a positive variance. Correlations between the operands do
// not change the weights but are fully propagated into the result's error.
func WeightedMean(ops ...Operand) (*Derived, error) {
	if len(ops) == 0 {
		return nil, &InvalidOperandError{Op: "WeightedMean", Reason: "no operands"}
	}
	values := make([]float64, len(ops))
	weights := make([]float64, len(ops))
	for i, o := range ops {
		v, q := operand("WeightedMean", o)
		if q == nil {
			return nil, &InvalidOperandError{Op: "WeightedMean", Operand: o, Reason: "constant has no variance"}
		}
		variance := q.Variance()
		if !(variance > 0) {
			return nil, &InvalidOperandError{Op: "WeightedMean", Operand: o, Reason: "variance must be positive"}
		}
		values[i] = v
		weights[i] = 1 / variance
	}

	total := floats.Sum(weights)
	var acc *Derived
	for i, o := range ops {
		acc = union(0, acc, scaled(o.quantity(), weights[i]/total))
	}
	acc.value = stat.Mean(values, weights)
	return acc, nil
}

// ============================================================
// Matrices
// ============================================================

// CovarianceMatrix returns the covariance matrix of ops; constants give zero
// rows and columns.
func CovarianceMatrix(ops ...Operand) *mat.SymDense {
	n := len(ops)
	qs := make([]*Derived, n)
	for i, o := range ops {
		_, qs[i] = operand("CovarianceMatrix", o)
	}
	c := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		if qs[i] == nil {
			continue
		}
		for j := i; j < n; j++ {
			if qs[j] == nil {
				continue
			}
			c.SetSym(i, j, qs[i].Covariance(qs[j]))
		}
	}
	return c
}

// CorrelationMatrix normalizes CovarianceMatrix to unit diagonal. Rows of
// exact quantities are zero apart from the diagonal.
func CorrelationMatrix(ops ...Operand) *mat.SymDense {
	c := CovarianceMatrix(ops...)
	n := c.SymmetricDim()
	sigma := make([]float64, n)
	for i := range sigma {
		sigma[i] = math.Sqrt(c.At(i, i))
	}
	r := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		r.SetSym(i, i, 1)
		for j := i + 1; j < n; j++ {
			if sigma[i] > 0 && sigma[j] > 0 {
				r.SetSym(i, j, c.At(i, j)/(sigma[i]*sigma[j]))
			}
		}
	}
	return r
}

// Correlation returns cov(a,b)/(σa·σb); ok is false if either error is zero.
func Correlation(a, b Operand) (rho float64, ok bool) {
	_, qa := operand("Correlation", a)
	_, qb := operand("Correlation", b)
	if qa == nil || qb == nil {
		return 0, false
	}
	sa, sb := qa.Error(), qb.Error()
	if sa == 0 || sb == 0 {
		return 0, false
	}
	return qa.Covariance(qb) / (sa * sb), true
}

// symRows copies a symmetric matrix into row slices for JSON output.
func symRows(s *mat.SymDense) [][]float64 {
	n := s.SymmetricDim()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = s.At(i, j)
		}
	}
	return rows
}
