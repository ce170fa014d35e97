package gouncertain

import (
	"math"
	"sync/atomic"

	"go.uber.org/zap"
)

// ============================================================
// Leaf
// ============================================================

var leafSeq atomic.Uint64

// Leaf is an independently specified measurement. Leaves are compared by
// identity: two leaves with equal value and error are still different
// measurements.
//
// A Leaf is also a Derived with gradient {leaf: 1}, so every method of
// Derived (arithmetic, Error, Covariance, ...) applies to it directly.
// Leaves must be created with NewLeaf, NewLeafWithError or M; a zero Leaf
// accepts errors and covariances but has no gradient.
type Leaf struct {
	Derived

	id       uint64
	hasError bool
	cov      map[*Leaf]float64 // symmetric; includes the variance
}

// NewLeaf creates a leaf without an explicit error. It is treated as exact
// until SetError, SetVariance or SetCovariance is called.
func NewLeaf(value float64) *Leaf {
	l := &Leaf{id: leafSeq.Add(1), cov: map[*Leaf]float64{}}
	l.Derived = Derived{value: value, grad: gradient{l: 1}, pinned: true}
	return l
}

// NewLeafWithError creates a leaf with standard error stdErr.
func NewLeafWithError(value, stdErr float64) *Leaf {
	l := NewLeaf(value)
	l.SetError(stdErr)
	return l
}

// M is shorthand for NewLeafWithError.
func M(value, stdErr float64) *Leaf { return NewLeafWithError(value, stdErr) }

func (l *Leaf) quantity() *Derived {
	if l == nil {
		return nil
	}
	return &l.Derived
}

// ID is unique per leaf and increases with creation order.
func (l *Leaf) ID() uint64 { return l.id }

// HasError reports whether an error or variance was ever set.
func (l *Leaf) HasError() bool { return l.hasError }

func (l *Leaf) SetError(stdErr float64) { l.SetVariance(stdErr * stdErr) }

// SetVariance sets the diagonal entry of the covariance store. Quantities
// already derived from l hold weights, not variances, so they pick up the new
// value on their next read.
func (l *Leaf) SetVariance(v float64) {
	l.store()[l] = v
	l.hasError = true
}

// SetCovariance sets cov(l, other) = c on both leaves. other must be a *Leaf;
// passing l itself sets the variance.
func (l *Leaf) SetCovariance(other Operand, c float64) error {
	o, ok := other.(*Leaf)
	if !ok || o == nil {
		return &InvalidOperandError{Op: "SetCovariance", Operand: other, Reason: "covariance partner must be a leaf"}
	}
	if o == l {
		l.SetVariance(c)
		return nil
	}
	if va, vb := l.cov[l], o.cov[o]; va > 0 && vb > 0 && math.Abs(c) > math.Sqrt(va*vb) {
		logger.Warn("covariance exceeds product of standard errors",
			zap.Uint64("leaf", l.id), zap.Uint64("other", o.id),
			zap.Float64("covariance", c), zap.Float64("bound", math.Sqrt(va*vb)))
	}
	l.store()[o] = c
	o.store()[l] = c
	return nil
}

// store returns the covariance map, creating it for a zero Leaf.
func (l *Leaf) store() map[*Leaf]float64 {
	if l.cov == nil {
		l.cov = map[*Leaf]float64{}
	}
	return l.cov
}
