// Package gouncertain propagates measurement uncertainty through scalar
// arithmetic to first order (linearized Gauss propagation).
//
// Design goals:
//   - Leaves carry value, variance and covariances; everything else is a
//     sparse gradient over leaves
//   - Errors and covariances may be attached after a leaf was used
//   - Cross terms between derived quantities sharing leaves are exact
//   - Running sums cost amortized O(1) per addition (lazy gradient union)
//   - Parenthetical notation in and out: "3.1415(92)e-6"
//
// The package is not safe for concurrent use.
package gouncertain

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ============================================================
// Operands
// ============================================================

// Operand is anything an operator accepts: a *Leaf, a *Derived or a Const.
type Operand interface {
	Value() float64
	quantity() *Derived
}

// Const is an exact number. It contributes no gradient.
type Const float64

func (c Const) Value() float64     { return float64(c) }
func (c Const) quantity() *Derived { return nil }

// operand unpacks x for operator op. A nil quantity with a nil Derived means
// x is a constant.
func operand(op string, x Operand) (float64, *Derived) {
	if x == nil {
		panic(&InvalidOperandError{Op: op, Reason: "nil operand"})
	}
	q := x.quantity()
	if q == nil {
		if _, ok := x.(Const); !ok {
			panic(&InvalidOperandError{Op: op, Operand: x, Reason: "nil quantity"})
		}
		return x.Value(), nil
	}
	return q.value, q
}

// ============================================================
// Errors
// ============================================================

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("gouncertain: parse error")
	// ErrInvalidOperand matches every *InvalidOperandError.
	ErrInvalidOperand = errors.New("gouncertain: invalid operand")
)

// ParseError reports a malformed uncertainty literal.
type ParseError struct {
	Literal string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gouncertain: cannot parse %q: %s", e.Literal, e.Reason)
}

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// InvalidOperandError reports an operand of the wrong kind, e.g. a derived
// quantity passed to SetCovariance.
type InvalidOperandError struct {
	Op      string
	Operand any
	Reason  string
}

func (e *InvalidOperandError) Error() string {
	if e.Operand == nil {
		return fmt.Sprintf("gouncertain: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("gouncertain: %s: %s (%T)", e.Op, e.Reason, e.Operand)
}

func (e *InvalidOperandError) Is(target error) bool { return target == ErrInvalidOperand }

// ============================================================
// Logging
// ============================================================

var logger = zap.NewNop()

// SetLogger routes the package's diagnostics (copy-path merges, rebuilt
// gradients, suspicious covariances) to l. A nil l silences them.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l.Named("gouncertain")
}
