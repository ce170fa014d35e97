package gouncertain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ============================================================
// Formatting
// ============================================================

// Formatter renders (value, error) pairs as "1.234(56)e-7".
type Formatter struct {
	// NoErrorDigits is the number of fractional digits printed when the
	// error is zero.
	NoErrorDigits int
	// MaxPrecision caps the number of fractional digits chosen from the error.
	MaxPrecision int
}

// DefaultFormatter is used by Format, FormatNoError and Derived.String.
var DefaultFormatter = Formatter{NoErrorDigits: 6, MaxPrecision: 20}

// Format renders value and stdErr with DefaultFormatter.
func Format(value, stdErr float64) string { return DefaultFormatter.Format(value, stdErr) }

// FormatNoError renders value alone with DefaultFormatter.
func FormatNoError(value float64) string { return DefaultFormatter.Format(value, 0) }

// Format picks the precision at which stdErr shows two significant digits,
// prints value at that precision and appends the error in parentheses.
// Values with a decimal exponent ≥ 6 or ≤ -2 are printed in scientific form.
func (f Formatter) Format(value, stdErr float64) string {
	mantissa, stdErr, suffix := scientific(value, math.Abs(stdErr))
	if stdErr == 0 {
		digits := f.NoErrorDigits
		if digits < 0 {
			digits = DefaultFormatter.NoErrorDigits
		}
		return strconv.FormatFloat(mantissa, 'f', digits, 64) + suffix
	}
	prec := f.precision(stdErr)
	return fmt.Sprintf("%.*f(%.0f)%s", prec, mantissa, stdErr*math.Pow10(prec), suffix)
}

// precision returns the number of fractional digits for stdErr; NaN maps to 3.
func (f Formatter) precision(stdErr float64) int {
	if math.IsNaN(stdErr) || math.IsInf(stdErr, 0) {
		return 3
	}
	maxPrec := f.MaxPrecision
	if maxPrec <= 0 {
		maxPrec = DefaultFormatter.MaxPrecision
	}
	p := -decade(stdErr) + 1
	return min(max(p, 0), maxPrec)
}

// decade returns floor(log10(x)) for finite x > 0. math.Log10 is off by one
// ulp on some exact powers of ten, so the estimate is corrected.
func decade(x float64) int {
	d := int(math.Floor(math.Log10(x)))
	switch {
	case math.Pow10(d) > x:
		d--
	case math.Pow10(d+1) <= x:
		d++
	}
	return d
}

// scientific scales value and stdErr by the decimal exponent of value when
// scientific notation applies. Zero, NaN and infinite values stay fixed.
func scientific(value, stdErr float64) (float64, float64, string) {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return value, stdErr, ""
	}
	exp := decade(math.Abs(value))
	if exp < 6 && exp > -2 {
		return value, stdErr, ""
	}
	scale := math.Pow10(exp)
	return value / scale, stdErr / scale, "e" + strconv.Itoa(exp)
}

// ============================================================
// Parsing
// ============================================================

var (
	literalRE  = regexp.MustCompile(`^\s*([+-]?)(\d*)(?:\.(\d*))?(\(([^)]*)\))?\s*(?:([eE])(\S*))?\s*$`)
	digitsRE   = regexp.MustCompile(`^\d+$`)
	exponentRE = regexp.MustCompile(`^[+-]?\d+$`)
)

// Parse reads "[sign]digits[.digits][(digits)][e[sign]digits]". The
// parenthetical uncertainty counts in units of the value's last digit, so
// "1.234(10)e5" is 123400 ± 1000. Without parentheses hasErr is false.
//
// Whitespace is allowed around the literal and before the exponent marker,
// not between the marker and the exponent.
func Parse(s string) (value, stdErr float64, hasErr bool, err error) {
	m := literalRE.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false, &ParseError{Literal: s, Reason: "not an uncertainty literal"}
	}
	sign, intPart, frac := m[1], m[2], m[3]
	paren, unc := m[4], m[5]
	marker, expPart := m[6], m[7]
	if intPart == "" && frac == "" {
		return 0, 0, false, &ParseError{Literal: s, Reason: "no digits"}
	}

	exp := 0
	if marker != "" {
		if !exponentRE.MatchString(expPart) {
			return 0, 0, false, &ParseError{Literal: s, Reason: fmt.Sprintf("bad exponent %q", expPart)}
		}
		if exp, err = strconv.Atoi(expPart); err != nil {
			return 0, 0, false, &ParseError{Literal: s, Reason: "exponent out of range"}
		}
	}

	if intPart == "" {
		intPart = "0"
	}
	num := sign + intPart
	if frac != "" {
		num += "." + frac
	}
	value, err = strconv.ParseFloat(num+"e"+strconv.Itoa(exp), 64)
	if err != nil {
		return 0, 0, false, &ParseError{Literal: s, Reason: "value out of range"}
	}
	if paren == "" {
		return value, 0, false, nil
	}

	if !digitsRE.MatchString(unc) {
		return 0, 0, false, &ParseError{Literal: s, Reason: fmt.Sprintf("uncertainty %q must be digits only", unc)}
	}
	stdErr, err = strconv.ParseFloat(unc+"e"+strconv.Itoa(exp-len(frac)), 64)
	if err != nil {
		return 0, 0, false, &ParseError{Literal: s, Reason: "uncertainty out of range"}
	}
	return value, stdErr, true, nil
}

// ParseLeaf parses s into a new leaf; literals without an uncertainty give a
// leaf without error.
func ParseLeaf(s string) (*Leaf, error) {
	v, e, ok, err := Parse(s)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewLeaf(v), nil
	}
	return NewLeafWithError(v, e), nil
}
