package gouncertain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gou "github.com/njchilds90/gouncertain"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		value, err float64
		want       string
	}{
		{1.5, 0.25, "1.50(25)"},
		{1234.5678, 0.0123, "1234.568(12)"},
		{1.5e7, 3, "1.50000000(30)e7"},
		{0.02, 4e-4, "2.000(40)e-2"},
		{0.0123, 0.0004, "1.230(40)e-2"},
		{5, 20, "5(20)"},
		{2, -0.5, "2.00(50)"},
		{-7.25, 0.5, "-7.25(50)"},
		{123456, 0, "123456.000000"},
		{1e6, 0, "1.000000e6"},
		{0, 0.5, "0.00(50)"},
		{1, math.NaN(), "1.000(NaN)"},
		{1000, 1, "1000.0(10)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, gou.Format(tt.value, tt.err))
		})
	}
}

func TestFormatNoError(t *testing.T) {
	assert.Equal(t, "3.141593", gou.FormatNoError(math.Pi))
	assert.Equal(t, gou.FormatNoError(2.5), gou.Format(2.5, 0))
}

func TestFormatterSettings(t *testing.T) {
	f := gou.Formatter{NoErrorDigits: 0, MaxPrecision: 4}

	assert.Equal(t, "4", f.Format(3.7, 0))
	assert.Equal(t, "1.0000(0)", f.Format(1, 1e-9))

	// Unset precision falls back to the default cap.
	assert.Equal(t, "1.000000000(20)", gou.Formatter{NoErrorDigits: 6}.Format(1, 2e-8))
}

func TestDerivedString(t *testing.T) {
	assert.Equal(t, "2.00(10)", gou.M(2, 0.1).String())
	assert.Equal(t, "5.00(22)", gou.Add(gou.M(2, 0.1), gou.M(3, 0.2)).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		literal string
		value   float64
		err     float64
		hasErr  bool
	}{
		{"1.234(56)", 1.234, 0.056, true},
		{"1.234(10)e5", 123400, 1000, true},
		{"  -0.5(3) ", -0.5, 0.3, true},
		{"+2(1)", 2, 1, true},
		{".5(1)", 0.5, 0.1, true},
		{"6.62607015(81)e-34", 6.62607015e-34, 8.1e-41, true},
		{"3.1415 e+8", 3.1415e8, 0, false},
		{"12", 12, 0, false},
		{"1e3", 1000, 0, false},
		{"1.", 1, 0, false},
		{"0123", 123, 0, false},
		{"1.234(0010)e5", 123400, 1000, true},
		{" 3.1415 e+8 ", 3.1415e8, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			v, e, hasErr, err := gou.Parse(tt.literal)
			require.NoError(t, err)
			assert.InEpsilon(t, tt.value, v, 1e-12)
			assert.Equal(t, tt.hasErr, hasErr)
			if tt.hasErr {
				assert.InEpsilon(t, tt.err, e, 1e-12)
			} else {
				assert.Zero(t, e)
			}
		})
	}
}

func TestParseRejectsMalformedLiterals(t *testing.T) {
	for _, lit := range []string{
		"",
		"   ",
		"0x123",
		"1.234(.4)",
		"3.1415e +8",
		"abc",
		"1.2(3",
		"1.2(3)e",
		"1.2()",
		"--1",
		"1.2.3",
		"1e999",
		"1(2)e99999999999999999999",
	} {
		t.Run(lit, func(t *testing.T) {
			_, _, _, err := gou.Parse(lit)
			require.Error(t, err)
			assert.True(t, errors.Is(err, gou.ErrParse))

			var pe *gou.ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, lit, pe.Literal)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	pairs := [][2]float64{
		{1.5, 0.25},
		{1234.5678, 0.0123},
		{1.5e7, 3},
		{0.02, 4e-4},
		{-6.02214076e23, 1.2e15},
		{9.80665, 0.00012},
	}
	for _, p := range pairs {
		s := gou.Format(p[0], p[1])
		v, e, hasErr, err := gou.Parse(s)
		require.NoError(t, err, s)
		assert.True(t, hasErr, s)
		assert.InDelta(t, p[0], v, p[1], s)
		assert.InEpsilon(t, p[1], e, 0.05, s)
	}
}

func TestParseLeaf(t *testing.T) {
	l, err := gou.ParseLeaf("1.234(56)")
	require.NoError(t, err)
	assert.True(t, l.HasError())
	assert.InDelta(t, 0.056, l.Error(), 1e-15)

	exact, err := gou.ParseLeaf("42")
	require.NoError(t, err)
	assert.False(t, exact.HasError())
	assert.Equal(t, 42.0, exact.Value())

	_, err = gou.ParseLeaf("4 2")
	assert.ErrorIs(t, err, gou.ErrParse)
}
