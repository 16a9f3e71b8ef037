package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/japinli/pg-duckdb/errors"
)

func TestDecodeNumericZero(t *testing.T) {
	n := &NumericVar{Weight: 0, Sign: NumericPos, DScale: 2}
	val, err := DecodeNumericAsInt64(n)
	require.NoError(t, err)
	require.Equal(t, int64(0), val)
}

func TestDecodeNumericPureInteger(t *testing.T) {
	// 12345678 at scale 0
	n := &NumericVar{Weight: 1, Sign: NumericPos, DScale: 0, Digits: []int16{1234, 5678}}
	val, err := DecodeNumericAsInt64(n)
	require.NoError(t, err)
	require.Equal(t, int64(12345678), val)
}

func TestDecodeNumericPureFraction(t *testing.T) {
	// 0.01
	n := &NumericVar{Weight: -1, Sign: NumericPos, DScale: 2, Digits: []int16{100}}
	val, err := DecodeNumericAsInt64(n)
	require.NoError(t, err)
	require.Equal(t, int64(1), val)
}

func TestDecodeNumericScaleNarrowerThanDigitGroup(t *testing.T) {
	// 2.5 stored as digit groups [2, 5000]; the final group carries more decimal
	// digits than the declared scale and must be divided down.
	n := &NumericVar{Weight: 0, Sign: NumericPos, DScale: 1, Digits: []int16{2, 5000}}
	val, err := DecodeNumericAsInt64(n)
	require.NoError(t, err)
	require.Equal(t, int64(25), val)
}

func TestDecodeNumericSuppressedTrailingZeroGroups(t *testing.T) {
	// 2.50000000 at scale 8: the trailing zero groups are suppressed, so the decode
	// has to multiply the missing powers of ten back in.
	n := &NumericVar{Weight: 0, Sign: NumericPos, DScale: 8, Digits: []int16{2, 5000}}
	val, err := DecodeNumericAsInt64(n)
	require.NoError(t, err)
	require.Equal(t, int64(250000000), val)
}

func TestDecodeNumericImplicitIntegralZeroGroups(t *testing.T) {
	// 30000 at scale 0: weight says two groups before the decimal point but only the
	// most significant one is stored.
	n := &NumericVar{Weight: 1, Sign: NumericPos, DScale: 0, Digits: []int16{3}}
	val, err := DecodeNumericAsInt64(n)
	require.NoError(t, err)
	require.Equal(t, int64(30000), val)
}

func TestDecodeNumericSignIndependentOfMagnitude(t *testing.T) {
	for _, tc := range []struct {
		name     string
		numeric  NumericVar
		expected int64
	}{
		{"negative integer", NumericVar{Weight: 0, Sign: NumericNeg, DScale: 0, Digits: []int16{42}}, -42},
		{"negative fraction", NumericVar{Weight: -1, Sign: NumericNeg, DScale: 2, Digits: []int16{100}}, -1},
		{"negative mixed", NumericVar{Weight: 0, Sign: NumericNeg, DScale: 2, Digits: []int16{3, 1400}}, -314},
	} {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.numeric
			val, err := DecodeNumericAsInt64(&n)
			require.NoError(t, err)
			require.Equal(t, tc.expected, val)
		})
	}
}

func TestDecodeNumericAsDouble(t *testing.T) {
	// 12345678.87654321
	n := &NumericVar{Weight: 1, Sign: NumericPos, DScale: 8, Digits: []int16{1234, 5678, 8765, 4321}}
	val, err := DecodeNumericAsFloat64(n)
	require.NoError(t, err)
	require.InEpsilon(t, 12345678.87654321, val, 1e-12)

	n.Sign = NumericNeg
	val, err = DecodeNumericAsFloat64(n)
	require.NoError(t, err)
	require.InEpsilon(t, -12345678.87654321, val, 1e-12)
}

func TestDecodeNumericScaleBeyondIntegerRange(t *testing.T) {
	n := &NumericVar{Weight: 0, Sign: NumericPos, DScale: 25, Digits: []int16{1}}
	_, err := DecodeNumericAsInt64(n)
	require.Error(t, err)
	var perr errors.PgDuckError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, errors.ValueOutOfRange, perr.Code)

	// The double path has no fixed-width bound.
	val, err := DecodeNumericAsFloat64(n)
	require.NoError(t, err)
	require.InEpsilon(t, 1.0, val, 1e-12)
}

func TestNumericVarEncodeDecode(t *testing.T) {
	n := &NumericVar{Weight: 1, Sign: NumericNeg, DScale: 4, Digits: []int16{12, 3456, 7890}}
	buffer := AppendNumericVar(nil, n)
	decoded, err := DecodeNumericVar(buffer)
	require.NoError(t, err)
	require.Equal(t, n, decoded)
}

func TestNumericVarNegativeWeightSurvivesEncoding(t *testing.T) {
	n := &NumericVar{Weight: -2, Sign: NumericPos, DScale: 8, Digits: []int16{42}}
	buffer := AppendNumericVar(nil, n)
	decoded, err := DecodeNumericVar(buffer)
	require.NoError(t, err)
	require.Equal(t, -2, decoded.Weight)

	val, err := DecodeNumericAsFloat64(decoded)
	require.NoError(t, err)
	require.InEpsilon(t, 42e-8, val, 1e-9)
}

func TestDecodeNumericVarTruncated(t *testing.T) {
	_, err := DecodeNumericVar([]byte{1, 0, 0, 0})
	require.Error(t, err)
	n := &NumericVar{Weight: 0, Sign: NumericPos, DScale: 0, Digits: []int16{1, 2}}
	buffer := AppendNumericVar(nil, n)
	_, err = DecodeNumericVar(buffer[:len(buffer)-1])
	require.Error(t, err)
}
