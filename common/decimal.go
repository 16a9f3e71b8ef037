package common

import (
	"math"

	"github.com/japinli/pg-duckdb/errors"
)

// Numeric values arrive as a sign, a positional weight and an array of base-10000
// digit groups, with trailing zero groups suppressed. NBase is the digit-group base
// and DecDigits the number of decimal digits per group.
const (
	NBase     = 10000
	DecDigits = 4

	NumericPos uint16 = 0x0000
	NumericNeg uint16 = 0x4000
)

// One digit group in the fixed-width path holds at most 19 decimal digits of
// correction before int64 arithmetic overflows.
const maxPowerOfTenInt64 = 18

// NumericVar is the unpacked form of a numeric attribute. Weight is the position of
// Digits[0] in digit groups relative to the decimal point; DScale is the declared
// number of decimal digits after it.
type NumericVar struct {
	Weight int
	Sign   uint16
	DScale int
	Digits []int16
}

func (n *NumericVar) IsNegative() bool {
	return n.Sign == NumericNeg
}

func (n *NumericVar) NDigits() int {
	return len(n.Digits)
}

// AppendNumericVar encodes n into the packed payload carried inside a numeric
// varlena: ndigits, weight, sign, dscale as 16-bit words, then the digit groups.
func AppendNumericVar(buffer []byte, n *NumericVar) []byte {
	buffer = AppendUint16ToBufferLE(buffer, uint16(len(n.Digits)))
	buffer = AppendUint16ToBufferLE(buffer, uint16(int16(n.Weight)))
	buffer = AppendUint16ToBufferLE(buffer, n.Sign)
	buffer = AppendUint16ToBufferLE(buffer, uint16(n.DScale))
	for _, d := range n.Digits {
		buffer = AppendUint16ToBufferLE(buffer, uint16(d))
	}
	return buffer
}

// DecodeNumericVar unpacks a numeric varlena payload.
func DecodeNumericVar(buffer []byte) (*NumericVar, error) {
	if len(buffer) < 8 {
		return nil, errors.NewInvariantViolationError("numeric attribute payload too short")
	}
	offset := 0
	var ndigits, weight, sign, dscale uint16
	ndigits, offset = ReadUint16FromBufferLE(buffer, offset)
	weight, offset = ReadUint16FromBufferLE(buffer, offset)
	sign, offset = ReadUint16FromBufferLE(buffer, offset)
	dscale, offset = ReadUint16FromBufferLE(buffer, offset)
	if len(buffer) < offset+2*int(ndigits) {
		return nil, errors.NewInvariantViolationError("numeric attribute payload too short")
	}
	n := &NumericVar{
		Weight: int(int16(weight)),
		Sign:   sign,
		DScale: int(dscale),
		Digits: make([]int16, ndigits),
	}
	for i := range n.Digits {
		var d uint16
		d, offset = ReadUint16FromBufferLE(buffer, offset)
		n.Digits[i] = int16(d)
	}
	return n, nil
}

// decimalPolicy supplies the destination-specific pieces of the decimal decode: the
// power-of-ten helper and the finalisation of the accumulated result.
type decimalPolicy[T int64 | float64] interface {
	PowerOfTen(exp int) (T, error)
	Finalize(n *NumericVar, accumulated T) T
}

type decimalConversionInteger struct{}

func (decimalConversionInteger) PowerOfTen(exp int) (int64, error) {
	if exp < 0 || exp > maxPowerOfTenInt64 {
		return 0, errors.NewValueOutOfRangeError(
			"Decimal scale correction exceeds the fixed-width integer range")
	}
	result := int64(1)
	for i := 0; i < exp; i++ {
		result *= 10
	}
	return result, nil
}

// Finalize is a no-op for the integer path: the accumulation already produced the
// value expressed at the target scale.
func (decimalConversionInteger) Finalize(_ *NumericVar, accumulated int64) int64 {
	return accumulated
}

type decimalConversionDouble struct{}

func (decimalConversionDouble) PowerOfTen(exp int) (float64, error) {
	return math.Pow10(exp), nil
}

// Finalize divides the scale back out: the shared accumulation works in fixed-point,
// but the double path wants the plain approximate value.
func (decimalConversionDouble) Finalize(n *NumericVar, accumulated float64) float64 {
	return accumulated / math.Pow10(n.DScale)
}

// decodeNumeric accumulates the digit groups of n into a scalar expressed at the
// value's declared scale. The integral groups are accumulated left-to-right in the
// digit-group base and then shifted up by the full scale so they line up with the
// fractional part. The fractional groups are likewise accumulated left-to-right,
// except the last one: the digit-group width rarely matches the declared scale
// exactly, and suppressed trailing zero groups mean too few multiplications happened,
// so the final group and its base are corrected by the power-of-ten difference in
// either direction.
func decodeNumeric[T int64 | float64, P decimalPolicy[T]](n *NumericVar, policy P) (T, error) {
	scalePower, err := policy.PowerOfTen(n.DScale)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	ndigits := n.NDigits()
	if ndigits == 0 {
		return 0, nil
	}

	var integralPart, fractionalPart T

	if n.Weight >= 0 {
		digitIdx := 0
		integralPart = T(n.Digits[digitIdx])
		digitIdx++
		for ; digitIdx <= n.Weight; digitIdx++ {
			integralPart *= NBase
			if digitIdx < ndigits {
				integralPart += T(n.Digits[digitIdx])
			}
		}
		integralPart *= scalePower
	}

	if ndigits > n.Weight+1 {
		fractionalPower := (ndigits - n.Weight - 1) * DecDigits
		fractionalPowerCorrection := fractionalPower - n.DScale
		start := n.Weight + 1
		if start < 0 {
			start = 0
		}
		for i := start; i < ndigits; i++ {
			if i+1 < ndigits {
				// more digit groups remain - no need to compensate yet
				fractionalPart *= NBase
				fractionalPart += T(n.Digits[i])
			} else {
				// last group, compensate
				finalBase := T(NBase)
				finalDigit := T(n.Digits[i])
				if fractionalPowerCorrection >= 0 {
					compensation, err := policy.PowerOfTen(fractionalPowerCorrection)
					if err != nil {
						return 0, errors.WithStack(err)
					}
					finalBase /= compensation
					finalDigit /= compensation
				} else {
					compensation, err := policy.PowerOfTen(-fractionalPowerCorrection)
					if err != nil {
						return 0, errors.WithStack(err)
					}
					finalBase *= compensation
					finalDigit *= compensation
				}
				fractionalPart *= finalBase
				fractionalPart += finalDigit
			}
		}
	}

	result := policy.Finalize(n, integralPart+fractionalPart)
	if n.IsNegative() {
		result = -result
	}
	return result, nil
}

// DecodeNumericAsInt64 decodes n into a fixed-width integer scaled by the value's
// declared scale, i.e. the result equals round(value * 10^dscale).
func DecodeNumericAsInt64(n *NumericVar) (int64, error) {
	return decodeNumeric[int64](n, decimalConversionInteger{})
}

// DecodeNumericAsFloat64 decodes n into an approximate double. Used for numeric
// columns whose precision/scale metadata is missing or too wide for the fixed-width
// path.
func DecodeNumericAsFloat64(n *NumericVar) (float64, error) {
	return decodeNumeric[float64](n, decimalConversionDouble{})
}
