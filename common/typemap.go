package common

import (
	"github.com/japinli/pg-duckdb/errors"
)

// VarHeaderSize is the byte size of the long varlena header. Numeric type modifiers
// are stored biased by it.
const VarHeaderSize = 4

// Decimals wider than this cannot be held in a fixed-width scaled integer and fall
// back to an approximate double.
const maxDecimalPrecision = 38

func errorUnsupportedOid(typeID Oid) error {
	return errors.NewUnsupportedColumnTypeError(uint32(typeID))
}

// NumericTypmodPrecision extracts the precision from a packed numeric type modifier.
func NumericTypmodPrecision(typmod int32) int {
	return int(((typmod - VarHeaderSize) >> 16) & 0xffff)
}

// NumericTypmodScale extracts the scale from a packed numeric type modifier. The scale
// occupies the low 11 bits as a two's-complement field, so it is sign-extended here.
func NumericTypmodScale(typmod int32) int {
	return int((((typmod - VarHeaderSize) & 0x7ff) ^ 1024) - 1024)
}

// MakeNumericTypmod packs precision and scale into a type modifier, the inverse of the
// two functions above.
func MakeNumericTypmod(precision int, scale int) int32 {
	return int32((precision<<16)|(scale&0x7ff)) + VarHeaderSize
}

// ColumnLogicalType maps a Postgres column type to the DuckDB logical type the scan
// produces for it. A numeric column with no usable precision/scale metadata, or one
// too wide for a fixed-width decimal, maps to a double and the fallback is recorded on
// the returned type.
func ColumnLogicalType(typeID Oid, typmod int32) (LogicalType, error) {
	switch typeID {
	case BoolOid:
		return BooleanType, nil
	case CharOid:
		return TinyIntType, nil
	case Int2Oid:
		return SmallIntType, nil
	case Int4Oid:
		return IntegerType, nil
	case Int8Oid:
		return BigIntType, nil
	case BPCharOid, TextOid, VarcharOid:
		return VarcharType, nil
	case DateOid:
		return DateType, nil
	case TimestampOid:
		return TimestampType, nil
	case Float8Oid:
		return DoubleType, nil
	case NumericOid:
		precision := NumericTypmodPrecision(typmod)
		scale := NumericTypmodScale(typmod)
		if typmod == -1 || precision < 0 || scale < 0 || precision > maxDecimalPrecision {
			return NumericAsDoubleType(), nil
		}
		return NewDecimalType(precision, scale), nil
	default:
		return UnknownType, errorUnsupportedOid(typeID)
	}
}

// DescLogicalTypes maps every attribute of a tuple descriptor, in column order.
func DescLogicalTypes(desc *TupleDesc) ([]LogicalType, error) {
	types := make([]LogicalType, len(desc.Attrs))
	for i := range desc.Attrs {
		lt, err := ColumnLogicalType(desc.Attrs[i].TypeID, desc.Attrs[i].TypeMod)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		types[i] = lt
	}
	return types, nil
}
