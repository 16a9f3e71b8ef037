package common

import (
	"github.com/japinli/pg-duckdb/errors"
)

// DuckDB has dates starting from 1/1/1970 while Postgres starts from 1/1/2000.
const (
	DuckDateOffsetDays        = int32(10957)
	DuckTimestampOffsetMicros = int64(10957) * microsPerDay

	microsPerDay = int64(86400) * 1000000
)

// ConvertRowToColumnValue writes one still-row-encoded datum into slot rowIdx of a
// columnar vector, dispatched by the vector's declared type. Text is copied into
// vector-owned storage because the source tuple's lifetime is shorter than the
// vector's. Null handling is the caller's: a null never reaches this function.
func ConvertRowToColumnValue(value Datum, vec *Vector, rowIdx int) error {
	typ := vec.Type()
	switch typ.ID {
	case TypeBoolean:
		vec.SetBool(rowIdx, value.Bool())
	case TypeTinyInt:
		vec.SetInt8(rowIdx, value.Int8())
	case TypeSmallInt:
		vec.SetInt16(rowIdx, value.Int16())
	case TypeInteger:
		vec.SetInt32(rowIdx, value.Int32())
	case TypeBigInt:
		vec.SetInt64(rowIdx, value.Int64())
	case TypeVarchar:
		vec.SetString(rowIdx, value.Text())
	case TypeDate:
		vec.SetInt32(rowIdx, value.Int32()+DuckDateOffsetDays)
	case TypeTimestamp:
		vec.SetInt64(rowIdx, value.Int64()+DuckTimestampOffsetMicros)
	case TypeDouble:
		if typ.NumericAsDouble {
			// This numeric could not be mapped to a DECIMAL, decode it as a double
			// instead
			numeric, err := DecodeNumericVar(value.Bytes())
			if err != nil {
				return errors.WithStack(err)
			}
			doubleVal, err := DecodeNumericAsFloat64(numeric)
			if err != nil {
				return errors.WithStack(err)
			}
			vec.SetFloat64(rowIdx, doubleVal)
		} else {
			vec.SetFloat64(rowIdx, value.Float64())
		}
	case TypeDecimal:
		numeric, err := DecodeNumericVar(value.Bytes())
		if err != nil {
			return errors.WithStack(err)
		}
		intVal, err := DecodeNumericAsInt64(numeric)
		if err != nil {
			return errors.WithStack(err)
		}
		vec.SetInt64(rowIdx, intVal)
	default:
		return errors.NewUnsupportedLogicalTypeError(int(typ.ID))
	}
	return nil
}

// RowSlot is a virtual row: one datum and null flag per attribute, used by the
// column-to-row direction. The physical representation of each column is fixed per
// batch by the descriptor; converting a value never changes it.
type RowSlot struct {
	Desc   *TupleDesc
	Values []Datum
	Nulls  []bool
}

func NewRowSlot(desc *TupleDesc) *RowSlot {
	n := desc.NumAttrs()
	return &RowSlot{
		Desc:   desc,
		Values: make([]Datum, n),
		Nulls:  make([]bool, n),
	}
}

// ConvertColumnToRowValue writes one columnar scalar into column colIdx of the slot,
// dispatched by the slot column's Postgres type. Text allocates slot-owned storage.
func ConvertColumnToRowValue(value Value, slot *RowSlot, colIdx int) error {
	if value.Null {
		slot.Values[colIdx] = Datum{}
		slot.Nulls[colIdx] = true
		return nil
	}
	typeID := slot.Desc.Attrs[colIdx].TypeID
	switch typeID {
	case BoolOid:
		slot.Values[colIdx] = BoolDatum(value.Bool())
	case CharOid:
		slot.Values[colIdx] = Int8Datum(value.Int8())
	case Int2Oid:
		slot.Values[colIdx] = Int16Datum(value.Int16())
	case Int4Oid:
		slot.Values[colIdx] = Int32Datum(value.Int32())
	case Int8Oid:
		slot.Values[colIdx] = Int64Datum(value.Int64())
	case BPCharOid, TextOid, VarcharOid:
		slot.Values[colIdx] = TextDatum(value.Str)
	case DateOid:
		slot.Values[colIdx] = Int32Datum(value.Int32() - DuckDateOffsetDays)
	case TimestampOid:
		slot.Values[colIdx] = Int64Datum(value.Int64() - DuckTimestampOffsetMicros)
	case Float8Oid:
		slot.Values[colIdx] = Float64Datum(value.Float64())
	default:
		// NumericOid lands here too: the row direction has no encoder for the
		// digit-group representation.
		return errorUnsupportedOid(typeID)
	}
	slot.Nulls[colIdx] = false
	return nil
}
