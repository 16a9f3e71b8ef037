package common

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/japinli/pg-duckdb/errors"
)

// Round trip one datum through a vector and back into a row slot.
func roundTrip(t *testing.T, typeID Oid, typeMod int32, datum Datum) Datum {
	t.Helper()
	desc := NewTupleDesc(mustAttr(t, "col", typeID, typeMod))
	lt, err := ColumnLogicalType(typeID, typeMod)
	require.NoError(t, err)
	vec, err := NewVector(lt, 1)
	require.NoError(t, err)

	require.NoError(t, ConvertRowToColumnValue(datum, vec, 0))

	slot := NewRowSlot(desc)
	require.NoError(t, ConvertColumnToRowValue(vec.Value(0), slot, 0))
	require.False(t, slot.Nulls[0])
	return slot.Values[0]
}

func TestScalarRoundTrips(t *testing.T) {
	for _, tc := range []struct {
		name   string
		typeID Oid
		datum  Datum
	}{
		{"bool", BoolOid, BoolDatum(true)},
		{"char", CharOid, Int8Datum(-5)},
		{"int2", Int2Oid, Int16Datum(-12345)},
		{"int4", Int4Oid, Int32Datum(1 << 30)},
		{"int8", Int8Oid, Int64Datum(-(1 << 60))},
		{"float8", Float8Oid, Float64Datum(3.14159)},
		{"text", TextOid, TextDatum("aardvarks")},
		{"date", DateOid, Int32Datum(7000)},
		{"timestamp", TimestampOid, Int64Datum(987654321000000)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := roundTrip(t, tc.typeID, -1, tc.datum)
			switch tc.typeID {
			case TextOid:
				require.Equal(t, tc.datum.Text(), out.Text())
			default:
				require.Equal(t, tc.datum.raw, out.raw)
			}
		})
	}
}

func TestDateEpochOffsetAppliedOnceEachWay(t *testing.T) {
	days := int32(7000)
	vec, err := NewVector(DateType, 1)
	require.NoError(t, err)
	require.NoError(t, ConvertRowToColumnValue(Int32Datum(days), vec, 0))
	require.Equal(t, days+DuckDateOffsetDays, vec.GetInt32(0))

	desc := NewTupleDesc(mustAttr(t, "d", DateOid, -1))
	slot := NewRowSlot(desc)
	require.NoError(t, ConvertColumnToRowValue(vec.Value(0), slot, 0))
	require.Equal(t, days, slot.Values[0].Int32())
}

func TestTimestampEpochOffsetAppliedOnceEachWay(t *testing.T) {
	micros := int64(1234567890123456)
	vec, err := NewVector(TimestampType, 1)
	require.NoError(t, err)
	require.NoError(t, ConvertRowToColumnValue(Int64Datum(micros), vec, 0))
	require.Equal(t, micros+DuckTimestampOffsetMicros, vec.GetInt64(0))
	require.Equal(t, int64(10957)*86400*1000000, DuckTimestampOffsetMicros)

	desc := NewTupleDesc(mustAttr(t, "ts", TimestampOid, -1))
	slot := NewRowSlot(desc)
	require.NoError(t, ConvertColumnToRowValue(vec.Value(0), slot, 0))
	require.Equal(t, micros, slot.Values[0].Int64())
}

func TestTextIsCopiedOutOfTupleBuffer(t *testing.T) {
	buffer := []byte("hello")
	vec, err := NewVector(VarcharType, 1)
	require.NoError(t, err)
	require.NoError(t, ConvertRowToColumnValue(BytesDatum(buffer), vec, 0))

	// Scribbling on the tuple buffer must not change the vector's copy.
	buffer[0] = 'j'
	require.Equal(t, "hello", vec.GetString(0))
}

func TestNumericDecimalIntoVector(t *testing.T) {
	// 123.45 into a DECIMAL(10,2) column
	payload := AppendNumericVar(nil, &NumericVar{Weight: 0, Sign: NumericPos, DScale: 2, Digits: []int16{123, 4500}})
	vec, err := NewVector(NewDecimalType(10, 2), 1)
	require.NoError(t, err)
	require.NoError(t, ConvertRowToColumnValue(BytesDatum(payload), vec, 0))
	require.Equal(t, int64(12345), vec.GetInt64(0))
	require.Equal(t, "123.45", vec.Value(0).String())
}

func TestNumericAsDoubleFallbackIntoVector(t *testing.T) {
	payload := AppendNumericVar(nil, &NumericVar{Weight: 0, Sign: NumericNeg, DScale: 2, Digits: []int16{123, 4500}})
	vec, err := NewVector(NumericAsDoubleType(), 1)
	require.NoError(t, err)
	require.NoError(t, ConvertRowToColumnValue(BytesDatum(payload), vec, 0))
	require.InEpsilon(t, -123.45, vec.GetFloat64(0), 1e-12)
}

func TestPlainDoubleIsNotTreatedAsNumeric(t *testing.T) {
	vec, err := NewVector(DoubleType, 1)
	require.NoError(t, err)
	require.NoError(t, ConvertRowToColumnValue(Float64Datum(2.5), vec, 0))
	require.Equal(t, 2.5, vec.GetFloat64(0))
}

func TestColumnToRowNullValue(t *testing.T) {
	desc := NewTupleDesc(mustAttr(t, "a", Int4Oid, -1))
	slot := NewRowSlot(desc)
	require.NoError(t, ConvertColumnToRowValue(NewNullValue(IntegerType), slot, 0))
	require.True(t, slot.Nulls[0])
}

func TestColumnToRowNumericUnsupported(t *testing.T) {
	desc := NewTupleDesc(mustAttr(t, "n", NumericOid, MakeNumericTypmod(10, 2)))
	slot := NewRowSlot(desc)
	err := ConvertColumnToRowValue(NewBigIntValue(1), slot, 0)
	require.Error(t, err)
	var perr errors.PgDuckError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, errors.UnsupportedColumnType, perr.Code)
}
