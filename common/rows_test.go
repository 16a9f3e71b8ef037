package common

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidityMask(t *testing.T) {
	mask := NewValidityMask(100)
	for i := 0; i < 100; i++ {
		require.True(t, mask.IsValid(i))
	}
	mask.SetInvalid(0)
	mask.SetInvalid(63)
	mask.SetInvalid(64)
	mask.SetInvalid(99)
	require.False(t, mask.IsValid(0))
	require.False(t, mask.IsValid(63))
	require.False(t, mask.IsValid(64))
	require.False(t, mask.IsValid(99))
	require.True(t, mask.IsValid(1))
	require.True(t, mask.IsValid(65))
	require.Equal(t, 96, mask.CountValid(100))

	mask.SetValid(0)
	require.True(t, mask.IsValid(0))
	require.Equal(t, 97, mask.CountValid(100))
	require.Equal(t, 63, mask.CountValid(64))
}

func TestDataChunk(t *testing.T) {
	types := []LogicalType{IntegerType, DoubleType, VarcharType, NewDecimalType(10, 2)}
	chunk, err := NewDataChunk(types, 8)
	require.NoError(t, err)
	require.Equal(t, 4, chunk.ColumnCount())
	require.Equal(t, 8, chunk.Capacity())

	rowCount := 8
	for i := 0; i < rowCount; i++ {
		if useNull(i, 0) {
			chunk.Vector(0).Validity().SetInvalid(i)
		} else {
			chunk.Vector(0).SetInt32(i, intVal(i))
		}
		if useNull(i, 1) {
			chunk.Vector(1).Validity().SetInvalid(i)
		} else {
			chunk.Vector(1).SetFloat64(i, floatVal(i))
		}
		if useNull(i, 2) {
			chunk.Vector(2).Validity().SetInvalid(i)
		} else {
			chunk.Vector(2).SetString(i, stringVal(i))
		}
		if useNull(i, 3) {
			chunk.Vector(3).Validity().SetInvalid(i)
		} else {
			chunk.Vector(3).SetInt64(i, int64(intVal(i))*100)
		}
	}
	chunk.SetSize(rowCount)
	require.Equal(t, rowCount, chunk.Size())

	for i := 0; i < rowCount; i++ {
		if useNull(i, 0) {
			require.True(t, chunk.Vector(0).Value(i).Null)
		} else {
			require.Equal(t, intVal(i), chunk.Vector(0).GetInt32(i))
		}
		if useNull(i, 1) {
			require.True(t, chunk.Vector(1).Value(i).Null)
		} else {
			require.Equal(t, floatVal(i), chunk.Vector(1).GetFloat64(i))
		}
		if useNull(i, 2) {
			require.True(t, chunk.Vector(2).Value(i).Null)
		} else {
			require.Equal(t, stringVal(i), chunk.Vector(2).GetString(i))
		}
		if useNull(i, 3) {
			require.True(t, chunk.Vector(3).Value(i).Null)
		} else {
			require.Equal(t, int64(intVal(i))*100, chunk.Vector(3).GetInt64(i))
		}
	}
}

func TestVectorValueTag(t *testing.T) {
	vec, err := NewVector(TimestampType, 2)
	require.NoError(t, err)
	vec.SetInt64(0, 12345)
	vec.Validity().SetInvalid(1)

	val := vec.Value(0)
	require.Equal(t, TimestampType, val.Type)
	require.False(t, val.Null)
	require.Equal(t, int64(12345), val.Int64())

	val = vec.Value(1)
	require.True(t, val.Null)
	require.Equal(t, "NULL", val.String())
}

func TestNewVectorRejectsUnknownType(t *testing.T) {
	_, err := NewVector(UnknownType, 4)
	require.Error(t, err)
}

func useNull(rowIndex int, colIndex int) bool {
	return ((rowIndex*colIndex)+colIndex)%2 == 0
}

func intVal(rowIndex int) int32 {
	return int32(rowIndex) + 1
}

func floatVal(rowIndex int) float64 {
	return float64(rowIndex) + 1.1
}

func stringVal(rowIndex int) string {
	return fmt.Sprintf("aardvarks-%d", rowIndex)
}
