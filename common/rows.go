package common

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/japinli/pg-duckdb/errors"
)

// ValidityMask is a per-row bitmap on a columnar vector indicating null/non-null.
// Rows start valid.
type ValidityMask struct {
	words []uint64
}

func NewValidityMask(capacity int) *ValidityMask {
	words := make([]uint64, (capacity+63)/64)
	for i := range words {
		words[i] = ^uint64(0)
	}
	return &ValidityMask{words: words}
}

func (m *ValidityMask) SetInvalid(rowIdx int) {
	m.words[rowIdx>>6] &^= 1 << (rowIdx & 63)
}

func (m *ValidityMask) SetValid(rowIdx int) {
	m.words[rowIdx>>6] |= 1 << (rowIdx & 63)
}

func (m *ValidityMask) IsValid(rowIdx int) bool {
	return m.words[rowIdx>>6]&(1<<(rowIdx&63)) != 0
}

// CountValid returns the number of valid rows among the first n.
func (m *ValidityMask) CountValid(n int) int {
	count := 0
	for i := 0; n > 0; i++ {
		word := m.words[i]
		if n < 64 {
			word &= (1 << n) - 1
		}
		count += bits.OnesCount64(word)
		n -= 64
	}
	return count
}

// Vector is a fixed-capacity flat array of one scalar type plus a validity mask.
// Mutation is by-index write; a vector is never resized during a batch. The physical
// storage is chosen from the logical type: dates share int32 storage with integers,
// timestamps and fixed-width decimals share int64 storage with bigints.
type Vector struct {
	typ      LogicalType
	capacity int
	validity *ValidityMask

	bools []bool
	i8s   []int8
	i16s  []int16
	i32s  []int32
	i64s  []int64
	f64s  []float64
	strs  []string
}

func NewVector(typ LogicalType, capacity int) (*Vector, error) {
	v := &Vector{typ: typ, capacity: capacity, validity: NewValidityMask(capacity)}
	switch typ.ID {
	case TypeBoolean:
		v.bools = make([]bool, capacity)
	case TypeTinyInt:
		v.i8s = make([]int8, capacity)
	case TypeSmallInt:
		v.i16s = make([]int16, capacity)
	case TypeInteger, TypeDate:
		v.i32s = make([]int32, capacity)
	case TypeBigInt, TypeTimestamp, TypeDecimal:
		v.i64s = make([]int64, capacity)
	case TypeDouble:
		v.f64s = make([]float64, capacity)
	case TypeVarchar:
		v.strs = make([]string, capacity)
	default:
		return nil, errors.NewUnsupportedLogicalTypeError(int(typ.ID))
	}
	return v, nil
}

func (v *Vector) Type() LogicalType {
	return v.typ
}

func (v *Vector) Capacity() int {
	return v.capacity
}

func (v *Vector) Validity() *ValidityMask {
	return v.validity
}

// The typed accessors panic when used against a vector of the wrong physical type -
// the converter dispatches on the vector's own type, so a mismatch is a programming
// bug, not input-dependent.

func (v *Vector) SetBool(rowIdx int, val bool)       { v.bools[rowIdx] = val }
func (v *Vector) SetInt8(rowIdx int, val int8)       { v.i8s[rowIdx] = val }
func (v *Vector) SetInt16(rowIdx int, val int16)     { v.i16s[rowIdx] = val }
func (v *Vector) SetInt32(rowIdx int, val int32)     { v.i32s[rowIdx] = val }
func (v *Vector) SetInt64(rowIdx int, val int64)     { v.i64s[rowIdx] = val }
func (v *Vector) SetFloat64(rowIdx int, val float64) { v.f64s[rowIdx] = val }
func (v *Vector) SetString(rowIdx int, val string)   { v.strs[rowIdx] = val }

func (v *Vector) GetBool(rowIdx int) bool       { return v.bools[rowIdx] }
func (v *Vector) GetInt8(rowIdx int) int8       { return v.i8s[rowIdx] }
func (v *Vector) GetInt16(rowIdx int) int16     { return v.i16s[rowIdx] }
func (v *Vector) GetInt32(rowIdx int) int32     { return v.i32s[rowIdx] }
func (v *Vector) GetInt64(rowIdx int) int64     { return v.i64s[rowIdx] }
func (v *Vector) GetFloat64(rowIdx int) float64 { return v.f64s[rowIdx] }
func (v *Vector) GetString(rowIdx int) string   { return v.strs[rowIdx] }

// Value materialises row rowIdx of the vector as a tagged scalar.
func (v *Vector) Value(rowIdx int) Value {
	if !v.validity.IsValid(rowIdx) {
		return Value{Type: v.typ, Null: true}
	}
	val := Value{Type: v.typ}
	switch v.typ.ID {
	case TypeBoolean:
		if v.bools[rowIdx] {
			val.I64 = 1
		}
	case TypeTinyInt:
		val.I64 = int64(v.i8s[rowIdx])
	case TypeSmallInt:
		val.I64 = int64(v.i16s[rowIdx])
	case TypeInteger, TypeDate:
		val.I64 = int64(v.i32s[rowIdx])
	case TypeBigInt, TypeTimestamp, TypeDecimal:
		val.I64 = v.i64s[rowIdx]
	case TypeDouble:
		val.F64 = v.f64s[rowIdx]
	case TypeVarchar:
		val.Str = v.strs[rowIdx]
	default:
		panic(fmt.Sprintf("vector has unexpected type %s", v.typ.ID))
	}
	return val
}

// Value is a single materialised columnar scalar - the closed union over the
// supported scalar kinds. Booleans, integers, dates, timestamps and fixed-width
// decimal values live in I64, doubles in F64, strings in Str.
type Value struct {
	Type LogicalType
	Null bool
	I64  int64
	F64  float64
	Str  string
}

func NewBooleanValue(v bool) Value {
	val := Value{Type: BooleanType}
	if v {
		val.I64 = 1
	}
	return val
}

func NewTinyIntValue(v int8) Value {
	return Value{Type: TinyIntType, I64: int64(v)}
}

func NewSmallIntValue(v int16) Value {
	return Value{Type: SmallIntType, I64: int64(v)}
}

func NewIntegerValue(v int32) Value {
	return Value{Type: IntegerType, I64: int64(v)}
}

func NewBigIntValue(v int64) Value {
	return Value{Type: BigIntType, I64: v}
}

func NewDoubleValue(v float64) Value {
	return Value{Type: DoubleType, F64: v}
}

func NewVarcharValue(v string) Value {
	return Value{Type: VarcharType, Str: v}
}

// NewDateValue takes a day count in the columnar store's epoch.
func NewDateValue(days int32) Value {
	return Value{Type: DateType, I64: int64(days)}
}

// NewTimestampValue takes a microsecond count in the columnar store's epoch.
func NewTimestampValue(micros int64) Value {
	return Value{Type: TimestampType, I64: micros}
}

func NewNullValue(typ LogicalType) Value {
	return Value{Type: typ, Null: true}
}

func (v Value) Bool() bool {
	return v.I64 != 0
}

func (v Value) Int8() int8 {
	return int8(v.I64)
}

func (v Value) Int16() int16 {
	return int16(v.I64)
}

func (v Value) Int32() int32 {
	return int32(v.I64)
}

func (v Value) Int64() int64 {
	return v.I64
}

func (v Value) Float32() float32 {
	return float32(v.F64)
}

func (v Value) Float64() float64 {
	return v.F64
}

func (v Value) String() string {
	if v.Null {
		return "NULL"
	}
	switch v.Type.ID {
	case TypeDouble:
		return fmt.Sprintf("%g", v.F64)
	case TypeVarchar:
		return v.Str
	case TypeDecimal:
		scale := v.Type.DecScale
		scaled := float64(v.I64) / math.Pow10(scale)
		return fmt.Sprintf("%.*f", scale, scaled)
	default:
		return fmt.Sprintf("%d", v.I64)
	}
}

// DataChunk is one output batch: a vector per column, all with the same fixed
// capacity.
type DataChunk struct {
	vectors  []*Vector
	capacity int
	size     int
}

func NewDataChunk(types []LogicalType, capacity int) (*DataChunk, error) {
	vectors := make([]*Vector, len(types))
	for i, typ := range types {
		v, err := NewVector(typ, capacity)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		vectors[i] = v
	}
	return &DataChunk{vectors: vectors, capacity: capacity}, nil
}

func (c *DataChunk) Vector(colIdx int) *Vector {
	return c.vectors[colIdx]
}

func (c *DataChunk) ColumnCount() int {
	return len(c.vectors)
}

func (c *DataChunk) Capacity() int {
	return c.capacity
}

func (c *DataChunk) Size() int {
	return c.size
}

// SetSize records how many rows of the batch are populated.
func (c *DataChunk) SetSize(size int) {
	c.size = size
}
