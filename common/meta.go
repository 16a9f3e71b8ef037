package common

import (
	"fmt"
)

// Oid identifies a Postgres column type. The values are the pg_type identifiers of the
// supported scalar kinds.
type Oid uint32

const (
	BoolOid      Oid = 16
	CharOid      Oid = 18
	Int8Oid      Oid = 20
	Int2Oid      Oid = 21
	Int4Oid      Oid = 23
	TextOid      Oid = 25
	Float4Oid    Oid = 700
	Float8Oid    Oid = 701
	BPCharOid    Oid = 1042
	VarcharOid   Oid = 1043
	DateOid      Oid = 1082
	TimestampOid Oid = 1114
	NumericOid   Oid = 1700
)

// LogicalTypeID identifies a DuckDB-side column type.
type LogicalTypeID int

const (
	TypeUnknown LogicalTypeID = iota
	TypeBoolean
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeDouble
	TypeDecimal
	TypeVarchar
	TypeDate
	TypeTimestamp
)

func (t LogicalTypeID) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTinyInt:
		return "TINYINT"
	case TypeSmallInt:
		return "SMALLINT"
	case TypeInteger:
		return "INTEGER"
	case TypeBigInt:
		return "BIGINT"
	case TypeDouble:
		return "DOUBLE"
	case TypeDecimal:
		return "DECIMAL"
	case TypeVarchar:
		return "VARCHAR"
	case TypeDate:
		return "DATE"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// LogicalType is a columnar type tag plus the metadata of parameterised types. A
// numeric column whose precision/scale cannot be represented exactly maps to
// TypeDouble with NumericAsDouble set; the flag is carried as ordinary data so the
// converter knows to use the double decoding policy without inspecting values.
type LogicalType struct {
	ID              LogicalTypeID
	DecPrecision    int
	DecScale        int
	NumericAsDouble bool
}

var (
	UnknownType   = LogicalType{ID: TypeUnknown}
	BooleanType   = LogicalType{ID: TypeBoolean}
	TinyIntType   = LogicalType{ID: TypeTinyInt}
	SmallIntType  = LogicalType{ID: TypeSmallInt}
	IntegerType   = LogicalType{ID: TypeInteger}
	BigIntType    = LogicalType{ID: TypeBigInt}
	DoubleType    = LogicalType{ID: TypeDouble}
	VarcharType   = LogicalType{ID: TypeVarchar}
	DateType      = LogicalType{ID: TypeDate}
	TimestampType = LogicalType{ID: TypeTimestamp}
)

func NewDecimalType(precision int, scale int) LogicalType {
	return LogicalType{
		ID:           TypeDecimal,
		DecPrecision: precision,
		DecScale:     scale,
	}
}

// NumericAsDoubleType is the fallback type of a numeric column that cannot be decoded
// into a fixed-precision decimal.
func NumericAsDoubleType() LogicalType {
	return LogicalType{ID: TypeDouble, NumericAsDouble: true}
}

// Align is the byte alignment class of an attribute within a tuple.
type Align int

const (
	AlignByte   Align = 1
	AlignShort  Align = 2
	AlignInt    Align = 4
	AlignDouble Align = 8
)

// VarLen marks a variable-length (length-prefixed) attribute.
const VarLen = -1

// Attribute describes one column of a tuple: its Postgres type, its physical width and
// alignment, and the memoised byte offset of the attribute within a tuple. The cached
// offset is only valid while consecutive tuples share the same null pattern; see
// FetchNextDatum.
type Attribute struct {
	Name      string
	TypeID    Oid
	TypeMod   int32
	Len       int
	Align     Align
	cachedOff int
}

// NewAttribute builds an Attribute with the width and alignment of the given type.
func NewAttribute(name string, typeID Oid, typeMod int32) (Attribute, error) {
	att := Attribute{Name: name, TypeID: typeID, TypeMod: typeMod, cachedOff: -1}
	switch typeID {
	case BoolOid, CharOid:
		att.Len, att.Align = 1, AlignByte
	case Int2Oid:
		att.Len, att.Align = 2, AlignShort
	case Int4Oid, DateOid, Float4Oid:
		att.Len, att.Align = 4, AlignInt
	case Int8Oid, TimestampOid, Float8Oid:
		att.Len, att.Align = 8, AlignDouble
	case TextOid, VarcharOid, BPCharOid, NumericOid:
		att.Len, att.Align = VarLen, AlignInt
	default:
		return Attribute{}, errorUnsupportedOid(typeID)
	}
	return att, nil
}

// TupleDesc is the ordered attribute descriptor sequence of a table. The cached-offset
// slots it owns are mutated across successive row decodes for the same scan, so a
// TupleDesc must not be used by concurrent decodes.
type TupleDesc struct {
	Attrs []Attribute
}

func NewTupleDesc(attrs ...Attribute) *TupleDesc {
	for i := range attrs {
		attrs[i].cachedOff = -1
	}
	return &TupleDesc{Attrs: attrs}
}

func (td *TupleDesc) NumAttrs() int {
	return len(td.Attrs)
}

// CachedOffset returns the memoised byte offset of attribute attnum, or -1 when none
// has been recorded yet.
func (td *TupleDesc) CachedOffset(attnum int) int {
	return td.Attrs[attnum].cachedOff
}

// InvalidateCachedOffsets drops the memoised offsets of attribute fromIdx and every
// attribute after it. Callers use it when the tuple shape of a scan changes.
func (td *TupleDesc) InvalidateCachedOffsets(fromIdx int) {
	for i := fromIdx; i < len(td.Attrs); i++ {
		td.Attrs[i].cachedOff = -1
	}
}
