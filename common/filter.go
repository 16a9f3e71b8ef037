package common

import (
	"cmp"
	"fmt"

	"github.com/japinli/pg-duckdb/errors"
)

// ComparisonType is the operator of a pushed-down constant comparison.
type ComparisonType int

const (
	CompareEqual ComparisonType = iota + 1
	CompareLessThan
	CompareLessThanOrEqual
	CompareGreaterThan
	CompareGreaterThanOrEqual
)

func (c ComparisonType) String() string {
	switch c {
	case CompareEqual:
		return "="
	case CompareLessThan:
		return "<"
	case CompareLessThanOrEqual:
		return "<="
	case CompareGreaterThan:
		return ">"
	case CompareGreaterThanOrEqual:
		return ">="
	default:
		return fmt.Sprintf("comparison(%d)", int(c))
	}
}

// TableFilter is one node of a pushed-down filter tree. The tree is built by the
// planner and owned externally; this package only evaluates it.
type TableFilter interface {
	filterNode()
}

// ConjunctionAndFilter is true iff all of its children are true.
type ConjunctionAndFilter struct {
	Children []TableFilter
}

// ConstantFilter compares the scanned value against a constant already expressed in
// the columnar store's types (and, for dates and timestamps, its epoch).
type ConstantFilter struct {
	Comparison ComparisonType
	Constant   Value
}

type IsNullFilter struct{}

type IsNotNullFilter struct{}

func (*ConjunctionAndFilter) filterNode() {}
func (*ConstantFilter) filterNode()       {}
func (*IsNullFilter) filterNode()         {}
func (*IsNotNullFilter) filterNode()      {}

// ApplyValueFilter evaluates a filter tree against one still-row-encoded value. The
// comparison is selected by the column's Postgres type, so the raw datum is cast to
// the matching native type without materializing it into a vector first.
func ApplyValueFilter(filter TableFilter, value Datum, isNull bool, typeID Oid) (bool, error) {
	switch f := filter.(type) {
	case *ConjunctionAndFilter:
		result := true
		for _, child := range f.Children {
			childResult, err := ApplyValueFilter(child, value, isNull, typeID)
			if err != nil {
				return false, errors.WithStack(err)
			}
			result = result && childResult
		}
		return result, nil
	case *ConstantFilter:
		return filterOperationSwitch(value, f.Constant, f.Comparison, typeID)
	case *IsNullFilter:
		return isNull, nil
	case *IsNotNullFilter:
		return !isNull, nil
	default:
		return false, errors.NewInvariantViolationError(
			fmt.Sprintf("unexpected filter node %T", filter))
	}
}

func filterOperationSwitch(value Datum, constant Value, op ComparisonType, typeID Oid) (bool, error) {
	switch typeID {
	case BoolOid:
		return compareOp(op, boolToUint8(value.Bool()), boolToUint8(constant.Bool()))
	case CharOid:
		return compareOp(op, uint8(value.Int8()), uint8(constant.Int8()))
	case Int2Oid:
		return compareOp(op, value.Int16(), constant.Int16())
	case Int4Oid:
		return compareOp(op, value.Int32(), constant.Int32())
	case Int8Oid:
		return compareOp(op, value.Int64(), constant.Int64())
	case Float4Oid:
		return compareOp(op, value.Float32(), constant.Float32())
	case Float8Oid:
		return compareOp(op, value.Float64(), constant.Float64())
	case DateOid:
		// The constant is already in the columnar store's epoch.
		return compareOp(op, value.Int32()+DuckDateOffsetDays, constant.Int32())
	case TimestampOid:
		return compareOp(op, value.Int64()+DuckTimestampOffsetMicros, constant.Int64())
	default:
		return false, errorUnsupportedOid(typeID)
	}
}

func compareOp[T cmp.Ordered](op ComparisonType, value T, constant T) (bool, error) {
	switch op {
	case CompareEqual:
		return value == constant, nil
	case CompareLessThan:
		return value < constant, nil
	case CompareLessThanOrEqual:
		return value <= constant, nil
	case CompareGreaterThan:
		return value > constant, nil
	case CompareGreaterThanOrEqual:
		return value >= constant, nil
	default:
		return false, errors.NewInvariantViolationError(
			fmt.Sprintf("unsupported comparison type %d", int(op)))
	}
}

func boolToUint8(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
