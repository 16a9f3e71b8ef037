package common

import (
	"github.com/japinli/pg-duckdb/errors"
)

// ScanTupleIntoChunk decodes one tuple into row rowIdx of the chunk, evaluating any
// pushed-down filters against the still-encoded attribute values on the way. Filters
// are keyed by column index. When a filter rejects the row nothing is converted and
// false is returned; the chunk row is left untouched for reuse.
//
// The read-state cursor lives for exactly this one call; the cached offsets it feeds
// live in desc and carry over to the next tuple of the scan.
func ScanTupleIntoChunk(desc *TupleDesc, tuple Tuple, chunk *DataChunk, rowIdx int,
	filters map[int]TableFilter) (bool, error) {
	natts := desc.NumAttrs()
	readState := TupleReadState{}
	values := make([]Datum, natts)
	nulls := make([]bool, natts)

	for i := 0; i < natts; i++ {
		value, isNull, err := FetchNextDatum(desc, tuple, &readState, i+1)
		if err != nil {
			return false, errors.WithStack(err)
		}
		if filter, ok := filters[i]; ok {
			admitted, err := ApplyValueFilter(filter, value, isNull, desc.Attrs[i].TypeID)
			if err != nil {
				return false, maybeInternalError(err)
			}
			if !admitted {
				return false, nil
			}
		}
		values[i] = value
		nulls[i] = isNull
	}

	for i := 0; i < natts; i++ {
		vec := chunk.Vector(i)
		if nulls[i] {
			vec.Validity().SetInvalid(rowIdx)
			continue
		}
		if err := ConvertRowToColumnValue(values[i], vec, rowIdx); err != nil {
			return false, errors.WithStack(err)
		}
	}
	return true, nil
}

// InsertTupleIntoChunk is ScanTupleIntoChunk without filters.
func InsertTupleIntoChunk(desc *TupleDesc, tuple Tuple, chunk *DataChunk, rowIdx int) error {
	_, err := ScanTupleIntoChunk(desc, tuple, chunk, rowIdx, nil)
	return err
}

// maybeInternalError routes invariant violations - filters the planner should never
// have produced - through the opaque internal-error path.
func maybeInternalError(err error) error {
	var perr errors.PgDuckError
	if errors.As(err, &perr) && perr.Code == errors.InvariantViolation {
		return LogInternalError(err)
	}
	return errors.WithStack(err)
}
