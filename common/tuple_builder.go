package common

import (
	"github.com/japinli/pg-duckdb/errors"
)

// TupleBuilder encodes one row at a time into the packed tuple layout the reader
// consumes. Attributes that are never set encode as null. A builder can be reused for
// successive rows via Reset.
type TupleBuilder struct {
	desc   *TupleDesc
	values []Datum
	nulls  []bool
	set    []bool
}

func NewTupleBuilder(desc *TupleDesc) *TupleBuilder {
	n := desc.NumAttrs()
	b := &TupleBuilder{
		desc:   desc,
		values: make([]Datum, n),
		nulls:  make([]bool, n),
		set:    make([]bool, n),
	}
	b.Reset()
	return b
}

func (b *TupleBuilder) Reset() {
	for i := range b.set {
		b.set[i] = false
		b.nulls[i] = true
		b.values[i] = Datum{}
	}
}

func (b *TupleBuilder) SetNull(colIndex int) {
	b.set[colIndex] = true
	b.nulls[colIndex] = true
}

func (b *TupleBuilder) setDatum(colIndex int, d Datum) {
	b.set[colIndex] = true
	b.nulls[colIndex] = false
	b.values[colIndex] = d
}

func (b *TupleBuilder) SetBool(colIndex int, v bool) {
	b.setDatum(colIndex, BoolDatum(v))
}

func (b *TupleBuilder) SetInt8(colIndex int, v int8) {
	b.setDatum(colIndex, Int8Datum(v))
}

func (b *TupleBuilder) SetInt16(colIndex int, v int16) {
	b.setDatum(colIndex, Int16Datum(v))
}

func (b *TupleBuilder) SetInt32(colIndex int, v int32) {
	b.setDatum(colIndex, Int32Datum(v))
}

func (b *TupleBuilder) SetInt64(colIndex int, v int64) {
	b.setDatum(colIndex, Int64Datum(v))
}

func (b *TupleBuilder) SetFloat64(colIndex int, v float64) {
	b.setDatum(colIndex, Float64Datum(v))
}

func (b *TupleBuilder) SetText(colIndex int, v string) {
	b.setDatum(colIndex, TextDatum(v))
}

// SetDate sets a date attribute from a day count in the row store's epoch.
func (b *TupleBuilder) SetDate(colIndex int, days int32) {
	b.setDatum(colIndex, Int32Datum(days))
}

// SetTimestamp sets a timestamp attribute from a microsecond count in the row store's
// epoch.
func (b *TupleBuilder) SetTimestamp(colIndex int, micros int64) {
	b.setDatum(colIndex, Int64Datum(micros))
}

func (b *TupleBuilder) SetNumeric(colIndex int, n *NumericVar) {
	b.setDatum(colIndex, BytesDatum(AppendNumericVar(nil, n)))
}

// Build encodes the current row. The returned tuple owns a freshly allocated buffer.
func (b *TupleBuilder) Build() (Tuple, error) {
	natts := b.desc.NumAttrs()
	hasNulls := false
	for i := 0; i < natts; i++ {
		if b.nulls[i] {
			hasNulls = true
			break
		}
	}

	hoff := tupleBitmapOffset
	if hasNulls {
		hoff += (natts + 7) / 8
	}
	// Attribute data starts max-aligned so cached offsets are buffer independent.
	hoff = alignOffset(hoff, AlignDouble)
	if hoff > 0xff {
		return Tuple{}, errors.NewValueOutOfRangeError("tuple header too large")
	}

	buffer := make([]byte, hoff)
	buffer = AppendUint16ToBufferLE(buffer[:0], uint16(natts))
	buffer = buffer[:hoff]
	if hasNulls {
		buffer[tupleFlagsOffset] = tupleHasNullsFlag
		for i := 0; i < natts; i++ {
			if !b.nulls[i] {
				buffer[tupleBitmapOffset+(i>>3)] |= 1 << (i & 7)
			}
		}
	}
	buffer[tupleHoffOffset] = byte(hoff)

	for i := 0; i < natts; i++ {
		if b.nulls[i] {
			continue
		}
		att := &b.desc.Attrs[i]
		var err error
		buffer, err = appendAttr(buffer, hoff, att, b.values[i])
		if err != nil {
			return Tuple{}, errors.WithStack(err)
		}
	}
	return NewTuple(buffer), nil
}

func appendAttr(buffer []byte, hoff int, att *Attribute, value Datum) ([]byte, error) {
	if att.Len == VarLen {
		payload := value.Bytes()
		if len(payload)+1 <= maxShortVarlena {
			// Short form: 1-byte header, no alignment.
			buffer = append(buffer, byte((len(payload)+1)<<1)|shortVarlenaFlag)
			return append(buffer, payload...), nil
		}
		buffer = padToAlignment(buffer, hoff, att.Align)
		buffer = AppendUint32ToBufferLE(buffer, uint32(len(payload)+VarHeaderSize)<<2)
		return append(buffer, payload...), nil
	}

	buffer = padToAlignment(buffer, hoff, att.Align)
	switch att.Len {
	case 1:
		return append(buffer, byte(value.raw)), nil
	case 2:
		return AppendUint16ToBufferLE(buffer, uint16(value.raw)), nil
	case 4:
		return AppendUint32ToBufferLE(buffer, uint32(value.raw)), nil
	case 8:
		return AppendUint64ToBufferLE(buffer, value.raw), nil
	default:
		return nil, errors.NewInvariantViolationError("attribute has unexpected physical length")
	}
}

// padToAlignment zero-pads the buffer so the next attribute starts aligned relative to
// the start of attribute data.
func padToAlignment(buffer []byte, hoff int, align Align) []byte {
	off := len(buffer) - hoff
	for target := alignOffset(off, align); off < target; off++ {
		buffer = append(buffer, 0)
	}
	return buffer
}
