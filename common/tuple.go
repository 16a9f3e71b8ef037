package common

import (
	"github.com/japinli/pg-duckdb/errors"
)

// Tuple buffer layout, little-endian:
//
//	[0:2]  number of attributes
//	[2]    flags (bit 0: tuple has nulls)
//	[3]    data offset - where the attribute values start
//	[4:..] null bitmap, ceil(natts/8) bytes, present only when the has-nulls flag is
//	       set. A CLEAR bit means the attribute is null.
//
// Attribute values follow from the data offset, each aligned per its alignment class.
// Variable-length values carry either a 1-byte header (low bit set, total length in
// the upper 7 bits, stored unaligned) or a 4-byte header (total length shifted left
// two bits, stored aligned). Padding bytes are always zero, which is what lets the
// reader distinguish padding from a short varlena header.
const (
	tupleFlagsOffset  = 2
	tupleHoffOffset   = 3
	tupleBitmapOffset = 4

	tupleHasNullsFlag = 0x01

	shortVarlenaFlag = 0x01
	maxShortVarlena  = 0x7f
)

// Tuple is one row encoded as packed bytes. The buffer is owned by the caller; a
// Tuple never copies or frees it.
type Tuple struct {
	data []byte
}

func NewTuple(data []byte) Tuple {
	return Tuple{data: data}
}

func (t Tuple) NumAttrs() int {
	natts, _ := ReadUint16FromBufferLE(t.data, 0)
	return int(natts)
}

func (t Tuple) HasNulls() bool {
	return t.data[tupleFlagsOffset]&tupleHasNullsFlag != 0
}

func (t Tuple) dataOff() int {
	return int(t.data[tupleHoffOffset])
}

// attIsNull reports whether attribute attnum is null. A set bit in the bitmap means
// the attribute is present.
func (t Tuple) attIsNull(attnum int) bool {
	b := t.data[tupleBitmapOffset+(attnum>>3)]
	return b&(1<<(attnum&7)) == 0
}

// TupleReadState tracks the progress of decoding a single tuple: how many attributes
// have been read, the byte offset the next read resumes from, and whether offset
// prediction has been broken for the remainder of the tuple. A TupleReadState belongs
// to exactly one row decode and must be reset (or replaced) before the next row.
type TupleReadState struct {
	numValid int
	offset   int
	slow     bool
}

func (s *TupleReadState) Reset() {
	*s = TupleReadState{}
}

func alignOffset(off int, align Align) int {
	a := int(align)
	return (off + a - 1) &^ (a - 1)
}

// alignVarlenaOffset aligns the offset of a variable-length attribute. A short
// varlena header is stored unaligned, and since padding bytes are zero while a short
// header never is, a non-zero byte at the current offset means no alignment applies.
func alignVarlenaOffset(off int, align Align, tp []byte) int {
	if tp[off] != 0 {
		return off
	}
	return alignOffset(off, align)
}

// varlenaTotalLen returns the total encoded length of the varlena starting at b[0],
// header included.
func varlenaTotalLen(b []byte) int {
	if b[0]&shortVarlenaFlag != 0 {
		return int(b[0] >> 1)
	}
	hdr, _ := ReadUint32FromBufferLE(b, 0)
	return int(hdr >> 2)
}

func fetchAttr(att *Attribute, b []byte) (Datum, error) {
	switch att.Len {
	case 1:
		return Datum{raw: uint64(b[0])}, nil
	case 2:
		v, _ := ReadUint16FromBufferLE(b, 0)
		return Datum{raw: uint64(v)}, nil
	case 4:
		v, _ := ReadUint32FromBufferLE(b, 0)
		return Datum{raw: uint64(v)}, nil
	case 8:
		v, _ := ReadUint64FromBufferLE(b, 0)
		return Datum{raw: v}, nil
	case VarLen:
		total := varlenaTotalLen(b)
		if b[0]&shortVarlenaFlag != 0 {
			return Datum{bytes: b[1:total]}, nil
		}
		return Datum{bytes: b[VarHeaderSize:total]}, nil
	default:
		return Datum{}, errors.NewInvariantViolationError(
			"attribute has unexpected physical length")
	}
}

// FetchNextDatum reads attribute natts-1 of the tuple, advancing state past every
// attribute up to it. Reads are monotonic: a caller works through the attributes in
// order, asking for one more each call, and the reader resumes from where the last
// call stopped instead of rescanning from the start of the tuple.
//
// Offsets computed on the fast path are memoised in the descriptor so later tuples of
// the same shape skip the alignment arithmetic. A null attribute consumes no bytes,
// making every following offset unpredictable, so it switches the reader to slow mode
// for the rest of the tuple; offsets computed in slow mode are never cached, since
// they only hold under this tuple's null pattern.
//
// Requesting more attributes than the tuple physically stores yields null for the
// trailing ones.
func FetchNextDatum(desc *TupleDesc, tuple Tuple, state *TupleReadState, natts int) (Datum, bool, error) {
	hasNulls := tuple.HasNulls()
	tp := tuple.data[tuple.dataOff():]

	// We can only fetch as many attributes as the tuple has.
	if phys := tuple.NumAttrs(); natts > phys {
		natts = phys
	}

	attnum := state.numValid
	var off int
	slow := false
	if attnum == 0 {
		off = 0
		state.slow = false
	} else {
		// Restore state from the previous call
		off = state.offset
		slow = state.slow
	}

	if attnum >= natts {
		// Trailing attribute beyond what the tuple stores: implicitly null.
		return Datum{}, true, nil
	}

	var value Datum
	var isNull bool
	var err error

	for ; attnum < natts; attnum++ {
		att := &desc.Attrs[attnum]

		if hasNulls && tuple.attIsNull(attnum) {
			value = Datum{}
			isNull = true
			slow = true // can't trust cached offsets anymore
			continue
		}

		isNull = false

		if !slow && att.cachedOff >= 0 {
			off = att.cachedOff
		} else if att.Len == VarLen {
			if !slow && off == alignOffset(off, att.Align) {
				att.cachedOff = off
			} else {
				off = alignVarlenaOffset(off, att.Align, tp)
				slow = true
			}
		} else {
			off = alignOffset(off, att.Align)
			if !slow {
				att.cachedOff = off
			}
		}

		value, err = fetchAttr(att, tp[off:])
		if err != nil {
			return Datum{}, false, errors.WithStack(err)
		}

		if att.Len == VarLen {
			off += varlenaTotalLen(tp[off:])
		} else {
			off += att.Len
		}

		if att.Len <= 0 {
			slow = true
		}
	}

	state.numValid = attnum
	state.offset = off
	state.slow = slow

	return value, isNull, nil
}
