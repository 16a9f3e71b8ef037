package common

import (
	"math"
)

// Datum is a single still-row-encoded attribute value. Fixed-width values are held in
// raw as their little-endian bit pattern; variable-length values alias the tuple
// buffer through bytes, so a Datum must not outlive the tuple it was fetched from.
type Datum struct {
	raw   uint64
	bytes []byte
}

func (d Datum) Bool() bool {
	return d.raw != 0
}

func (d Datum) Int8() int8 {
	return int8(d.raw)
}

func (d Datum) Int16() int16 {
	return int16(d.raw)
}

func (d Datum) Int32() int32 {
	return int32(d.raw)
}

func (d Datum) Int64() int64 {
	return int64(d.raw)
}

func (d Datum) Float32() float32 {
	return math.Float32frombits(uint32(d.raw))
}

func (d Datum) Float64() float64 {
	return math.Float64frombits(d.raw)
}

// Bytes returns the varlena payload with the length header already stripped.
func (d Datum) Bytes() []byte {
	return d.bytes
}

func (d Datum) Text() string {
	return string(d.bytes)
}

func BoolDatum(v bool) Datum {
	if v {
		return Datum{raw: 1}
	}
	return Datum{raw: 0}
}

func Int8Datum(v int8) Datum {
	return Datum{raw: uint64(uint8(v))}
}

func Int16Datum(v int16) Datum {
	return Datum{raw: uint64(uint16(v))}
}

func Int32Datum(v int32) Datum {
	return Datum{raw: uint64(uint32(v))}
}

func Int64Datum(v int64) Datum {
	return Datum{raw: uint64(v)}
}

func Float32Datum(v float32) Datum {
	return Datum{raw: uint64(math.Float32bits(v))}
}

func Float64Datum(v float64) Datum {
	return Datum{raw: math.Float64bits(v)}
}

// TextDatum copies s into datum-owned storage.
func TextDatum(s string) Datum {
	return Datum{bytes: []byte(s)}
}

// BytesDatum wraps b without copying.
func BytesDatum(b []byte) Datum {
	return Datum{bytes: b}
}
