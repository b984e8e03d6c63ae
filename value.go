package asqlite

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// ValueType identifies which storage class a Value holds.
type ValueType int

const (
	// TypeNull is the SQL NULL storage class.
	TypeNull ValueType = iota
	// TypeInteger is a 64-bit signed integer.
	TypeInteger
	// TypeFloat is a 64-bit IEEE floating point number.
	TypeFloat
	// TypeText is a UTF-8 string.
	TypeText
	// TypeBlob is an opaque byte sequence.
	TypeBlob
)

// String returns the storage class name.
func (t ValueType) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeText:
		return "text"
	case TypeBlob:
		return "blob"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Value is an immutable tagged union over the engine's storage classes:
// null, integer, float, text and blob. Values are produced by the
// constructors below when binding query parameters, and by row extraction
// when reading results.
type Value struct {
	typ ValueType
	n   int64
	f   float64
	s   string
	b   []byte
}

// Null returns the NULL value.
func Null() Value {
	return Value{typ: TypeNull}
}

// Integer returns an integer value.
func Integer(v int64) Value {
	return Value{typ: TypeInteger, n: v}
}

// Float returns a floating point value.
func Float(v float64) Value {
	return Value{typ: TypeFloat, f: v}
}

// Text returns a text value.
func Text(v string) Value {
	return Value{typ: TypeText, s: v}
}

// Blob returns a blob value. The bytes are copied, so the caller is free
// to reuse the slice afterwards.
func Blob(v []byte) Value {
	b := make([]byte, len(v))
	copy(b, v)
	return Value{typ: TypeBlob, b: b}
}

// Type returns the storage class of the value.
func (v Value) Type() ValueType {
	return v.typ
}

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.typ == TypeNull
}

// AsInteger returns the value as a 64-bit integer. Floats are truncated
// numerically and text is accepted when it parses cleanly as a decimal
// integer. Any other storage class reports false; an incompatible accessor
// never fails the surrounding row or query.
func (v Value) AsInteger() (int64, bool) {
	switch v.typ {
	case TypeInteger:
		return v.n, true
	case TypeFloat:
		return int64(v.f), true
	case TypeText:
		n, err := strconv.ParseInt(v.s, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// AsFloat returns the value as a 64-bit float. Integers widen numerically
// and text is accepted when it parses as a floating point number.
func (v Value) AsFloat() (float64, bool) {
	switch v.typ {
	case TypeFloat:
		return v.f, true
	case TypeInteger:
		return float64(v.n), true
	case TypeText:
		f, err := strconv.ParseFloat(v.s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsText returns the value as a string. Numeric values are formatted;
// blobs and NULL report false.
func (v Value) AsText() (string, bool) {
	switch v.typ {
	case TypeText:
		return v.s, true
	case TypeInteger:
		return strconv.FormatInt(v.n, 10), true
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64), true
	default:
		return "", false
	}
}

// AsBlob returns the value as a byte slice. Text yields its UTF-8 bytes.
// The returned slice is a copy. Numeric values and NULL report false.
func (v Value) AsBlob() ([]byte, bool) {
	switch v.typ {
	case TypeBlob:
		b := make([]byte, len(v.b))
		copy(b, v.b)
		return b, true
	case TypeText:
		return []byte(v.s), true
	default:
		return nil, false
	}
}

// String returns a debug representation of the value.
func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeInteger:
		return strconv.FormatInt(v.n, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeText:
		return strconv.Quote(v.s)
	case TypeBlob:
		return fmt.Sprintf("blob(%d bytes)", len(v.b))
	default:
		return fmt.Sprintf("value(%d)", int(v.typ))
	}
}

// driverValue converts the value into the engine binding's native bind
// representation.
func (v Value) driverValue() driver.Value {
	switch v.typ {
	case TypeInteger:
		return v.n
	case TypeFloat:
		return v.f
	case TypeText:
		return v.s
	case TypeBlob:
		return v.b
	default:
		return nil
	}
}

// anyValue converts the value into the representation expected by the
// engine binding's callback return path.
func (v Value) anyValue() interface{} {
	return v.driverValue()
}

// fromDriver converts a value extracted from the engine into a Value.
// Blob bytes are copied because the engine binding may reuse its buffer
// on the next step. Timestamps decoded by the binding collapse to text,
// matching the engine's lack of a native time storage class.
func fromDriver(dv driver.Value) Value {
	switch x := dv.(type) {
	case nil:
		return Null()
	case int64:
		return Integer(x)
	case float64:
		return Float(x)
	case string:
		return Text(x)
	case []byte:
		return Blob(x)
	case bool:
		if x {
			return Integer(1)
		}
		return Integer(0)
	case time.Time:
		return Text(x.Format(time.RFC3339Nano))
	default:
		return Text(fmt.Sprintf("%v", x))
	}
}
