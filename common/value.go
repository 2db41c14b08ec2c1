package common

import (
	"fmt"
	"strconv"
)

type Type int8

const (
	// DefaultType marks uninitialized Values.
	DefaultType Type = iota
	IntType
	FloatType
	TextType
	BoolType
)

func (t Type) String() string {
	switch t {
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case TextType:
		return "text"
	case BoolType:
		return "bool"
	}
	return "unknown"
}

// Value represents a single data item flowing through the pipeline.
// NULL is a marker orthogonal to the type tag: a NULL Value still carries
// the type it would have had, which matters for padding the right side of
// an unmatched outer-join row.
type Value struct {
	t    Type
	null bool

	underlyingInt   int64
	underlyingFloat float64
	underlyingText  string
	underlyingBool  bool
}

// NewIntValue creates a new integer Value.
func NewIntValue(v int64) Value {
	return Value{t: IntType, underlyingInt: v}
}

// NewFloatValue creates a new float Value.
func NewFloatValue(v float64) Value {
	return Value{t: FloatType, underlyingFloat: v}
}

// NewTextValue creates a new text Value.
func NewTextValue(v string) Value {
	return Value{t: TextType, underlyingText: v}
}

// NewBoolValue creates a new boolean Value.
func NewBoolValue(v bool) Value {
	return Value{t: BoolType, underlyingBool: v}
}

// NewNullValue creates a NULL Value of the given type.
func NewNullValue(t Type) Value {
	return Value{t: t, null: true}
}

// IsNil returns true if the Value is uninitialized. This is NOT to be
// confused with NULL values, which carry a concrete type.
func (v Value) IsNil() bool {
	return v.t == DefaultType
}

// Type returns the type of the Value.
func (v Value) Type() Type {
	return v.t
}

// IsNull returns true if the Value is NULL.
func (v Value) IsNull() bool {
	return v.null
}

// IsNumeric returns true for int and float Values, NULL or not.
func (v Value) IsNumeric() bool {
	return v.t == IntType || v.t == FloatType
}

// IntValue returns the underlying (non-NULL) integer.
func (v Value) IntValue() int64 {
	Assert(v.t == IntType, "type mismatch in IntValue")
	Assert(!v.null, "accessing value of NULL int")
	return v.underlyingInt
}

// FloatValue returns the underlying (non-NULL) float.
func (v Value) FloatValue() float64 {
	Assert(v.t == FloatType, "type mismatch in FloatValue")
	Assert(!v.null, "accessing value of NULL float")
	return v.underlyingFloat
}

// TextValue returns the underlying (non-NULL) text.
func (v Value) TextValue() string {
	Assert(v.t == TextType, "type mismatch in TextValue")
	Assert(!v.null, "accessing value of NULL text")
	return v.underlyingText
}

// BoolValue returns the underlying (non-NULL) boolean.
func (v Value) BoolValue() bool {
	Assert(v.t == BoolType, "type mismatch in BoolValue")
	Assert(!v.null, "accessing value of NULL bool")
	return v.underlyingBool
}

// AsFloat widens a non-NULL numeric Value to float64.
func (v Value) AsFloat() float64 {
	Assert(v.IsNumeric(), "AsFloat on non-numeric value")
	Assert(!v.null, "AsFloat on NULL value")
	if v.t == IntType {
		return float64(v.underlyingInt)
	}
	return v.underlyingFloat
}

// Comparable reports whether two Values may be compared: identical types,
// or the one permitted implicit coercion (int vs float).
func (v Value) Comparable(other Value) bool {
	if v.t == other.t {
		return true
	}
	return v.IsNumeric() && other.IsNumeric()
}

// Compare compares two Values.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
// NULL is considered less than non-NULL values; this is the engine's sort
// convention (NULL sorts lowest in ascending order).
// Integers and floats compare against each other after widening; any other
// cross-type comparison is a TypeMismatch error.
func (v Value) Compare(other Value) (int, error) {
	if !v.Comparable(other) {
		return 0, Errorf(TypeMismatch, "cannot compare %s with %s", v.t, other.t)
	}

	if v.null && other.null {
		return 0, nil
	}
	if v.null {
		return -1, nil
	}
	if other.null {
		return 1, nil
	}

	if v.IsNumeric() && (v.t != other.t) {
		return cmpOrdered(v.AsFloat(), other.AsFloat()), nil
	}

	switch v.t {
	case IntType:
		return cmpOrdered(v.underlyingInt, other.underlyingInt), nil
	case FloatType:
		return cmpOrdered(v.underlyingFloat, other.underlyingFloat), nil
	case TextType:
		return cmpOrdered(v.underlyingText, other.underlyingText), nil
	case BoolType:
		return cmpOrdered(b2i(v.underlyingBool), b2i(other.underlyingBool)), nil
	}
	panic("unreachable")
}

func (v Value) String() string {
	if v.t == DefaultType {
		return "<nil>"
	}
	if v.null {
		return "NULL"
	}
	switch v.t {
	case IntType:
		return strconv.FormatInt(v.underlyingInt, 10)
	case FloatType:
		return strconv.FormatFloat(v.underlyingFloat, 'g', -1, 64)
	case TextType:
		return v.underlyingText
	case BoolType:
		return strconv.FormatBool(v.underlyingBool)
	}
	return fmt.Sprintf("<%d?>", v.t)
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func b2i(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
