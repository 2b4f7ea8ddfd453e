// Package jsonvalue holds an order-preserving JSON value model.
//
// Objects keep their members in source order (duplicate keys are kept as
// separate members) and numbers keep the literal they were written with, so
// a parsed document can be rendered back line by line without reshuffling.
package jsonvalue

import (
	"strconv"
)

// Kind identifies the JSON type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Member is one "key": value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents, or the number literal
	members []Member
	elems   []Value
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number from its literal text. The literal is not
// validated here; Parse only produces grammar-checked literals.
func Number(literal string) Value { return Value{kind: KindNumber, s: literal} }

// Int returns a JSON number for an integer.
func Int(n int64) Value { return Number(strconv.FormatInt(n, 10)) }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Object returns a JSON object with members in the given order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, members: members}
}

// Array returns a JSON array.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, elems: elems}
}

// M is shorthand for building a Member.
func M(key string, v Value) Member { return Member{Key: key, Value: v} }

func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an object or an array.
func (v Value) IsContainer() bool {
	return v.kind == KindObject || v.kind == KindArray
}

// Members returns the object's members in order, or nil for non-objects.
func (v Value) Members() []Member { return v.members }

// Elements returns the array's elements in order, or nil for non-arrays.
func (v Value) Elements() []Value { return v.elems }

// Len returns the number of immediate children of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.members)
	case KindArray:
		return len(v.elems)
	default:
		return 0
	}
}

// BoolValue returns the boolean payload (false for non-booleans).
func (v Value) BoolValue() bool { return v.b }

// Text returns the string payload for strings and the literal for numbers.
func (v Value) Text() string { return v.s }

// Literal renders a scalar using the JSON scalar grammar: quoted and escaped
// strings, number literals as written, true/false/null. Containers render as
// their empty-bracket pair, which callers never rely on.
func (v Value) Literal() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.s
	case KindString:
		return Quote(v.s)
	case KindObject:
		return "{}"
	case KindArray:
		return "[]"
	}
	return "null"
}

// Equal reports deep equality. Object members are compared in order; numbers
// are equal when their literals match or they denote the same float64.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindNumber:
		if a.s == b.s {
			return true
		}
		af, errA := strconv.ParseFloat(a.s, 64)
		bf, errB := strconv.ParseFloat(b.s, 64)
		return errA == nil && errB == nil && af == bf
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key || !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	case KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	}
	return false
}
