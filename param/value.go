// Package param implements the runtime parameter store: a process-local,
// concurrently accessible map of strongly-typed named parameters with
// optional dynamic re-typing, read-only protection and numeric range
// constraints.
package param

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the variant tag of a Value.
type Kind int

// The admissible Value variants.
const (
	NotSet Kind = iota
	Bool
	I64
	F64
	String
	VecBool
	VecI64
	VecU8
	VecF64
	VecString
)

var kindNames = map[Kind]string{
	NotSet:    "NotSet",
	Bool:      "Bool",
	I64:       "I64",
	F64:       "F64",
	String:    "String",
	VecBool:   "VecBool",
	VecI64:    "VecI64",
	VecU8:     "VecU8",
	VecF64:    "VecF64",
	VecString: "VecString",
}

// String returns the stable textual tag of k.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a tagged sum over every admissible parameter value: unset, a
// scalar, or a homogeneous ordered sequence of scalars (plus a byte-sequence
// variant). Only the field matching Kind is meaningful; the zero Value is
// NotSet. Value is freely copyable.
type Value struct {
	Kind Kind

	boolVal   bool
	i64Val    int64
	f64Val    float64
	stringVal string

	vecBool   []bool
	vecI64    []int64
	vecU8     []byte
	vecF64    []float64
	vecString []string
}

// NewNotSet returns the unset Value.
func NewNotSet() Value { return Value{Kind: NotSet} }

// NewBool returns a Bool-tagged Value.
func NewBool(v bool) Value { return Value{Kind: Bool, boolVal: v} }

// NewI64 returns an I64-tagged Value.
func NewI64(v int64) Value { return Value{Kind: I64, i64Val: v} }

// NewF64 returns an F64-tagged Value.
func NewF64(v float64) Value { return Value{Kind: F64, f64Val: v} }

// NewString returns a String-tagged Value.
func NewString(v string) Value { return Value{Kind: String, stringVal: v} }

// NewVecBool returns a VecBool-tagged Value. v is copied.
func NewVecBool(v []bool) Value {
	return Value{Kind: VecBool, vecBool: append([]bool(nil), v...)}
}

// NewVecI64 returns a VecI64-tagged Value. v is copied.
func NewVecI64(v []int64) Value {
	return Value{Kind: VecI64, vecI64: append([]int64(nil), v...)}
}

// NewVecU8 returns a VecU8-tagged Value. v is copied.
func NewVecU8(v []byte) Value {
	return Value{Kind: VecU8, vecU8: append([]byte(nil), v...)}
}

// NewVecF64 returns a VecF64-tagged Value. v is copied.
func NewVecF64(v []float64) Value {
	return Value{Kind: VecF64, vecF64: append([]float64(nil), v...)}
}

// NewVecString returns a VecString-tagged Value. v is copied.
func NewVecString(v []string) Value {
	return Value{Kind: VecString, vecString: append([]string(nil), v...)}
}

// Bool returns the scalar bool payload. Only meaningful if Kind == Bool.
func (v Value) Bool() bool { return v.boolVal }

// I64 returns the scalar int64 payload. Only meaningful if Kind == I64.
func (v Value) I64() int64 { return v.i64Val }

// F64 returns the scalar float64 payload. Only meaningful if Kind == F64.
func (v Value) F64() float64 { return v.f64Val }

// Str returns the scalar string payload. Only meaningful if Kind == String.
func (v Value) Str() string { return v.stringVal }

// VecBool returns the bool sequence payload. Only meaningful if Kind == VecBool.
func (v Value) VecBool() []bool { return append([]bool(nil), v.vecBool...) }

// VecI64 returns the int64 sequence payload. Only meaningful if Kind == VecI64.
func (v Value) VecI64() []int64 { return append([]int64(nil), v.vecI64...) }

// VecU8 returns the byte sequence payload. Only meaningful if Kind == VecU8.
func (v Value) VecU8() []byte { return append([]byte(nil), v.vecU8...) }

// VecF64 returns the float64 sequence payload. Only meaningful if Kind == VecF64.
func (v Value) VecF64() []float64 { return append([]float64(nil), v.vecF64...) }

// VecString returns the string sequence payload. Only meaningful if Kind == VecString.
func (v Value) VecString() []string { return append([]string(nil), v.vecString...) }

// TypeCheck reports whether v and other carry the same variant tag.
func (v Value) TypeCheck(other Value) bool {
	return v.Kind == other.Kind
}

// TypeName returns the stable textual tag of v's variant.
func (v Value) TypeName() string {
	return v.Kind.String()
}

// Equal reports structural equality: same Kind and same payload. Float
// comparison is ordinary IEEE-754 equality (NaN != NaN, as in Go).
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case NotSet:
		return true
	case Bool:
		return v.boolVal == other.boolVal
	case I64:
		return v.i64Val == other.i64Val
	case F64:
		return v.f64Val == other.f64Val
	case String:
		return v.stringVal == other.stringVal
	case VecBool:
		return equalSlices(v.vecBool, other.vecBool)
	case VecI64:
		return equalSlices(v.vecI64, other.vecI64)
	case VecU8:
		return equalSlices(v.vecU8, other.vecU8)
	case VecF64:
		return equalSlices(v.vecF64, other.vecF64)
	case VecString:
		return equalSlices(v.vecString, other.vecString)
	default:
		return false
	}
}

// String implements fmt.Stringer for debug output. Data types are indicated
// by the representation, not printed separately.
func (v Value) String() string {
	switch v.Kind {
	case NotSet:
		return "<notset>"
	case Bool:
		return strconv.FormatBool(v.boolVal)
	case I64:
		return strconv.FormatInt(v.i64Val, 10)
	case F64:
		return strconv.FormatFloat(v.f64Val, 'g', -1, 64)
	case String:
		return strconv.Quote(v.stringVal)
	case VecBool:
		return joinStringer(v.vecBool, func(b bool) string { return strconv.FormatBool(b) })
	case VecI64:
		return joinStringer(v.vecI64, func(i int64) string { return strconv.FormatInt(i, 10) })
	case VecU8:
		return joinStringer(v.vecU8, func(b byte) string { return strconv.Itoa(int(b)) })
	case VecF64:
		return joinStringer(v.vecF64, func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) })
	case VecString:
		return joinStringer(v.vecString, strconv.Quote)
	default:
		return "<invalid>"
	}
}

func joinStringer[T any](items []T, f func(T) string) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(f(it))
	}
	sb.WriteByte(']')
	return sb.String()
}

func equalSlices[T comparable](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
