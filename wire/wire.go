// Package wire holds the flat, discriminator-tagged shells that cross the
// network, and the conversions between them and param.Value/param.Descriptor.
// The shapes mirror the external contract: a single-byte discriminator plus
// one semantically-defined payload field, the rest left at zero/empty.
package wire

import (
	"github.com/mdzio/go-paramsrv/param"
)

// Discriminator bytes for ParameterValue.Type, fixed by the external
// contract: 1=Bool, 2=I64, 3=F64, 4=String, 5=VecU8, 6=VecBool, 7=VecI64,
// 8=VecF64, 9=VecString; all other values (including 0) decode to NotSet.
const (
	TypeNotSet       byte = 0
	TypeBool         byte = 1
	TypeInteger      byte = 2
	TypeDouble       byte = 3
	TypeString       byte = 4
	TypeByteArray    byte = 5
	TypeBoolArray    byte = 6
	TypeIntegerArray byte = 7
	TypeDoubleArray  byte = 8
	TypeStringArray  byte = 9
)

// ParameterValue is the wire shell for param.Value.
type ParameterValue struct {
	Type              byte
	BoolValue         bool
	IntegerValue      int64
	DoubleValue       float64
	StringValue       string
	ByteArrayValue    []byte
	BoolArrayValue    []bool
	IntegerArrayValue []int64
	DoubleArrayValue  []float64
	StringArrayValue  []string
}

// FromValue encodes v, setting the discriminator from v's Kind (NotSet and
// unknown kinds give TypeNotSet). Sequences are copied into owned storage so
// the wire shell and the param.Value never alias.
func FromValue(v param.Value) ParameterValue {
	switch v.Kind {
	case param.Bool:
		return ParameterValue{Type: TypeBool, BoolValue: v.Bool()}
	case param.I64:
		return ParameterValue{Type: TypeInteger, IntegerValue: v.I64()}
	case param.F64:
		return ParameterValue{Type: TypeDouble, DoubleValue: v.F64()}
	case param.String:
		return ParameterValue{Type: TypeString, StringValue: v.Str()}
	case param.VecU8:
		return ParameterValue{Type: TypeByteArray, ByteArrayValue: v.VecU8()}
	case param.VecBool:
		return ParameterValue{Type: TypeBoolArray, BoolArrayValue: v.VecBool()}
	case param.VecI64:
		return ParameterValue{Type: TypeIntegerArray, IntegerArrayValue: v.VecI64()}
	case param.VecF64:
		return ParameterValue{Type: TypeDoubleArray, DoubleArrayValue: v.VecF64()}
	case param.VecString:
		return ParameterValue{Type: TypeStringArray, StringArrayValue: v.VecString()}
	default:
		return ParameterValue{Type: TypeNotSet}
	}
}

// ToValue is the inverse of FromValue. An unrecognized discriminator yields
// NotSet, matching the contract's "all others" clause.
func (w ParameterValue) ToValue() param.Value {
	switch w.Type {
	case TypeBool:
		return param.NewBool(w.BoolValue)
	case TypeInteger:
		return param.NewI64(w.IntegerValue)
	case TypeDouble:
		return param.NewF64(w.DoubleValue)
	case TypeString:
		return param.NewString(w.StringValue)
	case TypeByteArray:
		return param.NewVecU8(w.ByteArrayValue)
	case TypeBoolArray:
		return param.NewVecBool(w.BoolArrayValue)
	case TypeIntegerArray:
		return param.NewVecI64(w.IntegerArrayValue)
	case TypeDoubleArray:
		return param.NewVecF64(w.DoubleArrayValue)
	case TypeStringArray:
		return param.NewVecString(w.StringArrayValue)
	default:
		return param.NewNotSet()
	}
}

// ParameterIntegerRange is the wire shell for param.IntegerRange.
type ParameterIntegerRange struct {
	FromValue int64
	ToValue   int64
	Step      uint64
}

// ParameterFloatingPointRange is the wire shell for param.FloatingPointRange.
type ParameterFloatingPointRange struct {
	FromValue float64
	ToValue   float64
	Step      float64
}

// ParameterDescriptor is the wire shell returned by describe_parameters: a
// name, the current type discriminator, and the full descriptor metadata, as
// length-0-or-1 sequences for the two range kinds.
type ParameterDescriptor struct {
	Name                  string
	Type                  byte
	Description           string
	AdditionalConstraints string
	ReadOnly              bool
	DynamicTyping         bool
	IntegerRange          []ParameterIntegerRange
	FloatingPointRange    []ParameterFloatingPointRange
}

// DescribeParameter builds the wire descriptor for name given its current
// value and descriptor. The caller (paramsrv) decides what to do if building
// one descriptor conceptually fails (skip and continue); this function
// itself cannot fail in Go, since there is no allocation-failure signal to
// react to (see DESIGN.md).
func DescribeParameter(name string, v param.Value, d param.Descriptor) ParameterDescriptor {
	out := ParameterDescriptor{
		Name:                  name,
		Type:                  FromValue(v).Type,
		Description:           d.Description,
		AdditionalConstraints: d.AdditionalConstraints,
		ReadOnly:              d.ReadOnly,
		DynamicTyping:         d.DynamicTyping,
	}
	if d.IntegerRange != nil {
		out.IntegerRange = []ParameterIntegerRange{{
			FromValue: d.IntegerRange.Min,
			ToValue:   d.IntegerRange.Max,
			Step:      d.IntegerRange.Step,
		}}
	}
	if d.FloatingPointRange != nil {
		out.FloatingPointRange = []ParameterFloatingPointRange{{
			FromValue: d.FloatingPointRange.Min,
			ToValue:   d.FloatingPointRange.Max,
			Step:      d.FloatingPointRange.Step,
		}}
	}
	return out
}

// Parameter pairs a name with its wire value, the request element of
// set_parameters and set_parameters_atomically.
type Parameter struct {
	Name  string
	Value ParameterValue
}

// SetParametersResult is the per-element outcome of set_parameters and
// set_parameters_atomically.
type SetParametersResult struct {
	Successful bool
	Reason     string
}

// ListParametersResult is the response shape of list_parameters.
type ListParametersResult struct {
	Names    []string
	Prefixes []string
}
