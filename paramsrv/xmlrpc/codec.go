// Package xmlrpc adapts the six parameter services onto the generic XML-RPC
// transport in github.com/mdzio/go-paramsrv/itf/xmlrpc, exposing each as a
// named method on one shared Dispatcher served over HTTP.
package xmlrpc

import (
	"strconv"

	rpc "github.com/mdzio/go-paramsrv/itf/xmlrpc"
	"github.com/mdzio/go-paramsrv/paramsrv"
	"github.com/mdzio/go-paramsrv/wire"
)

// encodeParameterValue renders a wire.ParameterValue as an explicit XML-RPC
// struct (type discriminator plus the one meaningful payload member),
// mirroring the external wire contract instead of relying on XML-RPC's own
// loose typing to recover the discriminator on decode.
func encodeParameterValue(v wire.ParameterValue) *rpc.Value {
	members := []*rpc.Member{
		{Name: "type", Value: rpc.NewInt(int(v.Type))},
	}
	switch v.Type {
	case wire.TypeBool:
		members = append(members, &rpc.Member{Name: "value", Value: rpc.NewBool(v.BoolValue)})
	case wire.TypeInteger:
		members = append(members, &rpc.Member{Name: "value", Value: &rpc.Value{Int: strconv.FormatInt(v.IntegerValue, 10)}})
	case wire.TypeDouble:
		members = append(members, &rpc.Member{Name: "value", Value: rpc.NewFloat64(v.DoubleValue)})
	case wire.TypeString:
		members = append(members, &rpc.Member{Name: "value", Value: rpc.NewString(v.StringValue)})
	case wire.TypeByteArray:
		ints := make([]int64, len(v.ByteArrayValue))
		for i, b := range v.ByteArrayValue {
			ints[i] = int64(b)
		}
		members = append(members, &rpc.Member{Name: "value", Value: encodeInt64s(ints)})
	case wire.TypeBoolArray:
		es := make([]*rpc.Value, len(v.BoolArrayValue))
		for i, b := range v.BoolArrayValue {
			es[i] = rpc.NewBool(b)
		}
		members = append(members, &rpc.Member{Name: "value", Value: &rpc.Value{Array: &rpc.Array{Data: es}}})
	case wire.TypeIntegerArray:
		members = append(members, &rpc.Member{Name: "value", Value: encodeInt64s(v.IntegerArrayValue)})
	case wire.TypeDoubleArray:
		es := make([]*rpc.Value, len(v.DoubleArrayValue))
		for i, f := range v.DoubleArrayValue {
			es[i] = rpc.NewFloat64(f)
		}
		members = append(members, &rpc.Member{Name: "value", Value: &rpc.Value{Array: &rpc.Array{Data: es}}})
	case wire.TypeStringArray:
		members = append(members, &rpc.Member{Name: "value", Value: rpc.NewStrings(v.StringArrayValue)})
	}
	return &rpc.Value{Struct: &rpc.Struct{Members: members}}
}

func encodeInt64s(vals []int64) *rpc.Value {
	es := make([]*rpc.Value, len(vals))
	for i, n := range vals {
		es[i] = &rpc.Value{Int: strconv.FormatInt(n, 10)}
	}
	return &rpc.Value{Array: &rpc.Array{Data: es}}
}

func decodeParameterValue(q *rpc.Query) wire.ParameterValue {
	typ := byte(q.Key("type").Int())
	val := q.Key("value")
	switch typ {
	case wire.TypeBool:
		return wire.ParameterValue{Type: typ, BoolValue: val.Bool()}
	case wire.TypeInteger:
		return wire.ParameterValue{Type: typ, IntegerValue: int64(val.Int())}
	case wire.TypeDouble:
		return wire.ParameterValue{Type: typ, DoubleValue: val.Float64()}
	case wire.TypeString:
		return wire.ParameterValue{Type: typ, StringValue: val.String()}
	case wire.TypeByteArray:
		els := val.Slice()
		b := make([]byte, len(els))
		for i, e := range els {
			b[i] = byte(e.Int())
		}
		return wire.ParameterValue{Type: typ, ByteArrayValue: b}
	case wire.TypeBoolArray:
		els := val.Slice()
		b := make([]bool, len(els))
		for i, e := range els {
			b[i] = e.Bool()
		}
		return wire.ParameterValue{Type: typ, BoolArrayValue: b}
	case wire.TypeIntegerArray:
		els := val.Slice()
		b := make([]int64, len(els))
		for i, e := range els {
			b[i] = int64(e.Int())
		}
		return wire.ParameterValue{Type: typ, IntegerArrayValue: b}
	case wire.TypeDoubleArray:
		els := val.Slice()
		b := make([]float64, len(els))
		for i, e := range els {
			b[i] = e.Float64()
		}
		return wire.ParameterValue{Type: typ, DoubleArrayValue: b}
	case wire.TypeStringArray:
		return wire.ParameterValue{Type: typ, StringArrayValue: val.Strings()}
	default:
		return wire.ParameterValue{Type: wire.TypeNotSet}
	}
}

func decodeParameter(q *rpc.Query) wire.Parameter {
	return wire.Parameter{
		Name:  q.Key("name").String(),
		Value: decodeParameterValue(q.Key("value")),
	}
}

func encodeDescriptor(d wire.ParameterDescriptor) *rpc.Value {
	var intRanges []*rpc.Value
	for _, r := range d.IntegerRange {
		intRanges = append(intRanges, &rpc.Value{Struct: &rpc.Struct{Members: []*rpc.Member{
			{Name: "from", Value: &rpc.Value{Int: strconv.FormatInt(r.FromValue, 10)}},
			{Name: "to", Value: &rpc.Value{Int: strconv.FormatInt(r.ToValue, 10)}},
			{Name: "step", Value: &rpc.Value{Int: strconv.FormatUint(r.Step, 10)}},
		}}})
	}
	var fpRanges []*rpc.Value
	for _, r := range d.FloatingPointRange {
		fpRanges = append(fpRanges, &rpc.Value{Struct: &rpc.Struct{Members: []*rpc.Member{
			{Name: "from", Value: rpc.NewFloat64(r.FromValue)},
			{Name: "to", Value: rpc.NewFloat64(r.ToValue)},
			{Name: "step", Value: rpc.NewFloat64(r.Step)},
		}}})
	}
	return &rpc.Value{Struct: &rpc.Struct{Members: []*rpc.Member{
		{Name: "name", Value: rpc.NewString(d.Name)},
		{Name: "type", Value: rpc.NewInt(int(d.Type))},
		{Name: "description", Value: rpc.NewString(d.Description)},
		{Name: "additional_constraints", Value: rpc.NewString(d.AdditionalConstraints)},
		{Name: "read_only", Value: rpc.NewBool(d.ReadOnly)},
		{Name: "dynamic_typing", Value: rpc.NewBool(d.DynamicTyping)},
		{Name: "integer_range", Value: &rpc.Value{Array: &rpc.Array{Data: intRanges}}},
		{Name: "floating_point_range", Value: &rpc.Value{Array: &rpc.Array{Data: fpRanges}}},
	}}}
}

func decodeStringArray(args *rpc.Value, idx int) []string {
	return rpc.Q(args).Idx(idx).Strings()
}

// --- list_parameters ---

func decodeListParametersRequest(args *rpc.Value) paramsrv.ListParametersRequest {
	q := rpc.Q(args)
	prefixes := q.Idx(0).Strings()
	depth := uint64(q.Idx(1).Int())
	return paramsrv.ListParametersRequest{Prefixes: prefixes, Depth: depth}
}

func encodeListParametersResult(r wire.ListParametersResult) *rpc.Value {
	return &rpc.Value{Struct: &rpc.Struct{Members: []*rpc.Member{
		{Name: "names", Value: rpc.NewStrings(r.Names)},
		{Name: "prefixes", Value: rpc.NewStrings(r.Prefixes)},
	}}}
}

// --- get_parameters ---

func decodeGetParametersRequest(args *rpc.Value) paramsrv.GetParametersRequest {
	return paramsrv.GetParametersRequest{Names: decodeStringArray(args, 0)}
}

func encodeGetParametersResponse(r paramsrv.GetParametersResponse) *rpc.Value {
	es := make([]*rpc.Value, len(r.Values))
	for i, v := range r.Values {
		es[i] = encodeParameterValue(v)
	}
	return &rpc.Value{Array: &rpc.Array{Data: es}}
}

// --- get_parameter_types ---

func decodeGetParameterTypesRequest(args *rpc.Value) paramsrv.GetParameterTypesRequest {
	return paramsrv.GetParameterTypesRequest{Names: decodeStringArray(args, 0)}
}

func encodeGetParameterTypesResponse(r paramsrv.GetParameterTypesResponse) *rpc.Value {
	es := make([]*rpc.Value, len(r.Types))
	for i, t := range r.Types {
		es[i] = rpc.NewInt(int(t))
	}
	return &rpc.Value{Array: &rpc.Array{Data: es}}
}

// --- describe_parameters ---

func decodeDescribeParametersRequest(args *rpc.Value) paramsrv.DescribeParametersRequest {
	return paramsrv.DescribeParametersRequest{Names: decodeStringArray(args, 0)}
}

func encodeDescribeParametersResponse(r paramsrv.DescribeParametersResponse) *rpc.Value {
	es := make([]*rpc.Value, len(r.Descriptors))
	for i, d := range r.Descriptors {
		es[i] = encodeDescriptor(d)
	}
	return &rpc.Value{Array: &rpc.Array{Data: es}}
}

// --- set_parameters / set_parameters_atomically ---

func decodeSetParametersRequest(args *rpc.Value) paramsrv.SetParametersRequest {
	q := rpc.Q(args)
	els := q.Idx(0).Slice()
	ps := make([]wire.Parameter, len(els))
	for i, e := range els {
		ps[i] = decodeParameter(e)
	}
	return paramsrv.SetParametersRequest{Parameters: ps}
}

func encodeSetParametersResponse(r paramsrv.SetParametersResponse) *rpc.Value {
	es := make([]*rpc.Value, len(r.Results))
	for i, res := range r.Results {
		es[i] = &rpc.Value{Struct: &rpc.Struct{Members: []*rpc.Member{
			{Name: "successful", Value: rpc.NewBool(res.Successful)},
			{Name: "reason", Value: rpc.NewString(res.Reason)},
		}}}
	}
	return &rpc.Value{Array: &rpc.Array{Data: es}}
}
