package paramsrv

import (
	"github.com/mdzio/go-paramsrv/param"
	"github.com/mdzio/go-paramsrv/wire"
)

// ListParametersRequest is the request of list_parameters.
type ListParametersRequest struct {
	Prefixes []string
	Depth    uint64
}

// GetParametersRequest is the request of get_parameters.
type GetParametersRequest struct {
	Names []string
}

// GetParametersResponse is the response of get_parameters.
type GetParametersResponse struct {
	Values []wire.ParameterValue
}

// GetParameterTypesRequest is the request of get_parameter_types.
type GetParameterTypesRequest struct {
	Names []string
}

// GetParameterTypesResponse is the response of get_parameter_types.
type GetParameterTypesResponse struct {
	Types []byte
}

// DescribeParametersRequest is the request of describe_parameters.
type DescribeParametersRequest struct {
	Names []string
}

// DescribeParametersResponse is the response of describe_parameters.
type DescribeParametersResponse struct {
	Descriptors []wire.ParameterDescriptor
}

// SetParametersRequest is the request shared by set_parameters and
// set_parameters_atomically (both services apply the same handler body).
type SetParametersRequest struct {
	Parameters []wire.Parameter
}

// SetParametersResponse is the response shared by set_parameters and
// set_parameters_atomically.
type SetParametersResponse struct {
	Results []wire.SetParametersResult
}

// ListParameters implements the list_parameters service. It always takes the
// store's write lock even though it only reads (see DESIGN.md).
func ListParameters(store *param.Store, req ListParametersRequest) wire.ListParametersResult {
	names, prefixes := store.List(req.Prefixes, req.Depth)
	return wire.ListParametersResult{Names: names, Prefixes: prefixes}
}

// GetParameters implements the get_parameters service. Unknown names are
// silently skipped: the result is not positionally aligned with req.Names.
// The whole batch is read under one lock acquisition so a concurrent writer
// can never interleave between two names of the same request.
func GetParameters(store *param.Store, req GetParametersRequest) GetParametersResponse {
	var resp GetParametersResponse
	store.View(func(get func(string) (param.Value, param.Descriptor, bool)) {
		for _, name := range req.Names {
			v, _, ok := get(name)
			if !ok {
				continue
			}
			resp.Values = append(resp.Values, wire.FromValue(v))
		}
	})
	return resp
}

// GetParameterTypes implements the get_parameter_types service. Unlike
// GetParameters, every request name produces exactly one output byte, 0
// (NotSet) for an unknown name, preserving positional correspondence. As in
// GetParameters, the whole batch is read under one lock acquisition.
func GetParameterTypes(store *param.Store, req GetParameterTypesRequest) GetParameterTypesResponse {
	types := make([]byte, len(req.Names))
	store.View(func(get func(string) (param.Value, param.Descriptor, bool)) {
		for i, name := range req.Names {
			v, _, ok := get(name)
			if !ok {
				types[i] = wire.TypeNotSet
				continue
			}
			types[i] = wire.FromValue(v).Type
		}
	})
	return GetParameterTypesResponse{Types: types}
}

// DescribeParameters implements the describe_parameters service. Names
// absent from the store are skipped. As in GetParameters, the whole batch,
// including the wire encoding, runs under one lock acquisition.
func DescribeParameters(store *param.Store, req DescribeParametersRequest) DescribeParametersResponse {
	var resp DescribeParametersResponse
	store.View(func(get func(string) (param.Value, param.Descriptor, bool)) {
		for _, name := range req.Names {
			v, d, ok := get(name)
			if !ok {
				continue
			}
			resp.Descriptors = append(resp.Descriptors, wire.DescribeParameter(name, v, d))
		}
	})
	return resp
}

// SetParameters implements both set_parameters and set_parameters_atomically:
// the two services share this handler body verbatim. Atomicity is not
// enforced beyond the single lock acquisition RemoteSetAll already performs
// for the whole batch.
func SetParameters(store *param.Store, req SetParametersRequest) SetParametersResponse {
	names := make([]string, len(req.Parameters))
	values := make([]param.Value, len(req.Parameters))
	for i, p := range req.Parameters {
		names[i] = p.Name
		values[i] = p.Value.ToValue()
	}
	outcomes := store.RemoteSetAll(names, values)
	results := make([]wire.SetParametersResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = wire.SetParametersResult{Successful: o.Successful, Reason: o.Reason}
	}
	return SetParametersResponse{Results: results}
}
