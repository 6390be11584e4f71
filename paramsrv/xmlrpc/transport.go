package xmlrpc

import (
	"context"
	"net/http"

	rpc "github.com/mdzio/go-paramsrv/itf/xmlrpc"
	"github.com/mdzio/go-logging"
	"github.com/mdzio/go-paramsrv/param"
	"github.com/mdzio/go-paramsrv/paramsrv"
)

var log = logging.Get("paramsrv-xmlrpc")

// LocalNode is a paramsrv.Node backed by an HTTP listener on addr. Each
// CreateSelector call (one per ParameterServer) builds its own Dispatcher and
// http.Server on addr, dispatching by XML-RPC method name; listeners are not
// shared, so a second ParameterServer on the same LocalNode fails to listen.
type LocalNode struct {
	name string
	addr string
	path string
}

// NewLocalNode creates a Node that will serve HTTP on addr at path once a
// ParameterServer is created for it and its selector's Wait runs.
func NewLocalNode(name, addr, path string) *LocalNode {
	return &LocalNode{name: name, addr: addr, path: path}
}

// Name implements paramsrv.Node.
func (n *LocalNode) Name() string { return n.name }

// Context implements paramsrv.Node.
func (n *LocalNode) Context() paramsrv.Context { return (*localContext)(n) }

type localContext LocalNode

// CreateSelector implements paramsrv.Context.
func (c *localContext) CreateSelector() (paramsrv.Selector, error) {
	dispatcher := &rpc.BasicDispatcher{}
	dispatcher.AddSystemMethods()
	mux := http.NewServeMux()
	mux.Handle(c.path, &rpc.Handler{Dispatcher: dispatcher})
	sel := &httpSelector{
		dispatcher: dispatcher,
		srv: &http.Server{
			Addr:    c.addr,
			Handler: mux,
		},
	}
	return sel, nil
}

// httpSelector implements paramsrv.Selector over a single http.Server whose
// handler is a shared XML-RPC Dispatcher; each registered Server becomes one
// dispatched method name.
type httpSelector struct {
	dispatcher *rpc.BasicDispatcher
	srv        *http.Server
}

// AddServer implements paramsrv.Selector. handler is expected to accept and
// return *xmlrpc.Value, the native argument/result type of this transport.
func (s *httpSelector) AddServer(srv paramsrv.Server, handler paramsrv.ServiceFunc) error {
	s.dispatcher.HandleFunc(srv.Name(), func(args *rpc.Value) (*rpc.Value, error) {
		resp, err := handler(args)
		if err != nil {
			return nil, err
		}
		return resp.(*rpc.Value), nil
	})
	return nil
}

// AddGuardCondition implements paramsrv.Selector. The callback runs
// asynchronously as soon as gc is triggered; Wait itself blocks in
// http.Server.ListenAndServe, which the callback unblocks via Shutdown.
func (s *httpSelector) AddGuardCondition(gc *paramsrv.GuardCondition, cb func()) error {
	go func() {
		<-gc.Done()
		s.srv.Shutdown(context.Background())
		cb()
	}()
	return nil
}

// Wait implements paramsrv.Selector: it runs the HTTP server until shutdown.
func (s *httpSelector) Wait() error {
	log.Infof("Starting XML-RPC parameter service on %s", s.srv.Addr)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// serviceHandler adapts a typed *xmlrpc.Value -> *xmlrpc.Value function into
// a paramsrv.ServiceFunc.
func serviceHandler(f func(*rpc.Value) *rpc.Value) paramsrv.ServiceFunc {
	return func(req interface{}) (interface{}, error) {
		return f(req.(*rpc.Value)), nil
	}
}

// Services returns the TransportHandlers for a store, bound to the XML-RPC
// codec, ready to pass to paramsrv.NewParameterServer.
func Services(store *param.Store) paramsrv.TransportHandlers {
	return paramsrv.TransportHandlers{
		List: serviceHandler(func(args *rpc.Value) *rpc.Value {
			return encodeListParametersResult(paramsrv.ListParameters(store, decodeListParametersRequest(args)))
		}),
		Get: serviceHandler(func(args *rpc.Value) *rpc.Value {
			return encodeGetParametersResponse(paramsrv.GetParameters(store, decodeGetParametersRequest(args)))
		}),
		GetTypes: serviceHandler(func(args *rpc.Value) *rpc.Value {
			return encodeGetParameterTypesResponse(paramsrv.GetParameterTypes(store, decodeGetParameterTypesRequest(args)))
		}),
		Describe: serviceHandler(func(args *rpc.Value) *rpc.Value {
			return encodeDescribeParametersResponse(paramsrv.DescribeParameters(store, decodeDescribeParametersRequest(args)))
		}),
		Set: serviceHandler(func(args *rpc.Value) *rpc.Value {
			return encodeSetParametersResponse(paramsrv.SetParameters(store, decodeSetParametersRequest(args)))
		}),
		SetAtomically: serviceHandler(func(args *rpc.Value) *rpc.Value {
			return encodeSetParametersResponse(paramsrv.SetParameters(store, decodeSetParametersRequest(args)))
		}),
	}
}
