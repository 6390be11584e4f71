package paramsrv

import (
	"github.com/mdzio/go-lib/conc"
	"github.com/mdzio/go-logging"

	"github.com/mdzio/go-paramsrv/param"
)

var log = logging.Get("paramsrv")

const (
	serviceList          = "list_parameters"
	serviceGet           = "get_parameters"
	serviceGetTypes      = "get_parameter_types"
	serviceDescribe      = "describe_parameters"
	serviceSet           = "set_parameters"
	serviceSetAtomically = "set_parameters_atomically"
)

// ParameterServer binds a param.Store to the six parameter services and
// serves them on a dedicated worker goroutine. Construction spawns the
// worker; Close triggers its shutdown and waits for it to exit.
type ParameterServer struct {
	store *param.Store
	node  Node
	gc    *GuardCondition
	done  chan struct{}
	stop  func()
}

// Endpoint name of each of the six services, rooted at the owning node's
// name: "<node>/<service>".
func endpointName(node Node, service string) string {
	return node.Name() + "/" + service
}

// NewParameterServer creates a server bound to store and starts its worker
// goroutine. If selector creation fails, the worker logs an error and exits
// immediately; the returned ParameterServer remains usable (Close still
// works) but serves nothing.
func NewParameterServer(node Node, store *param.Store, handlers TransportHandlers) *ParameterServer {
	s := &ParameterServer{
		store: store,
		node:  node,
		gc:    NewGuardCondition(),
		done:  make(chan struct{}),
	}
	s.stop = conc.DaemonFunc(func(ctx conc.Context) {
		defer close(s.done)
		s.run(ctx, handlers)
	})
	return s
}

// TransportHandlers are the transport-native request handlers a concrete
// transport registers for the six services, each already bound to that
// transport's own wire codec and to the store.
type TransportHandlers struct {
	List          ServiceFunc
	Get           ServiceFunc
	GetTypes      ServiceFunc
	Describe      ServiceFunc
	Set           ServiceFunc
	SetAtomically ServiceFunc
}

// namedServer adapts a bare name into the Server interface expected by
// Selector.AddServer.
type namedServer string

func (n namedServer) Name() string { return string(n) }

func (s *ParameterServer) run(ctx conc.Context, handlers TransportHandlers) {
	sel, err := s.node.Context().CreateSelector()
	if err != nil {
		log.Errorf("Creating selector for parameter server of node %s failed: %v", s.node.Name(), err)
		return
	}

	halt := false
	register := func(service string, h ServiceFunc) {
		if h == nil {
			return
		}
		name := endpointName(s.node, service)
		if err := sel.AddServer(namedServer(name), h); err != nil {
			log.Errorf("Registering service %s failed: %v", name, err)
		}
	}
	register(serviceList, handlers.List)
	register(serviceGet, handlers.Get)
	register(serviceGetTypes, handlers.GetTypes)
	register(serviceDescribe, handlers.Describe)
	register(serviceSet, handlers.Set)
	register(serviceSetAtomically, handlers.SetAtomically)

	if err := sel.AddGuardCondition(s.gc, func() { halt = true }); err != nil {
		log.Errorf("Registering guard condition for parameter server of node %s failed: %v", s.node.Name(), err)
		return
	}

	log.Infof("Parameter server for node %s started", s.node.Name())
	for !halt {
		if err := sel.Wait(); err != nil {
			log.Errorf("Selector wait for node %s failed: %v", s.node.Name(), err)
			return
		}
		if ctx.IsDone() {
			return
		}
	}
	log.Debugf("Parameter server for node %s stopped", s.node.Name())
}

// Close triggers the worker's shutdown and blocks until it has exited,
// ignoring any error from the underlying cancellation (matching the
// source's "join, ignoring errors" drop behavior).
func (s *ParameterServer) Close() {
	s.gc.Trigger()
	s.stop()
	<-s.done
}

// Store returns the bound parameter store, for handlers constructed outside
// this package (concrete transports bind Codec-aware closures around it).
func (s *ParameterServer) Store() *param.Store {
	return s.store
}
