// Package paramsrv binds a param.Store to the six parameter services and
// runs them on a dedicated worker goroutine, independent of the concrete
// transport. Concrete transports (paramsrv/xmlrpc, paramsrv/binrpc) plug in
// by implementing Node/Context/Selector/Server.
package paramsrv

import "sync"

// Node is the owning process's identity and its gateway to a transport's
// runtime (its Context).
type Node interface {
	Name() string
	Context() Context
}

// Context creates the Selector a ParameterServer's worker blocks on.
type Context interface {
	CreateSelector() (Selector, error)
}

// ServiceFunc is a transport-native request handler: the concrete argument
// and return types are whatever the owning transport's wire codec produces
// (e.g. *xmlrpc.Value, or a decoded BIN-RPC frame) — Selector only needs to
// shuttle them between the wire and the registered Server.
type ServiceFunc func(req interface{}) (resp interface{}, err error)

// Selector multiplexes a set of Servers and GuardConditions onto a single
// blocking Wait call, the unit of work for a ParameterServer's worker
// goroutine.
type Selector interface {
	// AddServer registers srv's handler for dispatch.
	AddServer(srv Server, handler ServiceFunc) error
	// AddGuardCondition registers a one-shot wake source; cb runs once
	// gc.Trigger is called.
	AddGuardCondition(gc *GuardCondition, cb func()) error
	// Wait blocks while the Selector serves its registered Servers,
	// dispatching their handlers, and returns once the Selector has been
	// stopped (nil) or has failed (the error).
	Wait() error
}

// Server is a named request/response endpoint bound into a Selector.
type Server interface {
	Name() string
}

// GuardCondition is a thread-shareable, one-shot wake signal. The owner calls
// Trigger (possibly from a different goroutine than the worker); the
// callback registered via Selector.AddGuardCondition runs on the worker.
// Modeled as a concrete struct rather than an interface because every
// concrete transport can share this exact implementation: a closed channel
// guarded by sync.Once for one-shot signals.
type GuardCondition struct {
	once sync.Once
	ch   chan struct{}
}

// NewGuardCondition returns an untriggered GuardCondition.
func NewGuardCondition() *GuardCondition {
	return &GuardCondition{ch: make(chan struct{})}
}

// Trigger fires the guard condition. Safe to call more than once and from
// any goroutine; only the first call has an effect.
func (gc *GuardCondition) Trigger() error {
	gc.once.Do(func() { close(gc.ch) })
	return nil
}

// Done returns a channel that is closed once Trigger has been called.
func (gc *GuardCondition) Done() <-chan struct{} {
	return gc.ch
}
