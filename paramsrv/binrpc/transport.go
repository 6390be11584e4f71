// Package binrpc adapts the six parameter services onto the binary BIN-RPC
// transport in github.com/mdzio/go-paramsrv/itf/binrpc, giving them a
// second, TCP-native wire protocol alongside paramsrv/xmlrpc. It shares that
// package's codec entirely: both transports carry the exact same
// itf/xmlrpc.Value trees, only the bytes on the wire differ.
package binrpc

import (
	"bytes"
	"net"

	rpc "github.com/mdzio/go-paramsrv/itf/binrpc"
	xmlmodel "github.com/mdzio/go-paramsrv/itf/xmlrpc"
	"github.com/mdzio/go-logging"
	"github.com/mdzio/go-paramsrv/param"
	"github.com/mdzio/go-paramsrv/paramsrv"
	pxmlrpc "github.com/mdzio/go-paramsrv/paramsrv/xmlrpc"
)

var log = logging.Get("paramsrv-binrpc")

// LocalNode is a paramsrv.Node backed by a single TCP listener.
type LocalNode struct {
	name string
	addr string
}

// NewLocalNode creates a Node that will accept BIN-RPC connections on addr
// once a ParameterServer is created for it.
func NewLocalNode(name, addr string) *LocalNode {
	return &LocalNode{name: name, addr: addr}
}

// Name implements paramsrv.Node.
func (n *LocalNode) Name() string { return n.name }

// Context implements paramsrv.Node.
func (n *LocalNode) Context() paramsrv.Context { return (*localContext)(n) }

type localContext LocalNode

// CreateSelector implements paramsrv.Context.
func (c *localContext) CreateSelector() (paramsrv.Selector, error) {
	l, err := net.Listen("tcp4", c.addr)
	if err != nil {
		return nil, err
	}
	return &tcpSelector{
		listener:   l,
		dispatcher: &xmlmodel.BasicDispatcher{},
	}, nil
}

// tcpSelector implements paramsrv.Selector over a net.Listener accept loop,
// one goroutine per connection, dispatching onto a shared BasicDispatcher.
type tcpSelector struct {
	listener   net.Listener
	dispatcher *xmlmodel.BasicDispatcher
}

// AddServer implements paramsrv.Selector. handler is expected to accept and
// return *xmlrpc.Value, shared with the paramsrv/xmlrpc codec.
func (s *tcpSelector) AddServer(srv paramsrv.Server, handler paramsrv.ServiceFunc) error {
	s.dispatcher.HandleFunc(srv.Name(), func(args *xmlmodel.Value) (*xmlmodel.Value, error) {
		resp, err := handler(args)
		if err != nil {
			return nil, err
		}
		return resp.(*xmlmodel.Value), nil
	})
	return nil
}

// AddGuardCondition implements paramsrv.Selector: the callback fires
// asynchronously and closes the listener, which unblocks Accept in Wait.
func (s *tcpSelector) AddGuardCondition(gc *paramsrv.GuardCondition, cb func()) error {
	go func() {
		<-gc.Done()
		s.listener.Close()
		cb()
	}()
	return nil
}

// Wait implements paramsrv.Selector: it accepts connections until the
// listener is closed, serving each on its own goroutine.
func (s *tcpSelector) Wait() error {
	log.Infof("Starting BIN-RPC parameter service on %s", s.listener.Addr())
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && !ne.Temporary() {
				return nil
			}
			return err
		}
		go s.serve(conn)
	}
}

func (s *tcpSelector) serve(conn net.Conn) {
	defer conn.Close()
	dec := rpc.NewDecoder(conn)
	method, params, err := dec.DecodeRequest()
	if err != nil {
		log.Errorf("Decoding of request from %s failed: %v", conn.RemoteAddr(), err)
		return
	}
	args := &xmlmodel.Value{Array: &xmlmodel.Array{Data: params}}

	res, err := s.dispatcher.Dispatch(method, args)

	var buf bytes.Buffer
	enc := rpc.NewEncoder(&buf)
	if err != nil {
		log.Errorf("Method %s failed: %v", method, err)
		if encErr := enc.EncodeResponse(&xmlmodel.Value{}); encErr != nil {
			log.Errorf("Encoding of fault response failed: %v", encErr)
			return
		}
	} else if err := enc.EncodeResponse(res); err != nil {
		log.Errorf("Encoding of response failed: %v", err)
		return
	}
	if _, err := conn.Write(buf.Bytes()); err != nil {
		log.Warningf("Sending of response to %s failed: %v", conn.RemoteAddr(), err)
	}
}

// Services returns the TransportHandlers for a store. BIN-RPC shares the
// XML-RPC codec in full: both carry the same itf/xmlrpc.Value wire model.
func Services(store *param.Store) paramsrv.TransportHandlers {
	return pxmlrpc.Services(store)
}
