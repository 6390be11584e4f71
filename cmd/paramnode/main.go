/*
This is an example of running a parameter server on two transports at once:
XML-RPC over HTTP and BIN-RPC over TCP. It seeds a handful of parameters of
every admissible type and then serves list/get/get-types/describe/set
requests until interrupted.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mdzio/go-logging"

	"github.com/mdzio/go-paramsrv/param"
	"github.com/mdzio/go-paramsrv/paramsrv"
	"github.com/mdzio/go-paramsrv/paramsrv/binrpc"
	"github.com/mdzio/go-paramsrv/paramsrv/xmlrpc"
)

const rpcPath = "/RPC2"

var (
	log = logging.Get("main")

	logLevel = logging.InfoLevel
	httpPort = flag.Int("http", 2124, "`port` for serving XML-RPC over HTTP")
	binPort  = flag.Int("bin", 2125, "`port` for serving BIN-RPC over TCP")
	nodeName = flag.String("node", "paramnode", "`name` of this node")
)

func init() {
	flag.Var(
		&logLevel,
		"log",
		"specifies the minimum `severity` of printed log messages: off, error, warning, info, debug or trace",
	)
}

// seedParameters populates store with a representative parameter of every
// admissible Value kind plus one dynamically typed parameter, and attaches
// ranges to two of them (retry_count and threshold).
func seedParameters(store *param.Store) error {
	if err := store.SetParameter("use_metric", param.NewBool(true), false, "use metric units"); err != nil {
		return err
	}
	if err := store.SetParameter("retry_count", param.NewI64(3), false, "number of retries"); err != nil {
		return err
	}
	if err := store.SetParameter("threshold", param.NewF64(0.5), false, "detection threshold"); err != nil {
		return err
	}
	if err := store.SetParameter("greeting", param.NewString("hello"), false, "greeting text"); err != nil {
		return err
	}
	if err := store.SetParameter("device_id", param.NewVecU8([]byte{0x01, 0x02, 0x03}), true, "immutable device identifier"); err != nil {
		return err
	}
	if err := store.SetParameter("enabled_flags", param.NewVecBool([]bool{true, false, true}), false, "per-channel enable flags"); err != nil {
		return err
	}
	if err := store.SetParameter("sample_rates", param.NewVecI64([]int64{10, 20, 40}), false, "supported sample rates"); err != nil {
		return err
	}
	if err := store.SetParameter("calibration", param.NewVecF64([]float64{1.0, 1.1, 0.9}), false, "per-axis calibration"); err != nil {
		return err
	}
	if err := store.SetParameter("tags", param.NewVecString([]string{"a", "b"}), false, "free-form tags"); err != nil {
		return err
	}
	if err := store.SetDynamicallyTypedParameter("scratch", param.NewNotSet(), false, "dynamically typed scratch value"); err != nil {
		return err
	}
	if err := store.SetIntegerRange("retry_count", 0, 10, 1); err != nil {
		return err
	}
	if err := store.SetFloatingPointRange("threshold", 0, 1, 0); err != nil {
		return err
	}
	return nil
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage of paramnode:")
		flag.PrintDefaults()
	}
	// flag.Parse calls os.Exit(2) on error
	flag.Parse()
	logging.SetLevel(logLevel)

	store := param.NewStore()
	if err := seedParameters(store); err != nil {
		return err
	}

	xmlNode := xmlrpc.NewLocalNode(*nodeName, fmt.Sprintf(":%d", *httpPort), rpcPath)
	xmlSrv := paramsrv.NewParameterServer(xmlNode, store, xmlrpc.Services(store))
	defer xmlSrv.Close()
	log.Infof("XML-RPC parameter server for node %s listening on port %d%s", *nodeName, *httpPort, rpcPath)

	binNode := binrpc.NewLocalNode(*nodeName, fmt.Sprintf(":%d", *binPort))
	binSrv := paramsrv.NewParameterServer(binNode, store, binrpc.Services(store))
	defer binSrv.Close()
	log.Infof("BIN-RPC parameter server for node %s listening on port %d", *nodeName, *binPort)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig
	log.Info("Shutting down")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
	os.Exit(0)
}
