// Command arqecho is a minimal echo client/server demonstrating the arq
// transport end to end: a config file picks the tunables, the server
// echoes back whatever it reads, the client sends one line and prints
// the reply.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/arqcore/arq/internal/config"
)

func main() {
	if err := _main(); err != nil {
		defer os.Exit(1)

		var st errors.StackTrace
		type stackTracer interface {
			StackTrace() errors.StackTrace
		}
		if e, ok := err.(stackTracer); ok {
			st = e.StackTrace()
		}
		glog.Errorf("%s%+v\n", err, st)
	}
}

func _main() error {
	var configFile string
	var asServer bool
	var message string
	flag.StringVar(&configFile, "c", "./arqecho.toml", "path of config file")
	flag.BoolVar(&asServer, "server", false, "run as the echo server instead of the client")
	flag.StringVar(&message, "msg", "hello, arq", "message for the client to send")
	flag.Parse()

	conf, err := config.Load(configFile)
	if err != nil {
		return err
	}

	collector := newMetricsServer(conf)

	if asServer {
		return runServer(conf, collector)
	}
	return runClient(conf, message, collector)
}
