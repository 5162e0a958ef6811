package main

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/arqcore/arq/internal/config"
	"github.com/arqcore/arq/internal/metrics"
	"github.com/arqcore/arq/transport/udp"
)

func runServer(conf *config.Config, collector *metrics.SessionCollector) error {
	ln, err := udp.Listen(conf.Listen)
	if err != nil {
		return errors.Wrap(err, "udp.Listen")
	}
	defer ln.Close()
	ln.SetMetrics(collector)
	glog.Infof("arqecho: listening on %s", ln.Addr())

	for {
		c, err := ln.AcceptConn()
		if err != nil {
			return errors.Wrap(err, "AcceptConn")
		}
		applyTunables(c.Session(), conf)
		go echo(c)
	}
}

func echo(c *udp.Conn) {
	defer c.Close()
	buf := make([]byte, 65536)
	for {
		n, err := c.Read(buf)
		if err != nil {
			glog.Infof("arqecho: connection from %s closed: %v", c.RemoteAddr(), err)
			return
		}
		glog.Infof("arqecho: %s -> %q", c.RemoteAddr(), buf[:n])
		if _, err := c.Write(buf[:n]); err != nil {
			glog.Errorf("arqecho: echo write to %s: %v", c.RemoteAddr(), err)
			return
		}
	}
}
