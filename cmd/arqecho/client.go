package main

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/arqcore/arq/internal/config"
	"github.com/arqcore/arq/internal/metrics"
	"github.com/arqcore/arq/transport/udp"
)

func runClient(conf *config.Config, message string, collector *metrics.SessionCollector) error {
	c, err := udp.Dial(conf.Remote)
	if err != nil {
		return errors.Wrap(err, "udp.Dial")
	}
	defer c.Close()
	c.AttachMetrics(collector, conf.Remote)

	applyTunables(c.Session(), conf)

	if _, err := c.Write([]byte(message)); err != nil {
		return errors.Wrap(err, "Write")
	}

	c.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 65536)
	n, err := c.Read(buf)
	if err != nil {
		return errors.Wrap(err, "Read")
	}
	glog.Infof("arqecho: reply from %s: %q", c.RemoteAddr(), buf[:n])
	return nil
}
