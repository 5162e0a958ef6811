package main

import (
	"github.com/arqcore/arq/arq"
	"github.com/arqcore/arq/internal/config"
)

// applyTunables pushes every spec §6 setter the config file controls
// onto sess, shared by the server's per-connection setup and the
// client's single dial.
func applyTunables(sess *arq.Session, conf *config.Config) {
	sess.SetWriteLog(arq.GlogWriteLog, uint32(conf.Log.Mask))
	sess.SetMTU(conf.MTU)
	sess.SetStreamMode(conf.Stream)

	nodelay, interval, resend, nc := conf.NoDelayArgs()
	sess.NoDelay(nodelay, interval, resend, nc)
	sess.SetWindowSize(conf.Window.Send, conf.Window.Recv)
}
