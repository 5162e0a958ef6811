package arq

import (
	"fmt"

	"github.com/golang/glog"
)

// Log mask bits, gating which categories of internal events reach
// the WriteLogFunc installed by SetWriteLog. A caller that wants quiet
// operation passes mask 0 (or never calls SetWriteLog); the core never
// logs on its own initiative outside this hook.
const (
	LogRetransmit uint32 = 1 << iota
	LogCongestion
	LogProbe
	LogInput
)

// WriteLogFunc receives one log line tagged with the mask bit it was
// gated behind, plus the opaque user token set on the session. The core
// calls this synchronously; it must not call back into the session.
type WriteLogFunc func(mask uint32, msg string, user interface{})

// GlogWriteLog is the default WriteLogFunc, matching the verbosity-gated
// logging convention the rest of this codebase uses for ambient
// diagnostics (see cmd/arqecho). Pass it to SetWriteLog
// to route a session's log lines through glog.V(2).
func GlogWriteLog(mask uint32, msg string, user interface{}) {
	glog.V(2).Infof("arq[%v]: %s", user, msg)
}

func (s *Session) logf(mask uint32, format string, args ...interface{}) {
	if s.writeLog == nil || s.logMask&mask == 0 {
		return
	}
	s.writeLog(mask, fmt.Sprintf(format, args...), s.User)
}
