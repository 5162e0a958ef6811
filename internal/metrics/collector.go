// Package metrics exposes live arq.Session state as Prometheus metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arqcore/arq/arq"
)

var descs = struct {
	cwnd, ssthresh, rto, waitSnd, rmtWnd, xmit *prometheus.Desc
}{
	cwnd: prometheus.NewDesc(
		"arq_cwnd", "Current congestion window, in segments.",
		[]string{"session"}, nil),
	ssthresh: prometheus.NewDesc(
		"arq_ssthresh", "Slow-start threshold, in segments.",
		[]string{"session"}, nil),
	rto: prometheus.NewDesc(
		"arq_rto_ms", "Current retransmission timeout, in milliseconds.",
		[]string{"session"}, nil),
	waitSnd: prometheus.NewDesc(
		"arq_wait_snd", "Segments queued or in flight awaiting acknowledgement.",
		[]string{"session"}, nil),
	rmtWnd: prometheus.NewDesc(
		"arq_rmt_wnd", "Last window size advertised by the peer.",
		[]string{"session"}, nil),
	xmit: prometheus.NewDesc(
		"arq_xmit_total", "Cumulative count of timeout retransmissions.",
		[]string{"session"}, nil),
}

// sessionEntry pairs a session with the label value it reports under.
type sessionEntry struct {
	sess  *arq.Session
	label string
}

// SessionCollector is a prometheus.Collector over a live set of
// arq.Sessions. Each Collect call samples every registered session's
// Stats() fresh, the way TCPInfoCollector samples live socket state at
// scrape time instead of on a separate polling timer.
type SessionCollector struct {
	mu       sync.Mutex
	sessions map[*arq.Session]sessionEntry
}

// NewSessionCollector returns an empty collector ready to register with
// a prometheus.Registry.
func NewSessionCollector() *SessionCollector {
	return &SessionCollector{sessions: make(map[*arq.Session]sessionEntry)}
}

// Add registers a session under the given label (typically its remote
// address or conversation id).
func (c *SessionCollector) Add(sess *arq.Session, label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[sess] = sessionEntry{sess: sess, label: label}
}

// Remove unregisters a session, e.g. once its connection closes.
func (c *SessionCollector) Remove(sess *arq.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sess)
}

func (c *SessionCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- descs.cwnd
	ch <- descs.ssthresh
	ch <- descs.rto
	ch <- descs.waitSnd
	ch <- descs.rmtWnd
	ch <- descs.xmit
}

func (c *SessionCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.sessions {
		st := entry.sess.Stats()
		ch <- prometheus.MustNewConstMetric(descs.cwnd, prometheus.GaugeValue, float64(st.Cwnd), entry.label)
		ch <- prometheus.MustNewConstMetric(descs.ssthresh, prometheus.GaugeValue, float64(st.Ssthresh), entry.label)
		ch <- prometheus.MustNewConstMetric(descs.rto, prometheus.GaugeValue, float64(st.Rto), entry.label)
		ch <- prometheus.MustNewConstMetric(descs.waitSnd, prometheus.GaugeValue, float64(st.WaitSnd), entry.label)
		ch <- prometheus.MustNewConstMetric(descs.rmtWnd, prometheus.GaugeValue, float64(st.RmtWnd), entry.label)
		ch <- prometheus.MustNewConstMetric(descs.xmit, prometheus.CounterValue, float64(st.Xmit), entry.label)
	}
}
