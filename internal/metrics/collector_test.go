package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/arqcore/arq/arq"
)

func TestSessionCollectorReportsRegisteredSessions(t *testing.T) {
	c := NewSessionCollector()
	sess := arq.New(1, nil, func([]byte, interface{}) int { return 0 })
	c.Add(sess, "peer-a")

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() != "arq_cwnd" {
			continue
		}
		found = true
		if len(mf.Metric) != 1 {
			t.Fatalf("arq_cwnd has %d series, want 1", len(mf.Metric))
		}
		if got := labelValue(mf.Metric[0], "session"); got != "peer-a" {
			t.Fatalf("session label = %q, want %q", got, "peer-a")
		}
	}
	if !found {
		t.Fatalf("arq_cwnd metric family not found")
	}

	c.Remove(sess)
	families, err = reg.Gather()
	if err != nil {
		t.Fatalf("Gather after Remove: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == "arq_cwnd" && len(mf.Metric) != 0 {
			t.Fatalf("arq_cwnd still reports %d series after Remove", len(mf.Metric))
		}
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.Label {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
