package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultAccepted = "accepted"
	resultRejected = "rejected"
	resultError    = "error"
)

type Metrics struct {
	attempts *prometheus.CounterVec
}

// NewMetrics registers the auth counters with reg. A nil *Metrics is valid
// and records nothing.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pypiauth",
			Name:      "auth_attempts_total",
			Help:      "Authentication decisions by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.attempts)
	for _, r := range []string{resultAccepted, resultRejected, resultError} {
		m.attempts.WithLabelValues(r)
	}
	return m
}

func (m *Metrics) observe(result string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(result).Inc()
}
