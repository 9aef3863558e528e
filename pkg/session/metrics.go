/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ghostid"

// Metrics holds the session collectors.
type Metrics struct {
	sessions         *prometheus.CounterVec
	provingDuration  prometheus.Histogram
	deliveryAttempts *prometheus.CounterVec
}

// NewMetrics creates unregistered session collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "finished_total",
			Help:      "Number of authorization sessions that reached a terminal state",
		}, []string{"state", "kind"}),
		provingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "proving_duration_seconds",
			Help:      "Duration of proof generation for a request in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		}),
		deliveryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "session",
			Name:      "delivery_attempts_total",
			Help:      "Number of response delivery attempts by outcome",
		}, []string{"outcome"}),
	}
}

// Collectors returns the collectors to register.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.sessions, m.provingDuration, m.deliveryAttempts}
}
