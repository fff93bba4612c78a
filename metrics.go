// Copyright 2025 Patrick J. Scruggs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slogline

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "slogline"

// Metrics counts admission decisions and registered call sites. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	decisions *prometheus.CounterVec
	callsites *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is useful in tests.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "decisions_total",
			Help:      "Records evaluated by the line filter, by call-site interest and result.",
		}, []string{"interest", "result"}),
		callsites: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "callsites",
			Help:      "Call sites registered with the line filter, by interest.",
		}, []string{"interest"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.decisions, m.callsites} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("slogline: register metrics: %w", err)
		}
	}
	return m, nil
}

// observeDecision counts one record decision.
func (m *Metrics) observeDecision(interest Interest, admitted bool) {
	if m == nil {
		return
	}
	result := "rejected"
	if admitted {
		result = "admitted"
	}
	m.decisions.WithLabelValues(interest.String(), result).Inc()
}

// observeCallsite counts a newly registered call site.
func (m *Metrics) observeCallsite(interest Interest) {
	if m == nil {
		return
	}
	m.callsites.WithLabelValues(interest.String()).Inc()
}
