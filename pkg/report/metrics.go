// canary
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/caas-team/canary/pkg/checks"
)

// Metrics exposes the outcome of a run as prometheus gauges
type Metrics struct {
	registry    *prometheus.Registry
	results     *prometheus.GaugeVec
	successRate prometheus.Gauge
	total       prometheus.Gauge
}

// NewMetrics initializes the gauges on a fresh registry.
// With runtime set the go and process collectors are registered as well.
func NewMetrics(runtime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		results: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "canary_check_results",
				Help: "Number of check results of the last run by category and status",
			},
			[]string{"category", "status"},
		),
		successRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "canary_success_rate",
			Help: "Percentage of passed checks of the last run",
		}),
		total: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "canary_checks_total",
			Help: "Number of checks executed in the last run",
		}),
	}
	m.registry.MustRegister(m.results, m.successRate, m.total)
	if runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// GetRegistry returns the registry holding the gauges
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Observe sets the gauges from the results of the store. Every
// category and status pair is set, so absent combinations read 0.
func (m *Metrics) Observe(s *Store) {
	for _, c := range checks.Categories {
		cnt := Count(s.Results(c))
		m.results.WithLabelValues(string(c), string(checks.StatusPass)).Set(float64(cnt.Passed))
		m.results.WithLabelValues(string(c), string(checks.StatusFail)).Set(float64(cnt.Failed))
		m.results.WithLabelValues(string(c), string(checks.StatusWarning)).Set(float64(cnt.Warnings))
	}
	total := Count(s.All())
	m.successRate.Set(total.SuccessRate())
	m.total.Set(float64(total.Total))
}

// WriteFile writes the gauges in the text exposition format to path
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
