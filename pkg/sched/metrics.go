// Copyright 2019 Intel Corporation. All Rights Reserved.
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

package sched

import (
	"context"

	otelmetric "go.opentelemetry.io/otel/metric"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/minix-sched/schedsrv/pkg/metrics"
)

// Metrics collects the counters and gauges schedsrv exposes about its own
// behaviour. Request-rate counters use prometheus, since they're simple
// monotonic Inc() calls scraped by a /metrics endpoint; the dead-CPU gauge
// goes through the OpenTelemetry meter wrapper since it's a snapshot value
// rather than an event count, following the split the teacher's policy
// package uses between the two.
type Metrics struct {
	starts         prometheus.Counter
	stops          prometheus.Counter
	policySwitches prometheus.Counter
	noQuantum      prometheus.Counter
	promotions     prometheus.Counter
	lotteryPicks   prometheus.Counter
	edfPicks       prometheus.Counter

	deadCPUs otelmetric.Int64Gauge
}

func newMetrics() *Metrics {
	m := &Metrics{
		starts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "scheduling_starts_total",
			Help:      "Number of processes admitted via start_scheduling/inherit.",
		}),
		stops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "scheduling_stops_total",
			Help:      "Number of processes removed via stop_scheduling.",
		}),
		policySwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "policy_switches_total",
			Help:      "Number of runtime scheduling policy switches.",
		}),
		noQuantum: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "noquantum_total",
			Help:      "Number of quantum-exhaustion events handled.",
		}),
		promotions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "balance_promotions_total",
			Help:      "Number of slots promoted by the MLFQ aging pass.",
		}),
		lotteryPicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "lottery_picks_total",
			Help:      "Number of lottery scheduling draws with a winner.",
		}),
		edfPicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "schedsrv",
			Name:      "edf_picks_total",
			Help:      "Number of EDF deadline-driven promotions.",
		}),
	}

	gauge, err := metrics.Provider("schedsrv").Meter("sched").Int64Gauge(
		"dead_cpus",
		otelmetric.WithDescription("Number of CPUs the kernel has rejected as scheduling targets."),
	)
	if err == nil {
		m.deadCPUs = gauge
	}
	return m
}

// Collectors returns the prometheus collectors Metrics owns, for
// registration against a prometheus.Registerer.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.starts, m.stops, m.policySwitches, m.noQuantum,
		m.promotions, m.lotteryPicks, m.edfPicks,
	}
}

func (m *Metrics) recordDeadCPUs(ctx context.Context, n int64) {
	if m.deadCPUs == nil {
		return
	}
	m.deadCPUs.Record(ctx, n)
}
