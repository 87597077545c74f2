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

// Package metrics wraps the OpenTelemetry meter provider with a thin
// naming layer: instruments are grouped by subsystem and prefixed
// accordingly, and a disabled group transparently gets a no-op meter
// instead of a special case at every call site.
package metrics

import (
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"

	"github.com/minix-sched/schedsrv/pkg/log"
)

var (
	provider *metric.MeterProvider
	nopProv  = noop.NewMeterProvider()
	enabled  []string
	mlog     = log.Get("metrics")
)

// SetProvider installs the OpenTelemetry meter provider used for enabled
// groups. Until called, every group resolves to a no-op meter.
func SetProvider(p *metric.MeterProvider) {
	provider = p
}

// Configure sets which metric groups are enabled. "*" enables all of
// them.
func Configure(groups []string) {
	enabled = groups
}

// IsEnabled reports whether group is among the configured groups.
func IsEnabled(group string) bool {
	for _, g := range enabled {
		if g == "*" || g == group {
			return true
		}
	}
	return false
}

type meterProvider struct {
	group string
}

// Provider returns a provider scoped to group.
func Provider(group string) *meterProvider {
	return &meterProvider{group: group}
}

type meter struct {
	otelmetric.Meter
	group      string
	subsys     string
	omitGroup  bool
	omitSubsys bool
}

// Option configures a Meter call.
type Option func(*meter)

// WithOmitGroup excludes the group name from instrument names.
func WithOmitGroup() Option { return func(m *meter) { m.omitGroup = true } }

// WithOmitSubsystem excludes the subsystem name from instrument names.
func WithOmitSubsystem() Option { return func(m *meter) { m.omitSubsys = true } }

// Meter returns a meter for subsys within the provider's group.
func (mp *meterProvider) Meter(subsys string, opts ...Option) otelmetric.Meter {
	m := &meter{group: mp.group, subsys: subsys}
	for _, o := range opts {
		o(m)
	}

	if provider == nil || !IsEnabled(mp.group) {
		mlog.Debug("metric subsystem %s in group %s is disabled", subsys, mp.group)
		m.Meter = nopProv.Meter(subsys)
	} else {
		mlog.Debug("metric subsystem %s in group %s is enabled", subsys, mp.group)
		m.Meter = provider.Meter(subsys)
	}
	return m
}

func (m *meter) name(n string) string {
	out, sep := "", ""
	if !m.omitGroup && m.group != "" {
		out, sep = m.group, "."
	}
	if !m.omitSubsys && m.subsys != "" {
		out += sep + m.subsys
		sep = "."
	}
	return out + sep + n
}

func (m *meter) Int64Counter(name string, opts ...otelmetric.Int64CounterOption) (otelmetric.Int64Counter, error) {
	return m.Meter.Int64Counter(m.name(name), opts...)
}

func (m *meter) Int64Gauge(name string, opts ...otelmetric.Int64GaugeOption) (otelmetric.Int64Gauge, error) {
	return m.Meter.Int64Gauge(m.name(name), opts...)
}
