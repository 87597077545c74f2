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
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/minix-sched/schedsrv/pkg/log"
)

// Authorizer decides whether sender may issue mutating scheduling
// requests. This is the scheduler-side half of MINIX's accept_message: the
// identity and transport of the sender are an external collaborator (the
// IPC layer), so schedsrv only needs the yes/no decision.
type Authorizer func(sender Endpoint) bool

// AllowAll is an Authorizer that accepts every sender. Useful for tests and
// for embedding schedsrv in a harness that already authenticates upstream.
func AllowAll(Endpoint) bool { return true }

// Options configures a new Scheduler.
type Options struct {
	// NumSlots is the fixed capacity of the process table (MINIX:
	// NR_PROCS).
	NumSlots int
	// NumCPU is the number of CPUs in the load map. 1 means "compiled
	// single-CPU" for the purposes of pickCPU.
	NumCPU int
	// BootCPU is the boot processor id.
	BootCPU int
	// ReincarnationServer is the endpoint whose children are treated as
	// system processes and pinned to BootCPU.
	ReincarnationServer Endpoint
	// Kernel is the dispatch bridge. Required.
	Kernel KernelBridge
	// Authorize decides which senders may issue mutating requests.
	// Defaults to AllowAll if nil.
	Authorize Authorizer
	// Rand is the ticket source for lottery picks. Defaults to a
	// time-seeded source if nil.
	Rand TicketSource
	// InitialPolicy is the policy the scheduler starts in. Defaults to
	// Default (MLFQ).
	InitialPolicy Policy
}

// Scheduler is the single-threaded, message-driven policy engine. All
// mutation happens on handler/timer callbacks delivered through Run; no
// internal locking is required (spec §5).
type Scheduler struct {
	log log.Logger

	table        []Slot
	endpointIdx  map[Endpoint]int
	cpus         *cpuMap
	kernel       KernelBridge
	authorize    Authorizer
	rng          TicketSource
	metrics      *Metrics

	policy   Policy
	edfClock int64

	sysHz           int
	balanceTimeout  int64
	edfTimeoutTicks int64
}

// New creates a Scheduler with the given options.
func New(opts Options) (*Scheduler, error) {
	if opts.Kernel == nil {
		return nil, schedError(EINVAL, "kernel bridge is required")
	}
	if opts.NumSlots <= 0 {
		return nil, schedError(EINVAL, "NumSlots must be positive")
	}

	auth := opts.Authorize
	if auth == nil {
		auth = AllowAll
	}
	rng := opts.Rand
	if rng == nil {
		rng = NewSeededSource(time.Now().UnixNano())
	}

	table := make([]Slot, opts.NumSlots)
	for i := range table {
		table[i] = freshSlot()
	}

	sc := &Scheduler{
		log:         log.Get("scheduler"),
		table:       table,
		endpointIdx: make(map[Endpoint]int, opts.NumSlots),
		cpus:        newCPUMap(opts.NumCPU, opts.BootCPU, opts.ReincarnationServer),
		kernel:      opts.Kernel,
		authorize:   auth,
		rng:         rng,
		metrics:     newMetrics(),
		policy:      opts.InitialPolicy,
	}
	return sc, nil
}

// Start computes the tick intervals for the balance and EDF timers from the
// kernel's reported clock rate (MINIX: init_scheduling).
// Callers own actually driving a ticker loop; Start only establishes the
// intervals that BalanceTick/EDFTick expect to be invoked at.
func (sc *Scheduler) Start() {
	sc.sysHz = sc.kernel.HZ()
	if sc.sysHz <= 0 {
		sc.sysHz = 100
	}
	sc.balanceTimeout = int64(BalanceTimeoutSeconds * sc.sysHz)
	sc.edfTimeoutTicks = int64(sc.sysHz / 10)
	if sc.edfTimeoutTicks <= 0 {
		sc.edfTimeoutTicks = 1
	}
	sc.edfClock = 0
}

// Policy returns the currently active scheduling policy.
func (sc *Scheduler) Policy() Policy { return sc.policy }

// SwitchPolicy advances the active policy to the next one, modulo 3
// (MINIX: switch_schedule_type). Existing slot state is preserved; the next
// request determines the new semantics (spec §4.7).
func (sc *Scheduler) SwitchPolicy() Policy {
	sc.policy = sc.policy.Next()
	sc.metrics.policySwitches.Inc()
	sc.log.Info("switched scheduling policy to %s", sc.policy)
	return sc.policy
}

// EDFClock returns the current EDF virtual clock value.
func (sc *Scheduler) EDFClock() int64 { return sc.edfClock }

// BalanceTimeoutTicks returns the configured balance-timer period, in
// ticks, as computed by Start.
func (sc *Scheduler) BalanceTimeoutTicks() int64 { return sc.balanceTimeout }

// EDFTimeoutTicks returns the configured EDF-timer period, in ticks.
func (sc *Scheduler) EDFTimeoutTicks() int64 { return sc.edfTimeoutTicks }

// Slot returns a copy of the slot for endpoint, for introspection/tests.
func (sc *Scheduler) Slot(endpoint Endpoint) (Slot, bool) {
	idx, ok := sc.endpointIdx[endpoint]
	if !ok {
		return Slot{}, false
	}
	return sc.table[idx], true
}

// MetricsCollectors returns the prometheus collectors owned by the
// scheduler, for registration against a prometheus.Registerer.
func (sc *Scheduler) MetricsCollectors() []prometheus.Collector {
	return sc.metrics.Collectors()
}

// CPULoad returns a copy of the per-CPU load map, for introspection/tests.
func (sc *Scheduler) CPULoad() []int {
	out := make([]int, len(sc.cpus.load))
	copy(out, sc.cpus.load)
	return out
}

func (sc *Scheduler) findFreeSlot() (int, bool) {
	for i := range sc.table {
		if !sc.table[i].inUse {
			return i, true
		}
	}
	return 0, false
}

func (sc *Scheduler) resolveInUse(endpoint Endpoint) (int, bool) {
	idx, ok := sc.endpointIdx[endpoint]
	if !ok || !sc.table[idx].inUse {
		return 0, false
	}
	return idx, true
}
