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
	"time"
)

// BalanceTick runs one MLFQ aging pass. It is a no-op under Lottery/EDF but
// is still invoked unconditionally by the timer loop: MINIX re-arms the
// balance timer regardless of the active policy, and so do we.
func (sc *Scheduler) BalanceTick() {
	promoted := sc.balanceQueues()
	if len(promoted) > 0 {
		sc.log.Debug("balance tick promoted %d slot(s)", len(promoted))
	}
}

// EDFTick advances the EDF virtual clock by one timer period. It never
// triggers a pick on its own -- picks happen from stop_scheduling and
// noquantum -- and it is harmless (just a clock that nothing reads) under
// Default/Lottery.
func (sc *Scheduler) EDFTick(ctx context.Context) {
	sc.edfTick(sc.edfTimeoutTicks)
	sc.refreshDeadCPUGauge(ctx)
}

func (sc *Scheduler) refreshDeadCPUGauge(ctx context.Context) {
	var dead int64
	for _, l := range sc.cpus.load {
		if l == CPUDead {
			dead++
		}
	}
	sc.metrics.recordDeadCPUs(ctx, dead)
}

// Run drives the balance and EDF timers until ctx is cancelled. It assumes
// Start has already been called so the tick intervals are known. Both
// timers are converted from kernel ticks to wall-clock durations using the
// reported HZ, since schedsrv (unlike the kernel) has no clock interrupt
// of its own to count ticks on.
func (sc *Scheduler) Run(ctx context.Context) {
	hz := sc.sysHz
	if hz <= 0 {
		hz = 100
	}
	tickDuration := time.Second / time.Duration(hz)

	balanceEvery := time.Duration(sc.balanceTimeout) * tickDuration
	edfEvery := time.Duration(sc.edfTimeoutTicks) * tickDuration
	if balanceEvery <= 0 {
		balanceEvery = BalanceTimeoutSeconds * time.Second
	}
	if edfEvery <= 0 {
		edfEvery = tickDuration
	}

	balanceTimer := time.NewTicker(balanceEvery)
	edfTimer := time.NewTicker(edfEvery)
	defer balanceTimer.Stop()
	defer edfTimer.Stop()

	sc.log.Info("timer loop started: balance every %s, edf every %s", balanceEvery, edfEvery)

	for {
		select {
		case <-ctx.Done():
			sc.log.Info("timer loop stopped")
			return
		case <-balanceTimer.C:
			sc.BalanceTick()
		case <-edfTimer.C:
			sc.EDFTick(ctx)
		}
	}
}
