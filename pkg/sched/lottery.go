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

// lotteryPick runs one round of lottery scheduling: sum the ticket counts
// of every in-use slot waiting at MinUserQ, draw a ticket, and promote the
// winner to UserQ for one quantum. Iteration is by slot index, both for the
// sum and for the walk, so results are deterministic given a fixed
// TicketSource (spec §4.5.2).
func (sc *Scheduler) lotteryPick() error {
	total := 0
	for i := range sc.table {
		s := &sc.table[i]
		if s.inUse && s.Priority == MinUserQ {
			total += s.LotteryNum
		}
	}
	if total == 0 {
		return nil
	}

	ticket := sc.rng.Intn(total) + 1

	sum := 0
	for i := range sc.table {
		s := &sc.table[i]
		if !s.inUse || s.Priority != MinUserQ {
			continue
		}
		sum += s.LotteryNum
		if sum >= ticket {
			s.Priority = UserQ
			if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
				return err
			}
			sc.metrics.lotteryPicks.Inc()
			return nil
		}
	}
	return nil
}
