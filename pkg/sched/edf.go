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

// edfPick finds, among in-use slots waiting at MinUserQ, the one with the
// smallest non-zero deadline, and promotes it to UserQ. Slots with
// deadline == 0 never win. Ties are broken by slot index.
func (sc *Scheduler) edfPick() error {
	winner := -1
	var minDeadline int64

	for i := range sc.table {
		s := &sc.table[i]
		if !s.inUse || s.Priority != MinUserQ || s.Deadline == 0 {
			continue
		}
		if winner == -1 || s.Deadline < minDeadline {
			winner = i
			minDeadline = s.Deadline
		}
	}

	if winner == -1 {
		return nil
	}

	s := &sc.table[winner]
	s.Priority = UserQ
	if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
		return err
	}
	sc.metrics.edfPicks.Inc()
	return nil
}

// edfTick advances the virtual clock by one tick interval. It never
// triggers a pick -- picks happen only from noquantum/stop.
func (sc *Scheduler) edfTick(intervalTicks int64) {
	sc.edfClock += intervalTicks
}
