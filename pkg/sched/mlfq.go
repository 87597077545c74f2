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

// balanceQueues implements the MLFQ aging pass: every in-use slot whose
// priority has drifted worse than its own ceiling is promoted by one
// level. It is a no-op under Lottery/EDF. It pushes each promoted slot's
// new priority to the kernel, adds the count to the promotions metric, and
// returns the endpoints it promoted.
func (sc *Scheduler) balanceQueues() []Endpoint {
	if sc.policy != Default {
		return nil
	}

	var promoted []Endpoint
	for i := range sc.table {
		s := &sc.table[i]
		if !s.inUse || s.Priority <= s.MaxPriority {
			continue
		}
		s.Priority--
		if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
			sc.log.Warn("balance: failed to reschedule endpoint %d: %v", s.Endpoint, err)
		}
		promoted = append(promoted, s.Endpoint)
	}
	if len(promoted) > 0 {
		sc.metrics.promotions.Add(float64(len(promoted)))
	}
	return promoted
}

// mlfqDemote implements the DEFAULT noquantum handler: push the slot down
// one level, clamped at MinUserQ.
func mlfqDemote(s *Slot) {
	if s.Priority < MinUserQ {
		s.Priority++
	}
}
