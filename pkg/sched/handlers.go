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

// StartRequest carries the payload of a SCHEDULING_START/SCHEDULING_INHERIT
// request.
type StartRequest struct {
	Sender   Endpoint
	Endpoint Endpoint
	Parent   Endpoint
	// MaxPrio is a nice value (SCHEDULING_MAXPRIO on the wire).
	MaxPrio  int
	Quantum  int
	Kind     MessageKind // SchedulingStart or SchedulingInherit
}

// StartScheduling allocates a slot for a new process (spec §4.4.1).
//
// On success it returns the scheduler's own endpoint -- the value the
// caller should write back into SCHEDULING_SCHEDULER, telling the kernel
// which scheduler now owns the process. Self is the scheduler's endpoint,
// threaded through explicitly since message transport is out of scope.
func (sc *Scheduler) StartScheduling(req StartRequest, self Endpoint) (Endpoint, error) {
	if !sc.authorize(req.Sender) {
		return NoEndpoint, schedError(EPERM, "sender %d not authorized for start_scheduling", req.Sender)
	}

	if _, inUse := sc.resolveInUse(req.Endpoint); inUse {
		return NoEndpoint, schedError(EBADEPT, "endpoint %d already scheduled", req.Endpoint)
	}
	idx, free := sc.findFreeSlot()
	if !free {
		return NoEndpoint, schedError(EBADEPT, "no free scheduling slot")
	}

	maxPrio, err := niceToPriority(req.MaxPrio)
	if err != nil {
		// spec: clamp to MinUserQ, don't fail the call.
		maxPrio = MinUserQ
	}
	if maxPrio >= NrSchedQueues {
		return NoEndpoint, schedError(EINVAL, "max priority %d out of range", maxPrio)
	}

	s := &sc.table[idx]
	*s = freshSlot()
	s.Endpoint = req.Endpoint
	s.Parent = req.Parent
	s.MaxPriority = maxPrio
	s.LotteryNum = 1
	s.Deadline = 0

	if s.Endpoint == s.Parent {
		// init bootstrap: its own parent.
		s.Priority = UserQ
		s.TimeSlice = DefaultUserTimeSlice
		s.CPU = sc.cpus.bsp
	}

	switch req.Kind {
	case SchedulingStart:
		switch sc.policy {
		case Default:
			s.Priority = s.MaxPriority
		case Lottery, EDF:
			s.Priority = MinUserQ
		}
		s.TimeSlice = req.Quantum

	case SchedulingInherit:
		pIdx, ok := sc.resolveInUse(req.Parent)
		if !ok {
			return NoEndpoint, schedError(EBADEPT, "parent endpoint %d not in use", req.Parent)
		}
		parent := &sc.table[pIdx]
		s.Priority = parent.Priority
		s.TimeSlice = parent.TimeSlice

	default:
		return NoEndpoint, schedError(EINVAL, "unknown start message kind")
	}

	if err := sc.kernel.SchedCtl(s.Endpoint); err != nil {
		return NoEndpoint, wrapKernelError(EBADEPT, err, "sys_schedctl failed for endpoint %d", s.Endpoint)
	}

	s.inUse = true
	sc.endpointIdx[s.Endpoint] = idx

	if err := pickCPUAndDispatch(sc.kernel, sc.cpus, s, ChangeAll); err != nil {
		// Slot is left un-marked per spec §7: undo the IN_USE takeover.
		s.inUse = false
		delete(sc.endpointIdx, s.Endpoint)
		return NoEndpoint, err
	}

	sc.metrics.starts.Inc()
	sc.log.Info("started scheduling endpoint %d (parent %d, policy %s, priority %d)",
		s.Endpoint, s.Parent, sc.policy, s.Priority)

	return self, nil
}

// StopScheduling releases a slot (spec §4.4.2).
func (sc *Scheduler) StopScheduling(sender, endpoint Endpoint) error {
	if !sc.authorize(sender) {
		return schedError(EPERM, "sender %d not authorized for stop_scheduling", sender)
	}

	idx, ok := sc.resolveInUse(endpoint)
	if !ok {
		return schedError(EBADEPT, "endpoint %d not in use", endpoint)
	}
	s := &sc.table[idx]

	sc.cpus.release(s.CPU)
	s.inUse = false
	delete(sc.endpointIdx, endpoint)

	sc.metrics.stops.Inc()
	sc.log.Info("stopped scheduling endpoint %d", endpoint)

	switch sc.policy {
	case Lottery:
		return sc.lotteryPick()
	case EDF:
		return sc.edfPick()
	default:
		return nil
	}
}

// Nice applies a policy-dependent nice change (spec §4.4.3).
func (sc *Scheduler) Nice(sender, endpoint Endpoint, nice int) error {
	if !sc.authorize(sender) {
		return schedError(EPERM, "sender %d not authorized for nice", sender)
	}

	idx, ok := sc.resolveInUse(endpoint)
	if !ok {
		return schedError(EBADEPT, "endpoint %d not in use", endpoint)
	}
	s := &sc.table[idx]

	switch sc.policy {
	case Default:
		newQ, err := niceToPriority(nice)
		if err != nil {
			return err
		}
		if newQ >= NrSchedQueues {
			return schedError(EINVAL, "resulting queue %d out of range", newQ)
		}

		oldQ, oldMaxQ := s.Priority, s.MaxPriority
		s.MaxPriority, s.Priority = newQ, newQ

		if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
			s.Priority, s.MaxPriority = oldQ, oldMaxQ
			return err
		}
		return nil

	case Lottery:
		if nice < 1 {
			nice = 1
		}
		s.LotteryNum = nice
		return nil

	case EDF:
		if nice <= 0 {
			s.Deadline = 0
		} else {
			s.Deadline = sc.edfClock + int64(sc.sysHz)*int64(nice)/1000
		}
		return nil

	default:
		return schedError(EINVAL, "unknown policy")
	}
}

// NoQuantum handles quantum exhaustion, delivered by the kernel rather
// than a client (spec §4.4.4). The sender is always the endpoint itself.
func (sc *Scheduler) NoQuantum(endpoint Endpoint) error {
	idx, ok := sc.resolveInUse(endpoint)
	if !ok {
		return schedError(EBADEPT, "got noquantum for unknown endpoint %d", endpoint)
	}
	s := &sc.table[idx]
	sc.metrics.noQuantum.Inc()

	switch sc.policy {
	case Default:
		mlfqDemote(s)
		if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
			return err
		}
		return nil

	case Lottery:
		if s.Priority >= MaxUserQ && s.Priority <= MinUserQ {
			s.Priority = MinUserQ
		}
		if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
			return err
		}
		return sc.lotteryPick()

	case EDF:
		if s.Priority >= MaxUserQ && s.Priority <= MinUserQ {
			s.Priority = MinUserQ
		}
		if err := scheduleLocal(sc.kernel, sc.cpus, s); err != nil {
			return err
		}
		return sc.edfPick()

	default:
		return schedError(EINVAL, "unknown policy")
	}
}
