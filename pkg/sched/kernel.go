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

// KernelBridge is the contract towards the kernel's dispatch primitives.
// The kernel's ready-queue mechanics, the low-level dispatcher, and the
// quantum-timer interrupt are all external collaborators: this interface is
// the only surface schedsrv needs from them.
type KernelBridge interface {
	// Schedule pushes a (priority, quantum, cpu) decision for endpoint to
	// the kernel. A value of -1 for prio/quantum/cpu means "no change".
	// Returns a *SchedError with Code EBADCPU if cpu was rejected.
	Schedule(endpoint Endpoint, prio, quantum, cpu int) error

	// SchedCtl claims scheduling ownership of endpoint. Called once, from
	// start_scheduling, before the first Schedule call for a slot.
	SchedCtl(endpoint Endpoint) error

	// HZ returns the number of clock ticks per second, used to convert
	// BALANCE_TIMEOUT and EDF nice-as-milliseconds into ticks.
	HZ() int
}

// pickCPUAndDispatch runs pickCPU (always -- this is intentional, see
// spec's Open Question in §9, resolved in cpu.go) and then calls
// k.Schedule with the parameters selected by flags. On EBADCPU it marks
// the chosen CPU dead and retries with a fresh pick; this terminates
// because the CPU set is finite.
func pickCPUAndDispatch(k KernelBridge, cpus *cpuMap, s *Slot, flags ChangeFlags) error {
	for {
		if err := cpus.pickCPU(s); err != nil {
			return err
		}

		prio, quantum, cpu := -1, -1, -1
		if flags&ChangePrio != 0 {
			prio = s.Priority
		}
		if flags&ChangeQuantum != 0 {
			quantum = s.TimeSlice
		}
		if flags&ChangeCPU != 0 {
			cpu = s.CPU
		}

		err := k.Schedule(s.Endpoint, prio, quantum, cpu)
		if err == nil {
			return nil
		}
		if CodeOf(err) != EBADCPU {
			return wrapKernelError(EBADEPT, err, "sys_schedule failed for endpoint %d", s.Endpoint)
		}

		cpus.markDead(s.CPU)
		if cpus.allDead() {
			return schedError(EBADCPU, "all CPUs dead, endpoint %d", s.Endpoint)
		}
	}
}

// scheduleLocal pushes {PRIO, QUANTUM}: the typical policy action after a
// priority or time-slice change.
func scheduleLocal(k KernelBridge, cpus *cpuMap, s *Slot) error {
	return pickCPUAndDispatch(k, cpus, s, ChangeLocal)
}

// scheduleMigrate pushes {CPU} only. Reserved: the current MLFQ design
// never issues a migration (balance ticks only change priority), but the
// bridge keeps the form for a future policy that rebalances CPU
// assignment directly.
func scheduleMigrate(k KernelBridge, cpus *cpuMap, s *Slot) error {
	return pickCPUAndDispatch(k, cpus, s, ChangeMigrate)
}
