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

// mockKernel is a KernelBridge used across this package's white-box
// tests. It records every dispatched (endpoint, prio, quantum, cpu) call
// and can be told to fail the next N Schedule calls with a given code.
type mockKernel struct {
	hz         int
	calls      []mockCall
	failNext   int
	failCode   Code
	failCPU    int
	rejectOnce map[int]bool
}

type mockCall struct {
	endpoint          Endpoint
	prio, quantum, cpu int
}

func newMockKernel() *mockKernel {
	return &mockKernel{hz: 100}
}

func (k *mockKernel) Schedule(endpoint Endpoint, prio, quantum, cpu int) error {
	if k.rejectOnce != nil && cpu >= 0 && k.rejectOnce[cpu] {
		delete(k.rejectOnce, cpu)
		return schedError(EBADCPU, "mock: cpu %d rejected", cpu)
	}
	if k.failNext > 0 {
		k.failNext--
		return schedError(k.failCode, "mock: forced failure")
	}
	k.calls = append(k.calls, mockCall{endpoint, prio, quantum, cpu})
	return nil
}

func (k *mockKernel) SchedCtl(Endpoint) error { return nil }

func (k *mockKernel) HZ() int { return k.hz }
