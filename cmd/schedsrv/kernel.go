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

package main

import (
	"github.com/minix-sched/schedsrv/pkg/log"
	"github.com/minix-sched/schedsrv/pkg/sched"
)

// simKernel is a stand-in for the real kernel dispatch primitives
// (sys_schedule/sys_schedctl/sys_hz), which live across the IPC boundary
// and are out of scope for schedsrv itself. It just accepts every
// dispatch and logs it, which is enough to run schedsrv standalone
// against synthetic load for local testing.
type simKernel struct {
	hz  int
	log log.Logger
}

func newKernelClient() *simKernel {
	return &simKernel{hz: 100, log: log.Get("kernel-bridge")}
}

func (k *simKernel) Schedule(endpoint sched.Endpoint, prio, quantum, cpu int) error {
	k.log.Debug("sys_schedule(endpoint=%d, prio=%d, quantum=%d, cpu=%d)",
		endpoint, prio, quantum, cpu)
	return nil
}

func (k *simKernel) SchedCtl(endpoint sched.Endpoint) error {
	k.log.Debug("sys_schedctl(endpoint=%d)", endpoint)
	return nil
}

func (k *simKernel) HZ() int { return k.hz }
