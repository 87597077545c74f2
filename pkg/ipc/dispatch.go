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

// Package ipc defines the wire shape of requests the scheduler accepts and
// dispatches them onto a *sched.Scheduler. The actual transport (a kernel
// IPC endpoint, a unix socket, anything else) is an external collaborator;
// Dispatcher only needs a already-decoded Request and returns an
// already-encoded Reply.
package ipc

import (
	"github.com/minix-sched/schedsrv/pkg/log"
	"github.com/minix-sched/schedsrv/pkg/sched"
)

// Request mirrors the fields MINIX's scheduling messages carry, independent
// of which of the four request kinds is in play; unused fields are simply
// ignored by the handler a Kind routes to.
type Request struct {
	Kind     sched.MessageKind
	Sender   sched.Endpoint
	Endpoint sched.Endpoint
	Parent   sched.Endpoint
	MaxPrio  int
	Quantum  int
	Nice     int
}

// Reply is the dispatcher's response: for start/inherit, Scheduler carries
// the endpoint the caller should record as the process's new scheduler
// (SCHEDULING_SCHEDULER on the wire); for every other kind only Err
// matters.
type Reply struct {
	Scheduler sched.Endpoint
	Err       error
}

// Dispatcher routes decoded Requests to the matching Scheduler operation,
// the Go-native analogue of MINIX's do_noquantum/do_start_scheduling/...
// table in schedule.c's main message loop.
type Dispatcher struct {
	sc   *sched.Scheduler
	self sched.Endpoint
	log  log.Logger
}

// NewDispatcher returns a Dispatcher for sc. self is the scheduler's own
// endpoint, returned to callers of start_scheduling/inherit.
func NewDispatcher(sc *sched.Scheduler, self sched.Endpoint) *Dispatcher {
	return &Dispatcher{sc: sc, self: self, log: log.Get("dispatch")}
}

// Handle routes req to the Scheduler operation matching req.Kind.
func (d *Dispatcher) Handle(req Request) Reply {
	switch req.Kind {
	case sched.SchedulingStart, sched.SchedulingInherit:
		ep, err := d.sc.StartScheduling(sched.StartRequest{
			Sender:   req.Sender,
			Endpoint: req.Endpoint,
			Parent:   req.Parent,
			MaxPrio:  req.MaxPrio,
			Quantum:  req.Quantum,
			Kind:     req.Kind,
		}, d.self)
		return Reply{Scheduler: ep, Err: err}

	case sched.SchedulingStop:
		return Reply{Err: d.sc.StopScheduling(req.Sender, req.Endpoint)}

	case sched.SchedulingNice:
		return Reply{Err: d.sc.Nice(req.Sender, req.Endpoint, req.Nice)}

	case sched.SchedulingNoQuantum:
		return Reply{Err: d.sc.NoQuantum(req.Endpoint)}

	default:
		d.log.Warn("dropping request with unknown kind %d from %d", req.Kind, req.Sender)
		return Reply{Err: &sched.SchedError{Code: sched.EINVAL}}
	}
}
