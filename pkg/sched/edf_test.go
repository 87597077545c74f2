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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEdfPickSmallestDeadlineWins(t *testing.T) {
	k := newMockKernel()
	sc := newTestScheduler(t, k, 1)

	sc.table[0] = Slot{inUse: true, Endpoint: 1, Priority: MinUserQ, Deadline: 50}
	sc.table[1] = Slot{inUse: true, Endpoint: 2, Priority: MinUserQ, Deadline: 20}
	sc.table[2] = Slot{inUse: true, Endpoint: 3, Priority: MinUserQ, Deadline: 0}

	require.NoError(t, sc.edfPick())
	require.Equal(t, UserQ, sc.table[1].Priority)
	require.Equal(t, MinUserQ, sc.table[0].Priority)
	require.Equal(t, MinUserQ, sc.table[2].Priority, "zero deadline must never win")
}

func TestEdfPickNoEligibleIsNoop(t *testing.T) {
	k := newMockKernel()
	sc := newTestScheduler(t, k, 1)
	sc.table[0] = Slot{inUse: true, Endpoint: 1, Priority: MinUserQ, Deadline: 0}

	require.NoError(t, sc.edfPick())
	require.Empty(t, k.calls)
}

func TestEdfTickAdvancesClock(t *testing.T) {
	k := newMockKernel()
	sc := newTestScheduler(t, k, 1)

	require.Equal(t, int64(0), sc.EDFClock())
	sc.edfTick(10)
	require.Equal(t, int64(10), sc.EDFClock())
	sc.edfTick(5)
	require.Equal(t, int64(15), sc.EDFClock())
}
