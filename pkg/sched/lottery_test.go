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

// fixedTicket always returns the same ticket, for deterministic
// assertions about which slot wins a draw.
type fixedTicket struct{ n int }

func (f fixedTicket) Intn(int) int { return f.n }

func TestLotteryPickNoWaitersIsNoop(t *testing.T) {
	k := newMockKernel()
	sc := newTestScheduler(t, k, 1)
	require.NoError(t, sc.lotteryPick())
	require.Empty(t, k.calls)
}

func TestLotteryPickPromotesWeightedWinner(t *testing.T) {
	k := newMockKernel()
	sc := newTestScheduler(t, k, 1)
	sc.rng = fixedTicket{n: 3} // Intn(6)+1 = 4, inside slot 1's ticket range (2,6]

	sc.table[0] = Slot{inUse: true, Endpoint: 1, Priority: MinUserQ, LotteryNum: 2}
	sc.table[1] = Slot{inUse: true, Endpoint: 2, Priority: MinUserQ, LotteryNum: 4}

	require.NoError(t, sc.lotteryPick())
	require.Equal(t, UserQ, sc.table[1].Priority)
	require.Equal(t, MinUserQ, sc.table[0].Priority)
	require.Len(t, k.calls, 1)
	require.Equal(t, Endpoint(2), k.calls[0].endpoint)
}

func TestLotteryPickIgnoresNonWaiting(t *testing.T) {
	k := newMockKernel()
	sc := newTestScheduler(t, k, 1)

	sc.table[0] = Slot{inUse: true, Endpoint: 1, Priority: UserQ, LotteryNum: 5}
	require.NoError(t, sc.lotteryPick())
	require.Empty(t, k.calls)
}
