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

func TestNiceToPriorityBounds(t *testing.T) {
	q, err := niceToPriority(PrioMin)
	require.NoError(t, err)
	require.Equal(t, MaxUserQ, q)

	q, err = niceToPriority(PrioMax)
	require.NoError(t, err)
	require.Equal(t, MinUserQ, q)
}

func TestNiceToPriorityMidpoint(t *testing.T) {
	q, err := niceToPriority(0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, q, MaxUserQ)
	require.LessOrEqual(t, q, MinUserQ)
}

func TestNiceToPriorityMonotonic(t *testing.T) {
	prev := MaxUserQ - 1
	for nice := PrioMin; nice <= PrioMax; nice++ {
		q, err := niceToPriority(nice)
		require.NoError(t, err)
		require.GreaterOrEqual(t, q, prev, "mapping must be non-decreasing in nice")
		prev = q
	}
}

func TestNiceToPriorityOutOfRange(t *testing.T) {
	_, err := niceToPriority(PrioMin - 1)
	require.Error(t, err)
	require.Equal(t, EINVAL, CodeOf(err))

	_, err = niceToPriority(PrioMax + 1)
	require.Error(t, err)
	require.Equal(t, EINVAL, CodeOf(err))
}
