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

import "math/rand"

// TicketSource draws a uniform random integer in [0, total); lotteryPick
// adds one to it to get a ticket in [1, total]. It is injected
// rather than pulled from a process-global PRNG so lottery picks are
// reproducible in tests (spec §9 design note).
type TicketSource interface {
	Intn(total int) int
}

// mathRandSource adapts *math/rand.Rand to TicketSource.
type mathRandSource struct {
	r *rand.Rand
}

// NewSeededSource returns a TicketSource seeded deterministically, for
// tests and for reproducible simulation runs.
func NewSeededSource(seed int64) TicketSource {
	return &mathRandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathRandSource) Intn(total int) int {
	return s.r.Intn(total)
}
