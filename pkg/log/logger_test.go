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

package log_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minix-sched/schedsrv/pkg/log"
)

func TestGetReturnsNamedLogger(t *testing.T) {
	l := log.Get("widget")
	require.Equal(t, "widget", l.Source())
}

func TestDefaultSourceIsDefault(t *testing.T) {
	require.Equal(t, "default", log.Default().Source())
}

func TestConfigureLevelFiltersAcrossSources(t *testing.T) {
	defer log.Configure(log.Options{Level: log.LevelInfo})

	log.Configure(log.Options{Level: log.LevelError})
	l := log.Get("quiet")
	// Nothing to assert on output directly without capturing the
	// handler's writer; this just exercises that Configure and logging
	// calls at every level don't panic once the level is raised.
	l.Debug("should be filtered")
	l.Info("should be filtered")
	l.Warn("should be filtered")
	l.Error("should pass through")
}

func TestConfigureDebugOverridesBySource(t *testing.T) {
	defer log.Configure(log.Options{Level: log.LevelInfo})

	log.Configure(log.Options{Level: log.LevelWarn, Debug: []string{"noisy"}})
	log.Get("noisy").Debug("forced on despite level")
	log.Get("quiet").Debug("still filtered")
}
