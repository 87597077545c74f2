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

package log

import (
	"os"
	"strings"
)

const (
	// debugEnvVar seeds per-source debug flags at process start.
	debugEnvVar = "LOGGER_DEBUG"
	// levelEnvVar seeds the default severity level at process start.
	levelEnvVar = "LOGGER_LEVEL"
)

// Options configures the logging registry. Unlike the CRD-backed
// configuration this is adapted from, schedsrv has no cluster config
// object to watch, so Options is just a plain struct passed in from
// flags or the environment.
type Options struct {
	// Level is the default severity; sources not named in Debug are
	// filtered at this level.
	Level Level
	// Debug lists sources ("*" or "all" for all) whose Debug messages are
	// emitted regardless of Level; their other messages are still filtered
	// at Level.
	Debug []string
}

// Configure applies opts to the process-wide registry.
func Configure(opts Options) {
	reg.setLevel(opts.Level)

	all := false
	sources := make(map[string]bool, len(opts.Debug))
	for _, src := range opts.Debug {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if src == "*" || src == "all" {
			all = true
			continue
		}
		sources[src] = true
	}
	reg.setDebug(all, sources)
}

func parseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return DefaultLevel, false
	}
}

func init() {
	opts := Options{Level: DefaultLevel}
	if v, ok := parseLevel(os.Getenv(levelEnvVar)); ok {
		opts.Level = v
	}
	if v, ok := os.LookupEnv(debugEnvVar); ok {
		opts.Debug = strings.Split(v, ",")
	}
	Configure(opts)
}

// DefaultLevel is the logging severity used when LOGGER_LEVEL is unset or
// not recognised, until Configure is called again.
const DefaultLevel = LevelInfo
