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
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sys/unix"

	"github.com/minix-sched/schedsrv/pkg/log"
	"github.com/minix-sched/schedsrv/pkg/sched"
)

// options captures our command line parameters.
type options struct {
	NumSlots       int
	NumCPU         int
	BootCPU        int
	ReincarnationServer int
	InitialPolicy  string
	LogLevel       string
	LogDebug       string
	ReloadSignal   string
	MetricsAddr    string
}

var opt = options{}

func init() {
	flag.IntVar(&opt.NumSlots, "num-slots", 256,
		"Fixed capacity of the scheduling process table.")
	flag.IntVar(&opt.NumCPU, "num-cpu", 1,
		"Number of CPUs in the load map.")
	flag.IntVar(&opt.BootCPU, "boot-cpu", 0,
		"Boot processor id.")
	flag.IntVar(&opt.ReincarnationServer, "reincarnation-server", 2,
		"Endpoint whose children are treated as system processes.")
	flag.StringVar(&opt.InitialPolicy, "policy", "default",
		"Initial scheduling policy: default, lottery, or edf.")
	flag.StringVar(&opt.LogLevel, "log-level", "info",
		"Default logging severity: debug, info, warn, or error.")
	flag.StringVar(&opt.LogDebug, "log-debug", "",
		"Comma-separated list of logger sources to force into debug (use '*' for all).")
	flag.StringVar(&opt.ReloadSignal, "reload-signal", "SIGHUP",
		"Signal that switches the active scheduling policy. Use 'disable' to turn off.")
	flag.StringVar(&opt.MetricsAddr, "metrics-listen", "",
		"Address to serve /metrics on (e.g. :9107). Empty disables the endpoint.")
}

func parsePolicy(s string) (sched.Policy, error) {
	switch strings.ToLower(s) {
	case "default", "mlfq":
		return sched.Default, nil
	case "lottery":
		return sched.Lottery, nil
	case "edf":
		return sched.EDF, nil
	default:
		return sched.Default, fmt.Errorf("unknown policy %q", s)
	}
}

func parseLevel(s string) log.Level {
	switch strings.ToLower(s) {
	case "debug":
		return log.LevelDebug
	case "warn", "warning":
		return log.LevelWarn
	case "error":
		return log.LevelError
	default:
		return log.LevelInfo
	}
}

// setupPolicySignal arms signame to call sc.SwitchPolicy on receipt, the
// schedsrv analogue of the kernel sending SCHEDULING_SETPOLICY.
func setupPolicySignal(sc *sched.Scheduler, signame string) error {
	if signame == "" || strings.HasPrefix(strings.ToLower(signame), "disable") {
		return nil
	}

	sig := unix.SignalNum(signame)
	if sig == 0 {
		return fmt.Errorf("invalid policy reload signal %q", signame)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, sig)

	go func() {
		for range signals {
			p := sc.SwitchPolicy()
			log.Default().Info("signal %s: switched scheduling policy to %s", signame, p)
		}
	}()
	return nil
}

func main() {
	flag.Parse()
	log.Configure(log.Options{
		Level: parseLevel(opt.LogLevel),
		Debug: strings.Split(opt.LogDebug, ","),
	})

	policy, err := parsePolicy(opt.InitialPolicy)
	if err != nil {
		log.Default().Error("%v", err)
		os.Exit(1)
	}

	kernel := newKernelClient()

	sc, err := sched.New(sched.Options{
		NumSlots:            opt.NumSlots,
		NumCPU:              opt.NumCPU,
		BootCPU:             opt.BootCPU,
		ReincarnationServer: sched.Endpoint(opt.ReincarnationServer),
		Kernel:              kernel,
		InitialPolicy:       policy,
	})
	if err != nil {
		log.Default().Error("failed to create scheduler: %v", err)
		os.Exit(1)
	}
	sc.Start()

	registry := prometheus.NewRegistry()
	for _, c := range sc.MetricsCollectors() {
		if err := registry.Register(c); err != nil {
			log.Default().Warn("failed to register metric: %v", err)
		}
	}
	if opt.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(opt.MetricsAddr, mux); err != nil {
				log.Default().Error("metrics endpoint stopped: %v", err)
			}
		}()
		log.Default().Info("serving metrics on %s/metrics", opt.MetricsAddr)
	}

	if err := setupPolicySignal(sc, opt.ReloadSignal); err != nil {
		log.Default().Error("%v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	term := make(chan os.Signal, 1)
	signal.Notify(term, unix.SIGTERM, unix.SIGINT)
	go func() {
		<-term
		log.Default().Info("shutting down...")
		cancel()
	}()

	log.Default().Info("schedsrv starting with policy %s, %d slot(s), %d cpu(s)",
		policy, opt.NumSlots, opt.NumCPU)
	sc.Run(ctx)
}
