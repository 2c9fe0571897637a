// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shardnode/shardnode/utils/wrappers"
)

const (
	metricsNamespace = "gas_limit"
	directionLabel   = "direction"
	shardLabel       = "shard"
)

type metrics struct {
	decisions           *prometheus.CounterVec
	skippedHeights      prometheus.Counter
	gasLimit            *prometheus.GaugeVec
	invariantViolations prometheus.Counter
}

func newMetrics(registerer prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "decisions",
				Help:      "number of gas limit decisions by direction",
			},
			[]string{directionLabel},
		),
		skippedHeights: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "skipped_heights",
			Help:      "number of heights the adjustment gate did not re-evaluate",
		}),
		gasLimit: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "decided",
				Help:      "most recently decided gas limit",
			},
			[]string{shardLabel},
		),
		invariantViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invariant_violations",
			Help:      "number of decisions aborted because the histogram schema did not match",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(m.decisions),
		registerer.Register(m.skippedHeights),
		registerer.Register(m.gasLimit),
		registerer.Register(m.invariantViolations),
	)
	return m, errs.Err
}
