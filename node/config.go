// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"errors"
	"fmt"
	"time"

	"github.com/shardnode/shardnode/simulator"
	"github.com/shardnode/shardnode/utils/logging"
	"github.com/shardnode/shardnode/vms/components/chainstate"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
)

const (
	// LatencySourceRegistry reads apply times from the in-process histograms.
	LatencySourceRegistry = "registry"
	// LatencySourcePrometheus records and reads apply times through a
	// prometheus histogram vector.
	LatencySourcePrometheus = "prometheus"
)

var (
	errUnknownLatencySource = errors.New("unknown latency source")
	errZeroHealthCheckFreq  = errors.New("health check frequency must be positive")
	errFactorMismatch       = errors.New("chain state and gas limit adjustment factors differ")
	errZeroInitialGasLimit  = errors.New("initial gas limit must be positive")
)

type HTTPConfig struct {
	Enabled           bool          `json:"enabled"`
	Host              string        `json:"host"`
	Port              uint16        `json:"port"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`
}

// Config contains all of the configurations of a node.
type Config struct {
	GasLimit   gaslimit.Config   `json:"gasLimitConfig"`
	ChainState chainstate.Config `json:"chainStateConfig"`
	Simulator  simulator.Config  `json:"simulatorConfig"`
	Logging    logging.Config    `json:"loggingConfig"`
	HTTP       HTTPConfig        `json:"httpConfig"`

	HealthCheckFrequency time.Duration `json:"healthCheckFrequency"`
	LatencySource        string        `json:"latencySource"`
	MetricsNamespace     string        `json:"metricsNamespace"`
}

func (c *Config) Verify() error {
	if err := c.GasLimit.Verify(); err != nil {
		return fmt.Errorf("invalid gas limit config: %w", err)
	}
	if err := c.Simulator.Verify(); err != nil {
		return fmt.Errorf("invalid simulator config: %w", err)
	}
	switch {
	case c.ChainState.InitialGasLimit == 0:
		return errZeroInitialGasLimit
	case c.ChainState.AdjustmentFactor != 0 && c.ChainState.AdjustmentFactor != c.GasLimit.AdjustmentFactor:
		return fmt.Errorf("%w: %d != %d",
			errFactorMismatch,
			c.ChainState.AdjustmentFactor,
			c.GasLimit.AdjustmentFactor,
		)
	case c.HealthCheckFrequency <= 0:
		return errZeroHealthCheckFreq
	}
	switch c.LatencySource {
	case LatencySourceRegistry, LatencySourcePrometheus:
		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownLatencySource, c.LatencySource)
	}
}
