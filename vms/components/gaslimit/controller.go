// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shardnode/shardnode/ids"
	"github.com/shardnode/shardnode/utils/logging"
)

var errInvariantViolations = errors.New("gas limit controller observed invariant violations")

// SnapshotSource provides atomic reads of the per-shard chunk apply time
// histogram.
type SnapshotSource interface {
	GetSnapshot(shardID ids.ShardID) (LatencySnapshot, error)
}

// ChainState provides the per-shard chain values the controller decides on.
type ChainState interface {
	CurrentGasLimit(shardID ids.ShardID) (uint64, error)
	BacklogGas(shardID ids.ShardID) (*uint256.Int, error)
	LastApplyDuration(shardID ids.ShardID) (time.Duration, error)
}

// Controller decides the gas limit a shard's next chunk is produced with.
// Only the producing node runs it; validators take the decided value from
// the header.
type Controller struct {
	log      logging.Logger
	metrics  *metrics
	config   Config
	gate     Gate
	strategy Strategy
	source   SnapshotSource
	state    ChainState

	violationsLock sync.Mutex
	violations     uint64
	lastViolation  error
}

func NewController(
	log logging.Logger,
	registerer prometheus.Registerer,
	config Config,
	source SnapshotSource,
	state ChainState,
) (*Controller, error) {
	if err := config.Verify(); err != nil {
		return nil, fmt.Errorf("invalid gas limit config: %w", err)
	}
	strategy, err := NewStrategy(config)
	if err != nil {
		return nil, err
	}
	metrics, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("couldn't register gas limit metrics: %w", err)
	}
	return &Controller{
		log:      log,
		metrics:  metrics,
		config:   config,
		gate:     config.Gate(),
		strategy: strategy,
		source:   source,
		state:    state,
	}, nil
}

// Strategy returns the name of the strategy this controller decides with.
func (c *Controller) Strategy() StrategyName {
	return c.strategy.Name()
}

// Decide returns the gas limit of the chunk shard [shardID] produces at
// [height]. Strategies that require the gate pass the current limit through
// at heights the gate skips. Errors matching ErrInvariantViolated are not
// retryable and should be treated as a node health failure.
func (c *Controller) Decide(shardID ids.ShardID, height uint64) (uint64, error) {
	gasLimit, err := c.state.CurrentGasLimit(shardID)
	if err != nil {
		return 0, fmt.Errorf("couldn't get gas limit of shard %s: %w", shardID, err)
	}

	requires := c.strategy.Requires()
	if requires.Gated && !c.gate.ShouldAdjust(height) {
		c.metrics.skippedHeights.Inc()
		return gasLimit, nil
	}

	signals, err := c.signals(shardID, requires)
	if err != nil {
		return 0, c.fail(shardID, height, err)
	}

	newGasLimit, decision, err := NewGasLimit(c.strategy, gasLimit, c.config.AdjustmentFactor, signals)
	if err != nil {
		return 0, c.fail(shardID, height, err)
	}

	c.metrics.decisions.WithLabelValues(decision.Direction.String()).Inc()
	c.metrics.gasLimit.WithLabelValues(shardID.String()).Set(float64(newGasLimit))

	logFunc := c.log.Debug
	if decision.Direction != Noop {
		logFunc = c.log.Info
	}
	logFunc("decided gas limit",
		zap.Stringer("shardID", shardID),
		zap.Uint64("height", height),
		zap.Stringer("direction", decision.Direction),
		zap.String("reason", decision.Reason),
		zap.Uint64("oldGasLimit", gasLimit),
		zap.Uint64("newGasLimit", newGasLimit),
	)
	return newGasLimit, nil
}

func (c *Controller) signals(shardID ids.ShardID, requires Requirements) (Signals, error) {
	var (
		signals Signals
		err     error
	)
	if requires.Histogram {
		signals.Snapshot, err = c.source.GetSnapshot(shardID)
		if err != nil {
			return Signals{}, fmt.Errorf("couldn't get apply time histogram of shard %s: %w", shardID, err)
		}
	}
	if requires.Backlog {
		signals.BacklogGas, err = c.state.BacklogGas(shardID)
		if err != nil {
			return Signals{}, fmt.Errorf("couldn't get backlog of shard %s: %w", shardID, err)
		}
	}
	if requires.ApplyDuration {
		signals.LastApplyDuration, err = c.state.LastApplyDuration(shardID)
		if err != nil {
			return Signals{}, fmt.Errorf("couldn't get last apply duration of shard %s: %w", shardID, err)
		}
	}
	return signals, nil
}

// fail records [err] if it is an invariant violation and returns it.
func (c *Controller) fail(shardID ids.ShardID, height uint64, err error) error {
	if !errors.Is(err, ErrInvariantViolated) {
		return err
	}

	c.log.Error("gas limit decision aborted",
		zap.Stringer("shardID", shardID),
		zap.Uint64("height", height),
		zap.String("strategy", string(c.strategy.Name())),
		zap.Error(err),
	)
	c.metrics.invariantViolations.Inc()

	c.violationsLock.Lock()
	defer c.violationsLock.Unlock()

	c.violations++
	c.lastViolation = err
	return err
}

// HealthCheck reports unhealthy once any decision hit an invariant violation.
// The failure is sticky: a schema mismatch does not resolve itself.
func (c *Controller) HealthCheck(context.Context) (interface{}, error) {
	c.violationsLock.Lock()
	defer c.violationsLock.Unlock()

	details := map[string]interface{}{
		"strategy":            c.strategy.Name(),
		"invariantViolations": c.violations,
	}
	if c.violations == 0 {
		return details, nil
	}
	details["lastViolation"] = c.lastViolation.Error()
	return details, fmt.Errorf("%w: %d, last: %v", errInvariantViolations, c.violations, c.lastViolation)
}
