// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultAdjustmentInterval determines how often the gas limit may be
	// adjusted. The gas limit is not re-evaluated at every height to bound the
	// overhead of collecting and analysing apply time metrics.
	DefaultAdjustmentInterval uint64 = 10
	// DefaultAdjustmentFactor is the divisor of the per-decision step. It is
	// shared with header validation, which rejects any change larger than
	// gasLimit / AdjustmentFactor.
	DefaultAdjustmentFactor uint64 = 1000

	// DefaultNoopApplyTimeBucket is the histogram bound, in seconds, below
	// which a chunk is considered lightly loaded. At low load it is hard to
	// tell whether the node could handle more, so the periodic strategy does
	// not increase unless enough chunks land above it.
	DefaultNoopApplyTimeBucket = 0.5
	// DefaultTargetApplyTimeBucket is the histogram bound, in seconds, of the
	// maximum apply time we hope to see.
	DefaultTargetApplyTimeBucket = 1.0

	DefaultTargetApplyTime    = time.Second
	DefaultLoadIndicationTime = 500 * time.Millisecond
	// DefaultTargetBackoff keeps the instant strategy from oscillating when the
	// apply time sits right at the target.
	DefaultTargetBackoff = 50 * time.Millisecond

	ThresholdsV1Name     = "v1"
	ThresholdsLatestName = "latest"
)

var (
	// ThresholdsV1 are the thresholds of the first deployed revision.
	ThresholdsV1 = Thresholds{
		Noop:     0.5,
		Increase: 0.97,
		Decrease: 0.94,
	}
	// ThresholdsLatest are the thresholds of the current revision.
	ThresholdsLatest = Thresholds{
		Noop:     0.5,
		Increase: 0.99,
		Decrease: 0.99,
	}

	errZeroAdjustmentInterval   = errors.New("adjustment interval must be positive")
	errAdjustmentFactorTooSmall = errors.New("adjustment factor must be at least 2")
	errThresholdOutOfRange      = errors.New("threshold must be in [0, 1]")
	errIncreaseBelowDecrease    = errors.New("increase threshold must not be below decrease threshold")
	errUnknownStrategy          = errors.New("unknown strategy")
	errUnknownThresholdsPreset  = errors.New("unknown thresholds preset")
	errInvalidApplyTimes        = errors.New("load indication time must be below target apply time minus backoff")
	errNegativeApplyTime        = errors.New("apply times must be positive")
	errInvertedEveryHeight      = errors.New("inverted gate requires an adjustment interval above 1")
)

// Thresholds are the load ratios the histogram strategies compare against.
type Thresholds struct {
	// Noop is the maximum share of chunks at or below the noop bucket for an
	// increase to be considered.
	Noop float64 `json:"noop"`
	// Increase is the minimum share of chunks at or below the target bucket
	// for an increase.
	Increase float64 `json:"increase"`
	// Decrease is the share of chunks at or below the target bucket under
	// which the gas limit is decreased.
	Decrease float64 `json:"decrease"`
}

// ThresholdsPreset returns the thresholds of the revision named [name].
func ThresholdsPreset(name string) (Thresholds, error) {
	switch name {
	case ThresholdsV1Name:
		return ThresholdsV1, nil
	case ThresholdsLatestName:
		return ThresholdsLatest, nil
	default:
		return Thresholds{}, fmt.Errorf("%w: %q", errUnknownThresholdsPreset, name)
	}
}

func (t Thresholds) Verify() error {
	for _, threshold := range []float64{t.Noop, t.Increase, t.Decrease} {
		if !(threshold >= 0 && threshold <= 1) {
			return fmt.Errorf("%w: %v", errThresholdOutOfRange, threshold)
		}
	}
	if t.Increase < t.Decrease {
		return errIncreaseBelowDecrease
	}
	return nil
}

type Config struct {
	// Strategy selects the decision rule.
	Strategy StrategyName `json:"strategy"`

	// AdjustmentInterval is the height cadence at which the gas limit is
	// re-evaluated. 1 re-evaluates at every height.
	AdjustmentInterval uint64 `json:"adjustmentInterval"`
	// InvertedGate adjusts at heights that are not multiples of
	// AdjustmentInterval, matching the first deployed revision.
	InvertedGate bool `json:"invertedGate"`
	// AdjustmentFactor is the divisor of the step applied by one decision.
	AdjustmentFactor uint64 `json:"adjustmentFactor"`

	Thresholds Thresholds `json:"thresholds"`
	// NoopApplyTimeBucket and TargetApplyTimeBucket must be bounds of the
	// chunk apply time histogram.
	NoopApplyTimeBucket   float64 `json:"noopApplyTimeBucket"`
	TargetApplyTimeBucket float64 `json:"targetApplyTimeBucket"`

	// Used by the instant strategy.
	TargetApplyTime    time.Duration `json:"targetApplyTime"`
	LoadIndicationTime time.Duration `json:"loadIndicationTime"`
	TargetBackoff      time.Duration `json:"targetBackoff"`
}

// DefaultConfig returns the configuration of the latest revision.
func DefaultConfig() Config {
	return Config{
		Strategy:              PeriodicStrategy,
		AdjustmentInterval:    DefaultAdjustmentInterval,
		AdjustmentFactor:      DefaultAdjustmentFactor,
		Thresholds:            ThresholdsLatest,
		NoopApplyTimeBucket:   DefaultNoopApplyTimeBucket,
		TargetApplyTimeBucket: DefaultTargetApplyTimeBucket,
		TargetApplyTime:       DefaultTargetApplyTime,
		LoadIndicationTime:    DefaultLoadIndicationTime,
		TargetBackoff:         DefaultTargetBackoff,
	}
}

func (c Config) Verify() error {
	switch c.Strategy {
	case PeriodicStrategy, BacklogStrategy, InstantStrategy:
	default:
		return fmt.Errorf("%w: %q", errUnknownStrategy, c.Strategy)
	}
	switch {
	case c.AdjustmentInterval == 0:
		return errZeroAdjustmentInterval
	case c.InvertedGate && c.AdjustmentInterval == 1:
		return errInvertedEveryHeight
	case c.AdjustmentFactor < 2:
		return errAdjustmentFactorTooSmall
	case c.TargetApplyTime <= 0 || c.LoadIndicationTime < 0 || c.TargetBackoff < 0:
		return errNegativeApplyTime
	case c.LoadIndicationTime >= c.TargetApplyTime-c.TargetBackoff:
		return errInvalidApplyTimes
	}
	if err := c.Thresholds.Verify(); err != nil {
		return fmt.Errorf("invalid thresholds: %w", err)
	}
	for _, bound := range []float64{c.NoopApplyTimeBucket, c.TargetApplyTimeBucket} {
		if _, err := bucketPositions.position(bound); err != nil {
			return err
		}
	}
	return nil
}

// Gate returns the adjustment gate described by this config.
func (c Config) Gate() Gate {
	return Gate{
		Interval: c.AdjustmentInterval,
		Inverted: c.InvertedGate,
	}
}
