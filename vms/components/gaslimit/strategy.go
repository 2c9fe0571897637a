// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
)

const (
	// PeriodicStrategy adjusts from the apply time histogram alone.
	PeriodicStrategy StrategyName = "periodic"
	// BacklogStrategy adjusts from the apply time histogram and only increases
	// when there is unmet demand.
	BacklogStrategy StrategyName = "backlog"
	// InstantStrategy adjusts from the duration of the last applied chunk and
	// the backlog.
	InstantStrategy StrategyName = "instant"
)

type StrategyName string

// Requirements lists the signals a strategy reads. The controller only
// gathers what is required.
type Requirements struct {
	// Gated strategies are only evaluated at heights the adjustment gate
	// selects. Ungated strategies are evaluated at every height.
	Gated bool

	Histogram     bool
	Backlog       bool
	ApplyDuration bool
}

// Signals are the load readings a strategy decides on.
type Signals struct {
	Snapshot LatencySnapshot
	// BacklogGas is the gas of admitted but not yet applied work. nil is
	// treated as zero.
	BacklogGas        *uint256.Int
	LastApplyDuration time.Duration
}

func (s Signals) hasBacklog() bool {
	return s.BacklogGas != nil && !s.BacklogGas.IsZero()
}

// Strategy maps load signals to an adjustment direction. Implementations are
// pure: they keep no state between decisions.
type Strategy interface {
	Name() StrategyName
	Requires() Requirements
	Decide(signals Signals) (Decision, error)
}

// NewStrategy returns the strategy selected by [config]. [config] is expected
// to be verified.
func NewStrategy(config Config) (Strategy, error) {
	switch config.Strategy {
	case PeriodicStrategy:
		return &periodic{
			thresholds:   config.Thresholds,
			noopBucket:   config.NoopApplyTimeBucket,
			targetBucket: config.TargetApplyTimeBucket,
		}, nil
	case BacklogStrategy:
		return &backlog{
			thresholds:   config.Thresholds,
			targetBucket: config.TargetApplyTimeBucket,
		}, nil
	case InstantStrategy:
		return &instant{
			targetApplyTime:    config.TargetApplyTime,
			loadIndicationTime: config.LoadIndicationTime,
			targetBackoff:      config.TargetBackoff,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownStrategy, config.Strategy)
	}
}
