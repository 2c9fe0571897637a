// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"fmt"
	"time"
)

var _ Strategy = (*instant)(nil)

// instant reacts to the last applied chunk. It needs no histogram.
type instant struct {
	targetApplyTime    time.Duration
	loadIndicationTime time.Duration
	targetBackoff      time.Duration
}

func (*instant) Name() StrategyName {
	return InstantStrategy
}

func (*instant) Requires() Requirements {
	return Requirements{
		Backlog:       true,
		ApplyDuration: true,
	}
}

func (i *instant) Decide(signals Signals) (Decision, error) {
	duration := signals.LastApplyDuration
	switch {
	case duration > i.targetApplyTime:
		return Decision{
			Direction: Decrease,
			Reason:    fmt.Sprintf("last chunk applied in %s, above %s", duration, i.targetApplyTime),
		}, nil
	case duration > i.loadIndicationTime &&
		duration <= i.targetApplyTime-i.targetBackoff &&
		signals.hasBacklog():
		return Decision{
			Direction: Increase,
			Reason:    fmt.Sprintf("last chunk applied in %s with %s backlog gas", duration, signals.BacklogGas.Dec()),
		}, nil
	default:
		return Decision{
			Direction: Noop,
			Reason:    fmt.Sprintf("last chunk applied in %s", duration),
		}, nil
	}
}
