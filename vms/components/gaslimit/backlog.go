// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import "fmt"

var _ Strategy = (*backlog)(nil)

// backlog only increases when chunks finish in time and there is admitted
// work waiting, so an idle shard never grows its gas limit.
type backlog struct {
	thresholds   Thresholds
	targetBucket float64
}

func (*backlog) Name() StrategyName {
	return BacklogStrategy
}

func (*backlog) Requires() Requirements {
	return Requirements{
		Gated:     true,
		Histogram: true,
		Backlog:   true,
	}
}

func (b *backlog) Decide(signals Signals) (Decision, error) {
	ratioTarget, ok, err := Ratio(signals.Snapshot, b.targetBucket)
	if err != nil || !ok {
		return noEvidenceDecision, err
	}

	switch {
	case ratioTarget < b.thresholds.Decrease:
		return Decision{
			Direction: Decrease,
			Reason:    fmt.Sprintf("%.4f of chunks within target, below %.4f", ratioTarget, b.thresholds.Decrease),
		}, nil
	case ratioTarget > b.thresholds.Increase && signals.hasBacklog():
		return Decision{
			Direction: Increase,
			Reason:    fmt.Sprintf("%.4f of chunks within target with %s backlog gas", ratioTarget, signals.BacklogGas.Dec()),
		}, nil
	default:
		return Decision{
			Direction: Noop,
			Reason:    fmt.Sprintf("%.4f of chunks within target", ratioTarget),
		}, nil
	}
}
