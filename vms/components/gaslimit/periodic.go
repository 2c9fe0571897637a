// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import "fmt"

var _ Strategy = (*periodic)(nil)

// periodic assumes constant load close to what the node can handle. This
// holds in benchmark runs and allows simple logic to determine adjustments.
type periodic struct {
	thresholds   Thresholds
	noopBucket   float64
	targetBucket float64
}

func (*periodic) Name() StrategyName {
	return PeriodicStrategy
}

func (*periodic) Requires() Requirements {
	return Requirements{
		Gated:     true,
		Histogram: true,
	}
}

func (p *periodic) Decide(signals Signals) (Decision, error) {
	ratioNoop, ok, err := Ratio(signals.Snapshot, p.noopBucket)
	if err != nil || !ok {
		return noEvidenceDecision, err
	}
	ratioTarget, ok, err := Ratio(signals.Snapshot, p.targetBucket)
	if err != nil || !ok {
		return noEvidenceDecision, err
	}

	switch {
	case ratioTarget < p.thresholds.Decrease:
		// Too many chunks exceed the target, regardless of the load level.
		return Decision{
			Direction: Decrease,
			Reason:    fmt.Sprintf("%.4f of chunks within target, below %.4f", ratioTarget, p.thresholds.Decrease),
		}, nil
	case ratioNoop < p.thresholds.Noop && ratioTarget >= p.thresholds.Increase:
		// Enough chunks are loaded and nearly all of them finish in time.
		return Decision{
			Direction: Increase,
			Reason:    fmt.Sprintf("%.4f of chunks lightly loaded and %.4f within target", ratioNoop, ratioTarget),
		}, nil
	default:
		return Decision{
			Direction: Noop,
			Reason:    fmt.Sprintf("%.4f of chunks lightly loaded and %.4f within target", ratioNoop, ratioTarget),
		}, nil
	}
}
