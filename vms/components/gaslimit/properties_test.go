// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/exp/slices"

	"github.com/shardnode/shardnode/utils/metric"
)

func TestStepProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("step keeps the gas limit positive and bounded", prop.ForAll(
		func(gasLimit, factor uint64, direction Direction) string {
			newGasLimit, err := Step(gasLimit, factor, direction)
			if err != nil {
				if direction == Increase && gasLimit > math.MaxUint64-gasLimit/factor {
					return ""
				}
				return fmt.Sprintf("unexpected error %v", err)
			}
			if newGasLimit == 0 {
				return "gas limit dropped to zero"
			}

			step := gasLimit / factor
			var diff uint64
			if newGasLimit > gasLimit {
				diff = newGasLimit - gasLimit
			} else {
				diff = gasLimit - newGasLimit
			}
			switch direction {
			case Noop:
				if diff != 0 {
					return fmt.Sprintf("noop changed the gas limit by %d", diff)
				}
			default:
				if diff != step {
					return fmt.Sprintf("expected a change of %d but got %d", step, diff)
				}
			}
			if direction == Decrease && newGasLimit > gasLimit {
				return "decrease raised the gas limit"
			}
			if direction == Increase && newGasLimit < gasLimit {
				return "increase lowered the gas limit"
			}
			return ""
		},
		gen.UInt64Range(1, math.MaxUint64),
		gen.UInt64Range(2, 1_000_000),
		gen.OneConstOf(Noop, Increase, Decrease),
	))

	properties.TestingRun(t)
}

func TestGateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("gate depends only on the height", prop.ForAll(
		func(interval, height uint64, inverted bool) string {
			if interval == 1 {
				inverted = false
			}
			gate := Gate{
				Interval: interval,
				Inverted: inverted,
			}
			first := gate.ShouldAdjust(height)
			for i := 0; i < 3; i++ {
				if gate.ShouldAdjust(height) != first {
					return "gate changed its answer for the same height"
				}
			}
			if gate.ShouldAdjust(height+interval) != first {
				return "gate is not periodic in the interval"
			}
			return ""
		},
		gen.UInt64Range(1, 1_000),
		gen.UInt64Range(0, math.MaxUint64/2),
		gen.Bool(),
	))

	properties.Property("gate passes every interval", prop.ForAll(
		func(interval, height uint64) string {
			gate := Gate{Interval: interval}
			if !gate.ShouldAdjust(height * interval) {
				return fmt.Sprintf("height %d was skipped", height*interval)
			}
			return ""
		},
		gen.UInt64Range(1, 1_000),
		gen.UInt64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}

func TestStrategyProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	for _, name := range []StrategyName{PeriodicStrategy, BacklogStrategy} {
		name := name
		properties.Property(fmt.Sprintf("%s decides on any well formed histogram", name), prop.ForAll(
			func(counts []uint64, extra uint64) string {
				config := DefaultConfig()
				config.Strategy = name
				strategy, err := NewStrategy(config)
				if err != nil {
					return fmt.Sprintf("unexpected error %v", err)
				}

				slices.Sort(counts)
				sampleCount := counts[len(counts)-1] + extra
				snapshot := newTestSnapshot(sampleCount, counts...)

				decision, err := strategy.Decide(Signals{Snapshot: snapshot})
				if err != nil {
					return fmt.Sprintf("unexpected error %v", err)
				}
				if sampleCount == 0 && decision.Direction != Noop {
					return fmt.Sprintf("empty histogram decided %s", decision.Direction)
				}
				if name == BacklogStrategy && decision.Direction == Increase {
					return "increased without a backlog"
				}
				return ""
			},
			gen.SliceOfN(len(metric.ChunkApplyTimeBuckets), gen.UInt64Range(0, 1_000)),
			gen.UInt64Range(0, 1_000),
		))
	}

	properties.TestingRun(t)
}
