// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"github.com/shardnode/shardnode/utils/metric"
)

// newTestSnapshot builds a snapshot with [sampleCount] samples. [cumulative]
// holds the cumulative counts of the finite bounds in order; missing values
// default to [sampleCount].
func newTestSnapshot(sampleCount uint64, cumulative ...uint64) LatencySnapshot {
	snapshot := EmptySnapshot()
	snapshot.SampleCount = sampleCount
	for i := range metric.ChunkApplyTimeBuckets {
		count := sampleCount
		if i < len(cumulative) {
			count = cumulative[i]
		}
		snapshot.Buckets[i].CumulativeCount = count
	}
	snapshot.Buckets[len(snapshot.Buckets)-1].CumulativeCount = sampleCount
	return snapshot
}
