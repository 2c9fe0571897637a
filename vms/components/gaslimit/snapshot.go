// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import "github.com/shardnode/shardnode/utils/metric"

// Bucket is one bound of a cumulative histogram.
type Bucket struct {
	// UpperBound of the bucket, in seconds.
	UpperBound float64
	// CumulativeCount is the number of samples at or below UpperBound.
	CumulativeCount uint64
}

// LatencySnapshot is an immutable, internally consistent read of a shard's
// chunk apply time histogram.
type LatencySnapshot struct {
	// Buckets are ordered by UpperBound. The last bucket is +Inf.
	Buckets     []Bucket
	SampleCount uint64
}

// EmptySnapshot returns a snapshot with the chunk apply time schema and no
// samples.
func EmptySnapshot() LatencySnapshot {
	buckets := make([]Bucket, 0, len(metric.ChunkApplyTimeBuckets)+1)
	for _, bound := range metric.ChunkApplyTimeBuckets {
		buckets = append(buckets, Bucket{UpperBound: bound})
	}
	buckets = append(buckets, Bucket{UpperBound: metric.InfBound})
	return LatencySnapshot{Buckets: buckets}
}
