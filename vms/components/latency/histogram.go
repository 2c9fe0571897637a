// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package latency

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shardnode/shardnode/utils/metric"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
)

// Histogram records the chunk apply times of a single shard.
//
// Writers are serialized and every observation publishes a new immutable
// snapshot, so a reader never sees bucket counts that disagree with the
// sample count.
type Histogram struct {
	bounds []float64

	lock   sync.Mutex
	counts []uint64 // per bucket, the last bucket is +Inf
	sum    float64

	current atomic.Pointer[snapshot]
}

type snapshot struct {
	latency gaslimit.LatencySnapshot
	sum     float64
}

func NewHistogram() *Histogram {
	bounds := make([]float64, len(metric.ChunkApplyTimeBuckets))
	copy(bounds, metric.ChunkApplyTimeBuckets)

	h := &Histogram{
		bounds: bounds,
		counts: make([]uint64, len(bounds)+1),
	}
	h.current.Store(&snapshot{
		latency: gaslimit.EmptySnapshot(),
	})
	return h
}

// Observe records a chunk that took [duration] to apply.
func (h *Histogram) Observe(duration time.Duration) {
	seconds := duration.Seconds()
	// Buckets are inclusive of their upper bound.
	index := sort.SearchFloat64s(h.bounds, seconds)

	h.lock.Lock()
	defer h.lock.Unlock()

	h.counts[index]++
	h.sum += seconds

	buckets := make([]gaslimit.Bucket, len(h.counts))
	var cumulative uint64
	for i, count := range h.counts {
		cumulative += count
		upperBound := metric.InfBound
		if i < len(h.bounds) {
			upperBound = h.bounds[i]
		}
		buckets[i] = gaslimit.Bucket{
			UpperBound:      upperBound,
			CumulativeCount: cumulative,
		}
	}
	h.current.Store(&snapshot{
		latency: gaslimit.LatencySnapshot{
			Buckets:     buckets,
			SampleCount: cumulative,
		},
		sum: h.sum,
	})
}

// Snapshot returns the most recently published snapshot. The returned buckets
// must not be modified.
func (h *Histogram) Snapshot() gaslimit.LatencySnapshot {
	return h.current.Load().latency
}

func (h *Histogram) load() *snapshot {
	return h.current.Load()
}
