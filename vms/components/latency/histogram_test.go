// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package latency

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shardnode/shardnode/utils/metric"
	"github.com/shardnode/shardnode/vms/components/gaslimit"
)

func TestHistogramEmpty(t *testing.T) {
	require := require.New(t)

	h := NewHistogram()
	snapshot := h.Snapshot()
	require.Equal(gaslimit.EmptySnapshot(), snapshot)

	_, ok, err := gaslimit.Ratio(snapshot, gaslimit.DefaultTargetApplyTimeBucket)
	require.NoError(err)
	require.False(ok)
}

func TestHistogramObserve(t *testing.T) {
	require := require.New(t)

	h := NewHistogram()
	for _, duration := range []time.Duration{
		10 * time.Millisecond,   // 0.05
		50 * time.Millisecond,   // 0.05, bounds are inclusive
		300 * time.Millisecond,  // 0.5
		time.Second,             // 1.0
		1200 * time.Millisecond, // 1.3
		5 * time.Second,         // +Inf
	} {
		h.Observe(duration)
	}

	snapshot := h.Snapshot()
	require.Equal(uint64(6), snapshot.SampleCount)
	require.Len(snapshot.Buckets, len(metric.ChunkApplyTimeBuckets)+1)

	expected := []uint64{2, 3, 4, 5, 6}
	for i, bucket := range snapshot.Buckets {
		require.Equal(expected[i], bucket.CumulativeCount, "bucket %v", bucket.UpperBound)
	}
	require.Equal(metric.InfBound, snapshot.Buckets[len(snapshot.Buckets)-1].UpperBound)

	count, err := gaslimit.ReadBucket(snapshot, 0.5)
	require.NoError(err)
	require.Equal(uint64(3), count)
}

func TestHistogramSnapshotIsImmutable(t *testing.T) {
	require := require.New(t)

	h := NewHistogram()
	h.Observe(time.Millisecond)
	before := h.Snapshot()

	h.Observe(time.Millisecond)
	require.Equal(uint64(1), before.SampleCount)
	require.Equal(uint64(1), before.Buckets[0].CumulativeCount)
	require.Equal(uint64(2), h.Snapshot().SampleCount)
}

func TestHistogramConcurrentReads(t *testing.T) {
	require := require.New(t)

	const (
		numWriters      = 4
		numObservations = 1_000
	)

	h := NewHistogram()
	done := make(chan struct{})
	readerErrs := make(chan error, 1)
	go func() {
		defer close(readerErrs)
		for {
			select {
			case <-done:
				return
			default:
			}
			snapshot := h.Snapshot()
			for _, bound := range metric.ChunkApplyTimeBuckets {
				if _, err := gaslimit.ReadBucket(snapshot, bound); err != nil {
					readerErrs <- err
					return
				}
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < numObservations; j++ {
				h.Observe(time.Duration(i*j) * time.Millisecond)
			}
		}(i)
	}
	wg.Wait()
	close(done)

	for err := range readerErrs {
		require.NoError(err)
	}
	require.Equal(uint64(numWriters*numObservations), h.Snapshot().SampleCount)
}
