// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package gaslimit

import (
	"errors"
	"fmt"
	"math"

	"github.com/shardnode/shardnode/utils/metric"
)

// boundEpsilon is the tolerance used when matching histogram bounds.
const boundEpsilon = 1e-9

var (
	// ErrInvariantViolated means the apply time histogram and the controller
	// disagree on the histogram schema. It is not retryable: the metrics
	// configuration and the controller have drifted apart.
	ErrInvariantViolated = errors.New("internal invariant violated")
	// ErrUnsupportedThreshold is returned when a bucket is requested for a
	// bound outside of the histogram's declared bounds.
	ErrUnsupportedThreshold = fmt.Errorf("%w: unsupported threshold", ErrInvariantViolated)

	errMissingBucket     = fmt.Errorf("%w: histogram is missing bucket", ErrInvariantViolated)
	errMismatchedBucket  = fmt.Errorf("%w: histogram bucket has unexpected upper bound", ErrInvariantViolated)
	errCountExceedsTotal = fmt.Errorf("%w: cumulative count exceeds sample count", ErrInvariantViolated)

	bucketPositions = newBoundIndex(metric.ChunkApplyTimeBuckets)
)

// boundIndex maps a histogram upper bound to its position in the histogram.
type boundIndex []float64

func newBoundIndex(bounds []float64) boundIndex {
	index := make(boundIndex, len(bounds))
	copy(index, bounds)
	return index
}

func (b boundIndex) position(upperBound float64) (int, error) {
	for i, bound := range b {
		if approxEqual(bound, upperBound) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedThreshold, upperBound)
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < boundEpsilon
}

// ReadBucket returns the number of samples of [snapshot] at or below
// [upperBound]. [upperBound] must be one of metric.ChunkApplyTimeBuckets.
func ReadBucket(snapshot LatencySnapshot, upperBound float64) (uint64, error) {
	pos, err := bucketPositions.position(upperBound)
	if err != nil {
		return 0, err
	}
	return readPosition(snapshot, pos, upperBound)
}

func readPosition(snapshot LatencySnapshot, pos int, upperBound float64) (uint64, error) {
	if pos >= len(snapshot.Buckets) {
		return 0, fmt.Errorf("%w: want bucket %d with upper bound %v but histogram has %d buckets",
			errMissingBucket,
			pos,
			upperBound,
			len(snapshot.Buckets),
		)
	}
	bucket := snapshot.Buckets[pos]
	if !approxEqual(bucket.UpperBound, upperBound) {
		return 0, fmt.Errorf("%w: want %v but got %v",
			errMismatchedBucket,
			upperBound,
			bucket.UpperBound,
		)
	}
	if bucket.CumulativeCount > snapshot.SampleCount {
		return 0, fmt.Errorf("%w: %d > %d",
			errCountExceedsTotal,
			bucket.CumulativeCount,
			snapshot.SampleCount,
		)
	}
	return bucket.CumulativeCount, nil
}

// Ratio returns the share of samples of [snapshot] at or below [upperBound].
// If the snapshot holds no samples there is no evidence and false is returned.
func Ratio(snapshot LatencySnapshot, upperBound float64) (float64, bool, error) {
	pos, err := bucketPositions.position(upperBound)
	if err != nil {
		return 0, false, err
	}
	if snapshot.SampleCount == 0 {
		return 0, false, nil
	}
	count, err := readPosition(snapshot, pos, upperBound)
	if err != nil {
		return 0, false, err
	}
	return float64(count) / float64(snapshot.SampleCount), true, nil
}
