// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metric

import "math"

var (
	// ChunkApplyTimeBuckets are the upper bounds, in seconds, of the chunk
	// apply time histogram. The gas limit controller reads cumulative counts
	// for these exact bounds, so the set is part of the controller's schema.
	ChunkApplyTimeBuckets = []float64{
		0.05, // trivial chunk
		0.5,  // loaded
		1.0,  // target apply time
		1.3,  // over target
		// anything larger than 1.3 seconds will be bucketed together
	}

	// InfBound is the implicit upper bound of the last histogram bucket.
	InfBound = math.Inf(1)
)
