// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package mockable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockSet(t *testing.T) {
	require := require.New(t)

	clock := Clock{}
	clock.Set(time.Unix(1000000, 0))
	require.True(clock.faked)
	require.Equal(time.Unix(1000000, 0), clock.Time())

	clock.Sync()
	require.False(clock.faked)
}

func TestClockAdvance(t *testing.T) {
	require := require.New(t)

	start := time.Unix(1000000, 0)
	clock := Clock{}
	clock.Set(start)
	clock.Advance(1500 * time.Millisecond)

	require.Equal(start.Add(1500*time.Millisecond), clock.Time())
	require.Equal(1500*time.Millisecond, clock.Since(start))
}
