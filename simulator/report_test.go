// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package simulator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShardReportRecord(t *testing.T) {
	require := require.New(t)

	r := ShardReport{MinGasLimit: math.MaxUint64}
	r.record(1_000, 600, time.Second, false)
	r.record(1_001, 1_001, 2*time.Second, true)
	r.record(1_000, 900, time.Second, true)

	require.Equal(uint64(1_000), r.InitialGasLimit)
	require.Equal(uint64(1_000), r.FinalGasLimit)
	require.Equal(uint64(1_000), r.MinGasLimit)
	require.Equal(uint64(1_001), r.MaxGasLimit)
	require.Equal(uint64(1), r.Increases)
	require.Equal(uint64(1), r.Decreases)
	require.Equal(uint64(2_501), r.IncludedGas)
	require.Equal(2*time.Second, r.MaxApplyTime)
}

func TestShardReportIncludedGasSaturates(t *testing.T) {
	require := require.New(t)

	r := ShardReport{MinGasLimit: math.MaxUint64}
	r.record(math.MaxUint64, math.MaxUint64-1, time.Second, false)
	r.record(math.MaxUint64, 2, time.Second, true)
	require.Equal(uint64(math.MaxUint64), r.IncludedGas)

	r.record(math.MaxUint64, 1, time.Second, true)
	require.Equal(uint64(math.MaxUint64), r.IncludedGas)
}
